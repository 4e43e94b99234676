package audio

import (
	"encoding/binary"
	"errors"
	"io"
	"sync/atomic"
)

// peakMeter tracks the largest absolute sample of a signed 16-bit
// little-endian PCM stream since the last time it was read.
type peakMeter struct {
	peak atomic.Int32
}

// run consumes r until EOF. A trailing odd byte is ignored.
func (m *peakMeter) run(r io.Reader) error {
	buf := make([]byte, 4096)
	var carry []byte

	for {
		n, err := r.Read(buf)
		if n > 0 {
			data := buf[:n]
			if len(carry) > 0 {
				data = append(carry, data...)
				carry = nil
			}
			if len(data)%2 == 1 {
				carry = []byte{data[len(data)-1]}
				data = data[:len(data)-1]
			}
			m.observe(data)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func (m *peakMeter) observe(pcm []byte) {
	var peak int32
	for i := 0; i+1 < len(pcm); i += 2 {
		v := int32(int16(binary.LittleEndian.Uint16(pcm[i:])))
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	// -32768 folds to 32768; clamp to the int16 range.
	if peak > 32767 {
		peak = 32767
	}

	for {
		cur := m.peak.Load()
		if peak <= cur || m.peak.CompareAndSwap(cur, peak) {
			return
		}
	}
}

// take returns the peak since the previous call and resets it.
func (m *peakMeter) take() int {
	return int(m.peak.Swap(0))
}
