package session

// PermissionStatus is the answer of a permission gate check.
type PermissionStatus uint8

const (
	PermissionDenied PermissionStatus = iota
	PermissionGranted
	PermissionNeedsRationale
)

func (p PermissionStatus) String() string {
	switch p {
	case PermissionGranted:
		return "granted"
	case PermissionNeedsRationale:
		return "needs-rationale"
	default:
		return "denied"
	}
}

// PermissionGate guards access to the microphone.
//
// Request and Refused are asynchronous. A gate delivers the outcome of
// Request through Controller.OnPermissionResult.
type PermissionGate interface {
	Check() PermissionStatus
	Request(withRationale bool)
	// Refused is called after a request was answered with a denial. The gate
	// decides between explaining the rationale again and pointing the user
	// at the settings.
	Refused()
}

// CaptureHandle is an open recording.
type CaptureHandle interface {
	// CurrentAmplitude returns the peak input amplitude since the previous
	// call, or 0 when nothing was sampled.
	CurrentAmplitude() int
	Close() error
}

// CaptureBackend opens recordings.
type CaptureBackend interface {
	OpenCapture(path string) (CaptureHandle, error)
}

// PlaybackHandle is an open playback.
type PlaybackHandle interface {
	// OnCompletion registers fn to run once when playback reaches its end.
	// It is never invoked after Close.
	OnCompletion(fn func())
	Close() error
}

// PlaybackBackend opens playbacks.
type PlaybackBackend interface {
	OpenPlayback(path string) (PlaybackHandle, error)
}

// Observer receives the output of a controller. Calls are synchronous and
// may come from the timer goroutine, so implementations must not call back
// into the controller from OnTick.
type Observer interface {
	OnStateChanged(change StateChange)
	OnTick(tick Tick)
	OnFailure(err error)
}

type nopObserver struct{}

func (nopObserver) OnStateChanged(StateChange) {}
func (nopObserver) OnTick(Tick)                {}
func (nopObserver) OnFailure(error)            {}
