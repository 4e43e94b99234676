package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/audiolibrelab/memocapture/internal/service"
)

// executePipeline runs the pipeline steps that follow startStep.
func executePipeline(ctx context.Context, startStep rune) error {
	if pipeline == "" {
		return nil
	}

	steps := []rune(strings.ToLower(pipeline))

	// Find the starting position in the pipeline
	startIndex := -1
	for i, step := range steps {
		if step == startStep {
			startIndex = i
			break
		}
	}

	if startIndex == -1 {
		return fmt.Errorf("step '%c' not found in pipeline '%s'", startStep, pipeline)
	}

	return runSteps(ctx, steps[startIndex+1:], recordLimit)
}

// runSteps executes steps in order on one service.
func runSteps(ctx context.Context, steps []rune, recordLimit time.Duration) error {
	if len(steps) == 0 {
		return nil
	}

	svc, con, err := newHeadlessService(os.Stdout, service.Options{})
	if err != nil {
		return err
	}
	defer svc.Close()

	for i, step := range steps {
		fmt.Printf("Pipeline: executing step %d/%d: '%c'...\n", i+1, len(steps), step)

		switch step {
		case 'r':
			if err := recordStep(ctx, svc, con, recordLimit); err != nil {
				return fmt.Errorf("pipeline record failed: %w", err)
			}
			fmt.Println("Pipeline: recording completed")

		case 'p':
			if err := playStep(ctx, svc, con); err != nil {
				return fmt.Errorf("pipeline play failed: %w", err)
			}
			fmt.Println("Pipeline: playback completed")

		default:
			return fmt.Errorf("unknown pipeline step: '%c' (valid: r=record, p=play)", step)
		}
	}

	return nil
}

func validatePipeline() error {
	if pipeline == "" {
		return nil
	}

	validSteps := map[rune]bool{
		'r': true, // record
		'p': true, // play
	}

	steps := []rune(strings.ToLower(pipeline))
	for _, step := range steps {
		if !validSteps[step] {
			return fmt.Errorf("invalid pipeline step: '%c' (valid: r=record, p=play)", step)
		}
	}

	return nil
}
