// Where: internal/puller/puller.go
// What: Sequential image pull coordinator with bounded retry and stagger delay.
// Why: Pre-pulling one image at a time keeps constrained hosts responsive.
package puller

import (
	"context"
	"fmt"
	"time"

	"github.com/substratelab/labops/internal/ui"
)

// ImagePuller is the opaque external pull operation.
type ImagePuller interface {
	Pull(ctx context.Context, image string) error
}

// Options controls retry and pacing behavior.
type Options struct {
	// Retries is the maximum number of attempts per image. Values below 1
	// are raised to 1 so every image gets at least one attempt.
	Retries int
	// RetryBackoff is the fixed pause between attempts on the same image.
	RetryBackoff time.Duration
	// StaggerDelay is the fixed pause between successive images, applied
	// regardless of the previous image's outcome.
	StaggerDelay time.Duration
}

func (o Options) normalize() Options {
	if o.Retries < 1 {
		o.Retries = 1
	}
	if o.RetryBackoff < 0 {
		o.RetryBackoff = 0
	}
	if o.StaggerDelay < 0 {
		o.StaggerDelay = 0
	}
	return o
}

// Result records the outcome of one image's attempt sequence.
type Result struct {
	Image    string
	Attempts int
	Err      error
}

// Summary aggregates a coordinator run.
type Summary struct {
	Results []Result
	Pulled  int
	Failed  int
}

// SleepFunc pauses for the given duration unless the context ends first.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Coordinator pulls a list of images strictly sequentially.
type Coordinator struct {
	puller  ImagePuller
	options Options
	sleep   SleepFunc
	console *ui.Console
}

// New constructs a Coordinator. A nil sleep uses a real timer.
func New(p ImagePuller, options Options, sleep SleepFunc, console *ui.Console) *Coordinator {
	if sleep == nil {
		sleep = sleepContext
	}
	if console == nil {
		console = ui.New(nil)
	}
	return &Coordinator{
		puller:  p,
		options: options.normalize(),
		sleep:   sleep,
		console: console,
	}
}

// Run pulls every image in order. A failed image is reported and does not
// stop the run; only context cancellation aborts early. The returned error
// is nil unless the run was aborted.
func (c *Coordinator) Run(ctx context.Context, images []string) (Summary, error) {
	summary := Summary{Results: make([]Result, 0, len(images))}

	for index, image := range images {
		if index > 0 {
			if err := c.sleep(ctx, c.options.StaggerDelay); err != nil {
				return summary, err
			}
		}

		result, err := c.pullWithRetry(ctx, image)
		summary.Results = append(summary.Results, result)
		if result.Err == nil {
			summary.Pulled++
		} else {
			summary.Failed++
			c.console.Warnf("failed to pull %s after %d attempt(s): %v", image, result.Attempts, result.Err)
		}
		if err != nil {
			return summary, err
		}
	}

	return summary, nil
}

// pullWithRetry runs one image's bounded attempt sequence. The second return
// value is non-nil only when the run must abort (context cancellation).
func (c *Coordinator) pullWithRetry(ctx context.Context, image string) (Result, error) {
	result := Result{Image: image}

	for result.Attempts < c.options.Retries {
		result.Attempts++
		c.console.ItemPlain(attemptLabel(image, result.Attempts, c.options.Retries))

		err := c.puller.Pull(ctx, image)
		if err == nil {
			result.Err = nil
			return result, nil
		}
		result.Err = err

		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		if result.Attempts < c.options.Retries {
			if serr := c.sleep(ctx, c.options.RetryBackoff); serr != nil {
				return result, serr
			}
		}
	}

	return result, nil
}

func attemptLabel(image string, attempt, retries int) string {
	if retries == 1 {
		return "pulling " + image
	}
	return fmt.Sprintf("pulling %s (attempt %d/%d)", image, attempt, retries)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
