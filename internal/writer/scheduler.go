package writer

import (
	"context"
	"errors"
	"time"
)

// Granularity selects what one animation tick applies.
type Granularity int

const (
	// GranularityChar inserts one character per tick. Used for plain
	// content, where visible typing is the point.
	GranularityChar Granularity = iota
	// GranularityLine applies one parsed block's mutations per tick, so
	// structural elements appear as whole units instead of tag soup.
	GranularityLine
)

func (g Granularity) String() string {
	if g == GranularityLine {
		return "line"
	}
	return "char"
}

var (
	// ErrCancelled is the terminal outcome of a cancelled animation. Not a
	// failure: already-applied content stays in the document, and only a
	// preview reject rolls it back.
	ErrCancelled = errors.New("writer: animation cancelled")
	// ErrAnimationActive is returned when a second animation is started on
	// the same surface before the first finishes.
	ErrAnimationActive = errors.New("writer: animation already active")
)

// DefaultPacing is the tick interval used when the caller does not set one.
const DefaultPacing = 30 * time.Millisecond

// scheduler runs a time-paced tick loop over prepared units of work. Ticks
// never overlap: the next tick is scheduled only after the current unit has
// been applied synchronously. Cancellation is cooperative, checked first
// thing each tick, so its latency is bounded by one pacing interval.
type scheduler struct {
	pacing     time.Duration
	onProgress func(done, total int)
}

// run applies the units one per tick. It returns the number of committed
// units and ErrCancelled if the context was cancelled before all units ran;
// the count is frozen at its last committed value in that case.
func (s *scheduler) run(ctx context.Context, units []func() error, onUnitErr func(int, error)) (int, error) {
	total := len(units)
	done := 0

	pacing := s.pacing
	if pacing <= 0 {
		pacing = DefaultPacing
	}

	for i, unit := range units {
		if ctx.Err() != nil {
			return done, ErrCancelled
		}
		if i > 0 {
			timer := time.NewTimer(pacing)
			select {
			case <-ctx.Done():
				timer.Stop()
				return done, ErrCancelled
			case <-timer.C:
			}
			if ctx.Err() != nil {
				return done, ErrCancelled
			}
		}
		if err := unit(); err != nil {
			// The unit decides lenient vs strict internally; an error
			// here means strict mode gave up.
			if onUnitErr != nil {
				onUnitErr(i, err)
			}
			return done, err
		}
		done++
		if s.onProgress != nil {
			s.onProgress(done, total)
		}
	}
	return done, nil
}
