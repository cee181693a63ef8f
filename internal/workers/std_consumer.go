package workers

import (
	"sync"

	"github.com/pkg/errors"
)

// Processes the rows in [start, end). Implementations must only write state owned by those rows.
type RowFunc func(start, end int) error

type StandardConsumer struct {
	fn RowFunc
}

func NewStandardConsumer(fn RowFunc) *StandardConsumer {
	return &StandardConsumer{fn: fn}
}

// Continually consumes WorkUnits submitted to a work channel until the channel is closed.
// The first error is submitted to the error channel, remaining units are drained without
// being processed so the producer never blocks.
func (c *StandardConsumer) Consume(workchan chan *WorkUnit, errchan chan error, waitGroup *sync.WaitGroup) {
	failed := false
	for work := range workchan {
		if failed {
			continue
		}
		if err := c.fn(work.Start, work.End); err != nil {
			errchan <- errors.Wrapf(err, "%s rows [%d, %d)", work.Stage, work.Start, work.End)
			failed = true
		}
	}

	// signal waitgroup finished work
	waitGroup.Done()
}
