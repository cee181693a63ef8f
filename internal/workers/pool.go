package workers

import (
	"sync"

	"github.com/golang/glog"
)

// Runs fn over [0, rows) split in bands, with numWorkers consumer goroutines.
// Returns the first error raised by a consumer, if any.
func Run(stage string, rows int, numWorkers int, fn RowFunc) error {
	if rows <= 0 {
		return nil
	}
	if numWorkers < 1 {
		numWorkers = 1
	}
	if numWorkers == 1 {
		return fn(0, rows)
	}

	// four bands per consumer
	bands := numWorkers * 4

	workChannel := make(chan *WorkUnit, bands)
	errorChannel := make(chan error, numWorkers)

	var waitGroup sync.WaitGroup

	waitGroup.Add(1)
	producer := NewStandardProducer(stage, rows, bands)
	go producer.Produce(workChannel, &waitGroup)

	for i := 0; i < numWorkers; i++ {
		waitGroup.Add(1)
		consumer := NewStandardConsumer(fn)
		go consumer.Consume(workChannel, errorChannel, &waitGroup)
	}

	waitGroup.Wait()
	close(errorChannel)

	var first error
	for err := range errorChannel {
		glog.Errorln(err)
		if first == nil {
			first = err
		}
	}
	return first
}
