package workers

import "sync"

// Feeds WorkUnits to the consumers and closes the channel once done
type Producer interface {
	Produce(work chan *WorkUnit, wg *sync.WaitGroup)
}
