package workers

import "sync"

type StandardProducer struct {
	stage string
	rows  int
	bands int
}

// Builds a producer that splits rows into at most bands contiguous WorkUnits
func NewStandardProducer(stage string, rows int, bands int) Producer {
	return &StandardProducer{
		stage: stage,
		rows:  rows,
		bands: bands,
	}
}

// Submits one WorkUnit per band to the provided work channel.
// Closes the channel when all work is submitted.
func (p *StandardProducer) Produce(work chan *WorkUnit, wg *sync.WaitGroup) {
	for _, band := range SplitRows(p.rows, p.bands) {
		work <- &WorkUnit{
			Stage: p.stage,
			Start: band[0],
			End:   band[1],
		}
	}
	close(work)
	wg.Done()
}

// Splits [0, rows) into contiguous half open bands of near equal size
func SplitRows(rows, bands int) [][2]int {
	if rows <= 0 {
		return nil
	}
	if bands < 1 {
		bands = 1
	}
	if bands > rows {
		bands = rows
	}
	out := make([][2]int, 0, bands)
	step := rows / bands
	start := 0
	for i := 0; i < bands; i++ {
		end := start + step
		if i == bands-1 {
			end = rows
		}
		out = append(out, [2]int{start, end})
		start = end
	}
	return out
}
