package workers

// Contains the minimal data needed to process a band of rows, [Start, End)
type WorkUnit struct {
	Stage string
	Start int
	End   int
}
