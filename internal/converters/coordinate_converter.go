package converters

// Maps positions of a transformed grid back to positions of its source grid
type GridTransform interface {
	// Size of the transformed grid for a source grid of the given size
	Size(width, height int) (int, int)
	// Source column and row for column x, row y of the transformed grid
	Source(x, y, width, height int) (int, int)
	Degrees() int
}

// Turns a depth sample into the z coordinate of a lattice point
type ElevationCorrector interface {
	CorrectElevation(x, y, depth float64) float64
}
