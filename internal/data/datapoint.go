package data

// Contains data of a lattice Point, namely X,Y,Z coords and
// R,G,B color components
type Point struct {
	X float64
	Y float64
	Z float64
	R uint8
	G uint8
	B uint8
}

// Builds a new Point from the given coordinates and colors
func NewPoint(X, Y, Z float64, R, G, B uint8) Point {
	return Point{
		X: X,
		Y: Y,
		Z: Z,
		R: R,
		G: G,
		B: B,
	}
}
