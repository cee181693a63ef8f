package stereo

import (
	"github.com/golang/glog"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"

	"github.com/ecopia-map/stereo_mesher/internal/mesher"
	"github.com/ecopia-map/stereo_mesher/internal/raster"
)

// Result of a layout detection
type Detection struct {
	Pair            Pair
	Layout          mesher.Layout
	SideBySideScore float64 // dissimilarity of the left and right halves
	OverUnderScore  float64 // dissimilarity of the top and bottom halves
}

type FormatDetector interface {
	Detect(img *raster.Image) (*Detection, error)
}

// Detects the packing of a stereo screenshot by comparing both possible splits. A genuine
// eye pairing only differs by small parallax shifts while the wrong split compares
// unrelated picture content.
type StandardFormatDetector struct {
	tieBreak     mesher.Layout
	tiePrecision int32
}

func NewFormatDetector(tieBreak mesher.Layout, tiePrecision int32) FormatDetector {
	return &StandardFormatDetector{
		tieBreak:     tieBreak,
		tiePrecision: tiePrecision,
	}
}

func (d *StandardFormatDetector) Detect(img *raster.Image) (*Detection, error) {
	if err := mesher.CheckDimensions("format detection", img.Width, img.Height, 2); err != nil {
		return nil, err
	}

	halfWidth, halfHeight := img.Width/2, img.Height/2

	// The left eye sees the right image
	right := img.Crop(0, 0, halfWidth, img.Height)
	left := img.Crop(halfWidth, 0, halfWidth, img.Height)

	// The right eye sees the top image
	top := img.Crop(0, 0, img.Width, halfHeight)
	bottom := img.Crop(0, halfHeight, img.Width, halfHeight)

	detection := &Detection{
		SideBySideScore: MeanSquaredError(left, right),
		OverUnderScore:  MeanSquaredError(top, bottom),
	}

	sbs := decimal.NewFromFloat(detection.SideBySideScore).Round(d.tiePrecision)
	ou := decimal.NewFromFloat(detection.OverUnderScore).Round(d.tiePrecision)

	switch ou.Cmp(sbs) {
	case -1:
		detection.Layout = mesher.OverUnder
	case 1:
		detection.Layout = mesher.SideBySide
	default:
		detection.Layout = d.tieBreak
		glog.V(1).Infof("split scores tie at %s, using %s", sbs.String(), d.tieBreak)
	}

	if detection.Layout == mesher.OverUnder {
		detection.Pair = Pair{Left: bottom, Right: top}
	} else {
		detection.Pair = Pair{Left: left, Right: right}
	}

	glog.V(1).Infof("layout scores side-by-side=%s over-under=%s", sbs.String(), ou.String())
	return detection, nil
}

// Sum of squared per channel differences divided by the pixel count. Both images must
// have the same size.
func MeanSquaredError(a, b *raster.Image) float64 {
	if a.Area() == 0 {
		return 0
	}
	fa := make([]float64, len(a.Pix))
	fb := make([]float64, len(b.Pix))
	for i := range a.Pix {
		fa[i] = float64(a.Pix[i])
		fb[i] = float64(b.Pix[i])
	}
	floats.Sub(fa, fb)
	return floats.Dot(fa, fa) / float64(a.Area())
}
