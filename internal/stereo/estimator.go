package stereo

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/ecopia-map/stereo_mesher/internal/mesher"
)

type DisparityEstimator interface {
	Estimate(pair Pair) (*DisparityField, error)
}

// Runs semi-global matching in both directions and merges the results with the WLS filter
type SGMEstimator struct {
	matcher *SemiGlobalMatcher
	filter  *WLSFilter
}

func NewSGMEstimator(matcher mesher.MatcherOptions, filter mesher.FilterOptions, numWorkers int) DisparityEstimator {
	return &SGMEstimator{
		matcher: NewSemiGlobalMatcher(matcher, numWorkers),
		filter:  NewWLSFilter(filter, numWorkers),
	}
}

func (e *SGMEstimator) Estimate(pair Pair) (*DisparityField, error) {
	if pair.Left == nil || pair.Right == nil {
		return nil, errors.New("stereo pair is missing a view")
	}
	if err := mesher.CheckDimensions("disparity estimation", pair.Left.Width, pair.Left.Height, 1); err != nil {
		return nil, err
	}
	if err := mesher.CheckDimensions("disparity estimation", pair.Right.Width, pair.Right.Height, 1); err != nil {
		return nil, err
	}

	leftDisparity, err := e.matcher.Match(pair.Left, pair.Right)
	if err != nil {
		return nil, errors.Wrap(err, "left matcher")
	}

	// Matching the mirrored views gives disparities referenced to the right view
	mirrored, err := e.matcher.Match(pair.Right.FlipHorizontal(), pair.Left.FlipHorizontal())
	if err != nil {
		return nil, errors.Wrap(err, "right matcher")
	}
	rightDisparity := mirrored.FlipHorizontal()

	filtered, err := e.filter.Filter(leftDisparity, rightDisparity, pair.Left)
	if err != nil {
		return nil, errors.Wrap(err, "wls filter")
	}
	glog.V(1).Infof("disparity field %dx%d, %d pixels matched", filtered.Width, filtered.Height, filtered.ValidCount())
	return filtered, nil
}
