package geometry

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

var ErrFit = errors.New("invalid geometry")

// Fit is the result of fitting a source rectangle inside a square.
// Width and Height are the dimensions to resize to; the borders are the number
// of pixels to add on each side of the matching axis to obtain a square.
type Fit struct {
	Width            int
	Height           int
	VerticalBorder   int
	HorizontalBorder int
}

// Edge is the side of the square obtained once the borders are added.
func (f Fit) Edge() int {
	return f.Width + 2*f.HorizontalBorder
}

// NeedsPadding reports whether any border has to be added.
func (f Fit) NeedsPadding() bool {
	return f.VerticalBorder != 0 || f.HorizontalBorder != 0
}

// Calculate scales (srcWidth, srcHeight) by a single ratio so that it fits
// inside a square of side floor(edge), then distributes the difference between both
// scaled sides as a symmetric border on the shorter axis.
//
// When the difference is odd, the lost half pixel of each border is given
// back to the shorter side so that Width+2*HorizontalBorder always equals
// Height+2*VerticalBorder.
func Calculate(srcWidth, srcHeight int, edge float64) (Fit, error) {
	if srcWidth <= 0 || srcHeight <= 0 {
		return Fit{}, fmt.Errorf("%w: source is %dx%d", ErrFit, srcWidth, srcHeight)
	}

	if edge <= 0 || math.IsNaN(edge) || math.IsInf(edge, 0) {
		return Fit{}, fmt.Errorf("%w: target edge %v", ErrFit, edge)
	}

	width := float64(srcWidth)
	height := float64(srcHeight)
	side := int(math.Floor(edge))

	// The longer side takes floor(edge) exactly.
	var fit Fit

	if srcWidth >= srcHeight {
		fit.Width = side
		fit.Height = int(math.Floor(height * (edge / width)))
	} else {
		fit.Width = int(math.Floor(width * (edge / height)))
		fit.Height = side
	}

	if fit.Width <= 0 || fit.Height <= 0 {
		return Fit{}, fmt.Errorf("%w: %dx%d collapses to %dx%d at edge %v", ErrFit, srcWidth, srcHeight, fit.Width, fit.Height, edge)
	}

	switch {
	case fit.Height > fit.Width:
		border := float64(fit.Height-fit.Width) / 2
		whole, frac := math.Modf(border)

		fit.HorizontalBorder = int(whole)
		fit.Width += int(frac * 2)
	case fit.Width > fit.Height:
		border := float64(fit.Width-fit.Height) / 2
		whole, frac := math.Modf(border)

		fit.VerticalBorder = int(whole)
		fit.Height += int(frac * 2)
	}

	return fit, nil
}
