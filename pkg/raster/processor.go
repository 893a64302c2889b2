//go:generate mockgen -package mock_raster -source processor.go -destination mock_raster/mock_processor.go Processor

package raster

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	// DefaultQuality is the JPEG quality used for every output.
	DefaultQuality = 90

	// AlphaCutoff is the lowest alpha value kept opaque by FlattenThreshold.
	AlphaCutoff = 254
)

var (
	ErrDecode = errors.New("could not decode the image")
	ErrResize = errors.New("invalid resize target")
	ErrAlpha  = errors.New("cannot flatten the alpha channel")
	ErrPad    = errors.New("invalid border")
	ErrEncode = errors.New("could not encode the image")
)

// Processor holds exactly one decoded raster. Every operation replaces the
// raster it holds and releases the previous one.
type Processor interface {
	Channels() int
	Clone() (Processor, error)
	Destroy()
	Encode(quality int) ([]byte, error)
	Flatten(Flattening) error
	Pad(vertical, horizontal int) error
	Resize(width, height int) error
	Size() (int, int)
}

// Decoder turns an encoded image into a Processor.
type Decoder func([]byte) (Processor, error)

// Flattening selects how an alpha channel is composited against white.
type Flattening int

const (
	// FlattenBlend interpolates linearly between the color and white.
	FlattenBlend Flattening = iota
	// FlattenThreshold keeps the color of pixels whose alpha is at least
	// AlphaCutoff and replaces every other pixel with white.
	FlattenThreshold
)

func (f Flattening) String() string {
	switch f {
	case FlattenBlend:
		return "blend"
	case FlattenThreshold:
		return "threshold"
	default:
		return fmt.Sprintf("Flattening(%d)", int(f))
	}
}

func ParseFlattening(s string) (Flattening, error) {
	switch s {
	case "blend":
		return FlattenBlend, nil
	case "threshold":
		return FlattenThreshold, nil
	default:
		return 0, fmt.Errorf("%q: unknown flattening", s)
	}
}

// Interpolation is the resampling policy of an engine. It is fixed for the
// lifetime of a Decoder.
type Interpolation int

const (
	InterpolationArea Interpolation = iota
	InterpolationLinear
)

func (i Interpolation) String() string {
	switch i {
	case InterpolationArea:
		return "area"
	case InterpolationLinear:
		return "linear"
	default:
		return fmt.Sprintf("Interpolation(%d)", int(i))
	}
}

func ParseInterpolation(s string) (Interpolation, error) {
	switch s {
	case "area":
		return InterpolationArea, nil
	case "linear":
		return InterpolationLinear, nil
	default:
		return 0, fmt.Errorf("%q: unknown interpolation", s)
	}
}

// CheckResize validates a resize target.
func CheckResize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrResize, width, height)
	}

	return nil
}

// CheckPad validates border sizes.
func CheckPad(vertical, horizontal int) error {
	if vertical < 0 || horizontal < 0 {
		return fmt.Errorf("%w: vertical %d, horizontal %d", ErrPad, vertical, horizontal)
	}

	return nil
}

// CheckFlatten validates that a raster with the given number of channels
// carries an alpha channel.
func CheckFlatten(channels int) error {
	if channels != 4 {
		return fmt.Errorf("%w: expected 4 channels, got %d", ErrAlpha, channels)
	}

	return nil
}

// CheckEncode validates the channel layout and the quality of an encode.
func CheckEncode(channels, quality int) error {
	switch channels {
	case 1, 3, 4:
	default:
		return fmt.Errorf("%w: unsupported layout with %d channels", ErrEncode, channels)
	}

	if quality < 1 || quality > 100 {
		return fmt.Errorf("%w: quality %d out of range", ErrEncode, quality)
	}

	return nil
}
