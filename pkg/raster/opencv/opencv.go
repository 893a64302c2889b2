package opencv

import (
	"fmt"
	"image"
	"image/color"
	"log"

	"gocv.io/x/gocv"

	"git.quba.fr/qbarrand/squarer/pkg/raster"
)

var white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// Processor is a raster.Processor backed by an OpenCV matrix.
type Processor struct {
	mat    gocv.Mat
	interp gocv.InterpolationFlags
}

// NewDecoder returns a raster.Decoder that keeps every channel of the source,
// alpha included.
func NewDecoder(interpolation raster.Interpolation) raster.Decoder {
	interp := gocv.InterpolationArea
	if interpolation == raster.InterpolationLinear {
		interp = gocv.InterpolationLinear
	}

	return func(b []byte) (raster.Processor, error) {
		if len(b) == 0 {
			return nil, fmt.Errorf("%w: empty buffer", raster.ErrDecode)
		}

		mat, err := gocv.IMDecode(b, gocv.IMReadUnchanged)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", raster.ErrDecode, err)
		}

		if mat.Empty() {
			mat.Close()
			return nil, fmt.Errorf("%w: unrecognized or corrupt data", raster.ErrDecode)
		}

		if mat, err = to8Bit(mat); err != nil {
			return nil, err
		}

		return &Processor{mat: mat, interp: interp}, nil
	}
}

// depthMask extracts the depth from a matrix type.
const depthMask = gocv.MatChannels2 - 1

// to8Bit scales 16-bit matrices down to 8 bits per channel, keeping the
// channel layout. mat is released when it is replaced or on error.
func to8Bit(mat gocv.Mat) (gocv.Mat, error) {
	switch mt := mat.Type(); mt & depthMask {
	case gocv.MatTypeCV8U:
		return mat, nil
	case gocv.MatTypeCV16U:
	default:
		mat.Close()
		return gocv.Mat{}, fmt.Errorf("%w: unsupported matrix type %v", raster.ErrDecode, mt)
	}

	defer mat.Close()

	mt := gocv.MatTypeCV8U + gocv.MatType((mat.Channels()-1)*gocv.MatChannels2)

	dst := gocv.NewMat()

	if err := mat.ConvertToWithParams(&dst, mt, 1.0/257, 0); err != nil {
		dst.Close()
		return gocv.Mat{}, fmt.Errorf("%w: could not convert to 8 bits: %v", raster.ErrDecode, err)
	}

	return dst, nil
}

func (p *Processor) Channels() int {
	return p.mat.Channels()
}

func (p *Processor) Clone() (raster.Processor, error) {
	return &Processor{mat: p.mat.Clone(), interp: p.interp}, nil
}

func (p *Processor) Destroy() {
	p.mat.Close()
}

func (p *Processor) Size() (int, int) {
	return p.mat.Cols(), p.mat.Rows()
}

// replace makes m the held matrix and releases the previous one.
func (p *Processor) replace(m gocv.Mat) {
	p.mat.Close()
	p.mat = m
}

func (p *Processor) Resize(width, height int) error {
	if err := raster.CheckResize(width, height); err != nil {
		return err
	}

	log.Printf("Resizing to %dx%d", width, height)

	dst := gocv.NewMat()

	if err := gocv.Resize(p.mat, &dst, image.Pt(width, height), 0, 0, p.interp); err != nil {
		dst.Close()
		return fmt.Errorf("%w: %v", raster.ErrResize, err)
	}

	if dst.Empty() {
		dst.Close()
		return fmt.Errorf("%w: OpenCV returned an empty matrix for %dx%d", raster.ErrResize, width, height)
	}

	p.replace(dst)

	return nil
}

func (p *Processor) Flatten(f raster.Flattening) error {
	if err := raster.CheckFlatten(p.Channels()); err != nil {
		return err
	}

	channels := gocv.Split(p.mat)
	defer func() {
		for _, c := range channels {
			c.Close()
		}
	}()

	colors := gocv.NewMat()
	defer colors.Close()

	if err := gocv.Merge(channels[:3], &colors); err != nil {
		return fmt.Errorf("%w: could not merge the color channels: %v", raster.ErrAlpha, err)
	}

	alpha := channels[3]

	var (
		out gocv.Mat
		err error
	)

	switch f {
	case raster.FlattenThreshold:
		out, err = flattenThreshold(colors, alpha)
	default:
		out, err = flattenBlend(colors, alpha)
	}

	if err != nil {
		return err
	}

	p.replace(out)

	return nil
}

// flattenBlend computes colors*alpha/255 + (255-alpha).
func flattenBlend(colors, alpha gocv.Mat) (gocv.Mat, error) {
	alpha3 := gocv.NewMat()
	defer alpha3.Close()

	if err := gocv.CvtColor(alpha, &alpha3, gocv.ColorGrayToBGR); err != nil {
		return gocv.Mat{}, fmt.Errorf("%w: could not expand the alpha channel: %v", raster.ErrAlpha, err)
	}

	scaled := gocv.NewMat()
	defer scaled.Close()

	if err := gocv.MultiplyWithParams(colors, alpha3, &scaled, 1.0/255, -1); err != nil {
		return gocv.Mat{}, fmt.Errorf("%w: could not scale the colors by alpha: %v", raster.ErrAlpha, err)
	}

	inverted := gocv.NewMat()
	defer inverted.Close()

	if err := gocv.BitwiseNot(alpha3, &inverted); err != nil {
		return gocv.Mat{}, fmt.Errorf("%w: could not invert the alpha channel: %v", raster.ErrAlpha, err)
	}

	out := gocv.NewMat()

	if err := gocv.Add(scaled, inverted, &out); err != nil {
		out.Close()
		return gocv.Mat{}, fmt.Errorf("%w: could not add the white background: %v", raster.ErrAlpha, err)
	}

	return out, nil
}

// flattenThreshold copies the colors whose alpha reaches raster.AlphaCutoff
// onto a white canvas.
func flattenThreshold(colors, alpha gocv.Mat) (gocv.Mat, error) {
	if colors.Empty() || alpha.Empty() {
		return gocv.Mat{}, fmt.Errorf("%w: empty channels", raster.ErrAlpha)
	}

	mask := gocv.NewMat()
	defer mask.Close()

	gocv.Threshold(alpha, &mask, raster.AlphaCutoff-1, 255, gocv.ThresholdBinary)

	out := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 255, 255, 0), colors.Rows(), colors.Cols(), gocv.MatTypeCV8UC3)

	if err := colors.CopyToWithMask(&out, mask); err != nil {
		out.Close()
		return gocv.Mat{}, fmt.Errorf("%w: could not copy the opaque pixels: %v", raster.ErrAlpha, err)
	}

	return out, nil
}

func (p *Processor) Pad(vertical, horizontal int) error {
	if err := raster.CheckPad(vertical, horizontal); err != nil {
		return err
	}

	if vertical == 0 && horizontal == 0 {
		return nil
	}

	dst := gocv.NewMat()

	if err := gocv.CopyMakeBorder(p.mat, &dst, vertical, vertical, horizontal, horizontal, gocv.BorderConstant, white); err != nil {
		dst.Close()
		return fmt.Errorf("%w: %v", raster.ErrPad, err)
	}

	p.replace(dst)

	return nil
}

func (p *Processor) Encode(quality int) ([]byte, error) {
	if err := raster.CheckEncode(p.Channels(), quality); err != nil {
		return nil, err
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, p.mat, []int{int(gocv.IMWriteJpegQuality), quality})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", raster.ErrEncode, err)
	}
	defer buf.Close()

	// The native buffer is freed on Close.
	b := make([]byte, buf.Len())
	copy(b, buf.GetBytes())

	return b, nil
}
