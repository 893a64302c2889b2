package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// NativeProcessor is a pure Go Processor. Rasters are always stored as NRGBA;
// channels records the layout of the decoded source.
type NativeProcessor struct {
	img      *image.NRGBA
	channels int
	filter   imaging.ResampleFilter
}

// NewNativeDecoder returns a Decoder producing NativeProcessor values.
func NewNativeDecoder(interpolation Interpolation) Decoder {
	filter := imaging.Box
	if interpolation == InterpolationLinear {
		filter = imaging.Linear
	}

	return func(b []byte) (Processor, error) {
		if len(b) == 0 {
			return nil, fmt.Errorf("%w: empty buffer", ErrDecode)
		}

		src, format, err := image.Decode(bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}

		log.Printf("Decoded a %s image (%T)", format, src)

		return &NativeProcessor{
			img:      imaging.Clone(src),
			channels: channelsOf(src),
			filter:   filter,
		}, nil
	}
}

// channelsOf maps the color model of a decoded image to the channel layout of
// its source. The standard decoders use RGBA for truecolor sources without an
// alpha channel and NRGBA for those with one, whatever the pixel values.
func channelsOf(img image.Image) int {
	switch m := img.ColorModel().(type) {
	case color.Palette:
		for _, c := range m {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return 4
			}
		}

		return 3
	default:
		switch m {
		case color.GrayModel, color.Gray16Model:
			return 1
		case color.NRGBAModel, color.NRGBA64Model, color.NYCbCrAModel:
			return 4
		}
	}

	return 3
}

func (np *NativeProcessor) Channels() int {
	return np.channels
}

func (np *NativeProcessor) Clone() (Processor, error) {
	return &NativeProcessor{
		img:      imaging.Clone(np.img),
		channels: np.channels,
		filter:   np.filter,
	}, nil
}

func (np *NativeProcessor) Destroy() {
	np.img = nil
}

func (np *NativeProcessor) Size() (int, int) {
	b := np.img.Bounds()
	return b.Dx(), b.Dy()
}

func (np *NativeProcessor) Resize(width, height int) error {
	if err := CheckResize(width, height); err != nil {
		return err
	}

	log.Printf("Resizing to %dx%d", width, height)

	np.img = imaging.Resize(np.img, width, height, np.filter)

	return nil
}

func (np *NativeProcessor) Flatten(f Flattening) error {
	if err := CheckFlatten(np.channels); err != nil {
		return err
	}

	src := np.img
	dst := image.NewNRGBA(src.Bounds())

	for y := 0; y < src.Rect.Dy(); y++ {
		s := src.Pix[y*src.Stride : y*src.Stride+src.Rect.Dx()*4]
		d := dst.Pix[y*dst.Stride : y*dst.Stride+dst.Rect.Dx()*4]

		for i := 0; i < len(s); i += 4 {
			a := s[i+3]

			switch f {
			case FlattenThreshold:
				if a >= AlphaCutoff {
					d[i], d[i+1], d[i+2] = s[i], s[i+1], s[i+2]
				} else {
					d[i], d[i+1], d[i+2] = 0xff, 0xff, 0xff
				}
			default:
				d[i] = Blend(s[i], a)
				d[i+1] = Blend(s[i+1], a)
				d[i+2] = Blend(s[i+2], a)
			}

			d[i+3] = 0xff
		}
	}

	np.img = dst
	np.channels = 3

	return nil
}

// Blend composites a non-premultiplied color component with the given alpha
// over white.
func Blend(c, alpha uint8) uint8 {
	v := uint32(c)*uint32(alpha) + 0xff*uint32(0xff-alpha)
	return uint8((v + 0x7f) / 0xff)
}

func (np *NativeProcessor) Pad(vertical, horizontal int) error {
	if err := CheckPad(vertical, horizontal); err != nil {
		return err
	}

	if vertical == 0 && horizontal == 0 {
		return nil
	}

	w, h := np.Size()

	canvas := imaging.New(w+2*horizontal, h+2*vertical, color.White)
	np.img = imaging.Paste(canvas, np.img, image.Pt(horizontal, vertical))

	return nil
}

func (np *NativeProcessor) Encode(quality int) ([]byte, error) {
	if err := CheckEncode(np.channels, quality); err != nil {
		return nil, err
	}

	var src image.Image = np.img

	if np.channels == 1 {
		gray := image.NewGray(np.img.Bounds())
		draw.Draw(gray, gray.Bounds(), np.img, np.img.Bounds().Min, draw.Src)
		src = gray
	}

	buf := &bytes.Buffer{}

	if err := imaging.Encode(buf, src, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}

	return buf.Bytes(), nil
}
