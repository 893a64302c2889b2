package magick

import (
	"fmt"
	"log"

	"gopkg.in/gographics/imagick.v2/imagick"

	"git.quba.fr/qbarrand/squarer/pkg/raster"
)

// Initialize must be called once before any wand is created.
func Initialize() {
	imagick.Initialize()
}

func Terminate() {
	imagick.Terminate()
}

type ImageMagickProcessor struct {
	mw     *imagick.MagickWand
	filter imagick.FilterType
}

func NewDecoder(interpolation raster.Interpolation) raster.Decoder {
	filter := imagick.FILTER_BOX
	if interpolation == raster.InterpolationLinear {
		filter = imagick.FILTER_TRIANGLE
	}

	return func(b []byte) (raster.Processor, error) {
		if len(b) == 0 {
			return nil, fmt.Errorf("%w: empty buffer", raster.ErrDecode)
		}

		mw := imagick.NewMagickWand()

		if err := mw.ReadImageBlob(b); err != nil {
			mw.Destroy()
			return nil, fmt.Errorf("%w: %v", raster.ErrDecode, err)
		}

		log.Printf("Decoded a %s image", mw.GetImageFormat())

		return &ImageMagickProcessor{mw: mw, filter: filter}, nil
	}
}

func newWhite() *imagick.PixelWand {
	pw := imagick.NewPixelWand()
	pw.SetColor("white")

	return pw
}

func (imp *ImageMagickProcessor) Channels() int {
	if imp.mw.GetImageAlphaChannel() {
		return 4
	}

	if imp.mw.GetImageColorspace() == imagick.COLORSPACE_GRAY {
		return 1
	}

	return 3
}

func (imp *ImageMagickProcessor) Clone() (raster.Processor, error) {
	return &ImageMagickProcessor{mw: imp.mw.Clone(), filter: imp.filter}, nil
}

func (imp *ImageMagickProcessor) Destroy() {
	imp.mw.Destroy()
}

func (imp *ImageMagickProcessor) Size() (int, int) {
	return int(imp.mw.GetImageWidth()), int(imp.mw.GetImageHeight())
}

func (imp *ImageMagickProcessor) replace(mw *imagick.MagickWand) {
	imp.mw.Destroy()
	imp.mw = mw
}

func (imp *ImageMagickProcessor) Resize(width, height int) error {
	if err := raster.CheckResize(width, height); err != nil {
		return err
	}

	log.Printf("Resizing to %dx%d", width, height)

	if err := imp.mw.ResizeImage(uint(width), uint(height), imp.filter, 1); err != nil {
		return fmt.Errorf("%w: could not resize the image to %dx%d: %v", raster.ErrResize, width, height, err)
	}

	return nil
}

func (imp *ImageMagickProcessor) Flatten(f raster.Flattening) error {
	if err := raster.CheckFlatten(imp.Channels()); err != nil {
		return err
	}

	if f == raster.FlattenThreshold {
		if err := imp.thresholdAlpha(); err != nil {
			return fmt.Errorf("%w: %v", raster.ErrAlpha, err)
		}
	}

	white := newWhite()
	defer white.Destroy()

	if err := imp.mw.SetImageBackgroundColor(white); err != nil {
		return fmt.Errorf("%w: could not set the background color: %v", raster.ErrAlpha, err)
	}

	flat := imp.mw.MergeImageLayers(imagick.IMAGE_LAYER_FLATTEN)

	if err := flat.SetImageAlphaChannel(imagick.ALPHA_CHANNEL_DEACTIVATE); err != nil {
		flat.Destroy()
		return fmt.Errorf("%w: could not drop the alpha channel: %v", raster.ErrAlpha, err)
	}

	imp.replace(flat)

	return nil
}

// thresholdAlpha makes every pixel either fully opaque or fully transparent.
func (imp *ImageMagickProcessor) thresholdAlpha() error {
	it := imp.mw.NewPixelIterator()
	defer it.Destroy()

	for row := it.GetNextIteratorRow(); len(row) > 0; row = it.GetNextIteratorRow() {
		for _, pw := range row {
			if pw.GetAlpha()*255 >= raster.AlphaCutoff {
				pw.SetAlpha(1)
			} else {
				pw.SetAlpha(0)
			}
		}

		if err := it.SyncIterator(); err != nil {
			return err
		}
	}

	return nil
}

func (imp *ImageMagickProcessor) Pad(vertical, horizontal int) error {
	if err := raster.CheckPad(vertical, horizontal); err != nil {
		return err
	}

	if vertical == 0 && horizontal == 0 {
		return nil
	}

	white := newWhite()
	defer white.Destroy()

	if err := imp.mw.BorderImage(white, uint(horizontal), uint(vertical)); err != nil {
		return fmt.Errorf("%w: could not add a %dx%d border: %v", raster.ErrPad, horizontal, vertical, err)
	}

	return nil
}

func (imp *ImageMagickProcessor) Encode(quality int) ([]byte, error) {
	if err := raster.CheckEncode(imp.Channels(), quality); err != nil {
		return nil, err
	}

	//
	// Strip EXIF data
	//

	if err := imp.mw.StripImage(); err != nil {
		return nil, fmt.Errorf("%w: could not strip metadata: %v", raster.ErrEncode, err)
	}

	if err := imp.mw.SetImageFormat("jpeg"); err != nil {
		return nil, fmt.Errorf("%w: could not set the format: %v", raster.ErrEncode, err)
	}

	if err := imp.mw.SetImageCompressionQuality(uint(quality)); err != nil {
		return nil, fmt.Errorf("%w: could not set the quality to %d: %v", raster.ErrEncode, quality, err)
	}

	b := imp.mw.GetImageBlob()
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: ImageMagick produced no data", raster.ErrEncode)
	}

	return b, nil
}
