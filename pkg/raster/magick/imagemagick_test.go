package magick

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.quba.fr/qbarrand/squarer/pkg/raster"
)

func TestMain(m *testing.M) {
	Initialize()
	code := m.Run()
	Terminate()

	os.Exit(code)
}

func pngBytes(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}

	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))

	return buf.Bytes()
}

func TestNewDecoder(t *testing.T) {
	p, err := NewDecoder(raster.InterpolationArea)(pngBytes(t, 12, 9, color.NRGBA{B: 0xff, A: 20}))
	require.NoError(t, err)
	defer p.Destroy()

	w, h := p.Size()
	assert.Equal(t, 12, w)
	assert.Equal(t, 9, h)
	assert.Equal(t, 4, p.Channels())

	_, err = NewDecoder(raster.InterpolationArea)([]byte{})
	assert.True(t, errors.Is(err, raster.ErrDecode))

	_, err = NewDecoder(raster.InterpolationArea)([]byte("definitely not an image"))
	assert.True(t, errors.Is(err, raster.ErrDecode))
}

func TestImageMagickProcessor(t *testing.T) {
	for _, f := range []raster.Flattening{raster.FlattenBlend, raster.FlattenThreshold} {
		t.Run(f.String(), func(t *testing.T) {
			p, err := NewDecoder(raster.InterpolationLinear)(pngBytes(t, 60, 80, color.NRGBA{R: 0xff, A: 100}))
			require.NoError(t, err)
			defer p.Destroy()

			require.NoError(t, p.Resize(52, 70))
			require.NoError(t, p.Flatten(f))
			assert.Equal(t, 3, p.Channels())
			assert.True(t, errors.Is(p.Flatten(f), raster.ErrAlpha))

			require.NoError(t, p.Pad(0, 9))

			w, h := p.Size()
			assert.Equal(t, 70, w)
			assert.Equal(t, 70, h)

			b, err := p.Encode(raster.DefaultQuality)
			require.NoError(t, err)

			cfg, format, err := image.DecodeConfig(bytes.NewReader(b))
			require.NoError(t, err)
			assert.Equal(t, "jpeg", format)
			assert.Equal(t, 70, cfg.Width)
			assert.Equal(t, 70, cfg.Height)
		})
	}
}

func TestImageMagickProcessor_invalid(t *testing.T) {
	p, err := NewDecoder(raster.InterpolationArea)(pngBytes(t, 4, 4, color.NRGBA{A: 0xff}))
	require.NoError(t, err)
	defer p.Destroy()

	assert.True(t, errors.Is(p.Resize(4, 0), raster.ErrResize))
	assert.True(t, errors.Is(p.Pad(0, -3), raster.ErrPad))
	assert.True(t, errors.Is(p.Flatten(raster.FlattenBlend), raster.ErrAlpha))
}
