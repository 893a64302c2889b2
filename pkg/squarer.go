package pkg

import (
	"context"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/pkg/errors"

	"git.quba.fr/qbarrand/squarer/pkg/output"
	"git.quba.fr/qbarrand/squarer/pkg/pipeline"
	"git.quba.fr/qbarrand/squarer/pkg/raster"
	"git.quba.fr/qbarrand/squarer/pkg/raster/magick"
	"git.quba.fr/qbarrand/squarer/pkg/raster/opencv"
)

const (
	EngineImageMagick = "imagick"
	EngineNative      = "native"
	EngineOpenCV      = "opencv"
)

type Config struct {
	Engine        string
	Interpolation string
	Flattening    string
	FromOriginal  bool
	Concurrency   int
	Tag           string
}

func (c *Config) Validate() error {
	switch c.Engine {
	case EngineImageMagick, EngineNative, EngineOpenCV:
	default:
		return fmt.Errorf("%q: unknown engine", c.Engine)
	}

	if _, err := raster.ParseInterpolation(c.Interpolation); err != nil {
		return err
	}

	if _, err := raster.ParseFlattening(c.Flattening); err != nil {
		return err
	}

	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}

	return nil
}

func decoderFor(engine string, interpolation raster.Interpolation) raster.Decoder {
	switch engine {
	case EngineImageMagick:
		return magick.NewDecoder(interpolation)
	case EngineNative:
		return raster.NewNativeDecoder(interpolation)
	default:
		return opencv.NewDecoder(interpolation)
	}
}

// CheckSource verifies that path exists and is a regular file.
func CheckSource(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %v", output.ErrIO, err)
	}

	if !fi.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", output.ErrIO, path)
	}

	return nil
}

// Run writes one square JPEG next to path for each size.
func Run(path string, sizes []float64, cfg Config) (*pipeline.Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := CheckSource(path); err != nil {
		return nil, err
	}

	interpolation, _ := raster.ParseInterpolation(cfg.Interpolation)
	flattening, _ := raster.ParseFlattening(cfg.Flattening)

	src, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: could not read %s: %v", output.ErrIO, path, err)
	}

	log.Printf("Read %d bytes from %s", len(src), path)

	if cfg.Engine == EngineImageMagick {
		magick.Initialize()
		defer magick.Terminate()
	}

	policy := pipeline.Chain
	if cfg.FromOriginal {
		policy = pipeline.FromOriginal
	}

	log.Printf("Using the %s engine (%s interpolation, %s policy)", cfg.Engine, interpolation, policy)

	p := pipeline.New(
		decoderFor(cfg.Engine, interpolation),
		output.NewFsWriter(path),
		func(i int) output.Key {
			return output.NewSquareFileKey(path, cfg.Tag, i)
		},
		pipeline.WithFlattening(flattening),
		pipeline.WithPolicy(policy),
		pipeline.WithConcurrency(cfg.Concurrency),
	)

	report, err := p.Run(context.Background(), src, sizes)
	if err != nil {
		return nil, errors.Wrapf(err, "could not process %s", path)
	}

	return report, nil
}
