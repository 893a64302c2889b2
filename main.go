package main

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/urfave/cli"

	"git.quba.fr/qbarrand/squarer/pkg"
)

func parseSizes(args []string) ([]float64, error) {
	const bits = 64

	sizes := make([]float64, 0, len(args))

	for _, s := range args {
		size, err := strconv.ParseFloat(s, bits)
		if err != nil {
			return nil, fmt.Errorf("%q: invalid size: %v", s, err)
		}

		if !(size > 0) || math.IsInf(size, 1) {
			return nil, fmt.Errorf("%q: size must be positive", s)
		}

		sizes = append(sizes, size)
	}

	return sizes, nil
}

func main() {
	cfg := pkg.Config{}

	app := cli.NewApp()

	app.Name = "squarer"
	app.Usage = "fit an image on white square JPEG canvases"
	app.ArgsUsage = "IMAGE SIZE [SIZE...]"

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:        "engine",
			Usage:       "image library to use: opencv, imagick or native",
			Value:       pkg.EngineOpenCV,
			Destination: &cfg.Engine,
		},
		cli.StringFlag{
			Name:        "interpolation",
			Usage:       "resampling policy: area or linear",
			Value:       "area",
			Destination: &cfg.Interpolation,
		},
		cli.StringFlag{
			Name:        "flatten",
			Usage:       "how transparency is composited against white: blend or threshold",
			Value:       "blend",
			Destination: &cfg.Flattening,
		},
		cli.BoolFlag{
			Name:        "from-original",
			Usage:       "resize every size from the decoded image instead of the previous size",
			Destination: &cfg.FromOriginal,
		},
		cli.IntFlag{
			Name:        "concurrency",
			Usage:       "number of sizes processed at once with --from-original",
			Value:       runtime.NumCPU(),
			Destination: &cfg.Concurrency,
		},
		cli.StringFlag{
			Name:        "tag",
			Usage:       "tag inserted in the output file names",
			Value:       "square",
			Destination: &cfg.Tag,
		},
	}

	app.Action = func(c *cli.Context) error {
		if c.NArg() < 2 {
			cli.ShowAppHelp(c)
			return cli.NewExitError("Illegal arguments: expected an image path and at least one size, e.g. /home/user/Pictures/image.jpg 700", 1)
		}

		path := c.Args().First()

		sizes, err := parseSizes(c.Args().Tail())
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}

		if err := pkg.CheckSource(path); err != nil {
			return cli.NewExitError(fmt.Sprintf("%s does not exist or is not a file: %v", path, err), 1)
		}

		report, err := pkg.Run(path, sizes, cfg)
		if err != nil {
			return err
		}

		log.Printf("All %d images processed in %v; check the files in %s", len(report.Results), report.Decode+report.Total, filepath.Dir(path))

		return nil
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
