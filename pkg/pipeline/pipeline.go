package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"git.quba.fr/qbarrand/squarer/pkg/geometry"
	"git.quba.fr/qbarrand/squarer/pkg/output"
	"git.quba.fr/qbarrand/squarer/pkg/raster"
)

// Policy decides which raster each requested size is computed from.
type Policy int

const (
	// Chain resizes each size from the raster of the previous, larger size.
	Chain Policy = iota
	// FromOriginal resizes each size from a copy of the decoded image. Sizes
	// are independent and processed concurrently.
	FromOriginal
)

func (p Policy) String() string {
	switch p {
	case Chain:
		return "chain"
	case FromOriginal:
		return "from-original"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

type Writer interface {
	Write(output.Key, io.Reader) (string, error)
}

// KeyFunc names the output produced at a given processing index.
type KeyFunc func(index int) output.Key

type Result struct {
	Index   int
	Edge    float64
	Width   int
	Height  int
	Data    []byte
	Path    string
	Elapsed time.Duration
}

type Report struct {
	Decode  time.Duration
	Results []*Result
	Total   time.Duration
}

type Pipeline struct {
	decode      raster.Decoder
	writer      Writer
	key         KeyFunc
	flattening  raster.Flattening
	policy      Policy
	concurrency int
	quality     int
}

type Option func(*Pipeline)

func WithFlattening(f raster.Flattening) Option {
	return func(p *Pipeline) {
		p.flattening = f
	}
}

func WithPolicy(policy Policy) Option {
	return func(p *Pipeline) {
		p.policy = policy
	}
}

// WithConcurrency bounds the number of sizes processed at once by the
// FromOriginal policy.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		p.concurrency = n
	}
}

func WithQuality(q int) Option {
	return func(p *Pipeline) {
		p.quality = q
	}
}

func New(decode raster.Decoder, writer Writer, key KeyFunc, opts ...Option) *Pipeline {
	p := &Pipeline{
		decode:      decode,
		writer:      writer,
		key:         key,
		flattening:  raster.FlattenBlend,
		policy:      Chain,
		concurrency: 1,
		quality:     raster.DefaultQuality,
	}

	for _, o := range opts {
		o(p)
	}

	if p.concurrency < 1 {
		p.concurrency = 1
	}

	return p
}

// Order returns a copy of sizes sorted from the largest to the smallest.
func Order(sizes []float64) []float64 {
	ordered := make([]float64, len(sizes))
	copy(ordered, sizes)

	sort.Sort(sort.Reverse(sort.Float64Slice(ordered)))

	return ordered
}

// Run decodes src once and produces one square JPEG per size. The first error
// aborts the run.
func (p *Pipeline) Run(ctx context.Context, src []byte, sizes []float64) (*Report, error) {
	if len(sizes) == 0 {
		return nil, errors.New("no size requested")
	}

	start := time.Now()

	proc, err := p.decode(src)
	if err != nil {
		return nil, err
	}
	defer proc.Destroy()

	report := &Report{Decode: time.Since(start)}

	w, h := proc.Size()
	log.Printf("Time to load the main image (%dx%d, %d channels): %v", w, h, proc.Channels(), report.Decode)

	ordered := Order(sizes)

	switch p.policy {
	case FromOriginal:
		err = p.runFromOriginal(ctx, proc, ordered, report)
	default:
		err = p.runChain(ctx, proc, ordered, report)
	}

	if err != nil {
		return nil, err
	}

	log.Printf("Processed %d images in %v", len(report.Results), report.Total)

	return report, nil
}

func (p *Pipeline) runChain(ctx context.Context, proc raster.Processor, sizes []float64, report *Report) error {
	for i, edge := range sizes {
		if err := ctx.Err(); err != nil {
			return err
		}

		res, err := p.square(proc, i, edge, i == 0)
		if err != nil {
			return errors.Wrapf(err, "size %v", edge)
		}

		report.Total += res.Elapsed

		if err := p.write(res); err != nil {
			return errors.Wrapf(err, "size %v", edge)
		}

		report.Results = append(report.Results, res)
	}

	return nil
}

func (p *Pipeline) runFromOriginal(ctx context.Context, proc raster.Processor, sizes []float64, report *Report) error {
	results := make([]*Result, len(sizes))

	var m sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, edge := range sizes {
		i, edge := i, edge

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			m.Lock()
			clone, err := proc.Clone()
			m.Unlock()

			if err != nil {
				return errors.Wrapf(err, "size %v: could not copy the decoded image", edge)
			}
			defer clone.Destroy()

			res, err := p.square(clone, i, edge, true)
			if err != nil {
				return errors.Wrapf(err, "size %v", edge)
			}

			results[i] = res

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	// Nothing is written unless every size succeeded.
	for _, res := range results {
		if err := p.write(res); err != nil {
			return errors.Wrapf(err, "size %v", res.Edge)
		}

		report.Total += res.Elapsed
		report.Results = append(report.Results, res)
	}

	return nil
}

// square fits, resizes, flattens and pads the raster held by proc to the
// square of side edge, then encodes it.
func (p *Pipeline) square(proc raster.Processor, index int, edge float64, flatten bool) (*Result, error) {
	start := time.Now()

	w, h := proc.Size()

	fit, err := geometry.Calculate(w, h, edge)
	if err != nil {
		return nil, err
	}

	if err := proc.Resize(fit.Width, fit.Height); err != nil {
		return nil, err
	}

	if flatten && proc.Channels() == 4 {
		log.Printf("Flattening the alpha channel (%s)", p.flattening)

		if err := proc.Flatten(p.flattening); err != nil {
			return nil, err
		}
	}

	if fit.NeedsPadding() {
		if err := proc.Pad(fit.VerticalBorder, fit.HorizontalBorder); err != nil {
			return nil, err
		}
	}

	data, err := proc.Encode(p.quality)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Index:   index,
		Edge:    edge,
		Data:    data,
		Elapsed: time.Since(start),
	}

	res.Width, res.Height = proc.Size()

	log.Printf("Time to create image w=%d h=%d buffer=%d bytes: %v", res.Width, res.Height, len(data), res.Elapsed)

	return res, nil
}

func (p *Pipeline) write(res *Result) error {
	path, err := p.writer.Write(p.key(res.Index), bytes.NewReader(res.Data))
	if err != nil {
		return err
	}

	res.Path = path

	return nil
}
