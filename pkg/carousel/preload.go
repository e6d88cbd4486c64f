package carousel

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"gitlab.com/tinyland/lab/carousel-stack/pkg/image"
)

// LoadResult is the outcome of probing one image. Failed probes have
// OK=false and zero dimensions.
type LoadResult struct {
	Width  int
	Height int
	OK     bool
}

// Preloader probes the natural size of a set of images.
type Preloader struct {
	prober image.Prober
	logger *slog.Logger
}

// NewPreloader creates a Preloader. A nil logger uses slog.Default().
func NewPreloader(p image.Prober, logger *slog.Logger) *Preloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Preloader{prober: p, logger: logger}
}

// Load probes every ref concurrently and returns once all probes have
// settled. Probe failures are recorded as data and never returned. The map
// is built only after the barrier, so callers never observe a partial set.
func (p *Preloader) Load(ctx context.Context, refs []string) map[string]LoadResult {
	results := make([]LoadResult, len(refs))

	var g errgroup.Group
	for i, ref := range refs {
		g.Go(func() error {
			d, err := p.prober.Probe(ctx, ref)
			if err != nil {
				p.logger.Debug("image probe failed", "ref", ref, "error", err)
				return nil
			}
			results[i] = LoadResult{Width: d.Width, Height: d.Height, OK: true}
			return nil
		})
	}
	_ = g.Wait() // probes never return errors

	out := make(map[string]LoadResult, len(refs))
	for i, ref := range refs {
		out[ref] = results[i]
	}
	return out
}

// ContainerSize sizes the carousel box from the first image of the
// sequence: its natural size when it loaded, otherwise a fluid box.
func ContainerSize(seq []string, results map[string]LoadResult) Size {
	if len(seq) == 0 {
		return Size{Fluid: true}
	}
	first, ok := results[seq[0]]
	if !ok || !first.OK || first.Width <= 0 || first.Height <= 0 {
		return Size{Fluid: true}
	}
	return Size{Width: first.Width, Height: first.Height}
}

// Size is the carousel box: a fixed pixel size, or Fluid (full available
// width, height from content).
type Size struct {
	Width  int
	Height int
	Fluid  bool
}
