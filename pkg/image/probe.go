package image

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Dimensions is the natural pixel size of an image.
type Dimensions struct {
	Width  int
	Height int
}

// Prober reports the natural dimensions of the image behind ref without
// decoding its pixels.
type Prober interface {
	Probe(ctx context.Context, ref string) (Dimensions, error)
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(ctx context.Context, ref string) (Dimensions, error)

// Probe calls f.
func (f ProberFunc) Probe(ctx context.Context, ref string) (Dimensions, error) {
	return f(ctx, ref)
}

// IsURL reports whether ref names an http(s) resource rather than a file.
func IsURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// RefOpener opens image references: http(s) URLs through an HTTP client,
// everything else as a local file path.
type RefOpener struct {
	Client *http.Client
}

// DefaultOpener uses a client with a conservative overall timeout.
var DefaultOpener = &RefOpener{Client: &http.Client{Timeout: 15 * time.Second}}

// Open returns a reader over the raw image bytes.
func (o *RefOpener) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	if ref == "" {
		return nil, fmt.Errorf("empty image reference")
	}
	if !IsURL(ref) {
		f, err := os.Open(ref)
		if err != nil {
			return nil, fmt.Errorf("open image: %w", err)
		}
		return f, nil
	}

	client := o.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch image: %s: unexpected status %s", ref, resp.Status)
	}
	return resp.Body, nil
}

// ConfigProber probes by decoding only the image header
// (image.DecodeConfig). PNG, JPEG, GIF, WebP and BMP are recognized.
type ConfigProber struct {
	Opener *RefOpener
	// Timeout bounds each probe. Zero means only ctx applies.
	Timeout time.Duration
}

// NewConfigProber returns a prober using DefaultOpener.
func NewConfigProber(timeout time.Duration) *ConfigProber {
	return &ConfigProber{Opener: DefaultOpener, Timeout: timeout}
}

// Probe implements Prober.
func (p *ConfigProber) Probe(ctx context.Context, ref string) (Dimensions, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	opener := p.Opener
	if opener == nil {
		opener = DefaultOpener
	}
	rc, err := opener.Open(ctx, ref)
	if err != nil {
		return Dimensions{}, err
	}
	defer rc.Close()

	cfg, _, err := image.DecodeConfig(rc)
	if err != nil {
		return Dimensions{}, fmt.Errorf("decode config %s: %w", ref, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Dimensions{}, fmt.Errorf("decode config %s: empty image %dx%d", ref, cfg.Width, cfg.Height)
	}
	if err := ctx.Err(); err != nil {
		return Dimensions{}, err
	}
	return Dimensions{Width: cfg.Width, Height: cfg.Height}, nil
}
