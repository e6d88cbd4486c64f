package image

import (
	"context"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/blacktop/go-termimg"
	"github.com/disintegration/imaging"

	"gitlab.com/tinyland/lab/carousel-stack/pkg/config"
	"gitlab.com/tinyland/lab/carousel-stack/pkg/terminal"
)

// Renderer turns images into terminal escape strings sized in cells.
// Output is cached per source, protocol and cell size.
type Renderer struct {
	protocol terminal.GraphicsProtocol
	cellW    int
	cellH    int
	cache    *Cache
	opener   *RefOpener
}

// NewRenderer creates a Renderer for the detected terminal. Cell pixel
// size comes from cfg when set, else from the terminal, else defaults.
func NewRenderer(caps terminal.Capabilities, cfg config.ImageConfig) *Renderer {
	cellW, cellH := caps.Size.CellSize()
	if cfg.CellWidth > 0 {
		cellW = cfg.CellWidth
	}
	if cfg.CellHeight > 0 {
		cellH = cfg.CellHeight
	}
	return &Renderer{
		protocol: caps.Protocol,
		cellW:    cellW,
		cellH:    cellH,
		cache:    NewCache(cfg.MaxCacheSizeMB),
		opener:   DefaultOpener,
	}
}

// CellSize returns the pixel size of one terminal cell used for layout.
func (r *Renderer) CellSize() (w, h int) {
	return r.cellW, r.cellH
}

// Cache returns the renderer's output cache.
func (r *Renderer) Cache() *Cache {
	return r.cache
}

// RenderRef loads the image behind ref (file path or URL) and renders it.
// Files are cached by path, size and modification time so an edited file
// is picked up on the next call.
func (r *Renderer) RenderRef(ctx context.Context, ref string, cols, rows int) (string, error) {
	return r.cached(sourceID(ref), cols, rows, func() (image.Image, error) {
		rc, err := r.opener.Open(ctx, ref)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		img, err := imaging.Decode(rc, imaging.AutoOrientation(true))
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", ref, err)
		}
		return img, nil
	})
}

func (r *Renderer) cached(source string, cols, rows int, load func() (image.Image, error)) (string, error) {
	if r.protocol == terminal.ProtocolNone {
		return "", fmt.Errorf("image rendering is disabled (protocol=none)")
	}
	if cols <= 0 || rows <= 0 {
		return "", fmt.Errorf("invalid cell area %dx%d", cols, rows)
	}

	key := CacheKey{Source: source, Protocol: r.protocol.String(), Cols: cols, Rows: rows}
	if s, ok := r.cache.Get(key); ok {
		return s, nil
	}

	img, err := load()
	if err != nil {
		return "", err
	}
	out, err := r.renderWithProtocol(img, cols, rows)
	if err != nil {
		return "", fmt.Errorf("render failed: %w", err)
	}
	r.cache.Put(key, out)
	return out, nil
}

// renderWithProtocol dispatches to the correct rendering backend.
func (r *Renderer) renderWithProtocol(img image.Image, cols, rows int) (string, error) {
	switch r.protocol {
	case terminal.ProtocolKitty:
		return r.renderTermimg(img, termimg.Kitty, cols, rows)
	case terminal.ProtocolITerm2:
		return r.renderTermimg(img, termimg.ITerm2, cols, rows)
	case terminal.ProtocolSixel:
		return r.renderTermimg(img, termimg.Sixel, cols, rows)
	default:
		// Each halfblock cell carries one pixel across and two down.
		return renderHalfblocks(ResizeToFit(img, cols, rows, 1, 2, sharpenSigmaHalfblock)), nil
	}
}

// renderTermimg delegates to go-termimg for Kitty, iTerm2, and Sixel.
func (r *Renderer) renderTermimg(img image.Image, proto termimg.Protocol, cols, rows int) (string, error) {
	resized := ResizeToFit(img, cols, rows, r.cellW, r.cellH, sharpenSigma)
	ti := termimg.New(resized)
	if ti == nil {
		return "", fmt.Errorf("go-termimg: failed to create image wrapper")
	}
	ti.Protocol(proto).Size(cols, rows).Scale(termimg.ScaleFit)
	return ti.Render()
}

// renderHalfblocks draws img with U+2580 upper half blocks: the top pixel
// is the foreground color and the bottom pixel the background. Fully
// transparent pixels fall through to the terminal background.
func renderHalfblocks(img image.Image) string {
	px := toNRGBA(img)
	b := px.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return ""
	}

	var sb strings.Builder
	sb.Grow(w * ((h + 1) / 2) * 30)

	for y := 0; y < h; y += 2 {
		if y > 0 {
			sb.WriteString("\x1b[0m\n")
		}
		for x := 0; x < w; x++ {
			top := px.NRGBAAt(b.Min.X+x, b.Min.Y+y)
			bot := top
			bot.A = 0
			if y+1 < h {
				bot = px.NRGBAAt(b.Min.X+x, b.Min.Y+y+1)
			}

			switch {
			case top.A == 0 && bot.A == 0:
				sb.WriteString("\x1b[0m ")
			case top.A == 0:
				fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm\x1b[49m▄", bot.R, bot.G, bot.B)
			case bot.A == 0:
				fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm\x1b[49m▀", top.R, top.G, top.B)
			default:
				fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
					top.R, top.G, top.B, bot.R, bot.G, bot.B)
			}
		}
	}
	sb.WriteString("\x1b[0m")
	return sb.String()
}

// sourceID names a reference for cache keying. Local files include size
// and mtime; URLs and unreadable paths use the reference itself.
func sourceID(ref string) string {
	if IsURL(ref) {
		return ref
	}
	fi, err := os.Stat(ref)
	if err != nil {
		return ref
	}
	return fmt.Sprintf("%s@%d:%d", ref, fi.Size(), fi.ModTime().UnixNano())
}
