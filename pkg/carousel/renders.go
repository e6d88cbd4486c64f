package carousel

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// renderKey names one rasterization. The preload generation is part of the
// key so results started before a supersede never match a current lookup.
type renderKey struct {
	ref  string
	cols int
	rows int
	gen  uint64
}

// renderResult is a finished rasterization. Failures are kept so a broken
// reference is not reopened on every frame.
type renderResult struct {
	out string
	err error
}

// wantedRenders lists the rasterizations the current layout paints: the
// header once the screen size is known, then every slide and the overlay
// at the box size once the preload has published.
func (m *Model) wantedRenders() []renderKey {
	if m.images == nil || m.width <= 0 || m.height <= 0 {
		return nil
	}
	l := m.layout()
	var keys []renderKey
	if m.header != "" {
		keys = append(keys, renderKey{ref: m.header, cols: l.width, rows: l.headerRows, gen: m.preloadGen})
	}
	if m.loaded == nil {
		return keys
	}
	for _, ref := range m.unique {
		keys = append(keys, renderKey{ref: ref, cols: l.boxCols, rows: l.boxRows, gen: m.preloadGen})
	}
	if m.overlay != "" {
		keys = append(keys, renderKey{ref: m.overlay, cols: l.boxCols, rows: l.boxRows, gen: m.preloadGen})
	}
	return keys
}

// requestRenders starts every wanted rasterization that is neither done
// nor in flight, and cancels or forgets the ones the layout no longer
// paints.
func (m *Model) requestRenders() tea.Cmd {
	wanted := make(map[renderKey]bool)
	var cmds []tea.Cmd
	for _, k := range m.wantedRenders() {
		if wanted[k] {
			continue
		}
		wanted[k] = true
		if _, ok := m.renders[k]; ok {
			continue
		}
		if _, ok := m.pending[k]; ok {
			continue
		}
		cmds = append(cmds, m.renderCmd(k))
	}
	for k, cancel := range m.pending {
		if !wanted[k] {
			cancel()
			delete(m.pending, k)
		}
	}
	for k := range m.renders {
		if !wanted[k] {
			delete(m.renders, k)
		}
	}
	return tea.Batch(cmds...)
}

// renderCmd queues k on the renderer and returns a command that waits for
// the callback. Canceling k makes the command return nil.
func (m *Model) renderCmd(k renderKey) tea.Cmd {
	ctx, cancel := context.WithCancel(m.ctx)
	done := make(chan renderDoneMsg, 1)
	stop := m.images.RenderRefAsync(ctx, k.ref, k.cols, k.rows, func(out string, err error) {
		done <- renderDoneMsg{key: k, out: out, err: err}
	})
	m.pending[k] = func() {
		stop()
		cancel()
	}
	return func() tea.Msg {
		select {
		case msg := <-done:
			return msg
		case <-ctx.Done():
			return nil
		}
	}
}

// finishRender records a result for a request that is still pending.
// Anything else was superseded and is dropped.
func (m *Model) finishRender(msg renderDoneMsg) {
	cancel, ok := m.pending[msg.key]
	if !ok {
		return
	}
	cancel()
	delete(m.pending, msg.key)
	if msg.err != nil {
		m.logger.Debug("render failed", "ref", msg.key.ref, "cols", msg.key.cols, "rows", msg.key.rows, "error", msg.err)
	}
	m.renders[msg.key] = renderResult{out: msg.out, err: msg.err}
}

// resetRenders cancels everything in flight and forgets every result.
func (m *Model) resetRenders() {
	for k, cancel := range m.pending {
		cancel()
		delete(m.pending, k)
	}
	clear(m.renders)
}

// rendered looks up the result View paints for ref at cols x rows.
func (m *Model) rendered(ref string, cols, rows int) (renderResult, bool) {
	r, ok := m.renders[renderKey{ref: ref, cols: cols, rows: rows, gen: m.preloadGen}]
	return r, ok
}
