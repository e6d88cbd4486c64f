package carousel

// SetImagesMsg replaces the model's inputs. A bottom list that differs by
// value from the current one invalidates preload state and restarts it.
type SetImagesMsg struct {
	Header  string
	Overlay string
	Bottom  []string
}

type clockTickMsg struct{}

type rotateTickMsg struct {
	gen uint64
}

type fadeClearMsg struct{}

type preloadDoneMsg struct {
	gen     uint64
	results map[string]LoadResult
}

type renderDoneMsg struct {
	key renderKey
	out string
	err error
}
