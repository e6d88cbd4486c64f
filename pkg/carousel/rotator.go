package carousel

// RotatorState is whether a rotation timer is live.
type RotatorState int

const (
	Idle RotatorState = iota
	Running
)

func (s RotatorState) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Rotator advances the display index through a sequence. Timers are owned
// by the caller; the rotator only hands out generations. Every restart
// bumps the generation, and a tick carrying any other generation is stale
// and ignored. That is how a prior timer is canceled.
type Rotator struct {
	index     int
	length    int
	animating bool
	state     RotatorState
	gen       uint64
}

// Restart cancels any live timer and re-enters Running when the sequence is
// non-empty and rotation is not paused. It reports whether the caller must
// schedule a tick for Generation(). The cadence always starts from zero.
func (r *Rotator) Restart(length int, paused bool) bool {
	r.gen++
	r.length = length
	if r.index >= length {
		r.index = 0
	}
	if length == 0 || paused {
		r.state = Idle
		return false
	}
	r.state = Running
	return true
}

// Stop cancels the timer for good (teardown).
func (r *Rotator) Stop() {
	r.gen++
	r.state = Idle
}

// Tick handles a timer firing for gen. It advances the index and raises the
// animating flag, returning false for stale or idle ticks.
func (r *Rotator) Tick(gen uint64) bool {
	if r.state != Running || gen != r.gen || r.length == 0 {
		return false
	}
	r.index = (r.index + 1) % r.length
	r.animating = true
	return true
}

// ClearAnimating ends a fade window. Fade clears are never canceled, so an
// older clear may land during a newer fade; the flag is only a rendering
// hint and the last write wins.
func (r *Rotator) ClearAnimating() {
	r.animating = false
}

// Index is the position in the sequence of the active slide.
func (r *Rotator) Index() int { return r.index }

// Animating reports whether a fade is in progress.
func (r *Rotator) Animating() bool { return r.animating }

// State reports Idle or Running.
func (r *Rotator) State() RotatorState { return r.state }

// Generation identifies the live timer.
func (r *Rotator) Generation() uint64 { return r.gen }
