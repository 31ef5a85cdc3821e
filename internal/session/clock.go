package session

import "time"

// Clock tracks scaled game time and unscaled real time. A time scale of 0
// freezes game time; real time always advances.
type Clock struct {
	scale float64
	game  time.Duration
	real  time.Duration

	initialEpoch time.Duration
	sessionEpoch time.Duration
	total        time.Duration
	inSession    time.Duration
}

func NewClock() *Clock {
	return &Clock{scale: 1}
}

// Advance moves both clocks by one tick of dt.
func (c *Clock) Advance(dt time.Duration) {
	c.real += dt
	c.game += time.Duration(float64(dt) * c.scale)
}

func (c *Clock) SetScale(scale float64) { c.scale = scale }

func (c *Clock) Scale() float64 { return c.scale }

func (c *Clock) Real() time.Duration { return c.real }

// Anchor sets the initial epoch to the current game time.
func (c *Clock) Anchor() {
	c.initialEpoch = c.game
	c.total = 0
}

// UpdateTotal recomputes total elapsed game time since the initial epoch.
func (c *Clock) UpdateTotal() time.Duration {
	c.total = c.game - c.initialEpoch
	return c.total
}

// ResetSession starts a new session epoch at the current game time.
func (c *Clock) ResetSession() {
	c.sessionEpoch = c.UpdateTotal()
	c.inSession = 0
}

// UpdateSession recomputes in-session time from the last total.
func (c *Clock) UpdateSession() time.Duration {
	c.inSession = c.total - c.sessionEpoch
	return c.inSession
}

func (c *Clock) Total() time.Duration { return c.total }

func (c *Clock) InSession() time.Duration { return c.inSession }
