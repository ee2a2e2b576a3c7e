// SPDX-License-Identifier: EPL-2.0

package soundcard

import (
	"math"
	"sync"
)

// Clock is a software Soundcard. It derives the musical grid from its
// presets and tempo and advances one period per Tick. It makes the engine
// testable and drivable without audio hardware.
type Clock struct {
	mu sync.Mutex

	presets     Presets
	bpm         float64
	delayFactor float64
	delay       float64

	loop      bool
	loopLeft  uint64
	loopRight uint64

	// pos is where the current period starts, in 256ths.
	pos     float64
	periods uint64
}

// Option configures a Clock.
type Option func(*Clock)

// WithPresets sets the stream configuration.
func WithPresets(p Presets) Option {
	return func(c *Clock) {
		c.presets = p
	}
}

// WithBPM sets the tempo.
func WithBPM(bpm float64) Option {
	return func(c *Clock) {
		c.bpm = bpm
	}
}

// WithDelayFactor sets the note length one tick stands for.
func WithDelayFactor(f float64) Option {
	return func(c *Clock) {
		c.delayFactor = f
	}
}

// WithLoop makes the clock jump from tick right back to tick left.
func WithLoop(left, right uint64) Option {
	return func(c *Clock) {
		c.loop = true
		c.loopLeft = left
		c.loopRight = right
	}
}

// NewClock returns a clock positioned at tick 0.
func NewClock(opts ...Option) *Clock {
	c := &Clock{
		presets:     DefaultPresets(),
		bpm:         DefaultBPM,
		delayFactor: DefaultDelayFactor,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.delay = ComputeDelay(c.presets.Samplerate, c.presets.BufferSize, c.bpm, c.delayFactor)

	return c
}

func (c *Clock) Presets() Presets {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.presets
}

func (c *Clock) Delay() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.delay
}

func (c *Clock) AbsoluteDelay() float64 {
	return c.Delay()
}

// BPM returns the tempo.
func (c *Clock) BPM() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.bpm
}

// SetBPM changes the tempo; the grid position is kept.
func (c *Clock) SetBPM(bpm float64) {
	if bpm <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.bpm = bpm
	c.delay = ComputeDelay(c.presets.Samplerate, c.presets.BufferSize, c.bpm, c.delayFactor)
}

// Periods returns how many times Tick was called.
func (c *Clock) Periods() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.periods
}

// Tick advances the clock by one period.
func (c *Clock) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pos = c.next(c.pos)
	c.periods++
}

// Seek moves the clock to the start of tick.
func (c *Clock) Seek(tick uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pos = 16 * float64(tick)
}

// width is the number of 256ths one period spans.
func (c *Clock) width() float64 {
	return 16.0 / c.delay
}

// framesPer256th is the length of one 256th in frames.
func (c *Clock) framesPer256th() float64 {
	return c.delay * float64(c.presets.BufferSize) / 16.0
}

func (c *Clock) next(p float64) float64 {
	p += c.width()

	if c.loop && c.loopRight > c.loopLeft {
		right := 16 * float64(c.loopRight)
		if p >= right {
			p -= 16 * float64(c.loopRight-c.loopLeft)
		}
	}

	return p
}

func (c *Clock) window(p float64) (lower, upper uint64) {
	lo := math.Ceil(p)
	hi := math.Ceil(p+c.width()) - 1

	if hi < lo {
		if lo == 0 {
			return 0, 0
		}
		return uint64(lo), uint64(lo) - 1
	}

	return uint64(lo), uint64(hi)
}

func (c *Clock) attackOf(p float64, k uint64) int {
	f := math.Round((float64(k) - p) * c.framesPer256th())
	return int(min(max(f, 0), float64(c.presets.BufferSize-1)))
}

func (c *Clock) NoteOffset() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return uint64(c.pos / 16)
}

func (c *Clock) Attack() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	tickStart := 16 * math.Floor(c.pos/16)
	since := (c.pos - tickStart) * c.framesPer256th()
	bs := float64(c.presets.BufferSize)

	return int(math.Mod(bs-math.Mod(math.Round(since), bs), bs))
}

func (c *Clock) Note256thOffset() (lower, upper uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.window(c.pos)
}

func (c *Clock) Note256thAttack() (lower, upper int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lo, hi := c.window(c.pos)
	return c.attackOf(c.pos, lo), c.attackOf(c.pos, hi)
}

// Note256thAttackAtPosition is computed on the unlooped timeline.
func (c *Clock) Note256thAttackAtPosition(pos uint64) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	f := math.Floor(float64(pos) * c.framesPer256th())
	return int(math.Mod(f, float64(c.presets.BufferSize)))
}

func (c *Clock) Note256thAttackPosition() (lower, upper int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lo, hi := c.window(c.pos)
	return int(lo % 16), int(hi % 16)
}

func (c *Clock) CalcNextNote256thOffset() (lower, upper uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.window(c.next(c.pos))
}

func (c *Clock) CalcNextNote256thAttack() (lower, upper int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.next(c.pos)
	lo, hi := c.window(p)
	return c.attackOf(p, lo), c.attackOf(p, hi)
}

var _ Soundcard = (*Clock)(nil)
