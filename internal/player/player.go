// package player owns what is playing and from where.
//
// A [Controller] holds the current track, transport state, elapsed position, volume, and a per-track [ResumeTable].
// Elapsed position is advanced by a [PositionSource]: a [SyntheticSource] ticking once a second,
// or a [DeviceSource] whose device clock is authoritative.
//
// Transport operations never fail. Calls that need a track are no-ops without one, and out-of-range inputs are clamped.
package player

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cadence/internal/models"
)

const (
	DefaultVolume    = 80
	DefaultSkipDelta = 10
	subscriberBuffer = 16
)

// ResumeTable maps track IDs to their last known elapsed position in seconds. A missing entry means 0.
type ResumeTable map[string]int

// State is a snapshot of the controller.
type State struct {
	Track    *models.Track
	Playing  bool
	Position int
	Volume   int
	Listened int // seconds advanced by the position source this session, excluding seeks
}

// Options configure a [Controller].
type Options struct {
	Source    PositionSource // defaults to a one second [SyntheticSource]
	Resume    ResumeTable    // initial resume positions, copied
	Volume    int            // defaults to [DefaultVolume] when zero
	SkipDelta int            // defaults to [DefaultSkipDelta] when zero
	Logger    *log.Logger
}

// Controller is the single playback session.
type Controller struct {
	mu          sync.Mutex
	source      PositionSource
	logger      *log.Logger
	resume      ResumeTable
	track       *models.Track
	playing     bool
	position    int
	listened    int
	volume      int
	skip        int
	gen         uint64
	subscribers []chan State
	closed      bool
}

// New creates a paused [Controller] with no track loaded.
func New(opts Options) *Controller {
	if opts.Source == nil {
		opts.Source = NewSyntheticSource(nil, 0)
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Volume == 0 {
		opts.Volume = DefaultVolume
	}
	if opts.SkipDelta <= 0 {
		opts.SkipDelta = DefaultSkipDelta
	}

	resume := make(ResumeTable, len(opts.Resume))
	for id, pos := range opts.Resume {
		resume[id] = pos
	}

	c := &Controller{
		source: opts.Source,
		logger: opts.Logger,
		resume: resume,
		volume: clamp(opts.Volume, 0, 100),
		skip:   opts.SkipDelta,
	}
	c.source.SetVolume(c.volume)
	return c
}

// LoadAndPlay makes track current and starts playback.
//
// Reloading the current track resumes from the current position.
// Switching tracks saves the outgoing position and starts the new track at its resume position.
// A track that previously played to its end starts over from 0.
func (c *Controller) LoadAndPlay(track models.Track) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.track != nil && c.playing {
		c.advanceLocked(c.source.Position())
	}

	if c.track != nil && c.track.ID == track.ID {
		if c.position >= c.track.Duration {
			c.position = 0
		}
	} else {
		if c.track != nil {
			c.resume[c.track.ID] = c.position
		}

		loaded := track
		c.track = &loaded
		c.position = clamp(c.resume[track.ID], 0, track.Duration)
		if c.position >= track.Duration {
			c.position = 0
		}
		if _, ok := c.resume[track.ID]; !ok {
			c.resume[track.ID] = c.position
		}
	}

	c.startLocked()
	c.logger.Debug("playing", "track", c.track.ID, "position", c.position)
	c.publishLocked()
}

func (c *Controller) startLocked() {
	c.source.Stop()
	c.gen++
	c.playing = true
	c.source.Start(*c.track, c.position, listener{c: c, gen: c.gen})
}

// Pause stops playback and records the position in the resume table.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.track == nil {
		return
	}
	c.pauseLocked()
	c.publishLocked()
}

func (c *Controller) pauseLocked() {
	if c.playing {
		c.advanceLocked(c.source.Position())
		c.source.Stop()
		c.gen++
		c.playing = false
	}
	c.resume[c.track.ID] = c.position
}

// Toggle pauses when playing and resumes the current track when paused.
func (c *Controller) Toggle() {
	c.mu.Lock()
	playing, track := c.playing, c.track
	c.mu.Unlock()

	switch {
	case playing:
		c.Pause()
	case track != nil:
		c.LoadAndPlay(*track)
	}
}

// Seek moves to target seconds, clamped to the current track.
func (c *Controller) Seek(target int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.track == nil {
		return
	}
	c.seekLocked(target)
	c.publishLocked()
}

// seekLocked repositions the source. Landing on the end while playing finishes the track.
func (c *Controller) seekLocked(target int) {
	c.position = clamp(target, 0, c.track.Duration)
	c.source.Seek(c.position)
	if c.playing && c.position == c.track.Duration {
		c.endLocked()
	}
}

// SkipForward seeks delta seconds ahead. A non-positive delta uses the configured skip.
func (c *Controller) SkipForward(delta int) {
	c.skipBy(delta, 1)
}

// SkipBackward seeks delta seconds back. A non-positive delta uses the configured skip.
func (c *Controller) SkipBackward(delta int) {
	c.skipBy(delta, -1)
}

func (c *Controller) skipBy(delta, sign int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.track == nil {
		return
	}
	if delta <= 0 {
		delta = c.skip
	}
	c.seekLocked(c.position + sign*delta)
	c.publishLocked()
}

// SetVolume stores v clamped to 0..100 and applies it to the source.
func (c *Controller) SetVolume(v int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.volume = clamp(v, 0, 100)
	c.source.SetVolume(c.volume)
	c.publishLocked()
}

// State returns a snapshot of the controller.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) stateLocked() State {
	s := State{Playing: c.playing, Position: c.position, Volume: c.volume, Listened: c.listened}
	if c.track != nil {
		t := *c.track
		s.Track = &t
	}
	return s
}

// Resume returns a copy of the resume table, including the current track's live position.
func (c *Controller) Resume() ResumeTable {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(ResumeTable, len(c.resume)+1)
	for id, pos := range c.resume {
		out[id] = pos
	}
	if c.track != nil {
		out[c.track.ID] = c.position
	}
	return out
}

// Subscribe returns a channel of state snapshots published after every change.
//
// Sends never block: a subscriber that falls behind misses snapshots. The channel closes on [Controller.Close].
func (c *Controller) Subscribe() <-chan State {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan State, subscriberBuffer)
	if c.closed {
		close(ch)
		return ch
	}
	c.subscribers = append(c.subscribers, ch)
	return ch
}

func (c *Controller) publishLocked() {
	s := c.stateLocked()
	for _, ch := range c.subscribers {
		select {
		case ch <- s:
		default:
		}
	}
}

// Close pauses playback and closes all subscriber channels.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	if c.track != nil {
		c.pauseLocked()
	}
	c.source.Stop()
	c.closed = true
	for _, ch := range c.subscribers {
		close(ch)
	}
	c.subscribers = nil
}

func (c *Controller) onPosition(gen uint64, position int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen || !c.playing || c.track == nil {
		return
	}
	c.advanceLocked(position)
	c.publishLocked()
}

func (c *Controller) onEnded(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen || !c.playing || c.track == nil {
		return
	}
	c.endLocked()
	c.publishLocked()
}

func (c *Controller) endLocked() {
	c.advanceLocked(c.track.Duration)
	c.source.Stop()
	c.gen++
	c.playing = false
	c.resume[c.track.ID] = c.position
	c.logger.Debug("track ended", "track", c.track.ID)
}

// advanceLocked moves to a position reported by the source. Forward movement counts as listening time;
// seeks bypass it and never count.
func (c *Controller) advanceLocked(position int) {
	position = clamp(position, 0, c.track.Duration)
	if delta := position - c.position; delta > 0 {
		c.listened += delta
	}
	c.position = position
}

// listener binds source notifications to the start that produced them so late reports are dropped.
type listener struct {
	c   *Controller
	gen uint64
}

func (l listener) PositionChanged(position int) { l.c.onPosition(l.gen, position) }
func (l listener) Ended()                       { l.c.onEnded(l.gen) }

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
