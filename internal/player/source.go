package player

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cadence/internal/models"
)

// Notifier receives position reports from a [PositionSource].
type Notifier interface {
	PositionChanged(position int)
	Ended()
}

// PositionSource advances the elapsed position of the current track.
//
// A source reports through the [Notifier] handed to Start and must not call it synchronously from its own methods.
type PositionSource interface {
	Start(track models.Track, position int, n Notifier)
	Stop()
	Position() int
	Seek(position int)
	SetVolume(volume int)
}

// Scheduler runs fn every d until the returned cancel func is called.
type Scheduler interface {
	Every(d time.Duration, fn func()) (cancel func())
}

// TickerScheduler is a [Scheduler] backed by [time.Ticker].
type TickerScheduler struct{}

func (TickerScheduler) Every(d time.Duration, fn func()) func() {
	ticker := time.NewTicker(d)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				fn()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}

// SyntheticSource fakes playback with one tick per interval, advancing the position by a second each tick.
//
// At most one tick is live: Start cancels any earlier one, and ticks from a cancelled schedule are dropped.
type SyntheticSource struct {
	mu        sync.Mutex
	scheduler Scheduler
	interval  time.Duration
	cancel    func()
	gen       uint64
	position  int
	duration  int
	notifier  Notifier
}

// NewSyntheticSource creates a [SyntheticSource]. A zero interval means one second.
func NewSyntheticSource(s Scheduler, interval time.Duration) *SyntheticSource {
	if s == nil {
		s = TickerScheduler{}
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &SyntheticSource{scheduler: s, interval: interval}
}

func (s *SyntheticSource) Start(track models.Track, position int, n Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.gen++
	gen := s.gen
	s.position = position
	s.duration = track.Duration
	s.notifier = n
	s.cancel = s.scheduler.Every(s.interval, func() { s.tick(gen) })
}

func (s *SyntheticSource) tick(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.cancel == nil {
		s.mu.Unlock()
		return
	}

	s.position++
	ended := s.position >= s.duration
	if ended {
		s.position = s.duration
		s.stopLocked()
	}
	position, n := s.position, s.notifier
	s.mu.Unlock()

	n.PositionChanged(position)
	if ended {
		n.Ended()
	}
}

func (s *SyntheticSource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *SyntheticSource) stopLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *SyntheticSource) Position() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

func (s *SyntheticSource) Seek(position int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.position = position
}

// SetVolume is a no-op: there is no audio to attenuate.
func (s *SyntheticSource) SetVolume(int) {}

// Live reports whether a tick schedule is active.
func (s *SyntheticSource) Live() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Device is an external playback device whose clock is authoritative.
//
// Implementations deliver position and end notifications to the [Notifier] registered with Notify, from their own goroutine.
type Device interface {
	SetSource(location string) error
	Play() error
	Pause() error
	Position() int
	SetPosition(seconds int) error
	Volume() int
	SetVolume(volume int) error
	Notify(n Notifier)
}

// DeviceSource drives position from a [Device]. No synthetic tick runs.
type DeviceSource struct {
	mu       sync.Mutex
	device   Device
	logger   *log.Logger
	loaded   string
	notifier Notifier
}

// NewDeviceSource wraps d and registers itself for its notifications.
func NewDeviceSource(d Device, logger *log.Logger) *DeviceSource {
	if logger == nil {
		logger = log.Default()
	}
	s := &DeviceSource{device: d, logger: logger}
	d.Notify(s)
	return s
}

func (s *DeviceSource) Start(track models.Track, position int, n Notifier) {
	s.mu.Lock()
	s.notifier = n
	reload := s.loaded != track.ID
	s.loaded = track.ID
	s.mu.Unlock()

	if reload {
		if err := s.device.SetSource(track.AudioLocation); err != nil {
			s.logger.Error("failed to set device source", "track", track.ID, "location", track.AudioLocation, "error", err)
		}
	}
	if err := s.device.SetPosition(position); err != nil {
		s.logger.Warn("failed to position device", "track", track.ID, "position", position, "error", err)
	}
	if err := s.device.Play(); err != nil {
		s.logger.Error("device failed to play", "track", track.ID, "error", err)
	}
}

func (s *DeviceSource) Stop() {
	s.mu.Lock()
	s.notifier = nil
	s.mu.Unlock()

	if err := s.device.Pause(); err != nil {
		s.logger.Warn("device failed to pause", "error", err)
	}
}

func (s *DeviceSource) Position() int {
	return s.device.Position()
}

func (s *DeviceSource) Seek(position int) {
	if err := s.device.SetPosition(position); err != nil {
		s.logger.Warn("failed to seek device", "position", position, "error", err)
	}
}

func (s *DeviceSource) SetVolume(volume int) {
	if err := s.device.SetVolume(volume); err != nil {
		s.logger.Warn("failed to set device volume", "volume", volume, "error", err)
	}
}

// PositionChanged forwards a device report to the active notifier, if any.
func (s *DeviceSource) PositionChanged(position int) {
	if n := s.active(); n != nil {
		n.PositionChanged(position)
	}
}

// Ended forwards the device end notification to the active notifier, if any.
func (s *DeviceSource) Ended() {
	if n := s.active(); n != nil {
		n.Ended()
	}
}

func (s *DeviceSource) active() Notifier {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notifier
}
