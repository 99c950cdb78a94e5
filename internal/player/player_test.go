package player

import (
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/cadence/internal/models"
)

// manualScheduler fires registered callbacks only when Tick is called.
type manualScheduler struct {
	mu    sync.Mutex
	next  int
	tasks map[int]func()
}

func newManualScheduler() *manualScheduler {
	return &manualScheduler{tasks: make(map[int]func())}
}

func (s *manualScheduler) Every(_ time.Duration, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	s.tasks[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.tasks, id)
	}
}

func (s *manualScheduler) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

func (s *manualScheduler) Tick(n int) {
	for range n {
		s.mu.Lock()
		fns := make([]func(), 0, len(s.tasks))
		for _, fn := range s.tasks {
			fns = append(fns, fn)
		}
		s.mu.Unlock()
		for _, fn := range fns {
			fn()
		}
	}
}

type fakeDevice struct {
	mu       sync.Mutex
	source   string
	sources  int
	playing  bool
	position int
	volume   int
	notifier Notifier
}

func (d *fakeDevice) SetSource(location string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.source = location
	d.sources++
	return nil
}

func (d *fakeDevice) Play() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.playing = true
	return nil
}

func (d *fakeDevice) Pause() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.playing = false
	return nil
}

func (d *fakeDevice) Position() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.position
}

func (d *fakeDevice) SetPosition(seconds int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.position = seconds
	return nil
}

func (d *fakeDevice) Volume() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.volume
}

func (d *fakeDevice) SetVolume(v int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.volume = v
	return nil
}

func (d *fakeDevice) Notify(n Notifier) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notifier = n
}

// advance moves the device clock and reports it, as a real device would from its own goroutine.
func (d *fakeDevice) advance(seconds int) {
	d.mu.Lock()
	d.position += seconds
	pos, n := d.position, d.notifier
	d.mu.Unlock()
	n.PositionChanged(pos)
}

func (d *fakeDevice) end() {
	d.mu.Lock()
	n := d.notifier
	d.mu.Unlock()
	n.Ended()
}

var (
	songA   = models.Track{ID: "S-001", Title: "Eye of the Tiger", Artist: "Survivor", Kind: models.KindSong, Duration: 30}
	songB   = models.Track{ID: "S-002", Title: "Lose Yourself", Artist: "Eminem", Kind: models.KindSong, Duration: 60}
	podcast = models.Track{ID: "P-001", Title: "Growth Mindset", Artist: "Ali Abdaal", Kind: models.KindPodcast, Duration: 5, AudioLocation: "https://media.example/p1.mp3"}
)

func newSynthetic(t *testing.T, opts Options) (*Controller, *manualScheduler) {
	t.Helper()
	sched := newManualScheduler()
	opts.Source = NewSyntheticSource(sched, time.Second)
	return New(opts), sched
}

func TestController(t *testing.T) {
	t.Run("new controller is idle", func(t *testing.T) {
		c, _ := newSynthetic(t, Options{})
		s := c.State()
		if s.Track != nil || s.Playing || s.Position != 0 {
			t.Errorf("expected idle state, got %+v", s)
		}
		if s.Volume != DefaultVolume {
			t.Errorf("expected default volume %d, got %d", DefaultVolume, s.Volume)
		}
	})

	t.Run("operations without a track are no-ops", func(t *testing.T) {
		c, sched := newSynthetic(t, Options{})
		c.Pause()
		c.Toggle()
		c.Seek(10)
		c.SkipForward(0)
		c.SkipBackward(0)

		s := c.State()
		if s.Track != nil || s.Playing || s.Position != 0 {
			t.Errorf("expected idle state, got %+v", s)
		}
		if sched.Live() != 0 {
			t.Errorf("expected no ticks scheduled, got %d", sched.Live())
		}
		if len(c.Resume()) != 0 {
			t.Errorf("expected empty resume table, got %v", c.Resume())
		}
	})

	t.Run("load and play starts at zero", func(t *testing.T) {
		c, sched := newSynthetic(t, Options{})
		c.LoadAndPlay(songA)

		s := c.State()
		if s.Track == nil || s.Track.ID != songA.ID || !s.Playing || s.Position != 0 {
			t.Errorf("unexpected state %+v", s)
		}
		if sched.Live() != 1 {
			t.Errorf("expected one live tick, got %d", sched.Live())
		}
		if pos, ok := c.Resume()[songA.ID]; !ok || pos != 0 {
			t.Errorf("expected resume entry created at 0, got %d (%v)", pos, ok)
		}
	})

	t.Run("tick advances by one and pauses at duration", func(t *testing.T) {
		c, sched := newSynthetic(t, Options{})
		c.LoadAndPlay(podcast)

		last := c.State().Position
		for range podcast.Duration - 1 {
			sched.Tick(1)
			s := c.State()
			if s.Position != last+1 {
				t.Fatalf("expected position %d, got %d", last+1, s.Position)
			}
			if !s.Playing {
				t.Fatalf("stopped early at %d", s.Position)
			}
			last = s.Position
		}

		sched.Tick(1)
		s := c.State()
		if s.Playing || s.Position != podcast.Duration {
			t.Errorf("expected paused at %d, got %+v", podcast.Duration, s)
		}
		if sched.Live() != 0 {
			t.Errorf("expected tick cancelled at end, got %d live", sched.Live())
		}
		if c.Resume()[podcast.ID] != podcast.Duration {
			t.Errorf("expected resume at duration, got %d", c.Resume()[podcast.ID])
		}

		sched.Tick(3)
		if got := c.State().Position; got != podcast.Duration {
			t.Errorf("position moved past duration: %d", got)
		}
	})

	t.Run("resume after switching away and back", func(t *testing.T) {
		c, sched := newSynthetic(t, Options{})
		c.LoadAndPlay(songA)
		sched.Tick(7)
		c.Pause()

		c.LoadAndPlay(songB)
		sched.Tick(3)
		if got := c.State().Position; got != 3 {
			t.Fatalf("expected song B at 3, got %d", got)
		}

		c.LoadAndPlay(songA)
		if got := c.State().Position; got != 7 {
			t.Errorf("expected song A to resume at 7, got %d", got)
		}
		if got := c.Resume()[songB.ID]; got != 3 {
			t.Errorf("expected song B saved at 3, got %d", got)
		}
	})

	t.Run("switching while playing saves outgoing position", func(t *testing.T) {
		c, sched := newSynthetic(t, Options{})
		c.LoadAndPlay(songA)
		sched.Tick(4)
		c.LoadAndPlay(songB)

		if got := c.Resume()[songA.ID]; got != 4 {
			t.Errorf("expected song A saved at 4, got %d", got)
		}
		if sched.Live() != 1 {
			t.Errorf("expected exactly one live tick, got %d", sched.Live())
		}

		sched.Tick(2)
		if got := c.State().Position; got != 2 {
			t.Errorf("expected single advance per tick, got %d", got)
		}
	})

	t.Run("reloading current track keeps position and a single tick", func(t *testing.T) {
		c, sched := newSynthetic(t, Options{})
		c.LoadAndPlay(songA)
		sched.Tick(5)
		c.LoadAndPlay(songA)
		c.LoadAndPlay(songA)

		if sched.Live() != 1 {
			t.Fatalf("expected one live tick, got %d", sched.Live())
		}
		sched.Tick(1)
		if got := c.State().Position; got != 6 {
			t.Errorf("expected 6, got %d", got)
		}
	})

	t.Run("initial resume table is honoured", func(t *testing.T) {
		c, _ := newSynthetic(t, Options{Resume: ResumeTable{songB.ID: 42}})
		c.LoadAndPlay(songB)
		if got := c.State().Position; got != 42 {
			t.Errorf("expected resume at 42, got %d", got)
		}
	})

	t.Run("toggle", func(t *testing.T) {
		c, sched := newSynthetic(t, Options{})
		c.LoadAndPlay(songA)
		sched.Tick(2)

		c.Toggle()
		if c.State().Playing {
			t.Fatal("expected paused after toggle")
		}
		if sched.Live() != 0 {
			t.Errorf("expected tick cancelled on pause, got %d", sched.Live())
		}
		if got := c.Resume()[songA.ID]; got != 2 {
			t.Errorf("expected pause to save 2, got %d", got)
		}

		sched.Tick(2)
		if got := c.State().Position; got != 2 {
			t.Errorf("position advanced while paused: %d", got)
		}

		c.Toggle()
		s := c.State()
		if !s.Playing || s.Position != 2 {
			t.Errorf("expected playing from 2, got %+v", s)
		}
	})
}

func TestSeek(t *testing.T) {
	tc := []struct {
		target, want int
	}{
		{target: 10, want: 10},
		{target: -5, want: 0},
		{target: 0, want: 0},
		{target: 30, want: 30},
		{target: 500, want: 30},
	}

	for _, tt := range tc {
		c, _ := newSynthetic(t, Options{})
		c.LoadAndPlay(songA)
		c.Seek(tt.target)
		if got := c.State().Position; got != tt.want {
			t.Errorf("Seek(%d) = %d, want %d", tt.target, got, tt.want)
		}
	}

	t.Run("seek while playing continues from target", func(t *testing.T) {
		c, sched := newSynthetic(t, Options{})
		c.LoadAndPlay(songB)
		sched.Tick(3)
		c.Seek(40)
		sched.Tick(1)
		if got := c.State().Position; got != 41 {
			t.Errorf("expected 41, got %d", got)
		}
	})

	t.Run("seek to end while playing finishes the track", func(t *testing.T) {
		c, sched := newSynthetic(t, Options{})
		c.LoadAndPlay(songA)
		c.Seek(songA.Duration)

		s := c.State()
		if s.Playing || s.Position != songA.Duration {
			t.Errorf("expected paused at %d, got %+v", songA.Duration, s)
		}
		if got := c.Resume()[songA.ID]; got != songA.Duration {
			t.Errorf("expected resume entry %d, got %d", songA.Duration, got)
		}
		if sched.Live() != 0 {
			t.Errorf("expected no live tick, got %d", sched.Live())
		}
		sched.Tick(2)
		if got := c.State().Position; got != songA.Duration {
			t.Errorf("position moved after end: %d", got)
		}
	})

	t.Run("skip past end while playing finishes the track", func(t *testing.T) {
		c, sched := newSynthetic(t, Options{})
		c.LoadAndPlay(songA)
		sched.Tick(5)
		c.SkipForward(100)

		s := c.State()
		if s.Playing || s.Position != songA.Duration {
			t.Errorf("expected paused at %d, got %+v", songA.Duration, s)
		}
		if sched.Live() != 0 {
			t.Errorf("expected no live tick, got %d", sched.Live())
		}
	})

	t.Run("seek to end while paused stays paused", func(t *testing.T) {
		c, _ := newSynthetic(t, Options{})
		c.LoadAndPlay(songA)
		c.Pause()
		c.Seek(songA.Duration)

		if s := c.State(); s.Playing || s.Position != songA.Duration {
			t.Errorf("expected paused at %d, got %+v", songA.Duration, s)
		}
	})
}

func TestSkip(t *testing.T) {
	c, sched := newSynthetic(t, Options{SkipDelta: 10})
	c.LoadAndPlay(songA)
	c.Pause()

	c.SkipForward(0)
	if got := c.State().Position; got != 10 {
		t.Errorf("SkipForward default = %d, want 10", got)
	}
	c.SkipForward(15)
	if got := c.State().Position; got != 25 {
		t.Errorf("SkipForward(15) = %d, want 25", got)
	}
	c.SkipForward(0)
	if got := c.State().Position; got != songA.Duration {
		t.Errorf("SkipForward past end = %d, want %d", got, songA.Duration)
	}
	c.SkipBackward(0)
	if got := c.State().Position; got != 20 {
		t.Errorf("SkipBackward default = %d, want 20", got)
	}
	c.SkipBackward(100)
	if got := c.State().Position; got != 0 {
		t.Errorf("SkipBackward past start = %d, want 0", got)
	}
	if sched.Live() != 0 {
		t.Errorf("skip should not start playback, got %d live ticks", sched.Live())
	}
}

func TestSetVolume(t *testing.T) {
	c, _ := newSynthetic(t, Options{Volume: 55})
	if got := c.State().Volume; got != 55 {
		t.Fatalf("expected initial volume 55, got %d", got)
	}

	for _, tt := range []struct{ in, want int }{{-10, 0}, {0, 0}, {42, 42}, {100, 100}, {150, 100}} {
		c.SetVolume(tt.in)
		if got := c.State().Volume; got != tt.want {
			t.Errorf("SetVolume(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestReplayAfterCompletion(t *testing.T) {
	t.Run("same track restarts from zero", func(t *testing.T) {
		c, sched := newSynthetic(t, Options{})
		c.LoadAndPlay(podcast)
		sched.Tick(podcast.Duration)
		if c.State().Playing {
			t.Fatal("expected track to finish")
		}

		c.Toggle()
		s := c.State()
		if !s.Playing || s.Position != 0 {
			t.Errorf("expected replay from 0, got %+v", s)
		}
	})

	t.Run("finished track restarts after switching back", func(t *testing.T) {
		c, sched := newSynthetic(t, Options{})
		c.LoadAndPlay(podcast)
		sched.Tick(podcast.Duration)
		c.LoadAndPlay(songA)
		c.LoadAndPlay(podcast)

		if got := c.State().Position; got != 0 {
			t.Errorf("expected replay from 0, got %d", got)
		}
	})
}

func TestListened(t *testing.T) {
	t.Run("ticks count and seeks do not", func(t *testing.T) {
		c, sched := newSynthetic(t, Options{})
		c.LoadAndPlay(songB)
		sched.Tick(4)
		c.Seek(40)
		sched.Tick(2)
		c.SkipBackward(30)
		sched.Tick(1)

		if got := c.State().Listened; got != 7 {
			t.Errorf("expected 7 listened seconds, got %d", got)
		}
	})

	t.Run("carries across tracks", func(t *testing.T) {
		c, sched := newSynthetic(t, Options{})
		c.LoadAndPlay(songA)
		sched.Tick(3)
		c.LoadAndPlay(songB)
		sched.Tick(2)

		if got := c.State().Listened; got != 5 {
			t.Errorf("expected 5 listened seconds, got %d", got)
		}
	})

	t.Run("device reports count in full", func(t *testing.T) {
		dev := &fakeDevice{}
		c := New(Options{Source: NewDeviceSource(dev, nil)})
		c.LoadAndPlay(songB)
		dev.advance(5)
		dev.advance(5)
		c.Seek(50)
		dev.advance(3)

		if got := c.State().Listened; got != 13 {
			t.Errorf("expected 13 listened seconds, got %d", got)
		}
	})
}

func TestSubscribe(t *testing.T) {
	c, sched := newSynthetic(t, Options{})
	ch := c.Subscribe()

	c.LoadAndPlay(songA)
	sched.Tick(1)

	first := <-ch
	if first.Track == nil || first.Track.ID != songA.ID || !first.Playing {
		t.Errorf("unexpected first snapshot %+v", first)
	}
	second := <-ch
	if second.Position != 1 {
		t.Errorf("expected tick snapshot at 1, got %d", second.Position)
	}

	t.Run("slow subscriber never blocks", func(t *testing.T) {
		done := make(chan struct{})
		go func() {
			sched.Tick(subscriberBuffer * 2)
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("publishing blocked on a full subscriber")
		}
	})

	c.Close()
	for range ch {
	}
	if _, ok := <-c.Subscribe(); ok {
		t.Error("expected closed channel after Close")
	}
}

func TestDeviceSource(t *testing.T) {
	t.Run("device clock is authoritative", func(t *testing.T) {
		dev := &fakeDevice{}
		c := New(Options{Source: NewDeviceSource(dev, nil), Volume: 30})
		c.LoadAndPlay(podcast)

		if dev.source != podcast.AudioLocation || !dev.playing {
			t.Fatalf("expected device loaded and playing, got %+v", dev)
		}
		if dev.volume != 30 {
			t.Errorf("expected device volume 30, got %d", dev.volume)
		}

		dev.advance(2)
		if got := c.State().Position; got != 2 {
			t.Errorf("expected device position 2, got %d", got)
		}
	})

	t.Run("pause reads device position", func(t *testing.T) {
		dev := &fakeDevice{}
		c := New(Options{Source: NewDeviceSource(dev, nil)})
		c.LoadAndPlay(songB)
		dev.SetPosition(12)
		c.Pause()

		if dev.playing {
			t.Error("expected device paused")
		}
		if got := c.Resume()[songB.ID]; got != 12 {
			t.Errorf("expected resume at 12, got %d", got)
		}

		dev.advance(5)
		if got := c.State().Position; got != 12 {
			t.Errorf("reports after pause must be ignored, got %d", got)
		}
	})

	t.Run("seek and volume reach the device", func(t *testing.T) {
		dev := &fakeDevice{}
		c := New(Options{Source: NewDeviceSource(dev, nil)})
		c.LoadAndPlay(songB)
		c.Seek(45)
		c.SetVolume(120)

		if dev.position != 45 {
			t.Errorf("expected device at 45, got %d", dev.position)
		}
		if dev.volume != 100 {
			t.Errorf("expected device volume 100, got %d", dev.volume)
		}
	})

	t.Run("ended pins position at duration", func(t *testing.T) {
		dev := &fakeDevice{}
		c := New(Options{Source: NewDeviceSource(dev, nil)})
		c.LoadAndPlay(podcast)
		dev.advance(4)
		dev.end()

		s := c.State()
		if s.Playing || s.Position != podcast.Duration {
			t.Errorf("expected paused at duration, got %+v", s)
		}
	})

	t.Run("seek to end pauses the device", func(t *testing.T) {
		dev := &fakeDevice{}
		c := New(Options{Source: NewDeviceSource(dev, nil)})
		c.LoadAndPlay(songB)
		dev.advance(20)
		c.Seek(songB.Duration)

		if s := c.State(); s.Playing || s.Position != songB.Duration {
			t.Errorf("expected paused at %d, got %+v", songB.Duration, s)
		}
		if dev.playing {
			t.Error("expected device to be paused")
		}
	})

	t.Run("source is set once per track", func(t *testing.T) {
		dev := &fakeDevice{}
		c := New(Options{Source: NewDeviceSource(dev, nil)})
		c.LoadAndPlay(songB)
		c.Pause()
		c.LoadAndPlay(songB)

		if dev.sources != 1 {
			t.Errorf("expected one SetSource call, got %d", dev.sources)
		}
	})
}

func TestTickerScheduler(t *testing.T) {
	var mu sync.Mutex
	count := 0
	cancel := TickerScheduler{}.Every(5*time.Millisecond, func() {
		mu.Lock()
		count++
		mu.Unlock()
	})

	time.Sleep(40 * time.Millisecond)
	cancel()
	cancel()

	mu.Lock()
	fired := count
	mu.Unlock()
	if fired == 0 {
		t.Fatal("expected ticks before cancel")
	}

	time.Sleep(30 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if count > fired+1 {
		t.Errorf("ticks continued after cancel: %d -> %d", fired, count)
	}
}
