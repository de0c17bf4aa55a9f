package term

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

// Cue names a gesture moment worth an audible signal.
type Cue int

const (
	CuePickup Cue = iota
	CueDrop
	CueCancel
)

// Beeper plays cues.
type Beeper interface {
	Play(Cue)
	Close()
}

// Silent is a Beeper that plays nothing.
type Silent struct{}

func (Silent) Play(Cue) {}
func (Silent) Close()   {}

const sampleRate = beep.SampleRate(44100)

type tone struct {
	freq float64
	dur  time.Duration
}

var cueTones = map[Cue]tone{
	CuePickup: {freq: 660, dur: 40 * time.Millisecond},
	CueDrop:   {freq: 440, dur: 70 * time.Millisecond},
	CueCancel: {freq: 220, dur: 120 * time.Millisecond},
}

// Speaker plays cues as short sine tones through the default audio device.
type Speaker struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	closed bool
}

// NewSpeaker opens the audio device.
func NewSpeaker() (*Speaker, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, err
	}
	s := &Speaker{mixer: &beep.Mixer{}}
	speaker.Play(s.mixer)
	return s, nil
}

// Play queues the tone for c.
func (s *Speaker) Play(c Cue) {
	t, ok := cueTones[c]
	if !ok {
		return
	}
	sine, err := generators.SineTone(sampleRate, t.freq)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	speaker.Lock()
	s.mixer.Add(beep.Take(sampleRate.N(t.dur), sine))
	speaker.Unlock()
}

// Close stops playback and releases the device.
func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	speaker.Clear()
	speaker.Close()
}
