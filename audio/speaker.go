// Package audio plays collision clips through the system speaker.
package audio

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/pthm-cable/bounce/assets"
)

// Speaker mixes collision voices onto the default output device.
type Speaker struct {
	mu          sync.Mutex
	rate        beep.SampleRate
	mixer       *beep.Mixer
	shared      *beep.Ctrl
	initialized bool

	// Guard the mixer against the speaker's playback goroutine
	lock, unlock func()
}

// NewSpeaker creates a speaker running at rate. Call Initialize before use.
func NewSpeaker(rate beep.SampleRate) *Speaker {
	return &Speaker{
		rate:   rate,
		mixer:  &beep.Mixer{},
		lock:   speaker.Lock,
		unlock: speaker.Unlock,
	}
}

// SampleRate returns the output rate clips should be decoded at.
func (s *Speaker) SampleRate() beep.SampleRate {
	return s.rate
}

// Initialize opens the output device with the given buffer length and
// starts the mixer.
func (s *Speaker) Initialize(buffer time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := speaker.Init(s.rate, s.rate.N(buffer)); err != nil {
		return fmt.Errorf("initializing speaker: %w", err)
	}
	speaker.Play(s.mixer)
	s.initialized = true
	slog.Info("audio initialized", "sample_rate", int(s.rate), "buffer_ms", buffer.Milliseconds())
	return nil
}

// Cleanup stops all voices and closes the device.
func (s *Speaker) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	s.clear()
	speaker.Close()
	s.initialized = false
}

// Restart plays clip on the shared voice from the start. Whatever the shared
// voice was playing is cut off, so restarts never overlap.
func (s *Speaker) Restart(clip *assets.Clip) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}

	s.lock()
	defer s.unlock()
	if s.shared != nil {
		// A Ctrl without a streamer reports drained and the mixer drops it
		s.shared.Streamer = nil
	}
	s.shared = &beep.Ctrl{Streamer: clip.Streamer()}
	s.mixer.Add(s.shared)
}

// Play starts clip on a new voice, overlapping anything already playing.
func (s *Speaker) Play(clip *assets.Clip) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}

	s.lock()
	defer s.unlock()
	s.mixer.Add(clip.Streamer())
}

// Stop silences every voice.
func (s *Speaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	s.clear()
}

func (s *Speaker) clear() {
	s.lock()
	defer s.unlock()
	if s.shared != nil {
		s.shared.Paused = true
		s.shared = nil
	}
	s.mixer.Clear()
}

// Voices returns the number of streams currently in the mixer, including
// ones that finished but have not been drained yet.
func (s *Speaker) Voices() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lock()
	defer s.unlock()
	return s.mixer.Len()
}
