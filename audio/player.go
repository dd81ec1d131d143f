package audio

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(48000)

	// DefaultVolume is the linear gain applied to cue tones
	DefaultVolume = 0.3
)

// Player mixes cue tones into a single speaker stream
// Play is a no-op until Initialize succeeds, so a missing audio device only silences cues
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool
}

// NewPlayer creates an uninitialized player
func NewPlayer() *Player {
	return &Player{
		mixer:  &beep.Mixer{},
		volume: DefaultVolume,
	}
}

// Initialize opens the speaker and starts the mixer
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("failed to init speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	log.Printf("Audio initialized at %d Hz", sampleRate)
	return nil
}

// SetVolume sets the linear gain for subsequent cues
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	p.volume = v
	p.mu.Unlock()
}

// Play queues a tone without blocking the caller
func (p *Player) Play(freq float64, d time.Duration, wave string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || freq <= 0 || d <= 0 {
		return
	}
	w, err := ParseWave(wave)
	if err != nil {
		log.Printf("Cue skipped: %v", err)
		return
	}
	s, err := Cue(freq, d, w, p.volume, sampleRate)
	if err != nil {
		log.Printf("Cue skipped: %v", err)
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Close silences pending cues and stops the speaker
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.initialized = false
}
