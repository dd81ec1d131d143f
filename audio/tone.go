package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// Wave selects the oscillator shape of a cue tone
type Wave string

const (
	WaveSine     Wave = "sine"
	WaveTriangle Wave = "triangle"
	WaveSquare   Wave = "square"
	WaveSawtooth Wave = "sawtooth"
)

// Waves lists every accepted oscillator name
var Waves = []Wave{WaveSine, WaveTriangle, WaveSquare, WaveSawtooth}

// ParseWave resolves an oscillator name; empty selects sine
func ParseWave(name string) (Wave, error) {
	if name == "" {
		return WaveSine, nil
	}
	for _, w := range Waves {
		if string(w) == name {
			return w, nil
		}
	}
	return "", fmt.Errorf("unknown wave %q", name)
}

// oscillator returns an endless generator for w
func oscillator(w Wave, rate beep.SampleRate, freq float64) (beep.Streamer, error) {
	switch w {
	case WaveTriangle:
		return generators.TriangleTone(rate, freq)
	case WaveSquare:
		return generators.SquareTone(rate, freq)
	case WaveSawtooth:
		return generators.SawtoothTone(rate, freq)
	case WaveSine, "":
		return generators.SineTone(rate, freq)
	}
	return nil, fmt.Errorf("unknown wave %q", w)
}

// envelope ramps volume linearly in over attack and out over release
type envelope struct {
	streamer beep.Streamer
	pos      int
	attack   int
	release  int
	total    int
}

// NewEnvelope shapes s over d; attack and release are clipped to fit d
func NewEnvelope(s beep.Streamer, d, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(d)
	att := min(rate.N(attack), total)
	rel := min(rate.N(release), total-att)
	return &envelope{streamer: s, attack: att, release: rel, total: total}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		if e.pos >= e.total {
			return i, i > 0
		}
		gain := 1.0
		if e.pos < e.attack {
			gain = float64(e.pos) / float64(e.attack)
		}
		if left := e.total - e.pos; e.release > 0 && left <= e.release {
			gain = math.Min(gain, float64(left)/float64(e.release))
		}
		samples[i][0] *= gain
		samples[i][1] *= gain
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// withVolume scales s by a linear factor; zero or less is silent
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// Cue builds the phase cue: a tone with a soft attack and a longer tail
func Cue(freq float64, d time.Duration, wave Wave, vol float64, rate beep.SampleRate) (beep.Streamer, error) {
	osc, err := oscillator(wave, rate, freq)
	if err != nil {
		return nil, fmt.Errorf("cue at %.0f Hz: %w", freq, err)
	}
	shaped := NewEnvelope(beep.Take(rate.N(d), osc), d, d/10, d/2, rate)
	return withVolume(shaped, vol), nil
}
