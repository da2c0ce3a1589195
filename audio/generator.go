package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// ZapGenerator generates a short downward pitch sweep for shots
type ZapGenerator struct {
	sr      beep.SampleRate
	pos     int
	samples int
}

// NewZapGenerator creates a zap sound generator
func NewZapGenerator(sr beep.SampleRate) *ZapGenerator {
	return &ZapGenerator{
		sr:      sr,
		samples: sr.N(time.Millisecond * 90),
	}
}

func (g *ZapGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	if g.pos >= g.samples {
		return 0, false
	}
	for i := range samples {
		if g.pos >= g.samples {
			return i, true
		}
		t := float64(g.pos) / float64(g.sr)
		progress := float64(g.pos) / float64(g.samples)

		// 1200Hz falling to 300Hz
		freq := 1200 - 900*progress
		envelope := 1 - progress
		sample := 0.25 * envelope * math.Sin(2*math.Pi*freq*t)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ZapGenerator) Err() error {
	return nil
}

// BurstGenerator generates a noisy crack for enemy deaths
type BurstGenerator struct {
	sr      beep.SampleRate
	pos     int
	samples int
	seed    int64
}

// NewBurstGenerator creates a burst sound generator
func NewBurstGenerator(sr beep.SampleRate, seed int64) *BurstGenerator {
	return &BurstGenerator{
		sr:      sr,
		samples: sr.N(time.Millisecond * 250),
		seed:    seed,
	}
}

func (g *BurstGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	if g.pos >= g.samples {
		return 0, false
	}
	for i := range samples {
		if g.pos >= g.samples {
			return i, true
		}
		t := float64(g.pos) / float64(g.sr)

		// Envelope - quick attack, slower decay
		envelope := math.Exp(-t * 14)

		g.seed = (g.seed*1103515245 + 12345) & 0x7fffffff
		noise := float64(g.seed)/float64(0x7fffffff)*2 - 1

		// Mix with low thump
		thump := 0.4 * math.Sin(2*math.Pi*70*t)

		sample := envelope * (0.3*noise + thump)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *BurstGenerator) Err() error {
	return nil
}

// DirgeGenerator generates a three-step descending tone for game over
type DirgeGenerator struct {
	sr      beep.SampleRate
	pos     int
	step    int
	samples int
}

var dirgeNotes = [...]float64{392, 311, 196}

// NewDirgeGenerator creates a game over sound generator
func NewDirgeGenerator(sr beep.SampleRate) *DirgeGenerator {
	return &DirgeGenerator{
		sr:   sr,
		step: sr.N(time.Millisecond * 220),
		// Last note rings twice as long
		samples: sr.N(time.Millisecond*220) * (len(dirgeNotes) + 1),
	}
}

func (g *DirgeGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	if g.pos >= g.samples {
		return 0, false
	}
	for i := range samples {
		if g.pos >= g.samples {
			return i, true
		}
		note := g.pos / g.step
		if note >= len(dirgeNotes) {
			note = len(dirgeNotes) - 1
		}
		t := float64(g.pos) / float64(g.sr)
		notePos := float64(g.pos-note*g.step) / float64(g.sr)

		// Square-ish tone from the first harmonics
		freq := dirgeNotes[note]
		sample := 0.3*math.Sin(2*math.Pi*freq*t) + 0.1*math.Sin(2*math.Pi*freq*3*t)
		sample *= math.Exp(-notePos * 3)

		samples[i][0] = sample * 0.5
		samples[i][1] = sample * 0.5
		g.pos++
	}
	return len(samples), true
}

func (g *DirgeGenerator) Err() error {
	return nil
}
