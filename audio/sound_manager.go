package audio

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

// SoundManager plays game cues through the speaker
// Implements engine.FireSink, engine.ScoreSink and engine.GameOverSink; every
// method is safe to call before Initialize or after a failed init, in which case
// cues are counted but not played
type SoundManager struct {
	mu          sync.Mutex
	cfg         *AudioConfig
	sampleRate  beep.SampleRate
	mixer       *beep.Mixer
	volume      *effects.Volume
	initialized bool

	lastScore int
	seed      int64

	muted  atomic.Bool
	played [cueCount]atomic.Int64
}

// NewSoundManager creates a new sound manager
func NewSoundManager(cfg *AudioConfig) *SoundManager {
	if cfg == nil {
		cfg = DefaultAudioConfig()
	}
	mixer := &beep.Mixer{}
	sm := &SoundManager{
		cfg:        cfg,
		sampleRate: beep.SampleRate(cfg.SampleRate),
		mixer:      mixer,
		volume: &effects.Volume{
			Streamer: mixer,
			Base:     2,
			Volume:   gainToVolume(cfg.MasterVolume),
			Silent:   cfg.MasterVolume <= 0,
		},
		seed: time.Now().UnixNano(),
	}
	return sm
}

// gainToVolume maps linear 0..1 gain to beep's base-2 exponent
func gainToVolume(gain float64) float64 {
	if gain <= 0 {
		return 0
	}
	return math.Log2(gain)
}

// Initialize sets up the audio system; disabled configs succeed without touching the device
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized || !sm.cfg.Enabled {
		return nil
	}

	// Initialize speaker with sample rate and buffer size
	err := speaker.Init(sm.sampleRate, sm.sampleRate.N(time.Millisecond*50))
	if err != nil {
		return err
	}

	speaker.Play(sm.volume)
	sm.initialized = true
	return nil
}

// Cleanup stops all sounds and closes the audio system
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	sm.initialized = false
}

// ToggleMute flips the mute state, returns true when muted
func (sm *SoundManager) ToggleMute() bool {
	for {
		old := sm.muted.Load()
		if sm.muted.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Muted reports whether cues are silenced
func (sm *SoundManager) Muted() bool {
	return sm.muted.Load()
}

// Played returns how many times a cue was requested
func (sm *SoundManager) Played(c Cue) int64 {
	if c < 0 || c >= cueCount {
		return 0
	}
	return sm.played[c].Load()
}

// Play queues a cue on the mixer
func (sm *SoundManager) Play(c Cue) {
	if c < 0 || c >= cueCount {
		return
	}
	sm.played[c].Add(1)

	if sm.muted.Load() {
		return
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	var streamer beep.Streamer
	switch c {
	case CueFire:
		streamer = NewZapGenerator(sm.sampleRate)
	case CueKill:
		sm.seed++
		streamer = NewBurstGenerator(sm.sampleRate, sm.seed)
	case CueGameOver:
		streamer = NewDirgeGenerator(sm.sampleRate)
	}

	speaker.Lock()
	sm.mixer.Add(streamer)
	speaker.Unlock()
}

// Fired plays one shot cue per frame regardless of shot count
func (sm *SoundManager) Fired(shots int) {
	if shots > 0 {
		sm.Play(CueFire)
	}
}

// ScoreChanged plays the kill cue when the score rises
func (sm *SoundManager) ScoreChanged(score int) {
	sm.mu.Lock()
	rose := score > sm.lastScore
	sm.lastScore = score
	sm.mu.Unlock()

	if rose {
		sm.Play(CueKill)
	}
}

// GameOver plays the game over cue
func (sm *SoundManager) GameOver(int) {
	sm.Play(CueGameOver)
}

// Reset forgets the last score for a new session
func (sm *SoundManager) Reset() {
	sm.mu.Lock()
	sm.lastScore = 0
	sm.mu.Unlock()
}
