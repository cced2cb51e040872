// Package sfx plays short synthesized blips for arena events. Audio is
// optional: when no output device is available every call is a no-op.
package sfx

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog"
)

const sampleRate = beep.SampleRate(44100)

// Cue is one kind of event sound.
type Cue int

const (
	CueEnemyShot Cue = iota
	CueBossShot
	CuePlayerShot
	CueHit
	CueWave
)

type tone struct {
	freq   float64
	length time.Duration
	volume float64 // linear, 0..1
}

var cueTones = map[Cue]tone{
	CueEnemyShot:  {freq: 660, length: 40 * time.Millisecond, volume: 0.25},
	CueBossShot:   {freq: 220, length: 90 * time.Millisecond, volume: 0.35},
	CuePlayerShot: {freq: 990, length: 25 * time.Millisecond, volume: 0.15},
	CueHit:        {freq: 140, length: 120 * time.Millisecond, volume: 0.5},
	CueWave:       {freq: 440, length: 250 * time.Millisecond, volume: 0.3},
}

// Player plays cues on the default speaker.
type Player struct {
	mu      sync.Mutex
	enabled bool
	log     zerolog.Logger
}

// New opens the speaker. Failure is logged and yields a silent Player.
func New(log zerolog.Logger) *Player {
	p := &Player{log: log}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		log.Warn().Err(err).Msg("audio unavailable, continuing without sound")
		return p
	}
	p.enabled = true
	return p
}

// Silent returns a Player that never touches the audio device.
func Silent() *Player { return &Player{log: zerolog.Nop()} }

func (p *Player) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// Play queues the cue's blip. Unknown cues are ignored.
func (p *Player) Play(c Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return
	}
	t, ok := cueTones[c]
	if !ok {
		return
	}
	s, err := blip(t)
	if err != nil {
		p.log.Debug().Err(err).Int("cue", int(c)).Msg("blip")
		return
	}
	speaker.Play(s)
}

// Close stops playback and releases the device.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.enabled = false
}

func blip(t tone) (beep.Streamer, error) {
	sine, err := generators.SineTone(sampleRate, t.freq)
	if err != nil {
		return nil, err
	}
	return volume(beep.Take(sampleRate.N(t.length), sine), t.volume), nil
}

func volume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
