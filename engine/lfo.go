package engine

import (
	"github.com/chewxy/math32"
	"github.com/strata-audio/strata"
)

// lfo is a free-running or tempo-synced low frequency oscillator. Phase is
// always kept in [0,1).
type lfo struct {
	phase float32
}

// noteOn resets the phase when the LFO is in retrigger mode.
func (l *lfo) noteOn(p *strata.LFOParams) {
	if p.Retrigger {
		l.phase = p.Phase
	}
}

// frequency returns the current rate in Hz, resolving tempo sync against the
// snapshot's BPM.
func (l *lfo) frequency(p *strata.LFOParams, bpm float32) float32 {
	if p.Sync && p.SyncBeats > 0 {
		return bpm / 60 / p.SyncBeats
	}
	return p.Rate
}

// advance moves the phase forward by n samples.
func (l *lfo) advance(p *strata.LFOParams, bpm, sampleRate float32, n int) {
	l.phase += l.frequency(p, bpm) / sampleRate * float32(n)
	l.phase -= math32.Floor(l.phase)
}

// value returns the current output in -1..1 without advancing the phase.
func (l *lfo) value(p *strata.LFOParams) float32 {
	phase := l.phase
	switch p.Wave {
	case strata.LFOSquare:
		if phase < 0.5 {
			return 1
		}
		return -1
	case strata.LFOTriangle:
		if phase < 0.5 {
			return 4*phase - 1
		}
		return 3 - 4*phase
	case strata.LFOSaw:
		return 1 - 2*phase
	case strata.LFORamp:
		return 2*phase - 1
	case strata.LFOPulseQuarter:
		if phase < 0.25 {
			return 1
		}
		return -1
	case strata.LFOPulseEighth:
		if phase < 0.125 {
			return 1
		}
		return -1
	}
	return math32.Sin(2 * math32.Pi * phase)
}
