package engine

import (
	"github.com/strata-audio/strata"
)

type envStage int

const (
	envIdle envStage = iota
	envAttack
	envDecay
	envSustain
	envRelease
)

// envelope is an ADSR state machine. Output is continuous across stage
// transitions: attack restarts from the current level on retrigger and
// release always ramps down from the level it was entered at.
type envelope struct {
	stage envStage
	t     float32 // elapsed time in the current stage, seconds
	level float32 // current output, 0..1
	from  float32 // level the current stage started from
}

func (e *envelope) trigger() {
	e.stage = envAttack
	e.t = 0
	e.from = e.level
}

func (e *envelope) release() {
	if e.stage == envIdle || e.stage == envRelease {
		return
	}
	e.stage = envRelease
	e.t = 0
	e.from = e.level
}

func (e *envelope) active() bool { return e.stage != envIdle }

// next advances the envelope by one sample and returns the new level.
func (e *envelope) next(p *strata.ADSRParams, sampleRate float32) float32 {
	e.t += 1 / sampleRate
	switch e.stage {
	case envAttack:
		if p.Attack <= 0 || e.t >= p.Attack {
			e.level = 1
			e.stage = envDecay
			e.t = 0
			e.from = 1
			break
		}
		e.level = e.from + (1-e.from)*stageCurve(p.AttackCurve, e.t/p.Attack)
	case envDecay:
		if p.Decay <= 0 || e.t >= p.Decay {
			e.level = p.Sustain
			e.stage = envSustain
			e.t = 0
			e.from = p.Sustain
			break
		}
		e.level = 1 + (p.Sustain-1)*stageCurve(p.DecayCurve, e.t/p.Decay)
	case envSustain:
		e.level = p.Sustain
	case envRelease:
		if p.Release <= 0 || e.t >= p.Release {
			e.level = 0
			e.stage = envIdle
			break
		}
		e.level = e.from * (1 - stageCurve(p.ReleaseCurve, e.t/p.Release))
	}
	return e.level
}

// stageCurve maps linear stage progress 0..1 to the curved progress. Log
// curves move fast early and settle slowly, exp curves the opposite.
func stageCurve(kind strata.CurveKind, x float32) float32 {
	switch kind {
	case strata.CurveLog:
		return 1 - (1-x)*(1-x)
	case strata.CurveExp:
		return x * x
	}
	return x
}
