package engine

import (
	"github.com/strata-audio/strata"
)

// cutoffModOctaves is the cutoff sweep of a full-depth modulation route.
const cutoffModOctaves = 4

// modSources holds the current value of every modulation source, sampled
// once per segment. LFO and wheel values are global; velocity, aftertouch
// and the filter envelopes are per voice.
type modSources struct {
	velocity   float32
	aftertouch float32
	pitchWheel float32
	lfo        [strata.NumLFOs]float32
	filterEnv  [strata.NumFilters]float32
}

func (m *modSources) value(s strata.ModSource) float32 {
	switch s {
	case strata.SourceVelocity:
		return m.velocity
	case strata.SourceLFO1:
		return m.lfo[0]
	case strata.SourceLFO2:
		return m.lfo[1]
	case strata.SourceLFO3:
		return m.lfo[2]
	case strata.SourceAftertouch:
		return m.aftertouch
	case strata.SourcePitchWheel:
		return m.pitchWheel
	case strata.SourceFilterEnv1:
		return m.filterEnv[0]
	case strata.SourceFilterEnv2:
		return m.filterEnv[1]
	}
	return 0
}

// modOffsets is the resolved contribution of all routes, one accumulator
// per target family. Cutoff offsets are in octaves, everything else in
// the target's native unit.
type modOffsets struct {
	cutoff [strata.NumFilters]float32
	res    [strata.NumFilters]float32
	gain   [strata.NumGenerators]float32
	detune [strata.NumGenerators]float32
	uniDet [strata.NumGenerators]float32
	master float32
}

// resolveMod sums depth-weighted source values into per-target offsets.
// Multiple routes on the same target add; the final value is clamped when
// the offset is applied to its base parameter.
func resolveMod(routes *[strata.NumModRoutes]strata.ModRouteParams, src *modSources) modOffsets {
	var off modOffsets
	for i := range routes {
		r := &routes[i]
		if r.Target == strata.TargetNone || r.Source == strata.SourceNone || r.Amount == 0 {
			continue
		}
		v := src.value(r.Source) * r.Amount
		switch r.Target {
		case strata.TargetCutoff1:
			off.cutoff[0] += v * cutoffModOctaves
		case strata.TargetCutoff2:
			off.cutoff[1] += v * cutoffModOctaves
		case strata.TargetResonance1:
			off.res[0] += v
		case strata.TargetResonance2:
			off.res[1] += v
		case strata.TargetAllGain:
			for g := range off.gain {
				off.gain[g] += v
			}
		case strata.TargetGen1Gain:
			off.gain[0] += v
		case strata.TargetGen2Gain:
			off.gain[1] += v
		case strata.TargetGen3Gain:
			off.gain[2] += v
		case strata.TargetAllDetune:
			for g := range off.detune {
				off.detune[g] += v
			}
		case strata.TargetGen1Detune:
			off.detune[0] += v
		case strata.TargetGen2Detune:
			off.detune[1] += v
		case strata.TargetGen3Detune:
			off.detune[2] += v
		case strata.TargetAllUnisonDetune:
			for g := range off.uniDet {
				off.uniDet[g] += v
			}
		case strata.TargetGen1UnisonDetune:
			off.uniDet[0] += v
		case strata.TargetGen2UnisonDetune:
			off.uniDet[1] += v
		case strata.TargetGen3UnisonDetune:
			off.uniDet[2] += v
		case strata.TargetMasterGain:
			off.master += v
		}
	}
	return off
}

// applyMod offsets a base parameter and clamps it to the target's range.
func applyMod(base, offset float32, target strata.ModTarget) float32 {
	min, max := strata.TargetRange(target)
	v := base + offset
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
