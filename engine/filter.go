package engine

import (
	"github.com/chewxy/math32"
	"github.com/strata-audio/strata"
)

// filterOversample is the inner iteration count of the state-variable
// core. Running the recursion at four times the sample rate keeps it
// stable with cutoffs up to the top of the audible range.
const filterOversample = 4

// filterCoeffs is everything derived from a FilterParams snapshot plus the
// current modulation, computed once per segment and shared by both channels.
type filterCoeffs struct {
	enabled bool
	kind    strata.FilterKind

	f    float32 // svf integrator gain at the oversampled rate
	damp float32 // svf damping, sqrt2 at zero resonance

	onePole float32 // tilt one-pole coefficient

	fc4  float32 // ladder input gain
	fb   float32 // ladder feedback
	oneF float32 // ladder pole coefficient

	drive float32 // v4/a4 stage saturation

	lowMix, bandMix, highMix float32
	wet                      float32
}

// deriveFilter resolves the effective cutoff and resonance from the base
// parameters, the modulation offsets (cutoffMod in octaves, resMod
// additive) and the slot's envelope level, then precomputes the topology
// coefficients. The envelope sweeps up to four octaves of cutoff.
func deriveFilter(p *strata.FilterParams, cutoffMod, resMod, env, sampleRate float32) filterCoeffs {
	c := filterCoeffs{
		enabled: p.Enabled,
		kind:    p.Kind,
		lowMix:  p.LowMix,
		bandMix: p.BandMix,
		highMix: p.HighMix,
		wet:     p.Wet,
	}
	if !p.Enabled {
		return c
	}
	cutoff := p.Cutoff * math32.Exp2(cutoffMod+4*p.EnvToCut*env)
	maxCut := sampleRate * 0.45
	if maxCut > 20000 {
		maxCut = 20000
	}
	if cutoff < 20 {
		cutoff = 20
	} else if cutoff > maxCut {
		cutoff = maxCut
	}
	res := p.Res + resMod + p.EnvToRes*env
	if res < 0 {
		res = 0
	} else if res > 1 {
		res = 1
	}

	switch p.Kind {
	case strata.FilterTilt:
		c.onePole = 1 - math32.Exp(-2*math32.Pi*cutoff/sampleRate)
	case strata.FilterVC:
		fc := cutoff / sampleRate
		f := fc * 1.16
		c.fb = res * 4 * (1 - 0.15*f*f)
		c.fc4 = 0.35013 * f * f * f * f
		c.oneF = 1 - f
	case strata.FilterV4, strata.FilterA4:
		c.f = 2 * math32.Sin(math32.Pi*cutoff/(filterOversample*sampleRate))
		c.damp = resonanceDamp(strata.ResDefault, res)
		c.drive = 1 + 3*res
	default: // SVF
		c.f = 2 * math32.Sin(math32.Pi*cutoff/(filterOversample*sampleRate))
		c.damp = resonanceDamp(p.Resonance, res)
	}
	return c
}

// resonanceDamp maps normalized resonance to the state-variable damping
// factor. Every curve starts at sqrt2, the Butterworth damping that puts
// the response 3 dB down at cutoff, and falls toward a small floor that
// keeps the core from ringing unbounded. The curves differ in how fast
// resonance builds: Moog and Powf squeeze most of their action into the
// top of the range, TB and Arp bite early, Bump sits in between.
func resonanceDamp(kind strata.ResonanceKind, res float32) float32 {
	var g float32
	switch kind {
	case strata.ResMoog:
		g = (1 - res) * (1 - res)
	case strata.ResTB:
		g = 1 - math32.Sin(res*math32.Pi/2)*0.995
	case strata.ResArp:
		g = 1 - math32.Tan(res*math32.Pi/4)*0.995
	case strata.ResRes:
		g = math32.Sqrt(1 - res)
	case strata.ResBump:
		g = 1 - math32.Asinh(res*1.1752)
	case strata.ResPowf:
		g = math32.Pow(1-res, 2.5)
	default:
		g = 1 - res
	}
	if g < 0 {
		g = 0
	} else if g > 1 {
		g = 1
	}
	return math32.Sqrt2*g + 0.005
}

// filterState is the recursion state of one filter slot on one channel.
type filterState struct {
	low, band   float32 // first svf stage
	low2, band2 float32 // second svf stage, V4/A4 only
	lp, bp      float32 // tilt one-poles
	s           [4]float32 // ladder poles
	d           [4]float32 // ladder input delays
}

// process runs one input sample through the filter and returns the wet/dry
// mixed output.
func (st *filterState) process(c *filterCoeffs, in float32) float32 {
	if !c.enabled {
		return in
	}
	x := in + 1e-30 // denormal guard
	var out float32
	switch c.kind {
	case strata.FilterTilt:
		st.lp += c.onePole * (x - st.lp)
		hp := x - st.lp
		st.bp += c.onePole * (hp - st.bp)
		out = c.lowMix*st.lp + c.bandMix*st.bp + c.highMix*(hp-st.bp)
	case strata.FilterVC:
		// saturating the feedback keeps self-oscillation bounded
		v := x - c.fb*softClip(st.s[3])
		v *= c.fc4
		for i := 0; i < 4; i++ {
			next := v + 0.3*st.d[i] + c.oneF*st.s[i]
			st.d[i] = v
			st.s[i] = next
			v = next
		}
		out = c.lowMix*st.s[3] + c.bandMix*(st.s[1]-st.s[3]) + c.highMix*(x-st.s[0])
	case strata.FilterV4:
		mid := st.svf1(c, x)
		out = st.svf2(c, softClip(mid*c.drive)/c.drive)
		out = c.lowMix * out
	case strata.FilterA4:
		// asymmetric drive stage before the cascade
		v := softClip(x*c.drive+0.05)/c.drive - softClip(0.05)/c.drive
		mid := st.svf1(c, v)
		out = c.lowMix * st.svf2(c, mid)
	default:
		var l, b, h float32
		for i := 0; i < filterOversample; i++ {
			st.low += c.f * st.band
			h = x - st.low - c.damp*st.band
			st.band += c.f * h
		}
		l, b = st.low, st.band
		out = c.lowMix*l + c.bandMix*b + c.highMix*h
	}
	return in*(1-c.wet) + out*c.wet
}

// svf1 is the resonant lowpass first stage of the 24 dB cascades.
func (st *filterState) svf1(c *filterCoeffs, x float32) float32 {
	for i := 0; i < filterOversample; i++ {
		st.low += c.f * st.band
		h := x - st.low - c.damp*st.band
		st.band += c.f * h
	}
	return st.low
}

// svf2 is the second stage, run at fixed Butterworth damping so the
// resonance peak stays single.
func (st *filterState) svf2(c *filterCoeffs, x float32) float32 {
	for i := 0; i < filterOversample; i++ {
		st.low2 += c.f * st.band2
		h := x - st.low2 - math32.Sqrt2*st.band2
		st.band2 += c.f * h
	}
	return st.low2
}

// flush zeroes denormal-small state and resets anything that escaped to a
// non-finite value. Called at segment boundaries.
func (st *filterState) flush() {
	for _, p := range []*float32{&st.low, &st.band, &st.low2, &st.band2, &st.lp, &st.bp,
		&st.s[0], &st.s[1], &st.s[2], &st.s[3], &st.d[0], &st.d[1], &st.d[2], &st.d[3]} {
		v := *p
		if v > -1e-15 && v < 1e-15 {
			*p = 0
		} else if !(v > -1e6 && v < 1e6) { // also catches NaN
			*p = 0
		}
	}
}

// softClip is the cubic rational tanh approximation used between filter
// stages.
func softClip(x float32) float32 {
	if x > 3 {
		return 1
	}
	if x < -3 {
		return -1
	}
	x2 := x * x
	return x * (27 + x2) / (27 + 9*x2)
}
