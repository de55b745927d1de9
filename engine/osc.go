package engine

import (
	"github.com/chewxy/math32"
	"github.com/strata-audio/strata"
)

// randState is a small multiplicative congruential generator. Each voice
// seeds its own at note-on so the noise-variance shapes are reproducible
// within a note's lifetime.
type randState uint32

func (r *randState) next() float32 {
	*r *= 16007
	return float32(int32(*r)) / -2147483648.0
}

// oscillator is the per-voice phase state of one generator slot.
type oscillator struct {
	phase float32 // wrapping accumulator, 0..1
	delta float32 // per-sample increment
	rnd   randState

	// per-cycle perturbation values for the variance shapes, redrawn on
	// every phase wrap
	varPhase float32
	varAmp   float32
}

func (o *oscillator) noteOn(p *strata.GenParams, seed uint32) {
	o.rnd = randState(seed | 1)
	o.varPhase = o.rnd.next()
	o.varAmp = o.rnd.next()
	switch p.Retrigger {
	case strata.RetriggerReset:
		o.phase = 0
	case strata.RetriggerRandom:
		o.phase = 0.5 + 0.5*o.rnd.next()
	}
}

// setFrequency sets the phase increment for the given frequency in Hz.
func (o *oscillator) setFrequency(freq, sampleRate float32) {
	o.delta = freq / sampleRate
}

// advance steps the phase by one sample without evaluating a waveform.
// The additive and single-cycle generators use the bare phase.
func (o *oscillator) advance(fm float32) float32 {
	o.phase += o.delta
	if o.phase >= 1 {
		o.phase -= math32.Floor(o.phase)
	}
	t := o.phase + fm
	return t - math32.Floor(t)
}

// next advances the phase by one sample and returns the waveform value. fm
// is an extra phase offset in cycles from the FM coupling.
func (o *oscillator) next(kind strata.GenKind, shape, fm float32) float32 {
	o.phase += o.delta
	if o.phase >= 1 {
		o.phase -= math32.Floor(o.phase)
		o.varPhase = o.rnd.next()
		o.varAmp = o.rnd.next()
	}
	t := o.phase + fm
	t -= math32.Floor(t)
	return oscSample(kind, shape, t, o.delta, o.varPhase, o.varAmp, &o.rnd)
}

// oscSample evaluates one waveform sample at phase t in [0,1). The shape
// modifier 0..1 morphs each waveform family rather than selecting between
// more enum values. dt is the per-sample phase increment, used by the
// polyBLEP corrections that keep the discontinuous shapes band-limited.
func oscSample(kind strata.GenKind, shape, t, dt, varPhase, varAmp float32, rnd *randState) float32 {
	switch kind {
	case strata.GenSine:
		return sineSample(shape, t)
	case strata.GenTri:
		return triSample(shape, t)
	case strata.GenSaw:
		if shape >= 0.5 { // half rectified
			return t - polyBLEP(t, dt)*0.5
		}
		return sawSample(t, dt)
	case strata.GenRSaw:
		return rsawSample(shape, t)
	case strata.GenInSaw:
		return insawSample(shape, t)
	case strata.GenRamp:
		if shape >= 0.5 {
			return -(t - polyBLEP(t, dt)*0.5)
		}
		return -sawSample(t, dt)
	case strata.GenSquare:
		duty := scaleRange(1-shape, 0.0625, 0.5)
		return pulseSample(t, dt, duty)
	case strata.GenRSquare:
		return rsquareSample(shape, t)
	case strata.GenPulse:
		duty := scaleRange(1-shape, 0.03125, 0.25)
		return pulseSample(t, dt, duty)
	case strata.GenWSaw:
		// amplitude wobbles once per cycle
		return sawSample(t, dt) * (1 + 0.5*shape*varAmp)
	case strata.GenSSaw:
		// phase scatters once per cycle
		ts := t + 0.25*shape*varPhase
		ts -= math32.Floor(ts)
		return sawSample(ts, dt)
	case strata.GenRASaw:
		// random per-cycle amplitude in [1-shape, 1]
		return sawSample(t, dt) * (1 - shape*0.5*(varAmp+1))
	case strata.GenNoise:
		return rnd.next()
	}
	return 0
}

// scaleRange maps 0..1 input to the given output range, clamping.
func scaleRange(x, min, max float32) float32 {
	v := x*(max-min) + min
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// polyBLEP is the two-sample polynomial band-limited step correction,
// subtracted at each waveform discontinuity to keep harmonics under Nyquist.
func polyBLEP(t, dt float32) float32 {
	if dt <= 0 {
		return 0
	}
	if t < dt {
		x := t / dt
		return x + x - x*x - 1
	}
	if t > 1-dt {
		x := (t - 1) / dt
		return x*x + x + x + 1
	}
	return 0
}

func sawSample(t, dt float32) float32 {
	return 2*t - 1 - polyBLEP(t, dt)
}

func pulseSample(t, dt, duty float32) float32 {
	var v float32 = 1
	if t >= duty {
		v = -1
	}
	v += polyBLEP(t, dt)
	tf := t - duty + 1
	tf -= math32.Floor(tf)
	v -= polyBLEP(tf, dt)
	return v
}

// sineSample morphs between a pure sine and two cheaper approximations of
// it; the shape modifier bends the waveform rather than selecting a new
// one.
func sineSample(shape, t float32) float32 {
	scaled := 2*t - 1
	switch {
	case shape <= 0.33:
		return math32.Sin(2 * math32.Pi * t)
	case shape < 0.67:
		// x^2 approximation
		if scaled < 0 {
			x := 2*scaled + 1
			return (x*x - 1) * 0.99
		}
		x := 2*scaled - 1
		return (-x*x + 1) * 0.99
	}
	return (24.5*scaled)/(2*math32.Pi) - (24.5*scaled)*math32.Abs(scaled)/(2*math32.Pi)
}

// triSample fades between a triangle and its tangent-warped variant.
func triSample(shape, t float32) float32 {
	tri := 2 / math32.Pi * math32.Asin(math32.Sin(2*math32.Pi*t))
	if shape <= 0 {
		return tri
	}
	tanTri := math32.Tan(math32.Sin(math32.Pi*t)) / (math32.Pi / 2)
	if tanTri > 1 {
		tanTri = 1
	} else if tanTri < -1 {
		tanTri = -1
	}
	return tri*(1-shape) + tanTri*shape
}

// rsawSample is the rounded saw f(x) = x·(1−x^2n) with the rounding order
// from the shape modifier.
func rsawSample(shape, t float32) float32 {
	n := int(scaleRange(shape, 2, 30))
	scaled := 2*t - 1
	return scaled * (1 - ipow(scaled, 2*n))
}

// insawSample is the inward curved saw, (x+1)^k on the negative half and
// −(x−1)^k on the positive half.
func insawSample(shape, t float32) float32 {
	k := 2
	switch int(scaleRange(shape, 1, 4.99)) {
	case 1:
		k = 2
	case 2:
		k = 10
	case 3:
		k = 3
	case 4:
		k = 11
	}
	scaled := 2*t - 1
	if scaled <= 0 {
		return ipow(scaled+1, k)
	}
	return -ipow(scaled-1, k)
}

// rsquareSample approximates a rounded square with even-order polynomials.
func rsquareSample(shape, t float32) float32 {
	k := int(scaleRange(shape, 2, 8)) * 2
	scaled := 2*t - 1
	if scaled < 0 {
		return ipow(2*scaled+1, k) - 1
	}
	return -ipow(2*scaled-1, k) + 1
}

func ipow(x float32, n int) float32 {
	r := float32(1)
	for n > 0 {
		if n&1 == 1 {
			r *= x
		}
		x *= x
		n >>= 1
	}
	return r
}
