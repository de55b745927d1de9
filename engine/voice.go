package engine

import (
	"github.com/chewxy/math32"
	"github.com/strata-audio/strata"
)

const (
	maxUnison = 9

	// controlInterval is the number of frames between modulation and
	// filter coefficient updates inside a voice render.
	controlInterval = 64

	// silenceFloor is -90 dB. A released voice whose output stays under
	// it for silenceFrames consecutive frames is retired.
	silenceFloor  = 3.1623e-5
	silenceFrames = 32
)

// generator is the per-voice state of one generator slot.
type generator struct {
	oscs [maxUnison]oscillator
	env  envelope
	smp  sampler
}

// voice renders one held note through all three generator slots, both
// filters and their envelopes. Voices own their LFO phases so retriggered
// LFOs restart per note.
type voice struct {
	active     bool
	note       byte
	velocity   float32
	aftertouch float32
	age        uint64 // allocation order, used by stealing
	releasing  bool
	quiet      int // consecutive near-silent frames after release

	gens    [strata.NumGenerators]generator
	filtEnv [strata.NumFilters]envelope
	filt    [strata.NumFilters][2]filterState
	lfos    [strata.NumLFOs]lfo
}

func (v *voice) noteOn(note byte, velocity float32, p *strata.Params, tables *[strata.NumGenerators]*noteTable, age uint64, seed uint32) {
	v.active = true
	v.releasing = false
	v.note = note
	v.velocity = velocity
	v.aftertouch = 0
	v.age = age
	v.quiet = 0
	for i := range v.gens {
		g := &v.gens[i]
		gp := &p.Gen[i]
		if gp.Kind == strata.GenOff {
			continue
		}
		g.env.trigger()
		for u := range g.oscs {
			g.oscs[u].noteOn(gp, seed+uint32(i*maxUnison+u)*2654435761)
		}
		if tab := tables[i]; tab != nil {
			g.smp.noteOn(gp, len(tab.notes[note]))
		}
	}
	for i := range v.filtEnv {
		v.filtEnv[i].trigger()
	}
	for i := range v.lfos {
		v.lfos[i].noteOn(&p.LFO[i])
	}
	for i := range v.filt {
		v.filt[i][0] = filterState{}
		v.filt[i][1] = filterState{}
	}
}

func (v *voice) noteOff() {
	v.releasing = true
	for i := range v.gens {
		v.gens[i].env.release()
	}
	for i := range v.filtEnv {
		v.filtEnv[i].release()
	}
}

// render adds the voice's output to out. Modulation routes, LFO values and
// filter coefficients are resolved every controlInterval frames; envelopes
// and oscillators run per sample. pitchWheel is in semitones.
func (v *voice) render(out strata.AudioBuffer, p *strata.Params, tables *[strata.NumGenerators]*noteTable, pitchWheel, sampleRate float32) {
	for pos := 0; pos < len(out); {
		n := len(out) - pos
		if n > controlInterval {
			n = controlInterval
		}

		src := modSources{
			velocity:   v.velocity,
			aftertouch: v.aftertouch,
			pitchWheel: clampUnit(pitchWheel / 2),
		}
		for i := range v.lfos {
			src.lfo[i] = v.lfos[i].value(&p.LFO[i])
		}
		for i := range v.filtEnv {
			src.filterEnv[i] = v.filtEnv[i].level
		}
		off := resolveMod(&p.Mod, &src)

		var coeffs [strata.NumFilters]filterCoeffs
		for i := range coeffs {
			fp := &p.Filter[i]
			coeffs[i] = deriveFilter(fp, off.cutoff[i], off.res[i], v.filtEnv[i].level, sampleRate)
		}

		// per-chunk pitch and gain resolution
		var gains [strata.NumGenerators]float32
		var uniGain [strata.NumGenerators]float32
		var rates [strata.NumGenerators]float32 // sampler playhead rate
		for i := range v.gens {
			gp := &p.Gen[i]
			if gp.Kind == strata.GenOff {
				continue
			}
			gains[i] = applyMod(gp.Level, off.gain[i], strata.TargetGen1Gain) * v.velocity
			detune := applyMod(gp.Detune, off.detune[i], strata.TargetGen1Detune)
			semis := float32(gp.Octave*12+gp.Semitones) + detune + pitchWheel
			freq := 440 * math32.Exp2((float32(v.note)-69+semis)/12)
			rates[i] = math32.Exp2(semis / 12)
			ud := applyMod(gp.UnisonDet, off.uniDet[i], strata.TargetGen1UnisonDetune)
			nu := gp.Unison
			if nu < 1 {
				nu = 1
			}
			for u := 0; u < nu; u++ {
				var spread float32
				if nu > 1 {
					spread = (2*float32(u)/float32(nu-1) - 1) * ud * 0.5
				}
				v.gens[i].oscs[u].setFrequency(freq*math32.Exp2(spread/12), sampleRate)
			}
			uniGain[i] = 1 / math32.Sqrt(float32(nu))
		}

		var peak float32
		for f := 0; f < n; f++ {
			var bypass, bus1, bus2 [2]float32
			var fmVal [strata.NumGenerators]float32
			for i := range v.gens {
				gp := &p.Gen[i]
				if gp.Kind == strata.GenOff {
					continue
				}
				g := &v.gens[i]
				env := g.env.next(&gp.Env, sampleRate)
				if env == 0 && !g.env.active() {
					continue
				}

				var fm float32
				switch i {
				case 1:
					fm = p.FM.OneToTwo * fmVal[0] / (2 * math32.Pi)
				case 2:
					fm = (p.FM.TwoToThree*fmVal[1] + p.FM.OneToThree*fmVal[0]) / (2 * math32.Pi)
				}

				var l, r float32
				switch gp.Kind {
				case strata.GenAdditive:
					nu := gp.Unison
					if nu < 1 {
						nu = 1
					}
					for u := 0; u < nu; u++ {
						ph := g.oscs[u].advance(fm)
						s := additiveSample(gp, ph, g.oscs[u].delta*sampleRate, sampleRate)
						gl, gr := panGains(gp.Stereo, u, nu)
						l += s * gl
						r += s * gr
					}
					l *= uniGain[i]
					r *= uniGain[i]
				case strata.GenSampler:
					if tab := tables[i]; tab != nil {
						l, r = g.smp.nextDirect(gp, tab.notes[v.note], rates[i])
					}
				case strata.GenGranulizer:
					if tab := tables[i]; tab != nil {
						l, r = g.smp.nextGrain(gp, tab.notes[v.note], rates[i])
					}
				case strata.GenSingleCycle:
					if tab := tables[i]; tab != nil && len(tab.notes[tableRoot]) > 0 {
						ph := g.oscs[0].advance(fm)
						l, r = nextCycle(tab.notes[tableRoot], ph)
					}
				default:
					nu := gp.Unison
					if nu < 1 {
						nu = 1
					}
					for u := 0; u < nu; u++ {
						s := g.oscs[u].next(gp.Kind, gp.Shape, fm)
						gl, gr := panGains(gp.Stereo, u, nu)
						l += s * gl
						r += s * gr
					}
					l *= uniGain[i]
					r *= uniGain[i]
				}

				l *= env * gains[i]
				r *= env * gains[i]
				fmVal[i] = (l + r) * 0.5
				switch gp.Routing {
				case strata.GenToFilter1:
					bus1[0] += l
					bus1[1] += r
				case strata.GenToFilter2:
					bus2[0] += l
					bus2[1] += r
				case strata.GenToBoth:
					bus1[0] += l
					bus1[1] += r
					bus2[0] += l
					bus2[1] += r
				default:
					bypass[0] += l
					bypass[1] += r
				}
			}

			for i := range v.filtEnv {
				v.filtEnv[i].next(&p.Filter[i].Env, sampleRate)
			}

			for ch := 0; ch < 2; ch++ {
				var y float32
				switch p.Routing {
				case strata.RoutingSeries12:
					a := v.filt[0][ch].process(&coeffs[0], bus1[ch])
					y = v.filt[1][ch].process(&coeffs[1], a+bus2[ch])
				case strata.RoutingSeries21:
					b := v.filt[1][ch].process(&coeffs[1], bus2[ch])
					y = v.filt[0][ch].process(&coeffs[0], b+bus1[ch])
				default:
					y = v.filt[0][ch].process(&coeffs[0], bus1[ch]) +
						v.filt[1][ch].process(&coeffs[1], bus2[ch])
				}
				y += bypass[ch]
				out[pos+f][ch] += y
				if a := math32.Abs(y); a > peak {
					peak = a
				}
			}
		}

		for i := range v.filt {
			v.filt[i][0].flush()
			v.filt[i][1].flush()
		}
		for i := range v.lfos {
			v.lfos[i].advance(&p.LFO[i], p.BPM, sampleRate, n)
		}

		if v.releasing {
			if peak < silenceFloor {
				v.quiet += n
				if v.quiet >= silenceFrames {
					v.active = false
					return
				}
			} else {
				v.quiet = 0
			}
			if !v.envActive(p) {
				v.active = false
				return
			}
		}
		pos += n
	}
}

// envActive reports whether any enabled generator envelope still produces
// level.
func (v *voice) envActive(p *strata.Params) bool {
	for i := range v.gens {
		if p.Gen[i].Kind == strata.GenOff {
			continue
		}
		if v.gens[i].env.active() {
			return true
		}
	}
	return false
}

func clampUnit(v float32) float32 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// panGains spreads unison oscillators across the stereo field with
// equal-power weighting. A single oscillator sits centered.
func panGains(stereo float32, u, n int) (l, r float32) {
	if n <= 1 || stereo == 0 {
		s := math32.Sqrt(0.5)
		return s, s
	}
	pan := (2*float32(u)/float32(n-1) - 1) * stereo
	return math32.Sqrt(0.5 * (1 - pan)), math32.Sqrt(0.5 * (1 + pan))
}
