package strata

import (
	"errors"
	"fmt"
	"sort"

	"github.com/chewxy/math32"
)

// The closed enumerations of the engine. Each is a fixed set dispatched with
// a switch at the point of use; presets store them as plain ints.
type (
	// GenKind selects what a generator slot produces.
	GenKind int

	// CurveKind selects the curve of an envelope stage.
	CurveKind int

	// RetriggerKind selects how a generator's phase behaves at note-on.
	RetriggerKind int

	// LFOWave selects the LFO waveform.
	LFOWave int

	// ModSource is a signal that can modulate a target parameter.
	ModSource int

	// ModTarget is a parameter that modulation routes can influence.
	ModTarget int

	// FilterKind selects the filter topology of a filter slot.
	FilterKind int

	// ResonanceKind selects the resonance approximation curve of the
	// state-variable topology. The curve is the filter's defining behavior;
	// each kind maps cutoff and resonance to coefficients differently.
	ResonanceKind int

	// FilterRouting selects how the two filter slots combine.
	FilterRouting int

	// GenRouting selects which filter slot(s) a generator feeds.
	GenRouting int

	// SatKind selects the saturation algorithm.
	SatKind int

	// EffectKind identifies an effect unit in the chain order.
	EffectKind int
)

const (
	GenOff GenKind = iota
	GenSine
	GenTri
	GenSaw
	GenRSaw
	GenInSaw
	GenRamp
	GenSquare
	GenRSquare
	GenPulse
	GenWSaw
	GenSSaw
	GenRASaw
	GenNoise
	GenAdditive
	GenSampler
	GenGranulizer
	GenSingleCycle
	NumGenKinds
)

const (
	CurveLinear CurveKind = iota
	CurveLog
	CurveExp
)

const (
	RetriggerFree RetriggerKind = iota
	RetriggerReset
	RetriggerRandom
)

const (
	LFOSine LFOWave = iota
	LFOSquare
	LFOTriangle
	LFOSaw
	LFORamp
	LFOPulseQuarter
	LFOPulseEighth
)

const (
	SourceNone ModSource = iota
	SourceVelocity
	SourceLFO1
	SourceLFO2
	SourceLFO3
	SourceAftertouch
	SourcePitchWheel
	SourceFilterEnv1
	SourceFilterEnv2
	NumModSources
)

const (
	TargetNone ModTarget = iota
	TargetCutoff1
	TargetCutoff2
	TargetResonance1
	TargetResonance2
	TargetAllGain
	TargetGen1Gain
	TargetGen2Gain
	TargetGen3Gain
	TargetAllDetune
	TargetGen1Detune
	TargetGen2Detune
	TargetGen3Detune
	TargetAllUnisonDetune
	TargetGen1UnisonDetune
	TargetGen2UnisonDetune
	TargetGen3UnisonDetune
	TargetMasterGain
	NumModTargets
)

const (
	FilterSVF FilterKind = iota
	FilterTilt
	FilterVC
	FilterV4
	FilterA4
	NumFilterKinds
)

const (
	ResDefault ResonanceKind = iota
	ResMoog
	ResTB
	ResArp
	ResRes
	ResBump
	ResPowf
	NumResonanceKinds
)

const (
	RoutingParallel FilterRouting = iota
	RoutingSeries12
	RoutingSeries21
)

const (
	GenToBypass GenRouting = iota
	GenToFilter1
	GenToFilter2
	GenToBoth
)

const (
	SatTape SatKind = iota
	SatClip
	SatSinPow
	SatSubtle
	SatSine
)

const (
	EffectSaturation EffectKind = iota
	EffectABass
	EffectBufferMod
	EffectChorus
	EffectPhaser
	EffectFlanger
	EffectDelay
	EffectReverb
	EffectCompressor
	EffectLimiter
	EffectWidth
	NumEffectKinds
)

const (
	// NumGenerators is the number of generator slots in a patch.
	NumGenerators = 3

	// NumFilters is the number of filter slots on the voice path.
	NumFilters = 2

	// NumLFOs is the number of low frequency oscillators.
	NumLFOs = 3

	// NumModRoutes is the number of modulator slots in the matrix.
	NumModRoutes = 4

	// NumPartials is the number of additive harmonics per generator.
	NumPartials = 16

	// MaxPolyphony is the hard upper limit of simultaneous voices,
	// including unison copies.
	MaxPolyphony = 64
)

type (
	// ADSRParams are the envelope times in seconds, sustain level 0..1 and
	// the per-stage curves.
	ADSRParams struct {
		Attack       float32
		Decay        float32
		Sustain      float32
		Release      float32
		AttackCurve  CurveKind `yaml:"attackcurve,omitempty"`
		DecayCurve   CurveKind `yaml:"decaycurve,omitempty"`
		ReleaseCurve CurveKind `yaml:"releasecurve,omitempty"`
	}

	// GenParams is the full parameter set of one generator slot. Which
	// fields matter depends on Kind: Shape only affects the analog
	// waveforms, Partials only the additive generator, the grain settings
	// only the granulizer, and so on.
	GenParams struct {
		Kind      GenKind
		Level     float32 // 0..2
		Octave    int     // -4..4
		Semitones int     // -12..12
		Detune    float32 // semitones, -1..1
		Shape     float32 // waveform modifier, 0..1
		Env       ADSRParams
		Unison    int     // 1..9
		UnisonDet float32 `yaml:"unisondet"` // 0..1
		Stereo    float32 // unison stereo spread, 0..1
		Retrigger RetriggerKind
		Routing   GenRouting

		Partials      [NumPartials]float32 `yaml:",flow"` // amplitudes 0..1
		PartialPhases [NumPartials]float32 `yaml:"partialphases,flow"` // 0..1 of a cycle

		Loop           bool    // wrap past the buffer end instead of silencing
		StartPos       float32 `yaml:"startpos"` // 0..1 of the buffer
		EndPos         float32 `yaml:"endpos"`   // 0..1 of the buffer
		GrainHold      int     `yaml:"grainhold"`      // samples
		GrainGap       int     `yaml:"graingap"`       // samples
		GrainCrossfade int     `yaml:"graincrossfade"` // samples
	}

	// FilterParams is the parameter set of one filter slot.
	FilterParams struct {
		Enabled   bool
		Kind      FilterKind
		Resonance ResonanceKind `yaml:"restype"` // SVF only
		Cutoff    float32       // Hz, 20..20000
		Res       float32       // 0..1
		LowMix    float32       `yaml:"lowmix"`  // SVF output mixing
		BandMix   float32       `yaml:"bandmix"`
		HighMix   float32       `yaml:"highmix"`
		Wet       float32       // 0..1 dry/wet
		Env       ADSRParams
		EnvToCut  float32 `yaml:"envtocut"` // -1..1, scaled to +-4 octaves
		EnvToRes  float32 `yaml:"envtores"` // -1..1
	}

	// LFOParams is the parameter set of one LFO.
	LFOParams struct {
		Wave      LFOWave
		Rate      float32 // Hz, free-running rate
		Sync      bool    // tempo sync: Rate is ignored, SyncBeats sets the cycle
		SyncBeats float32 `yaml:"syncbeats"` // cycle length in beats when Sync
		Retrigger bool    // reset phase at note-on
		Phase     float32 // initial phase 0..1
	}

	// ModRouteParams is one modulator slot: source, target and depth.
	// Negative Amount inverts the polarity of the route.
	ModRouteParams struct {
		Source ModSource
		Target ModTarget
		Amount float32 // -1..1
	}

	// FMParams are the phase modulation indices of the fixed FM topology:
	// slot 1 modulates 2, 2 modulates 3 and 1 modulates 3.
	FMParams struct {
		OneToTwo   float32 `yaml:"onetotwo"`   // 0..4
		TwoToThree float32 `yaml:"twotothree"` // 0..4
		OneToThree float32 `yaml:"onetothree"` // 0..4
	}

	// FXParams holds the settings of every effect unit plus the chain order.
	FXParams struct {
		Order []EffectKind `yaml:",flow"` // permutation of all EffectKinds

		Saturation struct {
			Enabled bool
			Kind    SatKind
			Amount  float32 // 0..1
		}
		ABass struct {
			Enabled bool
			Amount  float32 // 0..1
		}
		BufferMod struct {
			Enabled bool
			Depth   float32 // 0..1
			Rate    float32 // Hz, 0..20
			Spread  float32 // 0..1
			Length  float32 // buffer length in samples, 2..sampleRate
			Amount  float32 // 0..1
		}
		Chorus struct {
			Enabled bool
			Range   float32 // delay sweep in samples, 1..50
			Speed   float32 // Hz, 0..10
			Amount  float32 // 0..1
		}
		Phaser struct {
			Enabled  bool
			Rate     float32 // Hz, 0..10
			Depth    float32 // 0..1
			Feedback float32 // 0..0.95
			Amount   float32 // 0..1
		}
		Flanger struct {
			Enabled  bool
			Depth    float32 // 0..1
			Rate     float32 // Hz, 0..10
			Feedback float32 // 0..0.95
			Amount   float32 // 0..1
		}
		Delay struct {
			Enabled  bool
			Beats    float32 // delay time in beats, 0.0625..4
			Feedback float32 // 0..0.95
			Damp     float32 // 0..1
			Amount   float32 // 0..1
		}
		Reverb struct {
			Enabled  bool
			Size     float32 // 0..1
			Feedback float32 // 0..1
			Wet      float32 // 0..1
		}
		Compressor struct {
			Enabled bool
			Amount  float32 // 0..1
			Attack  float32 // seconds, 0.0001..0.5
			Release float32 // seconds, 0.001..2
			Drive   float32 // 0..1 makeup
		}
		Limiter struct {
			Enabled   bool
			Threshold float32 // 0..1
			Knee      float32 // 0..1
		}
		Width struct {
			Enabled bool
			Amount  float32 // 0..2, 1 = unchanged
		}
	}

	// Params is the complete immutable parameter snapshot of the engine.
	// The control thread builds one, validates it and publishes it; the
	// audio thread reads the latest published snapshot once per block and
	// treats it as constant for the block's duration.
	Params struct {
		MasterGain float32 `yaml:"mastergain"` // 0..2
		Polyphony  int     // 1..MaxPolyphony
		BPM        float32 // used by tempo-synced LFOs and delay

		Gen       [NumGenerators]GenParams
		Routing   FilterRouting
		Filter    [NumFilters]FilterParams
		LFO       [NumLFOs]LFOParams
		Mod       [NumModRoutes]ModRouteParams
		FM        FMParams
		FX        FXParams
	}
)

// ErrParamRange is wrapped by Validate for any parameter outside its
// declared range.
var ErrParamRange = errors.New("parameter out of range")

// DefaultParams returns the default patch: a single sine generator with a
// short attack, both filters bypassed and every effect disabled.
func DefaultParams() Params {
	p := Params{
		MasterGain: 1,
		Polyphony:  32,
		BPM:        120,
	}
	for i := range p.Gen {
		g := &p.Gen[i]
		g.Kind = GenOff
		g.Level = 1
		g.Shape = 0
		g.Env = ADSRParams{Attack: 0.005, Decay: 0.2, Sustain: 0.8, Release: 0.1}
		g.Unison = 1
		g.Routing = GenToBypass
		g.EndPos = 1
		g.GrainHold = 200
		g.GrainGap = 200
		g.GrainCrossfade = 50
		for j := range g.Partials {
			g.Partials[j] = 0
		}
		g.Partials[0] = 1
	}
	p.Gen[0].Kind = GenSine
	for i := range p.Filter {
		f := &p.Filter[i]
		f.Kind = FilterSVF
		f.Cutoff = 20000
		f.Res = 0.1
		f.LowMix = 1
		f.Wet = 1
		f.Env = ADSRParams{Attack: 0.001, Decay: 0.2, Sustain: 1, Release: 0.1}
	}
	for i := range p.LFO {
		p.LFO[i] = LFOParams{Wave: LFOSine, Rate: 2, SyncBeats: 1}
	}
	p.FX.Order = DefaultEffectOrder()
	p.FX.Saturation.Kind = SatTape
	p.FX.BufferMod.Rate = 3
	p.FX.BufferMod.Length = 4410
	p.FX.Chorus.Range = 20
	p.FX.Chorus.Speed = 0.5
	p.FX.Phaser.Rate = 0.5
	p.FX.Phaser.Feedback = 0.7
	p.FX.Phaser.Depth = 1
	p.FX.Flanger.Rate = 0.3
	p.FX.Flanger.Depth = 0.5
	p.FX.Flanger.Feedback = 0.3
	p.FX.Delay.Beats = 0.5
	p.FX.Delay.Feedback = 0.4
	p.FX.Reverb.Size = 0.5
	p.FX.Reverb.Feedback = 0.5
	p.FX.Reverb.Wet = 0.3
	p.FX.Compressor.Attack = 0.01
	p.FX.Compressor.Release = 0.1
	p.FX.Compressor.Amount = 0.5
	p.FX.Limiter.Threshold = 1
	p.FX.Width.Amount = 1
	return p
}

// DefaultEffectOrder returns the canonical chain order.
func DefaultEffectOrder() []EffectKind {
	order := make([]EffectKind, NumEffectKinds)
	for i := range order {
		order[i] = EffectKind(i)
	}
	return order
}

// Copy returns a deep copy of the parameter snapshot.
func (p *Params) Copy() Params {
	ret := *p
	ret.FX.Order = make([]EffectKind, len(p.FX.Order))
	copy(ret.FX.Order, p.FX.Order)
	return ret
}

// Validate checks every parameter against its declared range and the FX
// order for being a permutation. All violations wrap ErrParamRange.
func (p *Params) Validate() error {
	for _, def := range ParamDefs() {
		v, err := p.Param(def.Name)
		if err != nil {
			return err
		}
		if v < def.Min || v > def.Max {
			return fmt.Errorf("%w: %s = %v, range %v..%v", ErrParamRange, def.Name, v, def.Min, def.Max)
		}
	}
	if len(p.FX.Order) != int(NumEffectKinds) {
		return fmt.Errorf("%w: fx order must list all %d effects", ErrParamRange, NumEffectKinds)
	}
	var seen [NumEffectKinds]bool
	for _, e := range p.FX.Order {
		if e < 0 || e >= NumEffectKinds || seen[e] {
			return fmt.Errorf("%w: fx order is not a permutation", ErrParamRange)
		}
		seen[e] = true
	}
	return nil
}

// TargetRange returns the valid range of a modulation target, used for
// clamping the resolved value after all routes are summed.
func TargetRange(t ModTarget) (min, max float32) {
	switch t {
	case TargetCutoff1, TargetCutoff2:
		return 20, 20000
	case TargetResonance1, TargetResonance2:
		return 0, 1
	case TargetAllGain, TargetGen1Gain, TargetGen2Gain, TargetGen3Gain, TargetMasterGain:
		return 0, 2
	case TargetAllDetune, TargetGen1Detune, TargetGen2Detune, TargetGen3Detune:
		return -1, 1
	case TargetAllUnisonDetune, TargetGen1UnisonDetune, TargetGen2UnisonDetune, TargetGen3UnisonDetune:
		return 0, 1
	}
	return 0, 0
}

// ParamDef documents one named, automatable parameter of the surface.
type ParamDef struct {
	Name    string
	Min     float32
	Max     float32
	Default float32
	Unit    string

	get func(*Params) float32
	set func(*Params, float32)
}

var paramDefs []ParamDef
var paramIndex map[string]int

// ParamDefs returns the full parameter surface, sorted by name. The slice is
// shared; callers must not mutate it.
func ParamDefs() []ParamDef {
	return paramDefs
}

// Param returns the current value of the named parameter.
func (p *Params) Param(name string) (float32, error) {
	i, ok := paramIndex[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	return paramDefs[i].get(p), nil
}

// SetParam sets the named parameter, clamping the value into its declared
// range. This is the host automation entry point; it mutates the snapshot
// under construction, never one already published.
func (p *Params) SetParam(name string, value float32) error {
	i, ok := paramIndex[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	def := &paramDefs[i]
	if value < def.Min {
		value = def.Min
	}
	if value > def.Max {
		value = def.Max
	}
	def.set(p, value)
	return nil
}

func addDef(name string, min, max, dflt float32, unit string, get func(*Params) float32, set func(*Params, float32)) {
	paramDefs = append(paramDefs, ParamDef{Name: name, Min: min, Max: max, Default: dflt, Unit: unit, get: get, set: set})
}

func floatDef(name string, min, max, dflt float32, unit string, f func(*Params) *float32) {
	addDef(name, min, max, dflt, unit,
		func(p *Params) float32 { return *f(p) },
		func(p *Params, v float32) { *f(p) = v })
}

func intDef(name string, min, max, dflt int, unit string, f func(*Params) *int) {
	addDef(name, float32(min), float32(max), float32(dflt), unit,
		func(p *Params) float32 { return float32(*f(p)) },
		func(p *Params, v float32) { *f(p) = int(math32.Round(v)) })
}

func boolDef(name string, dflt bool, f func(*Params) *bool) {
	d := float32(0)
	if dflt {
		d = 1
	}
	addDef(name, 0, 1, d, "",
		func(p *Params) float32 {
			if *f(p) {
				return 1
			}
			return 0
		},
		func(p *Params, v float32) { *f(p) = v >= 0.5 })
}

func adsrDefs(prefix string, f func(*Params) *ADSRParams) {
	floatDef(prefix+"_attack", 0, 20, 0.005, "s", func(p *Params) *float32 { return &f(p).Attack })
	floatDef(prefix+"_decay", 0, 20, 0.2, "s", func(p *Params) *float32 { return &f(p).Decay })
	floatDef(prefix+"_sustain", 0, 1, 0.8, "", func(p *Params) *float32 { return &f(p).Sustain })
	floatDef(prefix+"_release", 0.001, 20, 0.1, "s", func(p *Params) *float32 { return &f(p).Release })
}

func init() {
	floatDef("master_gain", 0, 2, 1, "", func(p *Params) *float32 { return &p.MasterGain })
	intDef("polyphony", 1, MaxPolyphony, 32, "voices", func(p *Params) *int { return &p.Polyphony })
	floatDef("bpm", 1, 999, 120, "bpm", func(p *Params) *float32 { return &p.BPM })
	intDef("filter_routing", 0, 2, 0, "", func(p *Params) *int { return (*int)(&p.Routing) })

	for i := 0; i < NumGenerators; i++ {
		i := i
		pre := fmt.Sprintf("gen%d", i+1)
		g := func(p *Params) *GenParams { return &p.Gen[i] }
		intDef(pre+"_kind", 0, int(NumGenKinds)-1, 0, "", func(p *Params) *int { return (*int)(&g(p).Kind) })
		floatDef(pre+"_level", 0, 2, 1, "", func(p *Params) *float32 { return &g(p).Level })
		intDef(pre+"_octave", -4, 4, 0, "oct", func(p *Params) *int { return &g(p).Octave })
		intDef(pre+"_semitones", -12, 12, 0, "st", func(p *Params) *int { return &g(p).Semitones })
		floatDef(pre+"_detune", -1, 1, 0, "st", func(p *Params) *float32 { return &g(p).Detune })
		floatDef(pre+"_shape", 0, 1, 0, "", func(p *Params) *float32 { return &g(p).Shape })
		adsrDefs(pre+"_env", func(p *Params) *ADSRParams { return &g(p).Env })
		intDef(pre+"_unison", 1, 9, 1, "voices", func(p *Params) *int { return &g(p).Unison })
		floatDef(pre+"_unison_detune", 0, 1, 0, "", func(p *Params) *float32 { return &g(p).UnisonDet })
		floatDef(pre+"_stereo", 0, 1, 0, "", func(p *Params) *float32 { return &g(p).Stereo })
		intDef(pre+"_retrigger", 0, 2, 0, "", func(p *Params) *int { return (*int)(&g(p).Retrigger) })
		intDef(pre+"_routing", 0, 3, 0, "", func(p *Params) *int { return (*int)(&g(p).Routing) })
		floatDef(pre+"_start_pos", 0, 1, 0, "", func(p *Params) *float32 { return &g(p).StartPos })
		floatDef(pre+"_end_pos", 0, 1, 1, "", func(p *Params) *float32 { return &g(p).EndPos })
		boolDef(pre+"_loop", false, func(p *Params) *bool { return &g(p).Loop })
		intDef(pre+"_grain_hold", 1, 44100, 200, "smp", func(p *Params) *int { return &g(p).GrainHold })
		intDef(pre+"_grain_gap", 0, 44100, 200, "smp", func(p *Params) *int { return &g(p).GrainGap })
		intDef(pre+"_grain_crossfade", 1, 22050, 50, "smp", func(p *Params) *int { return &g(p).GrainCrossfade })
		for j := 0; j < NumPartials; j++ {
			j := j
			d := float32(0)
			if j == 0 {
				d = 1
			}
			floatDef(fmt.Sprintf("%s_partial%d", pre, j+1), 0, 1, d, "", func(p *Params) *float32 { return &g(p).Partials[j] })
			floatDef(fmt.Sprintf("%s_partial%d_phase", pre, j+1), 0, 1, 0, "", func(p *Params) *float32 { return &g(p).PartialPhases[j] })
		}
	}

	for i := 0; i < NumFilters; i++ {
		i := i
		pre := fmt.Sprintf("filter%d", i+1)
		f := func(p *Params) *FilterParams { return &p.Filter[i] }
		boolDef(pre+"_enabled", false, func(p *Params) *bool { return &f(p).Enabled })
		intDef(pre+"_kind", 0, int(NumFilterKinds)-1, 0, "", func(p *Params) *int { return (*int)(&f(p).Kind) })
		intDef(pre+"_res_type", 0, int(NumResonanceKinds)-1, 0, "", func(p *Params) *int { return (*int)(&f(p).Resonance) })
		floatDef(pre+"_cutoff", 20, 20000, 20000, "Hz", func(p *Params) *float32 { return &f(p).Cutoff })
		floatDef(pre+"_resonance", 0, 1, 0.1, "", func(p *Params) *float32 { return &f(p).Res })
		floatDef(pre+"_low_mix", 0, 1, 1, "", func(p *Params) *float32 { return &f(p).LowMix })
		floatDef(pre+"_band_mix", 0, 1, 0, "", func(p *Params) *float32 { return &f(p).BandMix })
		floatDef(pre+"_high_mix", 0, 1, 0, "", func(p *Params) *float32 { return &f(p).HighMix })
		floatDef(pre+"_wet", 0, 1, 1, "", func(p *Params) *float32 { return &f(p).Wet })
		adsrDefs(pre+"_env", func(p *Params) *ADSRParams { return &f(p).Env })
		floatDef(pre+"_env_to_cutoff", -1, 1, 0, "", func(p *Params) *float32 { return &f(p).EnvToCut })
		floatDef(pre+"_env_to_resonance", -1, 1, 0, "", func(p *Params) *float32 { return &f(p).EnvToRes })
	}

	for i := 0; i < NumLFOs; i++ {
		i := i
		pre := fmt.Sprintf("lfo%d", i+1)
		l := func(p *Params) *LFOParams { return &p.LFO[i] }
		intDef(pre+"_wave", 0, int(LFOPulseEighth), 0, "", func(p *Params) *int { return (*int)(&l(p).Wave) })
		floatDef(pre+"_rate", 0.01, 50, 2, "Hz", func(p *Params) *float32 { return &l(p).Rate })
		boolDef(pre+"_sync", false, func(p *Params) *bool { return &l(p).Sync })
		floatDef(pre+"_sync_beats", 0.0625, 16, 1, "beats", func(p *Params) *float32 { return &l(p).SyncBeats })
		boolDef(pre+"_retrigger", false, func(p *Params) *bool { return &l(p).Retrigger })
		floatDef(pre+"_phase", 0, 1, 0, "", func(p *Params) *float32 { return &l(p).Phase })
	}

	for i := 0; i < NumModRoutes; i++ {
		i := i
		pre := fmt.Sprintf("mod%d", i+1)
		m := func(p *Params) *ModRouteParams { return &p.Mod[i] }
		intDef(pre+"_source", 0, int(NumModSources)-1, 0, "", func(p *Params) *int { return (*int)(&m(p).Source) })
		intDef(pre+"_target", 0, int(NumModTargets)-1, 0, "", func(p *Params) *int { return (*int)(&m(p).Target) })
		floatDef(pre+"_amount", -1, 1, 0, "", func(p *Params) *float32 { return &m(p).Amount })
	}

	floatDef("fm_1to2", 0, 4, 0, "", func(p *Params) *float32 { return &p.FM.OneToTwo })
	floatDef("fm_2to3", 0, 4, 0, "", func(p *Params) *float32 { return &p.FM.TwoToThree })
	floatDef("fm_1to3", 0, 4, 0, "", func(p *Params) *float32 { return &p.FM.OneToThree })

	boolDef("fx_sat_enabled", false, func(p *Params) *bool { return &p.FX.Saturation.Enabled })
	intDef("fx_sat_kind", 0, int(SatSine), 0, "", func(p *Params) *int { return (*int)(&p.FX.Saturation.Kind) })
	floatDef("fx_sat_amount", 0, 1, 0, "", func(p *Params) *float32 { return &p.FX.Saturation.Amount })
	boolDef("fx_abass_enabled", false, func(p *Params) *bool { return &p.FX.ABass.Enabled })
	floatDef("fx_abass_amount", 0, 1, 0, "", func(p *Params) *float32 { return &p.FX.ABass.Amount })
	boolDef("fx_buffermod_enabled", false, func(p *Params) *bool { return &p.FX.BufferMod.Enabled })
	floatDef("fx_buffermod_depth", 0, 1, 0, "", func(p *Params) *float32 { return &p.FX.BufferMod.Depth })
	floatDef("fx_buffermod_rate", 0, 20, 3, "Hz", func(p *Params) *float32 { return &p.FX.BufferMod.Rate })
	floatDef("fx_buffermod_spread", 0, 1, 0, "", func(p *Params) *float32 { return &p.FX.BufferMod.Spread })
	floatDef("fx_buffermod_length", 2, 96000, 4410, "smp", func(p *Params) *float32 { return &p.FX.BufferMod.Length })
	floatDef("fx_buffermod_amount", 0, 1, 0, "", func(p *Params) *float32 { return &p.FX.BufferMod.Amount })
	boolDef("fx_chorus_enabled", false, func(p *Params) *bool { return &p.FX.Chorus.Enabled })
	floatDef("fx_chorus_range", 1, 50, 20, "smp", func(p *Params) *float32 { return &p.FX.Chorus.Range })
	floatDef("fx_chorus_speed", 0, 10, 0.5, "Hz", func(p *Params) *float32 { return &p.FX.Chorus.Speed })
	floatDef("fx_chorus_amount", 0, 1, 0, "", func(p *Params) *float32 { return &p.FX.Chorus.Amount })
	boolDef("fx_phaser_enabled", false, func(p *Params) *bool { return &p.FX.Phaser.Enabled })
	floatDef("fx_phaser_rate", 0, 10, 0.5, "Hz", func(p *Params) *float32 { return &p.FX.Phaser.Rate })
	floatDef("fx_phaser_depth", 0, 1, 1, "", func(p *Params) *float32 { return &p.FX.Phaser.Depth })
	floatDef("fx_phaser_feedback", 0, 0.95, 0.7, "", func(p *Params) *float32 { return &p.FX.Phaser.Feedback })
	floatDef("fx_phaser_amount", 0, 1, 0, "", func(p *Params) *float32 { return &p.FX.Phaser.Amount })
	boolDef("fx_flanger_enabled", false, func(p *Params) *bool { return &p.FX.Flanger.Enabled })
	floatDef("fx_flanger_depth", 0, 1, 0.5, "", func(p *Params) *float32 { return &p.FX.Flanger.Depth })
	floatDef("fx_flanger_rate", 0, 10, 0.3, "Hz", func(p *Params) *float32 { return &p.FX.Flanger.Rate })
	floatDef("fx_flanger_feedback", 0, 0.95, 0.3, "", func(p *Params) *float32 { return &p.FX.Flanger.Feedback })
	floatDef("fx_flanger_amount", 0, 1, 0, "", func(p *Params) *float32 { return &p.FX.Flanger.Amount })
	boolDef("fx_delay_enabled", false, func(p *Params) *bool { return &p.FX.Delay.Enabled })
	floatDef("fx_delay_beats", 0.0625, 4, 0.5, "beats", func(p *Params) *float32 { return &p.FX.Delay.Beats })
	floatDef("fx_delay_feedback", 0, 0.95, 0.4, "", func(p *Params) *float32 { return &p.FX.Delay.Feedback })
	floatDef("fx_delay_damp", 0, 1, 0, "", func(p *Params) *float32 { return &p.FX.Delay.Damp })
	floatDef("fx_delay_amount", 0, 1, 0, "", func(p *Params) *float32 { return &p.FX.Delay.Amount })
	boolDef("fx_reverb_enabled", false, func(p *Params) *bool { return &p.FX.Reverb.Enabled })
	floatDef("fx_reverb_size", 0, 1, 0.5, "", func(p *Params) *float32 { return &p.FX.Reverb.Size })
	floatDef("fx_reverb_feedback", 0, 1, 0.5, "", func(p *Params) *float32 { return &p.FX.Reverb.Feedback })
	floatDef("fx_reverb_wet", 0, 1, 0.3, "", func(p *Params) *float32 { return &p.FX.Reverb.Wet })
	boolDef("fx_comp_enabled", false, func(p *Params) *bool { return &p.FX.Compressor.Enabled })
	floatDef("fx_comp_amount", 0, 1, 0.5, "", func(p *Params) *float32 { return &p.FX.Compressor.Amount })
	floatDef("fx_comp_attack", 0.0001, 0.5, 0.01, "s", func(p *Params) *float32 { return &p.FX.Compressor.Attack })
	floatDef("fx_comp_release", 0.001, 2, 0.1, "s", func(p *Params) *float32 { return &p.FX.Compressor.Release })
	floatDef("fx_comp_drive", 0, 1, 0, "", func(p *Params) *float32 { return &p.FX.Compressor.Drive })
	boolDef("fx_limiter_enabled", false, func(p *Params) *bool { return &p.FX.Limiter.Enabled })
	floatDef("fx_limiter_threshold", 0, 1, 1, "", func(p *Params) *float32 { return &p.FX.Limiter.Threshold })
	floatDef("fx_limiter_knee", 0, 1, 0, "", func(p *Params) *float32 { return &p.FX.Limiter.Knee })
	boolDef("fx_width_enabled", false, func(p *Params) *bool { return &p.FX.Width.Enabled })
	floatDef("fx_width_amount", 0, 2, 1, "", func(p *Params) *float32 { return &p.FX.Width.Amount })

	sort.Slice(paramDefs, func(i, j int) bool { return paramDefs[i].Name < paramDefs[j].Name })
	paramIndex = make(map[string]int, len(paramDefs))
	for i, d := range paramDefs {
		paramIndex[d.Name] = i
	}
}
