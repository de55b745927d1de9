// Package engine implements the realtime synthesizer: voice management,
// the generator slots, filters, modulation and the master effect chain.
// One goroutine (the audio thread) calls Render; every other surface is a
// control-thread API that communicates with it through atomic snapshot
// publication and a wait-free event queue.
package engine

import (
	"fmt"
	"sync/atomic"

	"github.com/chewxy/math32"
	"github.com/viterin/vek/vek32"

	"github.com/strata-audio/strata"
	"github.com/strata-audio/strata/fx"
)

// maxBlock is the largest segment rendered in one pass; longer Render
// buffers are processed in maxBlock chunks so the metering scratch can be
// allocated up front.
const maxBlock = 4096

// Engine is the realtime synthesizer. The zero value is not usable; use
// New. All exported methods except Render and ReadAudio are control-thread
// methods; Render and ReadAudio must be called from a single goroutine.
type Engine struct {
	sampleRate float32

	params atomic.Pointer[strata.Params]
	tables [strata.NumGenerators]atomic.Pointer[noteTable]
	queue  eventQueue

	voices     [strata.MaxPolyphony]voice
	ageCounter uint64
	seed       randState
	pitchWheel float32
	pressure   float32
	lfos       [strata.NumLFOs]lfo // global instances for master-level targets
	levels     [strata.MaxPolyphony]float32

	chain    *fx.Chain
	scratchL []float32
	scratchR []float32
	meter    atomic.Pointer[Meter]
}

// Meter is a point-in-time level reading, updated once per Render call.
// VoiceLevels decay exponentially and can be used to visualize per-voice
// activity; a held voice settles around 0.5, a fresh trigger jumps to 1.
type Meter struct {
	PeakL, PeakR float32
	ActiveVoices int
	VoiceLevels  [strata.MaxPolyphony]float32
}

func New(sampleRate float32) *Engine {
	e := &Engine{
		sampleRate: sampleRate,
		chain:      fx.NewChain(sampleRate),
		scratchL:   make([]float32, maxBlock),
		scratchR:   make([]float32, maxBlock),
		seed:       1,
	}
	p := strata.DefaultParams()
	e.params.Store(&p)
	e.meter.Store(&Meter{})
	return e
}

func (e *Engine) SampleRate() float32 { return e.sampleRate }

// SetParams validates the snapshot and publishes it. The audio thread
// picks it up at its next block; the previous snapshot stays in effect
// until then.
func (e *Engine) SetParams(p strata.Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	cp := p.Copy()
	e.params.Store(&cp)
	return nil
}

// Params returns a copy of the latest published snapshot.
func (e *Engine) Params() strata.Params {
	return e.params.Load().Copy()
}

// SetParam adjusts a single named parameter by copy-modify-publish. Not
// safe for concurrent use with SetParams from other goroutines; parameter
// writers are expected to be a single control thread.
func (e *Engine) SetParam(name string, value float32) error {
	p := e.params.Load().Copy()
	if err := p.SetParam(name, value); err != nil {
		return err
	}
	e.params.Store(&p)
	return nil
}

// LoadSample builds the per-note playback tables for a generator slot and
// installs them. Table building resamples the source 128 times and happens
// on the calling goroutine; the audio thread only ever sees the finished
// table through an atomic swap. A nil sample clears the slot.
func (e *Engine) LoadSample(slot int, s *strata.Sample) error {
	if slot < 0 || slot >= strata.NumGenerators {
		return fmt.Errorf("sample slot %d out of range", slot)
	}
	if s == nil {
		e.tables[slot].Store(nil)
		return nil
	}
	e.tables[slot].Store(buildNoteTable(s, e.sampleRate))
	return nil
}

// Send queues an event for the audio thread. It never blocks; when the
// queue is full the event is dropped and Send reports false.
func (e *Engine) Send(ev strata.Event) bool {
	return e.queue.push(ev)
}

// Render mixes all voices and the effect chain into buf, which it zeroes
// first. events must be sorted by Frame; each event applies at its frame
// so a note starting mid-buffer starts mid-buffer. Queued events from Send
// apply at the start of the buffer. Render never allocates and never
// returns an error; voices that hit bad data go silent instead.
func (e *Engine) Render(buf strata.AudioBuffer, events []strata.Event) {
	p := e.params.Load()
	var tabs [strata.NumGenerators]*noteTable
	for i := range tabs {
		tabs[i] = e.tables[i].Load()
	}
	buf.Fill()

	for {
		ev, ok := e.queue.pop()
		if !ok {
			break
		}
		e.apply(ev, p, &tabs)
	}

	pos := 0
	for _, ev := range events {
		f := int(ev.Frame)
		if f > len(buf) {
			f = len(buf)
		}
		if f > pos {
			e.renderSegment(buf[pos:f], p, &tabs)
			pos = f
		}
		e.apply(ev, p, &tabs)
	}
	if pos < len(buf) {
		e.renderSegment(buf[pos:], p, &tabs)
	}

	e.applyMasterGain(buf, p)
	e.chain.Process(buf, &p.FX, p.BPM)
	e.finish(buf)
}

// ReadAudio implements strata.AudioSource. The engine is an endless
// source; it fills the whole buffer every call.
func (e *Engine) ReadAudio(buf strata.AudioBuffer) (int, error) {
	e.Render(buf, nil)
	return len(buf), nil
}

// Meter returns the levels measured during the most recent Render.
func (e *Engine) Meter() Meter {
	return *e.meter.Load()
}

func (e *Engine) renderSegment(buf strata.AudioBuffer, p *strata.Params, tabs *[strata.NumGenerators]*noteTable) {
	for i := range e.voices {
		v := &e.voices[i]
		if v.active {
			v.render(buf, p, tabs, e.pitchWheel, e.sampleRate)
		}
	}
}

// applyMasterGain scales the summed voice mix by the master gain, with
// its modulation resolved from the engine-level LFOs. It runs before the
// effect chain so the dynamics units see the gain-adjusted signal.
func (e *Engine) applyMasterGain(buf strata.AudioBuffer, p *strata.Params) {
	src := modSources{pitchWheel: clampUnit(e.pitchWheel / 2), aftertouch: e.pressure, velocity: 1}
	for i := range e.lfos {
		src.lfo[i] = e.lfos[i].value(&p.LFO[i])
		e.lfos[i].advance(&p.LFO[i], p.BPM, e.sampleRate, len(buf))
	}
	off := resolveMod(&p.Mod, &src)
	gain := applyMod(p.MasterGain, off.master, strata.TargetMasterGain)
	for i := range buf {
		buf[i][0] *= gain
		buf[i][1] *= gain
	}
}

// finish publishes the meter. Chunked so the scratch buffers bound the
// buffer length seen by the vector kernels.
func (e *Engine) finish(buf strata.AudioBuffer) {
	m := Meter{}
	alpha := math32.Exp(-float32(len(buf)) / 15000)
	for i := range e.voices {
		v := &e.voices[i]
		switch {
		case v.active && !v.releasing:
			e.levels[i] = (e.levels[i]-0.5)*alpha + 0.5
		default:
			e.levels[i] *= alpha
		}
		if v.active {
			m.ActiveVoices++
		}
	}
	m.VoiceLevels = e.levels

	for pos := 0; pos < len(buf); pos += maxBlock {
		end := pos + maxBlock
		if end > len(buf) {
			end = len(buf)
		}
		n := end - pos
		for i := pos; i < end; i++ {
			e.scratchL[i-pos] = buf[i][0]
			e.scratchR[i-pos] = buf[i][1]
		}
		vek32.Abs_Inplace(e.scratchL[:n])
		vek32.Abs_Inplace(e.scratchR[:n])
		if pk := vek32.Max(e.scratchL[:n]); pk > m.PeakL {
			m.PeakL = pk
		}
		if pk := vek32.Max(e.scratchR[:n]); pk > m.PeakR {
			m.PeakR = pk
		}
	}
	e.meter.Store(&m)
}

func (e *Engine) apply(ev strata.Event, p *strata.Params, tabs *[strata.NumGenerators]*noteTable) {
	switch ev.Kind {
	case strata.NoteOn:
		if ev.Velocity == 0 {
			e.noteOff(ev.Note)
			return
		}
		idx := e.alloc(p)
		e.ageCounter++
		e.seed.next()
		e.voices[idx].noteOn(ev.Note, ev.Velocity, p, tabs, e.ageCounter, uint32(e.seed))
		e.voices[idx].aftertouch = e.pressure
		e.levels[idx] = 1
	case strata.NoteOff:
		e.noteOff(ev.Note)
	case strata.PitchBend:
		e.pitchWheel = ev.Value
	case strata.Aftertouch:
		e.pressure = ev.Value
		for i := range e.voices {
			if e.voices[i].active {
				e.voices[i].aftertouch = ev.Value
			}
		}
	}
}

func (e *Engine) noteOff(note byte) {
	for i := range e.voices {
		v := &e.voices[i]
		if v.active && !v.releasing && v.note == note {
			v.noteOff()
		}
	}
}

// alloc returns the index of a voice for a new note. Under the polyphony
// limit it takes a free slot; over it, it steals the oldest releasing
// voice, or the oldest voice outright when none is releasing.
func (e *Engine) alloc(p *strata.Params) int {
	poly := p.Polyphony
	if poly < 1 {
		poly = 1
	} else if poly > strata.MaxPolyphony {
		poly = strata.MaxPolyphony
	}
	active := 0
	for i := range e.voices {
		if e.voices[i].active {
			active++
		}
	}
	if active < poly {
		for i := range e.voices {
			if !e.voices[i].active {
				return i
			}
		}
	}
	steal := -1
	for i := range e.voices {
		v := &e.voices[i]
		if !v.active || !v.releasing {
			continue
		}
		if steal < 0 || v.age < e.voices[steal].age {
			steal = i
		}
	}
	if steal >= 0 {
		return steal
	}
	for i := range e.voices {
		v := &e.voices[i]
		if !v.active {
			continue
		}
		if steal < 0 || v.age < e.voices[steal].age {
			steal = i
		}
	}
	if steal < 0 {
		return 0
	}
	return steal
}
