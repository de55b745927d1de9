package engine

import (
	"github.com/chewxy/math32"
	"github.com/strata-audio/strata"
)

// noteTable holds one pre-resampled copy of a source sample per MIDI note,
// so the audio thread plays every pitch at unit rate with a plain linear
// interpolation read. Tables are built off the audio thread and installed
// with an atomic pointer swap.
type noteTable struct {
	notes [128]strata.AudioBuffer
}

// tableRoot is the note at which the source sample plays back unshifted.
const tableRoot = 60

// buildNoteTable resamples src once per note. The step combines the pitch
// ratio for the note with the rate ratio between the sample and the engine.
func buildNoteTable(src *strata.Sample, sampleRate float32) *noteTable {
	t := &noteTable{}
	left := src.Channel(0)
	right := src.Channel(1)
	for n := 0; n < 128; n++ {
		step := math32.Exp2(float32(n-tableRoot)/12) * float32(src.SampleRate) / sampleRate
		if step <= 0 {
			continue
		}
		length := int(float32(src.Len())/step) + 1
		buf := make(strata.AudioBuffer, length)
		for i := range buf {
			pos := float32(i) * step
			buf[i][0] = lerpAt(left, pos)
			buf[i][1] = lerpAt(right, pos)
		}
		t.notes[n] = buf
	}
	return t
}

func lerpAt(data []float32, pos float32) float32 {
	i := int(pos)
	if i >= len(data)-1 {
		if i == len(data)-1 {
			return data[i]
		}
		return 0
	}
	frac := pos - float32(i)
	return data[i] + (data[i+1]-data[i])*frac
}

// sampler is the per-voice playback state shared by the direct sampler,
// the granulizer and the single-cycle generator.
type sampler struct {
	pos  float32
	done bool

	grains  [2]grain
	nextIdx int
	gapLeft int
	spawn   float32 // playhead for the next grain start
}

type grain struct {
	active bool
	pos    float32
	age    int
	hold   int
	fade   int
}

func (s *sampler) noteOn(p *strata.GenParams, length int) {
	start := p.StartPos * float32(length)
	s.pos = start
	s.done = false
	s.grains[0] = grain{}
	s.grains[1] = grain{}
	s.nextIdx = 0
	s.gapLeft = 0
	s.spawn = start
	if p.Kind == strata.GenGranulizer {
		s.startGrain(p, length)
	}
}

// nextDirect advances the playhead by rate table frames and returns a
// linearly interpolated stereo frame. Without Loop the voice goes silent
// past EndPos; with Loop the playhead wraps back to StartPos.
func (s *sampler) nextDirect(p *strata.GenParams, buf strata.AudioBuffer, rate float32) (l, r float32) {
	if len(buf) == 0 || s.done {
		return 0, 0
	}
	start := p.StartPos * float32(len(buf))
	end := p.EndPos * float32(len(buf))
	if end > float32(len(buf)) {
		end = float32(len(buf))
	}
	if s.pos >= end {
		if !p.Loop || end <= start {
			s.done = true
			return 0, 0
		}
		s.pos = start + math32.Mod(s.pos-start, end-start)
	}
	l, r = frameAt(buf, s.pos)
	s.pos += rate
	return l, r
}

// nextCycle treats the whole buffer as a single waveform cycle and reads
// it at the given phase, so pitch comes from the oscillator's phase
// increment rather than the playhead rate.
func nextCycle(buf strata.AudioBuffer, phase float32) (l, r float32) {
	if len(buf) == 0 {
		return 0, 0
	}
	return frameAt(buf, phase*float32(len(buf)))
}

// nextGrain mixes the two grain slots. A grain plays fade samples of
// linear fade-in, hold samples at full level and fade samples of fade-out;
// the successor starts when the fade-out begins, or after GrainGap samples
// of silence when a gap is set.
func (s *sampler) nextGrain(p *strata.GenParams, buf strata.AudioBuffer, rate float32) (l, r float32) {
	if len(buf) == 0 {
		return 0, 0
	}
	if s.gapLeft > 0 {
		s.gapLeft--
		if s.gapLeft == 0 {
			s.startGrain(p, len(buf))
		}
	}
	for i := range s.grains {
		g := &s.grains[i]
		if !g.active {
			continue
		}
		gl, gr := frameAt(buf, g.pos)
		w := g.window()
		l += gl * w
		r += gr * w
		g.pos += rate
		g.age++
		total := g.hold + 2*g.fade
		if g.age == g.fade+g.hold {
			// fade-out begins: hand over to the other slot
			if p.GrainGap > 0 {
				s.gapLeft = p.GrainGap
			} else {
				s.startGrain(p, len(buf))
			}
		}
		if g.age >= total {
			g.active = false
		}
	}
	return l, r
}

// startGrain spawns a grain at the playhead and advances the playhead by
// the grain period, wrapping inside the Start..End region when looping and
// parking past the end otherwise.
func (s *sampler) startGrain(p *strata.GenParams, length int) {
	start := p.StartPos * float32(length)
	end := p.EndPos * float32(length)
	if end > float32(length) {
		end = float32(length)
	}
	if s.spawn >= end {
		if !p.Loop || end <= start {
			s.done = true
			return
		}
		s.spawn = start + math32.Mod(s.spawn-start, end-start)
	}
	g := &s.grains[s.nextIdx]
	s.nextIdx = 1 - s.nextIdx
	*g = grain{
		active: true,
		pos:    s.spawn,
		hold:   p.GrainHold,
		fade:   p.GrainCrossfade,
	}
	s.spawn += float32(p.GrainHold + p.GrainCrossfade)
}

// window is the trapezoid gain of the grain at its current age.
func (g *grain) window() float32 {
	if g.fade == 0 {
		return 1
	}
	switch {
	case g.age < g.fade:
		return float32(g.age) / float32(g.fade)
	case g.age < g.fade+g.hold:
		return 1
	default:
		out := g.age - g.fade - g.hold
		return 1 - float32(out)/float32(g.fade)
	}
}

func frameAt(buf strata.AudioBuffer, pos float32) (l, r float32) {
	i := int(pos)
	if i < 0 || i >= len(buf) {
		return 0, 0
	}
	if i == len(buf)-1 {
		return buf[i][0], buf[i][1]
	}
	frac := pos - float32(i)
	l = buf[i][0] + (buf[i+1][0]-buf[i][0])*frac
	r = buf[i][1] + (buf[i+1][1]-buf[i][1])*frac
	return l, r
}
