package fx

import (
	"github.com/strata-audio/strata"
)

// reverb is a small Schroeder network: four parallel feedback combs into
// two series allpasses per channel. Size stretches the effective comb
// lengths inside lines allocated for the maximum; the right channel reads
// slightly longer lines to decorrelate the tail.
type reverb struct {
	combs [2][4]comb
	aps   [2][2]allpass
}

var combTuning = [4]int{1116, 1188, 1277, 1356}
var allpassTuning = [2]int{556, 441}

const reverbStereoSpread = 23

type comb struct {
	buf  []float32
	pos  int
	filt float32
}

type allpass struct {
	buf []float32
	pos int
}

func (r *reverb) init(sampleRate float32) {
	scale := sampleRate / 44100
	for ch := 0; ch < 2; ch++ {
		spread := ch * reverbStereoSpread
		for i := range r.combs[ch] {
			n := int(float32(combTuning[i]+spread) * scale * 1.5)
			r.combs[ch][i].buf = make([]float32, n)
		}
		for i := range r.aps[ch] {
			n := int(float32(allpassTuning[i]+spread) * scale)
			r.aps[ch][i].buf = make([]float32, n)
		}
	}
}

func (r *reverb) process(buf strata.AudioBuffer, p *strata.FXParams) {
	feedback := 0.7 + p.Reverb.Feedback*0.28
	damp := float32(0.4)
	lengthScale := 0.5 + p.Reverb.Size*0.5 // fraction of the allocated lines
	wet := p.Reverb.Wet
	for i := range buf {
		for ch := 0; ch < 2; ch++ {
			in := buf[i][ch] * 0.25
			var out float32
			for c := range r.combs[ch] {
				out += r.combs[ch][c].process(in, feedback, damp, lengthScale)
			}
			for a := range r.aps[ch] {
				out = r.aps[ch][a].process(out)
			}
			buf[i][ch] = buf[i][ch]*(1-wet) + out*wet
		}
	}
}

func (c *comb) process(in, feedback, damp, lengthScale float32) float32 {
	length := int(float32(len(c.buf)) * lengthScale)
	if length < 1 {
		length = 1
	}
	if c.pos >= length {
		c.pos = 0
	}
	out := c.buf[c.pos]
	c.filt = out*(1-damp) + c.filt*damp
	c.buf[c.pos] = in + c.filt*feedback
	c.pos++
	return out
}

func (a *allpass) process(in float32) float32 {
	if a.pos >= len(a.buf) {
		a.pos = 0
	}
	delayed := a.buf[a.pos]
	out := delayed - in
	a.buf[a.pos] = in + delayed*0.5
	a.pos++
	return out
}
