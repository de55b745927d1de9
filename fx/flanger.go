package fx

import (
	"github.com/chewxy/math32"
	"github.com/strata-audio/strata"
)

// flanger is a very short modulated delay with feedback, sweeping between
// roughly 1 and 10 milliseconds.
type flanger struct {
	line  [2][]float32
	write int
	phase float32
}

func (f *flanger) init(sampleRate float32) {
	n := int(sampleRate*0.012) + 2
	f.line[0] = make([]float32, n)
	f.line[1] = make([]float32, n)
}

func (f *flanger) process(buf strata.AudioBuffer, p *strata.FXParams, sampleRate float32) {
	inc := p.Flanger.Rate / sampleRate
	minDelay := sampleRate * 0.001
	maxSweep := sampleRate * 0.009 * p.Flanger.Depth
	mix := p.Flanger.Amount
	length := len(f.line[0])
	for i := range buf {
		if f.write >= length {
			f.write = 0
		}
		d := minDelay + maxSweep*(1+math32.Sin(2*math32.Pi*f.phase))*0.5
		pos := float32(f.write) - d
		if pos < 0 {
			pos += float32(length)
		}
		for ch := 0; ch < 2; ch++ {
			wet := readLerp(f.line[ch], pos, length)
			f.line[ch][f.write] = buf[i][ch] + wet*p.Flanger.Feedback
			buf[i][ch] = buf[i][ch]*(1-mix*0.5) + wet*mix*0.5
		}
		f.write++
		f.phase += inc
		if f.phase >= 1 {
			f.phase -= 1
		}
	}
}
