package fx

import (
	"github.com/strata-audio/strata"
)

// delay is a tempo-synced stereo delay. The time in seconds follows the
// current BPM, capped by the allocated line; a one-pole lowpass in the
// feedback path darkens each repeat by the damp amount.
type delay struct {
	line  [2][]float32
	write int
	damp  [2]float32
}

func (d *delay) init(sampleRate float32) {
	n := int(sampleRate * 4) // 4 beats at 60 BPM
	d.line[0] = make([]float32, n)
	d.line[1] = make([]float32, n)
}

func (d *delay) process(buf strata.AudioBuffer, p *strata.FXParams, bpm, sampleRate float32) {
	if bpm <= 0 {
		bpm = 120
	}
	samples := int(p.Delay.Beats * 60 / bpm * sampleRate)
	if samples < 1 {
		samples = 1
	}
	if samples > len(d.line[0])-1 {
		samples = len(d.line[0]) - 1
	}
	dampCoef := p.Delay.Damp * 0.9
	mix := p.Delay.Amount
	length := len(d.line[0])
	for i := range buf {
		if d.write >= length {
			d.write = 0
		}
		read := d.write - samples
		if read < 0 {
			read += length
		}
		for ch := 0; ch < 2; ch++ {
			wet := d.line[ch][read]
			d.damp[ch] += (1 - dampCoef) * (wet - d.damp[ch])
			d.line[ch][d.write] = buf[i][ch] + d.damp[ch]*p.Delay.Feedback
			buf[i][ch] += wet * mix
		}
		d.write++
	}
}
