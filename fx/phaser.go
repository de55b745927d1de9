package fx

import (
	"github.com/chewxy/math32"
	"github.com/strata-audio/strata"
)

const phaserStages = 6

// phaser sweeps six first-order allpass stages per channel through the
// mids with a shared LFO, feeding part of the output back into the input.
type phaser struct {
	state [2][phaserStages]float32
	fb    [2]float32
	phase float32
}

func (ph *phaser) process(buf strata.AudioBuffer, p *strata.FXParams, sampleRate float32) {
	inc := p.Phaser.Rate / sampleRate
	mix := p.Phaser.Amount
	for i := range buf {
		sweep := (1 + math32.Sin(2*math32.Pi*ph.phase)) * 0.5
		freq := 200 + sweep*p.Phaser.Depth*2800
		t := math32.Tan(math32.Pi * freq / sampleRate)
		a := (t - 1) / (t + 1)
		for ch := 0; ch < 2; ch++ {
			x := buf[i][ch] + ph.fb[ch]*p.Phaser.Feedback
			for s := 0; s < phaserStages; s++ {
				y := a*x + ph.state[ch][s]
				ph.state[ch][s] = x - a*y
				x = y
			}
			ph.fb[ch] = x
			buf[i][ch] = buf[i][ch]*(1-mix*0.5) + x*mix*0.5
		}
		ph.phase += inc
		if ph.phase >= 1 {
			ph.phase -= 1
		}
	}
}
