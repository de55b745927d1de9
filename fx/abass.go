package fx

import (
	"github.com/chewxy/math32"
	"github.com/strata-audio/strata"
)

// aBass thickens the low end: the band below ~250 Hz is isolated with a
// one-pole lowpass, run through an even-order shaper that generates upper
// bass harmonics, and blended back in.
type aBass struct {
	lp [2]float32
}

func (a *aBass) process(buf strata.AudioBuffer, amount, sampleRate float32) {
	coef := 1 - math32.Exp(-2*math32.Pi*250/sampleRate)
	gain := amount * 1.5
	for i := range buf {
		for ch := 0; ch < 2; ch++ {
			x := buf[i][ch]
			a.lp[ch] += coef * (x - a.lp[ch])
			low := a.lp[ch]
			harm := math32.Tanh(low*3) - low*0.5
			buf[i][ch] = x + harm*gain
		}
	}
}
