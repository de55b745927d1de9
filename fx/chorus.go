package fx

import (
	"github.com/chewxy/math32"
	"github.com/strata-audio/strata"
)

// chorus is a modulated delay line per channel, swept around a fixed base
// delay with opposite-phase LFOs left and right.
type chorus struct {
	line  [2][]float32
	write int
	phase float32
}

const chorusBaseDelay = 64 // samples

func (c *chorus) init(sampleRate float32) {
	n := chorusBaseDelay + 64
	c.line[0] = make([]float32, n)
	c.line[1] = make([]float32, n)
}

func (c *chorus) process(buf strata.AudioBuffer, p *strata.FXParams, sampleRate float32) {
	inc := p.Chorus.Speed / sampleRate
	sweep := p.Chorus.Range * 0.5
	mix := p.Chorus.Amount
	length := len(c.line[0])
	for i := range buf {
		if c.write >= length {
			c.write = 0
		}
		c.line[0][c.write] = buf[i][0]
		c.line[1][c.write] = buf[i][1]
		for ch := 0; ch < 2; ch++ {
			ph := c.phase
			if ch == 1 {
				ph += 0.5
			}
			d := chorusBaseDelay/2 + sweep*(1+math32.Sin(2*math32.Pi*ph))*0.5
			pos := float32(c.write) - d
			if pos < 0 {
				pos += float32(length)
			}
			wet := readLerp(c.line[ch], pos, length)
			buf[i][ch] = buf[i][ch]*(1-mix*0.5) + wet*mix*0.5
		}
		c.write++
		c.phase += inc
		if c.phase >= 1 {
			c.phase -= 1
		}
	}
}
