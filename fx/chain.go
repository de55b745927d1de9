// Package fx implements the master effect chain of the strata engine: a
// fixed set of effect units processed in a reorderable sequence over the
// mixed stereo output. All buffers are allocated when the chain is built;
// Process never allocates.
package fx

import (
	"github.com/strata-audio/strata"
)

// Chain owns the state of every effect unit. The unit order and settings
// come from the FXParams of the current snapshot on every Process call, so
// reordering or toggling units takes effect at the next block without
// touching the chain's memory.
type Chain struct {
	sampleRate float32

	abass      aBass
	bufferMod  bufferMod
	chorus     chorus
	phaser     phaser
	flanger    flanger
	delay      delay
	reverb     reverb
	compressor compressor
	limiter    limiter
}

func NewChain(sampleRate float32) *Chain {
	c := &Chain{sampleRate: sampleRate}
	c.bufferMod.init(sampleRate)
	c.chorus.init(sampleRate)
	c.flanger.init(sampleRate)
	c.delay.init(sampleRate)
	c.reverb.init(sampleRate)
	return c
}

// Process runs the buffer through every enabled unit in the order given by
// p.Order. Units keep their internal state while disabled so toggling them
// back on resumes without a reset transient.
func (c *Chain) Process(buf strata.AudioBuffer, p *strata.FXParams, bpm float32) {
	for _, kind := range p.Order {
		switch kind {
		case strata.EffectSaturation:
			if p.Saturation.Enabled {
				processSaturation(buf, p.Saturation.Kind, p.Saturation.Amount)
			}
		case strata.EffectABass:
			if p.ABass.Enabled {
				c.abass.process(buf, p.ABass.Amount, c.sampleRate)
			}
		case strata.EffectBufferMod:
			if p.BufferMod.Enabled {
				c.bufferMod.process(buf, p, c.sampleRate)
			}
		case strata.EffectChorus:
			if p.Chorus.Enabled {
				c.chorus.process(buf, p, c.sampleRate)
			}
		case strata.EffectPhaser:
			if p.Phaser.Enabled {
				c.phaser.process(buf, p, c.sampleRate)
			}
		case strata.EffectFlanger:
			if p.Flanger.Enabled {
				c.flanger.process(buf, p, c.sampleRate)
			}
		case strata.EffectDelay:
			if p.Delay.Enabled {
				c.delay.process(buf, p, bpm, c.sampleRate)
			}
		case strata.EffectReverb:
			if p.Reverb.Enabled {
				c.reverb.process(buf, p)
			}
		case strata.EffectCompressor:
			if p.Compressor.Enabled {
				c.compressor.process(buf, p, c.sampleRate)
			}
		case strata.EffectLimiter:
			if p.Limiter.Enabled {
				c.limiter.process(buf, p, c.sampleRate)
			}
		case strata.EffectWidth:
			if p.Width.Enabled {
				processWidth(buf, p.Width.Amount)
			}
		}
	}
}
