package fx

import (
	"github.com/chewxy/math32"
	"github.com/strata-audio/strata"
)

// compressor is a stereo-linked peak compressor. Amount lowers the
// threshold and the 4:1 ratio does the rest; Drive is makeup gain.
type compressor struct {
	env float32
}

func (c *compressor) process(buf strata.AudioBuffer, p *strata.FXParams, sampleRate float32) {
	attack := 1 - math32.Exp(-1/(p.Compressor.Attack*sampleRate))
	release := 1 - math32.Exp(-1/(p.Compressor.Release*sampleRate))
	threshold := 1 - p.Compressor.Amount*0.7
	makeup := 1 + p.Compressor.Drive
	for i := range buf {
		peak := math32.Max(math32.Abs(buf[i][0]), math32.Abs(buf[i][1]))
		if peak > c.env {
			c.env += attack * (peak - c.env)
		} else {
			c.env += release * (peak - c.env)
		}
		gain := float32(1)
		if c.env > threshold {
			gain = (threshold + (c.env-threshold)*0.25) / c.env
		}
		buf[i][0] *= gain * makeup
		buf[i][1] *= gain * makeup
	}
}

// limiter holds the output under Threshold with instant attack and a fixed
// 50 ms release. Knee softens the onset of gain reduction.
type limiter struct {
	gain float32
}

func (l *limiter) process(buf strata.AudioBuffer, p *strata.FXParams, sampleRate float32) {
	if l.gain == 0 {
		l.gain = 1
	}
	release := 1 - math32.Exp(-1/(0.05*sampleRate))
	threshold := p.Limiter.Threshold
	if threshold < 0.01 {
		threshold = 0.01
	}
	knee := p.Limiter.Knee * 0.2
	for i := range buf {
		peak := math32.Max(math32.Abs(buf[i][0]), math32.Abs(buf[i][1]))
		target := float32(1)
		if knee > 0 && peak > threshold-knee && peak < threshold+knee && peak > 1e-6 {
			// quadratic knee segment
			over := peak - threshold + knee
			eff := peak - over*over/(4*knee)
			target = eff / peak
		} else if peak > threshold {
			target = threshold / peak
		}
		if target < l.gain {
			l.gain = target // instant attack
		} else {
			l.gain += release * (target - l.gain)
		}
		buf[i][0] *= l.gain
		buf[i][1] *= l.gain
	}
}

// processWidth rebalances the mid and side channels; 1 passes unchanged, 0
// collapses to mono and 2 doubles the side level.
func processWidth(buf strata.AudioBuffer, amount float32) {
	for i := range buf {
		mid := (buf[i][0] + buf[i][1]) * 0.5
		side := (buf[i][0] - buf[i][1]) * 0.5 * amount
		buf[i][0] = mid + side
		buf[i][1] = mid - side
	}
}
