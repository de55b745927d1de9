package engine

import (
	"github.com/chewxy/math32"
	"github.com/strata-audio/strata"
)

// additiveSample sums the partial bank at the given phase. Partials whose
// frequency would land at or above Nyquist are skipped so pitching the
// generator up never folds harmonics back down.
func additiveSample(p *strata.GenParams, phase, freq, sampleRate float32) float32 {
	var out float32
	nyquist := sampleRate / 2
	for h := 0; h < strata.NumPartials; h++ {
		amp := p.Partials[h]
		if amp == 0 {
			continue
		}
		harmonic := float32(h + 1)
		if freq*harmonic >= nyquist {
			break
		}
		out += amp * math32.Sin(2*math32.Pi*(harmonic*phase+p.PartialPhases[h]))
	}
	return out
}
