package fx

import (
	"github.com/chewxy/math32"
	"github.com/strata-audio/strata"
)

// processSaturation applies one of the waveshaper curves in place. Amount
// drives the shaper; every curve is normalized so that unity input stays
// near unity output and zero amount passes the signal through.
func processSaturation(buf strata.AudioBuffer, kind strata.SatKind, amount float32) {
	if amount <= 0 {
		return
	}
	drive := 1 + amount*9
	norm := float32(1)
	// the monotonic curves get gain-compensated; clip and sine fold are
	// bounded already and normalizing a fold would amplify its nulls
	if kind != strata.SatClip && kind != strata.SatSine {
		if ref := math32.Abs(saturate(kind, drive)); ref > 0.2 {
			norm = 1 / ref
		}
	}
	for i := range buf {
		buf[i][0] = saturate(kind, buf[i][0]*drive) * norm
		buf[i][1] = saturate(kind, buf[i][1]*drive) * norm
	}
}

func saturate(kind strata.SatKind, x float32) float32 {
	switch kind {
	case strata.SatClip:
		if x > 1 {
			return 1
		}
		if x < -1 {
			return -1
		}
		return x
	case strata.SatSinPow:
		// sine-shaped with a power bend that squashes the top harder
		s := math32.Sin(math32.Atan(x))
		return s * math32.Sqrt(math32.Abs(s))
	case strata.SatSubtle:
		// third-order polynomial with a gentle knee
		c := x
		if c > 1.5 {
			c = 1.5
		} else if c < -1.5 {
			c = -1.5
		}
		return c - c*c*c/6.75
	case strata.SatSine:
		return math32.Sin(x * math32.Pi / 2 * 0.9)
	default: // tape
		return math32.Tanh(x)
	}
}
