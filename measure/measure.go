// Package measure provides offline spectral analysis of rendered audio:
// magnitude spectra, fundamental estimation and response probing. It is
// used by tests and tooling, never by the realtime path.
package measure

import (
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/strata-audio/strata"
)

// Spectrum computes the magnitude spectrum of the left channel of buf with
// a Hann window. The FFT size is the largest power of two that fits; the
// returned slice holds bins 0..Nyquist.
func Spectrum(buf strata.AudioBuffer) ([]float64, error) {
	n := 1
	for n*2 <= len(buf) {
		n *= 2
	}
	if n < 16 {
		return nil, fmt.Errorf("buffer too short for analysis: %d frames", len(buf))
	}
	in := make([]complex128, n)
	for i := 0; i < n; i++ {
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
		in[i] = complex(float64(buf[i][0])*w, 0)
	}
	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("fft plan: %w", err)
	}
	out := make([]complex128, n)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("fft: %w", err)
	}
	mags := make([]float64, n/2+1)
	for i := range mags {
		mags[i] = cmplx.Abs(out[i])
	}
	return mags, nil
}

// Fundamental estimates the dominant frequency of buf in Hz from the peak
// spectral bin, refined by parabolic interpolation of its neighbours.
func Fundamental(buf strata.AudioBuffer, sampleRate float64) (float64, error) {
	mags, err := Spectrum(buf)
	if err != nil {
		return 0, err
	}
	peak := 1
	for i := 2; i < len(mags)-1; i++ {
		if mags[i] > mags[peak] {
			peak = i
		}
	}
	binHz := sampleRate / float64((len(mags)-1)*2)
	if peak <= 0 || peak >= len(mags)-1 {
		return float64(peak) * binHz, nil
	}
	a, b, c := mags[peak-1], mags[peak], mags[peak+1]
	denom := a - 2*b + c
	offset := 0.0
	if denom != 0 {
		offset = 0.5 * (a - c) / denom
	}
	return (float64(peak) + offset) * binHz, nil
}

// Peak returns the largest absolute sample value across both channels.
func Peak(buf strata.AudioBuffer) float64 {
	var peak float64
	for i := range buf {
		for ch := 0; ch < 2; ch++ {
			if v := math.Abs(float64(buf[i][ch])); v > peak {
				peak = v
			}
		}
	}
	return peak
}

// RMS returns the root mean square level of both channels combined.
func RMS(buf strata.AudioBuffer) float64 {
	if len(buf) == 0 {
		return 0
	}
	var sum float64
	for i := range buf {
		l := float64(buf[i][0])
		r := float64(buf[i][1])
		sum += l*l + r*r
	}
	return math.Sqrt(sum / float64(len(buf)*2))
}

// LevelAt returns the magnitude of the bin closest to freq, normalized by
// the magnitude at refFreq. Used to probe filter responses: a value near
// 0.707 at cutoff relative to the passband is the classic -3 dB point.
func LevelAt(buf strata.AudioBuffer, sampleRate, freq, refFreq float64) (float64, error) {
	mags, err := Spectrum(buf)
	if err != nil {
		return 0, err
	}
	binHz := sampleRate / float64((len(mags)-1)*2)
	bin := func(f float64) float64 {
		i := int(f/binHz + 0.5)
		if i < 0 {
			i = 0
		}
		if i >= len(mags) {
			i = len(mags) - 1
		}
		// take the local peak to be robust against bin straddling
		best := mags[i]
		for d := -2; d <= 2; d++ {
			if j := i + d; j >= 0 && j < len(mags) && mags[j] > best {
				best = mags[j]
			}
		}
		return best
	}
	ref := bin(refFreq)
	if ref == 0 {
		return 0, fmt.Errorf("no reference energy at %g Hz", refFreq)
	}
	return bin(freq) / ref, nil
}
