package measure_test

import (
	"math"
	"testing"

	"github.com/strata-audio/strata"
	"github.com/strata-audio/strata/measure"
)

const sampleRate = 44100

func sineBuffer(frames int, freq, amp float64) strata.AudioBuffer {
	buf := make(strata.AudioBuffer, frames)
	for i := range buf {
		v := float32(amp * math.Sin(2*math.Pi*freq*float64(i)/sampleRate))
		buf[i] = [2]float32{v, v}
	}
	return buf
}

func TestFundamental(t *testing.T) {
	for _, freq := range []float64{110, 261.63, 440, 1000, 3520} {
		buf := sineBuffer(sampleRate/2, freq, 0.8)
		got, err := measure.Fundamental(buf, sampleRate)
		if err != nil {
			t.Fatalf("Fundamental(%v Hz): %v", freq, err)
		}
		if math.Abs(got-freq) > 2 {
			t.Errorf("Fundamental of %v Hz sine = %v", freq, got)
		}
	}
}

func TestFundamentalPicksDominant(t *testing.T) {
	buf := sineBuffer(sampleRate/2, 440, 0.8)
	weak := sineBuffer(sampleRate/2, 1100, 0.2)
	for i := range buf {
		buf[i][0] += weak[i][0]
		buf[i][1] += weak[i][1]
	}
	got, err := measure.Fundamental(buf, sampleRate)
	if err != nil {
		t.Fatalf("Fundamental: %v", err)
	}
	if math.Abs(got-440) > 2 {
		t.Errorf("dominant frequency %v, want 440", got)
	}
}

func TestPeakAndRMS(t *testing.T) {
	buf := sineBuffer(sampleRate/4, 440, 0.5)
	if got := measure.Peak(buf); math.Abs(got-0.5) > 0.01 {
		t.Errorf("Peak = %v, want 0.5", got)
	}
	want := 0.5 / math.Sqrt2
	if got := measure.RMS(buf); math.Abs(got-want) > 0.01 {
		t.Errorf("RMS = %v, want %v", got, want)
	}
}

func TestSpectrumTooShort(t *testing.T) {
	if _, err := measure.Spectrum(make(strata.AudioBuffer, 4)); err == nil {
		t.Error("short buffer accepted")
	}
}

func TestLevelAtFindsRolloff(t *testing.T) {
	// sum of a strong low tone and a weak high tone
	buf := sineBuffer(sampleRate/2, 200, 1)
	high := sineBuffer(sampleRate/2, 4000, 0.1)
	for i := range buf {
		buf[i][0] += high[i][0]
		buf[i][1] += high[i][1]
	}
	ratio, err := measure.LevelAt(buf, sampleRate, 4000, 200)
	if err != nil {
		t.Fatalf("LevelAt: %v", err)
	}
	if ratio < 0.05 || ratio > 0.2 {
		t.Errorf("level ratio %v, want about 0.1", ratio)
	}
}
