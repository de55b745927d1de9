package engine

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/strata-audio/strata"
)

var analogKinds = []strata.GenKind{
	strata.GenSine, strata.GenTri, strata.GenSaw, strata.GenRSaw,
	strata.GenInSaw, strata.GenRamp, strata.GenSquare, strata.GenRSquare,
	strata.GenPulse, strata.GenWSaw, strata.GenSSaw, strata.GenRASaw,
	strata.GenNoise,
}

// Every waveform stays bounded and finite across the shape range.
func TestOscillatorBounded(t *testing.T) {
	for _, kind := range analogKinds {
		for _, shape := range []float32{0, 0.25, 0.5, 0.75, 1} {
			var o oscillator
			o.rnd = 1
			o.setFrequency(440, testRate)
			for i := 0; i < 4096; i++ {
				v := o.next(kind, shape, 0)
				if v != v || v > 2.5 || v < -2.5 {
					t.Fatalf("kind %v shape %v: sample %v at %d", kind, shape, v, i)
				}
			}
		}
	}
}

// A full cycle of the basic shapes should average out near zero.
func TestOscillatorZeroMean(t *testing.T) {
	for _, kind := range []strata.GenKind{strata.GenSine, strata.GenTri, strata.GenSaw, strata.GenRamp} {
		var o oscillator
		o.setFrequency(100, testRate)
		var sum float32
		n := int(testRate / 100 * 10) // ten cycles
		for i := 0; i < n; i++ {
			sum += o.next(kind, 0, 0)
		}
		if mean := sum / float32(n); mean > 0.05 || mean < -0.05 {
			t.Errorf("kind %v: mean %v over ten cycles", kind, mean)
		}
	}
}

func TestOscillatorFrequency(t *testing.T) {
	var o oscillator
	o.setFrequency(441, testRate)
	// count zero crossings of a sine over one second
	last := o.next(strata.GenSine, 0, 0)
	crossings := 0
	for i := 1; i < testRate; i++ {
		v := o.next(strata.GenSine, 0, 0)
		if last < 0 && v >= 0 {
			crossings++
		}
		last = v
	}
	if crossings < 439 || crossings > 443 {
		t.Errorf("%d positive zero crossings, want about 441", crossings)
	}
}

func TestPulseDutyFollowsShape(t *testing.T) {
	mean := func(shape float32) float32 {
		var o oscillator
		o.setFrequency(100, testRate)
		var sum float32
		n := testRate / 100 * 10
		for i := 0; i < n; i++ {
			sum += o.next(strata.GenPulse, shape, 0)
		}
		return sum / float32(n)
	}
	// shape 0 is the widest pulse; narrowing the duty pushes the mean down
	if wide, narrow := mean(0), mean(1); wide <= narrow {
		t.Errorf("duty did not narrow with shape: mean %v -> %v", wide, narrow)
	}
}

func TestPolyBLEPContinuity(t *testing.T) {
	dt := float32(0.01)
	// the correction must vanish away from the discontinuity
	if v := polyBLEP(0.5, dt); v != 0 {
		t.Errorf("polyBLEP mid-cycle = %v, want 0", v)
	}
	// and approach -1/+1 at the wrap so the step is exactly cancelled
	if v := polyBLEP(0, dt); v != -1 {
		t.Errorf("polyBLEP at 0 = %v, want -1", v)
	}
	if v := polyBLEP(0.9999, dt); v < 0.95 || v > 1 {
		t.Errorf("polyBLEP just before wrap = %v, want near 1", v)
	}
}

// Band-limited saw must carry dramatically less energy above Nyquist/2
// than the naive ramp at high fundamental frequencies.
func TestSawBandLimited(t *testing.T) {
	var o oscillator
	o.setFrequency(5000, testRate)
	// measure the sample-to-sample jumps; the naive saw would jump by
	// nearly 2 at every wrap
	var maxJump float32
	last := o.next(strata.GenSaw, 0, 0)
	for i := 1; i < 4096; i++ {
		v := o.next(strata.GenSaw, 0, 0)
		if j := math32.Abs(v - last); j > maxJump {
			maxJump = j
		}
		last = v
	}
	if maxJump > 1.4 {
		t.Errorf("largest step %v, polyBLEP should smooth the wrap", maxJump)
	}
}

func TestNoiseIsReproduciblePerSeed(t *testing.T) {
	run := func(seed uint32) [64]float32 {
		var o oscillator
		p := &strata.GenParams{Retrigger: strata.RetriggerReset}
		o.noteOn(p, seed)
		o.setFrequency(440, testRate)
		var out [64]float32
		for i := range out {
			out[i] = o.next(strata.GenNoise, 0, 0)
		}
		return out
	}
	if run(12345) != run(12345) {
		t.Error("same seed produced different noise")
	}
	if run(12345) == run(54321) {
		t.Error("different seeds produced identical noise")
	}
}

func TestAdditiveRespectsNyquist(t *testing.T) {
	p := &strata.GenParams{}
	for i := range p.Partials {
		p.Partials[i] = 1
	}
	// at 10 kHz only the first two partials fit under Nyquist; the sum
	// must stay bounded by the number of audible partials
	var peak float32
	for i := 0; i < 1000; i++ {
		phase := float32(i) / 1000
		v := additiveSample(p, phase, 10000, testRate)
		if a := math32.Abs(v); a > peak {
			peak = a
		}
	}
	if peak > 2.01 {
		t.Errorf("peak %v implies partials above Nyquist were summed", peak)
	}
	if peak < 0.5 {
		t.Error("no audible partials at all")
	}
}

func TestAdditivePartialAmplitudes(t *testing.T) {
	p := &strata.GenParams{}
	p.Partials[0] = 1
	// a single partial is a pure sine of the fundamental
	for i := 0; i < 100; i++ {
		phase := float32(i) / 100
		want := math32.Sin(2 * math32.Pi * phase)
		got := additiveSample(p, phase, 440, testRate)
		if diff := got - want; diff > 1e-4 || diff < -1e-4 {
			t.Fatalf("phase %v: got %v, want %v", phase, got, want)
		}
	}
}
