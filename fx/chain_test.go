package fx_test

import (
	"math"
	"testing"

	"github.com/strata-audio/strata"
	"github.com/strata-audio/strata/fx"
)

const sampleRate = 44100

func sineBuffer(frames int, freq, amp float32) strata.AudioBuffer {
	buf := make(strata.AudioBuffer, frames)
	for i := range buf {
		v := amp * float32(math.Sin(2*math.Pi*float64(freq)*float64(i)/sampleRate))
		buf[i] = [2]float32{v, v}
	}
	return buf
}

func checkFinite(t *testing.T, buf strata.AudioBuffer, context string) {
	t.Helper()
	for i := range buf {
		for ch := 0; ch < 2; ch++ {
			v := float64(buf[i][ch])
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("%s: non-finite sample at frame %d", context, i)
			}
		}
	}
}

func TestChainDisabledIsTransparent(t *testing.T) {
	chain := fx.NewChain(sampleRate)
	params := strata.DefaultParams()
	buf := sineBuffer(4096, 440, 0.5)
	want := sineBuffer(4096, 440, 0.5)
	chain.Process(buf, &params.FX, 120)
	for i := range buf {
		if buf[i] != want[i] {
			t.Fatalf("all-disabled chain altered frame %d: %v != %v", i, buf[i], want[i])
		}
	}
}

// Enabling each unit on its own must process without blowing up.
func TestEachUnitFinite(t *testing.T) {
	enable := map[strata.EffectKind]func(p *strata.FXParams){
		strata.EffectSaturation: func(p *strata.FXParams) { p.Saturation.Enabled = true; p.Saturation.Amount = 0.8 },
		strata.EffectABass:      func(p *strata.FXParams) { p.ABass.Enabled = true; p.ABass.Amount = 0.8 },
		strata.EffectBufferMod:  func(p *strata.FXParams) { p.BufferMod.Enabled = true; p.BufferMod.Depth = 0.8; p.BufferMod.Amount = 0.8 },
		strata.EffectChorus:     func(p *strata.FXParams) { p.Chorus.Enabled = true; p.Chorus.Amount = 1 },
		strata.EffectPhaser:     func(p *strata.FXParams) { p.Phaser.Enabled = true; p.Phaser.Amount = 1 },
		strata.EffectFlanger:    func(p *strata.FXParams) { p.Flanger.Enabled = true; p.Flanger.Amount = 1; p.Flanger.Feedback = 0.9 },
		strata.EffectDelay:      func(p *strata.FXParams) { p.Delay.Enabled = true; p.Delay.Amount = 1; p.Delay.Feedback = 0.9 },
		strata.EffectReverb:     func(p *strata.FXParams) { p.Reverb.Enabled = true; p.Reverb.Wet = 1; p.Reverb.Feedback = 1; p.Reverb.Size = 1 },
		strata.EffectCompressor: func(p *strata.FXParams) { p.Compressor.Enabled = true; p.Compressor.Amount = 1 },
		strata.EffectLimiter:    func(p *strata.FXParams) { p.Limiter.Enabled = true; p.Limiter.Threshold = 0.5 },
		strata.EffectWidth:      func(p *strata.FXParams) { p.Width.Enabled = true; p.Width.Amount = 2 },
	}
	for kind, fn := range enable {
		params := strata.DefaultParams()
		fn(&params.FX)
		chain := fx.NewChain(sampleRate)
		buf := sineBuffer(sampleRate, 440, 0.7)
		chain.Process(buf, &params.FX, 120)
		checkFinite(t, buf, "unit")
		_ = kind
	}
}

func TestLimiterCapsPeaks(t *testing.T) {
	chain := fx.NewChain(sampleRate)
	params := strata.DefaultParams()
	params.FX.Limiter.Enabled = true
	params.FX.Limiter.Threshold = 0.5
	params.FX.Limiter.Knee = 0
	buf := sineBuffer(sampleRate/2, 100, 1)
	chain.Process(buf, &params.FX, 120)
	for i := range buf {
		if v := float32(math.Abs(float64(buf[i][0]))); v > 0.51 {
			t.Fatalf("peak %v above threshold at frame %d", v, i)
		}
	}
}

func TestWidthZeroCollapsesToMono(t *testing.T) {
	chain := fx.NewChain(sampleRate)
	params := strata.DefaultParams()
	params.FX.Width.Enabled = true
	params.FX.Width.Amount = 0
	buf := make(strata.AudioBuffer, 512)
	for i := range buf {
		buf[i] = [2]float32{0.5, -0.25}
	}
	chain.Process(buf, &params.FX, 120)
	for i := range buf {
		if buf[i][0] != buf[i][1] {
			t.Fatalf("frame %d not mono: %v", i, buf[i])
		}
	}
}

func TestDelayEchoArrivesOnTime(t *testing.T) {
	chain := fx.NewChain(sampleRate)
	params := strata.DefaultParams()
	params.FX.Delay.Enabled = true
	params.FX.Delay.Beats = 1
	params.FX.Delay.Amount = 1
	params.FX.Delay.Feedback = 0
	buf := make(strata.AudioBuffer, sampleRate)
	buf[0] = [2]float32{1, 1} // impulse
	chain.Process(buf, &params.FX, 120)
	// one beat at 120 BPM is half a second
	echoAt := sampleRate / 2
	if v := buf[echoAt][0]; v < 0.1 {
		t.Errorf("no echo at frame %d: %v", echoAt, v)
	}
	for i := sampleRate / 4; i < echoAt-10; i++ {
		if buf[i][0] != 0 {
			t.Fatalf("unexpected signal at frame %d before the echo", i)
		}
	}
}

func TestSaturationBoundsOutput(t *testing.T) {
	kinds := []strata.SatKind{strata.SatTape, strata.SatClip, strata.SatSinPow, strata.SatSubtle, strata.SatSine}
	for _, kind := range kinds {
		chain := fx.NewChain(sampleRate)
		params := strata.DefaultParams()
		params.FX.Saturation.Enabled = true
		params.FX.Saturation.Kind = kind
		params.FX.Saturation.Amount = 1
		buf := sineBuffer(4096, 440, 1)
		chain.Process(buf, &params.FX, 120)
		checkFinite(t, buf, "saturation")
		for i := range buf {
			if v := math.Abs(float64(buf[i][0])); v > 1.6 {
				t.Fatalf("kind %v: sample %v beyond bound at frame %d", kind, v, i)
			}
		}
	}
}

func TestReorderingChangesResult(t *testing.T) {
	params := strata.DefaultParams()
	params.FX.Saturation.Enabled = true
	params.FX.Saturation.Amount = 1
	params.FX.Width.Enabled = true
	params.FX.Width.Amount = 0 // mono collapse

	process := func(order []strata.EffectKind) strata.AudioBuffer {
		chain := fx.NewChain(sampleRate)
		p := params.Copy()
		copy(p.FX.Order, order)
		buf := make(strata.AudioBuffer, 1024)
		for i := range buf {
			buf[i] = [2]float32{0.9, 0.1}
		}
		chain.Process(buf, &p.FX, 120)
		return buf
	}

	forward := process(strata.DefaultEffectOrder())
	reversed := strata.DefaultEffectOrder()
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}
	backward := process(reversed)

	same := true
	for i := range forward {
		if forward[i] != backward[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("reordering saturation and width produced identical output")
	}
}
