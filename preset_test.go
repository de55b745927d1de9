package strata_test

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/strata-audio/strata"
)

func TestPresetRoundTrip(t *testing.T) {
	params := strata.DefaultParams()
	params.Gen[0].Kind = strata.GenSaw
	params.Gen[0].Unison = 5
	params.Gen[0].UnisonDet = 0.3
	params.Gen[1].Kind = strata.GenAdditive
	params.Gen[1].Partials = [strata.NumPartials]float32{1, 0.5, 0.25}
	params.Filter[0].Enabled = true
	params.Filter[0].Cutoff = 1234
	params.Filter[0].Resonance = strata.ResMoog
	params.Routing = strata.RoutingSeries12
	params.Mod[0] = strata.ModRouteParams{Source: strata.SourceLFO1, Target: strata.TargetCutoff1, Amount: 0.5}
	params.FM.OneToTwo = 1.5
	params.FX.Delay.Enabled = true
	params.FX.Order[0], params.FX.Order[1] = params.FX.Order[1], params.FX.Order[0]

	preset := strata.NewPreset("roundtrip", params)
	data, err := preset.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	got, err := strata.ParsePreset(data)
	if err != nil {
		t.Fatalf("ParsePreset: %v", err)
	}
	if got.Name != "roundtrip" || got.Version != strata.PresetVersion {
		t.Errorf("header mismatch: %q v%d", got.Name, got.Version)
	}
	if !reflect.DeepEqual(got.Params, params) {
		t.Errorf("parameters changed on round trip:\ngot  %+v\nwant %+v", got.Params, params)
	}
}

func TestPresetVersionRejected(t *testing.T) {
	preset := strata.NewPreset("future", strata.DefaultParams())
	preset.Version = strata.PresetVersion + 1
	data, err := preset.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if _, err := strata.ParsePreset(data); !errors.Is(err, strata.ErrPresetVersion) {
		t.Errorf("got %v, want ErrPresetVersion", err)
	}
}

func TestPresetRejectsInvalidParams(t *testing.T) {
	preset := strata.NewPreset("broken", strata.DefaultParams())
	preset.Params.MasterGain = 99
	data, err := preset.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if _, err := strata.ParsePreset(data); !errors.Is(err, strata.ErrParamRange) {
		t.Errorf("got %v, want ErrParamRange", err)
	}
}

func TestEmbeddedSampleRoundTrip(t *testing.T) {
	left := []float32{0, 0.5, -0.5, 1, -1, 0.25}
	right := []float32{0.1, -0.1, 0.2, -0.2, 0.3, -0.3}
	sample, err := strata.NewSample("click", 22050, [][]float32{left, right})
	if err != nil {
		t.Fatalf("NewSample: %v", err)
	}
	preset := strata.NewPreset("sampled", strata.DefaultParams())
	preset.Samples[1] = strata.EmbedSample(sample)

	data, err := preset.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	got, err := strata.ParsePreset(data)
	if err != nil {
		t.Fatalf("ParsePreset: %v", err)
	}
	if got.Samples[0] != nil || got.Samples[2] != nil {
		t.Error("empty slots should stay empty")
	}
	decoded, err := got.Samples[1].Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Name != "click" || decoded.SampleRate != 22050 {
		t.Errorf("metadata mismatch: %q @ %v Hz", decoded.Name, decoded.SampleRate)
	}
	if !reflect.DeepEqual(decoded.Data, [][]float32{left, right}) {
		t.Errorf("sample data changed on round trip: %v", decoded.Data)
	}
}

func TestPresetRejectsMalformedSample(t *testing.T) {
	preset := strata.NewPreset("torn", strata.DefaultParams())
	preset.Samples[0] = &strata.PresetSample{SampleRate: 44100, Channels: 2, Data: make([]byte, 7)}
	data, err := preset.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if _, err := strata.ParsePreset(data); !errors.Is(err, strata.ErrSampleFormat) {
		t.Errorf("got %v, want ErrSampleFormat", err)
	}
}

func TestSampleValidation(t *testing.T) {
	if _, err := strata.NewSample("empty", 44100, nil); !errors.Is(err, strata.ErrSampleFormat) {
		t.Errorf("no channels: got %v, want ErrSampleFormat", err)
	}
	if _, err := strata.NewSample("ragged", 44100, [][]float32{{1, 2}, {1}}); !errors.Is(err, strata.ErrSampleFormat) {
		t.Errorf("unequal channels: got %v, want ErrSampleFormat", err)
	}
}

func TestSampleResampled(t *testing.T) {
	src := make([]float32, 100)
	for i := range src {
		src[i] = float32(math.Sin(2 * math.Pi * float64(i) / 25))
	}
	sample, err := strata.NewSample("sine", 48000, [][]float32{src})
	if err != nil {
		t.Fatalf("NewSample: %v", err)
	}
	down := sample.Resampled(24000)
	if down.SampleRate != 24000 {
		t.Fatalf("rate %v, want 24000", down.SampleRate)
	}
	if got, want := down.Len(), 50; got < want-1 || got > want+1 {
		t.Errorf("length %d, want about %d", got, want)
	}
}

func TestWavHeader(t *testing.T) {
	buf := make(strata.AudioBuffer, 16)
	wav, err := buf.Wav(44100, true)
	if err != nil {
		t.Fatalf("Wav: %v", err)
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Errorf("bad wav header: % x", wav[:12])
	}
	if want := 44 + 16*2*2; len(wav) != want {
		t.Errorf("wav length %d, want %d", len(wav), want)
	}
}
