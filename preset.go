package strata

import (
	"encoding/binary"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// PresetVersion is the schema version this build writes. Loading rejects
// anything newer; older versions are upgraded field-by-field on unmarshal
// (missing fields keep their zero value and are backfilled from defaults).
const PresetVersion = 2

type (
	// Preset is a self-describing snapshot of all parameter values,
	// optionally with embedded sample data for the sampler slots. A loaded
	// preset is immutable as far as the running engine is concerned; loading
	// replaces the engine's parameter snapshot atomically.
	Preset struct {
		Version int
		Name    string `yaml:",omitempty"`
		Params  Params
		Samples [NumGenerators]*PresetSample `yaml:",omitempty"`
	}

	// PresetSample is an embedded PCM buffer: channels stored back to back,
	// float32 little-endian, base64 in the yaml document.
	PresetSample struct {
		Name       string `yaml:",omitempty"`
		SampleRate float32 `yaml:"samplerate"`
		Channels   int
		Data       []byte
	}
)

// NewPreset wraps a validated parameter snapshot into a saveable preset.
func NewPreset(name string, params Params) Preset {
	return Preset{Version: PresetVersion, Name: name, Params: params.Copy()}
}

// Bytes serializes the preset as yaml.
func (p *Preset) Bytes() ([]byte, error) {
	b, err := yaml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshaling preset: %w", err)
	}
	return b, nil
}

// ParsePreset parses and validates a yaml preset. A failed parse or an
// unsupported version leaves the caller's state untouched; callers keep
// their prior snapshot on error.
func ParsePreset(data []byte) (Preset, error) {
	var p Preset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Preset{}, fmt.Errorf("parsing preset: %w", err)
	}
	if p.Version > PresetVersion {
		return Preset{}, fmt.Errorf("%w: %d (this build reads up to %d)", ErrPresetVersion, p.Version, PresetVersion)
	}
	if p.Params.FX.Order == nil {
		p.Params.FX.Order = DefaultEffectOrder()
	}
	if p.Params.Polyphony == 0 { // pre-v2 presets had no polyphony field
		p.Params.Polyphony = DefaultParams().Polyphony
	}
	if p.Params.BPM == 0 {
		p.Params.BPM = DefaultParams().BPM
	}
	if err := p.Params.Validate(); err != nil {
		return Preset{}, fmt.Errorf("preset %q: %w", p.Name, err)
	}
	for i, s := range p.Samples {
		if s == nil {
			continue
		}
		if s.Channels < 1 || s.Channels > 2 || len(s.Data)%(4*s.Channels) != 0 {
			return Preset{}, fmt.Errorf("preset %q sample %d: %w", p.Name, i+1, ErrSampleFormat)
		}
	}
	return p, nil
}

// EmbedSample encodes a sample buffer for embedding into a preset.
func EmbedSample(s *Sample) *PresetSample {
	data := make([]byte, 0, 4*len(s.Data)*s.Len())
	var scratch [4]byte
	for _, channel := range s.Data {
		for _, v := range channel {
			binary.LittleEndian.PutUint32(scratch[:], math.Float32bits(v))
			data = append(data, scratch[:]...)
		}
	}
	return &PresetSample{Name: s.Name, SampleRate: s.SampleRate, Channels: len(s.Data), Data: data}
}

// Decode converts the embedded bytes back into a shared read-only Sample.
func (ps *PresetSample) Decode() (*Sample, error) {
	if ps.Channels < 1 || len(ps.Data)%(4*ps.Channels) != 0 {
		return nil, ErrSampleFormat
	}
	frames := len(ps.Data) / 4 / ps.Channels
	data := make([][]float32, ps.Channels)
	pos := 0
	for c := range data {
		channel := make([]float32, frames)
		for i := range channel {
			channel[i] = math.Float32frombits(binary.LittleEndian.Uint32(ps.Data[pos:]))
			pos += 4
		}
		data[c] = channel
	}
	return NewSample(ps.Name, ps.SampleRate, data)
}
