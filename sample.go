package strata

// Sample is a decoded PCM sample buffer, mono or stereo. Samples are
// immutable once constructed: the engine and any number of voices share one
// Sample without copying, so nothing may write to the channel data after
// NewSample returns. Decoding and resampling always happen off the audio
// thread; the audio thread only ever dereferences fully built Samples.
type Sample struct {
	Name       string
	SampleRate float32
	Data       [][]float32 // 1 or 2 channels of equal length
}

// NewSample validates the channel data and wraps it into a Sample. The data
// is not copied; the caller gives up ownership.
func NewSample(name string, sampleRate float32, data [][]float32) (*Sample, error) {
	if len(data) == 0 || len(data[0]) == 0 {
		return nil, ErrSampleFormat
	}
	for _, c := range data[1:] {
		if len(c) != len(data[0]) {
			return nil, ErrSampleFormat
		}
	}
	if sampleRate <= 0 {
		return nil, ErrSampleFormat
	}
	return &Sample{Name: name, SampleRate: sampleRate, Data: data}, nil
}

// Len returns the length of the sample in frames.
func (s *Sample) Len() int { return len(s.Data[0]) }

// Channel returns channel c, clamping to the last available channel so a
// mono sample answers for both stereo channels.
func (s *Sample) Channel(c int) []float32 {
	if c >= len(s.Data) {
		c = len(s.Data) - 1
	}
	return s.Data[c]
}

// Resampled returns the sample converted to the given rate with linear
// interpolation, or the sample itself when the rates already match. Never
// called on the audio thread.
func (s *Sample) Resampled(sampleRate float32) *Sample {
	if s.SampleRate == sampleRate {
		return s
	}
	ratio := s.SampleRate / sampleRate
	outLen := int(float32(s.Len()) / ratio)
	if outLen < 1 {
		outLen = 1
	}
	data := make([][]float32, len(s.Data))
	for c, src := range s.Data {
		dst := make([]float32, outLen)
		for i := range dst {
			pos := float32(i) * ratio
			j := int(pos)
			frac := pos - float32(j)
			if j+1 < len(src) {
				dst[i] = src[j]*(1-frac) + src[j+1]*frac
			} else if j < len(src) {
				dst[i] = src[j]
			}
		}
		data[c] = dst
	}
	return &Sample{Name: s.Name, SampleRate: sampleRate, Data: data}
}
