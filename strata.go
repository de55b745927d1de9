// Package strata contains the domain types of the strata synthesizer: the
// parameter surface, presets, note events and sample buffers consumed by the
// realtime engine, plus small audio plumbing interfaces shared by the
// non-realtime collaborators (players, exporters).
package strata

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

type (
	// AudioBuffer is a buffer of stereo audio samples of variable length,
	// each sample represented by [2]float32. [0] is left channel, [1] is
	// right.
	AudioBuffer [][2]float32

	// AudioSource is an entity that can fill an AudioBuffer with audio. It
	// returns the number of frames written; n < len(buf) together with a nil
	// error means the source ran dry.
	AudioSource interface {
		ReadAudio(buf AudioBuffer) (n int, err error)
	}

	// AudioContext represents the low-level audio drivers. There should be at
	// most one AudioContext at a time. The interface is implemented by the
	// oto package.
	AudioContext interface {
		// Play starts playing the given AudioSource and keeps playing until
		// the source runs dry or the returned CloserWaiter is closed.
		Play(source AudioSource) CloserWaiter
		Close() error
	}

	// CloserWaiter allows waiting until playback is finished, or ending it
	// early with Close.
	CloserWaiter interface {
		io.Closer
		Wait()
	}
)

// Fill fills the buffer with zero samples.
func (buffer AudioBuffer) Fill() {
	for i := range buffer {
		buffer[i] = [2]float32{}
	}
}

// Source returns an AudioSource that reads from the buffer.
func (buffer AudioBuffer) Source() AudioSource {
	b := buffer
	return &bufferSource{buffer: b}
}

type bufferSource struct {
	buffer AudioBuffer
	pos    int
}

func (s *bufferSource) ReadAudio(buf AudioBuffer) (int, error) {
	n := copy(buf, s.buffer[s.pos:])
	s.pos += n
	return n, nil
}

// Wav converts an AudioBuffer into a valid WAV-file. If pcm16 = true, then
// the samples in the WAV-file will be 16-bit signed integers; otherwise the
// samples will be 32-bit floats.
func (buffer AudioBuffer) Wav(sampleRate int, pcm16 bool) ([]byte, error) {
	buf := new(bytes.Buffer)
	wavHeader(len(buffer)*2, sampleRate, pcm16, buf)
	err := buffer.rawToBuffer(pcm16, buf)
	if err != nil {
		return nil, fmt.Errorf("Wav failed: %v", err)
	}
	return buf.Bytes(), nil
}

// Raw converts an AudioBuffer into a raw audio file, themselves either
// 16-bit signed integers or 32-bit floats, little endian.
func (buffer AudioBuffer) Raw(pcm16 bool) ([]byte, error) {
	buf := new(bytes.Buffer)
	err := buffer.rawToBuffer(pcm16, buf)
	if err != nil {
		return nil, fmt.Errorf("Raw failed: %v", err)
	}
	return buf.Bytes(), nil
}

func (buffer AudioBuffer) rawToBuffer(pcm16 bool, buf *bytes.Buffer) error {
	var err error
	if pcm16 {
		int16data := make([][2]int16, len(buffer))
		for i, v := range buffer {
			int16data[i][0] = int16(clamp(int(v[0]*math.MaxInt16), math.MinInt16, math.MaxInt16))
			int16data[i][1] = int16(clamp(int(v[1]*math.MaxInt16), math.MinInt16, math.MaxInt16))
		}
		err = binary.Write(buf, binary.LittleEndian, int16data)
	} else {
		err = binary.Write(buf, binary.LittleEndian, buffer)
	}
	if err != nil {
		return fmt.Errorf("could not binary write data to binary buffer: %v", err)
	}
	return nil
}

// wavHeader writes a wave header for either float32 or int16 .wav file into
// the bytes.Buffer. It needs to know the length of the buffer in individual
// (mono) samples and assumes stereo sound.
func wavHeader(bufferLength, sampleRate int, pcm16 bool, buf *bytes.Buffer) {
	// Refer to: http://www-mmsp.ece.mcgill.ca/Documents/AudioFormats/WAVE/WAVE.html
	numChannels := 2
	var bytesPerSample, chunkSize, fmtChunkSize, waveFormat int
	var factChunk bool
	if pcm16 {
		bytesPerSample = 2
		chunkSize = 36 + bytesPerSample*bufferLength
		fmtChunkSize = 16
		waveFormat = 1 // PCM
		factChunk = false
	} else {
		bytesPerSample = 4
		chunkSize = 50 + bytesPerSample*bufferLength
		fmtChunkSize = 18
		waveFormat = 3 // IEEE float
		factChunk = true
	}
	buf.Write([]byte("RIFF"))
	binary.Write(buf, binary.LittleEndian, uint32(chunkSize))
	buf.Write([]byte("WAVE"))
	buf.Write([]byte("fmt "))
	binary.Write(buf, binary.LittleEndian, uint32(fmtChunkSize))
	binary.Write(buf, binary.LittleEndian, uint16(waveFormat))
	binary.Write(buf, binary.LittleEndian, uint16(numChannels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*numChannels*bytesPerSample)) // avgBytesPerSec
	binary.Write(buf, binary.LittleEndian, uint16(numChannels*bytesPerSample))            // blockAlign
	binary.Write(buf, binary.LittleEndian, uint16(8*bytesPerSample))                      // bits per sample
	if fmtChunkSize > 16 {
		binary.Write(buf, binary.LittleEndian, uint16(0)) // size of extension
	}
	if factChunk {
		buf.Write([]byte("fact"))
		binary.Write(buf, binary.LittleEndian, uint32(4))            // fact chunk size
		binary.Write(buf, binary.LittleEndian, uint32(bufferLength)) // sample length
	}
	buf.Write([]byte("data"))
	binary.Write(buf, binary.LittleEndian, uint32(bytesPerSample*bufferLength))
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// The error taxonomy of the non-realtime surfaces. The realtime path never
// returns these; per-voice failures silence the voice instead.
var (
	// ErrUnknownParam is returned when setting or getting a parameter by a
	// name that is not part of the parameter surface.
	ErrUnknownParam = errors.New("unknown parameter")

	// ErrPresetVersion is returned when loading a preset whose schema version
	// is newer than this build understands.
	ErrPresetVersion = errors.New("unsupported preset version")

	// ErrSampleFormat is returned when a sample buffer has no channels or
	// channels of unequal length.
	ErrSampleFormat = errors.New("malformed sample data")
)
