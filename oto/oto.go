// Package oto wraps the ebitengine/oto/v3 drivers as a strata.AudioContext,
// pulling stereo float32 audio from a strata.AudioSource and feeding it to
// the platform audio device.
package oto

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/strata-audio/strata"
)

type (
	// Context implements strata.AudioContext. There should be at most one
	// per process.
	Context struct {
		context    *oto.Context
		sampleRate int
	}

	playback struct {
		player *oto.Player
		reader *sourceReader
	}

	// sourceReader adapts an AudioSource to the io.Reader the oto player
	// consumes: interleaved stereo float32, little endian.
	sourceReader struct {
		source strata.AudioSource
		frames strata.AudioBuffer
		dry    bool
	}
)

const frameBytes = 8 // 2 channels x float32

// NewContext initializes the audio drivers at the given sample rate.
func NewContext(sampleRate int) (*Context, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &Context{context: ctx, sampleRate: sampleRate}, nil
}

func (c *Context) Close() error { return nil } // oto contexts cannot be closed

// Play starts playing from the source until it runs dry or the returned
// CloserWaiter is closed.
func (c *Context) Play(source strata.AudioSource) strata.CloserWaiter {
	r := &sourceReader{source: source}
	p := c.context.NewPlayer(r)
	p.Play()
	return &playback{player: p, reader: r}
}

func (p *playback) Close() error {
	if err := p.player.Close(); err != nil {
		return fmt.Errorf("cannot close player: %w", err)
	}
	return nil
}

// Wait blocks until the source has run dry and the device buffer has
// drained.
func (p *playback) Wait() {
	for !p.reader.dry || (p.player.IsPlaying() && p.player.BufferedSize() > 0) {
		time.Sleep(10 * time.Millisecond)
	}
}

func (r *sourceReader) Read(p []byte) (int, error) {
	if r.dry {
		return 0, io.EOF
	}
	frames := len(p) / frameBytes
	if frames == 0 {
		return 0, nil
	}
	if cap(r.frames) < frames {
		r.frames = make(strata.AudioBuffer, frames)
	}
	buf := r.frames[:frames]
	n, err := r.source.ReadAudio(buf)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(p[i*frameBytes:], math.Float32bits(buf[i][0]))
		binary.LittleEndian.PutUint32(p[i*frameBytes+4:], math.Float32bits(buf[i][1]))
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return n * frameBytes, err
	}
	if n < frames || errors.Is(err, io.EOF) {
		r.dry = true
		if n == 0 {
			return 0, io.EOF
		}
	}
	return n * frameBytes, nil
}
