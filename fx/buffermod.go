package fx

import (
	"github.com/chewxy/math32"
	"github.com/strata-audio/strata"
)

// bufferMod continuously records into a short buffer and replays it from a
// position swept by an internal LFO, giving a pitch-warbling smear of the
// recent past. Spread offsets the right channel's sweep phase.
type bufferMod struct {
	buf   [2][]float32
	write int
	phase float32
}

func (b *bufferMod) init(sampleRate float32) {
	n := int(sampleRate) // Length tops out at one second
	b.buf[0] = make([]float32, n)
	b.buf[1] = make([]float32, n)
}

func (b *bufferMod) process(buf strata.AudioBuffer, p *strata.FXParams, sampleRate float32) {
	length := int(p.BufferMod.Length)
	if length < 2 {
		length = 2
	}
	if length > len(b.buf[0]) {
		length = len(b.buf[0])
	}
	inc := p.BufferMod.Rate / sampleRate
	depth := p.BufferMod.Depth * float32(length-1) * 0.5
	mix := p.BufferMod.Amount
	for i := range buf {
		if b.write >= length {
			b.write = 0
		}
		b.buf[0][b.write] = buf[i][0]
		b.buf[1][b.write] = buf[i][1]
		for ch := 0; ch < 2; ch++ {
			ph := b.phase
			if ch == 1 {
				ph += p.BufferMod.Spread * 0.5
			}
			offset := depth * (1 + math32.Sin(2*math32.Pi*ph)) * 0.5
			pos := float32(b.write) - offset
			if pos < 0 {
				pos += float32(length)
			}
			wet := readLerp(b.buf[ch], pos, length)
			buf[i][ch] = buf[i][ch]*(1-mix) + wet*mix
		}
		b.write++
		b.phase += inc
		if b.phase >= 1 {
			b.phase -= 1
		}
	}
}

// readLerp reads a fractional position from a ring of the given length.
func readLerp(buf []float32, pos float32, length int) float32 {
	i := int(pos)
	frac := pos - float32(i)
	if i >= length {
		i -= length
	}
	j := i + 1
	if j >= length {
		j = 0
	}
	return buf[i] + (buf[j]-buf[i])*frac
}
