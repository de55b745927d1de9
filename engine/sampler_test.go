package engine

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/strata-audio/strata"
)

func rampSample(t *testing.T, frames int) *strata.Sample {
	t.Helper()
	data := make([]float32, frames)
	for i := range data {
		data[i] = float32(i) / float32(frames)
	}
	s, err := strata.NewSample("ramp", testRate, [][]float32{data})
	if err != nil {
		t.Fatalf("NewSample: %v", err)
	}
	return s
}

func TestNoteTableRootIsUnchanged(t *testing.T) {
	src := rampSample(t, 1000)
	tab := buildNoteTable(src, testRate)
	root := tab.notes[tableRoot]
	if len(root) < 999 || len(root) > 1001 {
		t.Fatalf("root table length %d, want about 1000", len(root))
	}
	for i := 0; i < 990; i++ {
		want := float32(i) / 1000
		if diff := root[i][0] - want; diff > 1e-3 || diff < -1e-3 {
			t.Fatalf("root table sample %d = %v, want %v", i, root[i][0], want)
		}
		if root[i][0] != root[i][1] {
			t.Fatal("mono source should fill both channels")
		}
	}
}

// One octave up halves the table; one down doubles it.
func TestNoteTableOctaveRatios(t *testing.T) {
	src := rampSample(t, 1000)
	tab := buildNoteTable(src, testRate)
	up := len(tab.notes[tableRoot+12])
	down := len(tab.notes[tableRoot-12])
	if up < 498 || up > 502 {
		t.Errorf("octave up length %d, want about 500", up)
	}
	if down < 1998 || down > 2002 {
		t.Errorf("octave down length %d, want about 2000", down)
	}
}

func TestSamplerEndsWithoutLoop(t *testing.T) {
	p := &strata.GenParams{Kind: strata.GenSampler, StartPos: 0, EndPos: 1}
	buf := make(strata.AudioBuffer, 100)
	for i := range buf {
		buf[i] = [2]float32{1, 1}
	}
	var s sampler
	s.noteOn(p, len(buf))
	for i := 0; i < 100; i++ {
		s.nextDirect(p, buf, 1)
	}
	if l, r := s.nextDirect(p, buf, 1); l != 0 || r != 0 {
		t.Errorf("past the end without loop: got %v,%v, want silence", l, r)
	}
	if !s.done {
		t.Error("sampler should be done")
	}
}

func TestSamplerLoopsInsideRegion(t *testing.T) {
	p := &strata.GenParams{Kind: strata.GenSampler, StartPos: 0.25, EndPos: 0.75, Loop: true}
	buf := make(strata.AudioBuffer, 400)
	for i := range buf {
		buf[i] = [2]float32{float32(i), float32(i)}
	}
	var s sampler
	s.noteOn(p, len(buf))
	for i := 0; i < 1000; i++ {
		l, _ := s.nextDirect(p, buf, 1)
		if l != 0 && (l < 99 || l > 300) {
			t.Fatalf("read %v outside the 100..300 loop region at step %d", l, i)
		}
	}
	if s.done {
		t.Error("looping sampler should never finish")
	}
}

func TestSamplerSilentOnMissingBuffer(t *testing.T) {
	p := &strata.GenParams{Kind: strata.GenSampler}
	var s sampler
	s.noteOn(p, 0)
	if l, r := s.nextDirect(p, nil, 1); l != 0 || r != 0 {
		t.Errorf("missing buffer produced %v,%v", l, r)
	}
	if l, r := s.nextGrain(p, nil, 1); l != 0 || r != 0 {
		t.Errorf("missing buffer produced grains %v,%v", l, r)
	}
}

// With a crossfade the grain stream of a constant signal must stay close
// to constant: fade-out of one grain overlaps fade-in of the next.
func TestGrainCrossfadeContinuity(t *testing.T) {
	p := &strata.GenParams{
		Kind:           strata.GenGranulizer,
		StartPos:       0,
		EndPos:         1,
		Loop:           true,
		GrainHold:      200,
		GrainGap:       0,
		GrainCrossfade: 50,
	}
	buf := make(strata.AudioBuffer, 4096)
	for i := range buf {
		buf[i] = [2]float32{1, 1}
	}
	var s sampler
	s.noteOn(p, len(buf))
	// skip the initial fade-in
	for i := 0; i < 60; i++ {
		s.nextGrain(p, buf, 1)
	}
	for i := 0; i < 2000; i++ {
		l, _ := s.nextGrain(p, buf, 1)
		if l < 0.95 || l > 1.05 {
			t.Fatalf("level %v at step %d, want continuous ~1", l, i)
		}
	}
}

func TestGrainGapGoesSilent(t *testing.T) {
	p := &strata.GenParams{
		Kind:           strata.GenGranulizer,
		StartPos:       0,
		EndPos:         1,
		Loop:           true,
		GrainHold:      100,
		GrainGap:       100,
		GrainCrossfade: 0,
	}
	buf := make(strata.AudioBuffer, 4096)
	for i := range buf {
		buf[i] = [2]float32{1, 1}
	}
	var s sampler
	s.noteOn(p, len(buf))
	sawSilence, sawSound := false, false
	for i := 0; i < 1000; i++ {
		l, _ := s.nextGrain(p, buf, 1)
		if l == 0 {
			sawSilence = true
		}
		if l > 0.9 {
			sawSound = true
		}
	}
	if !sawSilence || !sawSound {
		t.Errorf("gapped grains: sound %v silence %v, want both", sawSound, sawSilence)
	}
}

func TestSingleCycleReadsWholeBufferPerCycle(t *testing.T) {
	buf := make(strata.AudioBuffer, 256)
	for i := range buf {
		v := math32.Sin(2 * math32.Pi * float32(i) / 256)
		buf[i] = [2]float32{v, v}
	}
	for _, phase := range []float32{0, 0.25, 0.5, 0.75} {
		l, _ := nextCycle(buf, phase)
		want := math32.Sin(2 * math32.Pi * phase)
		if diff := l - want; diff > 0.05 || diff < -0.05 {
			t.Errorf("phase %v: got %v, want %v", phase, l, want)
		}
	}
}
