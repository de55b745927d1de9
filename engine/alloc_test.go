package engine

import (
	"testing"

	"github.com/strata-audio/strata"
)

// voiceSlot returns the index of the active voice holding note, or -1.
func voiceSlot(e *Engine, note byte) int {
	for i := range e.voices {
		if e.voices[i].active && e.voices[i].note == note {
			return i
		}
	}
	return -1
}

func newFullEngine(t *testing.T, poly int) (*Engine, strata.AudioBuffer) {
	t.Helper()
	p := strata.DefaultParams()
	p.Polyphony = poly
	p.Gen[0].Env.Release = 5 // keep released voices sounding across blocks
	e := New(testRate)
	if err := e.SetParams(p); err != nil {
		t.Fatalf("SetParams: %v", err)
	}
	return e, make(strata.AudioBuffer, 512)
}

// With releasing voices available, a steal reuses the oldest of them even
// when an older held voice exists.
func TestStealPrefersOldestReleasingVoice(t *testing.T) {
	e, buf := newFullEngine(t, 3)
	e.Render(buf, []strata.Event{
		strata.NoteOnEvent(0, 60, 1),
		strata.NoteOnEvent(0, 62, 1),
		strata.NoteOnEvent(0, 64, 1),
	})
	e.Render(buf, []strata.Event{
		strata.NoteOffEvent(0, 64),
		strata.NoteOffEvent(0, 62),
	})
	want := voiceSlot(e, 62)
	if want < 0 {
		t.Fatal("note 62 retired during its release")
	}
	e.Render(buf, []strata.Event{strata.NoteOnEvent(0, 65, 1)})
	if got := voiceSlot(e, 65); got != want {
		t.Errorf("note 65 took voice %d, want the oldest releasing voice %d", got, want)
	}
	if voiceSlot(e, 60) < 0 {
		t.Error("held note 60 was stolen while releasing voices were available")
	}
}

// With every voice held, a steal takes the overall oldest.
func TestStealFallsBackToOldestHeldVoice(t *testing.T) {
	e, buf := newFullEngine(t, 2)
	e.Render(buf, []strata.Event{
		strata.NoteOnEvent(0, 60, 1),
		strata.NoteOnEvent(0, 62, 1),
	})
	want := voiceSlot(e, 60)
	e.Render(buf, []strata.Event{strata.NoteOnEvent(0, 64, 1)})
	if got := voiceSlot(e, 64); got != want {
		t.Errorf("note 64 took voice %d, want the oldest voice %d", got, want)
	}
	if voiceSlot(e, 60) >= 0 {
		t.Error("oldest note 60 still active after the steal")
	}
}

// A voice triggered under non-zero channel pressure starts from the
// current pressure instead of waiting for the next aftertouch event.
func TestNewVoiceStartsWithCurrentPressure(t *testing.T) {
	e, buf := newFullEngine(t, 2)
	e.Render(buf, []strata.Event{
		{Frame: 0, Kind: strata.Aftertouch, Value: 0.75},
		strata.NoteOnEvent(0, 60, 1),
	})
	idx := voiceSlot(e, 60)
	if idx < 0 {
		t.Fatal("note 60 not active")
	}
	if got := e.voices[idx].aftertouch; got != 0.75 {
		t.Errorf("new voice aftertouch %v, want 0.75", got)
	}
}
