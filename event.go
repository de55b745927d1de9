package strata

type (
	// EventKind enumerates the note event types the engine understands.
	EventKind byte

	// Event is a note or controller event with a sample-accurate timestamp.
	// Frame is relative to the start of the current block; events are applied
	// in frame order before any audio of the affected segment is generated.
	Event struct {
		Frame    int
		Kind     EventKind
		Note     byte    // NoteOn/NoteOff
		Velocity float32 // NoteOn, 0..1
		Value    float32 // PitchBend in semitones, Aftertouch 0..1
	}
)

const (
	NoteOn EventKind = iota
	NoteOff
	PitchBend
	Aftertouch
)

// NoteOnEvent is a convenience constructor for a note-on at the given frame.
func NoteOnEvent(frame int, note byte, velocity float32) Event {
	return Event{Frame: frame, Kind: NoteOn, Note: note, Velocity: velocity}
}

// NoteOffEvent is a convenience constructor for a note-off at the given frame.
func NoteOffEvent(frame int, note byte) Event {
	return Event{Frame: frame, Kind: NoteOff, Note: note}
}
