package main

import (
	"errors"
	"fmt"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/strata-audio/strata"
	"github.com/strata-audio/strata/engine"
)

// midiContext owns the rtmidi driver and forwards incoming messages to the
// engine's event queue. Messages arrive on the driver's callback goroutine;
// Send is wait-free so forwarding from there is safe.
type midiContext struct {
	driver *rtmididrv.Driver
	in     drivers.In
	eng    *engine.Engine
}

func newMIDIContext(eng *engine.Engine) *midiContext {
	m := &midiContext{eng: eng}
	// no driver means no live input; Open will report it
	m.driver, _ = rtmididrv.New()
	return m
}

// Open connects to the first input whose name starts with namePrefix; "*"
// matches any input.
func (m *midiContext) Open(namePrefix string) error {
	if m.driver == nil {
		return errors.New("no MIDI driver available")
	}
	ins, err := m.driver.Ins()
	if err != nil {
		return fmt.Errorf("could not list MIDI inputs: %v", err)
	}
	for _, in := range ins {
		if namePrefix != "*" && !strings.HasPrefix(in.String(), namePrefix) {
			continue
		}
		if err := in.Open(); err != nil {
			return fmt.Errorf("opening MIDI input failed: %v", err)
		}
		if _, err := midi.ListenTo(in, m.handleMessage); err != nil {
			in.Close()
			return fmt.Errorf("listening to MIDI input failed: %v", err)
		}
		m.in = in
		return nil
	}
	return fmt.Errorf("no MIDI input matching %q", namePrefix)
}

func (m *midiContext) PortName() string {
	if m.in == nil {
		return ""
	}
	return m.in.String()
}

func (m *midiContext) Close() {
	if m.driver == nil {
		return
	}
	if m.in != nil && m.in.IsOpen() {
		m.in.Close()
	}
	m.driver.Close()
}

func (m *midiContext) handleMessage(msg midi.Message, timestampms int32) {
	var channel, key, velocity, pressure uint8
	var bendRel int16
	var bendAbs uint16
	switch {
	case msg.GetNoteOn(&channel, &key, &velocity):
		m.eng.Send(strata.NoteOnEvent(0, key, float32(velocity)/127))
	case msg.GetNoteOff(&channel, &key, &velocity):
		m.eng.Send(strata.NoteOffEvent(0, key))
	case msg.GetPitchBend(&channel, &bendRel, &bendAbs):
		m.eng.Send(strata.Event{Kind: strata.PitchBend, Value: float32(bendRel) / 8192 * 2})
	case msg.GetAfterTouch(&channel, &pressure):
		m.eng.Send(strata.Event{Kind: strata.Aftertouch, Value: float32(pressure) / 127})
	}
}
