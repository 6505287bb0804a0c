package input

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

// ListenMidi feeds note events from the given input port into the
// collector. The returned stop function detaches the listener;
// midi.CloseDriver() is still the caller's job.
func ListenMidi(portNum int, c *Collector) (func(), error) {
	in, err := midi.InPort(portNum)
	if err != nil {
		return nil, fmt.Errorf("no midi input port %d: %w", portNum, err)
	}

	stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		var ch, key, vel uint8
		switch {
		case msg.GetNoteStart(&ch, &key, &vel):
			c.NoteOn(key)
		case msg.GetNoteEnd(&ch, &key):
			c.NoteOff(key)
		default:
			// ignore
		}
	})
	if err != nil {
		return nil, fmt.Errorf("listening to midi port %d: %w", portNum, err)
	}
	return stop, nil
}
