package main

import (
	// Registers the RtMidi backend used by the MIDI sidetone output.
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/oshokin/morse-beacon/cmd/morse-device/cmd"
)

func main() {
	cmd.Execute()
}
