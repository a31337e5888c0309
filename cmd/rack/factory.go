package main

import (
	"fmt"

	"github.com/dudk/rack"
	"github.com/dudk/rack/engine"
	"github.com/dudk/rack/gain"
	"github.com/dudk/rack/mixer"
	"github.com/dudk/rack/osc"
	"github.com/dudk/rack/portaudio"
	"github.com/dudk/rack/wav"
)

// mixerInputs is the input count of mixers created from patch files.
const mixerInputs = 4

// modules collects the side-effecting modules a factory created while
// loading a patch, so commands can start and finalize them.
type modules struct {
	recorder *wav.Recorder
	driver   *portaudio.Driver
}

// newFactory returns a patch module factory for the built-in module
// set. The recorder writes to out; the portaudio driver, when the
// patch asks for one, plays channels through the default device.
func newFactory(e *engine.Engine, out string, bitDepth, channels, blockSize int, loaded *modules) engine.ModuleFactory {
	return func(typ string) (rack.Module, error) {
		switch typ {
		case "osc.Osc":
			return osc.New(440), nil
		case "gain.Gain":
			return gain.New(1), nil
		case "mixer.Mixer":
			return mixer.New(mixerInputs), nil
		case "wav.Recorder":
			r, err := wav.NewRecorder(out, bitDepth, channels)
			if err != nil {
				return nil, err
			}
			loaded.recorder = r
			return r, nil
		case "portaudio.Driver":
			d := portaudio.New(e, channels, blockSize)
			loaded.driver = d
			return d, nil
		}
		return nil, fmt.Errorf("unknown module type %q", typ)
	}
}
