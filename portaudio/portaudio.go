// Package portaudio provides the audio-interface module which plays a
// rack through the default output device and drives the engine as its
// master module.
package portaudio

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/dudk/rack"
	"github.com/dudk/rack/engine"
)

// Driver is a sink module wired to the default portaudio output
// stream. While started it is the engine's real-time clock: the stream
// loop calls Engine.StepBlock once per block and writes the driver's
// input ports to the device.
//
// Add the driver to the engine, connect cables into its inputs, then
// Start it. Stop it before removing.
type Driver struct {
	rack.Core
	engine     *engine.Engine
	channels   int
	blockSize  int
	stream     *portaudio.Stream
	buf        []float32
	stop, done chan struct{}
	once       sync.Once
}

var _ rack.Module = (*Driver)(nil)

// New returns a driver with channels input ports stepping blockSize
// frames per callback.
func New(e *engine.Engine, channels, blockSize int) *Driver {
	d := &Driver{
		engine:    e,
		channels:  channels,
		blockSize: blockSize,
	}
	d.Init(channels, 0, 0)
	return d
}

// Process implements rack.Module. The driver consumes its inputs from
// the stream loop after routing, so processing itself is a no-op.
func (d *Driver) Process(args rack.ProcessArgs) {}

// Start opens the default stream, designates the driver as the master
// module and starts stepping. The engine sample rate follows the
// device via SetSuggestedSampleRate.
func (d *Driver) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio: %w", err)
	}
	d.buf = make([]float32, d.blockSize*d.channels)
	sampleRate := float64(d.engine.SampleRate())
	stream, err := portaudio.OpenDefaultStream(0, d.channels, sampleRate, d.blockSize, &d.buf)
	if err != nil {
		return fmt.Errorf("portaudio: %w", err)
	}
	d.stream = stream
	if err := stream.Start(); err != nil {
		return fmt.Errorf("portaudio: %w", err)
	}
	d.engine.SetSuggestedSampleRate(float32(sampleRate))
	d.engine.SetMasterModule(d)
	d.stop = make(chan struct{})
	d.done = make(chan struct{})
	go d.loop()
	return nil
}

func (d *Driver) loop() {
	defer close(d.done)
	for {
		select {
		case <-d.stop:
			return
		default:
		}
		d.engine.StepBlock(d.blockSize)
		for i := 0; i < d.blockSize; i++ {
			for ch := 0; ch < d.channels; ch++ {
				d.buf[i*d.channels+ch] = d.Input(ch)[i]
			}
		}
		if err := d.stream.Write(); err != nil {
			return
		}
	}
}

// Stop halts stepping, releases the master designation and terminates
// portaudio structures.
func (d *Driver) Stop() error {
	var err error
	d.once.Do(func() {
		close(d.stop)
		<-d.done
		d.engine.SetMasterModule(nil)
		if serr := d.stream.Stop(); serr != nil {
			err = serr
			return
		}
		if serr := d.stream.Close(); serr != nil {
			err = serr
			return
		}
		err = portaudio.Terminate()
	})
	return err
}
