// Package wav provides a recorder module that captures its inputs to a
// wav file.
package wav

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/dudk/rack"
)

// ErrUnsupportedBitDepth is returned when unsupported bit depth is
// used.
var ErrUnsupportedBitDepth = errors.New("only 16 and 32 bit depth is supported")

const wavFormat = 1

// Recorder is a sink module: every input port is one channel of the
// written file. The encoder is opened lazily on the first processed
// block, when the engine sample rate is known, and finalized by Close.
//
// Encoding errors do not abort the block; the recorder stops writing
// and reports the first error from Err and Close.
type Recorder struct {
	rack.Core
	path     string
	bitDepth int
	channels int
	file     *os.File
	encoder  *wav.Encoder
	buf      *audio.IntBuffer
	err      error
}

var _ rack.Module = (*Recorder)(nil)

// NewRecorder returns a recorder writing channels inputs to path.
func NewRecorder(path string, bitDepth, channels int) (*Recorder, error) {
	if bitDepth != 16 && bitDepth != 32 {
		return nil, ErrUnsupportedBitDepth
	}
	r := &Recorder{
		path:     path,
		bitDepth: bitDepth,
		channels: channels,
	}
	r.Init(channels, 0, 0)
	return r, nil
}

// Process implements rack.Module.
func (r *Recorder) Process(args rack.ProcessArgs) {
	if r.err != nil {
		return
	}
	if r.encoder == nil {
		if r.err = r.open(int(args.SampleRate)); r.err != nil {
			return
		}
	}
	multiplier := 1 << (r.bitDepth - 1)
	data := r.buf.Data[:0]
	for i := 0; i < args.Frames; i++ {
		for ch := 0; ch < r.channels; ch++ {
			sample := float64(r.Input(ch)[i]) * float64(multiplier-1)
			data = append(data, int(math.Round(sample)))
		}
	}
	r.buf.Data = data
	r.err = r.encoder.Write(r.buf)
}

func (r *Recorder) open(sampleRate int) error {
	f, err := os.Create(r.path)
	if err != nil {
		return fmt.Errorf("open recorder: %w", err)
	}
	r.file = f
	r.encoder = wav.NewEncoder(f, sampleRate, r.bitDepth, r.channels, wavFormat)
	r.buf = &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: r.channels,
			SampleRate:  sampleRate,
		},
		SourceBitDepth: r.bitDepth,
	}
	return nil
}

// Err returns the first error encountered while encoding.
func (r *Recorder) Err() error {
	return r.err
}

// Close finalizes the wav header and closes the file. Remove the
// module from the engine before closing.
func (r *Recorder) Close() error {
	if r.encoder == nil {
		return r.err
	}
	if err := r.encoder.Close(); err != nil {
		return err
	}
	if err := r.file.Close(); err != nil {
		return err
	}
	return r.err
}
