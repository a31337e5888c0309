package wav_test

import (
	"os"
	"path/filepath"
	"testing"

	gowav "github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dudk/rack"
	"github.com/dudk/rack/wav"
)

func TestBitDepth(t *testing.T) {
	_, err := wav.NewRecorder("out.wav", 24, 2)
	assert.ErrorIs(t, err, wav.ErrUnsupportedBitDepth)
	_, err = wav.NewRecorder("out.wav", 16, 2)
	assert.NoError(t, err)
	_, err = wav.NewRecorder("out.wav", 32, 2)
	assert.NoError(t, err)
}

func TestRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.wav")
	r, err := wav.NewRecorder(path, 16, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, r.NumInputs())

	r.EnsureFrames(4)
	copy(r.Input(0), []float32{0, 0.5, -0.5, 1})
	copy(r.Input(1), []float32{1, -1, 0, 0.5})

	args := rack.ProcessArgs{SampleRate: 44100, Frames: 4}
	r.Process(args)
	r.Process(args)
	require.NoError(t, r.Err())
	require.NoError(t, r.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	dec := gowav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)

	assert.Equal(t, 2, buf.Format.NumChannels)
	assert.Equal(t, 44100, buf.Format.SampleRate)
	// two blocks of four interleaved stereo frames
	require.Len(t, buf.Data, 16)
	assert.Equal(t, 0, buf.Data[0])
	assert.Equal(t, 32767, buf.Data[1])
	assert.Equal(t, 16384, buf.Data[2])
	assert.Equal(t, -32767, buf.Data[3])
}

func TestOpenError(t *testing.T) {
	r, err := wav.NewRecorder(filepath.Join(t.TempDir(), "missing", "record.wav"), 16, 1)
	require.NoError(t, err)

	r.EnsureFrames(2)
	r.Process(rack.ProcessArgs{SampleRate: 44100, Frames: 2})
	assert.Error(t, r.Err())
	// the recorder keeps reporting the error without writing
	r.Process(rack.ProcessArgs{SampleRate: 44100, Frames: 2})
	assert.Error(t, r.Close())
}
