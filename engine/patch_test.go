package engine_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dudk/rack"
	"github.com/dudk/rack/engine"
	"github.com/dudk/rack/mock"
	"github.com/dudk/rack/patch"
)

func mockFactory(inputs, outputs, params int) engine.ModuleFactory {
	return func(typ string) (rack.Module, error) {
		return mock.New(inputs, outputs, params), nil
	}
}

func TestPatchRoundTrip(t *testing.T) {
	e := newEngine(t)

	a := mock.New(1, 1, 2)
	b := mock.New(1, 1, 2)
	require.NoError(t, e.AddModule(a))
	require.NoError(t, e.AddModule(b))
	e.SetParamValue(a, 0, 0.25)
	e.SetParamValue(a, 1, -3)
	require.NoError(t, e.BypassModule(b, true))
	require.NoError(t, e.AddCable(&engine.Cable{
		ID:             rack.AutoID,
		OutputModuleID: a.ID(),
		InputModuleID:  b.ID(),
	}))

	doc, err := e.ToPatch()
	require.NoError(t, err)
	require.Len(t, doc.Modules, 2)
	require.Len(t, doc.Cables, 1)
	assert.Equal(t, "mock.Module", doc.Modules[0].Type)

	// documents survive serialization
	var buf bytes.Buffer
	require.NoError(t, doc.Write(&buf))
	doc, err = patch.Parse(&buf)
	require.NoError(t, err)

	loaded := newEngine(t)
	var made []*mock.Module
	require.NoError(t, loaded.FromPatch(doc, func(typ string) (rack.Module, error) {
		m := mock.New(1, 1, 2)
		made = append(made, m)
		return m, nil
	}))

	require.Len(t, made, 2)
	assert.Equal(t, a.ID(), made[0].ID())
	assert.Equal(t, b.ID(), made[1].ID())
	assert.Equal(t, float32(0.25), loaded.ParamValue(made[0], 0))
	assert.Equal(t, float32(-3), loaded.ParamValue(made[0], 1))
	assert.True(t, made[1].Bypassed())
	assert.Equal(t, 1, loaded.NumCables())

	// the loaded graph routes like the one it was saved from
	made[0].OutValue = 0.5
	loaded.StepBlock(16)
	assert.Equal(t, float32(0.5), made[1].Input(0)[3])
}

func TestFromPatchReplaces(t *testing.T) {
	e := newEngine(t)

	old := mock.New(1, 1, 0)
	require.NoError(t, e.AddModule(old))

	doc := &patch.Patch{
		Modules: []patch.Module{{ID: 5, Type: "mock.Module"}},
	}
	require.NoError(t, e.FromPatch(doc, mockFactory(1, 1, 0)))

	assert.False(t, e.HasModule(old))
	assert.Equal(t, 1, e.NumModules())
	assert.NotNil(t, e.Module(5))
}

func TestFromPatchInvalid(t *testing.T) {
	e := newEngine(t)

	keep := mock.New(1, 1, 0)
	require.NoError(t, e.AddModule(keep))

	for _, test := range []struct {
		name string
		doc  *patch.Patch
		err  error
	}{
		{
			name: "duplicate module id",
			doc: &patch.Patch{
				Modules: []patch.Module{
					{ID: 1, Type: "mock.Module"},
					{ID: 1, Type: "mock.Module"},
				},
			},
			err: engine.ErrPatch,
		},
		{
			name: "cable to missing module",
			doc: &patch.Patch{
				Modules: []patch.Module{{ID: 0, Type: "mock.Module"}},
				Cables: []patch.Cable{
					{ID: 0, OutputModuleID: 0, InputModuleID: 9},
				},
			},
			err: engine.ErrPatch,
		},
		{
			name: "cable to invalid port",
			doc: &patch.Patch{
				Modules: []patch.Module{
					{ID: 0, Type: "mock.Module"},
					{ID: 1, Type: "mock.Module"},
				},
				Cables: []patch.Cable{
					{ID: 0, OutputModuleID: 0, OutputID: 4, InputModuleID: 1},
				},
			},
			err: engine.ErrInvalidPort,
		},
		{
			name: "two cables into one input",
			doc: &patch.Patch{
				Modules: []patch.Module{
					{ID: 0, Type: "mock.Module"},
					{ID: 1, Type: "mock.Module"},
					{ID: 2, Type: "mock.Module"},
				},
				Cables: []patch.Cable{
					{ID: 0, OutputModuleID: 0, InputModuleID: 2},
					{ID: 1, OutputModuleID: 1, InputModuleID: 2},
				},
			},
			err: engine.ErrInputTaken,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			assert.ErrorIs(t, e.FromPatch(test.doc, mockFactory(1, 1, 0)), test.err)
			// a rejected document leaves the graph untouched
			assert.True(t, e.HasModule(keep))
			assert.Equal(t, 1, e.NumModules())
		})
	}
}

// stateful carries opaque state through the document.
type stateful struct {
	rack.Core
	Word string
}

var (
	_ rack.Module = (*stateful)(nil)
	_ rack.Stater = (*stateful)(nil)
)

func (s *stateful) Process(rack.ProcessArgs) {}

func (s *stateful) MarshalState() ([]byte, error) {
	return json.Marshal(s.Word)
}

func (s *stateful) UnmarshalState(data []byte) error {
	return json.Unmarshal(data, &s.Word)
}

func newStateful() *stateful {
	s := &stateful{}
	s.Init(0, 0, 0)
	return s
}

func TestPatchModuleState(t *testing.T) {
	e := newEngine(t)

	s := newStateful()
	s.Word = "reverb tail"
	require.NoError(t, e.AddModule(s))

	pm, err := e.ModuleToPatch(s)
	require.NoError(t, err)
	assert.JSONEq(t, `"reverb tail"`, string(pm.Data))

	restored := newStateful()
	require.NoError(t, e.ModuleFromPatch(restored, pm))
	assert.Equal(t, "reverb tail", restored.Word)
}
