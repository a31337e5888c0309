package ident_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dudk/rack/internal/ident"
)

func TestAuto(t *testing.T) {
	var r ident.Registry

	id, err := r.Allocate(ident.Auto)
	require.NoError(t, err)
	assert.Equal(t, int64(0), id)

	id, err = r.Allocate(ident.Auto)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	// released identifiers are not handed out automatically
	r.Release(0)
	id, err = r.Allocate(ident.Auto)
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)
	assert.Equal(t, 2, r.Len())
}

func TestRequested(t *testing.T) {
	var r ident.Registry

	id, err := r.Allocate(10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), id)

	_, err = r.Allocate(10)
	assert.ErrorIs(t, err, ident.ErrTaken)

	_, err = r.Allocate(-2)
	assert.ErrorIs(t, err, ident.ErrNegative)

	// auto assignment stays ahead of explicit reservations
	id, err = r.Allocate(ident.Auto)
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)

	// an explicitly released identifier can be requested again
	r.Release(10)
	id, err = r.Allocate(10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), id)
}

func TestUnique(t *testing.T) {
	var r ident.Registry
	seen := make(map[int64]struct{})
	for i := 0; i < 100; i++ {
		id, err := r.Allocate(ident.Auto)
		require.NoError(t, err)
		_, ok := seen[id]
		require.False(t, ok, "identifier %d reused", id)
		seen[id] = struct{}{}
		if i%3 == 0 {
			r.Release(id)
		}
	}
}

func TestClear(t *testing.T) {
	var r ident.Registry
	_, err := r.Allocate(ident.Auto)
	require.NoError(t, err)
	r.Clear()
	assert.Equal(t, 0, r.Len())

	// counter survives the clear
	id, err := r.Allocate(ident.Auto)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}
