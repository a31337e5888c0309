package engine

import (
	"errors"

	"github.com/dudk/rack/internal/ident"
)

var (
	// ErrDuplicateID is returned when a requested module or cable
	// identifier is already taken.
	ErrDuplicateID = ident.ErrTaken
	// ErrNotRegistered is returned when an operation targets a module,
	// cable or param handle that is not in the engine.
	ErrNotRegistered = errors.New("not registered")
	// ErrRegistered is returned when an entity is added twice.
	ErrRegistered = errors.New("already registered")
	// ErrInvalidPort is returned when a cable endpoint addresses a port
	// outside of the module's port range.
	ErrInvalidPort = errors.New("invalid port")
	// ErrInputTaken is returned when a cable is added to an input port
	// that is already fed by another cable.
	ErrInputTaken = errors.New("input already cabled")
	// ErrPatch is returned when a patch document fails to load. The
	// live graph is left untouched.
	ErrPatch = errors.New("invalid patch")
)
