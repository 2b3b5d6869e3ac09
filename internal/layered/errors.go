package layered

import "errors"

var (
	// ErrMalformedDocument marks an archive missing a required table or
	// carrying an entity tuple of the wrong arity.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrMalformedRow marks a session row with fewer than ten positions.
	ErrMalformedRow = errors.New("malformed session row")

	ErrUnsupportedVersion = errors.New("unsupported archive version")
)
