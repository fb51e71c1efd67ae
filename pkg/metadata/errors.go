package metadata

import "errors"

// Sentinel errors for known conditions. Callers match them with errors.Is;
// the wrapped message names the failing operation.
var (
	// ErrIdentityConflict indicates an insert of a component whose identity
	// string is already present in a checked collection.
	ErrIdentityConflict = errors.New("component identity conflict")

	// ErrMissingContext indicates an operation that needs a document context
	// was invoked on an object without one attached.
	ErrMissingContext = errors.New("no metadata context")

	// ErrMissingContextFilename indicates the attached document context has
	// no source filename, so no local sibling path can be derived.
	ErrMissingContextFilename = errors.New("context has no filename")

	// ErrNetwork indicates a remote fetch failed.
	ErrNetwork = errors.New("network error")

	// ErrLocalRead indicates a local release data file could not be read.
	ErrLocalRead = errors.New("local read error")

	// ErrParse indicates malformed XML or YAML document data.
	ErrParse = errors.New("parse error")
)
