package access

import "errors"

var (
	// ErrUnknownRole and ErrMissingIdentity are fatal: the caller must deny
	// the request outright rather than fall through to an unfiltered query.
	ErrUnknownRole     = errors.New("unknown role")
	ErrMissingIdentity = errors.New("missing caller identity")

	ErrPermissionDenied = errors.New("permission denied")
	ErrNotOwner         = errors.New("record not owned by caller")
	ErrCapacityExceeded = errors.New("class is at full capacity")
)
