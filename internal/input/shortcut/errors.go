package shortcut

import "errors"

// Sentinel errors for the shortcut registry.
var (
	// ErrMissingCombo is returned by Register when no key combo is given.
	ErrMissingCombo = errors.New("shortcut combo is required")

	// ErrNilCallback is returned by Register when the callback is nil.
	ErrNilCallback = errors.New("shortcut callback cannot be nil")

	// ErrInvalidName is returned by Register when the name is empty,
	// contains whitespace, or starts with an underscore. The underscore
	// is the namespace join character and is reserved.
	ErrInvalidName = errors.New("invalid shortcut name")

	// ErrDuplicateBinding is returned by Register when the canonical
	// namespace is already bound to another shortcut.
	ErrDuplicateBinding = errors.New("shortcut already bound")

	// ErrUnknownHandle is returned when an operation names a handle that
	// was never issued, or whose shortcut has been deregistered.
	ErrUnknownHandle = errors.New("unknown shortcut handle")
)
