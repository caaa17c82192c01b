package treefile

import "errors"

var (
	// ErrUnimplemented is an error that occurs when a [Codec] method was
	// invoked that the concrete implementation does not provide.
	ErrUnimplemented = errors.New("codec method not implemented")

	// ErrReadOnly is an error that occurs when a mutating operation is
	// attempted on a tree that was loaded read-only.
	ErrReadOnly = errors.New("tree is read-only")

	// ErrMissingIdentifier is an error that occurs when an accessor or a
	// mutator is invoked without an identifier.
	ErrMissingIdentifier = errors.New("no identifier given")

	// ErrInvalidType is an error that occurs when an on-disk representation
	// other than [RepDir], [RepFile] or [RepUnset] is requested.
	ErrInvalidType = errors.New("invalid representation type")

	// ErrNotBranch is an error that occurs when an operation requires a
	// branch but the addressed element holds a leaf value.
	ErrNotBranch = errors.New("element is not a branch")

	// ErrNotFileOrDir is an error that occurs when a loaded path exists but
	// is neither a regular file nor a directory.
	ErrNotFileOrDir = errors.New("path is neither a regular file nor a directory")
)
