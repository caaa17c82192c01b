package treefile

import "fmt"

// A Codec converts a file's bytes into a value and a value back into bytes.
// It is supplied by the embedding application; the library itself has no
// notion of any specific serialization format.
//
// Decoded mappings must be returned as map[string]any so that they can become
// branches; any other decoded value is kept as an opaque leaf.
type Codec interface {
	// LoadFile reads and decodes the file at path.
	LoadFile(path string) (any, error)

	// WriteFile encodes value and writes it to the file at path.
	WriteFile(path string, value any) error
}

// UnimplementedCodec is a [Codec] whose methods always fail with
// [ErrUnimplemented]. It can be embedded by partial implementations and is
// the codec of last resort when none was supplied.
type UnimplementedCodec struct{}

func (UnimplementedCodec) LoadFile(path string) (any, error) {
	return nil, fmt.Errorf("(codec) %w: LoadFile: %s", ErrUnimplemented, path)
}

func (UnimplementedCodec) WriteFile(path string, _ any) error {
	return fmt.Errorf("(codec) %w: WriteFile: %s", ErrUnimplemented, path)
}
