// Package cborcodec provides a compact binary embedding of a treefile tree,
// encoding every file-shaped branch as one CBOR value.
package cborcodec

import (
	"fmt"
	"os"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

const filePerm = 0o644

// Codec implements treefile's codec contract with CBOR files.
type Codec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// New returns a [Codec] with canonical encoding and mappings decoded as
// map[string]any, ready to become branches.
func New() (*Codec, error) {
	enc, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("(cbor-codec) failed to build encoder: %w", err)
	}

	dec, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		return nil, fmt.Errorf("(cbor-codec) failed to build decoder: %w", err)
	}

	return &Codec{enc: enc, dec: dec}, nil
}

// LoadFile reads and decodes one CBOR file.
func (c *Codec) LoadFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("(cbor-codec) failed to read: %w", err)
	}

	var value any
	if err := c.dec.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("(cbor-codec) failed to decode: %w", err)
	}

	return value, nil
}

// WriteFile encodes a value as one CBOR item and writes it to path.
func (c *Codec) WriteFile(path string, value any) error {
	data, err := c.enc.Marshal(value)
	if err != nil {
		return fmt.Errorf("(cbor-codec) failed to encode: %w", err)
	}

	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("(cbor-codec) failed to write: %w", err)
	}

	return nil
}
