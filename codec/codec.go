// Package codec centralizes the encoding of spilled partitions and scoring output.
//
// Codec selection is a compatibility boundary: spilled partitions record the
// codec name they were written with and are decoded with the same codec.
package codec

import (
	"errors"
	"fmt"
)

// Stable codec names. They are written into spill blobs and must not change.
const (
	NameJSON   = "json"
	NameGoJSON = "go-json"
)

// ErrUnknownCodec is returned by Lookup for names without a built-in codec.
var ErrUnknownCodec = errors.New("codec: unknown codec")

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Default is the codec used when none is configured.
var Default Codec = GoJSON{}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case NameJSON:
		return JSON{}, true
	case NameGoJSON:
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// Lookup is ByName with an error naming the codec.
func Lookup(name string) (Codec, error) {
	c, ok := ByName(name)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownCodec, name)
	}
	return c, nil
}

// MustMarshal is a helper for tests.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
