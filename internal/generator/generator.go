package generator

import (
	"encoding/base64"

	"github.com/google/uuid"
)

// Generator is an interface that defines a method to generate a new value of type T.
type Generator[T any] interface {
	Next() (T, error)
}

// ShortGUIDLength is the length of the strings produced by ShortGUIDGenerator.
const ShortGUIDLength = 22

// ShortGUIDGenerator produces random client GUIDs in the compact form voice
// servers expect: the 16 bytes of a UUIDv4, URL-safe base64 encoded without padding.
type ShortGUIDGenerator struct{}

func (g *ShortGUIDGenerator) Next() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(id[:]), nil
}

var _ Generator[string] = &ShortGUIDGenerator{}
