// Package hashid turns internal numeric ids into short, non-sequential
// strings for use in URLs and back.
package hashid

import (
	"errors"
	"fmt"

	"github.com/speps/go-hashids/v2"
)

// DefaultMinLength pads encoded ids to at least ten characters.
const DefaultMinLength = 10

// Codec encodes and decodes ids with a single process-wide salt.
type Codec struct {
	h *hashids.HashID
}

// New creates a Codec. An empty salt is rejected because ids minted with
// different salts are not interchangeable.
func New(salt string, minLength int) (*Codec, error) {
	if salt == "" {
		return nil, errors.New("hashid salt must not be empty")
	}
	if minLength <= 0 {
		minLength = DefaultMinLength
	}

	data := hashids.NewData()
	data.Salt = salt
	data.MinLength = minLength

	h, err := hashids.NewWithData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to create hashid codec: %w", err)
	}
	return &Codec{h: h}, nil
}

// Encode returns the external form of id, or "" for negative ids.
func (c *Codec) Encode(id int64) string {
	if id < 0 {
		return ""
	}
	s, err := c.h.EncodeInt64([]int64{id})
	if err != nil {
		return ""
	}
	return s
}

// Decode returns the id behind s. ok is false for anything Encode could not
// have produced.
func (c *Codec) Decode(s string) (id int64, ok bool) {
	if s == "" {
		return 0, false
	}
	defer func() {
		if recover() != nil {
			id, ok = 0, false
		}
	}()

	values, err := c.h.DecodeInt64WithError(s)
	if err != nil || len(values) != 1 || values[0] < 0 {
		return 0, false
	}
	if c.Encode(values[0]) != s {
		return 0, false
	}
	return values[0], true
}
