// Package gameid creates compact, time-ordered match ids: a UUIDv7 encoded as
// 26 characters of Crockford base32, so ids sort by creation time.
package gameid

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length of an encoded id
const Length = 26

// New creates a new match id
func New() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate uuid: %w", err)
	}
	return Encode(id), nil
}

// Encode renders a UUID as 26 base32 characters. The 128 bits are
// left-padded with two zero bits, so the first character is at most '7'.
func Encode(id uuid.UUID) string {
	result := make([]byte, Length)
	for i := range Length {
		// bit offset of this character within the 130-bit padded value
		offset := i*5 - 2
		var value byte
		for b := range 5 {
			bit := offset + b
			if bit < 0 {
				continue
			}
			value = value<<1 | (id[bit/8]>>(7-bit%8))&1
		}
		result[i] = alphabet[value]
	}
	return string(result)
}

// Decode parses an id produced by Encode
func Decode(s string) (uuid.UUID, error) {
	var id uuid.UUID
	if err := Validate(s); err != nil {
		return id, err
	}
	bit := -2
	for _, char := range s {
		value := strings.IndexRune(alphabet, char)
		for b := 4; b >= 0; b-- {
			if bit >= 0 {
				id[bit/8] |= byte(value>>b&1) << (7 - bit%8)
			}
			bit++
		}
	}
	return id, nil
}

// Validate checks if an id is 26 characters of valid base32 encoding at most 128 bits
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("match id must be exactly %d characters, got %d", Length, len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("match id first character must be 0-7, got %c", id[0])
	}
	for i, char := range id {
		if !strings.ContainsRune(alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}
	return nil
}

// Short returns the random tail of an id, for log lines
func Short(id string) string {
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}
