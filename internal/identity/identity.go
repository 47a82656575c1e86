// Package identity derives environment ids from their content.
package identity

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"time"
)

// IDLength is the length of a hex-encoded SHA-1 digest.
const IDLength = 40

// ShortIDLength is the id prefix length shown in tables.
const ShortIDLength = 8

// MinPrefixLength is the shortest id prefix accepted as a unique match.
const MinPrefixLength = 7

// GenerateID returns the lowercase hex SHA-1 of name, projectDir, targets and
// the millisecond timestamp of now, concatenated in that order.
// The timestamp makes every call distinct for the same logical entry.
func GenerateID(name, projectDir, targets string, now time.Time) string {
	h := sha1.New()
	h.Write([]byte(name))
	h.Write([]byte(projectDir))
	h.Write([]byte(targets))
	h.Write([]byte(strconv.FormatInt(now.UnixMilli(), 10)))
	return hex.EncodeToString(h.Sum(nil))
}

// IsValidID reports whether s is a full-length lowercase hex id.
func IsValidID(s string) bool {
	return len(s) == IDLength && IsHex(s)
}

// IsHex reports whether s is non-empty and contains only lowercase hex digits.
func IsHex(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// ShortID truncates an id for display.
func ShortID(id string) string {
	if len(id) <= ShortIDLength {
		return id
	}
	return id[:ShortIDLength]
}
