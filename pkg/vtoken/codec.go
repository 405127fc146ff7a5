package vtoken

import (
	"encoding/base64"
	"strings"
)

// Encode converts raw token bytes into a URL-safe string that survives being
// placed in a query parameter without escaping.
func Encode(raw []byte) string {
	return base64.RawURLEncoding.EncodeToString(raw)
}

// Decode reverses Encode. It tolerates both padded and unpadded base64url
// input, since clients and mail scanners occasionally re-pad tokens in
// transit. Malformed input yields ErrTokenFormat, never a panic.
func Decode(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrTokenFormat
	}

	enc := base64.RawURLEncoding
	if strings.Contains(s, "=") {
		enc = base64.URLEncoding
	}

	raw, err := enc.DecodeString(s)
	if err != nil {
		return nil, ErrTokenFormat
	}
	return raw, nil
}
