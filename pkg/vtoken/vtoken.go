// Package vtoken implements the stateless half of the verification token
// workflow: short-lived, purpose-scoped tokens bound to a user identity and
// the security stamp captured at issuance. A token is an HMAC-SHA256-signed
// payload carried in base64url form:
//
//	v1 \n purpose \n userID \n stamp \n expiryUnix \n mac
//
// Parse verifies the MAC, purpose, and expiry. Comparing the embedded stamp
// against the identity's current stamp requires a store lookup and is the
// caller's job; that comparison is what makes tokens single-use.
package vtoken

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Purpose namespaces a token so it can only be redeemed against the flow it
// was issued for.
type Purpose string

const (
	PurposeEmailConfirmation Purpose = "email_confirmation"
	PurposePasswordReset     Purpose = "password_reset"
)

const version = "v1"

var (
	ErrTokenFormat     = errors.New("vtoken: malformed token")
	ErrSignature       = errors.New("vtoken: signature mismatch")
	ErrPurposeMismatch = errors.New("vtoken: purpose mismatch")
	ErrExpired         = errors.New("vtoken: token expired")
	ErrStampMismatch   = errors.New("vtoken: security stamp mismatch")
)

// Token is the decoded payload of a verification token.
type Token struct {
	Purpose   Purpose
	UserID    string
	Stamp     string
	ExpiresAt time.Time
}

// Signer issues and parses verification tokens with a shared service secret.
type Signer struct {
	secret []byte
}

// NewSigner returns a Signer keyed with secret. The secret must be non-empty;
// token security rests entirely on it.
func NewSigner(secret []byte) (*Signer, error) {
	if len(secret) == 0 {
		return nil, errors.New("vtoken: empty signing secret")
	}
	return &Signer{secret: secret}, nil
}

// Issue builds a signed, encoded token for the given identity snapshot.
// The expiry is now + ttl; a zero or negative ttl produces an already-expired
// token, which Parse rejects.
func (s *Signer) Issue(purpose Purpose, userID, stamp string, ttl time.Duration) (string, error) {
	if userID == "" || stamp == "" {
		return "", errors.New("vtoken: user id and stamp are required")
	}

	exp := time.Now().UTC().Add(ttl)
	payload := payloadBytes(purpose, userID, stamp, exp)
	mac := s.mac(payload)

	raw := make([]byte, 0, len(payload)+1+len(mac))
	raw = append(raw, payload...)
	raw = append(raw, '\n')
	raw = append(raw, mac...)

	return Encode(raw), nil
}

// Parse decodes and verifies an encoded token, short-circuiting on the first
// failure: format, then signature (constant time), then purpose, then expiry.
// The stamp is returned for the caller to compare against current state.
func (s *Signer) Parse(encoded string, expected Purpose) (Token, error) {
	raw, err := Decode(encoded)
	if err != nil {
		return Token{}, err
	}

	// Split the MAC off the payload. The MAC is the final line.
	i := bytes.LastIndexByte(raw, '\n')
	if i < 0 {
		return Token{}, ErrTokenFormat
	}
	payload, mac := raw[:i], raw[i+1:]

	if !hmac.Equal(mac, s.mac(payload)) {
		return Token{}, ErrSignature
	}

	tok, err := parsePayload(payload)
	if err != nil {
		return Token{}, err
	}

	if tok.Purpose != expected {
		return Token{}, ErrPurposeMismatch
	}
	if !time.Now().UTC().Before(tok.ExpiresAt) {
		return Token{}, ErrExpired
	}

	return tok, nil
}

// VerifyStamp compares the stamp embedded in a parsed token against the
// identity's current security stamp.
func (t Token) VerifyStamp(current string) error {
	if !hmac.Equal([]byte(t.Stamp), []byte(current)) {
		return ErrStampMismatch
	}
	return nil
}

func (s *Signer) mac(payload []byte) []byte {
	h := hmac.New(sha256.New, s.secret)
	h.Write(payload)
	sum := h.Sum(nil)

	out := make([]byte, len(sum)*2)
	const hextable = "0123456789abcdef"
	for i, b := range sum {
		out[i*2] = hextable[b>>4]
		out[i*2+1] = hextable[b&0x0f]
	}
	return out
}

func payloadBytes(purpose Purpose, userID, stamp string, exp time.Time) []byte {
	return fmt.Appendf(nil, "%s\n%s\n%s\n%s\n%d",
		version, purpose, userID, stamp, exp.Unix())
}

func parsePayload(payload []byte) (Token, error) {
	fields := bytes.Split(payload, []byte{'\n'})
	if len(fields) != 5 {
		return Token{}, ErrTokenFormat
	}
	if string(fields[0]) != version {
		return Token{}, ErrTokenFormat
	}

	expUnix, err := strconv.ParseInt(string(fields[4]), 10, 64)
	if err != nil {
		return Token{}, ErrTokenFormat
	}

	return Token{
		Purpose:   Purpose(fields[1]),
		UserID:    string(fields[2]),
		Stamp:     string(fields[3]),
		ExpiresAt: time.Unix(expUnix, 0).UTC(),
	}, nil
}
