package signature

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/crypto/ed25519"
)

const (
	SignatureHeader = "Telnyx-Signature-Ed25519"
	TimestampHeader = "Telnyx-Timestamp"
)

var (
	ErrMissingSignature = errors.New("missing webhook signature")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrStaleTimestamp   = errors.New("webhook timestamp outside tolerance")
	ErrInvalidPublicKey = errors.New("invalid webhook public key")
)

// Verifier checks Telnyx ed25519 webhook signatures.
type Verifier struct {
	publicKey ed25519.PublicKey
	tolerance time.Duration
	now       func() time.Time
}

// NewVerifier parses a base64 ed25519 public key. A tolerance of zero
// disables the timestamp freshness check.
func NewVerifier(publicKey string, tolerance time.Duration) (*Verifier, error) {
	key, err := base64.StdEncoding.DecodeString(publicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
	}
	if len(key) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPublicKey, ed25519.PublicKeySize, len(key))
	}
	return &Verifier{
		publicKey: ed25519.PublicKey(key),
		tolerance: tolerance,
		now:       time.Now,
	}, nil
}

// Verify checks that sig is a valid signature of "timestamp|body" and that
// timestamp is recent enough.
func (v *Verifier) Verify(body []byte, sig, timestamp string) error {
	if sig == "" || timestamp == "" {
		return ErrMissingSignature
	}

	seconds, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: malformed timestamp", ErrInvalidSignature)
	}
	if v.tolerance > 0 {
		skew := v.now().Sub(time.Unix(seconds, 0))
		if skew < 0 {
			skew = -skew
		}
		if skew > v.tolerance {
			return ErrStaleTimestamp
		}
	}

	decoded, err := base64.StdEncoding.DecodeString(sig)
	if err != nil || len(decoded) != ed25519.SignatureSize {
		return ErrInvalidSignature
	}

	message := make([]byte, 0, len(timestamp)+1+len(body))
	message = append(message, timestamp...)
	message = append(message, '|')
	message = append(message, body...)

	if !ed25519.Verify(v.publicKey, message, decoded) {
		return ErrInvalidSignature
	}
	return nil
}
