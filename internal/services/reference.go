package services

import (
	"context"
	"crypto/rand"
	"fmt"

	intdb "shuttlebook/internal/db"
	"shuttlebook/internal/domain"
)

// Booking codes are read aloud over the phone, so the alphabet drops 0/O and
// 1/I lookalikes.
const referenceAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	referenceLength      = 6
	maxReferenceAttempts = 10
)

// NewReference returns one random candidate booking code.
func NewReference() (string, error) {
	buf := make([]byte, referenceLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reference entropy: %w", err)
	}
	out := make([]byte, referenceLength)
	for i, b := range buf {
		out[i] = referenceAlphabet[int(b)%len(referenceAlphabet)]
	}
	return string(out), nil
}

// uniqueReference generates a code not yet held by any booking. The existence
// check runs through q, the booking-creation transaction, so no duplicate can
// appear between check and insert. Exhaustion means the store is misbehaving,
// not bad luck, and is reported as internal.
func uniqueReference(ctx context.Context, q intdb.DBTX, gen func() (string, error), exists func(context.Context, intdb.DBTX, string) (bool, error)) (string, error) {
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		ref, err := gen()
		if err != nil {
			return "", domain.InternalError{Msg: "reference generation failed", Err: err}
		}
		taken, err := exists(ctx, q, ref)
		if err != nil {
			return "", err
		}
		if !taken {
			return ref, nil
		}
	}
	return "", domain.ReferenceExhaustedError{Attempts: maxReferenceAttempts}
}
