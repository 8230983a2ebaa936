// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Soclink Labs

package security

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base32"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/soclink/authcore/internal/store"
	"github.com/soclink/authcore/internal/utils"
)

// MFAVerifier checks time-based one-time codes (RFC 6238) against secrets
// established at enrollment. Codes from the current step and the one before
// it are accepted, tolerating clock drift of up to one step.
//
// A verified code is recorded per account and step and refused on replay:
// within the validity window a code authenticates exactly once. There are no
// bypass or emergency codes.
type MFAVerifier struct {
	secrets store.MFASecretStore

	step   time.Duration
	digits int

	mu   sync.Mutex
	used map[int64]map[uint64]struct{}

	now func() time.Time
}

// NewMFAVerifier builds a verifier over the given secret store with the
// given step size and code length.
func NewMFAVerifier(secrets store.MFASecretStore, step time.Duration, digits int) *MFAVerifier {
	return &MFAVerifier{
		secrets: secrets,
		step:    step,
		digits:  digits,
		used:    make(map[int64]map[uint64]struct{}),
		now:     time.Now,
	}
}

// Enroll generates a fresh shared secret for accountID, persists it and
// returns it base32-encoded for the authenticator app. Re-enrolling replaces
// the previous secret.
func (v *MFAVerifier) Enroll(ctx context.Context, accountID int64) (string, error) {
	secret, err := utils.NewOTPSecret()
	if err != nil {
		return "", err
	}
	if err := v.secrets.SaveSecret(ctx, accountID, secret); err != nil {
		return "", fmt.Errorf("saving enrollment secret: %w", err)
	}
	return secret, nil
}

// Enrolled reports whether accountID has a second factor configured.
func (v *MFAVerifier) Enrolled(ctx context.Context, accountID int64) (bool, error) {
	_, err := v.secrets.SecretFor(ctx, accountID)
	if errors.Is(err, store.ErrMFANotEnrolled) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Verify checks code for accountID. Wrong, expired and replayed codes all
// yield ErrMFARejected; an account without an enrollment yields the store's
// ErrMFANotEnrolled.
func (v *MFAVerifier) Verify(ctx context.Context, accountID int64, code string) error {
	secret, err := v.secrets.SecretFor(ctx, accountID)
	if err != nil {
		return err
	}

	key, err := base32.StdEncoding.WithPadding(base32.NoPadding).
		DecodeString(strings.ToUpper(strings.TrimSpace(secret)))
	if err != nil {
		return fmt.Errorf("malformed enrollment secret: %w", err)
	}

	current := uint64(v.now().Unix()) / uint64(v.step.Seconds())

	// Current step first, then one step back for clock drift.
	for _, counter := range []uint64{current, current - 1} {
		expected := hotp(key, counter, v.digits)
		if subtle.ConstantTimeCompare([]byte(expected), []byte(code)) == 1 {
			return v.markUsed(accountID, counter)
		}
	}

	return ErrMFARejected
}

// markUsed records that accountID consumed a code for counter, refusing a
// second consumption of the same step.
func (v *MFAVerifier) markUsed(accountID int64, counter uint64) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	steps, ok := v.used[accountID]
	if !ok {
		steps = make(map[uint64]struct{})
		v.used[accountID] = steps
	}
	if _, replayed := steps[counter]; replayed {
		return ErrMFARejected
	}
	steps[counter] = struct{}{}
	return nil
}

// Sweep drops consumption records older than the acceptance window.
func (v *MFAVerifier) Sweep(now time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()

	current := uint64(now.Unix()) / uint64(v.step.Seconds())
	for accountID, steps := range v.used {
		for counter := range steps {
			if counter+1 < current {
				delete(steps, counter)
			}
		}
		if len(steps) == 0 {
			delete(v.used, accountID)
		}
	}
}

// hotp computes the RFC 4226 value for key and counter: HMAC-SHA1 over the
// big-endian counter, dynamic truncation, then the low decimal digits
// zero-padded to length.
func hotp(key []byte, counter uint64, digits int) string {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)

	mac := hmac.New(sha1.New, key)
	mac.Write(msg[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	value := binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7fffffff

	mod := uint32(1)
	for i := 0; i < digits; i++ {
		mod *= 10
	}

	return fmt.Sprintf("%0*d", digits, value%mod)
}
