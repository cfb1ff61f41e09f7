// Package pda derives Program Derived Addresses: SHA-256 digests of seed
// bytes, an optional bump seed and a program id that fall off the
// Edwards25519 curve and therefore have no private key.
package pda

import (
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/minio/sha256-simd"

	"solpda/address"
)

// Marker is appended to every candidate hash input.
const Marker = "ProgramDerivedAddress"

// MaxBump is where the bump search starts. Candidates are tried in
// descending order down to 0.
const MaxBump = 255

var pdaMarkerBytes = []byte(Marker)

// ErrNotFound is returned when no off-curve candidate exists: either the
// single no-bump candidate is on the curve, or every bump from 255 to 0 is.
var ErrNotFound = errors.New("cannot find PDA")

// Mode selects between a bump search and a single attempt without a bump.
type Mode int

const (
	SearchBump Mode = iota
	NoBump
)

func (m Mode) String() string {
	switch m {
	case SearchBump:
		return "bump"
	case NoBump:
		return "no-bump"
	default:
		return "unknown"
	}
}

// Result is a derived address and, in bump mode, the bump that produced it.
type Result struct {
	Address address.Address
	Bump    uint8
	HasBump bool
}

// Render formats the result as the address followed by ".BUMP" when a bump
// was used. asBytes selects the byte-list form over base-58.
func (r Result) Render(asBytes bool) string {
	s := r.Address.String()
	if asBytes {
		s = r.Address.FormatBytes()
	}
	if r.HasBump {
		s = fmt.Sprintf("%s.%d", s, r.Bump)
	}
	return s
}

func (r Result) String() string { return r.Render(false) }

// IsOnCurve reports whether b decodes to a point on Edwards25519.
// Non-canonical encodings of valid points count as on the curve.
func IsOnCurve(b address.Address) bool {
	_, err := new(edwards25519.Point).SetBytes(b[:])
	return err == nil
}

// Hash computes the candidate digest without a bump seed.
func Hash(seed []byte, program address.Address) address.Address {
	return hashCandidate(seed, nil, program)
}

// HashWithBump computes the candidate digest with a single bump byte
// inserted after the seed.
func HashWithBump(seed []byte, bump uint8, program address.Address) address.Address {
	return hashCandidate(seed, []byte{bump}, program)
}

func hashCandidate(seed, bump []byte, program address.Address) address.Address {
	hasher := sha256.New()

	// seeds, bump, program id, marker
	hasher.Write(seed)
	hasher.Write(bump)
	hasher.Write(program[:])
	hasher.Write(pdaMarkerBytes)

	var digest address.Address
	copy(digest[:], hasher.Sum(nil))
	return digest
}

// Create derives the address without a bump seed. It fails with ErrNotFound
// if the digest lands on the curve.
func Create(program address.Address, seed []byte) (address.Address, error) {
	digest := Hash(seed, program)
	if IsOnCurve(digest) {
		return address.Address{}, fmt.Errorf("%w: hash without bump seed is on curve, consider allowing bump seed", ErrNotFound)
	}
	return digest, nil
}

// Find searches bumps 255 down to 0 and returns the first off-curve digest.
func Find(program address.Address, seed []byte) (Result, error) {
	for bump := MaxBump; bump >= 0; bump-- {
		digest := HashWithBump(seed, uint8(bump), program)
		if IsOnCurve(digest) {
			continue
		}
		return Result{Address: digest, Bump: uint8(bump), HasBump: true}, nil
	}
	return Result{}, fmt.Errorf("%w: no viable bump seed", ErrNotFound)
}

// Derive runs Create or Find depending on mode.
func Derive(program address.Address, seed []byte, mode Mode) (Result, error) {
	if mode == NoBump {
		a, err := Create(program, seed)
		if err != nil {
			return Result{}, err
		}
		return Result{Address: a}, nil
	}
	return Find(program, seed)
}
