// Package address holds the fixed-width 32-byte address used for program
// identifiers and derived addresses, and its textual forms: base-58 and the
// bracketed decimal byte list ("[1,2,3,...]") used by key files.
package address

import (
	"bytes"
	"crypto/subtle"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ed25519"
)

// Size is the length of an address in bytes.
const Size = 32

// KeypairSize is the length of a secret||public keypair as stored in key files.
const KeypairSize = ed25519.PrivateKeySize

var (
	ErrInvalidEncoding = errors.New("invalid address encoding")

	ErrInvalidBase58    = errors.New("invalid base58 encoding")
	ErrInvalidLength    = errors.New("invalid address length")
	ErrInvalidByteArray = errors.New("invalid byte array")
	ErrKeypairMismatch  = errors.New("public key does not match secret key")
)

// EncodingError reports text or bytes that could not be turned into an
// Address. It matches ErrInvalidEncoding and the specific cause in Err.
type EncodingError struct {
	Text string
	Err  error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("%v: %q", e.Err, e.Text)
}

func (e *EncodingError) Unwrap() error { return e.Err }

func (e *EncodingError) Is(target error) bool { return target == ErrInvalidEncoding }

// Address is a 32-byte program identifier or derived address. It is not
// required to be a curve point.
type Address [Size]byte

// FromBase58 decodes a base-58 address. Inputs that do not decode to exactly
// 32 bytes are rejected.
func FromBase58(text string) (Address, error) {
	var a Address
	b, err := base58.Decode(text)
	if err != nil || len(text) == 0 {
		return a, &EncodingError{Text: text, Err: ErrInvalidBase58}
	}
	if len(b) != Size {
		return a, &EncodingError{Text: text, Err: fmt.Errorf("%w: %d", ErrInvalidLength, len(b))}
	}
	copy(a[:], b)
	return a, nil
}

// FromBytes copies b into an Address. b must be exactly 32 bytes.
func FromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != Size {
		return a, &EncodingError{Text: formatByteList(b), Err: fmt.Errorf("%w: %d", ErrInvalidLength, len(b))}
	}
	copy(a[:], b)
	return a, nil
}

// ParseByteArray decodes a bracketed list of exactly 32 byte values.
func ParseByteArray(text string) (Address, error) {
	b, err := parseByteList(text)
	if err != nil {
		return Address{}, &EncodingError{Text: text, Err: err}
	}
	if len(b) != Size {
		return Address{}, &EncodingError{Text: text, Err: fmt.Errorf("%w: %d", ErrInvalidLength, len(b))}
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

// ParseKeypairArray decodes a bracketed 64-byte keypair, as found in key
// files, and returns its public half.
func ParseKeypairArray(text string) (Address, error) {
	b, err := parseByteList(text)
	if err != nil {
		return Address{}, &EncodingError{Text: text, Err: err}
	}
	a, err := FromKeypairBytes(b)
	if err != nil {
		return Address{}, &EncodingError{Text: text, Err: errors.Unwrap(err)}
	}
	return a, nil
}

// FromKeypairBytes extracts the public half of a secret||public keypair. The
// public key is re-derived from the secret seed and must match the stored one;
// a stored half that is a valid point but belongs to another key is rejected
// with ErrKeypairMismatch.
func FromKeypairBytes(keypair []byte) (Address, error) {
	if len(keypair) != KeypairSize {
		return Address{}, &EncodingError{
			Text: formatByteList(keypair),
			Err:  fmt.Errorf("%w: keypair has %d bytes, want %d", ErrInvalidLength, len(keypair), KeypairSize),
		}
	}
	priv := ed25519.NewKeyFromSeed(keypair[:ed25519.SeedSize])
	pub := priv.Public().(ed25519.PublicKey)
	if subtle.ConstantTimeCompare(pub, keypair[ed25519.SeedSize:]) != 1 {
		return Address{}, &EncodingError{Text: "<keypair>", Err: ErrKeypairMismatch}
	}
	var a Address
	copy(a[:], pub)
	return a, nil
}

// Parse resolves a textual program identifier: base-58 first, byte array
// second. The base-58 error is reported when neither form applies.
func Parse(text string) (Address, error) {
	a, err := FromBase58(text)
	if err == nil {
		return a, nil
	}
	if strings.HasPrefix(strings.TrimSpace(text), "[") {
		return ParseByteArray(text)
	}
	return Address{}, err
}

// String returns the base-58 encoding.
func (a Address) String() string {
	return base58.Encode(a[:])
}

// Bytes returns a copy of the raw bytes.
func (a Address) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, a[:])
	return b
}

// FormatBytes renders the address as "[b0,b1,...,b31]".
func (a Address) FormatBytes() string {
	return formatByteList(a[:])
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// IsZero reports whether every byte is zero.
func (a Address) IsZero() bool {
	return a == Address{}
}

// parseByteList parses "[v,v,...]" into bytes. Whitespace is ignored.
func parseByteList(text string) ([]byte, error) {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("%w: missing brackets", ErrInvalidByteArray)
	}
	s = strings.Join(strings.Fields(s[1:len(s)-1]), "")
	parts := strings.Split(s, ",")
	out := make([]byte, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: bad value %q", ErrInvalidByteArray, p)
		}
		out = append(out, byte(v))
	}
	return out, nil
}

func formatByteList(b []byte) string {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Itoa(int(v)))
	}
	buf.WriteByte(']')
	return buf.String()
}
