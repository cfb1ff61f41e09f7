// Package seed parses and encodes typed seed literals.
//
// A literal is written TAG[payload]:
//
//	u8[1,2]        each value as one byte
//	u16[1,2]       each value as two little-endian bytes
//	u32[1,2]       each value as four little-endian bytes
//	u64[1,2]       each value as eight little-endian bytes
//	String[text]   the raw UTF-8 bytes of text
//	Pubkey[addr]   the 32 bytes of a base-58 address
//	Sha256[SEED]   the SHA-256 digest of the nested SEED's encoding
//
// The encodings of several literals are concatenated in order, with no
// length prefixes or separators.
package seed

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/minio/sha256-simd"

	"solpda/address"
)

var ErrMalformedLiteral = errors.New("malformed seed literal")

// ErrInvalidValue is returned by Validate for values that no literal could
// produce.
var ErrInvalidValue = errors.New("invalid seed value")

var (
	errMissingBracket = errors.New("missing closing bracket")
	errUnknownTag     = errors.New("unrecognized tag")
)

// LiteralError reports a literal that could not be parsed. It matches
// ErrMalformedLiteral; Err holds the cause.
type LiteralError struct {
	Literal string
	Err     error
}

func (e *LiteralError) Error() string {
	return fmt.Sprintf("invalid seed %q: %v", e.Literal, e.Err)
}

func (e *LiteralError) Unwrap() error { return e.Err }

func (e *LiteralError) Is(target error) bool { return target == ErrMalformedLiteral }

// Value is a parsed seed. AppendTo appends its encoding to dst.
type Value interface {
	AppendTo(dst []byte) []byte
	String() string
}

// Ints is a list of unsigned integers of a fixed bit width. Build it with
// NewInts or check it with Validate when the values do not come from Parse.
type Ints struct {
	Width  int // 8, 16, 32 or 64
	Values []uint64
}

// NewInts returns an Ints after checking the width and that every value fits.
func NewInts(width int, values ...uint64) (Ints, error) {
	v := Ints{Width: width, Values: values}
	if err := v.check(); err != nil {
		return Ints{}, err
	}
	return v, nil
}

func (v Ints) check() error {
	switch v.Width {
	case 8, 16, 32, 64:
	default:
		return fmt.Errorf("%w: unsupported integer width %d", ErrInvalidValue, v.Width)
	}
	for _, n := range v.Values {
		if v.Width < 64 && n>>v.Width != 0 {
			return fmt.Errorf("%w: value %d out of range for u%d", ErrInvalidValue, n, v.Width)
		}
	}
	return nil
}

// AppendTo encodes each value little-endian. Values wider than Width are
// truncated, so unchecked input should go through Validate first.
func (v Ints) AppendTo(dst []byte) []byte {
	for _, n := range v.Values {
		switch v.Width {
		case 8:
			dst = append(dst, byte(n))
		case 16:
			dst = binary.LittleEndian.AppendUint16(dst, uint16(n))
		case 32:
			dst = binary.LittleEndian.AppendUint32(dst, uint32(n))
		default:
			dst = binary.LittleEndian.AppendUint64(dst, n)
		}
	}
	return dst
}

func (v Ints) String() string {
	parts := make([]string, len(v.Values))
	for i, n := range v.Values {
		parts[i] = strconv.FormatUint(n, 10)
	}
	return fmt.Sprintf("u%d[%s]", v.Width, strings.Join(parts, ","))
}

// Text is a UTF-8 string seed.
type Text string

func (v Text) AppendTo(dst []byte) []byte { return append(dst, v...) }

func (v Text) String() string { return tagString + "[" + string(v) + "]" }

// Pubkey is an address seed.
type Pubkey address.Address

func (v Pubkey) AppendTo(dst []byte) []byte { return append(dst, v[:]...) }

func (v Pubkey) String() string { return tagPubkey + "[" + address.Address(v).String() + "]" }

// Hash replaces the encoding of Inner with its SHA-256 digest. A nil Inner
// hashes the empty input; Validate reports it as invalid.
type Hash struct {
	Inner Value
}

func (v Hash) AppendTo(dst []byte) []byte {
	var inner []byte
	if v.Inner != nil {
		inner = v.Inner.AppendTo(nil)
	}
	sum := sha256.Sum256(inner)
	return append(dst, sum[:]...)
}

func (v Hash) String() string {
	if v.Inner == nil {
		return tagSha256 + "[]"
	}
	return tagSha256 + "[" + v.Inner.String() + "]"
}

// Raw is an already-encoded seed. It has no literal form of its own.
type Raw []byte

func (v Raw) AppendTo(dst []byte) []byte { return append(dst, v...) }

func (v Raw) String() string { return "Raw[" + hex.EncodeToString(v) + "]" }

// Validate checks a value built in code: integer widths and ranges, and
// non-nil Sha256 inputs at any depth. Values returned by Parse always pass.
func Validate(v Value) error {
	switch v := v.(type) {
	case nil:
		return fmt.Errorf("%w: nil value", ErrInvalidValue)
	case Ints:
		return v.check()
	case Hash:
		if v.Inner == nil {
			return fmt.Errorf("%w: Sha256 without input", ErrInvalidValue)
		}
		return Validate(v.Inner)
	}
	return nil
}

// ValidateAll runs Validate on each value and reports the first failure.
func ValidateAll(values []Value) error {
	for i, v := range values {
		if err := Validate(v); err != nil {
			return fmt.Errorf("seed %d: %w", i, err)
		}
	}
	return nil
}

// Encode returns the byte encoding of a single value.
func Encode(v Value) []byte {
	return v.AppendTo(nil)
}

// EncodeAll concatenates the encodings of values in order.
func EncodeAll(values []Value) []byte {
	buf := []byte{}
	for _, v := range values {
		buf = v.AppendTo(buf)
	}
	return buf
}

// EncodeLiterals parses every literal and returns their concatenated
// encoding. The first malformed literal aborts the whole operation.
func EncodeLiterals(literals []string) ([]byte, error) {
	values, err := ParseAll(literals)
	if err != nil {
		return nil, err
	}
	return EncodeAll(values), nil
}

// ParseAll parses literals in order, stopping at the first error.
func ParseAll(literals []string) ([]Value, error) {
	values := make([]Value, 0, len(literals))
	for _, lit := range literals {
		v, err := Parse(lit)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}
