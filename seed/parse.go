package seed

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"solpda/address"
)

const (
	tagU8     = "u8"
	tagU16    = "u16"
	tagU32    = "u32"
	tagU64    = "u64"
	tagString = "String"
	tagPubkey = "Pubkey"
	tagSha256 = "Sha256"
)

var intWidths = map[string]int{
	tagU8:  8,
	tagU16: 16,
	tagU32: 32,
	tagU64: 64,
}

// Parse parses a single TAG[payload] literal. The payload runs from the
// first '[' to the final ']', so nested literals and strings containing
// brackets are kept intact.
func Parse(literal string) (Value, error) {
	if !strings.HasSuffix(literal, "]") {
		return nil, &LiteralError{Literal: literal, Err: errMissingBracket}
	}
	open := strings.IndexByte(literal, '[')
	if open < 0 {
		return nil, &LiteralError{Literal: literal, Err: errUnknownTag}
	}
	tag, payload := literal[:open], literal[open+1:len(literal)-1]

	if width, ok := intWidths[tag]; ok {
		values, err := parseInts(payload, width)
		if err != nil {
			return nil, &LiteralError{Literal: literal, Err: err}
		}
		return Ints{Width: width, Values: values}, nil
	}

	switch tag {
	case tagString:
		return Text(payload), nil
	case tagPubkey:
		a, err := address.FromBase58(payload)
		if err != nil {
			return nil, &LiteralError{Literal: literal, Err: err}
		}
		return Pubkey(a), nil
	case tagSha256:
		inner, err := Parse(payload)
		if err != nil {
			return nil, &LiteralError{Literal: literal, Err: err}
		}
		return Hash{Inner: inner}, nil
	}

	return nil, &LiteralError{Literal: literal, Err: fmt.Errorf("%w %q", errUnknownTag, tag)}
}

// parseInts parses a comma-separated list of decimal values that must each
// fit in width bits. Spaces are ignored.
func parseInts(payload string, width int) ([]uint64, error) {
	parts := strings.Split(strings.ReplaceAll(payload, " ", ""), ",")
	values := make([]uint64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseUint(p, 10, width)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return nil, fmt.Errorf("value %s out of range for u%d", p, width)
			}
			return nil, fmt.Errorf("invalid u%d value %q", width, p)
		}
		values = append(values, n)
	}
	return values, nil
}
