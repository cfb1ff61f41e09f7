package address

import (
	"encoding/hex"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"golang.org/x/crypto/ed25519"
)

const tokenProgram = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"

func TestFromBase58_RoundTrip(t *testing.T) {
	a, err := FromBase58(tokenProgram)
	if err != nil {
		t.Fatalf("FromBase58 failed: %v", err)
	}
	if a.String() != tokenProgram {
		t.Errorf("round trip mismatch: %s != %s", a.String(), tokenProgram)
	}

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		var want Address
		rng.Read(want[:])
		if i == 0 {
			want = Address{} // leading zeros encode as '1'
		}
		got, err := FromBase58(want.String())
		if err != nil {
			t.Fatalf("decode of %s failed: %v", want, err)
		}
		if got != want {
			t.Fatalf("round trip mismatch for %x", want[:])
		}
	}
}

func TestFromBase58_SystemProgram(t *testing.T) {
	a, err := FromBase58("11111111111111111111111111111111")
	if err != nil {
		t.Fatalf("FromBase58 failed: %v", err)
	}
	if !a.IsZero() {
		t.Errorf("expected zero address, got %x", a[:])
	}
}

func TestFromBase58_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		cause error
	}{
		{"empty", "", ErrInvalidBase58},
		{"bad alphabet", "invalid-base58-!@#$", ErrInvalidBase58},
		{"zero char", "0OIl", ErrInvalidBase58},
		{"too short", "3yZe7d", ErrInvalidLength},
		{"too long", tokenProgram + "111", ErrInvalidLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromBase58(tt.input)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalidEncoding) {
				t.Errorf("expected ErrInvalidEncoding, got: %v", err)
			}
			if !errors.Is(err, tt.cause) {
				t.Errorf("expected %v, got: %v", tt.cause, err)
			}
			var encErr *EncodingError
			if !errors.As(err, &encErr) || encErr.Text != tt.input {
				t.Errorf("expected EncodingError carrying the input, got: %v", err)
			}
		})
	}
}

func TestByteArray_RoundTrip(t *testing.T) {
	a, err := FromBase58(tokenProgram)
	if err != nil {
		t.Fatal(err)
	}
	text := a.FormatBytes()
	if !strings.HasPrefix(text, "[6,221,246,225,") || !strings.HasSuffix(text, "]") {
		t.Errorf("unexpected byte rendering: %s", text)
	}
	if strings.Contains(text, " ") {
		t.Errorf("byte rendering must not contain spaces: %s", text)
	}

	got, err := ParseByteArray(text)
	if err != nil {
		t.Fatalf("ParseByteArray failed: %v", err)
	}
	if got != a {
		t.Errorf("round trip mismatch: %s != %s", got, a)
	}

	spaced := strings.ReplaceAll(text, ",", ", ")
	got, err = ParseByteArray(spaced)
	if err != nil {
		t.Fatalf("ParseByteArray with spaces failed: %v", err)
	}
	if got != a {
		t.Errorf("spaced round trip mismatch")
	}
}

func TestParseByteArray_Invalid(t *testing.T) {
	thirtyOne := "[" + strings.TrimSuffix(strings.Repeat("1,", 31), ",") + "]"
	thirtyThree := "[" + strings.TrimSuffix(strings.Repeat("1,", 33), ",") + "]"
	outOfRange := "[256" + strings.Repeat(",1", 31) + "]"

	tests := []struct {
		name  string
		input string
		cause error
	}{
		{"no brackets", "1,2,3", ErrInvalidByteArray},
		{"missing close", "[1,2,3", ErrInvalidByteArray},
		{"empty", "[]", ErrInvalidByteArray},
		{"short", thirtyOne, ErrInvalidLength},
		{"long", thirtyThree, ErrInvalidLength},
		{"out of range", outOfRange, ErrInvalidByteArray},
		{"not numeric", "[a" + strings.Repeat(",1", 31) + "]", ErrInvalidByteArray},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseByteArray(tt.input)
			if !errors.Is(err, ErrInvalidEncoding) {
				t.Errorf("expected ErrInvalidEncoding, got: %v", err)
			}
			if !errors.Is(err, tt.cause) {
				t.Errorf("expected %v, got: %v", tt.cause, err)
			}
		})
	}
}

// RFC 8032 section 7.1, test 1.
const (
	rfcSecret = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"
	rfcPublic = "d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a"
)

func rfcKeypair(t *testing.T) []byte {
	t.Helper()
	secret, _ := hex.DecodeString(rfcSecret)
	public, _ := hex.DecodeString(rfcPublic)
	return append(secret, public...)
}

func TestFromKeypairBytes(t *testing.T) {
	kp := rfcKeypair(t)
	a, err := FromKeypairBytes(kp)
	if err != nil {
		t.Fatalf("FromKeypairBytes failed: %v", err)
	}
	if hex.EncodeToString(a[:]) != rfcPublic {
		t.Errorf("public half mismatch: %x", a[:])
	}

	viaText, err := ParseKeypairArray(formatByteList(kp))
	if err != nil {
		t.Fatalf("ParseKeypairArray failed: %v", err)
	}
	if viaText != a {
		t.Errorf("text and byte keypair decoding disagree")
	}
}

func TestFromKeypairBytes_Invalid(t *testing.T) {
	kp := rfcKeypair(t)

	_, err := FromKeypairBytes(kp[:32])
	if !errors.Is(err, ErrInvalidLength) {
		t.Errorf("expected ErrInvalidLength for 32-byte input, got: %v", err)
	}

	tampered := append([]byte(nil), kp...)
	tampered[63] ^= 1
	_, err = FromKeypairBytes(tampered)
	if !errors.Is(err, ErrKeypairMismatch) {
		t.Errorf("expected ErrKeypairMismatch, got: %v", err)
	}

	// A valid public key that does not belong to the secret is still rejected.
	other := ed25519.NewKeyFromSeed(make([]byte, ed25519.SeedSize)).Public().(ed25519.PublicKey)
	swapped := append(append([]byte(nil), kp[:32]...), other...)
	_, err = FromKeypairBytes(swapped)
	if !errors.Is(err, ErrKeypairMismatch) {
		t.Errorf("expected ErrKeypairMismatch for a foreign public key, got: %v", err)
	}

	// A public key array is not a keypair.
	pub, _ := hex.DecodeString(rfcPublic)
	_, err = ParseKeypairArray(formatByteList(pub))
	if !errors.Is(err, ErrInvalidEncoding) || !errors.Is(err, ErrInvalidLength) {
		t.Errorf("expected invalid length encoding error, got: %v", err)
	}
}

func TestParse(t *testing.T) {
	want, _ := FromBase58(tokenProgram)

	got, err := Parse(tokenProgram)
	if err != nil || got != want {
		t.Errorf("Parse(base58) = %s, %v", got, err)
	}

	got, err = Parse(want.FormatBytes())
	if err != nil || got != want {
		t.Errorf("Parse(bytes) = %s, %v", got, err)
	}

	if _, err := Parse("not an address"); !errors.Is(err, ErrInvalidBase58) {
		t.Errorf("expected ErrInvalidBase58, got: %v", err)
	}
}

func TestText_Marshal(t *testing.T) {
	want, _ := FromBase58(tokenProgram)
	text, err := want.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	var got Address
	if err := got.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	if got != want {
		t.Errorf("text round trip mismatch")
	}
	if err := got.UnmarshalText([]byte("???")); err == nil {
		t.Error("expected error for invalid text")
	}
}

func TestFromBytes(t *testing.T) {
	if _, err := FromBytes(make([]byte, 31)); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("expected ErrInvalidLength, got: %v", err)
	}
	b := make([]byte, Size)
	b[0] = 7
	a, err := FromBytes(b)
	if err != nil {
		t.Fatal(err)
	}
	b[0] = 8
	if a[0] != 7 {
		t.Error("FromBytes must copy its input")
	}
	out := a.Bytes()
	out[0] = 9
	if a[0] != 7 {
		t.Error("Bytes must return a copy")
	}
}
