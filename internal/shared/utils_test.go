package shared

import (
	"encoding/base64"
	"encoding/hex"
	"testing"
)

func TestMakeRandHexString(t *testing.T) {
	t.Parallel()

	s, err := MakeRandHexString(16)
	if err != nil {
		t.Fatalf("MakeRandHexString error: %v", err)
	}
	if len(s) != 32 {
		t.Fatalf("expected 32 hex chars, got %d", len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		t.Fatalf("not valid hex: %v", err)
	}

	other, err := MakeRandHexString(16)
	if err != nil {
		t.Fatalf("MakeRandHexString error: %v", err)
	}
	if s == other {
		t.Fatalf("two random strings should differ")
	}
}

func TestMakeRandURLSafeString(t *testing.T) {
	t.Parallel()

	s, err := MakeRandURLSafeString(32)
	if err != nil {
		t.Fatalf("MakeRandURLSafeString error: %v", err)
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		t.Fatalf("not valid base64url: %v", err)
	}
	if len(b) != 32 {
		t.Fatalf("expected 32 decoded bytes, got %d", len(b))
	}
}

func TestGenerateRandByteArray(t *testing.T) {
	t.Parallel()

	b := GenerateRandByteArray(24)
	if len(b) != 24 {
		t.Fatalf("expected 24 bytes, got %d", len(b))
	}
}

func TestWipeByteArray(t *testing.T) {
	t.Parallel()

	b := []byte{1, 2, 3}
	WipeByteArray(b)
	for i, v := range b {
		if v != 0 {
			t.Fatalf("byte %d not wiped: %d", i, v)
		}
	}

	WipeByteArray(nil) // must not panic
}
