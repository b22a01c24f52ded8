package auth

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("longpassword1")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format: %q", hash)
	}

	if !VerifyPassword("longpassword1", hash) {
		t.Fatalf("correct password must verify")
	}
	if VerifyPassword("otherpassword", hash) {
		t.Fatalf("wrong password must not verify")
	}
}

func TestHashPassword_SaltIsFreshPerCall(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("samepassword")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	h2, err := HashPassword("samepassword")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("hashes of the same password must differ due to random salt")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"plainhash",
		"$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$ZGlnZXN0",
		"$argon2id$v=18$m=65536,t=1,p=4$c2FsdA$ZGlnZXN0",
		"$argon2id$v=19$m=banana,t=1,p=4$c2FsdA$ZGlnZXN0",
		"$argon2id$v=19$m=65536,t=1,p=4$!!!$ZGlnZXN0",
		"$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$!!!",
		"$argon2id$v=19$m=0,t=0,p=0$c2FsdA$ZGlnZXN0",
	}

	for _, c := range cases {
		if VerifyPassword("whatever", c) {
			t.Fatalf("malformed hash %q must not verify", c)
		}
	}
}
