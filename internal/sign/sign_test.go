package sign

import (
	"crypto/sha512"
	"encoding/hex"
	"strings"
	"testing"
)

func TestNewSigner_RejectsEmptySecret(t *testing.T) {
	for _, secret := range []string{"", "   ", "\t\n"} {
		if _, err := NewSigner(secret); err != ErrNoSecret {
			t.Fatalf("NewSigner(%q) err = %v; want ErrNoSecret", secret, err)
		}
	}
	if s, err := NewSigner("sk_test"); err != nil || s == nil {
		t.Fatalf("NewSigner(valid) = (%v, %v)", s, err)
	}
}

func TestCanonicalize_SortedAndStable(t *testing.T) {
	cases := []struct {
		name    string
		payload map[string]string
		want    string
	}{
		{"empty", map[string]string{}, ""},
		{"single", map[string]string{"amount": "100.00"}, "amount=100.00"},
		{
			"sorted regardless of insertion order",
			map[string]string{
				"reference": "VTX-1",
				"amount":    "100.00",
				"currency":  "NGN",
				"email":     "a@b.c",
			},
			"amount=100.00&currency=NGN&email=a@b.c&reference=VTX-1",
		},
		{
			"values kept verbatim",
			map[string]string{"callback_url": "https://x.test/cb?a=1&b=2"},
			"callback_url=https://x.test/cb?a=1&b=2",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Canonicalize(tc.payload); got != tc.want {
				t.Fatalf("Canonicalize = %q; want %q", got, tc.want)
			}
			// same map, second pass: must be identical
			if again := Canonicalize(tc.payload); again != tc.want {
				t.Fatalf("Canonicalize not stable: %q vs %q", again, tc.want)
			}
		})
	}
}

func TestSign_MatchesManualDigest(t *testing.T) {
	s, err := NewSigner("secret-key")
	if err != nil {
		t.Fatal(err)
	}
	payload := map[string]string{"amount": "5.00", "currency": "NGN"}

	sum := sha512.Sum512([]byte("amount=5.00&currency=NGN" + "secret-key"))
	want := hex.EncodeToString(sum[:])

	if got := s.Sign(payload); got != want {
		t.Fatalf("Sign = %q; want %q", got, want)
	}
	if got := s.Sign(payload); len(got) != 128 || got != strings.ToLower(got) {
		t.Fatalf("signature not lowercase hex sha512: %q", got)
	}
}

func TestVerify(t *testing.T) {
	s, _ := NewSigner("secret-key")
	payload := map[string]string{"email": "a@b.c", "amount": "1.00"}
	sig := s.Sign(payload)

	if !s.Verify(payload, sig) {
		t.Fatal("Verify rejected its own signature")
	}
	if !s.Verify(payload, strings.ToUpper(sig)) {
		t.Fatal("Verify must be case-insensitive on hex")
	}
	if !s.Verify(payload, "  "+sig+"\n") {
		t.Fatal("Verify must tolerate surrounding whitespace")
	}
	if s.Verify(payload, sig[:127]+"0") {
		t.Fatal("Verify accepted a tampered signature")
	}
	tampered := map[string]string{"email": "a@b.c", "amount": "1.01"}
	if s.Verify(tampered, sig) {
		t.Fatal("Verify accepted a signature over a different payload")
	}
}

func TestSignBody_VerifyBody(t *testing.T) {
	s, _ := NewSigner("whsec")
	body := []byte(`{"reference":"VTX-1","status":"success"}`)
	sig := s.SignBody(body)

	if !s.VerifyBody(body, sig) {
		t.Fatal("VerifyBody rejected its own signature")
	}
	if s.VerifyBody([]byte(`{"reference":"VTX-1","status":"failed"}`), sig) {
		t.Fatal("VerifyBody accepted a signature over different bytes")
	}
	// SignBody must not mutate the caller's slice
	if string(body) != `{"reference":"VTX-1","status":"success"}` {
		t.Fatalf("SignBody mutated input: %q", body)
	}
}

func TestString_DoesNotLeakSecret(t *testing.T) {
	s, _ := NewSigner("topsecret")
	if got := s.String(); strings.Contains(got, "topsecret") {
		t.Fatalf("String leaked secret: %q", got)
	}
}
