package identity

import (
	"path/filepath"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, userID string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{UserID: userID})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestUserIDFromToken(t *testing.T) {
	token := signedToken(t, "u42")
	if got := UserID(token); got != "u42" {
		t.Errorf("UserID() = %q, want u42", got)
	}
}

// The resolver must not care which key signed the token; it reads the
// payload without verification.
func TestUserIDIgnoresSignature(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{UserID: "u7"})
	s, err := tok.SignedString([]byte("a-key-the-client-never-sees"))
	if err != nil {
		t.Fatal(err)
	}
	if got := UserID(s); got != "u7" {
		t.Errorf("UserID() = %q, want u7", got)
	}
}

func TestUserIDFailsSoft(t *testing.T) {
	for _, token := range []string{
		"",
		"garbage",
		"a.b",
		"not.base64.payload",
		"eyJhbGciOiJIUzI1NiJ9.%%%.sig",
	} {
		if got := UserID(token); got != "" {
			t.Errorf("UserID(%q) = %q, want empty", token, got)
		}
	}
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials")
	s := NewStore(path)

	if s.Token() != "" {
		t.Error("fresh store should have no token")
	}

	token := signedToken(t, "u1")
	if err := s.Save(token); err != nil {
		t.Fatal(err)
	}
	if got := s.Token(); got != token {
		t.Errorf("Token() = %q, want %q", got, token)
	}
	if got := s.UserID(); got != "u1" {
		t.Errorf("UserID() = %q, want u1", got)
	}

	s.Clear()
	if s.Token() != "" {
		t.Error("token survived Clear")
	}
	// Clearing twice must not panic.
	s.Clear()
}
