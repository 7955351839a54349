package password

import "testing"

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("correct horse battery")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatal("hash equals plaintext")
	}
	if !Verify("correct horse battery", hash) {
		t.Error("Verify rejected the right password")
	}
	if Verify("wrong password", hash) {
		t.Error("Verify accepted the wrong password")
	}
}

func TestHashToken(t *testing.T) {
	a := HashToken("token-a")
	b := HashToken("token-b")
	if a == b {
		t.Error("different tokens hashed to the same value")
	}
	if a != HashToken("token-a") {
		t.Error("hash is not deterministic")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"", false},
		{"short", false},
		{"1234567", false},
		{"12345678", true},
		{"a much longer passphrase", true},
	}

	for _, tt := range tests {
		if got := Valid(tt.password); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.password, got, tt.want)
		}
	}
}
