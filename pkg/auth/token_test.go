package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/openshophq/openshop-backend/pkg/config"
	"github.com/openshophq/openshop-backend/pkg/enums"
)

func tokenConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "unit-test-secret-unit-test-secret",
		Issuer:            "openshop-test",
		ExpirationMinutes: 30,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := tokenConfig()
	userID := uuid.New()

	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID: userID,
		Type:   enums.UserTypeShopOwner,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user id %s got %s", userID, claims.UserID)
	}
	if claims.Type != enums.UserTypeShopOwner {
		t.Fatalf("expected shop_owner got %s", claims.Type)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	cfg := tokenConfig()

	token, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), AccessTokenPayload{
		UserID: uuid.New(),
		Type:   enums.UserTypeCustomer,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	mintCfg := tokenConfig()
	token, err := MintAccessToken(mintCfg, time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Type:   enums.UserTypeCustomer,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	parseCfg := mintCfg
	parseCfg.Issuer = "someone-else"
	if _, err := ParseAccessToken(parseCfg, token); err == nil {
		t.Fatal("expected issuer mismatch to be rejected")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	mintCfg := tokenConfig()
	token, err := MintAccessToken(mintCfg, time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Type:   enums.UserTypeCustomer,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	parseCfg := mintCfg
	parseCfg.Secret = "a-forged-secret-a-forged-secret"
	if _, err := ParseAccessToken(parseCfg, token); err == nil {
		t.Fatal("expected signature mismatch to be rejected")
	}
}
