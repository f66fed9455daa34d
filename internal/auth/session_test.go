package auth

import (
	"context"
	"testing"

	"github.com/go-playground/assert/v2"
	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/careervault/vault/internal/gateway"
)

func signedToken(t *testing.T, claims gojwt.MapClaims) string {
	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

// verifyOnly stubs just the identity call; nothing else is reached.
type verifyOnly struct {
	gateway.SyncGateway
	identity gateway.Identity
	err      error
}

func (v verifyOnly) VerifyIdentity(ctx context.Context, idToken string) (gateway.Identity, error) {
	return v.identity, v.err
}

func TestParseClaimsUnverified(t *testing.T) {
	token := signedToken(t, gojwt.MapClaims{
		"email":   "user@test",
		"name":    "Test User",
		"picture": "https://pics.test/u.png",
	})

	claims, err := ParseClaimsUnverified(token)
	assert.Equal(t, err, nil)
	assert.Equal(t, claims.Email, "user@test")
	assert.Equal(t, claims.Name, "Test User")
	assert.Equal(t, claims.Picture, "https://pics.test/u.png")
}

func TestParseClaimsUnverifiedToleratesMissingFields(t *testing.T) {
	token := signedToken(t, gojwt.MapClaims{"email": "user@test"})

	claims, err := ParseClaimsUnverified(token)
	assert.Equal(t, err, nil)
	assert.Equal(t, claims.Email, "user@test")
	assert.Equal(t, claims.Name, "")
}

func TestParseClaimsUnverifiedRejectsGarbage(t *testing.T) {
	_, err := ParseClaimsUnverified("not-a-token")
	assert.NotEqual(t, err, nil)
}

func TestEstablishFillsProfileFromClaims(t *testing.T) {
	token := signedToken(t, gojwt.MapClaims{
		"email":   "user@test",
		"name":    "Test User",
		"picture": "https://pics.test/u.png",
	})
	gw := verifyOnly{identity: gateway.Identity{Email: "user@test"}}

	session, err := Establish(context.Background(), gw, token)
	assert.Equal(t, err, nil)
	assert.Equal(t, session.Email, "user@test")
	// fields the verify call did not echo come from the token claims
	assert.Equal(t, session.Name, "Test User")
	assert.Equal(t, session.Picture, "https://pics.test/u.png")
	assert.Equal(t, session.Token, token)
	assert.NotEqual(t, session.ID, "")
}

func TestNewAssignsDistinctIDs(t *testing.T) {
	a := New("user@test")
	b := New("user@test")
	assert.Equal(t, a.Email, "user@test")
	assert.NotEqual(t, a.ID, "")
	assert.NotEqual(t, a.ID, b.ID)
}

func TestEstablishPropagatesVerificationFailure(t *testing.T) {
	gw := verifyOnly{err: &gateway.Error{Kind: gateway.KindRejected, Op: "verify-identity"}}

	_, err := Establish(context.Background(), gw, "token")
	assert.NotEqual(t, err, nil)
	assert.Equal(t, gateway.KindOf(err), gateway.KindRejected)
}
