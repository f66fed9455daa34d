package auth

import (
	"context"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/careervault/vault/internal/gateway"
)

// Session is the verified identity every gateway call runs under. Issuance
// lives with the external identity provider; the backend verifies the token.
// The session just holds the result, plus a locally assigned id for logs.
type Session struct {
	ID      string
	Email   string
	Name    string
	Picture string
	Token   string
}

// New builds an unverified session around a bare email. Used when the caller
// already knows the identity and no token exchange is wanted.
func New(email string) *Session {
	return &Session{ID: uuid.NewString(), Email: email}
}

// Claims are the display fields carried by a Google ID token.
type Claims struct {
	Email   string
	Name    string
	Picture string
}

// ParseClaimsUnverified extracts display claims from an ID token without
// checking the signature. Verification is the backend's job; this is only
// for filling in profile fields the verify call did not echo.
func ParseClaimsUnverified(idToken string) (*Claims, error) {
	parser := gojwt.NewParser()
	token, _, err := parser.ParseUnverified(idToken, gojwt.MapClaims{})
	if err != nil {
		return nil, err
	}

	mapClaims := token.Claims.(gojwt.MapClaims)

	claims := &Claims{}
	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}
	if name, ok := mapClaims["name"].(string); ok {
		claims.Name = name
	}
	if picture, ok := mapClaims["picture"].(string); ok {
		claims.Picture = picture
	}
	return claims, nil
}

// Establish exchanges an externally issued ID token for a verified session
// through the gateway. Profile fields missing from the verify response are
// filled from the token's own claims.
func Establish(ctx context.Context, gw gateway.SyncGateway, idToken string) (*Session, error) {
	identity, err := gw.VerifyIdentity(ctx, idToken)
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:      uuid.NewString(),
		Email:   identity.Email,
		Name:    identity.Name,
		Picture: identity.Picture,
		Token:   idToken,
	}
	if session.Name == "" || session.Picture == "" {
		if claims, err := ParseClaimsUnverified(idToken); err == nil {
			if session.Name == "" {
				session.Name = claims.Name
			}
			if session.Picture == "" {
				session.Picture = claims.Picture
			}
		}
	}
	return session, nil
}
