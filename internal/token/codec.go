// Package token encodes and decodes session-scoped authentication tokens.
// The codec is a pure transform: it verifies signatures and shape, never
// expiry or session existence. Those checks belong to the caller.
package token

import (
	"time"

	"github.com/aled/logistics-sandbox/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TTL is fixed at issuance; tokens are never extended.
const TTL = 14 * 24 * time.Hour

type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Issue signs a token embedding the demo guid, user id and the downstream
// ERP credential, expiring TTL from now.
func (c *Codec) Issue(demoGUID string, userID uuid.UUID, erpToken string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"guid": demoGUID,
		"sub":  userID.String(),
		"erp":  erpToken,
		"iat":  now.Unix(),
		"exp":  now.Add(TTL).Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(c.secret)
}

// Decode verifies the signature and unpacks the claims. Expired tokens
// decode successfully; callers decide what expiry means for the operation
// at hand.
func (c *Codec) Decode(encoding string) (*domain.AuthToken, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	tok, err := parser.Parse(encoding, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}

	guid, ok := claims["guid"].(string)
	if !ok || guid == "" {
		return nil, domain.ErrTokenInvalid
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}
	erpToken, ok := claims["erp"].(string)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	iat, ok := claims["iat"].(float64)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}

	return &domain.AuthToken{
		DemoGUID:  guid,
		UserID:    userID,
		ERPToken:  erpToken,
		IssuedAt:  time.Unix(int64(iat), 0),
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}
