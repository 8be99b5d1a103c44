package token_test

import (
	"testing"
	"time"

	"github.com/aled/logistics-sandbox/internal/domain"
	"github.com/aled/logistics-sandbox/internal/token"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_RoundTrip(t *testing.T) {
	codec := token.NewCodec("test-secret")
	userID := uuid.New()

	encoded, err := codec.Issue("demo-guid-123", userID, "erp-cred-456")
	require.NoError(t, err)
	require.NotEmpty(t, encoded)

	decoded, err := codec.Decode(encoded)
	require.NoError(t, err)

	assert.Equal(t, "demo-guid-123", decoded.DemoGUID)
	assert.Equal(t, userID, decoded.UserID)
	assert.Equal(t, "erp-cred-456", decoded.ERPToken)
	assert.WithinDuration(t, decoded.IssuedAt.Add(token.TTL), decoded.ExpiresAt, time.Second)
	assert.False(t, decoded.Expired())
}

func TestCodec_Decode_Invalid(t *testing.T) {
	codec := token.NewCodec("test-secret")
	other := token.NewCodec("other-secret")

	valid, err := codec.Issue("guid", uuid.New(), "cred")
	require.NoError(t, err)

	tests := []struct {
		name     string
		encoding string
	}{
		{name: "empty", encoding: ""},
		{name: "garbage", encoding: "not-a-token"},
		{name: "tampered", encoding: valid + "x"},
		{name: "wrong secret", encoding: mustIssue(t, other, "guid")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Decode(tt.encoding)
			assert.ErrorIs(t, err, domain.ErrTokenInvalid)
		})
	}
}

// Expiry is not the codec's concern: an expired token still decodes, and
// the caller sees the expiry through the decoded record.
func TestCodec_Decode_ExpiredToken(t *testing.T) {
	codec := token.NewCodec("test-secret")
	userID := uuid.New()

	claims := jwt.MapClaims{
		"guid": "demo-guid",
		"sub":  userID.String(),
		"erp":  "erp-cred",
		"iat":  time.Now().Add(-15 * 24 * time.Hour).Unix(),
		"exp":  time.Now().Add(-24 * time.Hour).Unix(),
	}
	encoded, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	decoded, err := codec.Decode(encoded)
	require.NoError(t, err)
	assert.True(t, decoded.Expired())
	assert.Equal(t, userID, decoded.UserID)
}

func TestCodec_Decode_MissingClaims(t *testing.T) {
	claims := jwt.MapClaims{
		"sub": uuid.New().String(),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	encoded, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	codec := token.NewCodec("test-secret")
	_, err = codec.Decode(encoded)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func mustIssue(t *testing.T, codec *token.Codec, guid string) string {
	t.Helper()
	encoded, err := codec.Issue(guid, uuid.New(), "cred")
	require.NoError(t, err)
	return encoded
}
