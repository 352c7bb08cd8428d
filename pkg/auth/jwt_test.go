package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret"
	testIssuer = "studyforge"
)

func signToken(t *testing.T, claims jwt.Claims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestNewJWTValidatorRequiresSecret(t *testing.T) {
	_, err := NewJWTValidator(JWTConfig{Issuer: testIssuer})
	assert.Error(t, err)
}

func TestValidateAcceptsSignedToken(t *testing.T) {
	v, err := NewJWTValidator(JWTConfig{SecretKey: testSecret, Issuer: testIssuer})
	require.NoError(t, err)

	token := signToken(t, Claims{
		Email: "student@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-42",
			Issuer:    testIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, testSecret)

	claims, err := v.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.UserID)
	assert.Equal(t, "student@example.com", claims.Email)
}

func TestValidateRejectsBadTokens(t *testing.T) {
	v, err := NewJWTValidator(JWTConfig{SecretKey: testSecret, Issuer: testIssuer})
	require.NoError(t, err)

	valid := jwt.RegisteredClaims{
		Subject:   "user-42",
		Issuer:    testIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	t.Run("garbage", func(t *testing.T) {
		_, err := v.Validate("not-a-token")
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := v.Validate(signToken(t, valid, "other-secret"))
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		claims := valid
		claims.Issuer = "someone-else"
		_, err := v.Validate(signToken(t, claims, testSecret))
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		claims := valid
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
		_, err := v.Validate(signToken(t, claims, testSecret))
		assert.Error(t, err)
	})

	t.Run("no expiry", func(t *testing.T) {
		claims := valid
		claims.ExpiresAt = nil
		_, err := v.Validate(signToken(t, claims, testSecret))
		assert.Error(t, err)
	})

	t.Run("no subject", func(t *testing.T) {
		claims := valid
		claims.Subject = ""
		_, err := v.Validate(signToken(t, claims, testSecret))
		assert.Error(t, err)
	})
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	token, err = ExtractBearerToken("bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	_, err = ExtractBearerToken("abc")
	assert.Error(t, err)

	_, err = ExtractBearerToken("Basic abc")
	assert.Error(t, err)
}

func TestUserContextRoundTrip(t *testing.T) {
	claims := &Claims{UserID: "user-42"}
	ctx := WithUser(context.Background(), claims)

	got, err := GetUserFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, claims, got)

	_, err = GetUserFromContext(context.Background())
	assert.Error(t, err)
}
