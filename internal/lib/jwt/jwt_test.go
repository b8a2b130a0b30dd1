package jwt_test

import (
	"testing"
	"time"

	"agri_trade/internal/domain/models"
	"agri_trade/internal/lib/jwt"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestNewTokenAndParse(t *testing.T) {
	session := models.Session{
		ID:        uuid.NewString(),
		AdminID:   uuid.New(),
		Email:     "admin@example.com",
		ExpiresAt: time.Now().Add(time.Hour).Truncate(time.Second),
	}

	token, err := jwt.NewToken(session, secret)
	require.NoError(t, err)

	got, err := jwt.ParseToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, session.AdminID, got.AdminID)
	assert.Equal(t, session.Email, got.Email)
	assert.True(t, session.ExpiresAt.Equal(got.ExpiresAt))
}

func TestParseToken_Errors(t *testing.T) {
	valid := models.Session{
		ID:        uuid.NewString(),
		AdminID:   uuid.New(),
		Email:     "admin@example.com",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	expired := valid
	expired.ExpiresAt = time.Now().Add(-time.Hour)

	validToken, err := jwt.NewToken(valid, secret)
	require.NoError(t, err)
	expiredToken, err := jwt.NewToken(expired, secret)
	require.NoError(t, err)

	noneToken, err := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, jwtlib.MapClaims{
		"jti": valid.ID,
		"sub": valid.AdminID.String(),
		"exp": valid.ExpiresAt.Unix(),
	}).SignedString(jwtlib.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{name: "wrong secret", token: validToken, secret: "other"},
		{name: "expired", token: expiredToken, secret: secret},
		{name: "alg none", token: noneToken, secret: secret},
		{name: "garbage", token: "not.a.token", secret: secret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := jwt.ParseToken(tt.token, tt.secret)
			assert.ErrorIs(t, err, jwt.ErrInvalidToken)
		})
	}
}
