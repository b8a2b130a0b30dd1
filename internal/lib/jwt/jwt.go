package jwt

import (
	"errors"
	"fmt"
	"time"

	"agri_trade/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// NewToken подписывает bearer токен сессии, jti это id сессии в redis
func NewToken(session models.Session, secret string) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["sub"] = session.AdminID.String()
	claims["email"] = session.Email
	claims["jti"] = session.ID
	claims["iat"] = time.Now().Unix()
	claims["exp"] = session.ExpiresAt.Unix()

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken проверяет подпись и срок, возвращает данные сессии из claims
func ParseToken(tokenString, secret string) (models.Session, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Session{}, ErrInvalidToken
	}

	sessionID, _ := claims["jti"].(string)
	email, _ := claims["email"].(string)
	sub, _ := claims["sub"].(string)
	if sessionID == "" {
		return models.Session{}, fmt.Errorf("%w: missing jti", ErrInvalidToken)
	}

	adminID, err := uuid.Parse(sub)
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: bad sub", ErrInvalidToken)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return models.Session{}, fmt.Errorf("%w: bad exp", ErrInvalidToken)
	}

	return models.Session{
		ID:        sessionID,
		AdminID:   adminID,
		Email:     email,
		ExpiresAt: exp.Time,
	}, nil
}
