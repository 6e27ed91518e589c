package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"userservice/internal/config"
	"userservice/internal/models"
)

const incorrectTokenMessage = "Incorrect token."

type Claims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

type TokenService interface {
	Issue(username, email string, now time.Time) (string, error)
	Verify(token string, now time.Time) error
}

type tokenService struct {
	cfg config.AuthConfig
}

func NewTokenService(cfg config.AuthConfig) TokenService {
	return &tokenService{cfg: cfg}
}

func (s *tokenService) Issue(username, email string, now time.Time) (string, error) {
	expiry := now.Add(time.Duration(s.cfg.TokenExpiryDays) * 24 * time.Hour)
	claims := &Claims{
		Username: username,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Audience:  jwt.ClaimStrings{s.cfg.AppName},
			Subject:   s.cfg.Subject,
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", models.NewApplicationError(err.Error())
	}
	return signed, nil
}

// Verify collapses every failure mode (bad signature, wrong issuer,
// audience or subject, expiry, malformed input) into one application
// error; callers never learn which check failed.
func (s *tokenService) Verify(tokenString string, now time.Time) error {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithAudience(s.cfg.AppName),
		jwt.WithSubject(s.cfg.Subject),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil || !token.Valid {
		return models.NewApplicationError(incorrectTokenMessage)
	}
	return nil
}
