package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/softgatehq/softgate/internal/common"
)

// Claims carries the reviewer identity inside a session token.
type Claims struct {
	jwt.RegisteredClaims
	ReviewerID string
	TeamID     string
}

// GenerateToken issues an HS256 session token for a reviewer.
func GenerateToken(reviewerID, teamID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		ReviewerID: reviewerID,
		TeamID:     teamID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken validates a session token and returns its claims.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
