package utils

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// The signing secrets are read per call so they reflect the environment at
// request time rather than at package init, before godotenv has loaded.

func AccessTokenSecret() []byte {
	return []byte(os.Getenv("ACCESS_TOKEN_SECRET"))
}

func RefreshTokenSecret() []byte {
	return []byte(os.Getenv("REFRESH_TOKEN_SECRET"))
}

// Claims carries the authenticated user through both token types. The JTI is
// shared by an access/refresh pair so revoking one revokes both.
type Claims struct {
	UserID uuid.UUID `json:"uid"`
	jwt.RegisteredClaims
}

// GenerateJWT creates a signed HS256 token for the user.
func GenerateJWT(userID uuid.UUID, jti string, duration time.Duration, secret []byte) (string, error) {
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// VerifyJWT parses and validates a token string.
func VerifyJWT(tokenStr string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
