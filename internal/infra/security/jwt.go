package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is what the session middleware needs about the caller. Tokens are
// issued by the external auth service; this service only parses them.
type Claims struct {
	UserID int64
	Email  string
	Name   string
	Phone  string
}

type JWTService struct {
	secret []byte
}

func NewJWTService(secret string) *JWTService {
	return &JWTService{secret: []byte(secret)}
}

type jwtClaims struct {
	UserID int64  `json:"uid"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	jwt.RegisteredClaims
}

func (s *JWTService) ParseToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*jwtClaims)
	if !ok || !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return &Claims{
		UserID: claims.UserID,
		Email:  claims.Email,
		Name:   claims.Name,
		Phone:  claims.Phone,
	}, nil
}

// GenerateToken exists for tests and local development; production tokens
// come from the auth service sharing the same secret.
func (s *JWTService) GenerateToken(userID int64, email, name, phone string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwtClaims{
		UserID: userID,
		Email:  email,
		Name:   name,
		Phone:  phone,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
