package utils

import (
	"errors"
	"strconv"
	"time"

	"github.com/Euroteck-developer/Reminder-App/types"

	"github.com/golang-jwt/jwt/v5"
)

var ErrEmptySecret = errors.New("jwt secret is empty")

// UserClaims mirrors the token issued by the auth service: {id, email, role_id, level}.
type UserClaims struct {
	ID     int64      `json:"id"`
	Email  string     `json:"email"`
	RoleID types.Role `json:"role_id"`
	Level  int        `json:"level"`
	jwt.RegisteredClaims
}

func (c *UserClaims) Actor() types.Actor {
	return types.Actor{
		ID:    c.ID,
		Email: c.Email,
		Role:  c.RoleID,
		Level: c.Level,
	}
}

func GenerateUserToken(secret string, actor types.Actor, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	now := time.Now()
	claims := UserClaims{
		ID:     actor.ID,
		Email:  actor.Email,
		RoleID: actor.Role,
		Level:  actor.Level,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   strconv.FormatInt(actor.ID, 10),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseUserToken(secret, tokenString string) (*UserClaims, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.ID == 0 {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
