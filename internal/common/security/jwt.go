package security

import (
	"fmt"
	"time"

	"courseboard/internal/app/authz"
	"courseboard/internal/domain/model"
	"courseboard/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

var TokenAuth *jwtauth.JWTAuth

func InitJWT() {
	TokenAuth = jwtauth.New("HS256", config.AppConfig.JWTKey, nil)
}

// GenerateToken issues the bearer token for a principal. The role
// travels inside the token so the guard can run without a user lookup
// on every request.
func GenerateToken(userID string, role model.Role) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"exp":  now.Add(config.AppConfig.JWTExp).Unix(),
		"iat":  now.Unix(),
	}
	_, tokenString, err := TokenAuth.Encode(claims)
	return tokenString, err
}

// ActorFromClaims rebuilds the acting principal from verified claims.
// An unparseable role fails here rather than becoming an ambient string
// downstream.
func ActorFromClaims(claims map[string]interface{}) (authz.Actor, error) {
	id, ok := claims["sub"].(string)
	if !ok || id == "" {
		return authz.Actor{}, fmt.Errorf("sub claim is missing or not a string")
	}
	raw, ok := claims["role"].(string)
	if !ok {
		return authz.Actor{}, fmt.Errorf("role claim is missing or not a string")
	}
	role, err := model.ParseRole(raw)
	if err != nil {
		return authz.Actor{}, err
	}
	return authz.Actor{ID: id, Role: role}, nil
}
