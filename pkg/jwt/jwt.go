package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims incluye los claims estándar JWT más el usuario, su empresa y sus roles.
// Los roles viajan en el token para que el middleware resuelva permisos sin consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	UserID     string   `json:"user_id"`
	BusinessID string   `json:"business_id"`
	Roles      []string `json:"roles"`
}

// Subject datos del usuario que se firman en el token.
type Subject struct {
	UserID     string
	BusinessID string
	Roles      []string
}

var errEmptySecret = errors.New("jwt: secret vacío")

// Generate genera un token HS256 firmado para el sujeto.
func Generate(secret string, sub Subject, issuer string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errEmptySecret
	}
	if sub.UserID == "" || sub.BusinessID == "" {
		return "", fmt.Errorf("jwt: usuario y empresa son obligatorios")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   sub.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:     sub.UserID,
		BusinessID: sub.BusinessID,
		Roles:      sub.Roles,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida firma y expiración y devuelve los claims.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, errEmptySecret
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	if claims.UserID == "" || claims.BusinessID == "" {
		return nil, fmt.Errorf("claims incompletos")
	}
	return claims, nil
}
