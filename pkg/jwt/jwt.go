package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jhoicas/Granja-api/internal/domain"
	"github.com/jhoicas/Granja-api/internal/domain/entity"
)

// ErrFarmRequired un token sin granja solo se emite para super_admin.
var ErrFarmRequired = errors.New("jwt: farm_id requerido salvo para super_admin")

// Claims incluye los claims estándar JWT más el alcance del portador.
// FarmID delimita todas las operaciones; Role super_admin las abre a cualquier granja.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	FarmID string `json:"farm_id"`
	Role   string `json:"role"` // "admin" | "operador" | "super_admin"
}

// Scope traduce los claims al alcance de datos que reciben los casos de uso.
func (c *Claims) Scope() domain.Scope {
	return domain.Scope{
		UserID:     c.UserID,
		FarmID:     c.FarmID,
		SuperAdmin: c.Role == entity.RoleSuperAdmin,
	}
}

func (c *Claims) check() error {
	if c.UserID == "" {
		return errors.New("jwt: user_id vacío")
	}
	if c.FarmID == "" && c.Role != entity.RoleSuperAdmin {
		return ErrFarmRequired
	}
	return nil
}

// Generate firma un token HS256 para el usuario y su granja.
func Generate(secret, userID, farmID, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID: userID,
		FarmID: farmID,
		Role:   role,
	}
	if err := claims.check(); err != nil {
		return "", err
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Parse valida firma, expiración y alcance del token y devuelve sus claims.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	if err := claims.check(); err != nil {
		return nil, err
	}
	return claims, nil
}
