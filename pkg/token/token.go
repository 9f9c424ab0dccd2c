package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// resetClaims claims du jeton signé de réinitialisation de mot de passe.
// Le jeton est sans état : aucune ligne en base, la signature et l'expiration
// suffisent à le valider.
type resetClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// GenerateReset génère un jeton de réinitialisation signé HS256.
func GenerateReset(secret, userID, email string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("token: secret vide")
	}
	now := time.Now()
	claims := resetClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID: userID,
		Email:  email,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseReset valide le jeton et retourne userID et email. Erreur si le jeton
// est invalide, expiré ou signé avec un autre secret.
func ParseReset(secret, tokenString string) (userID, email string, err error) {
	if secret == "" {
		return "", "", fmt.Errorf("token: secret vide")
	}
	t, err := jwt.ParseWithClaims(tokenString, &resetClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("méthode de signature inattendue: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", "", err
	}
	claims, ok := t.Claims.(*resetClaims)
	if !ok || !t.Valid {
		return "", "", fmt.Errorf("claims invalides")
	}
	return claims.UserID, claims.Email, nil
}
