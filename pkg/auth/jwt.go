package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// PatientClaims are the claims the patient portal issues with each session
// token. Token issuance itself happens in the identity provider; this service
// only validates.
type PatientClaims struct {
	PatientID string `json:"patient_id"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

type JWTService struct {
	secret      []byte
	expiryHours int
}

func NewJWTService(secret string, expiryHours int) *JWTService {
	return &JWTService{
		secret:      []byte(secret),
		expiryHours: expiryHours,
	}
}

// GenerateToken issues a patient session token. Used by tests and local
// tooling; production tokens come from the identity provider sharing the
// signing secret.
func (s *JWTService) GenerateToken(patientID uuid.UUID, email string) (string, error) {
	claims := PatientClaims{
		PatientID: patientID.String(),
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(s.expiryHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken parses and verifies a patient session token.
func (s *JWTService) ValidateToken(tokenString string) (*PatientClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &PatientClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*PatientClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
