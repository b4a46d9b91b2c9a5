package jwt

import (
	"sync"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// BadgeClaims is what a decoded badge identity token carries. The same
// payload is rendered as the QR code the kiosk scans.
type BadgeClaims struct {
	EmployeeID   string
	EmployeeCode string
	FullName     string
}

type Service interface {
	GenerateBadgeToken(employeeID, employeeCode, fullName string) (token string, expiresAt int64, err error)
	DecodeBadgeToken(tokenString string) (*BadgeClaims, error)
	GenerateSSEToken(subject string) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (subject string, err error)
	JWTAuth() *jwtauth.JWTAuth
	RevokeToken(token string)
	IsTokenRevoked(token string) bool
}

type JWTService struct {
	secretKey                string
	badgeTokenExpirationTime string
	tokenAuth                *jwtauth.JWTAuth
	revokedTokens            map[string]int64
	mu                       sync.RWMutex
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, badgeTokenExpirationTime string) Service {
	return &JWTService{
		secretKey:                secretKey,
		badgeTokenExpirationTime: badgeTokenExpirationTime,
		tokenAuth:                jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:            make(map[string]int64),
	}
}

func (j *JWTService) GenerateBadgeToken(employeeID, employeeCode, fullName string) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.badgeTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"employee_id":   employeeID,
		"employee_code": employeeCode,
		"full_name":     fullName,
		"type":          "badge",
		"exp":           expiresAt,
	})
	return tokenString, expiresAt, err
}

// DecodeBadgeToken verifies the signature and returns the identity the
// token asserts.
func (j *JWTService) DecodeBadgeToken(tokenString string) (*BadgeClaims, error) {
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return nil, err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != "badge" {
		return nil, jwt.ErrInvalidJWT()
	}

	claims := &BadgeClaims{}
	if v, ok := token.Get("employee_id"); ok {
		claims.EmployeeID, _ = v.(string)
	}
	if v, ok := token.Get("employee_code"); ok {
		claims.EmployeeCode, _ = v.(string)
	}
	if v, ok := token.Get("full_name"); ok {
		claims.FullName, _ = v.(string)
	}
	if claims.EmployeeID == "" {
		return nil, jwt.ErrInvalidJWT()
	}

	return claims, nil
}

func (j *JWTService) RevokeToken(token string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.revokedTokens[token] = time.Now().Unix()
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}

// GenerateSSEToken generates a short-lived token for SSE connections
func (j *JWTService) GenerateSSEToken(subject string) (token string, expiresIn int, err error) {
	// SSE tokens are short-lived (5 minutes)
	expiresIn = 300
	expiresAt := time.Now().Add(5 * time.Minute).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"sub":  subject,
		"type": "sse",
		"exp":  expiresAt,
	})
	if err != nil {
		return "", 0, err
	}

	return tokenString, expiresIn, nil
}

// ValidateSSEToken validates an SSE token and returns its subject
func (j *JWTService) ValidateSSEToken(tokenString string) (subject string, err error) {
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != "sse" {
		return "", jwt.ErrInvalidJWT()
	}

	subVal, ok := token.Get("sub")
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}

	subject, ok = subVal.(string)
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}

	return subject, nil
}
