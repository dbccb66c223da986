package jwt

import (
	"errors"
	"time"

	"github.com/cmlabs-hris/hris-engine/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const tokenTypeAccess = "access"

var (
	ErrInvalidToken  = errors.New("invalid or expired token")
	ErrInvalidClaims = errors.New("token claims are missing or malformed")
)

type Service interface {
	GenerateAccessToken(actor user.Actor, email string) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
	now                   func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpiration time.Duration) *JWTService {
	return &JWTService{
		accessTokenExpiration: accessTokenExpiration,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                   time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(actor user.Actor, email string) (token string, expiresAt int64, err error) {
	if !actor.Role.Valid() {
		return "", 0, ErrInvalidClaims
	}
	expiresAt = j.now().Add(j.accessTokenExpiration).Unix()

	claims := map[string]interface{}{
		"user_id":     actor.UserID,
		"email":       email,
		"employee_id": actor.EmployeeID,
		"role":        string(actor.Role),
		"type":        tokenTypeAccess,
		"exp":         expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// IsAccessToken reports whether claims carry the access token type.
func IsAccessToken(claims map[string]interface{}) bool {
	tokenType, ok := claims["type"].(string)
	return ok && tokenType == tokenTypeAccess
}

// ActorFromClaims rebuilds the caller from verified token claims. A missing
// employee_id is allowed for accounts without an employee profile.
func ActorFromClaims(claims map[string]interface{}) (user.Actor, error) {
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return user.Actor{}, ErrInvalidClaims
	}

	roleStr, ok := claims["role"].(string)
	if !ok || !user.Role(roleStr).Valid() {
		return user.Actor{}, ErrInvalidClaims
	}

	employeeID, _ := claims["employee_id"].(string)

	return user.Actor{
		UserID:     userID,
		EmployeeID: employeeID,
		Role:       user.Role(roleStr),
	}, nil
}
