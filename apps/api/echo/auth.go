package echoapi

import (
	"context"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/Luis-AP/gespro/core/user"
)

var (
	// appJWTConfig is the default JWT auth middleware config.
	// The signing key is set from the app secret in NewServer.
	appJWTConfig = middleware.JWTConfig{
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    "userToken",
		Claims:        new(Claims),
	}

	jwtIssuer          string
	jwtExpirationDelta time.Duration
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Role        string `json:"role,omitempty"`
	UserID      int    `json:"user_id,omitempty"`
	StudentID   int    `json:"student_id,omitempty"`   // -> STUDENT endpoints
	ProfessorID int    `json:"professor_id,omitempty"` // -> PROFESSOR endpoints
}

func GetUserClaims(usr user.User) *Claims {
	now := time.Now()

	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    jwtIssuer,
			Subject:   strconv.Itoa(usr.ID),
			Audience:  "Gespro",
			ExpiresAt: now.Add(jwtExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Role:        usr.Role,
		UserID:      usr.ID,
		StudentID:   usr.StudentID,
		ProfessorID: usr.ProfessorID,
	}
	return claims
}

func authenticate(ctx context.Context, email, pwd string, svc user.ServiceInterface) (*Claims, error) {
	usr, err := svc.Authenticate(ctx, email, pwd)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return nil, errAuthenticationFailed
		}
		return nil, errors.Wrap(err, "authenticating user")
	}
	return GetUserClaims(usr), nil
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(appJWTConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(appJWTConfig.SigningKey)
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(appJWTConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}
