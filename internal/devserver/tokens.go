package devserver

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
	"github.com/topcv/jobboard"
)

const refreshCookieName = "refresh_token"

type principalContextKey struct{}

type accessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

var (
	errInvalidCredentials = &jobboard.ErrAuthentication{
		Code:    jobboard.CodeUnauthenticated,
		Message: "Invalid credentials",
	}
	errTokenExpired = &jobboard.ErrTokenExpired{
		Code:    jobboard.CodeTokenExpired,
		Message: "Token has expired",
	}
)

// issueAccessToken returns a signed HS256 token identifying user.
func (s *Server) issueAccessToken(user jobboard.User) (string, error) {
	now := s.now()
	claims := accessClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			ID:        uuid.NewV4().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.AccessTokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", errors.Wrap(err, "error signing access token")
	}
	return token, nil
}

// parseAccessToken verifies a token and returns its claims. Expiry is
// reported as a distinct error so clients know a refresh may help.
func (s *Server) parseAccessToken(tokenStr string) (*accessClaims, error) {
	claims := &accessClaims{}
	_, err := jwt.ParseWithClaims(
		tokenStr,
		claims,
		func(*jwt.Token) (interface{}, error) {
			return []byte(s.config.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, errTokenExpired
	}
	if err != nil {
		return nil, errInvalidCredentials
	}
	return claims, nil
}

// tokenAuth rejects requests that lack a valid bearer token and otherwise
// adds the caller's email address to the request context.
func (s *Server) tokenAuth(handle http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		headerValueParts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
		if len(headerValueParts) != 2 || headerValueParts[0] != "Bearer" {
			s.writeError(w, errInvalidCredentials)
			return
		}
		claims, err := s.parseAccessToken(headerValueParts[1])
		if err != nil {
			s.writeError(w, err)
			return
		}
		if s.isRevoked(claims.ID) {
			s.writeError(w, errInvalidCredentials)
			return
		}
		ctx := context.WithValue(r.Context(), principalContextKey{}, claims)
		handle(w, r.WithContext(ctx))
	}
}

func principalFromContext(ctx context.Context) *accessClaims {
	claims, _ := ctx.Value(principalContextKey{}).(*accessClaims)
	return claims
}

func (s *Server) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(
		w,
		&http.Cookie{
			Name:     refreshCookieName,
			Value:    token,
			Path:     BasePath,
			MaxAge:   int(s.config.RefreshTokenTTL.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		},
	)
}

func (s *Server) expireRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(
		w,
		&http.Cookie{
			Name:     refreshCookieName,
			Value:    "",
			Path:     BasePath,
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		},
	)
}

// newOTP returns a random six digit code.
func newOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", errors.Wrap(err, "error generating OTP")
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
