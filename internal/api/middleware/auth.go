package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dom/blog-platform/internal/api/response"
	"github.com/dom/blog-platform/internal/auth"
	"github.com/dom/blog-platform/internal/domain"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	UserIDKey   contextKey = "userID"
	UserRoleKey contextKey = "userRole"
)

const (
	MsgNoToken       = "Access denied, no token provided"
	MsgAccessExpired = "Access token expired, request a new one with refresh token"
	MsgAccessInvalid = "Access token invalid"
)

// TokenVerifier checks a signed token of the given kind and returns the
// identity it names.
type TokenVerifier interface {
	Verify(token string, kind auth.TokenKind) (uuid.UUID, error)
}

// Authenticate requires a valid access token and attaches its identity to
// the request context. It never consults the session registry.
func Authenticate(tokens TokenVerifier, resp *response.Responder, log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				resp.Fail(w, r, domain.KindAuthentication, MsgNoToken)
				return
			}

			userID, err := tokens.Verify(token, auth.AccessToken)
			if err != nil {
				msg := MsgAccessInvalid
				if errors.Is(err, auth.ErrTokenExpired) {
					msg = MsgAccessExpired
				}
				log.WithError(err).WithField("ip", r.RemoteAddr).Warn("Access token rejected")
				resp.Fail(w, r, domain.KindAuthentication, msg)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// OptionalAuthenticate attaches the identity when a valid access token is
// present and lets the request through anonymously otherwise.
func OptionalAuthenticate(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, ok := bearerToken(r); ok {
				if userID, err := tokens.Verify(token, auth.AccessToken); err == nil {
					r = r.WithContext(WithUserID(r.Context(), userID))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != "Bearer" {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}
