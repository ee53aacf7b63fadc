// Package auth verifies bearer tokens issued by the identity provider and
// makes the authenticated account ID available to handlers. Token issuance
// itself is fully delegated; this package only validates signatures against
// the provider's JWKS endpoint.
package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/clearproof/api/internal/model"
	"github.com/clearproof/api/logging"
)

var log = logging.GetLogger().WithFields(logrus.Fields{"package": "auth"})

const (
	accountContextKey = "clearproof.account"
	defaultLeeway     = 30 * time.Second

	// DevAccountID is the fixed account used when auth is disabled for
	// local development.
	DevAccountID = "local-dev"
)

// Verifier validates bearer tokens against a JWKS endpoint.
type Verifier struct {
	keyfunc keyfunc.Keyfunc
	parser  *jwt.Parser
}

// NewVerifier builds a verifier for the given issuer and audience, with an
// optional JWKS URL override. When the override is empty, the standard
// discovery path under the issuer is used.
func NewVerifier(issuer, audience, jwksURL string) (*Verifier, error) {
	if issuer == "" {
		return nil, errors.New("an auth issuer is required")
	}
	if audience == "" {
		return nil, errors.New("an auth audience is required")
	}
	if !strings.HasSuffix(issuer, "/") {
		issuer += "/"
	}
	if jwksURL == "" {
		jwksURL = issuer + ".well-known/jwks.json"
	}

	keyProvider, err := keyfunc.NewDefault([]string{jwksURL})
	if err != nil {
		return nil, errors.Wrap(err, "unable to initialize the JWKS key provider")
	}

	parser := jwt.NewParser(
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithLeeway(defaultLeeway),
		jwt.WithValidMethods([]string{
			jwt.SigningMethodRS256.Name,
			jwt.SigningMethodRS384.Name,
			jwt.SigningMethodRS512.Name,
		}),
	)

	return &Verifier{keyfunc: keyProvider, parser: parser}, nil
}

// Verify parses and validates a token, returning the subject claim.
func (v *Verifier) Verify(tokenString string) (string, error) {
	token, err := v.parser.Parse(tokenString, v.keyfunc.Keyfunc)
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", errors.New("token has no subject")
	}
	return subject, nil
}

// Middleware enforces bearer-token auth and stores the account ID in the
// request context. A nil verifier disables enforcement and substitutes the
// development account.
func Middleware(verifier *Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if verifier == nil {
				ctx.Set(accountContextKey, DevAccountID)
				return next(ctx)
			}

			header := ctx.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := extractBearerToken(header)
			if !ok {
				return model.Error(ctx, "missing or malformed authorization header", http.StatusUnauthorized)
			}

			accountID, err := verifier.Verify(token)
			if err != nil {
				log.WithFields(logrus.Fields{"path": ctx.Request().URL.Path}).Debugf("token rejected: %s", err.Error())
				return model.Error(ctx, "invalid token", http.StatusUnauthorized)
			}

			ctx.Set(accountContextKey, accountID)
			return next(ctx)
		}
	}
}

// AccountID returns the authenticated account ID for a request, or an empty
// string on unauthenticated paths.
func AccountID(ctx echo.Context) string {
	if id, ok := ctx.Get(accountContextKey).(string); ok {
		return id
	}
	return ""
}

func extractBearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
