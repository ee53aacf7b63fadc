package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractBearerToken(t *testing.T) {
	token, ok := extractBearerToken("Bearer abc.def.ghi")
	assert.True(t, ok)
	assert.Equal(t, "abc.def.ghi", token)

	token, ok = extractBearerToken("bearer abc.def.ghi")
	assert.True(t, ok)
	assert.Equal(t, "abc.def.ghi", token)

	_, ok = extractBearerToken("")
	assert.False(t, ok)

	_, ok = extractBearerToken("Basic dXNlcjpwYXNz")
	assert.False(t, ok)

	_, ok = extractBearerToken("Bearer ")
	assert.False(t, ok)
}

func TestMiddlewareWithoutVerifierUsesDevAccount(t *testing.T) {
	e := echo.New()
	e.GET("/whoami", func(ctx echo.Context) error {
		return ctx.String(http.StatusOK, AccountID(ctx))
	}, Middleware(nil))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, DevAccountID, rec.Body.String())
}

func TestAccountIDDefaultsToEmpty(t *testing.T) {
	e := echo.New()
	ctx := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.Empty(t, AccountID(ctx))
}
