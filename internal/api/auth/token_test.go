package auth

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/zatekoja/localdeals/pkg/errors"
)

func TestTokenManager_IssueAndParse(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	token, err := m.Issue("user-1", true)
	require.NoError(t, err)

	id, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, &Identity{UserID: "user-1", Dealer: true}, id)
}

func TestTokenManager_Rejects(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	other := NewTokenManager("other-secret", time.Hour)

	foreign, err := other.Issue("user-1", false)
	require.NoError(t, err)

	expired := NewTokenManager("test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, err := expired.Issue("user-1", false)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", Issuer: "localdeals"},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":       "not-a-token",
		"wrong secret":  foreign,
		"expired":       stale,
		"unsigned none": none,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := m.Parse(token)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))
		})
	}
}

func TestIdentityContext(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))
	assert.Empty(t, UserID(context.Background()))

	ctx := WithIdentity(context.Background(), &Identity{UserID: "user-1"})
	assert.Equal(t, "user-1", UserID(ctx))
}

func TestCookieSettings(t *testing.T) {
	c := CookieSettings{Name: "jwt"}

	rec := httptest.NewRecorder()
	c.SetCookie(rec, "token", time.Hour)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "jwt", cookies[0].Name)
	assert.Equal(t, "token", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 3600, cookies[0].MaxAge)

	rec = httptest.NewRecorder()
	c.ClearCookie(rec)
	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
