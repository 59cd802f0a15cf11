package auth

import (
	"testing"
	"time"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/domain/shared"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	svc, err := NewTokenService("secret", "storefront", time.Hour)
	require.NoError(t, err)

	token, err := svc.Issue(shared.Principal{ID: "user-1", IsAdmin: true})
	require.NoError(t, err)

	claims, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, shared.Principal{ID: "user-1", IsAdmin: true}, claims.Principal())
}

func TestParseRejects(t *testing.T) {
	svc, err := NewTokenService("secret", "storefront", time.Hour)
	require.NoError(t, err)
	other, err := NewTokenService("other-secret", "storefront", time.Hour)
	require.NoError(t, err)

	forged, err := other.Issue(shared.Principal{ID: "user-1"})
	require.NoError(t, err)
	_, err = svc.Parse(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)

	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := svc.Issue(shared.Principal{ID: "user-1"})
	require.NoError(t, err)
	svc.now = time.Now
	_, err = svc.Parse(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"userId": "user-1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Parse(none)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBearerToken(t *testing.T) {
	token, ok := BearerToken("Bearer abc.def")
	assert.True(t, ok)
	assert.Equal(t, "abc.def", token)

	_, ok = BearerToken("Basic abc")
	assert.False(t, ok)
	_, ok = BearerToken("Bearer ")
	assert.False(t, ok)

	_, err := NewTokenService("", "", 0)
	assert.Error(t, err)
}
