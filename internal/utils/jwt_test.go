package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("s3cret", "box-office-1", RoleOperator, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.Exp, 5*time.Second)

	sub, role, err := ParseAccessToken("s3cret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "box-office-1", sub)
	assert.Equal(t, RoleOperator, role)
}

func TestParseAccessTokenRejects(t *testing.T) {
	tok, err := NewAccessToken("s3cret", "op", RoleOperator, time.Hour)
	require.NoError(t, err)

	_, _, err = ParseAccessToken("other", tok.Token)
	assert.Error(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "op", "role": RoleOperator, "exp": time.Now().Add(-time.Minute).Unix(),
	})
	raw, err := expired.SignedString([]byte("s3cret"))
	require.NoError(t, err)
	_, _, err = ParseAccessToken("s3cret", raw)
	assert.Error(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "op"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, _, err = ParseAccessToken("s3cret", none)
	assert.Error(t, err)
}

func TestNewAccessTokenValidatesInput(t *testing.T) {
	_, err := NewAccessToken("", "op", RoleOperator, time.Hour)
	assert.Error(t, err)
	_, err = NewAccessToken("s", "op", RoleOperator, 0)
	assert.Error(t, err)
}
