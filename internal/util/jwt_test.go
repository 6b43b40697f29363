package util

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("sam", "secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	username, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	require.Equal(t, "sam", username)
}

func TestParseJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT("sam", "secret")
	require.NoError(t, err)

	_, err = ParseJWT(token, "other")
	require.Error(t, err)
}

func TestParseJWTGarbage(t *testing.T) {
	_, err := ParseJWT("not.a.token", "secret")
	require.Error(t, err)
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "bearer token", header: "Bearer abc123", want: "abc123"},
		{name: "lowercase scheme", header: "bearer abc123", want: "abc123"},
		{name: "missing header", header: "", want: ""},
		{name: "wrong scheme", header: "Basic abc123", want: ""},
		{name: "no token", header: "Bearer", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			require.Equal(t, tt.want, ExtractToken(r))
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	require.NotEqual(t, "hunter2", hash)

	require.True(t, CheckPassword("hunter2", hash))
	require.False(t, CheckPassword("wrong", hash))
	require.False(t, CheckPassword("hunter2", "not-a-hash"))
}
