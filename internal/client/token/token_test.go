package token

import (
	"encoding/base64"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return s
}

func seg(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func TestDecode_Valid(t *testing.T) {
	raw := sign(t, jwt.MapClaims{"name": "Ana", "email": "ana@example.com", "is_admin": true})

	c := Decode(raw)
	require.NotNil(t, c)
	assert.Equal(t, "Ana", c.String("name"))
	assert.Equal(t, "ana@example.com", c.Email())
	v, ok := c.Bool("is_admin")
	assert.True(t, ok)
	assert.True(t, v)
}

func TestDecode_IgnoresSignatureAndAlg(t *testing.T) {
	raw := seg(`{"alg":"RS999"}`) + "." + seg(`{"sub":"bob@example.com"}`) + ".not-a-signature"

	c := Decode(raw)
	require.NotNil(t, c)
	assert.Equal(t, "bob@example.com", c.String("sub"))
}

func TestDecode_PaddedSegments(t *testing.T) {
	header := base64.URLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload := base64.URLEncoding.EncodeToString([]byte(`{"name":"Zoé"}`))

	c := Decode(header + "." + payload + ".sig")
	require.NotNil(t, c)
	assert.Equal(t, "Zoé", c.String("name"))
}

func TestDecode_Malformed(t *testing.T) {
	header := seg(`{"alg":"HS256"}`)
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"one segment", "abc"},
		{"two segments", header + "." + seg(`{"a":1}`)},
		{"four segments", header + "." + seg(`{"a":1}`) + ".s.extra"},
		{"bad base64", header + ".!!!.sig"},
		{"payload not json", header + "." + seg("hello") + ".sig"},
		{"payload is array", header + "." + seg(`[1,2]`) + ".sig"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Nil(t, Decode(tt.raw))
			})
		})
	}
}

func TestDecode_HeaderIgnored(t *testing.T) {
	body := seg(`{"email":"a@b.c","is_admin":true}`)
	tests := []struct {
		name   string
		header string
	}{
		{"short garbage", "xx"},
		{"not json", seg("not json")},
		{"empty", ""},
		{"not base64", "!!!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Decode(tt.header + "." + body + ".sig")
			require.NotNil(t, c)
			assert.Equal(t, "a@b.c", c.Email())
			v, ok := c.Bool("is_admin")
			assert.True(t, ok)
			assert.True(t, v)
		})
	}
}

func TestClaims_Bool_OnlyJSONBoolean(t *testing.T) {
	c := Claims{"is_admin": "true", "flag": false}

	_, ok := c.Bool("is_admin")
	assert.False(t, ok)
	v, ok := c.Bool("flag")
	assert.True(t, ok)
	assert.False(t, v)
	_, ok = c.Bool("missing")
	assert.False(t, ok)
}

func TestClaims_DisplayName(t *testing.T) {
	tests := []struct {
		name   string
		claims Claims
		want   string
	}{
		{"name first", Claims{"name": "Ana", "given_name": "A"}, "Ana"},
		{"given_name", Claims{"given_name": "Bea"}, "Bea"},
		{"fullname", Claims{"fullname": "Carla Diaz"}, "Carla Diaz"},
		{"sub local part", Claims{"sub": "dora@example.com"}, "dora"},
		{"sub without at", Claims{"sub": "42"}, "42"},
		{"empty name falls through", Claims{"name": "", "sub": "eva@x.io"}, "eva"},
		{"default", Claims{}, DefaultDisplayName},
		{"nil claims", nil, DefaultDisplayName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.claims.DisplayName())
		})
	}
}
