// Package token turns a bearer token into the claims carried by its payload.
//
// The signature is never verified: the client only reads identity hints
// (name, email, admin flag) out of a token the auth service handed it.
package token

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultDisplayName is used when a token carries no usable name.
const DefaultDisplayName = "Utilisateur"

// Claims is the decoded payload of a token.
type Claims map[string]any

var parser = jwt.NewParser(jwt.WithPaddingAllowed())

// Decode parses raw as a three-segment token and returns its payload.
// Only the middle segment matters; any failure to read it returns nil.
func Decode(raw string) Claims {
	raw = strings.TrimSpace(raw)
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return nil
	}

	claims := jwt.MapClaims{}
	_, _, err := parser.ParseUnverified(raw, claims)
	switch {
	case err == nil, errors.Is(err, jwt.ErrTokenUnverifiable):
		// an unknown or missing alg only matters for verification
		return Claims(claims)
	default:
		return payload(parts[1])
	}
}

// payload decodes a claims segment on its own, for tokens whose header
// does not parse.
func payload(seg string) Claims {
	b, err := parser.DecodeSegment(seg)
	if err != nil {
		return nil
	}
	claims := jwt.MapClaims{}
	if err := json.Unmarshal(b, &claims); err != nil || claims == nil {
		return nil
	}
	return Claims(claims)
}

// Has reports whether key is present.
func (c Claims) Has(key string) bool {
	_, ok := c[key]
	return ok
}

// String returns the claim as a string, or "" when absent or not a string.
func (c Claims) String(key string) string {
	s, _ := c[key].(string)
	return s
}

// Bool returns the claim when it is a JSON boolean.
func (c Claims) Bool(key string) (value, ok bool) {
	value, ok = c[key].(bool)
	return value, ok
}

// DisplayName picks the first usable name claim.
func (c Claims) DisplayName() string {
	for _, key := range []string{"name", "given_name", "fullname"} {
		if v := c.String(key); v != "" {
			return v
		}
	}
	if sub := c.String("sub"); sub != "" {
		if local, _, _ := strings.Cut(sub, "@"); local != "" {
			return local
		}
	}
	return DefaultDisplayName
}

// Email returns the email claim or "".
func (c Claims) Email() string {
	return c.String("email")
}
