// Package session holds the bearer token and the identity derived from it.
package session

import (
	"fmt"
	"strings"

	"github.com/atinyakov/SportConnectIA/internal/client/storage"
	"github.com/atinyakov/SportConnectIA/internal/client/token"
)

// Storage keys owned by the session.
const (
	KeyToken = "token"
	KeyName  = "user_name"
	KeyEmail = "user_email"
)

// DefaultAdminEmail is the account treated as administrator when the token
// carries no is_admin claim.
//
// This trusts an unverified token and a fixed address. The auth service must
// enforce admin rights on its side; the client check only picks a landing page.
const DefaultAdminEmail = "dianaalarcon@teccart.com"

// Snapshot is the identity derived from the last stored token.
type Snapshot struct {
	Name  string
	Email string
}

// Store persists the session in a storage.Store.
type Store struct {
	st         storage.Store
	adminEmail string
	// onLogout lists extra keys removed together with the session, such as
	// the cached profile.
	onLogout []string
}

// Option configures a Store.
type Option func(*Store)

// WithAdminEmail overrides the fallback administrator address.
func WithAdminEmail(email string) Option {
	return func(s *Store) {
		if email = strings.TrimSpace(email); email != "" {
			s.adminEmail = email
		}
	}
}

// WithLogoutKeys registers additional storage keys cleared by Logout.
func WithLogoutKeys(keys ...string) Option {
	return func(s *Store) {
		s.onLogout = append(s.onLogout, keys...)
	}
}

// New returns a Store over st.
func New(st storage.Store, opts ...Option) *Store {
	s := &Store{st: st, adminEmail: DefaultAdminEmail}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetToken stores tok and the name/email derived from it. An empty tok
// clears the whole session.
func (s *Store) SetToken(tok string) error {
	tok = strings.TrimSpace(tok)
	err := s.st.Update(func(tx storage.Tx) error {
		if tok == "" {
			tx.Remove(KeyToken)
			tx.Remove(KeyName)
			tx.Remove(KeyEmail)
			return nil
		}
		claims := token.Decode(tok)
		tx.Set(KeyToken, tok)
		tx.Set(KeyName, claims.DisplayName())
		tx.Set(KeyEmail, claims.Email())
		return nil
	})
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Token returns the stored bearer token, or "".
func (s *Store) Token() string {
	tok, _ := s.st.Get(KeyToken)
	return tok
}

// IsAuthenticated reports whether a non-empty token is stored. The token is
// not decoded.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// IsAdmin decodes the stored token on every call.
func (s *Store) IsAdmin() bool {
	claims := token.Decode(s.Token())
	if claims == nil {
		return false
	}
	if v, ok := claims.Bool("is_admin"); ok {
		return v
	}
	for _, key := range []string{"email", "sub"} {
		if strings.EqualFold(claims.String(key), s.adminEmail) {
			return true
		}
	}
	return strings.EqualFold(claims.String("role"), "admin")
}

// Claims returns the decoded claims of the stored token, or nil.
func (s *Store) Claims() token.Claims {
	return token.Decode(s.Token())
}

// Snapshot returns the name and email saved by the last SetToken.
func (s *Store) Snapshot() Snapshot {
	name, _ := s.st.Get(KeyName)
	email, _ := s.st.Get(KeyEmail)
	return Snapshot{Name: name, Email: email}
}

// Logout removes the token, the identity snapshot and every registered
// logout key in one storage update. No service is called.
func (s *Store) Logout() error {
	err := s.st.Update(func(tx storage.Tx) error {
		tx.Remove(KeyToken)
		tx.Remove(KeyName)
		tx.Remove(KeyEmail)
		for _, k := range s.onLogout {
			tx.Remove(k)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
