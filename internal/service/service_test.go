package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/SportConnectIA/internal/client/profile"
	"github.com/atinyakov/SportConnectIA/internal/client/session"
	"github.com/atinyakov/SportConnectIA/internal/client/storage"
)

type call struct {
	Method string
	Path   string
	Body   any
}

// fakeAPI records every request and answers through respond.
type fakeAPI struct {
	calls   []call
	respond func(method, path string, body any) (any, error)
}

func (f *fakeAPI) do(method, path string, body, out any) error {
	f.calls = append(f.calls, call{Method: method, Path: path, Body: body})
	if f.respond == nil {
		return nil
	}
	v, err := f.respond(method, path, body)
	if err != nil || v == nil || out == nil {
		return err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func (f *fakeAPI) Get(_ context.Context, path string, out any) error {
	return f.do("GET", path, nil, out)
}

func (f *fakeAPI) Post(_ context.Context, path string, body, out any) error {
	return f.do("POST", path, body, out)
}

func (f *fakeAPI) Put(_ context.Context, path string, body, out any) error {
	return f.do("PUT", path, body, out)
}

func (f *fakeAPI) Delete(_ context.Context, path string, out any) error {
	return f.do("DELETE", path, nil, out)
}

func (f *fakeAPI) last(t *testing.T) call {
	t.Helper()
	require.NotEmpty(t, f.calls)
	return f.calls[len(f.calls)-1]
}

func mint(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

type fixture struct {
	st      storage.Store
	session *session.Store
	cache   *profile.Cache
}

func newFixture() fixture {
	st := storage.NewMemoryStorage()
	return fixture{
		st:      st,
		session: session.New(st, session.WithLogoutKeys(profile.Key)),
		cache:   profile.NewCache(st),
	}
}
