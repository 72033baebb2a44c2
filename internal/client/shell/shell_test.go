package shell

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atinyakov/SportConnectIA/internal/client/api"
	"github.com/atinyakov/SportConnectIA/internal/client/chat"
	"github.com/atinyakov/SportConnectIA/internal/client/guard"
	"github.com/atinyakov/SportConnectIA/internal/client/profile"
	"github.com/atinyakov/SportConnectIA/internal/client/session"
	"github.com/atinyakov/SportConnectIA/internal/client/storage"
	"github.com/atinyakov/SportConnectIA/internal/models"
	"github.com/atinyakov/SportConnectIA/internal/service"
)

// backend emulates the auth, sports, reco and chat services behind one
// server, using the gateway's path prefixes.
type backend struct {
	mu       sync.Mutex
	token    string
	answer   string
	failReco bool
	calls    []string
}

func (b *backend) record(r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, r.Method+" "+r.URL.Path)
}

func (b *backend) called(call string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.calls {
		if c == call {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *backend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"access_token": b.token})
	})
	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]string{"message": "Compte créé"})
	})
	mux.HandleFunc("GET /auth/me/notifications", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []models.Notification{{ID: 1, Title: "Bravo", Message: "Continue"}})
	})
	mux.HandleFunc("GET /auth/admin/users", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []models.User{{ID: 4, Email: "zoe@example.com", IsActive: true}})
	})
	mux.HandleFunc("DELETE /auth/admin/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /reco/profile", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	mux.HandleFunc("POST /reco/generate", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.RecoResponse{Answer: "Marche 30 minutes par jour."})
	})
	mux.HandleFunc("GET /reco/history/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []models.RecoItem{})
	})
	mux.HandleFunc("GET /reco/tracking/measurements", func(w http.ResponseWriter, r *http.Request) {
		w72 := 72.0
		writeJSON(w, http.StatusOK, []models.Measurement{{Date: "2024-05-01", WeightKg: &w72}})
	})
	mux.HandleFunc("POST /reco/tracking/measurements", func(w http.ResponseWriter, r *http.Request) {
		if b.failReco {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "db down"})
			return
		}
		writeJSON(w, http.StatusOK, models.MeasurementCreated{OK: true, ID: 12})
	})
	mux.HandleFunc("POST /chat/ask", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.AskResponse{Answer: b.answer})
	})
	mux.HandleFunc("GET /sports/recommendations", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.SportRecommendations{
			Category: "Yoga",
			Videos:   []models.SportVideo{{Title: "Yoga doux", Link: "https://video.test/1"}},
		})
	})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		mux.ServeHTTP(w, r)
	})
}

type harness struct {
	shell   *Shell
	out     *bytes.Buffer
	session *session.Store
	cache   *profile.Cache
	chats   *chat.Store
	backend *backend
}

func newHarness(t *testing.T, input string, b *backend) *harness {
	t.Helper()
	srv := httptest.NewServer(b.handler())
	t.Cleanup(srv.Close)

	st := storage.NewMemoryStorage()
	sess := session.New(st, session.WithLogoutKeys(profile.Key))
	cache := profile.NewCache(st)
	chats := chat.New(st, "")
	log := zap.NewNop()

	client := func(svc string) *api.Client {
		return api.NewClient(srv.URL+"/"+svc, srv.Client(), sess, log)
	}
	auth := client("auth")
	reco := client("reco")

	out := &bytes.Buffer{}
	sh := New(Config{
		In:       strings.NewReader(input),
		Out:      out,
		Session:  sess,
		Profiles: cache,
		Chats:    chats,
		Logger:   log,
		Services: Services{
			Auth:     service.NewAuthService(auth, sess, log),
			Admin:    service.NewAdminService(auth, sess),
			Profile:  service.NewProfileService(reco, sess, cache, log),
			Reco:     service.NewRecoService(reco, sess),
			Tracking: service.NewTrackingService(reco),
			Chat:     service.NewChatService(client("chat"), cache),
			Sports:   service.NewSportsService(client("sports"), cache),
		},
	})
	return &harness{shell: sh, out: out, session: sess, cache: cache, chats: chats, backend: b}
}

func mint(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)
	return tok
}

func (h *harness) loginAs(t *testing.T, claims jwt.MapClaims, withProfile bool) {
	t.Helper()
	require.NoError(t, h.session.SetToken(mint(t, claims)))
	if withProfile {
		_, err := h.cache.Save(profile.Profile{Age: profile.Ptr(30), Goal: profile.Ptr("Forme")})
		require.NoError(t, err)
	}
}

func TestShell_ProtectedPageReturnsAfterLogin(t *testing.T) {
	b := &backend{}
	b.token = mint(t, jwt.MapClaims{"sub": "ana@example.com", "email": "ana@example.com", "name": "Ana"})
	h := newHarness(t, "reco\nana@example.com\nsecret1\nexit\n", b)
	_, err := h.cache.Save(profile.Profile{Age: profile.Ptr(28)})
	require.NoError(t, err)

	require.NoError(t, h.shell.Run(context.Background()))

	out := h.out.String()
	assert.Contains(t, out, "Bienvenue, Ana !")
	assert.Contains(t, out, "Aucune recommandation")
	assert.Equal(t, "/reco", h.shell.Current())
	assert.True(t, b.called("GET /reco/history/ana@example.com"))
}

func TestShell_AdminLandsOnUsers(t *testing.T) {
	b := &backend{}
	b.token = mint(t, jwt.MapClaims{"email": "boss@example.com", "is_admin": true})
	h := newHarness(t, "login\nboss@example.com\nsecret1\n", b)

	require.NoError(t, h.shell.Run(context.Background()))

	assert.Equal(t, guard.PathAdminUsers, h.shell.Current())
	assert.Contains(t, h.out.String(), "zoe@example.com")
}

func TestShell_NewUserGoesThroughOnboarding(t *testing.T) {
	b := &backend{}
	b.token = mint(t, jwt.MapClaims{"email": "new@example.com", "name": "Nouveau"})
	input := strings.Join([]string{
		"register", "Nouveau", "new@example.com", "secret1", "secret1",
		// onboarding: age, weight, height, gender, activity, goal, days, minutes, level
		"31", "70,5", "180", "m", "", "Perte de poids", "3", "45", "debutant",
		"exit",
	}, "\n")
	h := newHarness(t, input, b)

	require.NoError(t, h.shell.Run(context.Background()))

	out := h.out.String()
	assert.Contains(t, out, "Compte créé")
	assert.Contains(t, out, "Profil enregistré.")
	assert.Contains(t, out, "Bonjour, Nouveau")
	assert.Equal(t, guard.PathDashboard, h.shell.Current())
	assert.True(t, b.called("POST /reco/profile"))

	p, ok := h.cache.Get()
	require.True(t, ok)
	assert.Equal(t, 31, *p.Age)
	assert.Equal(t, 70.5, *p.WeightKg)
	assert.Equal(t, "debutant", *p.Level)
	assert.Nil(t, p.Activity)
}

func TestShell_NonAdminIsSentToDashboard(t *testing.T) {
	h := newHarness(t, "", &backend{})
	h.loginAs(t, jwt.MapClaims{"email": "ana@example.com", "name": "Ana"}, true)

	h.shell.Exec(context.Background(), "admin")

	assert.Equal(t, guard.PathDashboard, h.shell.Current())
	out := h.out.String()
	assert.Contains(t, out, "Bonjour, Ana")
	assert.Contains(t, out, "Bravo")
	assert.NotContains(t, out, "!")
}

func TestShell_RedirectDropsArguments(t *testing.T) {
	h := newHarness(t, "", &backend{})
	h.loginAs(t, jwt.MapClaims{"email": "ana@example.com"}, false)

	// no profile: tracking redirects to onboarding, which prompts and hits EOF
	h.shell.Exec(context.Background(), "tracking add 70")

	assert.Equal(t, guard.PathOnboarding, h.shell.Current())
	assert.Contains(t, h.out.String(), "(annulé)")
	assert.False(t, h.backend.called("POST /reco/tracking/measurements"))
}

func TestShell_Chat(t *testing.T) {
	b := &backend{answer: "Bois de l'eau."}
	h := newHarness(t, "", b)
	h.loginAs(t, jwt.MapClaims{"email": "ana@example.com"}, true)
	ctx := context.Background()

	h.shell.Exec(ctx, "chat")
	assert.Contains(t, h.out.String(), "coach> "+chat.DefaultWelcome)

	h.shell.Exec(ctx, "chat comment récupérer ?")
	assert.Contains(t, h.out.String(), "coach> Bois de l'eau.")
	assert.Equal(t, []string{chat.DefaultID}, h.chats.List())
	assert.Len(t, h.chats.Messages(chat.DefaultID), 3)

	b.answer = ""
	h.shell.Exec(ctx, "chat encore")
	assert.Contains(t, h.out.String(), "coach> "+service.EmptyAnswer)

	h.shell.Exec(ctx, "chat new")
	assert.NotEqual(t, chat.DefaultID, h.chats.Active())
}

func TestShell_SportsAndTracking(t *testing.T) {
	b := &backend{}
	h := newHarness(t, "", b)
	h.loginAs(t, jwt.MapClaims{"email": "Ana@Example.com"}, true)
	ctx := context.Background()

	h.shell.Exec(ctx, "sports")
	assert.Contains(t, h.out.String(), "Catégorie : Yoga")
	assert.Contains(t, h.out.String(), "Yoga doux https://video.test/1")

	h.shell.Exec(ctx, "tracking add 71.5 après vacances")
	assert.Contains(t, h.out.String(), "Mesure enregistrée (#12).")
	assert.Contains(t, h.out.String(), "2024-05-01  72")

	b.failReco = true
	h.shell.Exec(ctx, "tracking add 71")
	assert.Contains(t, h.out.String(), "! add measurement: db down")
}

func TestShell_LogoutAndWhoami(t *testing.T) {
	h := newHarness(t, "", &backend{})
	h.loginAs(t, jwt.MapClaims{"email": "dianaalarcon@teccart.com", "name": "Diana"}, true)
	ctx := context.Background()

	h.shell.Exec(ctx, "whoami")
	assert.Contains(t, h.out.String(), "Diana <dianaalarcon@teccart.com> (administrateur)")

	h.shell.Exec(ctx, "logout")
	h.shell.Exec(ctx, "whoami")
	assert.Contains(t, h.out.String(), "Non connecté.")
	assert.False(t, h.cache.Has())
	assert.Equal(t, guard.PathHome, h.shell.Current())
}

func TestShell_UnknownInput(t *testing.T) {
	h := newHarness(t, "", &backend{})
	ctx := context.Background()

	assert.False(t, h.shell.Exec(ctx, "danse"))
	assert.Contains(t, h.out.String(), "Commande inconnue : danse")

	h.shell.Exec(ctx, "open /nope")
	assert.Contains(t, h.out.String(), "Page introuvable : /nope")

	h.shell.Exec(ctx, "open /home")
	assert.Equal(t, guard.PathHome, h.shell.Current())

	assert.True(t, h.shell.Exec(ctx, "exit"))
}

func TestShell_AdminDelete(t *testing.T) {
	b := &backend{}
	h := newHarness(t, "o\n", b)
	h.loginAs(t, jwt.MapClaims{"email": "x@example.com", "is_admin": true}, false)

	h.shell.Exec(context.Background(), "admin delete 4")

	assert.Contains(t, h.out.String(), "Utilisateur supprimé.")
	assert.True(t, b.called("DELETE /auth/admin/users/4"))
}

func TestShell_PasswordReader(t *testing.T) {
	b := &backend{}
	b.token = mint(t, jwt.MapClaims{"email": "ana@example.com"})
	h := newHarness(t, "ana@example.com\n", b)
	h.shell.readPass = func() (string, error) { return "secret1", nil }

	h.shell.Exec(context.Background(), "login")
	assert.True(t, h.session.IsAuthenticated())
	// no profile yet
	assert.Equal(t, guard.PathOnboarding, h.shell.Current())
}
