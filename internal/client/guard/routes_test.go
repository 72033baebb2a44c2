package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeSource struct {
	auth, admin, profile bool
	adminCalls           int
}

func (f *fakeSource) IsAuthenticated() bool { return f.auth }
func (f *fakeSource) HasProfile() bool      { return f.profile }
func (f *fakeSource) IsAdmin() bool {
	f.adminCalls++
	return f.admin
}

func TestNavigate(t *testing.T) {
	tests := []struct {
		name string
		path string
		src  fakeSource
		want Decision
	}{
		{"public home", "/", fakeSource{}, Decision{Action: Render, Target: "/"}},
		{"public login", "/login", fakeSource{}, Decision{Action: Render, Target: "/login"}},
		{"home alias", "/home", fakeSource{}, Decision{Action: Redirect, Target: "/"}},
		{"unknown", "/nowhere", fakeSource{auth: true, profile: true}, Decision{Action: NotFound, Target: "/nowhere"}},
		{"protected anonymous", "/dashboard", fakeSource{}, Decision{Action: Redirect, Target: PathLogin, ReturnTo: "/dashboard"}},
		{"protected no profile", "/chat", fakeSource{auth: true}, Decision{Action: Redirect, Target: PathOnboarding}},
		{"onboarding no profile", "/onboarding", fakeSource{auth: true}, Decision{Action: Render, Target: PathOnboarding}},
		{"protected ok", "/reco", fakeSource{auth: true, profile: true}, Decision{Action: Render, Target: "/reco"}},
		{"admin anonymous", "/admin/users", fakeSource{}, Decision{Action: Redirect, Target: PathLogin, ReturnTo: PathAdminUsers}},
		{"admin non-admin", "/admin/users", fakeSource{auth: true, profile: true}, Decision{Action: Redirect, Target: PathDashboard}},
		{"admin non-admin without profile", "/admin/users", fakeSource{auth: true}, Decision{Action: Redirect, Target: PathDashboard}},
		{"admin ok without profile", "/admin/users", fakeSource{auth: true, admin: true}, Decision{Action: Render, Target: PathAdminUsers}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := tt.src
			assert.Equal(t, tt.want, New().Navigate(tt.path, &src))
		})
	}
}

func TestNavigate_AdminOnlyCheckedForAdminRoutes(t *testing.T) {
	src := &fakeSource{auth: true, profile: true}
	New().Navigate("/chat", src)
	assert.Zero(t, src.adminCalls)

	New().Navigate("/admin/users", src)
	assert.Equal(t, 1, src.adminCalls)
}

func TestNavigate_ReadsStateEveryTime(t *testing.T) {
	src := &fakeSource{auth: true}
	g := New()
	assert.Equal(t, Redirect, g.Navigate("/chat", src).Action)

	src.profile = true
	assert.Equal(t, Render, g.Navigate("/chat", src).Action)

	src.auth = false
	assert.Equal(t, PathLogin, g.Navigate("/chat", src).Target)
}

func TestLookup(t *testing.T) {
	a, ok := Lookup("/Admin/Users")
	assert.True(t, ok)
	assert.Equal(t, AdminOnly, a)

	_, ok = Lookup("/missing")
	assert.False(t, ok)
}

func TestLandingAfterLogin(t *testing.T) {
	assert.Equal(t, PathAdminUsers, LandingAfterLogin(true, false, "/chat"))
	assert.Equal(t, "/chat", LandingAfterLogin(false, true, "/chat"))
	assert.Equal(t, PathDashboard, LandingAfterLogin(false, true, ""))
	assert.Equal(t, PathOnboarding, LandingAfterLogin(false, false, ""))
	assert.Equal(t, PathDashboard, LandingAfterLogin(false, true, "/login"))
	assert.Equal(t, PathOnboarding, LandingAfterLogin(false, false, "/unknown"))
	assert.Equal(t, PathOnboarding, LandingAfterRegister())
}
