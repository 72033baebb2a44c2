package guard

// Source supplies the state a navigation is evaluated against. It is read
// afresh for every navigation.
type Source interface {
	IsAuthenticated() bool
	IsAdmin() bool
	HasProfile() bool
}

// Access is the protection level of a route.
type Access int

const (
	Public Access = iota
	Protected
	AdminOnly
)

// Route table of the application.
var routes = map[string]Access{
	PathHome:       Public,
	PathLogin:      Public,
	PathRegister:   Public,
	PathDashboard:  Protected,
	"/reco":        Protected,
	"/sports":      Protected,
	"/chat":        Protected,
	"/tracking":    Protected,
	PathOnboarding: Protected,
	PathAdminUsers: AdminOnly,
}

// aliases redirect unconditionally.
var aliases = map[string]string{
	"/home": PathHome,
}

// Lookup returns the access level of path.
func Lookup(path string) (Access, bool) {
	a, ok := routes[Normalize(path)]
	return a, ok
}

// Navigate resolves a navigation to any path: public views render,
// protected views go through Evaluate, admin views through Evaluate and then
// EvaluateAdmin, unknown paths are NotFound.
func (g Guard) Navigate(path string, src Source) Decision {
	path = Normalize(path)

	if target, ok := aliases[path]; ok {
		return Decision{Action: Redirect, Target: target}
	}
	access, ok := routes[path]
	if !ok {
		return Decision{Action: NotFound, Target: path}
	}
	if access == Public {
		return Decision{Action: Render, Target: path}
	}

	req := Request{
		Path:          path,
		Authenticated: src.IsAuthenticated(),
		HasProfile:    src.HasProfile(),
	}
	if d := g.Evaluate(req); d.Action != Render || access != AdminOnly {
		return d
	}
	req.IsAdmin = src.IsAdmin()
	return g.EvaluateAdmin(req)
}

// LandingAfterLogin picks the view shown after a successful login.
// Administrators land on user management. Others return to the page that
// sent them to login, or the dashboard / onboarding depending on whether a
// profile is cached.
func LandingAfterLogin(isAdmin, hasProfile bool, returnTo string) string {
	if isAdmin {
		return PathAdminUsers
	}
	if returnTo = Normalize(returnTo); returnTo != PathHome && returnTo != PathLogin && returnTo != PathRegister {
		if _, ok := routes[returnTo]; ok {
			return returnTo
		}
	}
	if hasProfile {
		return PathDashboard
	}
	return PathOnboarding
}

// LandingAfterRegister is the view shown after sign-up: a new account has
// no profile yet.
func LandingAfterRegister() string {
	return PathOnboarding
}
