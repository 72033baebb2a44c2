// Package guard decides, per navigation, whether a view renders or the user
// is sent elsewhere.
//
// Decisions are pure functions of the session state and the requested path.
// State is never cached between navigations.
package guard

import (
	"fmt"
	"strings"
)

// Well-known paths.
const (
	PathHome       = "/"
	PathLogin      = "/login"
	PathRegister   = "/register"
	PathDashboard  = "/dashboard"
	PathOnboarding = "/onboarding"
	PathAdminUsers = "/admin/users"

	// AdminPrefix is the section exempt from the onboarding requirement in
	// the admin-aware variant.
	AdminPrefix = "/admin"
)

// Action is what the caller should do with a navigation.
type Action int

const (
	// Render shows the requested view.
	Render Action = iota
	// Redirect navigates to Decision.Target instead.
	Redirect
	// NotFound means no view exists for the path.
	NotFound
)

func (a Action) String() string {
	switch a {
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	case NotFound:
		return "not_found"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Decision is the outcome of evaluating a navigation.
type Decision struct {
	Action Action
	// Target is the path to render or redirect to.
	Target string
	// ReturnTo is the requested path, set on login redirects. It is the
	// normalized form: case, query and fragment are not kept, since every
	// route is lower-case and takes no query.
	ReturnTo string
}

func (d Decision) String() string {
	if d.Action == Redirect {
		if d.ReturnTo != "" {
			return fmt.Sprintf("redirect %s (from %s)", d.Target, d.ReturnTo)
		}
		return "redirect " + d.Target
	}
	return d.Action.String() + " " + d.Target
}

// State is the session state the Route Guard distinguishes.
type State int

const (
	Anonymous State = iota
	AuthenticatedNoProfile
	AuthenticatedWithProfile
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case AuthenticatedNoProfile:
		return "authenticated_no_profile"
	case AuthenticatedWithProfile:
		return "authenticated_with_profile"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Request is one navigation intent together with the state read for it.
type Request struct {
	Path          string
	Authenticated bool
	HasProfile    bool
	IsAdmin       bool
}

// StateOf reports the Route Guard state of req.
func StateOf(req Request) State {
	switch {
	case !req.Authenticated:
		return Anonymous
	case !req.HasProfile:
		return AuthenticatedNoProfile
	default:
		return AuthenticatedWithProfile
	}
}

// Guard evaluates protected and admin routes.
type Guard struct {
	// AdminAware exempts paths under AdminPrefix from the onboarding
	// requirement, since administrators may not have a fitness profile.
	AdminAware bool
}

// New returns the admin-aware Guard.
func New() Guard {
	return Guard{AdminAware: true}
}

// Evaluate applies the Route Guard to req.
func (g Guard) Evaluate(req Request) Decision {
	path := Normalize(req.Path)

	if !req.Authenticated {
		return Decision{Action: Redirect, Target: PathLogin, ReturnTo: path}
	}
	if !req.HasProfile && path != PathOnboarding && !(g.AdminAware && IsAdminPath(path)) {
		return Decision{Action: Redirect, Target: PathOnboarding}
	}
	return Decision{Action: Render, Target: path}
}

// EvaluateAdmin applies the Admin Guard to req. Unauthenticated users go to
// login like with Evaluate; authenticated non-admins go to the dashboard.
func (g Guard) EvaluateAdmin(req Request) Decision {
	path := Normalize(req.Path)

	if !req.Authenticated {
		return Decision{Action: Redirect, Target: PathLogin, ReturnTo: path}
	}
	if !req.IsAdmin {
		return Decision{Action: Redirect, Target: PathDashboard}
	}
	return Decision{Action: Render, Target: path}
}

// IsAdminPath reports whether path lies in the admin section.
func IsAdminPath(path string) bool {
	path = Normalize(path)
	return path == AdminPrefix || strings.HasPrefix(path, AdminPrefix+"/")
}

// Normalize lower-cases path, drops any query or fragment and the trailing
// slash. An empty path is the home path.
func Normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.ToLower(strings.TrimSpace(path))
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = PathHome
		}
	}
	return path
}
