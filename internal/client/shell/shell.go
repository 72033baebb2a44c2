// Package shell is the interactive front-end. Every page of the application
// is a command; the route guard decides whether a page renders or where the
// user is sent instead.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/atinyakov/SportConnectIA/internal/client/chat"
	"github.com/atinyakov/SportConnectIA/internal/client/guard"
	"github.com/atinyakov/SportConnectIA/internal/client/profile"
	"github.com/atinyakov/SportConnectIA/internal/client/session"
	"github.com/atinyakov/SportConnectIA/internal/service"
)

// maxRedirects bounds a redirect chain such as admin → dashboard → onboarding.
const maxRedirects = 5

// Services bundles the backends the pages call.
type Services struct {
	Auth     *service.AuthService
	Admin    *service.AdminService
	Profile  *service.ProfileService
	Reco     *service.RecoService
	Tracking *service.TrackingService
	Chat     *service.ChatService
	Sports   *service.SportsService
}

// Config wires a Shell.
type Config struct {
	In       io.Reader
	Out      io.Writer
	Session  *session.Store
	Profiles *profile.Cache
	Chats    *chat.Store
	Services Services
	Lang     string
	Logger   *zap.Logger
	// ReadPassword reads a secret without echo. Nil reads a plain line.
	ReadPassword func() (string, error)
}

// Shell is the read-eval-print loop.
type Shell struct {
	in       *bufio.Reader
	out      io.Writer
	session  *session.Store
	profiles *profile.Cache
	chats    *chat.Store
	svc      Services
	guard    guard.Guard
	lang     string
	log      *zap.Logger
	readPass func() (string, error)

	// current is the page last rendered.
	current string
	// returnTo is the protected page that last sent the user to login.
	returnTo string
}

// New returns a Shell positioned on the home page.
func New(cfg Config) *Shell {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Lang == "" {
		cfg.Lang = service.DefaultLang
	}
	return &Shell{
		in:       bufio.NewReader(cfg.In),
		out:      cfg.Out,
		session:  cfg.Session,
		profiles: cfg.Profiles,
		chats:    cfg.Chats,
		svc:      cfg.Services,
		guard:    guard.New(),
		lang:     cfg.Lang,
		log:      cfg.Logger,
		readPass: cfg.ReadPassword,
		current:  guard.PathHome,
	}
}

// Current returns the page last rendered.
func (s *Shell) Current() string { return s.current }

// state adapts the session and the profile cache to guard.Source. Nothing
// is cached: every navigation reads storage again.
type state struct {
	session  *session.Store
	profiles *profile.Cache
}

func (st state) IsAuthenticated() bool { return st.session.IsAuthenticated() }
func (st state) IsAdmin() bool         { return st.session.IsAdmin() }
func (st state) HasProfile() bool      { return st.profiles.Has() }

// commands maps page commands to their path.
var commands = map[string]string{
	"home":       guard.PathHome,
	"login":      guard.PathLogin,
	"register":   guard.PathRegister,
	"dashboard":  guard.PathDashboard,
	"onboarding": guard.PathOnboarding,
	"profile":    guard.PathOnboarding,
	"reco":       "/reco",
	"sports":     "/sports",
	"tracking":   "/tracking",
	"chat":       "/chat",
	"admin":      guard.PathAdminUsers,
}

const helpText = `Commandes :
  help                         cette aide
  open <chemin>                ouvrir une page (/, /login, /dashboard, ...)
  login | register | logout    session
  whoami                       utilisateur courant
  dashboard                    tableau de bord
  onboarding | profile         compléter le profil
  reco [generate]              recommandations IA
  sports [list|categories|category <nom>|search <q>]
  tracking [add <kg> [notes]]  suivi des mesures
  chat [<message>|new|list|use <id>|delete <id>]
  admin [users|create|edit <id>|delete <id>|notify <id>]
  exit`

// Run reads commands until exit or end of input.
func (s *Shell) Run(ctx context.Context) error {
	for {
		fmt.Fprintf(s.out, "sportconnect %s> ", s.current)
		line, err := s.in.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			if quit := s.Exec(ctx, line); quit {
				return nil
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(s.out)
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// Exec runs one command line. It reports whether the shell should stop.
func (s *Shell) Exec(ctx context.Context, line string) bool {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false
	}
	cmd, rest := strings.ToLower(args[0]), args[1:]

	switch cmd {
	case "help", "?":
		fmt.Fprintln(s.out, helpText)
	case "exit", "quit":
		fmt.Fprintln(s.out, "Au revoir")
		return true
	case "whoami":
		s.whoami()
	case "logout":
		s.banner(s.svc.Auth.Logout())
		s.returnTo = ""
		s.current = guard.PathHome
		fmt.Fprintln(s.out, "Déconnecté.")
	case "open":
		if len(rest) != 1 {
			fmt.Fprintln(s.out, "Usage: open <chemin>")
			return false
		}
		s.open(ctx, rest[0], nil)
	default:
		path, ok := commands[cmd]
		if !ok {
			fmt.Fprintf(s.out, "Commande inconnue : %s. Tapez 'help'.\n", cmd)
			return false
		}
		s.open(ctx, path, rest)
	}
	return false
}

// open navigates to path and renders the page reached. args only reach the
// page when it is the one requested; after a redirect the landing page
// renders with no arguments.
func (s *Shell) open(ctx context.Context, path string, args []string) {
	requested := guard.Normalize(path)
	target, ok := s.navigate(requested)
	if !ok {
		fmt.Fprintf(s.out, "Page introuvable : %s\n", target)
		return
	}
	if target != requested {
		args = nil
	}
	s.render(ctx, target, args)
}

// navigate follows guard redirects and returns the page to render, or false
// when the path has no page.
func (s *Shell) navigate(path string) (string, bool) {
	src := state{session: s.session, profiles: s.profiles}
	for range maxRedirects {
		d := s.guard.Navigate(path, src)
		s.log.Debug("navigate", zap.String("path", path), zap.Stringer("decision", d))
		switch d.Action {
		case guard.Render:
			s.current = d.Target
			return d.Target, true
		case guard.NotFound:
			return d.Target, false
		}
		if d.ReturnTo != "" {
			s.returnTo = d.ReturnTo
		}
		path = d.Target
	}
	return path, false
}

func (s *Shell) render(ctx context.Context, path string, args []string) {
	var err error
	switch path {
	case guard.PathHome:
		s.home()
	case guard.PathLogin:
		err = s.login(ctx)
	case guard.PathRegister:
		err = s.register(ctx)
	case guard.PathDashboard:
		s.dashboard(ctx)
	case guard.PathOnboarding:
		err = s.onboarding(ctx)
	case "/reco":
		err = s.reco(ctx, args)
	case "/sports":
		err = s.sports(ctx, args)
	case "/tracking":
		err = s.tracking(ctx, args)
	case "/chat":
		err = s.chat(ctx, args)
	case guard.PathAdminUsers:
		err = s.admin(ctx, args)
	}
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(s.out, "(annulé)")
		return
	}
	s.banner(err)
}

// banner prints err on one line.
func (s *Shell) banner(err error) {
	if err == nil {
		return
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	fmt.Fprintf(s.out, "! %s\n", msg)
	s.log.Debug("command failed", zap.Error(err))
}
