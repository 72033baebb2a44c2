package shell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/atinyakov/SportConnectIA/internal/client/chat"
	"github.com/atinyakov/SportConnectIA/internal/client/guard"
	"github.com/atinyakov/SportConnectIA/internal/client/profile"
	"github.com/atinyakov/SportConnectIA/internal/models"
	"github.com/atinyakov/SportConnectIA/internal/service"
)

func (s *Shell) home() {
	fmt.Fprintln(s.out, "SportConnectIA : ton coach sportif personnel.")
	if s.session.IsAuthenticated() {
		fmt.Fprintf(s.out, "Connecté en tant que %s. Tapez 'dashboard'.\n", s.session.Snapshot().Name)
		return
	}
	fmt.Fprintln(s.out, "Tapez 'login' ou 'register' pour commencer.")
}

func (s *Shell) whoami() {
	if !s.session.IsAuthenticated() {
		fmt.Fprintln(s.out, "Non connecté.")
		return
	}
	snap := s.session.Snapshot()
	role := "utilisateur"
	if s.session.IsAdmin() {
		role = "administrateur"
	}
	fmt.Fprintf(s.out, "%s <%s> (%s)\n", snap.Name, snap.Email, role)
}

// landOn opens the page reached after a successful sign-in.
func (s *Shell) landOn(ctx context.Context, path string) {
	s.returnTo = ""
	s.open(ctx, path, nil)
}

func (s *Shell) login(ctx context.Context) error {
	email, err := s.ask("Email")
	if err != nil {
		return err
	}
	pw, err := s.askPassword("Mot de passe")
	if err != nil {
		return err
	}
	if _, err := s.svc.Auth.Login(ctx, email, pw); err != nil {
		return err
	}

	fmt.Fprintf(s.out, "Bienvenue, %s !\n", s.session.Snapshot().Name)
	s.landOn(ctx, guard.LandingAfterLogin(s.session.IsAdmin(), s.profiles.Has(), s.returnTo))
	return nil
}

func (s *Shell) register(ctx context.Context) error {
	var in service.RegisterInput
	var err error
	if in.Name, err = s.ask("Nom"); err != nil {
		return err
	}
	if in.Email, err = s.ask("Email"); err != nil {
		return err
	}
	if in.Password, err = s.askPassword("Mot de passe"); err != nil {
		return err
	}
	if in.Confirm, err = s.askPassword("Confirmation"); err != nil {
		return err
	}

	resp, err := s.svc.Auth.Register(ctx, in)
	if err != nil {
		return err
	}
	if resp.Message != "" {
		fmt.Fprintln(s.out, resp.Message)
	}
	s.landOn(ctx, guard.LandingAfterRegister())
	return nil
}

func (s *Shell) dashboard(ctx context.Context) {
	fmt.Fprintf(s.out, "Bonjour, %s 👋\n", s.session.Snapshot().Name)
	if p, ok := s.profiles.Get(); ok {
		fmt.Fprintf(s.out, "Profil : %s\n", describeProfile(p))
	}

	notes, err := s.svc.Admin.MyNotifications(ctx)
	if err != nil {
		s.log.Warn("notifications unavailable", zap.Error(err))
		return
	}
	if len(notes) == 0 {
		return
	}
	fmt.Fprintf(s.out, "Notifications (%d) :\n", len(notes))
	for _, n := range notes {
		mark := " "
		if !n.IsRead {
			mark = "*"
		}
		fmt.Fprintf(s.out, " %s %s : %s\n", mark, n.Title, n.Message)
	}
}

func describeProfile(p *profile.Profile) string {
	var parts []string
	add := func(label, v string) {
		if v != "" {
			parts = append(parts, label+v)
		}
	}
	add("âge ", showInt(p.Age))
	add("poids ", showFloat(p.WeightKg))
	add("taille ", showFloat(p.HeightCm))
	add("objectif ", showString(p.Goal))
	add("niveau ", showString(p.Level))
	add("jours/semaine ", showInt(p.DaysPerWeek))
	add("minutes/séance ", showInt(p.MinutesPerSession))
	if len(parts) == 0 {
		return "vide"
	}
	return strings.Join(parts, ", ")
}

var levels = []string{profile.LevelBeginner, profile.LevelIntermediate, profile.LevelAdvanced}

func (s *Shell) onboarding(ctx context.Context) error {
	cur, _ := s.profiles.Get()
	if cur == nil {
		cur = &profile.Profile{}
	}
	fmt.Fprintln(s.out, "Complète ton profil (Entrée conserve la valeur).")

	var (
		p   profile.Profile
		v   string
		err error
	)
	if v, err = s.askDefault("Âge", showInt(cur.Age)); err != nil {
		return err
	}
	if p.Age, err = optInt(v); err != nil {
		return err
	}
	if v, err = s.askDefault("Poids (kg)", showFloat(cur.WeightKg)); err != nil {
		return err
	}
	if p.WeightKg, err = optFloat(v); err != nil {
		return err
	}
	if v, err = s.askDefault("Taille (cm)", showFloat(cur.HeightCm)); err != nil {
		return err
	}
	if p.HeightCm, err = optFloat(v); err != nil {
		return err
	}
	if v, err = s.askDefault("Sexe", showString(cur.Gender)); err != nil {
		return err
	}
	p.Gender = optString(v)
	if v, err = s.askDefault("Activité", showString(cur.Activity)); err != nil {
		return err
	}
	p.Activity = optString(v)
	if v, err = s.askDefault("Objectif", showString(cur.Goal)); err != nil {
		return err
	}
	p.Goal = optString(v)
	if v, err = s.askDefault("Jours par semaine", showInt(cur.DaysPerWeek)); err != nil {
		return err
	}
	if p.DaysPerWeek, err = optInt(v); err != nil {
		return err
	}
	if v, err = s.askDefault("Minutes par séance", showInt(cur.MinutesPerSession)); err != nil {
		return err
	}
	if p.MinutesPerSession, err = optInt(v); err != nil {
		return err
	}
	if v, err = s.askDefault("Niveau ("+strings.Join(levels, "|")+")", showString(cur.Level)); err != nil {
		return err
	}
	if v != "" && !contains(levels, v) {
		return fmt.Errorf("niveau inconnu : %q", v)
	}
	p.Level = optString(v)

	if _, err := s.svc.Profile.Complete(ctx, p); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Profil enregistré.")
	s.open(ctx, guard.PathDashboard, nil)
	return nil
}

func contains(list []string, v string) bool {
	for _, l := range list {
		if l == v {
			return true
		}
	}
	return false
}

func (s *Shell) reco(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "generate" {
		fmt.Fprintln(s.out, "Génération en cours…")
		resp, err := s.svc.Reco.Generate(ctx, s.lang)
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, resp.Answer)
		return nil
	}

	items, err := s.svc.Reco.History(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(s.out, "Aucune recommandation. Tapez 'reco generate'.")
		return nil
	}
	for _, it := range items {
		fmt.Fprintf(s.out, "[%s] %s\n", it.CreatedAt, it.Answer)
	}
	return nil
}

func printVideos(s *Shell, category string, videos []models.SportVideo) {
	fmt.Fprintf(s.out, "Catégorie : %s\n", category)
	if len(videos) == 0 {
		fmt.Fprintln(s.out, "Aucune vidéo.")
	}
	for _, v := range videos {
		fmt.Fprintf(s.out, " - %s %s\n", v.Title, v.Link)
	}
}

func printSports(s *Shell, list []models.Sport) {
	if len(list) == 0 {
		fmt.Fprintln(s.out, "Aucun sport.")
	}
	for _, sp := range list {
		fmt.Fprintf(s.out, " - %s (%s)\n", sp.Name, sp.Level)
	}
}

func (s *Shell) sports(ctx context.Context, args []string) error {
	sub := ""
	if len(args) > 0 {
		sub = args[0]
	}
	rest := strings.Join(args[min(1, len(args)):], " ")

	switch sub {
	case "categories":
		for _, c := range models.SportCategories {
			fmt.Fprintf(s.out, " - %s\n", c)
		}
	case "category":
		resp, err := s.svc.Sports.Category(ctx, rest)
		if err != nil {
			return err
		}
		printVideos(s, resp.Category, resp.Videos)
	case "list":
		list, err := s.svc.Sports.List(ctx)
		if err != nil {
			return err
		}
		printSports(s, list)
	case "search":
		list, err := s.svc.Sports.Search(ctx, rest)
		if err != nil {
			return err
		}
		printSports(s, list)
	default:
		resp, err := s.svc.Sports.Recommendations(ctx)
		if err != nil {
			return err
		}
		printVideos(s, resp.Category, resp.Videos)
	}
	return nil
}

func (s *Shell) tracking(ctx context.Context, args []string) error {
	email := s.session.Snapshot().Email
	if len(args) > 0 && args[0] == "add" {
		if len(args) < 2 {
			return errors.New("usage : tracking add <kg> [notes]")
		}
		kg, err := optFloat(args[1])
		if err != nil {
			return err
		}
		m := models.Measurement{WeightKg: kg, Notes: strings.Join(args[2:], " ")}
		created, err := s.svc.Tracking.AddMeasurement(ctx, email, m)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Mesure enregistrée (#%d).\n", created.ID)
	}

	list, err := s.svc.Tracking.Measurements(ctx, email)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(s.out, "Aucune mesure.")
		return nil
	}
	fmt.Fprintln(s.out, "Date        Poids (kg)")
	for _, m := range list {
		fmt.Fprintf(s.out, "%-11s %s\n", m.Date, showFloat(m.WeightKg))
	}
	return nil
}

func (s *Shell) printMessages(msgs []chat.Message) {
	for _, m := range msgs {
		who := "toi"
		if m.Role == chat.RoleAssistant {
			who = "coach"
		}
		fmt.Fprintf(s.out, "%s> %s\n", who, m.Text)
	}
}

func (s *Shell) chat(ctx context.Context, args []string) error {
	if len(args) == 0 {
		s.printMessages(s.chats.Messages(s.chats.Active()))
		return nil
	}

	switch args[0] {
	case "new":
		if _, err := s.chats.Start(); err != nil {
			return err
		}
		s.printMessages(s.chats.Messages(s.chats.Active()))
		return nil
	case "list":
		active := s.chats.Active()
		for _, id := range s.chats.List() {
			mark := " "
			if id == active {
				mark = "*"
			}
			fmt.Fprintf(s.out, " %s %s\n", mark, id)
		}
		return nil
	case "use":
		if len(args) != 2 {
			return errors.New("usage : chat use <id>")
		}
		if err := s.chats.Use(args[1]); err != nil {
			return err
		}
		s.printMessages(s.chats.Messages(args[1]))
		return nil
	case "delete":
		if len(args) != 2 {
			return errors.New("usage : chat delete <id>")
		}
		active, err := s.chats.Delete(args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Conversation active : %s\n", active)
		return nil
	}

	id := s.chats.Active()
	question := strings.Join(args, " ")
	if err := s.chats.Append(id, chat.NewMessage(chat.RoleUser, question)); err != nil {
		return err
	}

	text, err := s.svc.Chat.Ask(ctx, question, s.lang)
	if err != nil {
		s.log.Warn("chat failed", zap.Error(err))
		text = fmt.Sprintf("Une erreur est survenue. Réessayez dans quelques instants. (%s)", err)
	}
	reply := chat.NewMessage(chat.RoleAssistant, text)
	if err := s.chats.Append(id, reply); err != nil {
		return err
	}
	s.printMessages([]chat.Message{reply})
	return nil
}
