package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/atinyakov/SportConnectIA/internal/models"
)

func parseID(args []string) (int64, error) {
	if len(args) < 2 {
		return 0, errors.New("identifiant manquant")
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("identifiant invalide : %q", args[1])
	}
	return id, nil
}

// yesNo parses o/oui/y/yes and n/non/no. Blank returns nil.
func yesNo(v string) (*bool, error) {
	switch strings.ToLower(v) {
	case "":
		return nil, nil
	case "o", "oui", "y", "yes":
		b := true
		return &b, nil
	case "n", "non", "no":
		b := false
		return &b, nil
	}
	return nil, fmt.Errorf("réponse attendue o/n : %q", v)
}

func (s *Shell) admin(ctx context.Context, args []string) error {
	sub := "users"
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "users":
		return s.listUsers(ctx)
	case "create":
		return s.createUser(ctx)
	case "edit":
		id, err := parseID(args)
		if err != nil {
			return err
		}
		return s.editUser(ctx, id)
	case "delete":
		id, err := parseID(args)
		if err != nil {
			return err
		}
		ok, err := s.ask(fmt.Sprintf("Supprimer l'utilisateur %d ? (o/N)", id))
		if err != nil {
			return err
		}
		if yes, _ := yesNo(ok); yes == nil || !*yes {
			fmt.Fprintln(s.out, "Annulé.")
			return nil
		}
		if err := s.svc.Admin.DeleteUser(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Utilisateur supprimé.")
		return nil
	case "notify":
		id, err := parseID(args)
		if err != nil {
			return err
		}
		return s.notify(ctx, id)
	}
	return fmt.Errorf("sous-commande inconnue : %s", sub)
}

func (s *Shell) listUsers(ctx context.Context) error {
	users, err := s.svc.Admin.ListUsers(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%-5s %-20s %-30s %-6s %s\n", "ID", "Nom", "Email", "Actif", "Admin")
	for _, u := range users {
		fmt.Fprintf(s.out, "%-5d %-20s %-30s %-6s %s\n", u.ID, u.DisplayName(), u.Email, label(u.IsActive), label(u.IsAdmin))
	}
	return nil
}

func label(b bool) string {
	if b {
		return "oui"
	}
	return "non"
}

func (s *Shell) createUser(ctx context.Context) error {
	var in models.UserCreate
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
	v, err := s.ask("Administrateur ? (o/N)")
	if err != nil {
		return err
	}
	if admin, _ := yesNo(v); admin != nil {
		in.IsAdmin = *admin
	}

	u, err := s.svc.Admin.CreateUser(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Utilisateur %d créé.\n", u.ID)
	return nil
}

// editUser asks for each field; a blank answer leaves it unchanged.
func (s *Shell) editUser(ctx context.Context, id int64) error {
	var patch models.UserUpdate
	v, err := s.ask("Nom")
	if err != nil {
		return err
	}
	patch.Name = optString(v)
	if v, err = s.ask("Email"); err != nil {
		return err
	}
	patch.Email = optString(v)
	if v, err = s.ask("Actif ? (o/n)"); err != nil {
		return err
	}
	if patch.IsActive, err = yesNo(v); err != nil {
		return err
	}
	if v, err = s.ask("Administrateur ? (o/n)"); err != nil {
		return err
	}
	if patch.IsAdmin, err = yesNo(v); err != nil {
		return err
	}
	if patch.NewPassword, err = s.askPassword("Nouveau mot de passe"); err != nil {
		return err
	}

	u, err := s.svc.Admin.UpdateUser(ctx, id, patch)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Utilisateur %d mis à jour (%s).\n", u.ID, u.Email)
	return nil
}

func (s *Shell) notify(ctx context.Context, id int64) error {
	title, err := s.ask("Titre")
	if err != nil {
		return err
	}
	msg, err := s.ask("Message")
	if err != nil {
		return err
	}
	if _, err := s.svc.Admin.SendNotification(ctx, id, title, msg); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Notification envoyée.")
	return nil
}
