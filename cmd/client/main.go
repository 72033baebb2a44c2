// Package main runs the SportConnectIA shell.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/atinyakov/SportConnectIA/internal/client/api"
	"github.com/atinyakov/SportConnectIA/internal/client/chat"
	"github.com/atinyakov/SportConnectIA/internal/client/profile"
	"github.com/atinyakov/SportConnectIA/internal/client/session"
	"github.com/atinyakov/SportConnectIA/internal/client/shell"
	"github.com/atinyakov/SportConnectIA/internal/client/storage"
	"github.com/atinyakov/SportConnectIA/internal/config"
	"github.com/atinyakov/SportConnectIA/internal/logger"
	"github.com/atinyakov/SportConnectIA/internal/service"
)

var (
	version   string
	buildDate string
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-version" || os.Args[1] == "--version") {
		fmt.Printf("SportConnectIA Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadEnv(); err != nil {
		return err
	}
	opts, err := config.ParseClient(os.Args[1:])
	if err != nil {
		return err
	}

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(opts.LogLevel); err != nil {
		return err
	}
	zl := log.Log

	st, err := storage.Open(opts.Storage, opts.StoragePath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			zl.Warn("close storage", zap.Error(err))
		}
	}()

	sess := session.New(st,
		session.WithAdminEmail(opts.AdminEmail),
		session.WithLogoutKeys(profile.Key),
	)
	cache := profile.NewCache(st)

	httpClient := &http.Client{Timeout: opts.Timeout}
	newClient := func(base string) *api.Client {
		return api.NewClient(base, httpClient, sess, zl)
	}
	auth := newClient(opts.AuthURL)
	reco := newClient(opts.RecoURL)

	sh := shell.New(shell.Config{
		In:           os.Stdin,
		Out:          os.Stdout,
		Session:      sess,
		Profiles:     cache,
		Chats:        chat.New(st, ""),
		Lang:         opts.Lang,
		Logger:       zl,
		ReadPassword: shell.StdinPassword(),
		Services: shell.Services{
			Auth:     service.NewAuthService(auth, sess, zl),
			Admin:    service.NewAdminService(auth, sess),
			Profile:  service.NewProfileService(reco, sess, cache, zl),
			Reco:     service.NewRecoService(reco, sess),
			Tracking: service.NewTrackingService(reco),
			Chat:     service.NewChatService(newClient(opts.ChatURL), cache),
			Sports:   service.NewSportsService(newClient(opts.SportsURL), cache),
		},
	})

	fmt.Println("SportConnectIA. Tapez 'help' pour la liste des commandes.")
	return sh.Run(context.Background())
}
