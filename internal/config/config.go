// Package config provides functionality for managing configuration options
// for the gateway and the shell using command-line flags, an optional JSON
// file, a .env file and environment variables.
//
// Precedence, lowest first: flag defaults and values, the JSON file, the
// environment.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv loads .env style files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// readFile merges the JSON object at path into dst. A missing file is not
// an error.
func readFile(path string, dst any) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error while reading config file: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("error while parsing config file: %w", err)
	}
	return nil
}

func env(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func parseCSV(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// configPath registers -config and its -c shorthand on flags.
func configPath(flags *flag.FlagSet, dst *string, def string) {
	flags.StringVar(dst, "config", def, "path to config file")
	flags.StringVar(dst, "c", def, "path to config file (shorthand)")
}

// ServerOptions configures the gateway.
type ServerOptions struct {
	// Addr is the listening address (ip:port).
	Addr string `json:"addr"`

	// Upstream base URLs. Request paths are forwarded unchanged.
	AuthUpstream   string `json:"auth_upstream"`
	SportsUpstream string `json:"sports_upstream"`
	RecoUpstream   string `json:"reco_upstream"`
	ChatUpstream   string `json:"chat_upstream"`

	// StaticDir holds a built front-end. Empty disables static serving.
	StaticDir string `json:"static_dir"`

	// TLSCert and TLSKey enable HTTPS when both are set.
	TLSCert string `json:"tls_cert"`
	TLSKey  string `json:"tls_key"`
	// SelfSigned serves HTTPS with a generated certificate when no
	// certificate files are given.
	SelfSigned bool `json:"tls_self_signed"`

	// CORSOrigins is a comma separated allow list; "*" allows any origin.
	CORSOrigins string `json:"cors_origins"`

	LogLevel string `json:"log_level"`

	ShutdownTimeout time.Duration `json:"-"`

	// Config is the path to the Config file.
	Config string `json:"-"`
}

// Origins returns the CORS allow list.
func (o *ServerOptions) Origins() []string {
	return parseCSV(o.CORSOrigins)
}

// TLS reports whether both certificate paths are set.
func (o *ServerOptions) TLS() bool {
	return o.TLSCert != "" && o.TLSKey != ""
}

// HTTPS reports whether the gateway serves TLS at all.
func (o *ServerOptions) HTTPS() bool {
	return o.TLS() || o.SelfSigned
}

// ParseServer parses the gateway flags in args (without the program name),
// then applies the config file and the environment.
func ParseServer(args []string) (*ServerOptions, error) {
	o := &ServerOptions{}
	flags := flag.NewFlagSet("server", flag.ContinueOnError)
	flags.StringVar(&o.Addr, "a", "localhost:5173", "run on ip:port server")
	flags.StringVar(&o.AuthUpstream, "auth", "http://localhost:8001", "auth service URL")
	flags.StringVar(&o.SportsUpstream, "sports", "http://localhost:8002", "sports service URL")
	flags.StringVar(&o.RecoUpstream, "reco", "http://localhost:8003", "recommendation service URL")
	flags.StringVar(&o.ChatUpstream, "chat", "http://localhost:8010", "chat service URL")
	flags.StringVar(&o.StaticDir, "static", "", "directory of the built front-end")
	flags.StringVar(&o.TLSCert, "tls-cert", "", "TLS certificate file")
	flags.StringVar(&o.TLSKey, "tls-key", "", "TLS key file")
	flags.BoolVar(&o.SelfSigned, "tls-self-signed", false, "serve HTTPS with a generated certificate")
	flags.StringVar(&o.CORSOrigins, "cors", "*", "comma separated allowed origins")
	flags.StringVar(&o.LogLevel, "log-level", "info", "log level")
	flags.DurationVar(&o.ShutdownTimeout, "shutdown-timeout", 15*time.Second, "graceful shutdown timeout")
	configPath(flags, &o.Config, "config.json")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	env(&o.Config, "CONFIG")
	if err := readFile(o.Config, o); err != nil {
		return nil, err
	}

	env(&o.Addr, "SERVER_ADDRESS")
	env(&o.AuthUpstream, "AUTH_UPSTREAM")
	env(&o.SportsUpstream, "SPORTS_UPSTREAM")
	env(&o.RecoUpstream, "RECO_UPSTREAM")
	env(&o.ChatUpstream, "CHAT_UPSTREAM")
	env(&o.StaticDir, "STATIC_DIR")
	env(&o.TLSCert, "TLS_CERT")
	env(&o.TLSKey, "TLS_KEY")
	if v, err := strconv.ParseBool(os.Getenv("TLS_SELF_SIGNED")); err == nil {
		o.SelfSigned = v
	}
	env(&o.CORSOrigins, "CORS_ALLOWED_ORIGINS")
	env(&o.LogLevel, "LOG_LEVEL")
	return o, nil
}

// ClientOptions configures the shell.
type ClientOptions struct {
	// Gateway is the base every service URL defaults under.
	Gateway string `json:"gateway"`

	// Per-service base URLs. Empty means Gateway + "/<service>".
	AuthURL   string `json:"auth_url"`
	SportsURL string `json:"sports_url"`
	RecoURL   string `json:"reco_url"`
	ChatURL   string `json:"chat_url"`

	// Storage is the backend kind: file, sqlite or memory.
	Storage     string `json:"storage"`
	StoragePath string `json:"storage_path"`

	AdminEmail string `json:"admin_email"`
	Lang       string `json:"lang"`
	LogLevel   string `json:"log_level"`

	Timeout time.Duration `json:"-"`

	Config string `json:"-"`
}

// ParseClient parses the shell flags in args, then applies the config file
// and the environment. Service URLs left empty are derived from Gateway.
func ParseClient(args []string) (*ClientOptions, error) {
	o := &ClientOptions{}
	flags := flag.NewFlagSet("client", flag.ContinueOnError)
	flags.StringVar(&o.Gateway, "gateway", "http://localhost:5173", "gateway base URL")
	flags.StringVar(&o.AuthURL, "auth-url", "", "auth service base URL")
	flags.StringVar(&o.SportsURL, "sports-url", "", "sports service base URL")
	flags.StringVar(&o.RecoURL, "reco-url", "", "recommendation service base URL")
	flags.StringVar(&o.ChatURL, "chat-url", "", "chat service base URL")
	flags.StringVar(&o.Storage, "storage", "file", "storage backend: file, sqlite or memory")
	flags.StringVar(&o.StoragePath, "storage-path", "", "storage file path")
	flags.StringVar(&o.AdminEmail, "admin-email", "", "administrator email fallback")
	flags.StringVar(&o.Lang, "lang", "fr", "language sent to the coach")
	flags.StringVar(&o.LogLevel, "log-level", "warn", "log level")
	flags.DurationVar(&o.Timeout, "timeout", 15*time.Second, "request timeout")
	configPath(flags, &o.Config, "client.json")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	env(&o.Config, "CONFIG")
	if err := readFile(o.Config, o); err != nil {
		return nil, err
	}

	env(&o.Gateway, "GATEWAY_URL")
	env(&o.AuthURL, "AUTH_URL")
	env(&o.SportsURL, "SPORTS_URL")
	env(&o.RecoURL, "RECO_URL")
	env(&o.ChatURL, "CHAT_URL")
	env(&o.Storage, "STORAGE")
	env(&o.StoragePath, "STORAGE_PATH")
	env(&o.AdminEmail, "ADMIN_EMAIL")
	env(&o.Lang, "APP_LANG")
	env(&o.LogLevel, "LOG_LEVEL")

	gw := strings.TrimRight(o.Gateway, "/")
	for _, u := range []struct {
		dst  *string
		name string
	}{
		{&o.AuthURL, "auth"},
		{&o.SportsURL, "sports"},
		{&o.RecoURL, "reco"},
		{&o.ChatURL, "chat"},
	} {
		if *u.dst == "" {
			*u.dst = gw + "/" + u.name
		}
	}
	return o, nil
}
