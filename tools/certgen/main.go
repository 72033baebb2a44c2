// Package main writes a self-signed development certificate for the gateway
// under the "certs" directory.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atinyakov/SportConnectIA/internal/certgen"
)

func main() {
	dir := flag.String("dir", "certs", "output directory")
	hosts := flag.String("hosts", strings.Join(certgen.DefaultHosts, ","), "comma separated DNS names and IPs")
	ttl := flag.Duration("ttl", 365*24*time.Hour, "certificate lifetime")
	flag.Parse()

	certPath, keyPath, err := run(*dir, splitHosts(*hosts), *ttl)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Certificates generated: %s %s\nRun the gateway with -tls-cert %s -tls-key %s\n", certPath, keyPath, certPath, keyPath)
}

// run writes gateway.crt and gateway.key into dir.
func run(dir string, hosts []string, ttl time.Duration) (certPath, keyPath string, err error) {
	certPEM, keyPEM, err := certgen.GenerateSelfSigned(hosts, ttl)
	if err != nil {
		return "", "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create %s: %w", dir, err)
	}
	certPath = filepath.Join(dir, "gateway.crt")
	keyPath = filepath.Join(dir, "gateway.key")
	if err := os.WriteFile(certPath, certPEM, 0o644); err != nil {
		return "", "", fmt.Errorf("write cert: %w", err)
	}
	if err := os.WriteFile(keyPath, keyPEM, 0o600); err != nil {
		return "", "", fmt.Errorf("write key: %w", err)
	}
	return certPath, keyPath, nil
}

func splitHosts(s string) []string {
	var hosts []string
	for _, h := range strings.Split(s, ",") {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}
