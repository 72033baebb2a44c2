package main

import (
	"crypto/x509"
	"encoding/pem"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_WritesCertAndKey(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "certs")

	certPath, keyPath, err := run(dir, splitHosts("gw.local, 10.0.0.5,localhost"), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "gateway.crt"), certPath)
	assert.Equal(t, filepath.Join(dir, "gateway.key"), keyPath)

	certPEM, err := os.ReadFile(certPath)
	require.NoError(t, err)
	block, _ := pem.Decode(certPEM)
	require.NotNil(t, block)
	cert, err := x509.ParseCertificate(block.Bytes)
	require.NoError(t, err)
	assert.Equal(t, []string{"gw.local", "localhost"}, cert.DNSNames)
	require.Len(t, cert.IPAddresses, 1)
	assert.True(t, cert.IPAddresses[0].Equal(net.ParseIP("10.0.0.5")))

	keyPEM, err := os.ReadFile(keyPath)
	require.NoError(t, err)
	keyBlock, _ := pem.Decode(keyPEM)
	require.NotNil(t, keyBlock)
	_, err = x509.ParseECPrivateKey(keyBlock.Bytes)
	require.NoError(t, err)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(keyPath)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

func TestRun_NoHosts(t *testing.T) {
	dir := t.TempDir()
	_, _, err := run(dir, splitHosts(" , "), time.Hour)
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "gateway.crt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestSplitHosts(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitHosts(" a,,b "))
	assert.Nil(t, splitHosts(""))
}
