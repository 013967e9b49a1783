package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func writeConfig(t *testing.T, port int) string {
	t.Helper()
	dir := t.TempDir()
	content := fmt.Sprintf(`
server:
  host: "127.0.0.1"
  port: %d
  shutdown_timeout: "2s"
log:
  level: "error"
extractor:
  provider: "openai"
  api_key: "sk-test"
storage:
  driver: "sqlite"
  sqlite_path: %q
`, port, filepath.Join(dir, "app.db"))

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun_ServesUntilCancelled(t *testing.T) {
	port := freePort(t)
	path := writeConfig(t, port)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, path) }()

	url := fmt.Sprintf("http://127.0.0.1:%d/health", port)
	var body string
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		buf := make([]byte, 4096)
		n, _ := resp.Body.Read(buf)
		body = string(buf[:n])
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	assert.Equal(t, "ok", gjson.Get(body, "components.store.status").String())
	assert.Equal(t, Version, gjson.Get(body, "version").String())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_MissingConfigFile(t *testing.T) {
	err := Run(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config")
}

func TestRun_PortInUse(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	path := writeConfig(t, l.Addr().(*net.TCPAddr).Port)

	err = Run(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http server")
}

func TestBuildVersion(t *testing.T) {
	assert.Equal(t, "dev (commit: unknown, built: unknown)", BuildVersion())
}
