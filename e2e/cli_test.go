package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/gamehub/internal/dependencies/clock"
	"github.com/mcoot/gamehub/internal/devserver"
	"github.com/mcoot/gamehub/internal/devserver/backend"
	"github.com/mcoot/gamehub/internal/testutil"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	dbPath     string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(t.TempDir(), "gamehub-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/gamehub")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		dbPath:     filepath.Join(t.TempDir(), "gamehub.db"),
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--store", "sqlite",
		"--db", r.dbPath,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	cmd.Dir = filepath.Dir(r.dbPath)
	cmd.Env = append(os.Environ(),
		"GAMEHUB_ENV=development",
		"GAMEHUB_AUTH_PRIMARY="+r.serverURL+"/api/auth",
		"GAMEHUB_GAMES_PRIMARY="+r.serverURL+"/api",
		// Unroutable alternates keep the test off real LAN addresses
		"GAMEHUB_AUTH_LAN=http://127.0.0.1:1/api/auth",
		"GAMEHUB_AUTH_EMULATOR=http://127.0.0.1:1/api/auth",
		"GAMEHUB_GAMES_LAN=http://127.0.0.1:1/api",
		"GAMEHUB_GAMES_EMULATOR=http://127.0.0.1:1/api",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		return stdout.String() + stderr.String(), err
	}
	return stdout.String(), nil
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real dev backend for e2e tests
type testServer struct {
	url      string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	cfg := devserver.DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = port
	cfg.BcryptCost = bcrypt.MinCost

	logger := testutil.NopLogger()
	handler, err := devserver.NewHandler(cfg, clock.New(), logger)
	require.NoError(t, err)
	server := devserver.NewServer(handler, cfg, logger)

	go func() {
		if err := server.Start(); err != nil {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	waitForServer(t, serverURL+"/api/health")

	return &testServer{
		url: serverURL,
		shutdown: func() {
			_ = server.Shutdown(context.Background())
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type sessionResponse struct {
	Token string `json:"token"`
	User  struct {
		Username string `json:"username"`
		Coins    int    `json:"coins"`
	} `json:"user"`
}

type gameResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Fallback bool   `json:"fallback"`
}

type commentResponse struct {
	ID     string `json:"id"`
	Author string `json:"author"`
	Text   string `json:"text"`
	Local  bool   `json:"local"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Tests

func TestCLI_Health(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.url)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var results []struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &results))
	require.Len(t, results, 6)
	assert.Equal(t, "reachable", results[0].Status)
	assert.Equal(t, "unreachable", results[1].Status)
}

func TestCLI_FullFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.url)

	// Log in; the session is kept in the SQLite file
	output, err := cli.run("login", "--user", backend.DemoUsername, "--pass", backend.DemoPassword)
	require.NoError(t, err, "output: %s", output)

	var session sessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &session))
	assert.NotEmpty(t, session.Token)

	output, err = cli.run("whoami", "--check")
	require.NoError(t, err, "output: %s", output)

	var me sessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &me))
	assert.Equal(t, backend.DemoUsername, me.User.Username)

	// Browse the catalog
	output, err = cli.run("games", "list")
	require.NoError(t, err, "output: %s", output)

	var list []gameResponse
	require.NoError(t, json.Unmarshal([]byte(output), &list))
	require.Len(t, list, 5)
	assert.False(t, list[0].Fallback)
	gameID := list[0].ID

	// Play and earn the first achievement
	output, err = cli.run("games", "play", gameID)
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("whoami")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &me))
	assert.Equal(t, 110, me.User.Coins)

	// Comment round trip
	output, err = cli.run("comments", "post", gameID, "--text", "Tuyệt vời", "--rating", "5")
	require.NoError(t, err, "output: %s", output)

	var comment commentResponse
	require.NoError(t, json.Unmarshal([]byte(output), &comment))
	assert.Equal(t, backend.DemoUsername, comment.Author)
	assert.False(t, comment.Local)

	output, err = cli.run("comments", "list", gameID)
	require.NoError(t, err, "output: %s", output)

	var comments []commentResponse
	require.NoError(t, json.Unmarshal([]byte(output), &comments))
	require.Len(t, comments, 1)
	assert.Equal(t, "Tuyệt vời", comments[0].Text)

	output, err = cli.run("comments", "delete", comment.ID)
	require.NoError(t, err, "output: %s", output)

	// Log out
	output, err = cli.run("logout")
	require.NoError(t, err, "output: %s", output)

	var msg messageResponse
	require.NoError(t, json.Unmarshal([]byte(output), &msg))
	assert.NotEmpty(t, msg.Message)

	output, err = cli.run("whoami")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, "null\n", output)
}

func TestCLI_OfflineFallback(t *testing.T) {
	ts := startTestServer(t)
	cli := newCLIRunner(t, ts.url)
	ts.shutdown()

	output, err := cli.run("games", "list")
	require.NoError(t, err, "output: %s", output)

	var list []gameResponse
	require.NoError(t, json.Unmarshal([]byte(output), &list))
	require.Len(t, list, 5)
	assert.True(t, list[0].Fallback)

	_, err = cli.run("login", "--user", backend.DemoUsername, "--pass", backend.DemoPassword)
	assert.Error(t, err)
}
