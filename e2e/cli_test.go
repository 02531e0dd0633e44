package e2e_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/shiritorimatch-go/internal/api"
	"github.com/mcoot/shiritorimatch-go/internal/factory"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "shirimatch-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/shirimatch")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	// Create temp token file
	tokenFile := filepath.Join(t.TempDir(), "token")

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  tokenFile,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (r *cliRunner) runWithToken(token string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token", token,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
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

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	server   *http.Server
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	app, err := factory.New(factory.Config{
		Logger:      logger,
		StorageType: factory.StorageTypeMemory,
	})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:        logger,
		PlayerService: app.PlayerService,
		RoomDirectory: app.RoomDirectory,
		Matchmaker:    app.Matchmaker,
		GameControl:   app.GameControl,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		server: server,
		addr:   serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
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
type playerResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Rating int    `json:"rating"`
}

type signUpResponse struct {
	Player playerResponse `json:"player"`
	Token  string         `json:"token"`
}

type roomResponse struct {
	No         int     `json:"no"`
	MaxPlayers int     `json:"max_players"`
	PlayerIDs  []int64 `json:"player_ids"`
	Rating     int     `json:"rating"`
	GameID     string  `json:"game_id"`
}

type gameEventResponse struct {
	Type     string `json:"type"`
	PlayerID int64  `json:"player_id"`
	Word     string `json:"word"`
	Result   string `json:"result"`
}

type gameStateResponse struct {
	ID          string              `json:"id"`
	PlayerIDs   []int64             `json:"player_ids"`
	Events      []gameEventResponse `json:"events"`
	CurrentTurn *gameEventResponse  `json:"current_turn"`
	Finished    bool                `json:"finished"`
}

type answerResponse struct {
	Result string `json:"result"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_PlayerCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Sign up
	output, err := cli.run("player", "signup", "--name", "alice")
	require.NoError(t, err, "output: %s", output)

	var signUp signUpResponse
	require.NoError(t, json.Unmarshal([]byte(output), &signUp))
	assert.Equal(t, "alice", signUp.Player.Name)
	assert.NotEmpty(t, signUp.Token)

	// Get me (token should be saved in token file)
	output, err = cli.run("player", "me")
	require.NoError(t, err, "output: %s", output)

	var me playerResponse
	require.NoError(t, json.Unmarshal([]byte(output), &me))
	assert.Equal(t, "alice", me.Name)
	assert.Equal(t, signUp.Player.ID, me.ID)

	// Update profile
	output, err = cli.run("player", "update", "--name", "alice2", "--rating", "1500")
	require.NoError(t, err, "output: %s", output)

	var updated playerResponse
	require.NoError(t, json.Unmarshal([]byte(output), &updated))
	assert.Equal(t, "alice2", updated.Name)
	assert.Equal(t, 1500, updated.Rating)
}

func TestCLI_RoomCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("player", "signup", "--name", "alice")
	require.NoError(t, err, "output: %s", output)

	// Create room
	output, err = cli.run("room", "create", "--max-players", "3")
	require.NoError(t, err, "output: %s", output)

	var created roomResponse
	require.NoError(t, json.Unmarshal([]byte(output), &created))
	assert.Equal(t, 3, created.MaxPlayers)
	assert.Len(t, created.PlayerIDs, 1)
	roomNo := fmt.Sprintf("%d", created.No)

	// Get room
	output, err = cli.run("room", "get", roomNo)
	require.NoError(t, err, "output: %s", output)

	var got roomResponse
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	assert.Equal(t, created.No, got.No)

	// Current room
	output, err = cli.run("room", "me")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	assert.Equal(t, created.No, got.No)

	// Leave room
	output, err = cli.run("room", "leave")
	require.NoError(t, err, "output: %s", output)

	var msgResp messageResponse
	require.NoError(t, json.Unmarshal([]byte(output), &msgResp))
	assert.Contains(t, msgResp.Message, "Left room")

	// No current room any more
	_, err = cli.run("room", "me")
	assert.Error(t, err)
}

func TestCLI_Matchmaking(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli1 := newCLIRunner(t, ts.addr)
	cli2 := &cliRunner{
		binaryPath: cli1.binaryPath,
		serverURL:  cli1.serverURL,
		tokenFile:  filepath.Join(t.TempDir(), "token2"),
	}

	output, err := cli1.run("player", "signup", "--name", "alice")
	require.NoError(t, err, "output: %s", output)

	output, err = cli1.run("room", "create")
	require.NoError(t, err, "output: %s", output)
	var created roomResponse
	require.NoError(t, json.Unmarshal([]byte(output), &created))

	// Second player matches straight into the open room, both are at
	// the default rating so the first search window already covers it
	output, err = cli2.run("player", "signup", "--name", "bob")
	require.NoError(t, err, "output: %s", output)

	output, err = cli2.run("room", "match")
	require.NoError(t, err, "output: %s", output)

	var matched roomResponse
	require.NoError(t, json.Unmarshal([]byte(output), &matched))
	assert.Equal(t, created.No, matched.No)
	assert.Len(t, matched.PlayerIDs, 2)
}

func TestCLI_FullGameFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli1 := newCLIRunner(t, ts.addr)
	cli2 := &cliRunner{
		binaryPath: cli1.binaryPath,
		serverURL:  cli1.serverURL,
		tokenFile:  filepath.Join(t.TempDir(), "token2"),
	}

	// Two players, one room
	output, err := cli1.run("player", "signup", "--name", "alice")
	require.NoError(t, err, "output: %s", output)
	var alice signUpResponse
	require.NoError(t, json.Unmarshal([]byte(output), &alice))

	output, err = cli2.run("player", "signup", "--name", "bob")
	require.NoError(t, err, "output: %s", output)
	var bob signUpResponse
	require.NoError(t, json.Unmarshal([]byte(output), &bob))

	output, err = cli1.run("room", "create")
	require.NoError(t, err, "output: %s", output)
	var created roomResponse
	require.NoError(t, json.Unmarshal([]byte(output), &created))
	roomNo := fmt.Sprintf("%d", created.No)

	output, err = cli2.run("room", "join", roomNo)
	require.NoError(t, err, "output: %s", output)

	// Both ready up, the game starts on the second ready
	output, err = cli1.run("game", "ready")
	require.NoError(t, err, "output: %s", output)
	output, err = cli2.run("game", "ready")
	require.NoError(t, err, "output: %s", output)

	// First turn goes to the room creator with a random opening character
	output, err = cli1.run("game", "get")
	require.NoError(t, err, "output: %s", output)
	var state gameStateResponse
	require.NoError(t, json.Unmarshal([]byte(output), &state))
	require.NotNil(t, state.CurrentTurn)
	assert.Equal(t, alice.Player.ID, state.CurrentTurn.PlayerID)
	opening := state.CurrentTurn.Word
	require.NotEmpty(t, opening)
	t.Logf("opening character: %s", opening)

	// A chained answer keeps the game going
	output, err = cli1.run("game", "answer", opening+"ご")
	require.NoError(t, err, "output: %s", output)
	var answer answerResponse
	require.NoError(t, json.Unmarshal([]byte(output), &answer))
	assert.Equal(t, "ok", answer.Result)

	// The next player can contest the word, which hands the turn back
	output, err = cli2.run("game", "claim")
	require.NoError(t, err, "output: %s", output)

	output, err = cli1.run("game", "get")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &state))
	require.NotNil(t, state.CurrentTurn)
	assert.Equal(t, alice.Player.ID, state.CurrentTurn.PlayerID)
	assert.Equal(t, opening, state.CurrentTurn.Word)

	// A word ending in ん loses immediately
	output, err = cli1.run("game", "answer", opening+"ん")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &answer))
	assert.Equal(t, "gameover", answer.Result)

	// The finished game takes its room down with it
	_, err = cli1.run("room", "me")
	assert.Error(t, err, "room should be gone after the game ends")
	_, err = cli1.run("game", "get")
	assert.Error(t, err, "game should be gone after it ends")
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Get player without auth
	output, err := cli.run("player", "me")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "unauthorized")

	// Get non-existent room
	output, err = cli.run("player", "signup", "--name", "alice")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("room", "get", "9999")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")
}
