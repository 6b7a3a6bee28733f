package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mancala/api"
	"github.com/wricardo/mancala/game/engine"
	"github.com/wricardo/mancala/game/simulate"
	"github.com/wricardo/mancala/transport/mcp"
)

func TestConstants(t *testing.T) {
	assert.Equal(t, "1.0.0", Version)
	assert.Equal(t, "Mancala Server", AppName)
}

func TestNewApp_Commands(t *testing.T) {
	app := newApp()

	for _, name := range []string{"server", "http", "mcp", "stdio-mcp", "mcp-stdio", "play", "validate", "simulate"} {
		assert.NotNil(t, app.Command(name), "missing command %s", name)
	}
	assert.Equal(t, Version, app.Version)
}

func TestNewApp_ServerFlags(t *testing.T) {
	names := map[string]bool{}
	for _, f := range newApp().Flags {
		for _, name := range f.Names() {
			names[name] = true
		}
	}
	for _, name := range []string{"port", "host", "session-ttl", "ngrok", "ngrok-auth", "ngrok-domain"} {
		assert.True(t, names[name], "missing flag %s", name)
	}
}

func TestTunnelFromFlags(t *testing.T) {
	assert.Nil(t, tunnelFromFlags(false, "token", ""))
	assert.Nil(t, tunnelFromFlags(true, "", "game.ngrok.app"))

	settings := tunnelFromFlags(true, "token", "")
	require.NotNil(t, settings)
	assert.Equal(t, "token", settings.AuthToken)
	assert.NotNil(t, settings.endpoint())

	settings = tunnelFromFlags(true, "token", "game.ngrok.app")
	require.NotNil(t, settings)
	assert.Equal(t, "game.ngrok.app", settings.Domain)
	assert.NotNil(t, settings.endpoint())
}

func TestInitializeServices(t *testing.T) {
	gameService, sessions, configs, err := initializeServices("configs")
	require.NoError(t, err)
	require.NotNil(t, gameService)

	info, err := gameService.CreateSession(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, sessions.Count())
	assert.Equal(t, configs.GetDefault().Name, info.GameState.RulesName)
}

func TestInitializeServices_InvalidConfigDir(t *testing.T) {
	_, _, _, err := initializeServices("/non/existent/path")
	assert.Error(t, err)
}

func TestSetupLogging(t *testing.T) {
	var buf bytes.Buffer
	setupLogging(false, "json", &buf)
	t.Cleanup(func() { setupLogging(false, "console", &bytes.Buffer{}) })

	logLine := func() {
		buf.Reset()
		log.Debug().Msg("debug line")
		log.Info().Msg("info line")
	}

	logLine()
	assert.NotContains(t, buf.String(), `"level":"debug"`)
	assert.Contains(t, buf.String(), `"level":"info"`)

	setupLogging(true, "json", &buf)
	logLine()
	assert.Contains(t, buf.String(), `"level":"debug"`)
}

func TestSessionCleanupRoutine(t *testing.T) {
	_, sessions, _, err := initializeServices("configs")
	require.NoError(t, err)

	_, err = sessions.Create("", engine.DefaultRules())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sessionCleanupRoutine(ctx, sessions, 10*time.Millisecond, time.Nanosecond)

	require.Eventually(t, func() bool { return sessions.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestNewHandler_MCP(t *testing.T) {
	gameService, _, _, err := initializeServices("configs")
	require.NoError(t, err)

	var handler http.Handler
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler.ServeHTTP(w, r)
	}))
	defer ts.Close()
	handler = newHandler(api.NewServer(gameService, nil), mcp.NewClient(ts.URL).GetMCPServer())

	resp, err := http.Get(ts.URL + "/api/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/mcp")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	post := func(body string) string {
		resp, err := http.Post(ts.URL+"/mcp", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		var buf bytes.Buffer
		buf.ReadFrom(resp.Body)
		return buf.String()
	}

	out := post(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`)
	assert.Contains(t, out, `"Kalah"`)

	out = post(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	assert.Contains(t, out, "play_pit")
	assert.Contains(t, out, "describe_pit")
}

func TestPlayLoop(t *testing.T) {
	e := engine.NewEngineWithDefaults()
	in := strings.NewReader("2\n2\nfoo\n9\nq\n")
	var out bytes.Buffer

	require.NoError(t, playLoop(in, &out, e))

	text := out.String()
	assert.Contains(t, text, "moves again")
	assert.Contains(t, text, e.GetRules().Messages.EmptyPit)
	assert.Contains(t, text, `Not a pit number: "foo"`)
	assert.Contains(t, text, "pit must be between 0 and 5")
	assert.Equal(t, 1, len(e.GetMoveHistory()))
	assert.Equal(t, engine.PlayerA, e.CurrentPlayer())
}

func TestPlayLoop_Reset(t *testing.T) {
	e := engine.NewEngineWithDefaults()
	var out bytes.Buffer

	require.NoError(t, playLoop(strings.NewReader("0\nr\n"), &out, e))
	assert.Equal(t, engine.InitialBoard(engine.DefaultStonesPerPit), e.Board())
}

func TestPlayLoop_FinishedGame(t *testing.T) {
	board := engine.Board{0, 0, 0, 0, 0, 1, 20, 0, 0, 0, 0, 0, 1, 26}
	e, err := engine.NewEngineFromBoard(engine.DefaultRules(), board, engine.PlayerA)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, playLoop(strings.NewReader("5\n"), &out, e))

	assert.True(t, e.IsOver())
	assert.Contains(t, out.String(), "Game over")
}

func TestPrintReport(t *testing.T) {
	report, err := simulate.Run(context.Background(), simulate.Options{Games: 10, Workers: 2, Seed: 3})
	require.NoError(t, err)

	var buf bytes.Buffer
	printReport(&buf, report)
	assert.Contains(t, buf.String(), "Games: 10")
	assert.Contains(t, buf.String(), "Player A wins:")
}
