package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wricardo/mancala/api"
	"github.com/wricardo/mancala/game/config"
	"github.com/wricardo/mancala/game/engine"
	"github.com/wricardo/mancala/game/service"
	"github.com/wricardo/mancala/game/session"
)

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("Expected result content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

// newBackend runs the real REST stack on a test server
func newBackend(t *testing.T) (*Client, *session.Manager) {
	t.Helper()
	configs, err := config.NewManager("../../configs")
	if err != nil {
		t.Fatalf("config manager: %v", err)
	}
	sessions := session.NewManager()
	server := httptest.NewServer(api.NewServer(service.NewGameService(sessions, configs), nil))
	t.Cleanup(server.Close)
	return NewClient(server.URL), sessions
}

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080/"
	client := NewClient(baseURL)

	if client.baseURL != "http://localhost:8080" {
		t.Errorf("Expected trailing slash trimmed, got %s", client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"id": "test-session"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]any
	if err := client.apiCall(context.Background(), "GET", "/api/sessions/x", nil, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if response["id"] != "test-session" {
		t.Errorf("Expected id test-session, got %v", response["id"])
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	if err := client.apiCall(context.Background(), "GET", "/api", nil, nil); err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	}))
	defer server.Close()

	err := NewClient(server.URL).apiCall(context.Background(), "GET", "/api", nil, nil)
	if err == nil || !strings.Contains(err.Error(), "API error") {
		t.Errorf("Expected 'API error', got: %v", err)
	}
}

func TestClient_apiCall_ErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "game is over"})
	}))
	defer server.Close()

	err := NewClient(server.URL).apiCall(context.Background(), "POST", "/api", map[string]int{"pit": 1}, nil)
	if err == nil || err.Error() != "game is over" {
		t.Errorf("Expected API error message, got: %v", err)
	}
}

func TestIntArg(t *testing.T) {
	args := map[string]any{"f": float64(3), "i": 4, "n": json.Number("5"), "s": "6"}

	for key, want := range map[string]int{"f": 3, "i": 4, "n": 5} {
		if got, ok := intArg(args, key); !ok || got != want {
			t.Errorf("intArg(%s) = %d, %v; want %d", key, got, ok, want)
		}
	}
	if _, ok := intArg(args, "s"); ok {
		t.Error("Expected string argument to be rejected")
	}
	if _, ok := intArg(args, "missing"); ok {
		t.Error("Expected missing argument to be rejected")
	}
	for _, v := range []any{2.7, -0.5, json.Number("2.5")} {
		if got, ok := intArg(map[string]any{"pit": v}, "pit"); ok {
			t.Errorf("intArg(%v) = %d, want rejection", v, got)
		}
	}
}

func TestLandingIndex(t *testing.T) {
	tests := []struct {
		name  string
		board engine.Board
		index int
		want  int
	}{
		{"opening pit 2 reaches own store", engine.InitialBoard(4), 2, engine.StoreA},
		{"B pit 9 reaches own store", engine.InitialBoard(4), 9, engine.StoreB},
		{"A skips B's store", engine.Board{0, 0, 0, 0, 0, 8, 0, 0, 0, 0, 0, 0, 0, 0}, 5, 0},
		{"B skips A's store", engine.Board{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 8, 0}, 12, 7},
		{"full lap", engine.Board{13, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := landingIndex(tt.board, tt.index); got != tt.want {
				t.Errorf("landingIndex = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDescribePit(t *testing.T) {
	state := &engine.GameState{
		Board:         engine.Board{4, 4, 4, 4, 4, 4, 0, 4, 4, 4, 4, 4, 4, 0},
		CurrentPlayer: engine.PlayerA,
		Winner:        engine.OutcomeNone,
	}

	text := describePit(state, 2)
	for _, want := range []string{"player A's pit 2", "Opposite: index 10", "own store, extra turn", "Playable now as pit 2"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in:\n%s", want, text)
		}
	}

	text = describePit(state, 9)
	if !strings.Contains(text, "player B's pit 2") || !strings.Contains(text, "Not playable now") {
		t.Errorf("Unexpected description for B's pit:\n%s", text)
	}

	text = describePit(state, engine.StoreB)
	if !strings.Contains(text, "store of player B") {
		t.Errorf("Unexpected description for store:\n%s", text)
	}

	state.Board[1] = 0
	if text = describePit(state, 1); !strings.Contains(text, "choosing it does nothing") {
		t.Errorf("Expected empty pit description:\n%s", text)
	}
}

func TestFormatMoveResult(t *testing.T) {
	result := &service.MoveResult{
		Success:   true,
		ExtraTurn: true,
		Step:      &service.StepInfo{Player: engine.PlayerA, Pit: 2, Sown: 4, LastIndex: 6},
		GameState: &engine.GameState{
			Board:         engine.Board{4, 4, 0, 5, 5, 5, 1, 4, 4, 4, 4, 4, 4, 0},
			CurrentPlayer: engine.PlayerA,
			Winner:        engine.OutcomeNone,
			LegalMoves:    []int{0, 1, 3, 4, 5},
		},
	}

	text := formatMoveResult(result)
	for _, want := range []string{"✓ Move successful", "sowed 4 stones from pit 2", "Extra turn!", "Legal pits for A: 0, 1, 3, 4, 5", "Stores: A=1 B=0"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in:\n%s", want, text)
		}
	}

	noop := formatMoveResult(&service.MoveResult{NoOp: true, Message: "That pit is empty"})
	if !strings.Contains(noop, "No move made: That pit is empty") {
		t.Errorf("Unexpected no-op text:\n%s", noop)
	}
}

func TestFormatGameState_GameOver(t *testing.T) {
	state := &engine.GameState{
		Board:    engine.Board{0, 0, 0, 0, 0, 0, 30, 0, 0, 0, 0, 0, 0, 18},
		GameOver: true,
		Winner:   engine.OutcomeA,
	}

	text := formatGameState(state)
	if !strings.Contains(text, "Game over: player A wins") {
		t.Errorf("Expected winner line in:\n%s", text)
	}
	if strings.Contains(text, "Legal pits") {
		t.Errorf("Finished game should not list legal pits:\n%s", text)
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleGameInstructions(context.Background(), callRequest("game_instructions", map[string]any{}))
	if err != nil {
		t.Fatalf("handleGameInstructions failed: %v", err)
	}

	text := resultText(t, result)
	for _, want := range []string{"GAME OBJECTIVE:", "BOARD LAYOUT:", "Extra turn", "Capture", "END OF GAME:"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in instructions", want)
		}
	}
}

func TestClient_Integration(t *testing.T) {
	client, sessions := newBackend(t)
	ctx := context.Background()

	result, err := client.handleCreateSession(ctx, callRequest("create_session", map[string]any{"config_id": "kalah"}))
	if err != nil {
		t.Fatalf("create_session failed: %v", err)
	}
	if text := resultText(t, result); !strings.Contains(text, "Created session:") {
		t.Fatalf("Unexpected create output:\n%s", text)
	}

	list := sessions.List()
	if len(list) != 1 {
		t.Fatalf("Expected one session, got %d", len(list))
	}
	id := list[0].ID

	// A's pit 2 holds four stones and ends in A's store
	result, _ = client.handlePlayPit(ctx, callRequest("play_pit", map[string]any{"session_id": id, "pit": float64(2)}))
	if text := resultText(t, result); !strings.Contains(text, "Extra turn!") {
		t.Errorf("Expected extra turn:\n%s", text)
	}

	result, _ = client.handlePlayPit(ctx, callRequest("play_pit", map[string]any{"session_id": id, "pit": float64(2)}))
	if text := resultText(t, result); !strings.Contains(text, "No move made") {
		t.Errorf("Expected empty pit no-op:\n%s", text)
	}

	result, _ = client.handlePlaySequence(ctx, callRequest("play_sequence", map[string]any{
		"session_id": id,
		"pits":       []any{float64(5), float64(0)},
	}))
	if text := resultText(t, result); !strings.Contains(text, "Executed 2 of 2 moves") {
		t.Errorf("Unexpected sequence output:\n%s", text)
	}

	result, _ = client.handleDescribePit(ctx, callRequest("describe_pit", map[string]any{"session_id": id, "index": float64(9)}))
	if text := resultText(t, result); !strings.Contains(text, "player B's pit 2") {
		t.Errorf("Unexpected describe output:\n%s", text)
	}

	result, _ = client.handleMoveHistory(ctx, callRequest("move_history", map[string]any{"session_id": id, "order": "asc"}))
	if text := resultText(t, result); !strings.Contains(text, "3 total moves") || !strings.Contains(text, "#1 A pit 2") {
		t.Errorf("Unexpected history output:\n%s", text)
	}

	result, _ = client.handleReset(ctx, callRequest("reset_game", map[string]any{"session_id": id}))
	if text := resultText(t, result); !strings.Contains(text, "Player A to move") {
		t.Errorf("Unexpected reset output:\n%s", text)
	}

	result, _ = client.handleListConfigs(ctx, callRequest("list_configs", map[string]any{}))
	if text := resultText(t, result); !strings.Contains(text, "kalah6") {
		t.Errorf("Expected kalah6 in configs:\n%s", text)
	}

	result, _ = client.handleGameState(ctx, callRequest("game_state", map[string]any{"session_id": "missing"}))
	if !result.IsError {
		t.Error("Expected error result for unknown session")
	}

	result, _ = client.handlePlayPit(ctx, callRequest("play_pit", map[string]any{"session_id": id}))
	if !result.IsError {
		t.Error("Expected error result for missing pit")
	}

	result, _ = client.handlePlayPit(ctx, callRequest("play_pit", map[string]any{"session_id": id, "pit": 2.7}))
	if !result.IsError {
		t.Error("Expected error result for fractional pit")
	}
}
