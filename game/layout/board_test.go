package layout

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mancala/game/engine"
)

func TestBoardSize(t *testing.T) {
	w, h := NewBoard().Size()
	assert.Equal(t, 760, w)
	assert.Equal(t, 230, h)
}

func TestPitRect(t *testing.T) {
	b := NewBoard()

	tests := []struct {
		abs  int
		want Rect
	}{
		{0, Rect{X: 120, Y: 125, W: 75, H: 90}},
		{5, Rect{X: 570, Y: 125, W: 75, H: 90}},
		{12, Rect{X: 120, Y: 15, W: 75, H: 90}},
		{7, Rect{X: 570, Y: 15, W: 75, H: 90}},
		{engine.StoreA, Rect{X: 665, Y: 35, W: 80, H: 165}},
		{engine.StoreB, Rect{X: 15, Y: 35, W: 80, H: 165}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, b.PitRect(tt.abs)); diff != "" {
			t.Errorf("PitRect(%d) mismatch (-want +got):\n%s", tt.abs, diff)
		}
	}

	// Every pit sits directly above or below the pit it faces
	for abs := 0; abs < engine.PitsPerSide; abs++ {
		assert.Equal(t, b.PitRect(abs).X, b.PitRect(engine.OppositeIndex(abs)).X, "pit %d", abs)
	}

	assert.Panics(t, func() { b.PitRect(engine.BoardSize) })
}

func TestHitTest(t *testing.T) {
	b := NewBoard()

	for abs := 0; abs < engine.BoardSize; abs++ {
		x, y := b.PitRect(abs).Center()
		got, ok := b.HitTest(x, y)
		if engine.IsStore(abs) {
			assert.False(t, ok, "store %d must not be hit", abs)
			continue
		}
		require.True(t, ok, "pit %d center not hit", abs)
		assert.Equal(t, abs, got)
	}

	misses := [][2]int{
		{0, 0},
		{200, 170}, // between pits 0 and 1
		{120, 170}, // on the edge of pit 0
		{300, 115}, // between the rows
		{800, 100}, // off the board
	}
	for _, p := range misses {
		_, ok := b.HitTest(p[0], p[1])
		assert.False(t, ok, "point %v", p)
	}
}

type mockMover struct {
	player engine.Player
	played []int
}

func (m *mockMover) CurrentPlayer() engine.Player { return m.player }

func (m *mockMover) PlayPit(abs int) error {
	m.played = append(m.played, abs)
	return nil
}

func TestClick(t *testing.T) {
	b := NewBoard()
	m := &mockMover{player: engine.PlayerA}

	x, y := b.PitRect(3).Center()
	played, err := b.Click(m, x, y)
	require.NoError(t, err)
	assert.True(t, played)

	// Opponent pit, store and empty space are ignored
	for _, abs := range []int{9, engine.StoreA, engine.StoreB} {
		x, y := b.PitRect(abs).Center()
		played, err := b.Click(m, x, y)
		require.NoError(t, err)
		assert.False(t, played, "index %d", abs)
	}
	played, err = b.Click(m, 1, 1)
	require.NoError(t, err)
	assert.False(t, played)

	assert.Equal(t, []int{3}, m.played)
}

func TestClick_DrivesEngine(t *testing.T) {
	b := NewBoard()
	e := engine.NewEngineWithDefaults()

	x, y := b.PitRect(2).Center()
	played, err := b.Click(e, x, y)
	require.NoError(t, err)
	require.True(t, played)

	assert.Equal(t, engine.Board{4, 4, 0, 5, 5, 5, 1, 4, 4, 4, 4, 4, 4, 0}, e.Board())
	assert.Equal(t, engine.PlayerA, e.CurrentPlayer(), "last stone in the store keeps the turn")

	// B's pits are not clickable for A
	x, y = b.PitRect(10).Center()
	played, err = b.Click(e, x, y)
	require.NoError(t, err)
	assert.False(t, played)
}

func TestRender(t *testing.T) {
	e := engine.NewEngineWithDefaults()
	out := Render(e)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "     [ 4][ 4][ 4][ 4][ 4][ 4]", lines[1])
	assert.Equal(t, "[ 0]"+strings.Repeat(" ", 26)+"[ 0]", lines[2])
	assert.Equal(t, "     [ 4][ 4][ 4][ 4][ 4][ 4]", lines[3])
	assert.Equal(t, "Player A to move", lines[5])
	assert.True(t, strings.HasSuffix(lines[0], " B"))
	assert.True(t, strings.HasSuffix(lines[4], " A"))
}

func TestRender_Orientation(t *testing.T) {
	rules := engine.DefaultRules()
	board := engine.Board{1, 2, 3, 4, 5, 6, 0, 7, 8, 9, 1, 1, 1, 0}
	e, err := engine.NewEngineFromBoard(rules, board, engine.PlayerB)
	require.NoError(t, err)

	lines := strings.Split(Render(e), "\n")
	assert.Equal(t, "     [ 1][ 1][ 1][ 9][ 8][ 7]", lines[1], "B's row is drawn from index 12 down to 7")
	assert.Equal(t, "     [ 1][ 2][ 3][ 4][ 5][ 6]", lines[3])
	assert.Equal(t, "Player B to move", lines[5])
}

func TestStatus_GameOver(t *testing.T) {
	e, err := engine.NewEngineFromBoard(engine.DefaultRules(),
		engine.Board{0, 0, 0, 0, 0, 0, 24, 4, 4, 4, 4, 4, 4, 0}, engine.PlayerA)
	require.NoError(t, err)
	assert.Equal(t, "Game over: draw", Status(e))

	e, err = engine.NewEngineFromBoard(engine.DefaultRules(),
		engine.Board{0, 0, 0, 0, 0, 0, 30, 3, 3, 3, 3, 3, 3, 0}, engine.PlayerA)
	require.NoError(t, err)
	assert.Equal(t, "Game over: player A wins", Status(e))
}

func TestStateView(t *testing.T) {
	e := engine.NewEngineWithDefaults()
	require.NoError(t, e.PlayMove(5))

	assert.Equal(t, Render(e), Render(StateView(e.GetState())))
}
