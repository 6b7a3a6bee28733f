package layout

import (
	"fmt"
	"strings"

	"github.com/wricardo/mancala/game/engine"
)

const (
	OuterPadding = 15
	InnerPadding = 20
	PitWidth     = 75
	PitHeight    = 90
	StoreWidth   = 80
	StoreHeight  = 205

	// storeInset trims the store outline top and bottom
	storeInset = 20
)

// Rect is an axis-aligned rectangle in board pixels
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the point lies strictly inside the rectangle
func (r Rect) Contains(x, y int) bool {
	return x > r.X && x < r.X+r.W && y > r.Y && y < r.Y+r.H
}

// Center returns the midpoint of the rectangle
func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// View is the read-only engine surface the renderer needs
type View interface {
	PitCount(abs int) int
	CurrentPlayer() engine.Player
	IsOver() bool
	Winner() engine.Outcome
}

// Mover is the engine surface a click is dispatched to
type Mover interface {
	CurrentPlayer() engine.Player
	PlayPit(abs int) error
}

// Board holds the pixel geometry of every board position
type Board struct {
	rects         [engine.BoardSize]Rect
	width, height int
}

// NewBoard computes the geometry. A's pits run left to right along the
// bottom with A's store on the right; B's pits run right to left along the
// top with B's store on the left.
func NewBoard() *Board {
	b := &Board{
		width:  engine.PitsPerSide*(PitWidth+InnerPadding) + 2*(StoreWidth+OuterPadding),
		height: 2*(OuterPadding+PitHeight) + InnerPadding,
	}

	rowX := StoreWidth + 2*InnerPadding
	topY := OuterPadding
	bottomY := OuterPadding + PitHeight + InnerPadding

	for col := 0; col < engine.PitsPerSide; col++ {
		x := rowX + col*(PitWidth+OuterPadding)
		b.rects[engine.PitIndex(engine.PlayerA, col)] = Rect{X: x, Y: bottomY, W: PitWidth, H: PitHeight}
		b.rects[engine.OppositeIndex(engine.PitIndex(engine.PlayerA, col))] = Rect{X: x, Y: topY, W: PitWidth, H: PitHeight}
	}

	storeY := OuterPadding + storeInset
	storeH := StoreHeight - 2*storeInset
	b.rects[engine.StoreB] = Rect{X: OuterPadding, Y: storeY, W: StoreWidth, H: storeH}
	b.rects[engine.StoreA] = Rect{
		X: OuterPadding + StoreWidth + engine.PitsPerSide*(InnerPadding+PitWidth),
		Y: storeY,
		W: StoreWidth,
		H: storeH,
	}
	return b
}

// Size returns the board dimensions in pixels
func (b *Board) Size() (int, int) {
	return b.width, b.height
}

// PitRect returns the rectangle of an absolute board index
func (b *Board) PitRect(abs int) Rect {
	if abs < 0 || abs >= engine.BoardSize {
		panic(fmt.Sprintf("layout: index %d out of range", abs))
	}
	return b.rects[abs]
}

// HitTest returns the pit under the point. Stores are never hit.
func (b *Board) HitTest(x, y int) (int, bool) {
	for abs, r := range b.rects {
		if engine.IsStore(abs) {
			continue
		}
		if r.Contains(x, y) {
			return abs, true
		}
	}
	return 0, false
}

// Click dispatches a click to the mover. Misses and the opponent's pits are
// ignored and report false.
func (b *Board) Click(m Mover, x, y int) (bool, error) {
	abs, ok := b.HitTest(x, y)
	if !ok {
		return false, nil
	}
	if _, own := engine.RowIndex(m.CurrentPlayer(), abs); !own {
		return false, nil
	}
	return true, m.PlayPit(abs)
}

// Render draws the board as text with B's row on top, listed from
// absolute index 12 down to 7 so each pit sits above the one it faces.
func Render(v View) string {
	cell := func(abs int) string {
		return fmt.Sprintf("[%2d]", v.PitCount(abs))
	}

	var sb strings.Builder
	margin := strings.Repeat(" ", 5)

	sb.WriteString(margin)
	for row := engine.PitsPerSide - 1; row >= 0; row-- {
		fmt.Fprintf(&sb, "%3d ", row)
	}
	sb.WriteString(" B\n")

	sb.WriteString(margin)
	for row := engine.PitsPerSide - 1; row >= 0; row-- {
		sb.WriteString(cell(engine.PitIndex(engine.PlayerB, row)))
	}
	sb.WriteString("\n")

	sb.WriteString(cell(engine.StoreB))
	sb.WriteString(strings.Repeat(" ", engine.PitsPerSide*4+2))
	sb.WriteString(cell(engine.StoreA))
	sb.WriteString("\n")

	sb.WriteString(margin)
	for row := 0; row < engine.PitsPerSide; row++ {
		sb.WriteString(cell(engine.PitIndex(engine.PlayerA, row)))
	}
	sb.WriteString("\n")

	sb.WriteString(margin)
	for row := 0; row < engine.PitsPerSide; row++ {
		fmt.Fprintf(&sb, "%3d ", row)
	}
	sb.WriteString(" A\n")

	sb.WriteString(Status(v))
	sb.WriteString("\n")
	return sb.String()
}

// Status is the one-line turn or result summary
func Status(v View) string {
	if !v.IsOver() {
		return fmt.Sprintf("Player %s to move", v.CurrentPlayer())
	}
	if v.Winner() == engine.OutcomeDraw {
		return "Game over: draw"
	}
	return fmt.Sprintf("Game over: player %s wins", v.Winner())
}

// stateView adapts a GameState snapshot to View
type stateView struct {
	state *engine.GameState
}

// StateView exposes a snapshot through the View interface
func StateView(state *engine.GameState) View {
	return stateView{state: state}
}

func (v stateView) PitCount(abs int) int         { return v.state.Board[abs] }
func (v stateView) CurrentPlayer() engine.Player { return v.state.CurrentPlayer }
func (v stateView) IsOver() bool                 { return v.state.GameOver }
func (v stateView) Winner() engine.Outcome       { return v.state.Winner }
