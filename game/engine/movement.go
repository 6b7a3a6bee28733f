package engine

import (
	"fmt"
	"time"
)

// CheckPit rejects own-row pit numbers outside 0-5 with an InvalidMoveError.
func CheckPit(p Player, pit int) error {
	if pit < 0 || pit >= PitsPerSide {
		return &InvalidMoveError{
			Player: p,
			Pit:    pit,
			Reason: fmt.Sprintf("pit must be between 0 and %d", PitsPerSide-1),
			Err:    ErrNotOwnPit,
		}
	}
	return nil
}

// Play sows the current player's own-row pit and returns the recorded move.
// An empty pit is a no-op: nil entry, nil error, same player to move.
func (e *GameEngine) Play(pit int) (*MoveHistoryEntry, error) {
	if e.IsOver() {
		return nil, &InvalidMoveError{Player: e.current, Pit: pit, Reason: "the game has ended", Err: ErrGameOver}
	}
	if err := CheckPit(e.current, pit); err != nil {
		return nil, err
	}

	from := PitIndex(e.current, pit)
	if e.board[from] == 0 {
		return nil, nil
	}

	mover := e.current
	sown := e.board[from]
	last := e.sow(from)

	extraTurn := IsOwnStore(last, mover)
	captured := 0
	if !extraTurn {
		captured = e.capture(last)
	}

	switch {
	case extraTurn:
		e.message = fmt.Sprintf(e.rules.Messages.ExtraTurn, mover)
	case captured > 0:
		e.current = mover.Opponent()
		e.message = fmt.Sprintf(e.rules.Messages.Capture, captured)
	default:
		e.current = mover.Opponent()
		e.message = fmt.Sprintf(e.rules.Messages.Turn, e.current)
	}

	e.checkEndOfGame()
	e.assertConservation()

	entry := e.addMoveToHistory(MoveHistoryEntry{
		Player:    mover,
		Pit:       pit,
		FromIndex: from,
		Sown:      sown,
		LastIndex: last,
		ExtraTurn: extraTurn,
		Captured:  captured,
	})
	return entry, nil
}

// sow lifts every stone from the pit at from and deposits them one by one in
// the following positions, skipping the opponent's store. It returns the
// index of the last stone.
func (e *GameEngine) sow(from int) int {
	n := e.board[from]
	e.board[from] = 0

	idx := from
	for n > 0 {
		idx = (idx + 1) % BoardSize
		if IsOpponentStore(idx, e.current) {
			continue
		}
		e.board[idx]++
		n--
	}
	return idx
}

// capture applies the capture rule for a sowing that ended at last and
// returns the number of stones moved to the store
func (e *GameEngine) capture(last int) int {
	if _, own := RowIndex(e.current, last); !own || e.board[last] != 1 {
		return 0
	}

	across := OppositeIndex(last)
	if e.board[across] == 0 && !e.rules.CaptureEmptyOpposite {
		return 0
	}

	captured := e.board[across] + 1
	e.board[StoreIndex(e.current)] += captured
	e.board[last] = 0
	e.board[across] = 0
	return captured
}

// checkEndOfGame sweeps the remaining stones and decides the winner once
// either row is empty
func (e *GameEngine) checkEndOfGame() {
	if e.IsOver() {
		return
	}
	if !rowEmpty(&e.board, PlayerA) && !rowEmpty(&e.board, PlayerB) {
		return
	}

	for _, p := range []Player{PlayerA, PlayerB} {
		store := StoreIndex(p)
		for row := 0; row < PitsPerSide; row++ {
			i := PitIndex(p, row)
			e.board[store] += e.board[i]
			e.board[i] = 0
		}
	}

	a, b := e.board[StoreA], e.board[StoreB]
	switch {
	case a > b:
		e.winner = OutcomeA
		e.message = fmt.Sprintf(e.rules.Messages.Victory, PlayerA)
	case b > a:
		e.winner = OutcomeB
		e.message = fmt.Sprintf(e.rules.Messages.Victory, PlayerB)
	default:
		e.winner = OutcomeDraw
		e.message = e.rules.Messages.Draw
	}

	if a+b != e.rules.TotalStones() {
		panic(fmt.Sprintf("engine: stores hold %d stones after sweep, want %d", a+b, e.rules.TotalStones()))
	}
}

// assertConservation panics when stones were created or destroyed
func (e *GameEngine) assertConservation() {
	if total := e.board.Total(); total != e.rules.TotalStones() {
		panic(fmt.Sprintf("engine: board holds %d stones, want %d: %v", total, e.rules.TotalStones(), e.board))
	}
}

// addMoveToHistory records a completed move and returns the stored entry
func (e *GameEngine) addMoveToHistory(entry MoveHistoryEntry) *MoveHistoryEntry {
	entry.BoardAfter = e.board
	entry.Timestamp = time.Now().Unix()
	entry.MoveNumber = e.totalMoves + 1

	// Append to cumulative history (never cleared by reset) and increment total
	e.moveHistory = append(e.moveHistory, entry)
	e.totalMoves++

	e.currentMoves = append(e.currentMoves, entry)

	out := entry
	return &out
}
