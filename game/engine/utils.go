package engine

// offset returns the absolute index of the player's first pit
func offset(p Player) int {
	if p == PlayerB {
		return StoreA + 1
	}
	return 0
}

// Opposite maps an own-row index to the opposite opponent-row index
func Opposite(row int) int {
	return PitsPerSide - 1 - row
}

// OppositeIndex maps an absolute pit index to the absolute index across the board
func OppositeIndex(abs int) int {
	return 2*PitsPerSide - abs
}

// StoreIndex returns the absolute index of the player's store
func StoreIndex(p Player) int {
	if p == PlayerB {
		return StoreB
	}
	return StoreA
}

// IsStore reports whether abs is either store
func IsStore(abs int) bool {
	return abs == StoreA || abs == StoreB
}

// IsOwnStore reports whether index is the player's own store
func IsOwnStore(index int, p Player) bool {
	return index == StoreIndex(p)
}

// IsOpponentStore reports whether index is the store of p's opponent
func IsOpponentStore(index int, p Player) bool {
	return index == StoreIndex(p.Opponent())
}

// PitIndex converts an own-row index (0-5) to an absolute index
func PitIndex(p Player, row int) int {
	return offset(p) + row
}

// RowIndex converts an absolute index to p's own-row index.
// ok is false for stores, the opponent's pits and out-of-range values.
func RowIndex(p Player, abs int) (int, bool) {
	row := abs - offset(p)
	if row < 0 || row >= PitsPerSide {
		return 0, false
	}
	return row, true
}

// Owner returns the player owning the pit or store at abs
func Owner(abs int) (Player, bool) {
	switch {
	case abs >= 0 && abs <= StoreA:
		return PlayerA, true
	case abs > StoreA && abs <= StoreB:
		return PlayerB, true
	}
	return "", false
}

// ToAbsolute converts a player-relative index (0-5 own pits, 6 own store,
// 7-12 opponent pits, 13 opponent store) to the fixed board index
func ToAbsolute(p Player, rel int) int {
	return (rel + offset(p)) % BoardSize
}

// ToRelative is the inverse of ToAbsolute
func ToRelative(p Player, abs int) int {
	return (abs - offset(p) + BoardSize) % BoardSize
}

// rowEmpty reports whether all six pits of p are empty
func rowEmpty(b *Board, p Player) bool {
	start := offset(p)
	for i := start; i < start+PitsPerSide; i++ {
		if b[i] > 0 {
			return false
		}
	}
	return true
}

// InitialBoard returns the starting position for the given stones per pit
func InitialBoard(stonesPerPit int) Board {
	var b Board
	for i := range b {
		if !IsStore(i) {
			b[i] = stonesPerPit
		}
	}
	return b
}
