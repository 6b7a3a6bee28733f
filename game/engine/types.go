package engine

// Player identifies one side of the board
type Player string

const (
	PlayerA Player = "A"
	PlayerB Player = "B"
)

// Opponent returns the other player
func (p Player) Opponent() Player {
	if p == PlayerA {
		return PlayerB
	}
	return PlayerA
}

// Valid reports whether p is one of the two players
func (p Player) Valid() bool {
	return p == PlayerA || p == PlayerB
}

// Outcome is the result of a game. OutcomeNone while the game is running.
type Outcome string

const (
	OutcomeNone Outcome = "none"
	OutcomeA    Outcome = "A"
	OutcomeB    Outcome = "B"
	OutcomeDraw Outcome = "draw"
)

const (
	// Board geometry
	PitsPerSide = 6
	BoardSize   = 2*PitsPerSide + 2
	StoreA      = PitsPerSide
	StoreB      = BoardSize - 1

	// Validation constants
	DefaultStonesPerPit = 4
	MinStonesPerPit     = 1
	MaxStonesPerPit     = 12
	MaxBulkMoves        = 50
	WebSocketBufferSize = 256
)

// Board is the fixed-origin array of counters: A's pits 0-5, A's store 6,
// B's pits 7-12, B's store 13.
type Board [BoardSize]int

// Total returns the number of stones on the board
func (b Board) Total() int {
	sum := 0
	for _, n := range b {
		sum += n
	}
	return sum
}

// RuleMessages holds the player-facing messages of a rule set
type RuleMessages struct {
	Welcome   string `json:"welcome"`
	Turn      string `json:"turn"`
	ExtraTurn string `json:"extra_turn"`
	Capture   string `json:"capture"`
	EmptyPit  string `json:"empty_pit"`
	Victory   string `json:"victory"`
	Draw      string `json:"draw"`
}

// Rules represents a rule set loaded from JSON
type Rules struct {
	Name                 string       `json:"name"`
	Description          string       `json:"description"`
	StonesPerPit         int          `json:"stones_per_pit"`
	CaptureEmptyOpposite bool         `json:"capture_empty_opposite"`
	Messages             RuleMessages `json:"messages"`
}

// TotalStones is the conserved stone count for these rules
func (r *Rules) TotalStones() int {
	return 2 * PitsPerSide * r.StonesPerPit
}

// GameState represents a snapshot of the game
type GameState struct {
	Board         Board              `json:"board"`
	CurrentPlayer Player             `json:"current_player"`
	Winner        Outcome            `json:"winner"`
	GameOver      bool               `json:"game_over"`
	Message       string             `json:"message"`
	RulesName     string             `json:"rules_name"`
	StonesPerPit  int                `json:"stones_per_pit"`
	MoveHistory   []MoveHistoryEntry `json:"move_history"`
	TotalMoves    int                `json:"total_moves"`

	// CurrentMoves tracks only the moves since the last reset. MoveHistory stays cumulative.
	CurrentMoves      []MoveHistoryEntry `json:"current_moves"`
	CurrentMovesCount int                `json:"current_moves_count"`

	// Computed helper views
	LegalMoves []int `json:"legal_moves,omitempty"`
}

// MoveHistoryEntry represents a single sowing in the game history
type MoveHistoryEntry struct {
	Player     Player `json:"player"`
	Pit        int    `json:"pit"`        // own-row index 0-5
	FromIndex  int    `json:"from_index"` // absolute index
	Sown       int    `json:"sown"`       // stones lifted from the pit
	LastIndex  int    `json:"last_index"` // absolute index of the final stone
	ExtraTurn  bool   `json:"extra_turn"`
	Captured   int    `json:"captured"` // stones moved to the store by a capture, landing stone included
	BoardAfter Board  `json:"board_after"`
	Timestamp  int64  `json:"timestamp"`
	MoveNumber int    `json:"move_number"`
}
