// Package service is the layer between the transports and the engine.
//
// GameService owns session orchestration: it creates sessions from rule sets,
// serializes moves on each session's engine and turns every sowing into a
// MoveResult with events (move, extra_turn, capture, no_op, game_over, reset)
// and a compact step record. Pit sequences, board clicks and paginated
// history are served from here too.
//
// SessionManager and ConfigManager are the storage interfaces; the session
// and config packages implement them.
//
//	sessions := session.NewManager()
//	configs, _ := config.NewManager("configs")
//	svc := service.NewGameService(sessions, configs)
//
//	info, _ := svc.CreateSession(ctx, "kalah")
//	result, err := svc.Move(ctx, info.ID, 2, false)
//
// Engine errors pass through wrapped, so callers can test them with
// errors.Is(err, engine.ErrInvalidMove).
package service
