// Package session keeps the in-memory table of running Mancala games.
//
// Each session owns its own engine and the rule set it was created with.
// Identifiers are case-insensitive; when a caller does not choose one the
// manager derives an 8-character id from a random UUID.
//
// The manager is safe for concurrent use. It guards the table only; moves on
// a session's engine are serialized by the game service.
//
// Sessions live until they are deleted or until CleanupExpiredSessions drops
// them for inactivity. Nothing is written to disk.
//
//	manager := session.NewManager()
//	sess, err := manager.Create("", rules)
package session
