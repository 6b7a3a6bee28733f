// Package mcp exposes Kalah sessions to Model Context Protocol agents.
//
// The Client is a thin proxy: every tool call becomes a request against the
// REST API, and the JSON answer is rendered as text for the agent.
//
// MCP Tools:
//   - create_session, list_sessions, get_session: session management
//   - game_state: board rendering, stores, player to move and legal pits
//   - play_pit: sow one own-row pit (0-5)
//   - play_sequence: sow several pits, stopping at game over, an invalid pit or an empty pit
//   - reset_game: restart from the initial board
//   - move_history: paginated history
//   - list_configs: available rule sets
//   - game_instructions: the rules
//   - describe_pit: owner, stones, opposite pit and landing index for one absolute index
//
// Transport Modes:
//
// The server built by NewClient is served over stdio with server.ServeStdio,
// or mounted on the HTTP server at /mcp through MCPServer.HandleMessage.
package mcp
