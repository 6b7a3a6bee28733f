// Package websocket pushes game updates to browsers watching a session.
//
// A Hub keeps the set of connections per session id. The API calls
// BroadcastToSession after every state change and BroadcastEvent with the
// move events; the hub fans each message out on its own goroutine so callers
// never block. Clients that cannot keep up are dropped.
//
// Outgoing messages are JSON:
//
//	{"session_id": "3f2a9c1e", "event": "state_update", "game_state": {...}}
//	{"session_id": "3f2a9c1e", "event": "events", "data": [...]}
//
// The socket is push-only. Moves go through the REST API; incoming frames are
// read only to service ping/pong and close handling.
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
package websocket
