// Package websocket pushes dice chess state to browsers watching a session.
//
// A single Hub goroutine owns the registry of connected clients, keyed by
// session ID. The REST layer calls BroadcastToSession after every command that
// reached the engine; the hub serializes one Message per call and fans it out
// to the clients of that session only.
//
// Outgoing messages look like:
//
//	{"session_id":"a1b2","event":"state_update","game_state":{...},"events":[...]}
//
// Clients never send commands over the socket. Incoming frames are read only
// to service pings and detect disconnects.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	defer hub.Stop()
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
package websocket
