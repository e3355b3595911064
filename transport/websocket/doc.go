// Package websocket pushes live session updates to browser and desktop clients.
//
// A central Hub owns every connection. Each client has a read pump and a write
// pump goroutine; all bookkeeping happens on the hub goroutine started by Run.
//
// Message Protocol:
//
// Outgoing messages are JSON objects, several of which may share one frame
// separated by newlines:
//
//	{"session_id":"a1b2","event":"state_update","state":{...},"frame":{...}}
//	{"session_id":"a1b2","event":"frame","frame":{...}}
//	{"session_id":"a1b2","event":"level_complete","value":2}
//	{"session_id":"a1b2","event":"game_over","value":340}
//
// Incoming messages are pointer samples in board pixels:
//
//	{"type":"pointer_down","x":260,"y":300}
//
// They are forwarded to the InputHandler; a rejected sample is answered with
// an "error" event sent to that client only.
//
// Usage:
//
//	hub := websocket.NewHub()
//	hub.SetInputHandler(gameService)
//	go hub.Run(ctx)
//
//	svc := service.NewGameServiceWithNotifier(sessions, configs, hub)
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
// Publish never blocks, so the engine can notify while its session lock is
// held. When the queue is full the update is dropped and logged.
package websocket
