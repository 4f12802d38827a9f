// Package streamserver serves the websocket channel that carries screen
// frames to the admitted viewer.
//
// A handshake is admitted through the session gate before the upgrade, so a
// rejected claimant never gets a websocket. Each admitted connection has a
// bounded send queue drained by a write pump; a read pump watches for
// disconnects and pong timeouts and releases the session when the
// connection goes away.
//
// Messages are JSON text frames:
//
//	{"event":"session_started"}
//	{"event":"frame","data":"<base64 jpeg>"}
package streamserver
