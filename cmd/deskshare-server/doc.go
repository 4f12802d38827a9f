// Package main provides the entry point for deskshare-server.
//
// deskshare-server shares this machine's screen with exactly one remote
// browser at a time. It prints a single-use access token at startup; the
// first client to present it over the websocket channel gets the live
// frame stream and may send mouse, keyboard and shell commands.
//
// Usage:
//
//	deskshare-server [--config deskshare.yaml] [--addr 0.0.0.0:5000]
//	deskshare-server status [--server http://127.0.0.1:5000]
package main
