// Package websocket pushes snapshot updates to connected clients.
//
// The Hub groups clients by session ID. After every applied command the
// API layer hands the rebuilt snapshot to the hub, which fans it out to
// every client watching that session. Clients never send game commands
// over the socket; commands go through the REST API and the socket is a
// read-only update stream.
package websocket
