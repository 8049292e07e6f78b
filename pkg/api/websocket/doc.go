// Package websocket streams orchestration events to browser and CLI
// clients over a websocket connection.
package websocket
