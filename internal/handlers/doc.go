// Package handlers implements the control-channel HTTP API consumed by
// the UI shell: scanning, rendition requests, metadata, and file
// lifecycle commands. Responses are JSON; large payloads are referred
// to the streaming server instead of being carried inline.
package handlers
