// Package stream implements the loopback asset streaming server: the
// HTTP surface that carries payloads too large for the control
// channel. It serves raw file bytes for full-resolution viewing and
// video playback, and cached thumbnail bytes for grid cells.
package stream
