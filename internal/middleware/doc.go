// Package middleware provides HTTP middleware shared by the control
// API and the streaming server.
//
// It includes:
//   - Request logging with configurable path filtering
//   - Prometheus request instrumentation
package middleware
