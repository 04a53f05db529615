// Package metrics defines the Prometheus metrics exported by the
// pipeline and its HTTP surfaces, and the optional metrics listener.
package metrics
