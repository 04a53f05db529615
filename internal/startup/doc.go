// Package startup loads configuration from the environment and logs
// the startup sequence: banner, configuration summary, and registered
// routes.
package startup
