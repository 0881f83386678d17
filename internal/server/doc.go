// Package server manages the lifecycle of the engine's transport servers:
// creation, startup, OS-signal handling, and graceful shutdown.
package server
