// Package ports defines interfaces between layers in the hexagonal architecture.
// Service ports are implemented by the application layer and called by handlers.
// The store port is implemented by the in-memory project store and consumed by
// the application layer and by change listeners wired at startup.
package ports
