// Package driving provides interfaces for user-facing entrypoints
// (primary/inbound ports) implemented by the core services.
package driving
