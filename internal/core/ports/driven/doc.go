// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): storage, embedding, chat, extraction and
// configuration.
package driven
