// Package domain contains the core types of the delta synchronisation
// engine: remote items and their change records, chunks, sync cursors and
// cycle results. It has no dependencies on adapters or external services.
package domain
