// Package services implements the core of the delta synchronisation engine:
// the page reconciler, the sync orchestrator, the interval scheduler and the
// index invalidation signal. Services depend only on domain types and ports.
package services
