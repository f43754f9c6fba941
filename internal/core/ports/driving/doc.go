// Package driving defines the inbound ports of the sync engine, consumed by
// the CLI and the scheduler.
package driving
