// Package driven defines the outbound ports of the sync engine: the change
// feed, content fetch, chunking, embedding, the chunk index and the stores
// it depends on. Adapters implement these interfaces; core services consume
// them.
package driven
