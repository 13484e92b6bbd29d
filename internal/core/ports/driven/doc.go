// Package driven defines the outbound ports of the ingestion and
// retrieval core: embedding, chat completion, chunk storage, document
// loading, and chunk post-processing. Adapters implement these
// interfaces; services consume them.
package driven
