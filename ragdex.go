// Package ragdex ingests documentation websites into a vector index for
// semantic retrieval and serves similarity queries against that index.
// Pages are fetched, reduced to plain text with heading metadata, split
// into bounded quality-filtered chunks, embedded, deduplicated, and
// upserted into a vector store collection.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., qdrant/, gemini/, sqlite/).
package ragdex
