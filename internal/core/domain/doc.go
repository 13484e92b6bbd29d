// Package domain contains the core business entities for document
// ingestion and retrieval: pages, chunks, stored chunks, scored
// results, ingestion events, and the similarity scoring they share.
//
// The package has no dependencies on adapters or services and defines
// the error variables those layers translate at their boundaries.
package domain
