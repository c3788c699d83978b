// Package types defines the core data types for the tunegraph knowledge graph.
//
// This package contains the fundamental types used throughout tunegraph:
//   - Node: a typed graph node (Artist, Band, Album, Song, Genre, RecordLabel, Award)
//   - Edge: a typed relationship between two nodes
//   - InputTables: the flat entity/relation tables consumed by the assembler
//   - PathRecord / RankedPath: retrieved graph paths and their ranked form
//   - RetrievalResult: the structured payload returned by the retrieval pipeline
//
// # Node Kinds
//
// Every node carries a NodeKind tag and a fixed set of fields for that kind.
// Fields belonging to other kinds stay at their zero value; unknown attributes
// from upstream records are dropped at the assembly boundary rather than
// carried in an open map.
//
// # Validation
//
// Types provide Validate() methods for input validation:
//
//	node := &types.Node{Kind: types.ArtistNode, ID: "artist_0", Name: "Taylor Swift"}
//	if err := node.Validate(); err != nil {
//	    // Handle validation error
//	}
package types
