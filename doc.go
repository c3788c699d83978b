// Package tunegraph builds and queries a music knowledge graph.
//
// The library has two halves. The assembly half turns parsed input tables
// (artists, albums, songs, genres, band classifications, awards) into an
// in-memory graph of typed nodes and edges, with deterministic identifiers
// and idempotent re-assembly, and exports it as CSV or Parquet tables or
// bulk-loads it into Neo4j. The retrieval half answers natural-language
// questions over that graph: it extracts entity candidates from the query,
// finds bounded-hop paths between them in Neo4j, ranks the paths with a
// weighted relevance heuristic, and verbalizes the best paths into a
// length-bounded context string for an OpenAI-compatible chat model.
//
// Building and importing a graph:
//
//	model, stats, err := tunegraph.BuildGraph(tables, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(stats.Nodes, "nodes,", stats.Edges, "edges")
//
//	graphStore, err := store.NewStore(store.Options{
//		URI:      "bolt://localhost:7687",
//		Username: "neo4j",
//		Password: "secret",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	if _, err := graphStore.Import(ctx, model); err != nil {
//		log.Fatal(err)
//	}
//
// Querying:
//
//	client, err := tunegraph.NewClient(graphStore, &tunegraph.Config{
//		Answerer: answer.NewOpenAIAnswerer(answer.Config{APIKey: key}),
//	}, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	text, _, err := client.Ask(ctx, `Did "Taylor Swift" work with "Ed Sheeran"?`)
//
// RetrieveContext never fails on an empty graph or an unparseable query; it
// returns a tagged result with a fallback context string so callers can
// still hand something coherent to the chat model.
package tunegraph
