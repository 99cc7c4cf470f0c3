/*
Package heddle builds woven-textile drafts by composing operators into a graph.

A Workspace holds draft nodes (interlacement grids), operator nodes (transformations
such as tabby, twill, interlace or flip) and the connections between them. When an
input changes, the operators downstream of it are recomputed in dependency order and
their output drafts are attached to the graph as child nodes of the operator.

# Concept

The workspace is a library: the host (CLI, HTTP server, MCP agent or a loom bridge)
decides when to recompute and how to draw. Heddle owns the draft model, the operator
contracts and the dependency graph, and exposes traversal primitives so an external
scheduler can replace the built-in Recompute.

# Key Features

  - Typed operators: every operator is classified by draft cardinality and input
    optionality, and a missing mandatory input yields an empty result, never an error.
  - Connections as nodes: each edge can be created, queried and removed on its own.
  - Standalone stepping: single pipe and seed operators can be invoked outside the
    graph, which is what a loom pedal bridge needs.

# Usage

	ws := heddle.New()
	ctx := context.Background()

	seed, _ := ws.AddOperator(ctx, "tabby", operator.Params{"repeats": 2})
	flip, _ := ws.AddOperator(ctx, "flip-horizontal", nil)
	if _, err := ws.Connect(ctx, seed, flip, 0); err != nil {
		log.Fatal(err)
	}
	if err := ws.RecomputeAll(ctx); err != nil {
		log.Fatal(err)
	}
	for _, id := range ws.Outputs(flip) {
		d, _ := ws.Draft(id)
		fmt.Println(d)
	}
*/
package heddle
