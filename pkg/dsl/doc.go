/*
Package dsl provides a fluent builder for constructing heddle workspaces in Go.

Nodes are addressed by string keys instead of node ids, so a graph can be written top
to bottom and wired by name. Build creates the nodes in declaration order, connects
them and recomputes every operator.

Example usage:

	b := dsl.New()
	b.Op("ground", "twill").Param("up", 2).Param("down", 2)
	b.Draft("motif").Pattern("x.", ".x")
	b.Op("mix", "interlace").From("ground", "motif")
	b.Op("out", "flip-vertical").From("mix")

	ws, ids, err := b.Build(ctx)
	if err != nil {
		log.Fatal(err)
	}
	for _, id := range ws.Outputs(ids["out"]) {
		d, _ := ws.Draft(id)
		fmt.Println(d)
	}
*/
package dsl
