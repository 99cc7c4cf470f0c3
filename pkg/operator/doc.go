/*
Package operator classifies draft operators and adapts graph-shaped calls to them.

Every operator carries a Classification: a Topology (how many drafts go in and come
out) and a Constraint (whether drafts and parameters are optional, required or
forbidden). The pair fixes a Signature, and the operator's Compute must be the
matching function variant:

	Seed + NoDrafts        GenerateFunc      (params) -> draft
	Seed + DraftsOptional  GenerateWithFunc  (params, optional draft) -> draft
	Pipe + NoParams        TransformFunc     (draft) -> draft
	Pipe + AllRequired     PipeFunc          (draft, params) -> draft
	Merge + *              MergeFunc         (inlets, params) -> draft
	Branch + *             BranchFunc        (draft, params) -> drafts
	Bus + *                BusFunc           (inlets, params) -> drafts

Invoke takes the flat list of inputs a graph node sees (parameter values from the
node itself, drafts arriving at numbered inlets), marshals them into that call and
always returns a list of drafts. A missing mandatory draft or parameter yields an
empty list, never an error.
*/
package operator
