/*
Package draft contains the woven draft data model used throughout Heddle.

A Draft is a rectangular grid of tri-state cells (the drawdown) with wefts rows and
warps columns. Every row carries a shuttle (material) id, a system id and a selvedge
flag; every column carries a shuttle id and a system id. Row and column metadata live
next to each other in a single slice per axis, so inserting or deleting a row or column
can never leave the mappings out of step with the grid.

# Key Entities

  - Cell: up, down or unset.
  - Draft: the grid plus per-axis metadata and a display name.
  - MergeSize / Fit: the LCM (or max) sizing used by every N-ary combining operator.
  - UniquifySystems: offsets system ids so several drafts can be merged without collisions.
  - Combine: the or/and/neq/up algebra used by the overlay family of operators.
*/
package draft
