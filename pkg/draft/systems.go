package draft

// UniquifySystems makes system ids distinct across several mappings that are about to
// be merged. The first mapping is kept as is; every later mapping is offset by one more
// than the largest id of the (already offset) mapping before it, so ids never collide.
// Unassigned entries stay unassigned and do not contribute to the offset.
//
// Afterwards every mapping is right-padded to the length of the longest one by repeating
// it cyclically from index 0. Mappings are never truncated. An empty mapping that needs
// padding is filled with Unassigned.
//
// The inputs are not modified.
func UniquifySystems(mappings ...[]int) [][]int {
	out := make([][]int, len(mappings))
	next := 0
	for k, m := range mappings {
		offset := 0
		if k > 0 {
			offset = next
		}
		shifted := make([]int, len(m))
		top := offset - 1
		for i, id := range m {
			if id == Unassigned {
				shifted[i] = Unassigned
				continue
			}
			shifted[i] = id + offset
			top = max(top, shifted[i])
		}
		next = max(next, top+1)
		out[k] = shifted
	}

	longest := 0
	for _, m := range out {
		longest = max(longest, len(m))
	}
	for k, m := range out {
		out[k] = padCyclic(m, longest)
	}
	return out
}

func padCyclic(m []int, n int) []int {
	if len(m) >= n {
		return m
	}
	out := make([]int, n)
	for i := range out {
		if len(m) == 0 {
			out[i] = Unassigned
			continue
		}
		out[i] = m[i%len(m)]
	}
	return out
}
