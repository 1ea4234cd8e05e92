package blockfilter

// Insert adds key to the filter. For KindCuckoo, a failed insert (kick
// chain exhausted) is silently dropped; use InsertChecked to observe the
// failure.
func (h *Handle) Insert(key uint32) {
	h.impl.insert(key)
}

// Contains reports whether key may have been inserted. A false result is
// always correct (no false negatives); a true result may be a false
// positive, at a rate governed by the filter's shape and load.
func (h *Handle) Contains(key uint32) bool {
	return h.impl.contains(key)
}

// BatchInsert inserts every key in keys, in order.
func (h *Handle) BatchInsert(keys []uint32) {
	for _, k := range keys {
		h.impl.insert(k)
	}
}

// BatchContains evaluates every key in keys through the configured
// batch-probe engine and returns the subset reported present, in their
// original relative order. It is a convenience wrapper over
// BatchContainsAt for callers that want matched values rather than
// positions.
func (h *Handle) BatchContains(keys []uint32) []uint32 {
	if len(keys) == 0 {
		return nil
	}
	idx := make([]uint32, len(keys))
	n := h.BatchContainsAt(keys, idx, 0)
	out := make([]uint32, n)
	for i := 0; i < n; i++ {
		out[i] = keys[idx[i]]
	}
	return out
}

// BatchContainsAt evaluates every key in keys through the configured
// batch-probe engine and writes the positions of the keys reported
// present into out, each shifted by outOffset, returning the match
// count. out must have capacity >= len(keys). This exposes the engine's
// batch_contains(data, keys, out, offset) -> match_count contract
// directly, for callers probing successive chunks of a larger keystream
// into one shared out array (property 4: for every written slot j < match
// count, out[j] is the index in keys of the j-th reported key plus
// outOffset).
func (h *Handle) BatchContainsAt(keys []uint32, out []uint32, outOffset int) int {
	if len(keys) == 0 {
		return 0
	}
	return h.engine.BatchContains(keys, out, outOffset)
}

// UnrollFactor returns the batch-probe engine's current unroll factor.
func (h *Handle) UnrollFactor() int {
	return h.engine.UnrollFactor()
}

// Kind returns the filter's configured Kind.
func (h *Handle) Kind() Kind {
	return h.cfg.Kind
}
