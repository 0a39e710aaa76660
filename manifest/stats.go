package manifest

import "math"

// fieldSummaryAccumulator is a streaming per-partition-column aggregator
// (spec.md §4.2). One instance tracks one partition field across every
// entry fed to a writer; Finish() yields the FieldSummary the writer emits.
//
// Grounded structurally on the teacher's small mutable stats structs with
// a copy-returning accessor (QueueStats/PoolStats in worker_pool.go,
// file_queue.go) -- same shape, different fields.
type fieldSummaryAccumulator struct {
	lower        any
	upper        any
	hasBound     bool
	containsNull bool
	containsNaN  bool
}

func newFieldSummaryAccumulator() *fieldSummaryAccumulator {
	return &fieldSummaryAccumulator{}
}

// Update folds one partition value into the accumulator. v is nil for a
// null partition element.
func (a *fieldSummaryAccumulator) Update(v any) {
	if v == nil {
		a.containsNull = true
		return
	}

	if isNaN(v) {
		a.containsNaN = true
		return
	}

	if !a.hasBound {
		a.lower, a.upper = v, v
		a.hasBound = true
		return
	}

	if less(v, a.lower) {
		a.lower = v
	}
	if less(a.upper, v) {
		a.upper = v
	}
}

// Finish returns the accumulated summary. contains_nan is always Some(...),
// never left unset, per spec.md §4.2's "explicit no-NaN-observed" rule.
func (a *fieldSummaryAccumulator) Finish() FieldSummary {
	containsNaN := a.containsNaN
	return FieldSummary{
		LowerBound:   a.lower,
		UpperBound:   a.upper,
		ContainsNull: a.containsNull,
		ContainsNaN:  &containsNaN,
	}
}

func isNaN(v any) bool {
	switch n := v.(type) {
	case float32:
		return math.IsNaN(float64(n))
	case float64:
		return math.IsNaN(n)
	default:
		return false
	}
}

// less implements the strict ordering spec.md §4.2 requires: total order on
// non-float types, IEEE-754 order (NaN already filtered out by the caller)
// on floats.
func less(a, b any) bool {
	switch x := a.(type) {
	case bool:
		return !x && b.(bool)
	case int32:
		return x < b.(int32)
	case int64:
		return x < b.(int64)
	case float32:
		return x < b.(float32)
	case float64:
		return x < b.(float64)
	case string:
		return x < b.(string)
	case []byte:
		return lessBytes(x, b.([]byte))
	default:
		return false
	}
}

func lessBytes(a, b []byte) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
