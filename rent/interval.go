package rent

// =============================================================================
// INTERVAL - Closed-closed date interval arithmetic
// =============================================================================

// Interval is a closed-closed date range: both From and To are included.
type Interval struct {
	From Date
	To   Date
}

// IsValid reports whether the interval is non-empty (From <= To).
func (iv Interval) IsValid() bool { return iv.From.BeforeOrEqual(iv.To) }

// Days returns the inclusive day count.
func (iv Interval) Days() int { return InclusiveDays(iv.From, iv.To) }

// Contains reports whether the date falls inside the interval.
func (iv Interval) Contains(d Date) bool {
	return d.AfterOrEqual(iv.From) && d.BeforeOrEqual(iv.To)
}

// Overlaps reports whether two intervals share at least one day.
func (iv Interval) Overlaps(o Interval) bool {
	return !o.To.Before(iv.From) && !o.From.After(iv.To)
}

// Clip intersects the interval with bounds. The second return is false
// when the intersection is empty.
func (iv Interval) Clip(bounds Interval) (Interval, bool) {
	out := Interval{From: MaxDate(iv.From, bounds.From), To: MinDate(iv.To, bounds.To)}
	return out, out.IsValid()
}

func (iv Interval) String() string {
	return "[" + iv.From.String() + ", " + iv.To.String() + "]"
}

// =============================================================================
// SUBTRACTION - Remove settled windows from an owed window
// =============================================================================

// Subtract removes the given intervals from the target, returning the
// uncovered remainder as disjoint intervals. The subtracted set may be
// unordered, mutually overlapping, or entirely outside the target.
//
// Each subtracted interval narrows the working set in turn: a piece it does
// not touch survives unchanged; a piece it overlaps is replaced by the
// sub-piece strictly before it and the sub-piece strictly after it, when
// those are non-empty. Adjacent remainder pieces are not merged.
//
// Subtracting the same set again from the result changes nothing, and the
// total uncovered day count does not depend on the order of sub.
func Subtract(target Interval, sub []Interval) []Interval {
	if !target.IsValid() {
		return nil
	}

	working := []Interval{target}
	for _, s := range sub {
		if !s.IsValid() {
			continue
		}
		var next []Interval
		for _, piece := range working {
			next = append(next, subtractOne(piece, s)...)
		}
		working = next
	}
	return working
}

func subtractOne(piece, s Interval) []Interval {
	if !piece.Overlaps(s) {
		return []Interval{piece}
	}

	var out []Interval
	if s.From.After(piece.From) {
		out = append(out, Interval{From: piece.From, To: s.From.AddDays(-1)})
	}
	if s.To.Before(piece.To) {
		out = append(out, Interval{From: s.To.AddDays(1), To: piece.To})
	}
	return out
}
