package region

import "github.com/grailbio/genomepart/ivl"

// Allows reports whether iv is fully contained in an included region (if
// any include set was configured) and does not overlap any excluded
// region.
func (r *Regions) Allows(iv ivl.Interval) (bool, error) {
	contained := true
	if r.include != nil {
		contained = false
		overlapping, err := r.include.Find(iv)
		if err != nil {
			return false, err
		}
		for _, o := range overlapping {
			if ivl.Compare(iv, o.Interval).OverlapA == 1 {
				contained = true
				break
			}
		}
	}
	if !contained {
		return false, nil
	}
	if r.exclude != nil {
		overlapping, err := r.exclude.Find(iv)
		if err != nil {
			return false, err
		}
		if len(overlapping) > 0 {
			return false, nil
		}
	}
	return true, nil
}

// IterAllowed yields the maximal set of intervals allowed by this filter:
// the include regions (or, with no include set, the whole genome) with any
// excluded regions carved out.
func (r *Regions) IterAllowed() ([]ivl.Interval, error) {
	var base []ivl.Interval
	if r.include != nil {
		base = r.includeIntervals()
	} else {
		for _, e := range r.refs.Entries() {
			base = append(base, ivl.New(e.Name, 0, e.Length))
		}
	}

	if r.exclude == nil {
		return base, nil
	}

	var out []ivl.Interval
	for _, b := range base {
		overlapping, err := r.exclude.Find(b)
		if err != nil {
			return nil, err
		}
		if len(overlapping) == 0 {
			out = append(out, b)
			continue
		}
		others := make([]ivl.Interval, len(overlapping))
		for i, o := range overlapping {
			others[i] = o.Interval
		}
		pieces, err := ivl.Divide(b, others)
		if err != nil {
			return nil, err
		}
		out = append(out, pieces...)
	}
	return out, nil
}

// includeIntervals extracts the plain Intervals backing r.include, in
// sorted order. It exists because ivlindex.IntervalIndex does not expose a
// raw iteration method beyond Find, so this walks it per-contig via the
// reference table.
func (r *Regions) includeIntervals() []ivl.Interval {
	var out []ivl.Interval
	for _, e := range r.refs.Entries() {
		hits, err := r.include.Find(ivl.New(e.Name, 0, e.Length))
		if err != nil {
			continue
		}
		for _, h := range hits {
			out = append(out, h.Interval)
		}
	}
	return out
}

// Intersect constrains each of intervals to this filter's allowed regions,
// yielding zero or more fragments per input interval.
func (r *Regions) Intersect(intervals []ivl.Interval) ([]ivl.Interval, error) {
	var out []ivl.Interval
	for _, iv := range intervals {
		var within []ivl.Interval
		if r.include != nil {
			hits, err := r.include.Find(iv)
			if err != nil {
				return nil, err
			}
			if len(hits) == 0 {
				continue
			}
			others := make([]ivl.Interval, len(hits))
			for i, h := range hits {
				others[i] = h.Interval
			}
			pieces, err := ivl.Intersect(iv, others)
			if err != nil {
				return nil, err
			}
			within = pieces
		} else {
			within = []ivl.Interval{iv}
		}

		if r.exclude == nil {
			out = append(out, within...)
			continue
		}
		for _, sub := range within {
			hits, err := r.exclude.Find(sub)
			if err != nil {
				return nil, err
			}
			if len(hits) == 0 {
				out = append(out, sub)
				continue
			}
			others := make([]ivl.Interval, len(hits))
			for i, h := range hits {
				others[i] = h.Interval
			}
			pieces, err := ivl.Divide(sub, others)
			if err != nil {
				return nil, err
			}
			out = append(out, pieces...)
		}
	}
	return out, nil
}
