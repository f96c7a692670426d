// Package region implements the region filter: an optional include set and
// an optional exclude set of genomic intervals, built from explicit region
// strings, contig patterns (numeric ranges or regexes, with macro
// expansion), and BED target files. Grounded on
// original_source/idxtools/regions.py and generalized onto ivlindex and
// refset in place of the source's ad hoc Intervals/References types.
package region

import (
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/genomepart/ivl"
	"github.com/grailbio/genomepart/ivlindex"
	"github.com/grailbio/genomepart/refset"
)

// Spec describes the raw, unresolved inputs used to build a Regions filter:
// explicit region strings, contig patterns, and target intervals (such as
// the rows of a BED targets file), each split into an include and an
// exclude side.
type Spec struct {
	IncludeRegions []string
	ExcludeRegions []string
	IncludeContigs []string
	ExcludeContigs []string
	IncludeTargets []ivl.Interval
	ExcludeTargets []ivl.Interval
}

// Macros maps a contig-pattern macro name (e.g. "autosomes") to the list of
// contig patterns it expands to. Expansion is to a fixed point, so a macro
// may refer to other macros.
type Macros map[string][]string

// Regions is a built region filter: an optional include index and an
// optional exclude index. A Regions built from an empty Spec allows
// everything. Its methods dereference the receiver, so they cannot be
// called on a nil *Regions.
type Regions struct {
	include *ivlindex.IntervalIndex
	exclude *ivlindex.IntervalIndex
	refs    *refset.Table
}

// New builds a Regions filter from spec against the given reference table.
// macros may be nil.
func New(spec Spec, refs *refset.Table, macros Macros) (*Regions, error) {
	r := &Regions{refs: refs}

	if len(spec.IncludeRegions) > 0 || len(spec.IncludeContigs) > 0 || len(spec.IncludeTargets) > 0 {
		idx, err := buildIndex(spec.IncludeRegions, spec.IncludeContigs, spec.IncludeTargets, refs, macros)
		if err != nil {
			return nil, err
		}
		r.include = idx
	}
	if len(spec.ExcludeRegions) > 0 || len(spec.ExcludeContigs) > 0 || len(spec.ExcludeTargets) > 0 {
		idx, err := buildIndex(spec.ExcludeRegions, spec.ExcludeContigs, spec.ExcludeTargets, refs, macros)
		if err != nil {
			return nil, err
		}
		r.exclude = idx
	}
	return r, nil
}

func buildIndex(regions, contigs []string, targets []ivl.Interval, refs *refset.Table, macros Macros) (*ivlindex.IntervalIndex, error) {
	idx := ivlindex.New()

	for _, rs := range regions {
		iv, err := ParseRegionString(rs, refs)
		if err != nil {
			return nil, err
		}
		idx.Add(ivl.NewVolume(iv.Contig, iv.Start, iv.End, 0))
	}

	if len(contigs) > 0 {
		expanded := expandMacros(contigs, macros)
		matched, err := matchContigs(expanded, refs)
		if err != nil {
			return nil, err
		}
		for _, name := range matched {
			length := refs.MustLength(name)
			idx.Add(ivl.NewVolume(name, 0, length, 0))
		}
	}

	for _, t := range targets {
		idx.Add(ivl.NewVolume(t.Contig, t.Start, t.End, 0))
	}

	idx.Commit()
	return idx, nil
}

// ParseRegionString parses a region string such as "chr1:100-1000" or
// "5:1-*" into an Interval. A bare contig name (no colon) means the whole
// contig. "*" as the end means "to the end of the contig", and requires a
// non-nil refs to resolve. Coordinates are 1-based inclusive on input, as
// in samtools region syntax, and are converted to the module's half-open
// zero-based convention.
func ParseRegionString(region string, refs *refset.Table) (ivl.Interval, error) {
	contig, startStr, endStr, hasRange := splitRegion(region)
	if !hasRange {
		if refs == nil {
			return ivl.Interval{}, errors.E(errors.Invalid, "region: cannot resolve whole-contig region without a reference table:", region)
		}
		length, ok := refs.Length(contig)
		if !ok {
			return ivl.Interval{}, errors.E(errors.NotExist, "region: unknown contig:", contig)
		}
		return ivl.New(contig, 0, length), nil
	}

	start, err := strconv.Atoi(startStr)
	if err != nil {
		return ivl.Interval{}, errors.E(errors.Invalid, err, "region: malformed start in", region)
	}
	if start <= 0 {
		return ivl.Interval{}, errors.E(errors.Invalid, "region: invalid region interval", region, ": start must be >= 1")
	}

	var end int
	if endStr == "*" {
		if refs == nil {
			return ivl.Interval{}, errors.E(errors.Invalid, "region: cannot resolve '*' end without a reference table:", region)
		}
		length, ok := refs.Length(contig)
		if !ok {
			return ivl.Interval{}, errors.E(errors.NotExist, "region: unknown contig:", contig)
		}
		end = length
	} else {
		end, err = strconv.Atoi(endStr)
		if err != nil {
			return ivl.Interval{}, errors.E(errors.Invalid, err, "region: malformed end in", region)
		}
	}

	start--
	if start >= end {
		return ivl.Interval{}, errors.E(errors.Invalid, "region: invalid region interval", region, ": start must be <= end")
	}
	return ivl.New(contig, start, end), nil
}

// splitRegion splits "contig[:start[-end]]" into its parts. hasRange is
// false for a bare contig name.
func splitRegion(region string) (contig, start, end string, hasRange bool) {
	colon := strings.IndexAny(region, ":")
	if colon < 0 {
		return region, "", "", false
	}
	contig = region[:colon]
	rest := region[colon+1:]
	if dash := strings.IndexByte(rest, '-'); dash >= 0 {
		return contig, rest[:dash], rest[dash+1:], true
	}
	return contig, rest, rest, true
}

func expandMacros(contigs []string, macros Macros) []string {
	if len(macros) == 0 {
		return contigs
	}
	cur := contigs
	for {
		expanded := make(map[string]bool)
		done := true
		for _, c := range cur {
			if sub, ok := macros[c]; ok {
				for _, s := range sub {
					expanded[s] = true
				}
				done = false
			} else {
				expanded[c] = true
			}
		}
		next := make([]string, 0, len(expanded))
		for c := range expanded {
			next = append(next, c)
		}
		cur = next
		if done {
			return cur
		}
	}
}

// contigMatcher matches a contig name against either a numeric range
// pattern ("chr1-22") or a fully-anchored regular expression.
type contigMatcher func(name string) bool

func matchContigs(patterns []string, refs *refset.Table) ([]string, error) {
	matchers := make([]contigMatcher, len(patterns))
	for i, p := range patterns {
		m, err := newContigMatcher(p)
		if err != nil {
			return nil, err
		}
		matchers[i] = m
	}

	var matched []string
	for _, name := range refs.Names() {
		for _, m := range matchers {
			if m(name) {
				matched = append(matched, name)
				break
			}
		}
	}
	return matched, nil
}

func newContigMatcher(pattern string) (contigMatcher, error) {
	if strings.Contains(pattern, "-") {
		return newRangeMatcher(pattern)
	}
	return newRegexMatcher(pattern)
}
