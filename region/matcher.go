package region

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
)

// newRegexMatcher compiles pattern as a fully-anchored regular expression,
// mirroring Python's re.fullmatch semantics.
func newRegexMatcher(pattern string) (contigMatcher, error) {
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, errors.E(errors.Invalid, err, "region: invalid contig pattern:", pattern)
	}
	return func(name string) bool { return re.MatchString(name) }, nil
}

// newRangeMatcher parses a numeric contig range such as "chr1-22": an
// alphabetic prefix taken from the start token, paired with a numeric bound
// on each side of the dash (the end token's own alphabetic prefix, if any,
// is stripped the same way). It matches any contig with the start token's
// alphabetic prefix whose numeric suffix falls within [start, end].
func newRangeMatcher(pattern string) (contigMatcher, error) {
	dash := strings.IndexByte(pattern, '-')
	if dash < 0 {
		return nil, errors.E(errors.Invalid, "region: invalid contig range:", pattern)
	}
	startStr, endStr := pattern[:dash], pattern[dash+1:]

	i := 0
	for i < len(startStr) && isAlpha(startStr[i]) {
		i++
	}
	if i == 0 || i >= len(startStr) {
		return nil, errors.E(errors.Invalid, "region: invalid contig range:", pattern)
	}
	prefix := startStr[:i]

	// endStr's numeric tail starts after its own alphabetic prefix, not at
	// startStr's prefix length -- the canonical form "chr1-22" has a bare
	// numeric endStr with no prefix at all.
	j := 0
	for j < len(endStr) && isAlpha(endStr[j]) {
		j++
	}
	start, err := strconv.ParseFloat(startStr[i:], 64)
	if err != nil {
		return nil, errors.E(errors.Invalid, err, "region: invalid contig range start:", pattern)
	}
	end, err := strconv.ParseFloat(endStr[j:], 64)
	if err != nil {
		return nil, errors.E(errors.Invalid, err, "region: invalid contig range end:", pattern)
	}

	return func(name string) bool {
		if !strings.HasPrefix(name, prefix) {
			return false
		}
		n, err := strconv.ParseFloat(name[len(prefix):], 64)
		if err != nil {
			return false
		}
		return n >= start && n <= end
	}, nil
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
