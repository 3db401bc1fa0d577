package inject

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"bennypowers.dev/sfcgen/internal/collections"
	"bennypowers.dev/sfcgen/internal/log"
)

// DefaultHelpers are the define-component helper identifiers matched by
// default. Compiled <script setup> output calls the underscored alias.
var DefaultHelpers = []string{"defineComponent", "_defineComponent"}

// Options configures Inject
type Options struct {
	Dialect Dialect
	// Helpers overrides DefaultHelpers when non-empty
	Helpers []string
}

// Result is the outcome of one Inject call
type Result struct {
	Code string
	// Count is the number of insertion points rewritten
	Count  int
	Policy Policy
}

// Inject rewrites code so every component expression carries the wrapper's
// properties and hooks. The first matching policy wins:
//  1. every call to a define-component helper, at any depth
//  2. the value of the top-level default export
//  3. a new `export default {}` appended to the code
//
// Text outside the matched ranges is preserved byte for byte.
func Inject(code string, w Wrapper, opts Options) (*Result, error) {
	helpers := opts.Helpers
	if len(helpers) == 0 {
		helpers = DefaultHelpers
	}

	parser := AcquireParser(opts.Dialect)
	defer ReleaseParser(parser)

	calls, err := parser.FindDefineCalls(code, collections.NewSet(helpers...))
	if err != nil {
		return nil, err
	}
	if len(calls) > 0 {
		count, out, err := Splice(code, calls, w)
		if err != nil {
			return nil, err
		}
		log.Debug("Wrapped %d define-component calls", count)
		return &Result{Code: out, Count: count, Policy: PolicyDefineCall}, nil
	}

	export, ok, err := parser.FindDefaultExport(code)
	if err != nil {
		return nil, err
	}
	if ok {
		count, out, err := Splice(code, []Range{export}, w)
		if err != nil {
			return nil, err
		}
		log.Debug("Wrapped default export at [%d, %d)", export.Start, export.End)
		return &Result{Code: out, Count: count, Policy: PolicyDefaultExport}, nil
	}

	var sb strings.Builder
	sb.WriteString(code)
	if code != "" && !strings.HasSuffix(code, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString("export default ")
	sb.WriteString(w.Wrap("{}"))
	sb.WriteString("\n")
	log.Debug("No component expression found, appended a default export")
	return &Result{Code: sb.String(), Count: 1, Policy: PolicySynthesized}, nil
}

// Validate checks that no two ranges partially overlap. Nested and disjoint
// ranges are allowed.
func Validate(ranges []Range) error {
	sorted := slices.Clone(ranges)
	slices.SortFunc(sorted, func(a, b Range) int {
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}
		return cmp.Compare(b.End, a.End)
	})

	// stack of ranges that enclose the current start
	var open []Range
	for _, r := range sorted {
		for len(open) > 0 && open[len(open)-1].End <= r.Start {
			open = open[:len(open)-1]
		}
		if len(open) > 0 && r.End > open[len(open)-1].End {
			return &InterlacingError{A: open[len(open)-1], B: r}
		}
		open = append(open, r)
	}
	return nil
}

// Splice replaces each range of code with its wrapped form and returns the
// number of ranges processed and the new text.
//
// Ranges are processed from the rightmost start leftwards so a replacement
// never moves a range that is still pending, except ranges enclosing it:
// their recorded end is shifted by the replacement's length delta before
// they are processed.
func Splice(code string, ranges []Range, w Wrapper) (int, string, error) {
	for _, r := range ranges {
		if r.Start < 0 || r.End < r.Start || r.End > len(code) {
			return 0, "", fmt.Errorf("%w: [%d, %d) in %d bytes", ErrRangeOutOfBounds, r.Start, r.End, len(code))
		}
	}
	if err := Validate(ranges); err != nil {
		return 0, "", err
	}

	pending := slices.Clone(ranges)
	slices.SortFunc(pending, func(a, b Range) int {
		if c := cmp.Compare(b.Start, a.Start); c != 0 {
			return c
		}
		// inner before outer when two ranges share a start
		return cmp.Compare(a.End, b.End)
	})
	pending = slices.CompactFunc(pending, func(a, b Range) bool {
		return a.Start == b.Start && a.End == b.End
	})

	for i := range pending {
		cur := pending[i]
		expr := code[cur.Start:cur.End]
		replaced := w.Wrap(expr)
		delta := len(replaced) - len(expr)

		// only ranges enclosing cur grow; a left neighbor ending at an
		// empty range's start does not
		for j := i + 1; j < len(pending); j++ {
			if pending[j].End >= cur.End && pending[j].End > cur.Start {
				pending[j].End += delta
			}
		}
		code = code[:cur.Start] + replaced + code[cur.End:]
	}
	return len(pending), code, nil
}
