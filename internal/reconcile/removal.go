package reconcile

import (
	"fmt"
	"sort"

	"word-styler/internal/config"
	"word-styler/internal/extract"
	"word-styler/internal/logging"
)

// Range is an inclusive span of element indices.
type Range struct {
	Rule  string
	Start int
	End   int
}

func (r Range) Len() int { return r.End - r.Start + 1 }

// FindRemovalRanges pairs, per removal rule, the first start marker with the
// first end marker that follows it. A start with no end is reported as a
// warning and yields no range.
func FindRemovalRanges(elements []extract.Element, rules []config.RemovalRule) ([]Range, []string) {
	var (
		ranges   []Range
		warnings []string
	)
	for _, rule := range rules {
		start := -1
		found := false
		for i, el := range elements {
			if start < 0 && hasMarker(el, rule.StartMarker) {
				start = i
			}
			if start >= 0 && hasMarker(el, rule.EndMarker) {
				ranges = append(ranges, Range{Rule: rule.Name, Start: start, End: i})
				found = true
				break
			}
		}
		if start >= 0 && !found {
			warnings = append(warnings, fmt.Sprintf("%s: início no elemento %d sem marcador de fim", rule.Name, start))
		}
	}
	return ranges, warnings
}

type Rejection struct {
	Range  Range
	Reason string
}

// ValidateRanges accepts ranges in ascending order, rejecting those out of
// bounds, larger than half of total, or overlapping an accepted range.
func ValidateRanges(ranges []Range, total int) ([]Range, []Rejection) {
	sorted := append([]Range(nil), ranges...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	var (
		accepted []Range
		rejected []Rejection
	)
	for _, r := range sorted {
		if r.Start < 0 || r.End >= total || r.End < r.Start {
			rejected = append(rejected, Rejection{r, fmt.Sprintf("intervalo inválido %d-%d (total %d)", r.Start, r.End, total)})
			continue
		}
		if float64(r.Len()) > float64(total)*0.5 {
			rejected = append(rejected, Rejection{r, fmt.Sprintf("intervalo muito grande (%d de %d elementos)", r.Len(), total)})
			continue
		}
		overlap := false
		for _, a := range accepted {
			if !(r.End < a.Start || r.Start > a.End) {
				rejected = append(rejected, Rejection{r, fmt.Sprintf("intervalo %d-%d sobrepõe %d-%d", r.Start, r.End, a.Start, a.End)})
				overlap = true
				break
			}
		}
		if !overlap {
			accepted = append(accepted, r)
		}
	}
	return accepted, rejected
}

// Removed records which source paragraphs and tables were deleted, by their
// index before removal.
type Removed struct {
	Paragraphs map[int]struct{}
	Tables     map[int]struct{}
}

func (r Removed) Count() int {
	return len(r.Paragraphs) + len(r.Tables)
}

// ApplyRemoval deletes every source paragraph and table referenced by an
// element inside the accepted ranges.
func (r *Reconciler) ApplyRemoval(elements []extract.Element, ranges []Range) Removed {
	out := Removed{Paragraphs: map[int]struct{}{}, Tables: map[int]struct{}{}}
	for _, rg := range ranges {
		for i := rg.Start; i <= rg.End && i < len(elements); i++ {
			el := elements[i]
			switch el.Kind {
			case extract.KindParagraph:
				out.Paragraphs[el.ParagraphIndex] = struct{}{}
			case extract.KindTable:
				out.Tables[el.TableIndex] = struct{}{}
			}
		}
	}
	for i, p := range r.Doc.Paragraphs() {
		if _, ok := out.Paragraphs[i]; ok {
			p.Remove()
		}
	}
	for i, t := range r.Doc.Tables() {
		if _, ok := out.Tables[i]; ok {
			t.Remove()
		}
	}
	return out
}

// Remove runs the full removal stage: find, validate, apply.
func (r *Reconciler) Remove(elements []extract.Element) Removed {
	ranges, warnings := FindRemovalRanges(elements, r.Tax.Removals)
	for _, w := range warnings {
		r.Logger.Emit(logging.Event{Event: "removal_rejected", Level: "warn", Input: r.Input, Error: w})
	}
	accepted, rejected := ValidateRanges(ranges, len(elements))
	for _, rj := range rejected {
		r.Logger.Emit(logging.Event{Event: "removal_rejected", Level: "warn", Input: r.Input, Marker: rj.Range.Rule, Error: rj.Reason})
	}
	removed := r.ApplyRemoval(elements, accepted)
	r.Logger.Emit(logging.Event{Event: "removal_done", Input: r.Input, Count: removed.Count(), Total: len(accepted)})
	return removed
}

func hasMarker(el extract.Element, marker string) bool {
	for _, m := range el.Markers {
		if m == marker {
			return true
		}
	}
	return false
}
