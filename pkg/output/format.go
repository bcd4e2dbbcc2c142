// Package output provides utilities for formatting and displaying quotes,
// available options and simulation results.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/iwvelando/print-configurator/internal/catalog"
	"github.com/iwvelando/print-configurator/internal/pricing"
	"github.com/iwvelando/print-configurator/internal/simulation"
	"github.com/iwvelando/print-configurator/pkg/format"
	"github.com/iwvelando/print-configurator/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat writes a human-readable rather than machine-readable table of
// a simulation run.
func PrettyFormat(w io.Writer, result simulation.RunResult) {
	p := message.NewPrinter(language.English)
	_, _ = fmt.Fprintf(w, "--- Simulation %s ---\n", result.RunID)
	_, _ = p.Fprintf(w, "Cases: %d | pass: %d | warn: %d | error: %d | pass rate: %.1f%%\n",
		result.Total, result.Passed, result.Warned, result.Errored,
		mathutil.CalculatePercentage(float64(result.Passed), float64(result.Total)))
	_, _ = fmt.Fprintf(w, "Case  | Status | Total        | Selections | Message\n")
	_, _ = fmt.Fprintf(w, "____  | ______ | ____________ | __________ | _______\n")
	for i, c := range result.Cases {
		total := "-"
		if c.TotalPrice != nil {
			total = format.Won(*c.TotalPrice)
		}
		_, _ = fmt.Fprintf(w, "%5d | %-6s | %12s | %s | %s\n", i+1, c.Status, total, selectionString(c.Selections), c.Message)
	}
}

// CsvFormat writes one row per case. Selection keys become columns in
// sorted order.
func CsvFormat(w io.Writer, result simulation.RunResult) error {
	keys := selectionKeys(result.Cases)

	cw := csv.NewWriter(w)
	header := append([]string{"case", "status", "total"}, keys...)
	header = append(header, "violations", "message")
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, c := range result.Cases {
		total := ""
		if c.TotalPrice != nil {
			total = strconv.FormatFloat(*c.TotalPrice, 'f', -1, 64)
		}
		row := []string{strconv.Itoa(i + 1), string(c.Status), total}
		for _, k := range keys {
			row = append(row, c.Selections[k])
		}
		row = append(row, strconv.Itoa(len(c.Violations)), c.Message)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// PrettyBreakdown writes a quote.
func PrettyBreakdown(w io.Writer, b pricing.Breakdown) {
	_, _ = fmt.Fprintf(w, "--- Quote (%s x %d) ---\n", b.PrintOptionCode, b.Quantity)
	_, _ = fmt.Fprintf(w, "Print        %s x %d = %s\n", format.Won(b.PrintUnitPrice), b.Quantity, format.Won(b.PrintCost))
	for _, line := range b.PostProcesses {
		_, _ = fmt.Fprintf(w, "  %-24s %-8s %s\n", line.Name, line.PriceType, format.Won(line.Cost))
	}
	_, _ = fmt.Fprintf(w, "Subtotal     %s\n", format.Won(b.Subtotal))
	if !mathutil.IsZero(b.DiscountAmount) {
		_, _ = fmt.Fprintf(w, "Discount     -%s (%s)\n", format.Won(b.DiscountAmount), format.Percent(b.DiscountRate))
	}
	_, _ = fmt.Fprintf(w, "Total        %s\n", format.Won(b.Total))
}

// PrettyAvailable writes what can still be chosen for a selection.
func PrettyAvailable(w io.Writer, a catalog.AvailableOptions) {
	var names []string
	for _, m := range a.PrintMethods {
		names = append(names, fmt.Sprintf("%d %s", m.JobPresetNo, m.Name))
	}
	_, _ = fmt.Fprintf(w, "Print methods: %s\n", strings.Join(names, ", "))

	names = names[:0]
	for _, s := range a.Sizes {
		names = append(names, fmt.Sprintf("%d %s", s.SizeNo, s.Name))
	}
	_, _ = fmt.Fprintf(w, "Sizes:         %s\n", strings.Join(names, ", "))

	names = names[:0]
	for _, p := range a.Papers {
		names = append(names, fmt.Sprintf("%d %s", p.PaperNo, p.Name))
	}
	_, _ = fmt.Fprintf(w, "Papers:        %s\n", strings.Join(names, ", "))

	names = names[:0]
	for _, o := range a.Options {
		names = append(names, fmt.Sprintf("%d %s", o.OptNo, o.Name))
	}
	_, _ = fmt.Fprintf(w, "Options:       %s\n", strings.Join(names, ", "))

	_, _ = fmt.Fprintf(w, "Colors:        %s\n", colorNames(a.Colors))
	_, _ = fmt.Fprintf(w, "Extra colors:  %s\n", colorNames(a.ColorsAdd))

	for _, g := range a.PostProcesses {
		names = names[:0]
		for _, job := range g.Jobs {
			names = append(names, fmt.Sprintf("%d %s", job.JobNo, job.Name))
		}
		_, _ = fmt.Fprintf(w, "Post-process %s (%s): %s\n", g.Name, g.Type, strings.Join(names, ", "))
	}

	q := a.Quantities
	_, _ = fmt.Fprintf(w, "Quantity:      %d-%d step %d\n", q.MinQty, q.MaxQty, q.Interval)
	PrettyViolations(w, a.Violations)
}

// PrettyViolations writes one line per violation.
func PrettyViolations(w io.Writer, violations []catalog.Violation) {
	for _, v := range violations {
		kind := string(v.Kind)
		if v.Advisory {
			kind = "warning"
		}
		_, _ = fmt.Fprintf(w, "[%s] %s -> %s: %s\n", kind, v.Source, v.Target, v.Message)
	}
}

// PrettyCompleteness writes the publish checklist.
func PrettyCompleteness(w io.Writer, r simulation.CompletenessResult) {
	for _, item := range r.Items {
		mark := " "
		if item.Completed {
			mark = "x"
		}
		_, _ = fmt.Fprintf(w, "[%s] %-12s %s\n", mark, item.Item, item.Message)
	}
	_, _ = fmt.Fprintf(w, "%d/%d completed, publishable: %t\n", r.CompletedCount, r.TotalCount, r.Publishable)
}

func colorNames(colors []catalog.Color) string {
	names := make([]string, 0, len(colors))
	for _, c := range colors {
		names = append(names, fmt.Sprintf("%d %s", c.ColorNo, c.Name))
	}
	return strings.Join(names, ", ")
}

func selectionKeys(cases []simulation.CaseResult) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, c := range cases {
		for k := range c.Selections {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

func selectionString(sel simulation.Selections) string {
	keys := make([]string, 0, len(sel))
	for k := range sel {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + sel[k]
	}
	return strings.Join(parts, " ")
}
