package output

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/iwvelando/print-configurator/internal/catalog"
	"github.com/iwvelando/print-configurator/internal/pricing"
	"github.com/iwvelando/print-configurator/internal/simulation"
)

func sampleRun() simulation.RunResult {
	total := 80750.0
	return simulation.RunResult{
		RunID: "run-1",
		Cases: []simulation.CaseResult{
			{Selections: simulation.Selections{"size": "101", "paper": "203"}, Status: simulation.StatusPass, TotalPrice: &total},
			{Selections: simulation.Selections{"size": "102", "paper": "201", "quantity": "10"}, Status: simulation.StatusError,
				Message: "paper 201 is not available for this selection",
				Violations: []catalog.Violation{{Kind: catalog.ViolationRestricted, Source: "product:1", Target: "paper"}}},
		},
		Total: 2, Passed: 1, Errored: 1,
	}
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	PrettyFormat(&buf, sampleRun())
	output := buf.String()

	expected := []string{
		"--- Simulation run-1 ---",
		"Cases: 2 | pass: 1 | warn: 0 | error: 1 | pass rate: 50.0%",
		"Case  | Status | Total        | Selections | Message",
		"₩80,750",
		"paper=203 size=101",
		"paper=201 quantity=10 size=102",
		"paper 201 is not available for this selection",
	}
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("PrettyFormat output missing %q:\n%s", want, output)
		}
	}
}

func TestCsvFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, sampleRun()); err != nil {
		t.Fatalf("CsvFormat() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("CsvFormat() wrote invalid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("CsvFormat() wrote %d records, expected 3", len(records))
	}

	header := strings.Join(records[0], ",")
	if header != "case,status,total,paper,quantity,size,violations,message" {
		t.Errorf("CsvFormat() header = %s", header)
	}
	if got := strings.Join(records[1], ","); got != "1,pass,80750,203,,101,0," {
		t.Errorf("CsvFormat() first row = %s", got)
	}
	if records[2][2] != "" {
		t.Errorf("CsvFormat() error case total = %q, expected empty", records[2][2])
	}
	if records[2][6] != "1" {
		t.Errorf("CsvFormat() violation count = %q, expected 1", records[2][6])
	}
}

func TestPrettyBreakdown(t *testing.T) {
	var buf bytes.Buffer
	PrettyBreakdown(&buf, pricing.Breakdown{
		Quantity: 1000, PrintOptionCode: "DIGITAL", PrintUnitPrice: 70, PrintCost: 70000,
		PostProcesses: []pricing.PostProcessLine{{JobNo: 10010, Name: "Gloss lamination", PriceType: catalog.PricePerUnit, UnitPrice: 15, Cost: 15000}},
		Subtotal:      85000, DiscountRate: 0.05, DiscountAmount: 4250, Total: 80750,
	})
	output := buf.String()

	for _, want := range []string{"DIGITAL x 1000", "₩70 x 1000 = ₩70,000", "Gloss lamination", "₩15,000", "-₩4,250 (5%)", "Total        ₩80,750"} {
		if !strings.Contains(output, want) {
			t.Errorf("PrettyBreakdown output missing %q:\n%s", want, output)
		}
	}
}

func TestPrettyBreakdownWithoutDiscount(t *testing.T) {
	var buf bytes.Buffer
	PrettyBreakdown(&buf, pricing.Breakdown{
		Quantity: 10, PrintOptionCode: "DIGITAL", PrintUnitPrice: 120, PrintCost: 1200,
		Subtotal: 1200, DiscountAmount: 0.2, Total: 1200,
	})
	if strings.Contains(buf.String(), "Discount") {
		t.Errorf("PrettyBreakdown() printed a discount below one won:\n%s", buf.String())
	}
}

func TestPrettyViolations(t *testing.T) {
	var buf bytes.Buffer
	PrettyViolations(&buf, []catalog.Violation{
		{Kind: catalog.ViolationRequired, Source: "paper:202", Target: "awkjob:30010", Message: "needs sealing"},
		{Kind: catalog.ViolationRestricted, Source: "rule:5", Target: "color", Message: "dull", Advisory: true},
	})
	expected := "[required] paper:202 -> awkjob:30010: needs sealing\n[warning] rule:5 -> color: dull\n"
	if buf.String() != expected {
		t.Errorf("PrettyViolations() = %q, expected %q", buf.String(), expected)
	}
}

func TestPrettyCompleteness(t *testing.T) {
	var buf bytes.Buffer
	PrettyCompleteness(&buf, simulation.CheckCompleteness(simulation.CompletenessInput{
		HasDefaultRecipe: true, OptionTypeCount: 2, MinChoiceCount: 2, HasRequiredOption: true,
		HasPricingConfig: true, IsPricingActive: true, MesItemCd: "M1",
	}))
	output := buf.String()
	if !strings.Contains(output, "[x] options      2 option type(s) configured") {
		t.Errorf("PrettyCompleteness output missing options line:\n%s", output)
	}
	if !strings.Contains(output, "4/4 completed, publishable: true") {
		t.Errorf("PrettyCompleteness output missing summary:\n%s", output)
	}
}
