package testutil

import (
	"testing"

	"github.com/iwvelando/print-configurator/internal/catalog"
)

func TestFindJobGroup(t *testing.T) {
	groups := SampleProduct().JobGroups

	group := FindJobGroup(groups, GroupSealing)
	if group == nil {
		t.Fatalf("FindJobGroup(%d) returned nil", GroupSealing)
	}
	if group.Name != "Sealing" {
		t.Errorf("FindJobGroup(%d).Name = %q, expected Sealing", GroupSealing, group.Name)
	}
	if FindJobGroup(groups, 1) != nil {
		t.Errorf("FindJobGroup(1) expected nil")
	}
}

func TestHasViolation(t *testing.T) {
	violations := []catalog.Violation{
		{Kind: catalog.ViolationRequired, Target: "color"},
		{Kind: catalog.ViolationRestricted, Target: "awkjob:10020"},
	}

	tests := []struct {
		kind     catalog.ViolationKind
		target   string
		expected bool
	}{
		{catalog.ViolationRequired, "color", true},
		{catalog.ViolationRestricted, "awkjob:10020", true},
		{catalog.ViolationRestricted, "color", false},
		{catalog.ViolationRequired, "paper", false},
	}
	for _, tt := range tests {
		if got := HasViolation(violations, tt.kind, tt.target); got != tt.expected {
			t.Errorf("HasViolation(%s, %s) = %v, expected %v", tt.kind, tt.target, got, tt.expected)
		}
	}
}

func TestSampleProductIsFresh(t *testing.T) {
	a := SampleProduct()
	a.Sizes[0].Name = "changed"
	a.Pricing.Tiers[0].UnitPrice = 1

	b := SampleProduct()
	if b.Sizes[0].Name != "A4" || b.Pricing.Tiers[0].UnitPrice != 120 {
		t.Errorf("SampleProduct() shares state between calls")
	}
	if len(SampleCatalog().Products) != 1 {
		t.Errorf("SampleCatalog() expected exactly one product")
	}
}
