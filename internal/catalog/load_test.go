package catalog_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/iwvelando/print-configurator/internal/catalog"
	"github.com/iwvelando/print-configurator/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	c, err := catalog.LoadFile(filepath.Join("testdata", "catalog.yaml"))
	require.NoError(t, err)
	require.Len(t, c.Products, 1)

	product, err := c.Product(2001)
	require.NoError(t, err)
	assert.Equal(t, "Business card", product.Name)
	assert.Len(t, product.Sizes, 2)
	assert.True(t, catalog.RefsContain(product.PrintMethods[0].RstPaper, 22))

	job, group, ok := product.FindAwkjob(25010)
	require.True(t, ok)
	assert.Equal(t, catalog.InputRadio, group.InputKindOrDefault())
	require.NotNil(t, job.ReqJobSize)
	assert.Equal(t, "mm", job.ReqJobSize.Unit)
	assert.True(t, job.HasRestriction(catalog.RstJobQty))
	assert.False(t, job.HasRestriction(catalog.RstCutCnt))
}

func TestLoadFileErrors(t *testing.T) {
	_, err := catalog.LoadFile(filepath.Join("testdata", "missing.yaml"))
	assert.Error(t, err)

	_, err = catalog.Parse([]byte("products:\n  - productId: 1\n    colour: red\n"))
	assert.Error(t, err, "unknown keys must be rejected")
}

func TestCatalogProductNotFound(t *testing.T) {
	_, err := testutil.SampleCatalog().Product(42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, catalog.ErrProductNotFound))
}

func TestProductValidate(t *testing.T) {
	c, err := catalog.LoadFile(filepath.Join("testdata", "catalog.yaml"))
	require.NoError(t, err)

	expected := []string{
		"Product 2001 constraint: rule 2: operator between requires valueMin and valueMax",
		"Product 2001 job 102 requires unknown job 999",
		"Product 2001 job group 25000 is bookbinding but declared as checkbox",
		"Price table PRINT option DIGITAL has a gap between 99 and 200",
		"Price table PRINT option DIGITAL has overlapping tiers at 900",
	}
	if diff := cmp.Diff(expected, c.Products[0].Validate()); diff != "" {
		t.Errorf("Validate() mismatch (-want +got):\n%s", diff)
	}

	product := testutil.SampleProduct()
	assert.Empty(t, product.Validate())
}

func TestQuantityRangeFor(t *testing.T) {
	product := testutil.SampleProduct()

	tests := []struct {
		name     string
		sizeNo   int
		hasSize  bool
		expected catalog.QuantityRange
	}{
		{name: "no size uses default", expected: catalog.QuantityRange{MinQty: 1, MaxQty: 10000, Interval: 1}},
		{name: "size without row uses default", sizeNo: testutil.SizeA4, hasSize: true,
			expected: catalog.QuantityRange{MinQty: 1, MaxQty: 10000, Interval: 1}},
		{name: "size specific row", sizeNo: testutil.SizeB5, hasSize: true,
			expected: catalog.QuantityRange{MinQty: 50, MaxQty: 5000, Interval: 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, product.QuantityRangeFor(tt.sizeNo, tt.hasSize))
		})
	}

	empty := catalog.Product{}
	got := empty.QuantityRangeFor(0, false)
	assert.Equal(t, 1, got.MinQty)
	assert.Greater(t, got.MaxQty, 10000)
}

func TestCoverScoping(t *testing.T) {
	product := testutil.SampleProduct()

	assert.Len(t, product.PapersFor(1), 3, "inner paper belongs to cover 2 only")
	assert.Len(t, product.PapersFor(2), 4)
	assert.Len(t, product.SizesFor(2), 3)
}

func TestPrintOptionCode(t *testing.T) {
	pricing := testutil.SampleProduct().Pricing

	tests := []struct {
		name     string
		preset   int
		paper    int
		hasPaper bool
		expected string
		ok       bool
	}{
		{name: "digital any paper", preset: testutil.PresetDigital, paper: testutil.PaperArt, hasPaper: true, expected: "DIGITAL", ok: true},
		{name: "offset art is specific", preset: testutil.PresetOffset, paper: testutil.PaperArt, hasPaper: true, expected: "OFFSET-ART", ok: true},
		{name: "offset other paper", preset: testutil.PresetOffset, paper: testutil.PaperKraft, hasPaper: true, expected: "OFFSET", ok: true},
		{name: "offset no paper", preset: testutil.PresetOffset, expected: "OFFSET", ok: true},
		{name: "unknown preset", preset: 9, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := pricing.PrintOptionCode(tt.preset, tt.paper, tt.hasPaper)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, code)
		})
	}
}

func TestAwkjobKindsAreExhaustive(t *testing.T) {
	job := catalog.Awkjob{}
	for _, kind := range catalog.RequirementKinds() {
		assert.NotPanics(t, func() { job.HasRequirement(kind) }, string(kind))
	}
	for _, kind := range catalog.RestrictionKinds() {
		assert.NotPanics(t, func() { job.HasRestriction(kind) }, string(kind))
	}
	assert.Panics(t, func() { job.HasRestriction(catalog.RestrictionKind("rst_ordqty")) })
}

func TestRuleValidate(t *testing.T) {
	tests := []struct {
		name    string
		rule    catalog.OptionConstraintRule
		wantErr bool
	}{
		{name: "valid require", rule: catalog.OptionConstraintRule{ID: 1, ConstraintType: catalog.ConstraintValue,
			SourceField: "paper", Operator: catalog.OpEq, Value: "1", TargetField: "color", TargetAction: catalog.ActionRequire}},
		{name: "unknown operator", rule: catalog.OptionConstraintRule{ID: 2, ConstraintType: catalog.ConstraintValue,
			SourceField: "paper", Operator: "like", Value: "1", TargetField: "color", TargetAction: catalog.ActionRequire}, wantErr: true},
		{name: "action of another type", rule: catalog.OptionConstraintRule{ID: 3, ConstraintType: catalog.ConstraintVisibility,
			SourceField: "paper", Operator: catalog.OpEq, Value: "1", TargetField: "color", TargetAction: catalog.ActionRequire}, wantErr: true},
		{name: "missing target field", rule: catalog.OptionConstraintRule{ID: 4, ConstraintType: catalog.ConstraintFilter,
			SourceField: "paper", Operator: catalog.OpIn, Value: "1,2", TargetAction: catalog.ActionFilterChoices}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
