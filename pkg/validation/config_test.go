package validation

import (
	"testing"

	"github.com/iwvelando/print-configurator/internal/catalog"
	"github.com/iwvelando/print-configurator/pkg/testutil"
	"github.com/stretchr/testify/assert"
)

func TestValidateProductIDs(t *testing.T) {
	products := []catalog.Product{{ProductID: 1}, {ProductID: 2}, {ProductID: 1}}
	warnings := ValidateProductIDs(products)
	assert.Equal(t, []string{"Product 1 is defined more than once"}, warnings)
	assert.Empty(t, ValidateProductIDs(products[:2]))
}

func TestValidateRuleCycles(t *testing.T) {
	product := testutil.SampleProduct()
	assert.Empty(t, ValidateRuleCycles(&product))

	product.Constraints = append(product.Constraints, catalog.OptionConstraintRule{
		ID: 9, ConstraintType: catalog.ConstraintValue, SourceField: "color", Operator: catalog.OpEq, Value: "301",
		TargetField: "paper", TargetAction: catalog.ActionRestrict, TargetValue: "202",
	})
	warnings := ValidateRuleCycles(&product)
	assert.Contains(t, warnings, "Product 1001 constraint 9 is part of a circular rule pair")
	assert.Contains(t, warnings, "Product 1001 constraint 1 is part of a circular rule pair")
}

func TestCatalogValidatorValidateAll(t *testing.T) {
	tests := []struct {
		name      string
		validator CatalogValidator
		expected  int
	}{
		{name: "nil catalog", validator: CatalogValidator{}, expected: 1},
		{name: "clean sample", validator: CatalogValidator{Catalog: testutil.SampleCatalog()}, expected: 0},
		{
			name: "broken rule is reported",
			validator: CatalogValidator{Catalog: &catalog.Catalog{Products: []catalog.Product{{
				ProductID: 7,
				Constraints: []catalog.OptionConstraintRule{{
					ID: 1, ConstraintType: catalog.ConstraintValue, SourceField: "quantity", Operator: catalog.OpBetween,
					ValueMin: "1", TargetField: "option", TargetAction: catalog.ActionRequire,
				}},
			}}}},
			expected: 1,
		},
		{
			name: "other products are skipped",
			validator: CatalogValidator{ProductID: 99, Catalog: &catalog.Catalog{Products: []catalog.Product{{
				ProductID: 7,
				Constraints: []catalog.OptionConstraintRule{{
					ID: 1, ConstraintType: catalog.ConstraintValue, SourceField: "quantity", Operator: catalog.OpBetween,
					ValueMin: "1", TargetField: "option", TargetAction: catalog.ActionRequire,
				}},
			}}}},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := tt.validator.ValidateAll()
			if len(warnings) != tt.expected {
				t.Errorf("ValidateAll() returned %d warnings, expected %d: %v", len(warnings), tt.expected, warnings)
			}
		})
	}
}
