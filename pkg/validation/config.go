// Package validation provides catalog and configuration validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/print-configurator/internal/catalog"
	"github.com/iwvelando/print-configurator/internal/constraint"
)

// ValidateProductIDs reports product ids that appear more than once.
func ValidateProductIDs(products []catalog.Product) []string {
	var warnings []string
	seen := make(map[int]bool, len(products))
	for _, p := range products {
		if seen[p.ProductID] {
			warnings = append(warnings, fmt.Sprintf("Product %d is defined more than once", p.ProductID))
		}
		seen[p.ProductID] = true
	}
	return warnings
}

// ValidateRuleCycles reports rules that form a direct A->B, B->A pair.
func ValidateRuleCycles(p *catalog.Product) []string {
	var warnings []string
	for _, id := range constraint.DetectCircularWarnings(p.Constraints) {
		warnings = append(warnings, fmt.Sprintf("Product %d constraint %d is part of a circular rule pair", p.ProductID, id))
	}
	return warnings
}

// CatalogValidator collects every warning for a catalog snapshot.
type CatalogValidator struct {
	Catalog *catalog.Catalog
	// ProductID limits validation to one product when non-zero.
	ProductID int
}

// ValidateAll validates the catalog and returns warnings
func (cv *CatalogValidator) ValidateAll() []string {
	if cv.Catalog == nil {
		return []string{"Catalog is empty"}
	}

	warnings := ValidateProductIDs(cv.Catalog.Products)
	for i := range cv.Catalog.Products {
		p := &cv.Catalog.Products[i]
		if cv.ProductID != 0 && p.ProductID != cv.ProductID {
			continue
		}
		warnings = append(warnings, p.Validate()...)
		warnings = append(warnings, ValidateRuleCycles(p)...)
	}
	return warnings
}
