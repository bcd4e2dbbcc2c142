package catalog

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML catalog snapshot from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog snapshot: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog snapshot. Unknown keys are rejected so that a
// misspelled rule slot does not silently disappear.
func Parse(data []byte) (*Catalog, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var c Catalog
	if err := decoder.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog snapshot: %w", err)
	}
	return &c, nil
}

// Validate inspects a product for data-quality problems and returns them as
// warnings. None of them stop the engine from running.
func (p *Product) Validate() []string {
	var warnings []string

	for _, rule := range p.Constraints {
		if err := rule.Validate(); err != nil {
			warnings = append(warnings, fmt.Sprintf("Product %d constraint: %v", p.ProductID, err))
		}
	}

	for _, group := range p.JobGroups {
		if group.JobGroupNo == JobGroupBookbinding && group.Type != "" && group.Type != InputRadio {
			warnings = append(warnings, fmt.Sprintf("Product %d job group %d is bookbinding but declared as %s", p.ProductID, group.JobGroupNo, group.Type))
		}
		for _, job := range group.Jobs {
			for _, ref := range job.ReqAwkjob {
				if _, _, ok := p.FindAwkjob(ref.No); !ok {
					warnings = append(warnings, fmt.Sprintf("Product %d job %d requires unknown job %d", p.ProductID, job.JobNo, ref.No))
				}
			}
			for _, ref := range job.RstAwkjob {
				if _, _, ok := p.FindAwkjob(ref.No); !ok {
					warnings = append(warnings, fmt.Sprintf("Product %d job %d restricts unknown job %d", p.ProductID, job.JobNo, ref.No))
				}
			}
		}
	}

	warnings = append(warnings, p.tierGapWarnings()...)
	return warnings
}

// tierGapWarnings reports gaps and overlaps between tiers of the same table
// and option code.
func (p *Product) tierGapWarnings() []string {
	type key struct{ table, code string }
	grouped := make(map[key][]PriceTier)
	var keys []key
	for _, tier := range p.Pricing.Tiers {
		k := key{tier.PriceTableID, tier.OptionCode}
		if _, ok := grouped[k]; !ok {
			keys = append(keys, k)
		}
		grouped[k] = append(grouped[k], tier)
	}

	var warnings []string
	for _, k := range keys {
		tiers := grouped[k]
		sort.Slice(tiers, func(i, j int) bool { return tiers[i].MinQty < tiers[j].MinQty })
		for i := 1; i < len(tiers); i++ {
			prev, cur := tiers[i-1], tiers[i]
			switch {
			case cur.MinQty > prev.MaxQty+1:
				warnings = append(warnings, fmt.Sprintf("Price table %s option %s has a gap between %d and %d", k.table, k.code, prev.MaxQty, cur.MinQty))
			case cur.MinQty <= prev.MaxQty:
				warnings = append(warnings, fmt.Sprintf("Price table %s option %s has overlapping tiers at %d", k.table, k.code, cur.MinQty))
			}
		}
	}
	return warnings
}
