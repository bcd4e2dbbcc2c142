package catalog

// PriceTier maps an inclusive quantity range to a unit price within one
// price table and option code. Tiers of one (table, option code) are
// expected to partition quantity space without gaps; Validate reports gaps
// but the resolver never relies on it.
type PriceTier struct {
	PriceTableID string  `yaml:"priceTableId"`
	OptionCode   string  `yaml:"optionCode"`
	MinQty       int     `yaml:"minQty"`
	MaxQty       int     `yaml:"maxQty"`
	UnitPrice    float64 `yaml:"unitPrice"`
}

// Contains reports whether qty falls inside the tier, both ends inclusive.
func (t PriceTier) Contains(qty int) bool {
	return t.MinQty <= qty && qty <= t.MaxQty
}

// DiscountTier is a quantity discount row. Rate is a fraction (0.05 = 5%).
type DiscountTier struct {
	MinQty int     `yaml:"minQty"`
	MaxQty int     `yaml:"maxQty"`
	Rate   float64 `yaml:"rate"`
	Label  string  `yaml:"label,omitempty"`
}

// Contains reports whether qty falls inside the discount tier.
func (d DiscountTier) Contains(qty int) bool {
	return d.MinQty <= qty && qty <= d.MaxQty
}

// PrintCode maps a print method, optionally narrowed to one paper, onto the
// option code of the print price table. A nil PaperNo matches any paper.
type PrintCode struct {
	JobPresetNo int    `yaml:"jobPresetNo"`
	PaperNo     *int   `yaml:"paperNo,omitempty"`
	OptionCode  string `yaml:"optionCode"`
}

// Pricing holds the price tables of one product.
type Pricing struct {
	PrintTableID       string         `yaml:"printTableId"`
	PostProcessTableID string         `yaml:"postProcessTableId"`
	PrintCodes         []PrintCode    `yaml:"printCodes"`
	Tiers              []PriceTier    `yaml:"tiers"`
	Discounts          []DiscountTier `yaml:"discounts"`
	// AreaSqm is the printed area used by per_sqm post-processes.
	AreaSqm float64 `yaml:"areaSqm,omitempty"`
	Active  *bool   `yaml:"active,omitempty"`
}

// Configured reports whether the product has any price table at all.
func (p Pricing) Configured() bool {
	return p.PrintTableID != "" && len(p.Tiers) > 0
}

// IsActive reports whether pricing is switched on. Pricing is active unless
// explicitly disabled.
func (p Pricing) IsActive() bool {
	return p.Active == nil || *p.Active
}

// PrintOptionCode picks the print option code for a print method and paper.
// A paper-specific row wins over a wildcard row.
func (p Pricing) PrintOptionCode(jobPresetNo, paperNo int, hasPaper bool) (string, bool) {
	wildcard := ""
	found := false
	for _, code := range p.PrintCodes {
		if code.JobPresetNo != jobPresetNo {
			continue
		}
		if code.PaperNo == nil {
			if !found {
				wildcard = code.OptionCode
				found = true
			}
			continue
		}
		if hasPaper && *code.PaperNo == paperNo {
			return code.OptionCode, true
		}
	}
	return wildcard, found
}
