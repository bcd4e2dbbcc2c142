// Package pricing resolves quantity-tiered unit prices and assembles a price
// breakdown for a selection.
package pricing

import (
	"errors"
	"fmt"

	"github.com/iwvelando/print-configurator/internal/catalog"
	"github.com/shopspring/decimal"
)

// ErrPriceNotFound is returned when no tier covers the requested table,
// option code and quantity. A combination that cannot be priced must never be
// priced at zero.
var ErrPriceNotFound = errors.New("price not found")

// LookupUnitPrice returns the unit price of the tier of tableID/optionCode
// whose inclusive [MinQty, MaxQty] range contains qty.
func LookupUnitPrice(tiers []catalog.PriceTier, tableID, optionCode string, qty int) (float64, bool) {
	for _, tier := range tiers {
		if tier.PriceTableID == tableID && tier.OptionCode == optionCode && tier.Contains(qty) {
			return tier.UnitPrice, true
		}
	}
	return 0, false
}

// LookupDiscount returns the discount tier that contains qty. No matching
// tier means no discount.
func LookupDiscount(discounts []catalog.DiscountTier, qty int) (catalog.DiscountTier, bool) {
	for _, d := range discounts {
		if d.Contains(qty) {
			return d, true
		}
	}
	return catalog.DiscountTier{}, false
}

// PostProcessItem is one post-process to charge for.
type PostProcessItem struct {
	JobNo      int
	Name       string
	PriceType  catalog.PriceType
	OptionCode string
}

// BreakdownInput collects everything ComputeBreakdown needs.
type BreakdownInput struct {
	Tiers     []catalog.PriceTier
	Discounts []catalog.DiscountTier

	PrintTableID    string
	PrintOptionCode string

	PostProcessTableID string
	PostProcesses      []PostProcessItem

	Quantity int
	// AreaSqm is the printed area used for per_sqm post-processes.
	AreaSqm float64
}

// PostProcessLine is the priced result of one post-process.
type PostProcessLine struct {
	JobNo     int               `json:"jobNo"`
	Name      string            `json:"name"`
	PriceType catalog.PriceType `json:"priceType"`
	UnitPrice float64           `json:"unitPrice"`
	Cost      float64           `json:"cost"`
}

// Breakdown is the itemized price of one selection.
type Breakdown struct {
	Quantity        int               `json:"quantity"`
	PrintOptionCode string            `json:"printOptionCode"`
	PrintUnitPrice  float64           `json:"printUnitPrice"`
	PrintCost       float64           `json:"printCost"`
	PostProcesses   []PostProcessLine `json:"postProcesses,omitempty"`
	PostProcessCost float64           `json:"postProcessCost"`
	Subtotal        float64           `json:"subtotal"`
	DiscountRate    float64           `json:"discountRate"`
	DiscountLabel   string            `json:"discountLabel,omitempty"`
	DiscountAmount  float64           `json:"discountAmount"`
	Total           float64           `json:"totalPrice"`
}

// ComputeBreakdown prices the print run and every post-process, applies the
// quantity discount and returns the breakdown. The discount amount is rounded
// half away from zero to a whole currency unit; nothing else is rounded.
func ComputeBreakdown(in BreakdownInput) (Breakdown, error) {
	if in.Quantity <= 0 {
		return Breakdown{}, fmt.Errorf("quantity %d is not orderable: %w", in.Quantity, ErrPriceNotFound)
	}
	qty := decimal.NewFromInt(int64(in.Quantity))

	unit, ok := LookupUnitPrice(in.Tiers, in.PrintTableID, in.PrintOptionCode, in.Quantity)
	if !ok {
		return Breakdown{}, fmt.Errorf("print table %s option %s quantity %d: %w", in.PrintTableID, in.PrintOptionCode, in.Quantity, ErrPriceNotFound)
	}
	printCost := decimal.NewFromFloat(unit).Mul(qty)

	postCost := decimal.Zero
	lines := make([]PostProcessLine, 0, len(in.PostProcesses))
	for _, item := range in.PostProcesses {
		jobUnit, ok := LookupUnitPrice(in.Tiers, in.PostProcessTableID, item.OptionCode, in.Quantity)
		if !ok {
			return Breakdown{}, fmt.Errorf("post-process %d table %s option %s quantity %d: %w",
				item.JobNo, in.PostProcessTableID, item.OptionCode, in.Quantity, ErrPriceNotFound)
		}
		cost, err := postProcessCost(item.PriceType, decimal.NewFromFloat(jobUnit), qty, in.AreaSqm)
		if err != nil {
			return Breakdown{}, fmt.Errorf("post-process %d: %w", item.JobNo, err)
		}
		postCost = postCost.Add(cost)
		lines = append(lines, PostProcessLine{
			JobNo:     item.JobNo,
			Name:      item.Name,
			PriceType: item.PriceType,
			UnitPrice: jobUnit,
			Cost:      cost.InexactFloat64(),
		})
	}

	subtotal := printCost.Add(postCost)
	discount, _ := LookupDiscount(in.Discounts, in.Quantity)
	discountAmount := subtotal.Mul(decimal.NewFromFloat(discount.Rate)).Round(0)
	total := subtotal.Sub(discountAmount)

	b := Breakdown{
		Quantity:        in.Quantity,
		PrintOptionCode: in.PrintOptionCode,
		PrintUnitPrice:  unit,
		PrintCost:       printCost.InexactFloat64(),
		PostProcessCost: postCost.InexactFloat64(),
		Subtotal:        subtotal.InexactFloat64(),
		DiscountRate:    discount.Rate,
		DiscountLabel:   discount.Label,
		DiscountAmount:  discountAmount.InexactFloat64(),
		Total:           total.InexactFloat64(),
	}
	if len(lines) > 0 {
		b.PostProcesses = lines
	}
	return b, nil
}

func postProcessCost(priceType catalog.PriceType, unit, qty decimal.Decimal, areaSqm float64) (decimal.Decimal, error) {
	switch priceType {
	case catalog.PricePerUnit, "":
		return unit.Mul(qty), nil
	case catalog.PriceFixed:
		return unit, nil
	case catalog.PricePerSqm:
		if areaSqm <= 0 {
			return decimal.Zero, fmt.Errorf("per_sqm pricing needs a printed area: %w", ErrPriceNotFound)
		}
		return unit.Mul(decimal.NewFromFloat(areaSqm)).Mul(qty), nil
	default:
		return decimal.Zero, fmt.Errorf("price type %q is not supported: %w", priceType, ErrPriceNotFound)
	}
}
