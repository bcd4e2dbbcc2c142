package simulation

import (
	"fmt"

	"github.com/iwvelando/print-configurator/internal/catalog"
)

// Completeness item keys.
const (
	ItemOptions     = "options"
	ItemPricing     = "pricing"
	ItemConstraints = "constraints"
	ItemMesMapping  = "mesMapping"
)

// CompletenessInput is a flat snapshot of what a product has configured.
// Empty integration codes count as missing.
type CompletenessInput struct {
	HasDefaultRecipe  bool
	OptionTypeCount   int
	MinChoiceCount    int
	HasRequiredOption bool
	HasPricingConfig  bool
	IsPricingActive   bool
	ConstraintCount   int
	EdicusCode        string
	MesItemCd         string
}

// CompletenessItem is one line of the publish checklist.
type CompletenessItem struct {
	Item      string `json:"item"`
	Completed bool   `json:"completed"`
	Message   string `json:"message"`
}

// CompletenessResult is the publish checklist of a product. A product is
// publishable only when every item is completed.
type CompletenessResult struct {
	Items          []CompletenessItem `json:"items"`
	Publishable    bool               `json:"publishable"`
	CompletedCount int                `json:"completedCount"`
	TotalCount     int                `json:"totalCount"`
}

// CheckCompleteness evaluates the publish checklist. Constraints never block
// publication; an empty rule set only recommends a review.
func CheckCompleteness(in CompletenessInput) CompletenessResult {
	var optionsMessage string
	switch {
	case !in.HasDefaultRecipe:
		optionsMessage = "No default recipe configured"
	case in.OptionTypeCount < 1:
		optionsMessage = "Recipe must have at least 1 option type"
	case in.MinChoiceCount < 2:
		optionsMessage = "Option types must have at least 2 choices"
	case !in.HasRequiredOption:
		optionsMessage = "At least 1 option must be marked as required"
	default:
		optionsMessage = fmt.Sprintf("%d option type(s) configured", in.OptionTypeCount)
	}
	optionsDone := in.HasDefaultRecipe && in.OptionTypeCount >= 1 && in.MinChoiceCount >= 2 && in.HasRequiredOption

	pricingDone := in.HasPricingConfig && in.IsPricingActive
	pricingMessage := "Price configuration active"
	if !in.HasPricingConfig {
		pricingMessage = "No price configuration found"
	} else if !in.IsPricingActive {
		pricingMessage = "Price configuration is inactive"
	}

	constraintsMessage := fmt.Sprintf("%d constraint(s) defined", in.ConstraintCount)
	if in.ConstraintCount == 0 {
		constraintsMessage = "No constraints defined (review recommended)"
	}

	mesDone := in.EdicusCode != "" || in.MesItemCd != ""
	mesMessage := "Integration code configured"
	if !mesDone {
		mesMessage = "Edicus code or MES item code required"
	}

	result := CompletenessResult{
		Items: []CompletenessItem{
			{Item: ItemOptions, Completed: optionsDone, Message: optionsMessage},
			{Item: ItemPricing, Completed: pricingDone, Message: pricingMessage},
			{Item: ItemConstraints, Completed: true, Message: constraintsMessage},
			{Item: ItemMesMapping, Completed: mesDone, Message: mesMessage},
		},
	}
	result.TotalCount = len(result.Items)
	result.Publishable = true
	for _, item := range result.Items {
		if item.Completed {
			result.CompletedCount++
		} else {
			result.Publishable = false
		}
	}
	return result
}

// CompletenessFromProduct derives the checklist input from a catalog
// product. Every non-empty level of the chain counts as an option type;
// print method and size are the levels a customer must always pick.
func CompletenessFromProduct(p *catalog.Product) CompletenessInput {
	counts := []int{
		len(p.PrintMethods),
		len(p.Sizes),
		len(p.Papers),
		len(p.Options),
	}
	front, add := 0, 0
	for _, c := range p.Colors {
		if c.Additional {
			add++
		} else {
			front++
		}
	}
	counts = append(counts, front, add)

	in := CompletenessInput{
		HasRequiredOption: len(p.PrintMethods) > 0 || len(p.Sizes) > 0,
		HasPricingConfig:  p.Pricing.Configured(),
		IsPricingActive:   p.Pricing.IsActive(),
		ConstraintCount:   len(p.Constraints),
		EdicusCode:        p.EdicusCode,
		MesItemCd:         p.MesItemCd,
	}
	for _, n := range counts {
		if n == 0 {
			continue
		}
		if in.OptionTypeCount == 0 || n < in.MinChoiceCount {
			in.MinChoiceCount = n
		}
		in.OptionTypeCount++
	}
	in.HasDefaultRecipe = in.OptionTypeCount > 0
	return in
}
