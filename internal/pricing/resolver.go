package pricing

import (
	"errors"
	"fmt"

	"github.com/iwvelando/print-configurator/internal/catalog"
	"go.uber.org/zap"
)

// ErrIncompleteSelection is returned when a selection lacks the inputs
// needed to pick a price row.
var ErrIncompleteSelection = errors.New("selection is incomplete for pricing")

// Resolver prices selections of one product from its price tables.
type Resolver struct {
	logger  *zap.Logger
	product *catalog.Product
}

// NewResolver creates a new price resolver for product.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewResolver(logger *zap.Logger, product *catalog.Product) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{logger: logger, product: product}
}

// Input maps a selection onto the breakdown input: the print option code
// comes from the print method and paper, the post-processes from the
// selected jobs. Jobs the product does not know are skipped.
func (r *Resolver) Input(sel catalog.OptionSelection) (BreakdownInput, error) {
	pricing := r.product.Pricing
	if !pricing.Configured() || !pricing.IsActive() {
		return BreakdownInput{}, fmt.Errorf("product %d has no active pricing: %w", r.product.ProductID, ErrPriceNotFound)
	}

	qty, ok := sel.Quantity()
	if !ok {
		return BreakdownInput{}, fmt.Errorf("quantity: %w", ErrIncompleteSelection)
	}
	preset, ok := sel.Get(catalog.LevelJobPreset)
	if !ok {
		return BreakdownInput{}, fmt.Errorf("print method: %w", ErrIncompleteSelection)
	}
	paper, hasPaper := sel.Get(catalog.LevelPaper)
	code, ok := pricing.PrintOptionCode(preset, paper, hasPaper)
	if !ok {
		return BreakdownInput{}, fmt.Errorf("print method %d has no price code: %w", preset, ErrPriceNotFound)
	}

	in := BreakdownInput{
		Tiers:              pricing.Tiers,
		Discounts:          pricing.Discounts,
		PrintTableID:       pricing.PrintTableID,
		PrintOptionCode:    code,
		PostProcessTableID: pricing.PostProcessTableID,
		Quantity:           qty,
		AreaSqm:            pricing.AreaSqm,
	}
	for _, ref := range sel.Awkjobs() {
		job, _, ok := r.product.FindAwkjob(ref.JobNo)
		if !ok {
			r.logger.Debug("unknown awkjob skipped for pricing",
				zap.String("op", "pricing.Input"),
				zap.Int("jobNo", ref.JobNo),
			)
			continue
		}
		in.PostProcesses = append(in.PostProcesses, PostProcessItem{
			JobNo:      job.JobNo,
			Name:       job.Name,
			PriceType:  job.PriceType,
			OptionCode: job.PriceCodeOrDefault(),
		})
	}
	return in, nil
}

// Quote prices a selection.
func (r *Resolver) Quote(sel catalog.OptionSelection) (Breakdown, error) {
	in, err := r.Input(sel)
	if err != nil {
		return Breakdown{}, err
	}
	b, err := ComputeBreakdown(in)
	if err != nil {
		r.logger.Debug("selection cannot be priced",
			zap.String("op", "pricing.Quote"),
			zap.Int("productId", r.product.ProductID),
			zap.Error(err),
		)
		return Breakdown{}, err
	}
	return b, nil
}
