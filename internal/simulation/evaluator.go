package simulation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/iwvelando/print-configurator/internal/catalog"
	"github.com/iwvelando/print-configurator/internal/options"
	"github.com/iwvelando/print-configurator/internal/pricing"
	"go.uber.org/zap"
)

// Selection keys understood by the catalog evaluator besides the option
// levels accepted by catalog.ParseLevel.
const (
	KeyQuantity = catalog.FieldQuantity
	KeyCutCount = catalog.FieldCutCount
	KeyAwkjobs  = "awkjobs"
)

// EvaluatorOptions configures NewCatalogEvaluator.
type EvaluatorOptions struct {
	// Base is merged under every case; case values win.
	Base   catalog.OptionSelection
	Logger *zap.Logger
}

// CatalogEvaluator classifies cases against a product catalog: availability
// and non-advisory violations are errors, advisory violations are warnings
// and a case without a price is an error.
type CatalogEvaluator struct {
	logger   *zap.Logger
	engine   *options.Engine
	resolver *pricing.Resolver
	base     catalog.OptionSelection
}

// NewCatalogEvaluator returns an evaluator bound to engine and resolver.
func NewCatalogEvaluator(engine *options.Engine, resolver *pricing.Resolver, opts EvaluatorOptions) *CatalogEvaluator {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogEvaluator{
		logger:   logger,
		engine:   engine,
		resolver: resolver,
		base:     opts.Base,
	}
}

// Selection converts case selections into an OptionSelection on top of the
// evaluator's base selection.
func (e *CatalogEvaluator) Selection(cs Selections) (catalog.OptionSelection, error) {
	sel := e.base

	keys := make([]string, 0, len(cs))
	for k := range cs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		raw := strings.TrimSpace(cs[key])
		if raw == "" {
			continue
		}
		switch strings.ToLower(key) {
		case strings.ToLower(KeyQuantity):
			qty, err := strconv.Atoi(raw)
			if err != nil {
				return sel, fmt.Errorf("invalid quantity %q: %w", raw, err)
			}
			sel = sel.WithQuantity(qty)
		case strings.ToLower(KeyCutCount):
			count, err := strconv.Atoi(raw)
			if err != nil {
				return sel, fmt.Errorf("invalid cut count %q: %w", raw, err)
			}
			sel = sel.WithCutCount(count)
		case KeyAwkjobs, "awkjob":
			for _, part := range strings.Split(raw, ",") {
				jobNo, err := strconv.Atoi(strings.TrimSpace(part))
				if err != nil {
					return sel, fmt.Errorf("invalid post-process %q: %w", part, err)
				}
				_, group, ok := e.engine.PostProcess().Lookup(jobNo)
				if !ok {
					return sel, fmt.Errorf("unknown post-process %d", jobNo)
				}
				sel = sel.WithAwkjob(catalog.AwkjobSelection{JobGroupNo: group.JobGroupNo, JobNo: jobNo})
			}
		default:
			level, err := catalog.ParseLevel(key)
			if err != nil {
				return sel, err
			}
			value, err := strconv.Atoi(raw)
			if err != nil {
				return sel, fmt.Errorf("invalid %s value %q: %w", level, raw, err)
			}
			sel = sel.With(level, value)
		}
	}
	return sel, nil
}

// Evaluate implements CaseEvaluator.
func (e *CatalogEvaluator) Evaluate(cs Selections) CaseResult {
	result := CaseResult{Selections: cs}

	sel, err := e.Selection(cs)
	if err != nil {
		result.Status = StatusError
		result.Message = err.Error()
		return result
	}

	violations := append(e.engine.CheckAvailability(sel), e.engine.ValidateSelection(sel)...)
	result.Violations = violations

	advisory := false
	for _, v := range violations {
		if !v.Advisory {
			result.Status = StatusError
			result.Message = v.Message
			return result
		}
		advisory = true
	}

	breakdown, err := e.resolver.Quote(sel)
	if err != nil {
		e.logger.Debug("case has no price",
			zap.String("op", "simulation.CatalogEvaluator.Evaluate"),
			zap.Error(err),
		)
		result.Status = StatusError
		result.Message = err.Error()
		return result
	}

	total := breakdown.Total
	result.TotalPrice = &total
	result.Breakdown = &breakdown
	result.Status = StatusPass
	if advisory {
		result.Status = StatusWarn
		result.Message = violations[0].Message
	}
	return result
}

// OptionSetsFor builds the simulation axes of one product part from the
// catalog: print method, size, paper, option, front color and, when given,
// quantity. Axes without choices are left out so they do not empty the
// product.
func OptionSetsFor(engine *options.Engine, coverCd int, quantities []int) []OptionSet {
	product := engine.Product()
	cover := engine.CoverOptions(coverCd)

	var sets []OptionSet
	add := func(level catalog.Level, choices []string) {
		if len(choices) > 0 {
			sets = append(sets, OptionSet{TypeKey: string(level), Choices: choices})
		}
	}

	var presets []string
	for _, m := range product.PrintMethods {
		presets = append(presets, strconv.Itoa(m.JobPresetNo))
	}
	add(catalog.LevelJobPreset, presets)

	var sizes []string
	for _, s := range cover.Sizes {
		sizes = append(sizes, strconv.Itoa(s.SizeNo))
	}
	add(catalog.LevelSize, sizes)

	var papers []string
	for _, p := range cover.Papers {
		papers = append(papers, strconv.Itoa(p.PaperNo))
	}
	add(catalog.LevelPaper, papers)

	var opts []string
	for _, o := range cover.Options {
		opts = append(opts, strconv.Itoa(o.OptNo))
	}
	add(catalog.LevelOption, opts)

	var colors []string
	for _, c := range cover.Colors {
		if !c.Additional {
			colors = append(colors, strconv.Itoa(c.ColorNo))
		}
	}
	add(catalog.LevelColor, colors)

	if len(quantities) > 0 {
		qtys := make([]string, len(quantities))
		for i, q := range quantities {
			qtys[i] = strconv.Itoa(q)
		}
		sets = append(sets, OptionSet{TypeKey: KeyQuantity, Choices: qtys})
	}
	return sets
}
