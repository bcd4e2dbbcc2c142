// Package options implements the option priority chain: which choices are
// available for a selection, how selecting a level resets the levels after
// it, and whether a complete selection satisfies every rule.
package options

import (
	"fmt"

	"github.com/iwvelando/print-configurator/internal/catalog"
	"github.com/iwvelando/print-configurator/internal/constraint"
	"github.com/iwvelando/print-configurator/internal/postprocess"
	"go.uber.org/zap"
)

// SelectionResult is returned by SelectOption.
type SelectionResult struct {
	Selection   catalog.OptionSelection  `json:"selection"`
	ResetLevels []catalog.Level          `json:"resetLevels"`
	Available   catalog.AvailableOptions `json:"availableOptions"`
}

// CoverOptions lists the catalog entries that apply to one cover code.
type CoverOptions struct {
	CoverCd   int                     `json:"coverCd"`
	Sizes     []catalog.Size          `json:"sizes"`
	Papers    []catalog.Paper         `json:"papers"`
	Colors    []catalog.Color         `json:"colors"`
	Options   []catalog.ProductOption `json:"options"`
	JobGroups []catalog.JobGroup      `json:"jobGroups"`
}

// Engine runs the priority chain for one product. It holds only read-only
// catalog data and is safe for concurrent use.
type Engine struct {
	logger  *zap.Logger
	product *catalog.Product
	rules   *constraint.Evaluator
	post    *postprocess.Evaluator
}

// NewEngine creates a new option engine for product.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewEngine(logger *zap.Logger, product *catalog.Product) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		logger:  logger,
		product: product,
		rules:   constraint.NewEvaluator(logger),
		post:    postprocess.NewEvaluator(logger, product),
	}
}

// Product returns the catalog the engine works on.
func (e *Engine) Product() *catalog.Product {
	return e.product
}

// PostProcess returns the engine's post-process evaluator.
func (e *Engine) PostProcess() *postprocess.Evaluator {
	return e.post
}

// CoverOptions returns the unfiltered catalog entries for coverCd. Entries
// without a cover code apply to every cover.
func (e *Engine) CoverOptions(coverCd int) CoverOptions {
	return CoverOptions{
		CoverCd:   coverCd,
		Sizes:     e.product.SizesFor(coverCd),
		Papers:    e.product.PapersFor(coverCd),
		Colors:    e.product.ColorsFor(coverCd),
		Options:   e.product.OptionsFor(coverCd),
		JobGroups: e.product.JobGroupsFor(coverCd),
	}
}

// GetAvailableOptions computes the choices left for a selection. It is a
// pure function of the catalog and the selection.
func (e *Engine) GetAvailableOptions(sel catalog.OptionSelection) catalog.AvailableOptions {
	cover := e.CoverOptions(sel.CoverCd())
	rules := e.product.Constraints

	var method *catalog.PrintMethod
	if no, ok := sel.Get(catalog.LevelJobPreset); ok {
		if m, found := e.product.FindPrintMethod(no); found {
			method = &m
		}
	}
	var paper *catalog.Paper
	if no, ok := sel.Get(catalog.LevelPaper); ok {
		if p, found := e.product.FindPaper(no); found {
			paper = &p
		}
	}

	available := catalog.AvailableOptions{
		Quantities: e.product.QuantityRangeFor(sel.Get(catalog.LevelSize)),
		Violations: e.rules.EvaluateAll(rules, sel),
	}

	available.PrintMethods = filterByRules(e, sel, catalog.LevelJobPreset, e.product.PrintMethods,
		func(m catalog.PrintMethod) int { return m.JobPresetNo })

	available.Sizes = filterByRules(e, sel, catalog.LevelSize, cover.Sizes,
		func(s catalog.Size) int { return s.SizeNo })

	var papers []catalog.Paper
	for _, p := range cover.Papers {
		if method != nil && catalog.RefsContain(method.RstPaper, p.PaperNo) {
			continue
		}
		papers = append(papers, p)
	}
	available.Papers = filterByRules(e, sel, catalog.LevelPaper, papers,
		func(p catalog.Paper) int { return p.PaperNo })

	available.Options = filterByRules(e, sel, catalog.LevelOption, cover.Options,
		func(o catalog.ProductOption) int { return o.OptNo })

	var front, additional []catalog.Color
	for _, c := range cover.Colors {
		if paper != nil && catalog.RefsContain(c.RstPaper, paper.PaperNo) {
			continue
		}
		if method != nil && (catalog.RefsContain(c.RstPrintMethod, method.JobPresetNo) || catalog.RefsContain(method.RstColor, c.ColorNo)) {
			continue
		}
		if c.Additional {
			additional = append(additional, c)
		} else {
			front = append(front, c)
		}
	}
	colorNo := func(c catalog.Color) int { return c.ColorNo }
	available.Colors = filterByRules(e, sel, catalog.LevelColor, front, colorNo)
	available.ColorsAdd = filterByRules(e, sel, catalog.LevelColorAdd, additional, colorNo)

	available.PostProcesses = e.post.GetAvailablePostProcesses(sel)
	return available
}

// filterByRules applies visibility and filter rules targeting level to a
// choice list, keeping catalog order.
func filterByRules[T any](e *Engine, sel catalog.OptionSelection, level catalog.Level, items []T, id func(T) int) []T {
	field := string(level)
	if !e.rules.Visible(e.product.Constraints, sel, field) {
		return nil
	}
	ids := make([]int, len(items))
	for i, item := range items {
		ids[i] = id(item)
	}
	kept := make(map[int]bool, len(items))
	for _, no := range e.rules.FilterChoices(e.product.Constraints, sel, field, ids) {
		kept[no] = true
	}
	var out []T
	for _, item := range items {
		if kept[id(item)] {
			out = append(out, item)
		}
	}
	return out
}

// SelectOption writes value at level and clears every level after it, even
// when the value did not change. It panics for a level outside the priority
// chain.
func (e *Engine) SelectOption(sel catalog.OptionSelection, level catalog.Level, value int) SelectionResult {
	next := sel.With(level, value)
	after := catalog.LevelsAfter(level)
	reset := make([]catalog.Level, 0, len(after))
	for _, l := range after {
		next = next.Without(l)
		reset = append(reset, l)
	}

	e.logger.Debug("option selected",
		zap.String("op", "options.SelectOption"),
		zap.String("level", string(level)),
		zap.Int("value", value),
		zap.Int("reset", len(reset)),
	)

	return SelectionResult{
		Selection:   next,
		ResetLevels: reset,
		Available:   e.GetAvailableOptions(next),
	}
}

// ValidateSelection returns every violation of a full selection: option
// constraint rules, per-job post-process requirements and range
// restrictions, mutual exclusion across the selected jobs, post-process
// requirements and restrictions attached to the selected size, paper, color
// and print method, and an order quantity outside the resolved domain. An
// empty result means the selection is satisfiable.
func (e *Engine) ValidateSelection(sel catalog.OptionSelection) []catalog.Violation {
	violations := e.rules.EvaluateAll(e.product.Constraints, sel)

	awkjobs := sel.Awkjobs()
	for _, job := range awkjobs {
		violations = append(violations, e.post.EvaluatePostProcess(job, sel).Violations...)
	}
	violations = append(violations, e.post.CheckMutualConstraints(awkjobs, sel)...)
	violations = append(violations, e.entityViolations(sel)...)

	if qty, ok := sel.Quantity(); ok {
		domain := e.product.QuantityRangeFor(sel.Get(catalog.LevelSize))
		if !domain.Contains(qty) {
			violations = append(violations, catalog.Violation{
				Kind:    catalog.ViolationRestricted,
				Source:  fmt.Sprintf("product:%d", e.product.ProductID),
				Target:  catalog.FieldQuantity,
				Message: fmt.Sprintf("Quantity %d is outside %d-%d (step %d)", qty, domain.MinQty, domain.MaxQty, domain.Interval),
			})
		}
	}

	if len(violations) > 0 {
		e.logger.Debug("selection has violations",
			zap.String("op", "options.ValidateSelection"),
			zap.Int("productId", e.product.ProductID),
			zap.Int("violations", len(violations)),
		)
	}
	return violations
}

// entityRules is the req/rst awkjob payload of one selected catalog entity.
type entityRules struct {
	source string
	name   string
	req    []catalog.Ref
	rst    []catalog.Ref
}

func (e *Engine) selectedEntities(sel catalog.OptionSelection) []entityRules {
	var out []entityRules
	if no, ok := sel.Get(catalog.LevelJobPreset); ok {
		if m, found := e.product.FindPrintMethod(no); found {
			out = append(out, entityRules{fmt.Sprintf("jobPreset:%d", no), m.Name, m.ReqAwkjob, m.RstAwkjob})
		}
	}
	if no, ok := sel.Get(catalog.LevelSize); ok {
		if s, found := e.product.FindSize(no); found {
			out = append(out, entityRules{fmt.Sprintf("size:%d", no), s.Name, s.ReqAwkjob, s.RstAwkjob})
		}
	}
	if no, ok := sel.Get(catalog.LevelPaper); ok {
		if p, found := e.product.FindPaper(no); found {
			out = append(out, entityRules{fmt.Sprintf("paper:%d", no), p.Name, p.ReqAwkjob, p.RstAwkjob})
		}
	}
	for _, level := range []catalog.Level{catalog.LevelColor, catalog.LevelColorAdd} {
		if no, ok := sel.Get(level); ok {
			if c, found := e.product.FindColor(no); found {
				out = append(out, entityRules{fmt.Sprintf("%s:%d", level, no), c.Name, c.ReqAwkjob, c.RstAwkjob})
			}
		}
	}
	return out
}

func (e *Engine) entityViolations(sel catalog.OptionSelection) []catalog.Violation {
	var violations []catalog.Violation
	for _, entity := range e.selectedEntities(sel) {
		for _, ref := range entity.req {
			if _, _, known := e.post.Lookup(ref.No); !known {
				continue
			}
			if !sel.HasAwkjob(ref.No) {
				violations = append(violations, catalog.Violation{
					Kind:    catalog.ViolationRequired,
					Source:  entity.source,
					Target:  fmt.Sprintf("awkjob:%d", ref.No),
					Message: fmt.Sprintf("%q requires post-process %s", entity.name, jobLabel(e.post, ref)),
				})
			}
		}
		for _, ref := range entity.rst {
			if sel.HasAwkjob(ref.No) {
				violations = append(violations, catalog.Violation{
					Kind:    catalog.ViolationRestricted,
					Source:  entity.source,
					Target:  fmt.Sprintf("awkjob:%d", ref.No),
					Message: fmt.Sprintf("%q cannot be combined with post-process %s", entity.name, jobLabel(e.post, ref)),
				})
			}
		}
	}
	return violations
}

func jobLabel(post *postprocess.Evaluator, ref catalog.Ref) string {
	if ref.Name != "" {
		return fmt.Sprintf("%q", ref.Name)
	}
	if job, _, ok := post.Lookup(ref.No); ok {
		return fmt.Sprintf("%q", job.Name)
	}
	return fmt.Sprintf("%d", ref.No)
}

// CheckAvailability walks the priority chain and reports every selected
// choice that is not offered given the levels before it, plus every selected
// post-process that is not offered for the full selection. Selections built
// outside SelectOption, such as simulation cases, can carry such choices.
func (e *Engine) CheckAvailability(sel catalog.OptionSelection) []catalog.Violation {
	var violations []catalog.Violation
	prefix := catalog.NewSelection(sel.ProductID(), sel.CoverCd()).
		WithQuantity(quantityOrZero(sel)).
		WithCutCount(cutCountOrZero(sel))

	for _, level := range catalog.PriorityChain() {
		value, ok := sel.Get(level)
		if !ok {
			continue
		}
		available := e.GetAvailableOptions(prefix)
		if !offered(available, level, value) {
			violations = append(violations, catalog.Violation{
				Kind:    catalog.ViolationRestricted,
				Source:  fmt.Sprintf("product:%d", e.product.ProductID),
				Target:  string(level),
				Message: fmt.Sprintf("%s %d is not available for this selection", level, value),
			})
		}
		prefix = prefix.With(level, value)
	}

	available := e.post.GetAvailablePostProcesses(sel)
	for _, job := range sel.Awkjobs() {
		if !(catalog.AvailableOptions{PostProcesses: available}).HasAwkjob(job.JobNo) {
			violations = append(violations, catalog.Violation{
				Kind:    catalog.ViolationRestricted,
				Source:  fmt.Sprintf("product:%d", e.product.ProductID),
				Target:  fmt.Sprintf("awkjob:%d", job.JobNo),
				Message: fmt.Sprintf("Post-process %d is not available for this selection", job.JobNo),
			})
		}
	}
	return violations
}

func offered(available catalog.AvailableOptions, level catalog.Level, value int) bool {
	switch level {
	case catalog.LevelJobPreset:
		for _, m := range available.PrintMethods {
			if m.JobPresetNo == value {
				return true
			}
		}
	case catalog.LevelSize:
		for _, s := range available.Sizes {
			if s.SizeNo == value {
				return true
			}
		}
	case catalog.LevelPaper:
		return available.HasPaper(value)
	case catalog.LevelOption:
		for _, o := range available.Options {
			if o.OptNo == value {
				return true
			}
		}
	case catalog.LevelColor:
		return available.HasColor(value)
	case catalog.LevelColorAdd:
		for _, c := range available.ColorsAdd {
			if c.ColorNo == value {
				return true
			}
		}
	default:
		panic(fmt.Sprintf("options: unhandled level %q", string(level)))
	}
	return false
}

func quantityOrZero(sel catalog.OptionSelection) int {
	qty, _ := sel.Quantity()
	return qty
}

func cutCountOrZero(sel catalog.OptionSelection) int {
	count, _ := sel.CutCount()
	return count
}
