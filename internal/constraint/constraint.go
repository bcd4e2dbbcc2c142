// Package constraint evaluates generic option IF/THEN rules against a
// selection.
package constraint

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/iwvelando/print-configurator/internal/catalog"
	"go.uber.org/zap"
)

// Result is the outcome of evaluating one rule.
type Result struct {
	// Applicable is false when the rule's source field is not set yet.
	Applicable bool
	// Matched is true when the IF part holds.
	Matched   bool
	Violation *catalog.Violation
}

// Evaluator evaluates option constraint rules. It holds no state besides
// its logger and is safe for concurrent use.
type Evaluator struct {
	logger *zap.Logger
}

// NewEvaluator creates a new evaluator with the given logger.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewEvaluator(logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{logger: logger}
}

// Evaluate checks one rule against the selection. It never mutates either.
func (e *Evaluator) Evaluate(rule catalog.OptionConstraintRule, sel catalog.OptionSelection) Result {
	source, ok := sel.FieldValue(rule.SourceField)
	if !ok || !rule.Active() {
		return Result{}
	}

	if !Match(rule, source) {
		return Result{Applicable: true}
	}

	e.logger.Debug("constraint matched",
		zap.String("op", "constraint.Evaluate"),
		zap.Int("rule", rule.ID),
		zap.String("source", rule.SourceField),
		zap.String("value", source),
	)

	return Result{Applicable: true, Matched: true, Violation: violationFor(rule, sel)}
}

// EvaluateAll evaluates every active rule whose source field is set, in
// ascending priority order, and returns the violations found.
func (e *Evaluator) EvaluateAll(rules []catalog.OptionConstraintRule, sel catalog.OptionSelection) []catalog.Violation {
	var violations []catalog.Violation
	for _, rule := range byPriority(rules) {
		result := e.Evaluate(rule, sel)
		if result.Violation != nil {
			violations = append(violations, *result.Violation)
		}
	}
	return violations
}

// Visible reports whether field is still visible after every matched
// visibility rule has been applied. Rules are applied in priority order, so
// a later show undoes an earlier hide.
func (e *Evaluator) Visible(rules []catalog.OptionConstraintRule, sel catalog.OptionSelection, field string) bool {
	visible := true
	for _, rule := range byPriority(rules) {
		if rule.ConstraintType != catalog.ConstraintVisibility || rule.TargetField != field {
			continue
		}
		if !e.Evaluate(rule, sel).Matched {
			continue
		}
		switch rule.TargetAction {
		case catalog.ActionHide:
			visible = false
		case catalog.ActionShow:
			visible = true
		}
	}
	return visible
}

// FilterChoices narrows the choice ids of field using matched filter rules.
// filter_choices keeps only the listed ids; hide drops the listed ids, or
// every id when the rule lists none.
func (e *Evaluator) FilterChoices(rules []catalog.OptionConstraintRule, sel catalog.OptionSelection, field string, choices []int) []int {
	out := append([]int(nil), choices...)
	for _, rule := range byPriority(rules) {
		if rule.ConstraintType != catalog.ConstraintFilter || rule.TargetField != field {
			continue
		}
		if !e.Evaluate(rule, sel).Matched {
			continue
		}
		listed := splitList(rule.TargetValue)
		kept := out[:0]
		for _, id := range out {
			inList := contains(listed, strconv.Itoa(id))
			switch rule.TargetAction {
			case catalog.ActionFilterChoices:
				if inList {
					kept = append(kept, id)
				}
			case catalog.ActionHide:
				if len(listed) > 0 && !inList {
					kept = append(kept, id)
				}
			default:
				kept = append(kept, id)
			}
		}
		out = kept
	}
	return out
}

// Match reports whether the rule's IF part holds for the given source value.
// Numeric operators never match a value that does not parse as a number.
func Match(rule catalog.OptionConstraintRule, source string) bool {
	source = strings.TrimSpace(source)
	switch rule.Operator {
	case catalog.OpEq:
		return source == strings.TrimSpace(rule.Value)
	case catalog.OpNeq:
		return source != strings.TrimSpace(rule.Value)
	case catalog.OpGt, catalog.OpLt:
		lhs, err := strconv.ParseFloat(source, 64)
		if err != nil {
			return false
		}
		rhs, err := strconv.ParseFloat(strings.TrimSpace(rule.Value), 64)
		if err != nil {
			return false
		}
		if rule.Operator == catalog.OpGt {
			return lhs > rhs
		}
		return lhs < rhs
	case catalog.OpIn:
		return contains(splitList(rule.Value), source)
	case catalog.OpBetween:
		v, err := strconv.ParseFloat(source, 64)
		if err != nil {
			return false
		}
		lo, errLo := strconv.ParseFloat(strings.TrimSpace(rule.ValueMin), 64)
		hi, errHi := strconv.ParseFloat(strings.TrimSpace(rule.ValueMax), 64)
		if errLo != nil || errHi != nil {
			return false
		}
		return v >= lo && v <= hi
	default:
		return false
	}
}

// violationFor applies a matched rule's THEN part.
func violationFor(rule catalog.OptionConstraintRule, sel catalog.OptionSelection) *catalog.Violation {
	target, targetSet := sel.FieldValue(rule.TargetField)
	listed := splitList(rule.TargetValue)

	newViolation := func(kind catalog.ViolationKind, fallback string) *catalog.Violation {
		msg := rule.Description
		if msg == "" {
			msg = fallback
		}
		return &catalog.Violation{
			Kind:    kind,
			Source:  fmt.Sprintf("constraint:%d", rule.ID),
			Target:  rule.TargetField,
			Message: msg,
			RuleID:  rule.ID,
		}
	}

	switch rule.TargetAction {
	case catalog.ActionRequire:
		if !targetSet || (len(listed) > 0 && !contains(listed, target)) {
			return newViolation(catalog.ViolationRequired,
				fmt.Sprintf("%s requires %s when %s is selected", rule.SourceField, rule.TargetField, rule.SourceField))
		}
	case catalog.ActionSetValue:
		if !targetSet || target != strings.TrimSpace(rule.TargetValue) {
			return newViolation(catalog.ViolationRequired,
				fmt.Sprintf("%s must be %s", rule.TargetField, rule.TargetValue))
		}
	case catalog.ActionRestrict:
		if targetSet && (len(listed) == 0 || contains(listed, target)) {
			return newViolation(catalog.ViolationRestricted,
				fmt.Sprintf("%s %s is not allowed", rule.TargetField, target))
		}
	case catalog.ActionWarn:
		if targetSet && (len(listed) == 0 || contains(listed, target)) {
			v := newViolation(catalog.ViolationRestricted,
				fmt.Sprintf("%s %s is not recommended", rule.TargetField, target))
			v.Advisory = true
			return v
		}
	case catalog.ActionShow, catalog.ActionHide, catalog.ActionFilterChoices:
		// availability only
	}
	return nil
}

// DetectCircularWarnings flags rules that have a direct reverse partner: a
// rule A->B and another rule B->A on the same field pair. Longer cycles are
// not detected; the result is advisory.
func DetectCircularWarnings(rules []catalog.OptionConstraintRule) []int {
	var flagged []int
	for _, rule := range rules {
		for _, other := range rules {
			if other.ID == rule.ID {
				continue
			}
			if other.SourceField == rule.TargetField && other.TargetField == rule.SourceField {
				flagged = append(flagged, rule.ID)
				break
			}
		}
	}
	sort.Ints(flagged)
	return flagged
}

func byPriority(rules []catalog.OptionConstraintRule) []catalog.OptionConstraintRule {
	sorted := make([]catalog.OptionConstraintRule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority < sorted[j].Priority })
	return sorted
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
