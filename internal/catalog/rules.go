package catalog

import (
	"fmt"
	"strings"
)

// ViolationKind classifies a constraint violation.
type ViolationKind string

const (
	ViolationRequired   ViolationKind = "required"
	ViolationRestricted ViolationKind = "restricted"
)

// Violation is a detected constraint problem. It is a value, not an error:
// callers decide whether to block, warn or ignore.
type Violation struct {
	Kind    ViolationKind `json:"type" yaml:"type"`
	Source  string        `json:"source" yaml:"source"`
	Target  string        `json:"target" yaml:"target"`
	Message string        `json:"message" yaml:"message"`
	RuleID  int           `json:"ruleId,omitempty" yaml:"ruleId,omitempty"`
	// Advisory violations come from rules whose action only warns.
	Advisory bool `json:"advisory,omitempty" yaml:"advisory,omitempty"`
}

// ConstraintType is the category of an option constraint rule.
type ConstraintType string

const (
	ConstraintVisibility ConstraintType = "visibility"
	ConstraintValue      ConstraintType = "value"
	ConstraintFilter     ConstraintType = "filter"
)

// Operator compares a selection value against a rule value.
type Operator string

const (
	OpEq      Operator = "eq"
	OpNeq     Operator = "neq"
	OpGt      Operator = "gt"
	OpLt      Operator = "lt"
	OpIn      Operator = "in"
	OpBetween Operator = "between"
)

// TargetAction is what a matched rule does to its target field.
type TargetAction string

const (
	ActionShow          TargetAction = "show"
	ActionHide          TargetAction = "hide"
	ActionSetValue      TargetAction = "set_value"
	ActionFilterChoices TargetAction = "filter_choices"
	ActionRequire       TargetAction = "require"
	ActionRestrict      TargetAction = "restrict"
	ActionWarn          TargetAction = "warn"
)

// OptionConstraintRule is a generic IF(source op value) THEN(target action)
// rule attached to a product.
type OptionConstraintRule struct {
	ID             int            `yaml:"id"`
	ConstraintType ConstraintType `yaml:"constraintType"`
	SourceField    string         `yaml:"sourceField"`
	Operator       Operator       `yaml:"operator"`
	Value          string         `yaml:"value,omitempty"`
	ValueMin       string         `yaml:"valueMin,omitempty"`
	ValueMax       string         `yaml:"valueMax,omitempty"`
	TargetField    string         `yaml:"targetField"`
	TargetAction   TargetAction   `yaml:"targetAction"`
	TargetValue    string         `yaml:"targetValue,omitempty"`
	Priority       int            `yaml:"priority"`
	Inactive       bool           `yaml:"inactive,omitempty"`
	Description    string         `yaml:"description,omitempty"`
}

// Active reports whether the rule takes part in evaluation.
func (r OptionConstraintRule) Active() bool {
	return !r.Inactive
}

// Validate checks the rule is well formed: a known type, operator and action
// and an action that belongs to the rule's type.
func (r OptionConstraintRule) Validate() error {
	switch r.Operator {
	case OpEq, OpNeq, OpGt, OpLt, OpIn:
		if strings.TrimSpace(r.Value) == "" {
			return fmt.Errorf("rule %d: operator %s requires a value", r.ID, r.Operator)
		}
	case OpBetween:
		if strings.TrimSpace(r.ValueMin) == "" || strings.TrimSpace(r.ValueMax) == "" {
			return fmt.Errorf("rule %d: operator between requires valueMin and valueMax", r.ID)
		}
	default:
		return fmt.Errorf("rule %d: operator %q is not supported", r.ID, r.Operator)
	}

	if strings.TrimSpace(r.SourceField) == "" || strings.TrimSpace(r.TargetField) == "" {
		return fmt.Errorf("rule %d: source and target fields are required", r.ID)
	}

	switch r.ConstraintType {
	case ConstraintVisibility:
		switch r.TargetAction {
		case ActionShow, ActionHide:
			return nil
		}
	case ConstraintValue:
		switch r.TargetAction {
		case ActionSetValue, ActionRequire, ActionRestrict, ActionWarn:
			return nil
		}
	case ConstraintFilter:
		switch r.TargetAction {
		case ActionFilterChoices, ActionHide:
			return nil
		}
	default:
		return fmt.Errorf("rule %d: constraint type %q is not supported", r.ID, r.ConstraintType)
	}
	return fmt.Errorf("rule %d: action %q does not belong to constraint type %s", r.ID, r.TargetAction, r.ConstraintType)
}

// InputKind is how a job group or job is presented.
type InputKind string

const (
	InputCheckbox InputKind = "checkbox"
	InputRadio    InputKind = "radio"
	InputText     InputKind = "input"
)

// JobGroupBookbinding is the radio-exclusive bookbinding group.
const JobGroupBookbinding = 25000

// JobGroup clusters awkjobs presented as one control.
type JobGroup struct {
	JobGroupNo int       `yaml:"jobGroupNo"`
	Name       string    `yaml:"name"`
	Type       InputKind `yaml:"type"`
	DisplayLoc string    `yaml:"displayLoc,omitempty"`
	CoverCd    int       `yaml:"coverCd,omitempty"`
	Jobs       []Awkjob  `yaml:"jobs"`
}

// InputKindOrDefault returns the group's input kind. Bookbinding is always
// radio-exclusive; groups without an explicit type are checkboxes.
func (g JobGroup) InputKindOrDefault() InputKind {
	if g.JobGroupNo == JobGroupBookbinding {
		return InputRadio
	}
	if g.Type == "" {
		return InputCheckbox
	}
	return g.Type
}

// RequirementKind is one of the four awkjob requirement slots.
type RequirementKind string

const (
	ReqJobOption RequirementKind = "req_joboption"
	ReqJobSize   RequirementKind = "req_jobsize"
	ReqJobQty    RequirementKind = "req_jobqty"
	ReqAwkjob    RequirementKind = "req_awkjob"
)

// RequirementKinds lists every requirement kind in evaluation order.
func RequirementKinds() []RequirementKind {
	return []RequirementKind{ReqJobOption, ReqJobSize, ReqJobQty, ReqAwkjob}
}

// RestrictionKind is one of the six awkjob restriction slots.
type RestrictionKind string

const (
	RstJobQty RestrictionKind = "rst_jobqty"
	RstCutCnt RestrictionKind = "rst_cutcnt"
	RstSize   RestrictionKind = "rst_size"
	RstPaper  RestrictionKind = "rst_paper"
	RstColor  RestrictionKind = "rst_color"
	RstAwkjob RestrictionKind = "rst_awkjob"
)

// RestrictionKinds lists every restriction kind in evaluation order.
func RestrictionKinds() []RestrictionKind {
	return []RestrictionKind{RstJobQty, RstCutCnt, RstSize, RstPaper, RstColor, RstAwkjob}
}

// RangeInput describes a numeric input the customer must supply.
type RangeInput struct {
	Type     string  `yaml:"type,omitempty" json:"type,omitempty"`
	Unit     string  `yaml:"unit,omitempty" json:"unit,omitempty"`
	Min      float64 `yaml:"min" json:"min"`
	Max      float64 `yaml:"max" json:"max"`
	Interval float64 `yaml:"interval,omitempty" json:"interval,omitempty"`
}

// Range is an inclusive numeric range.
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Contains reports whether v lies inside the range, both ends inclusive.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// PriceType is how a post-process job is charged.
type PriceType string

const (
	PriceFixed   PriceType = "fixed"
	PricePerUnit PriceType = "per_unit"
	PricePerSqm  PriceType = "per_sqm"
)

// Awkjob is a post-process job with its rule payloads. A nil slot means the
// rule is absent.
type Awkjob struct {
	JobNo     int       `yaml:"jobNo"`
	Name      string    `yaml:"name"`
	InputKind InputKind `yaml:"inputKind,omitempty"`
	PriceType PriceType `yaml:"priceType,omitempty"`
	PriceCode string    `yaml:"priceCode,omitempty"`

	ReqJobOption []Ref       `yaml:"reqJobOption,omitempty"`
	ReqJobSize   *RangeInput `yaml:"reqJobSize,omitempty"`
	ReqJobQty    *RangeInput `yaml:"reqJobQty,omitempty"`
	ReqAwkjob    []Ref       `yaml:"reqAwkjob,omitempty"`

	RstJobQty *Range `yaml:"rstJobQty,omitempty"`
	RstCutCnt *Range `yaml:"rstCutCnt,omitempty"`
	RstSize   []Ref  `yaml:"rstSize,omitempty"`
	RstPaper  []Ref  `yaml:"rstPaper,omitempty"`
	RstColor  []Ref  `yaml:"rstColor,omitempty"`
	RstAwkjob []Ref  `yaml:"rstAwkjob,omitempty"`
}

// HasRequirement reports whether the requirement slot is populated.
func (a Awkjob) HasRequirement(kind RequirementKind) bool {
	switch kind {
	case ReqJobOption:
		return len(a.ReqJobOption) > 0
	case ReqJobSize:
		return a.ReqJobSize != nil
	case ReqJobQty:
		return a.ReqJobQty != nil
	case ReqAwkjob:
		return len(a.ReqAwkjob) > 0
	default:
		panic(fmt.Sprintf("catalog: unhandled requirement kind %q", string(kind)))
	}
}

// HasRestriction reports whether the restriction slot is populated.
func (a Awkjob) HasRestriction(kind RestrictionKind) bool {
	switch kind {
	case RstJobQty:
		return a.RstJobQty != nil
	case RstCutCnt:
		return a.RstCutCnt != nil
	case RstSize:
		return len(a.RstSize) > 0
	case RstPaper:
		return len(a.RstPaper) > 0
	case RstColor:
		return len(a.RstColor) > 0
	case RstAwkjob:
		return len(a.RstAwkjob) > 0
	default:
		panic(fmt.Sprintf("catalog: unhandled restriction kind %q", string(kind)))
	}
}

// PriceCodeOrDefault returns the option code used to look the job up in its
// price table.
func (a Awkjob) PriceCodeOrDefault() string {
	if a.PriceCode != "" {
		return a.PriceCode
	}
	return fmt.Sprintf("%d", a.JobNo)
}
