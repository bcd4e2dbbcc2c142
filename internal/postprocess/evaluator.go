// Package postprocess evaluates the awkjob (post-process) rule set: which jobs
// are available for a selection, whether a selected job's requirements and
// range restrictions hold, and which selected jobs exclude each other.
package postprocess

import (
	"fmt"
	"math"
	"sort"

	"github.com/iwvelando/print-configurator/internal/catalog"
	"go.uber.org/zap"
)

// Requirement describes an unsatisfied requirement slot and what the caller
// has to collect to satisfy it.
type Requirement struct {
	Kind    catalog.RequirementKind `json:"constraintType"`
	JobNo   int                     `json:"awkjobno"`
	Options []catalog.Ref           `json:"options,omitempty"`
	Input   *catalog.RangeInput     `json:"input,omitempty"`
	Jobs    []catalog.Ref           `json:"requiredJobs,omitempty"`
}

// Restriction carries the range payload of a populated rst_jobqty or
// rst_cutcnt slot.
type Restriction struct {
	Kind  catalog.RestrictionKind `json:"constraintType"`
	JobNo int                     `json:"awkjobno"`
	Range catalog.Range           `json:"range"`
}

// Evaluation is the result of checking one selected job.
type Evaluation struct {
	Violations []catalog.Violation `json:"violations"`
	Required   []Requirement       `json:"required"`
	Restricted []Restriction       `json:"restricted"`
}

// Evaluator checks post-process rules for one product. It keeps a read-only
// index of the product's jobs and is safe for concurrent use.
type Evaluator struct {
	logger  *zap.Logger
	product *catalog.Product
	index   map[int]indexedJob
}

type indexedJob struct {
	job   catalog.Awkjob
	group catalog.JobGroup
}

// NewEvaluator creates a new post-process evaluator for product.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewEvaluator(logger *zap.Logger, product *catalog.Product) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	index := make(map[int]indexedJob)
	for _, group := range product.JobGroups {
		for _, job := range group.Jobs {
			index[job.JobNo] = indexedJob{job: job, group: group}
		}
	}
	return &Evaluator{logger: logger, product: product, index: index}
}

// Lookup returns a job and its group by job number.
func (e *Evaluator) Lookup(jobNo int) (catalog.Awkjob, catalog.JobGroup, bool) {
	entry, ok := e.index[jobNo]
	return entry.job, entry.group, ok
}

// GetAvailablePostProcesses returns the job groups of the selection's cover
// with every job removed whose rst_size, rst_paper or rst_color names the
// selected size, paper or color. Groups left empty are dropped. Each returned
// group carries its resolved input kind; single choice for radio groups is
// left to the caller.
func (e *Evaluator) GetAvailablePostProcesses(sel catalog.OptionSelection) []catalog.JobGroup {
	var groups []catalog.JobGroup
	for _, group := range e.product.JobGroupsFor(sel.CoverCd()) {
		var jobs []catalog.Awkjob
		for _, job := range group.Jobs {
			if available(job, sel) {
				jobs = append(jobs, job)
			}
		}
		if len(jobs) == 0 {
			e.logger.Debug("job group emptied by restrictions",
				zap.String("op", "postprocess.GetAvailablePostProcesses"),
				zap.Int("jobGroupNo", group.JobGroupNo),
			)
			continue
		}
		out := group
		out.Type = group.InputKindOrDefault()
		out.Jobs = jobs
		groups = append(groups, out)
	}
	return groups
}

func available(job catalog.Awkjob, sel catalog.OptionSelection) bool {
	for _, kind := range catalog.RestrictionKinds() {
		if !job.HasRestriction(kind) {
			continue
		}
		switch kind {
		case catalog.RstSize:
			if v, ok := sel.Get(catalog.LevelSize); ok && catalog.RefsContain(job.RstSize, v) {
				return false
			}
		case catalog.RstPaper:
			if v, ok := sel.Get(catalog.LevelPaper); ok && catalog.RefsContain(job.RstPaper, v) {
				return false
			}
		case catalog.RstColor:
			if v, ok := sel.Get(catalog.LevelColor); ok && catalog.RefsContain(job.RstColor, v) {
				return false
			}
		case catalog.RstJobQty, catalog.RstCutCnt, catalog.RstAwkjob:
			// checked per selected job, not for availability
		default:
			panic(fmt.Sprintf("postprocess: unhandled restriction kind %q", string(kind)))
		}
	}
	return true
}

// EvaluatePostProcess checks the requirement slots and range restrictions of
// one selected job. A job number the product does not know is a no-op.
func (e *Evaluator) EvaluatePostProcess(jobRef catalog.AwkjobSelection, sel catalog.OptionSelection) Evaluation {
	entry, ok := e.index[jobRef.JobNo]
	if !ok {
		e.logger.Debug("unknown awkjob ignored",
			zap.String("op", "postprocess.EvaluatePostProcess"),
			zap.Int("jobNo", jobRef.JobNo),
		)
		return Evaluation{}
	}

	var eval Evaluation
	job := entry.job
	for _, kind := range catalog.RequirementKinds() {
		if !job.HasRequirement(kind) {
			continue
		}
		if req, v := checkRequirement(kind, job, sel); req != nil {
			eval.Required = append(eval.Required, *req)
			eval.Violations = append(eval.Violations, *v)
		}
	}
	for _, kind := range catalog.RestrictionKinds() {
		if !job.HasRestriction(kind) {
			continue
		}
		if rst, v := checkRestriction(kind, job, sel); rst != nil {
			eval.Restricted = append(eval.Restricted, *rst)
			if v != nil {
				eval.Violations = append(eval.Violations, *v)
			}
		}
	}
	return eval
}

func jobSource(jobNo int) string {
	return fmt.Sprintf("awkjob:%d", jobNo)
}

func checkRequirement(kind catalog.RequirementKind, job catalog.Awkjob, sel catalog.OptionSelection) (*Requirement, *catalog.Violation) {
	violation := func(target, msg string) *catalog.Violation {
		return &catalog.Violation{
			Kind:    catalog.ViolationRequired,
			Source:  jobSource(job.JobNo),
			Target:  target,
			Message: msg,
		}
	}

	switch kind {
	case catalog.ReqJobOption:
		opt, ok := sel.JobOption(job.JobNo)
		if ok && catalog.RefsContain(job.ReqJobOption, opt) {
			return nil, nil
		}
		return &Requirement{Kind: kind, JobNo: job.JobNo, Options: job.ReqJobOption},
			violation("joboption", fmt.Sprintf("Post-process %q requires an option selection", job.Name))
	case catalog.ReqJobSize:
		size, ok := sel.JobSize(job.JobNo)
		if msg := checkInput(*job.ReqJobSize, size, ok, "size"); msg != "" {
			return &Requirement{Kind: kind, JobNo: job.JobNo, Input: job.ReqJobSize},
				violation("jobsize", fmt.Sprintf("Post-process %q %s", job.Name, msg))
		}
	case catalog.ReqJobQty:
		qty, ok := sel.JobQuantity(job.JobNo)
		if msg := checkInput(*job.ReqJobQty, float64(qty), ok, "quantity"); msg != "" {
			return &Requirement{Kind: kind, JobNo: job.JobNo, Input: job.ReqJobQty},
				violation("jobqty", fmt.Sprintf("Post-process %q %s", job.Name, msg))
		}
	case catalog.ReqAwkjob:
		var missing []catalog.Ref
		for _, ref := range job.ReqAwkjob {
			if !sel.HasAwkjob(ref.No) {
				missing = append(missing, ref)
			}
		}
		if len(missing) > 0 {
			return &Requirement{Kind: kind, JobNo: job.JobNo, Jobs: missing},
				violation(jobSource(missing[0].No), fmt.Sprintf("Post-process %q requires %s", job.Name, refNames(missing)))
		}
	default:
		panic(fmt.Sprintf("postprocess: unhandled requirement kind %q", string(kind)))
	}
	return nil, nil
}

// checkInput validates a numeric input against its declared range and
// interval grid and returns a message when it does not hold.
func checkInput(input catalog.RangeInput, value float64, supplied bool, what string) string {
	if !supplied {
		return fmt.Sprintf("requires %s input (%g-%g %s)", what, input.Min, input.Max, input.Unit)
	}
	if value < input.Min || value > input.Max {
		return fmt.Sprintf("%s must be between %g and %g %s", what, input.Min, input.Max, input.Unit)
	}
	if input.Interval > 0 {
		steps := (value - input.Min) / input.Interval
		if math.Abs(steps-math.Round(steps)) > 1e-9 {
			return fmt.Sprintf("%s must be in steps of %g %s", what, input.Interval, input.Unit)
		}
	}
	return ""
}

func checkRestriction(kind catalog.RestrictionKind, job catalog.Awkjob, sel catalog.OptionSelection) (*Restriction, *catalog.Violation) {
	switch kind {
	case catalog.RstJobQty:
		rst := &Restriction{Kind: kind, JobNo: job.JobNo, Range: *job.RstJobQty}
		if qty, ok := sel.Quantity(); ok && !job.RstJobQty.Contains(float64(qty)) {
			return rst, &catalog.Violation{
				Kind:    catalog.ViolationRestricted,
				Source:  jobSource(job.JobNo),
				Target:  catalog.FieldQuantity,
				Message: fmt.Sprintf("Post-process %q allows quantities %g-%g, got %d", job.Name, job.RstJobQty.Min, job.RstJobQty.Max, qty),
			}
		}
		return rst, nil
	case catalog.RstCutCnt:
		rst := &Restriction{Kind: kind, JobNo: job.JobNo, Range: *job.RstCutCnt}
		if count, ok := sel.CutCount(); ok && !job.RstCutCnt.Contains(float64(count)) {
			return rst, &catalog.Violation{
				Kind:    catalog.ViolationRestricted,
				Source:  jobSource(job.JobNo),
				Target:  catalog.FieldCutCount,
				Message: fmt.Sprintf("Post-process %q allows %g-%g cuts, got %d", job.Name, job.RstCutCnt.Min, job.RstCutCnt.Max, count),
			}
		}
		return rst, nil
	case catalog.RstSize, catalog.RstPaper, catalog.RstColor, catalog.RstAwkjob:
		// availability and mutual exclusion, not per-job violations
		return nil, nil
	default:
		panic(fmt.Sprintf("postprocess: unhandled restriction kind %q", string(kind)))
	}
}

// CheckMutualConstraints returns one restricted violation for every unordered
// pair of selected jobs where either side's rst_awkjob names the other. The
// result does not depend on the order of awkjobs.
func (e *Evaluator) CheckMutualConstraints(awkjobs []catalog.AwkjobSelection, _ catalog.OptionSelection) []catalog.Violation {
	if len(awkjobs) < 2 {
		return nil
	}

	nos := make([]int, 0, len(awkjobs))
	seen := make(map[int]bool, len(awkjobs))
	for _, sel := range awkjobs {
		if _, ok := e.index[sel.JobNo]; ok && !seen[sel.JobNo] {
			seen[sel.JobNo] = true
			nos = append(nos, sel.JobNo)
		}
	}
	sort.Ints(nos)

	var violations []catalog.Violation
	for i := 0; i < len(nos); i++ {
		a := e.index[nos[i]].job
		for j := i + 1; j < len(nos); j++ {
			b := e.index[nos[j]].job
			source, target := a, b
			switch {
			case catalog.RefsContain(a.RstAwkjob, b.JobNo):
			case catalog.RefsContain(b.RstAwkjob, a.JobNo):
				source, target = b, a
			default:
				continue
			}
			violations = append(violations, catalog.Violation{
				Kind:    catalog.ViolationRestricted,
				Source:  jobSource(source.JobNo),
				Target:  jobSource(target.JobNo),
				Message: fmt.Sprintf("%q and %q cannot be selected together", source.Name, target.Name),
			})
		}
	}
	return violations
}

func refNames(refs []catalog.Ref) string {
	out := ""
	for i, ref := range refs {
		if i > 0 {
			out += ", "
		}
		name := ref.Name
		if name == "" {
			name = fmt.Sprintf("job %d", ref.No)
		}
		out += fmt.Sprintf("%q", name)
	}
	return out
}
