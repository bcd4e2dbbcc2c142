package catalog

import (
	"sort"
	"strconv"
)

// AwkjobSelection identifies one selected post-process job.
type AwkjobSelection struct {
	JobGroupNo int `yaml:"jobgroupno" json:"jobgroupno"`
	JobNo      int `yaml:"jobno" json:"jobno"`
}

// Selection field names that are not priority chain levels but can still be
// referenced by option constraint rules.
const (
	FieldQuantity = "quantity"
	FieldCutCount = "cutCount"
)

// OptionSelection is an immutable snapshot of what a customer has chosen for
// one product part. Every With/Without method returns a new value and never
// touches the receiver.
type OptionSelection struct {
	productID int
	coverCd   int
	levels    map[Level]int
	awkjobs   []AwkjobSelection
	quantity  int
	cutCount  int

	jobOptions    map[int]int
	jobSizes      map[int]float64
	jobQuantities map[int]int
}

// NewSelection returns an empty selection for the given product part.
func NewSelection(productID, coverCd int) OptionSelection {
	return OptionSelection{productID: productID, coverCd: coverCd}
}

func (s OptionSelection) ProductID() int { return s.productID }
func (s OptionSelection) CoverCd() int   { return s.coverCd }

// Get returns the choice id selected at a level.
func (s OptionSelection) Get(level Level) (int, bool) {
	v, ok := s.levels[level]
	return v, ok
}

// Has reports whether a choice is set at the level.
func (s OptionSelection) Has(level Level) bool {
	_, ok := s.levels[level]
	return ok
}

// Levels returns the set levels in chain order.
func (s OptionSelection) Levels() []Level {
	var set []Level
	for _, level := range PriorityChain() {
		if s.Has(level) {
			set = append(set, level)
		}
	}
	return set
}

// Awkjobs returns a copy of the selected post-process jobs.
func (s OptionSelection) Awkjobs() []AwkjobSelection {
	if len(s.awkjobs) == 0 {
		return nil
	}
	out := make([]AwkjobSelection, len(s.awkjobs))
	copy(out, s.awkjobs)
	return out
}

// HasAwkjob reports whether jobno is among the selected post-processes.
func (s OptionSelection) HasAwkjob(jobNo int) bool {
	for _, job := range s.awkjobs {
		if job.JobNo == jobNo {
			return true
		}
	}
	return false
}

// Quantity returns the order quantity, if one was supplied.
func (s OptionSelection) Quantity() (int, bool) {
	return s.quantity, s.quantity > 0
}

// CutCount returns the cut count, if one was supplied.
func (s OptionSelection) CutCount() (int, bool) {
	return s.cutCount, s.cutCount > 0
}

// JobOption returns the per-job option chosen for jobNo.
func (s OptionSelection) JobOption(jobNo int) (int, bool) {
	v, ok := s.jobOptions[jobNo]
	return v, ok
}

// JobSize returns the size input supplied for jobNo.
func (s OptionSelection) JobSize(jobNo int) (float64, bool) {
	v, ok := s.jobSizes[jobNo]
	return v, ok
}

// JobQuantity returns the quantity input supplied for jobNo.
func (s OptionSelection) JobQuantity(jobNo int) (int, bool) {
	v, ok := s.jobQuantities[jobNo]
	return v, ok
}

// FieldValue resolves a constraint source/target field against the selection.
// Levels are looked up by name; quantity and cutCount are ambient inputs.
func (s OptionSelection) FieldValue(field string) (string, bool) {
	switch field {
	case FieldQuantity:
		if q, ok := s.Quantity(); ok {
			return strconv.Itoa(q), true
		}
		return "", false
	case FieldCutCount:
		if c, ok := s.CutCount(); ok {
			return strconv.Itoa(c), true
		}
		return "", false
	}
	level, err := ParseLevel(field)
	if err != nil {
		return "", false
	}
	if v, ok := s.Get(level); ok {
		return strconv.Itoa(v), true
	}
	return "", false
}

// With returns a copy with level set to value. Later levels are untouched;
// cascading resets are the option engine's job.
func (s OptionSelection) With(level Level, value int) OptionSelection {
	level.Index()
	out := s.clone()
	out.levels[level] = value
	return out
}

// Without returns a copy with level cleared.
func (s OptionSelection) Without(level Level) OptionSelection {
	out := s.clone()
	delete(out.levels, level)
	return out
}

// WithAwkjob returns a copy with the job added. Adding a job that is already
// selected is a no-op.
func (s OptionSelection) WithAwkjob(job AwkjobSelection) OptionSelection {
	out := s.clone()
	if !out.HasAwkjob(job.JobNo) {
		out.awkjobs = append(out.awkjobs, job)
	}
	return out
}

// WithoutAwkjob returns a copy without jobNo.
func (s OptionSelection) WithoutAwkjob(jobNo int) OptionSelection {
	out := s.clone()
	kept := out.awkjobs[:0]
	for _, job := range out.awkjobs {
		if job.JobNo != jobNo {
			kept = append(kept, job)
		}
	}
	out.awkjobs = kept
	return out
}

// WithAwkjobs returns a copy whose post-process set is replaced by jobs.
func (s OptionSelection) WithAwkjobs(jobs []AwkjobSelection) OptionSelection {
	out := s.clone()
	out.awkjobs = nil
	for _, job := range jobs {
		if !out.HasAwkjob(job.JobNo) {
			out.awkjobs = append(out.awkjobs, job)
		}
	}
	return out
}

func (s OptionSelection) WithQuantity(qty int) OptionSelection {
	out := s.clone()
	out.quantity = qty
	return out
}

func (s OptionSelection) WithCutCount(count int) OptionSelection {
	out := s.clone()
	out.cutCount = count
	return out
}

func (s OptionSelection) WithJobOption(jobNo, optNo int) OptionSelection {
	out := s.clone()
	out.jobOptions[jobNo] = optNo
	return out
}

func (s OptionSelection) WithJobSize(jobNo int, size float64) OptionSelection {
	out := s.clone()
	out.jobSizes[jobNo] = size
	return out
}

func (s OptionSelection) WithJobQuantity(jobNo, qty int) OptionSelection {
	out := s.clone()
	out.jobQuantities[jobNo] = qty
	return out
}

// Key renders the level choices as a stable map, used for logging and
// simulation case output.
func (s OptionSelection) Key() map[string]string {
	out := make(map[string]string, len(s.levels))
	for level, v := range s.levels {
		out[string(level)] = strconv.Itoa(v)
	}
	return out
}

// AwkjobNos returns the selected job numbers, sorted.
func (s OptionSelection) AwkjobNos() []int {
	nos := make([]int, 0, len(s.awkjobs))
	for _, job := range s.awkjobs {
		nos = append(nos, job.JobNo)
	}
	sort.Ints(nos)
	return nos
}

func (s OptionSelection) clone() OptionSelection {
	out := s
	out.levels = make(map[Level]int, len(s.levels)+1)
	for k, v := range s.levels {
		out.levels[k] = v
	}
	if len(s.awkjobs) > 0 {
		out.awkjobs = make([]AwkjobSelection, len(s.awkjobs))
		copy(out.awkjobs, s.awkjobs)
	}
	out.jobOptions = make(map[int]int, len(s.jobOptions))
	for k, v := range s.jobOptions {
		out.jobOptions[k] = v
	}
	out.jobSizes = make(map[int]float64, len(s.jobSizes))
	for k, v := range s.jobSizes {
		out.jobSizes[k] = v
	}
	out.jobQuantities = make(map[int]int, len(s.jobQuantities))
	for k, v := range s.jobQuantities {
		out.jobQuantities[k] = v
	}
	return out
}

// SelectionSpec is the serializable form of a selection used by snapshot
// files and the CLI.
type SelectionSpec struct {
	ProductID     int               `yaml:"productId" mapstructure:"productId"`
	CoverCd       int               `yaml:"coverCd" mapstructure:"coverCd"`
	Levels        map[string]int    `yaml:"levels" mapstructure:"levels"`
	Awkjobs       []AwkjobSelection `yaml:"awkjobs" mapstructure:"awkjobs"`
	Quantity      int               `yaml:"quantity" mapstructure:"quantity"`
	CutCount      int               `yaml:"cutCount" mapstructure:"cutCount"`
	JobOptions    map[int]int       `yaml:"jobOptions" mapstructure:"jobOptions"`
	JobSizes      map[int]float64   `yaml:"jobSizes" mapstructure:"jobSizes"`
	JobQuantities map[int]int       `yaml:"jobQuantities" mapstructure:"jobQuantities"`
}

// Selection converts the parsed file into an OptionSelection.
func (spec SelectionSpec) Selection() (OptionSelection, error) {
	sel := NewSelection(spec.ProductID, spec.CoverCd)
	for name, v := range spec.Levels {
		level, err := ParseLevel(name)
		if err != nil {
			return OptionSelection{}, err
		}
		sel = sel.With(level, v)
	}
	sel = sel.WithAwkjobs(spec.Awkjobs).WithQuantity(spec.Quantity).WithCutCount(spec.CutCount)
	for job, opt := range spec.JobOptions {
		sel = sel.WithJobOption(job, opt)
	}
	for job, size := range spec.JobSizes {
		sel = sel.WithJobSize(job, size)
	}
	for job, qty := range spec.JobQuantities {
		sel = sel.WithJobQuantity(job, qty)
	}
	return sel, nil
}
