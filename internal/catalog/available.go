package catalog

// AvailableOptions is the per-selection view of what can still be chosen. It
// is derived on every call and never cached.
type AvailableOptions struct {
	Sizes         []Size          `json:"sizes"`
	Papers        []Paper         `json:"papers"`
	Colors        []Color         `json:"colors"`
	ColorsAdd     []Color         `json:"colorsAdd"`
	PrintMethods  []PrintMethod   `json:"printMethods"`
	Options       []ProductOption `json:"options"`
	PostProcesses []JobGroup      `json:"postProcesses"`
	Quantities    QuantityRange   `json:"quantities"`
	Violations    []Violation     `json:"violations"`
}

// HasPaper reports whether paperNo is among the available papers.
func (a AvailableOptions) HasPaper(paperNo int) bool {
	for _, p := range a.Papers {
		if p.PaperNo == paperNo {
			return true
		}
	}
	return false
}

// HasColor reports whether colorNo is among the available front colors.
func (a AvailableOptions) HasColor(colorNo int) bool {
	for _, c := range a.Colors {
		if c.ColorNo == colorNo {
			return true
		}
	}
	return false
}

// HasAwkjob reports whether jobNo survived post-process filtering.
func (a AvailableOptions) HasAwkjob(jobNo int) bool {
	for _, g := range a.PostProcesses {
		for _, job := range g.Jobs {
			if job.JobNo == jobNo {
				return true
			}
		}
	}
	return false
}
