// Package catalog defines the product catalog snapshot the engine works on:
// option levels, choices, attached rule payloads and price tables.
package catalog

import (
	"errors"
	"fmt"
	"math"
)

// ErrProductNotFound is returned when a snapshot has no product with the
// requested id.
var ErrProductNotFound = errors.New("product not found")

// CoverAll marks catalog entries that apply to every cover code.
const CoverAll = 0

// Ref names another catalog entity by id, e.g. an entry of a rst_paper list.
type Ref struct {
	No   int    `yaml:"no" json:"no"`
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
}

// RefsContain reports whether refs names id.
func RefsContain(refs []Ref, id int) bool {
	for _, ref := range refs {
		if ref.No == id {
			return true
		}
	}
	return false
}

// Size is a selectable finished size.
type Size struct {
	SizeNo      int     `yaml:"sizeNo"`
	Name        string  `yaml:"name"`
	Width       float64 `yaml:"width,omitempty"`
	Height      float64 `yaml:"height,omitempty"`
	CoverCd     int     `yaml:"coverCd,omitempty"`
	NonStandard bool    `yaml:"nonStandard,omitempty"`
	RstAwkjob   []Ref   `yaml:"rstAwkjob,omitempty"`
	ReqAwkjob   []Ref   `yaml:"reqAwkjob,omitempty"`
}

// Paper is a selectable paper stock.
type Paper struct {
	PaperNo   int    `yaml:"paperNo"`
	Name      string `yaml:"name"`
	Group     string `yaml:"group,omitempty"`
	Gram      int    `yaml:"gram,omitempty"`
	CoverCd   int    `yaml:"coverCd,omitempty"`
	RstAwkjob []Ref  `yaml:"rstAwkjob,omitempty"`
	ReqAwkjob []Ref  `yaml:"reqAwkjob,omitempty"`
}

// Color is a selectable print color (front or additional side).
type Color struct {
	ColorNo    int    `yaml:"colorNo"`
	Name       string `yaml:"name"`
	PdfPage    int    `yaml:"pdfPage,omitempty"`
	Additional bool   `yaml:"additional,omitempty"`
	CoverCd    int    `yaml:"coverCd,omitempty"`
	// RstPaper and RstPrintMethod hide the color when the named paper or
	// print method is selected.
	RstPaper       []Ref `yaml:"rstPaper,omitempty"`
	RstPrintMethod []Ref `yaml:"rstPrintMethod,omitempty"`
	RstAwkjob      []Ref `yaml:"rstAwkjob,omitempty"`
	ReqAwkjob      []Ref `yaml:"reqAwkjob,omitempty"`
}

// PrintMethod is a job preset (digital, offset, ...).
type PrintMethod struct {
	JobPresetNo int    `yaml:"jobPresetNo"`
	Name        string `yaml:"name"`
	RstPaper    []Ref  `yaml:"rstPaper,omitempty"`
	RstColor    []Ref  `yaml:"rstColor,omitempty"`
	RstAwkjob   []Ref  `yaml:"rstAwkjob,omitempty"`
	ReqAwkjob   []Ref  `yaml:"reqAwkjob,omitempty"`
}

// ProductOption is a product specific choice on the option level.
type ProductOption struct {
	OptNo   int    `yaml:"optNo"`
	Name    string `yaml:"name"`
	CoverCd int    `yaml:"coverCd,omitempty"`
}

// QuantityRule gives the orderable quantity domain. A nil SizeNo marks the
// product-wide default.
type QuantityRule struct {
	SizeNo   *int `yaml:"sizeNo,omitempty"`
	MinQty   int  `yaml:"minQty"`
	MaxQty   int  `yaml:"maxQty"`
	Interval int  `yaml:"interval,omitempty"`
}

// QuantityRange is the resolved quantity domain for a selection.
type QuantityRange struct {
	MinQty   int `json:"minQty"`
	MaxQty   int `json:"maxQty"`
	Interval int `json:"interval,omitempty"`
}

// Contains reports whether qty lies inside the range and on its interval grid.
func (r QuantityRange) Contains(qty int) bool {
	if qty < r.MinQty || qty > r.MaxQty {
		return false
	}
	if r.Interval > 1 {
		return (qty-r.MinQty)%r.Interval == 0
	}
	return true
}

// Product is the full catalog for one product id.
type Product struct {
	ProductID    int                    `yaml:"productId"`
	Name         string                 `yaml:"name"`
	Sizes        []Size                 `yaml:"sizes"`
	Papers       []Paper                `yaml:"papers"`
	Colors       []Color                `yaml:"colors"`
	PrintMethods []PrintMethod          `yaml:"printMethods"`
	Options      []ProductOption        `yaml:"options"`
	JobGroups    []JobGroup             `yaml:"jobGroups"`
	Constraints  []OptionConstraintRule `yaml:"constraints"`
	Quantities   []QuantityRule         `yaml:"quantities"`
	Pricing      Pricing                `yaml:"pricing"`

	// Publication metadata used by the completeness check.
	EdicusCode string `yaml:"edicusCode,omitempty"`
	MesItemCd  string `yaml:"mesItemCd,omitempty"`
}

// Catalog is a snapshot of every product known to the caller.
type Catalog struct {
	Products []Product `yaml:"products"`
}

// Product returns the product with the given id.
func (c *Catalog) Product(productID int) (*Product, error) {
	for i := range c.Products {
		if c.Products[i].ProductID == productID {
			return &c.Products[i], nil
		}
	}
	return nil, fmt.Errorf("product %d: %w", productID, ErrProductNotFound)
}

func coverMatches(entryCover, coverCd int) bool {
	return entryCover == CoverAll || entryCover == coverCd
}

// SizesFor returns the sizes that apply to a cover code.
func (p *Product) SizesFor(coverCd int) []Size {
	var out []Size
	for _, s := range p.Sizes {
		if coverMatches(s.CoverCd, coverCd) {
			out = append(out, s)
		}
	}
	return out
}

// PapersFor returns the papers that apply to a cover code.
func (p *Product) PapersFor(coverCd int) []Paper {
	var out []Paper
	for _, paper := range p.Papers {
		if coverMatches(paper.CoverCd, coverCd) {
			out = append(out, paper)
		}
	}
	return out
}

// ColorsFor returns the colors that apply to a cover code.
func (p *Product) ColorsFor(coverCd int) []Color {
	var out []Color
	for _, c := range p.Colors {
		if coverMatches(c.CoverCd, coverCd) {
			out = append(out, c)
		}
	}
	return out
}

// OptionsFor returns the product options that apply to a cover code.
func (p *Product) OptionsFor(coverCd int) []ProductOption {
	var out []ProductOption
	for _, o := range p.Options {
		if coverMatches(o.CoverCd, coverCd) {
			out = append(out, o)
		}
	}
	return out
}

// JobGroupsFor returns the post-process groups that apply to a cover code.
func (p *Product) JobGroupsFor(coverCd int) []JobGroup {
	var out []JobGroup
	for _, g := range p.JobGroups {
		if coverMatches(g.CoverCd, coverCd) {
			out = append(out, g)
		}
	}
	return out
}

func (p *Product) FindSize(sizeNo int) (Size, bool) {
	for _, s := range p.Sizes {
		if s.SizeNo == sizeNo {
			return s, true
		}
	}
	return Size{}, false
}

func (p *Product) FindPaper(paperNo int) (Paper, bool) {
	for _, paper := range p.Papers {
		if paper.PaperNo == paperNo {
			return paper, true
		}
	}
	return Paper{}, false
}

func (p *Product) FindColor(colorNo int) (Color, bool) {
	for _, c := range p.Colors {
		if c.ColorNo == colorNo {
			return c, true
		}
	}
	return Color{}, false
}

func (p *Product) FindPrintMethod(jobPresetNo int) (PrintMethod, bool) {
	for _, m := range p.PrintMethods {
		if m.JobPresetNo == jobPresetNo {
			return m, true
		}
	}
	return PrintMethod{}, false
}

// FindAwkjob looks a post-process job up across every job group, regardless
// of cover code.
func (p *Product) FindAwkjob(jobNo int) (Awkjob, JobGroup, bool) {
	for _, g := range p.JobGroups {
		for _, job := range g.Jobs {
			if job.JobNo == jobNo {
				return job, g, true
			}
		}
	}
	return Awkjob{}, JobGroup{}, false
}

// QuantityRangeFor resolves the orderable quantity domain. A row keyed by the
// selected size wins; otherwise the product-wide default applies. A product
// without any quantity row allows every positive quantity.
func (p *Product) QuantityRangeFor(sizeNo int, hasSize bool) QuantityRange {
	var fallback *QuantityRule
	for i := range p.Quantities {
		rule := &p.Quantities[i]
		if rule.SizeNo == nil {
			if fallback == nil {
				fallback = rule
			}
			continue
		}
		if hasSize && *rule.SizeNo == sizeNo {
			return QuantityRange{MinQty: rule.MinQty, MaxQty: rule.MaxQty, Interval: rule.Interval}
		}
	}
	if fallback != nil {
		return QuantityRange{MinQty: fallback.MinQty, MaxQty: fallback.MaxQty, Interval: fallback.Interval}
	}
	return QuantityRange{MinQty: 1, MaxQty: math.MaxInt32, Interval: 1}
}
