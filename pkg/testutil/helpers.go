// Package testutil provides common utility functions and catalog fixtures for
// testing.
package testutil

import (
	"github.com/iwvelando/print-configurator/internal/catalog"
)

// Product and choice ids of the sample booklet product.
const (
	ProductBooklet = 1001

	SizeA4 = 101
	SizeA5 = 102
	SizeB5 = 103

	PaperSnowWhite = 201
	PaperKraft     = 202
	PaperArt       = 203
	PaperInner     = 204

	PresetDigital = 1
	PresetOffset  = 2

	ColorFull      = 301
	ColorMono      = 302
	ColorDuplex    = 303
	ColorWhiteInk  = 304
	OptionStandard = 401
	OptionRush     = 402

	GroupCoating     = 10000
	GroupFoil        = 20000
	GroupBookbinding = catalog.JobGroupBookbinding
	GroupSealing     = 30000
	GroupDieCut      = 40000

	JobGloss        = 10010
	JobMatte        = 10020
	JobGoldFoil     = 20010
	JobSpotUV       = 20020
	JobSaddleStitch = 25010
	JobPerfectBind  = 25020
	JobKraftSeal    = 30010
	JobStickerSeal  = 30020
	JobDieCut       = 40010
)

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

// BoolPtr returns a pointer to v.
func BoolPtr(v bool) *bool {
	return &v
}

// FindJobGroup finds a job group by number in the groups slice.
// Returns a pointer to the group if found, nil otherwise.
func FindJobGroup(groups []catalog.JobGroup, jobGroupNo int) *catalog.JobGroup {
	for i := range groups {
		if groups[i].JobGroupNo == jobGroupNo {
			return &groups[i]
		}
	}
	return nil
}

// HasViolation reports whether any violation has the kind and mentions
// target.
func HasViolation(violations []catalog.Violation, kind catalog.ViolationKind, target string) bool {
	for _, v := range violations {
		if v.Kind == kind && v.Target == target {
			return true
		}
	}
	return false
}

// SampleCatalog returns a catalog holding only SampleProduct.
func SampleCatalog() *catalog.Catalog {
	return &catalog.Catalog{Products: []catalog.Product{SampleProduct()}}
}

// SampleProduct builds a saddle-stitch booklet with every rule kind the
// engine understands. Each call returns a fresh value.
func SampleProduct() catalog.Product {
	return catalog.Product{
		ProductID: ProductBooklet,
		Name:      "Saddle-stitch booklet",
		Sizes: []catalog.Size{
			{SizeNo: SizeA4, Name: "A4", Width: 210, Height: 297},
			{SizeNo: SizeA5, Name: "A5", Width: 148, Height: 210},
			{SizeNo: SizeB5, Name: "B5", Width: 182, Height: 257},
		},
		Papers: []catalog.Paper{
			{PaperNo: PaperSnowWhite, Name: "SnowWhite", Group: "coated", Gram: 150},
			{PaperNo: PaperKraft, Name: "Kraft", Group: "uncoated", Gram: 120,
				ReqAwkjob: []catalog.Ref{{No: JobKraftSeal, Name: "Kraft sealing"}}},
			{PaperNo: PaperArt, Name: "Art", Group: "coated", Gram: 250},
			{PaperNo: PaperInner, Name: "Inner Matte", Group: "coated", Gram: 100, CoverCd: 2},
		},
		PrintMethods: []catalog.PrintMethod{
			{JobPresetNo: PresetDigital, Name: "Digital",
				RstPaper: []catalog.Ref{{No: PaperSnowWhite, Name: "SnowWhite"}}},
			{JobPresetNo: PresetOffset, Name: "Offset"},
		},
		Colors: []catalog.Color{
			{ColorNo: ColorFull, Name: "4/0 color", PdfPage: 1},
			{ColorNo: ColorMono, Name: "1/0 mono", PdfPage: 1},
			{ColorNo: ColorDuplex, Name: "4/4 color", PdfPage: 2,
				RstPaper: []catalog.Ref{{No: PaperKraft, Name: "Kraft"}}},
			{ColorNo: ColorWhiteInk, Name: "White ink", Additional: true,
				RstPrintMethod: []catalog.Ref{{No: PresetOffset, Name: "Offset"}}},
		},
		Options: []catalog.ProductOption{
			{OptNo: OptionStandard, Name: "Standard"},
			{OptNo: OptionRush, Name: "Rush"},
		},
		JobGroups: []catalog.JobGroup{
			{JobGroupNo: GroupCoating, Name: "Coating", Type: catalog.InputCheckbox, Jobs: []catalog.Awkjob{
				{JobNo: JobGloss, Name: "Gloss lamination", PriceType: catalog.PricePerUnit,
					RstPaper:  []catalog.Ref{{No: PaperKraft, Name: "Kraft"}},
					RstAwkjob: []catalog.Ref{{No: JobMatte, Name: "Matte lamination"}}},
				{JobNo: JobMatte, Name: "Matte lamination", PriceType: catalog.PricePerUnit},
			}},
			{JobGroupNo: GroupFoil, Name: "Foil", Type: catalog.InputCheckbox, Jobs: []catalog.Awkjob{
				{JobNo: JobGoldFoil, Name: "Gold foil", PriceType: catalog.PriceFixed,
					ReqJobSize: &catalog.RangeInput{Type: "input", Unit: "mm", Min: 10, Max: 200, Interval: 1},
					RstSize:    []catalog.Ref{{No: SizeB5, Name: "B5"}}},
				{JobNo: JobSpotUV, Name: "Spot UV", PriceType: catalog.PricePerUnit,
					ReqAwkjob: []catalog.Ref{{No: JobGloss, Name: "Gloss lamination"}},
					RstJobQty: &catalog.Range{Min: 100, Max: 5000}},
			}},
			{JobGroupNo: GroupBookbinding, Name: "Bookbinding", Type: catalog.InputRadio, Jobs: []catalog.Awkjob{
				{JobNo: JobSaddleStitch, Name: "Saddle stitch", PriceType: catalog.PriceFixed},
				{JobNo: JobPerfectBind, Name: "Perfect binding", PriceType: catalog.PriceFixed,
					ReqJobOption: []catalog.Ref{{No: 1, Name: "Left"}, {No: 2, Name: "Top"}},
					RstCutCnt:    &catalog.Range{Min: 1, Max: 4}},
			}},
			{JobGroupNo: GroupSealing, Name: "Sealing", Type: catalog.InputCheckbox, Jobs: []catalog.Awkjob{
				{JobNo: JobKraftSeal, Name: "Kraft sealing", PriceType: catalog.PricePerUnit},
				{JobNo: JobStickerSeal, Name: "Sticker seal", PriceType: catalog.PricePerUnit,
					RstColor: []catalog.Ref{{No: ColorMono, Name: "1/0 mono"}}},
			}},
			{JobGroupNo: GroupDieCut, Name: "Die cut", Type: catalog.InputText, Jobs: []catalog.Awkjob{
				{JobNo: JobDieCut, Name: "Die cut", PriceType: catalog.PricePerUnit,
					ReqJobQty: &catalog.RangeInput{Type: "input", Unit: "ea", Min: 1, Max: 10, Interval: 1},
					RstSize:   []catalog.Ref{{No: SizeA5, Name: "A5"}}},
			}},
		},
		Constraints: []catalog.OptionConstraintRule{
			{ID: 1, ConstraintType: catalog.ConstraintValue, SourceField: "paper", Operator: catalog.OpEq, Value: "203",
				TargetField: "color", TargetAction: catalog.ActionRequire, Priority: 1,
				Description: "Art paper needs a print color"},
			{ID: 2, ConstraintType: catalog.ConstraintValue, SourceField: "quantity", Operator: catalog.OpGt, Value: "3000",
				TargetField: "option", TargetAction: catalog.ActionRestrict, TargetValue: "402", Priority: 2,
				Description: "Rush is not available above 3000 copies"},
			{ID: 3, ConstraintType: catalog.ConstraintFilter, SourceField: "size", Operator: catalog.OpIn, Value: "101,102",
				TargetField: "option", TargetAction: catalog.ActionFilterChoices, TargetValue: "401", Priority: 3,
				Description: "A4 and A5 only ship standard"},
			{ID: 4, ConstraintType: catalog.ConstraintValue, SourceField: "quantity", Operator: catalog.OpBetween, ValueMin: "1", ValueMax: "49",
				TargetField: "jobPreset", TargetAction: catalog.ActionSetValue, TargetValue: "1", Priority: 4,
				Description: "Short runs print digitally"},
			{ID: 5, ConstraintType: catalog.ConstraintValue, SourceField: "paper", Operator: catalog.OpEq, Value: "202",
				TargetField: "color", TargetAction: catalog.ActionWarn, TargetValue: "301", Priority: 5,
				Description: "Full color on kraft prints dull"},
		},
		Quantities: []catalog.QuantityRule{
			{MinQty: 1, MaxQty: 10000, Interval: 1},
			{SizeNo: IntPtr(SizeB5), MinQty: 50, MaxQty: 5000, Interval: 50},
		},
		Pricing: catalog.Pricing{
			PrintTableID:       "PRINT",
			PostProcessTableID: "POST",
			PrintCodes: []catalog.PrintCode{
				{JobPresetNo: PresetDigital, OptionCode: "DIGITAL"},
				{JobPresetNo: PresetOffset, OptionCode: "OFFSET"},
				{JobPresetNo: PresetOffset, PaperNo: IntPtr(PaperArt), OptionCode: "OFFSET-ART"},
			},
			Tiers: []catalog.PriceTier{
				{PriceTableID: "PRINT", OptionCode: "DIGITAL", MinQty: 1, MaxQty: 99, UnitPrice: 120},
				{PriceTableID: "PRINT", OptionCode: "DIGITAL", MinQty: 100, MaxQty: 999, UnitPrice: 90},
				{PriceTableID: "PRINT", OptionCode: "DIGITAL", MinQty: 1000, MaxQty: 4999, UnitPrice: 70},
				{PriceTableID: "PRINT", OptionCode: "DIGITAL", MinQty: 5000, MaxQty: 10000, UnitPrice: 60},
				{PriceTableID: "PRINT", OptionCode: "OFFSET", MinQty: 1, MaxQty: 999, UnitPrice: 80},
				{PriceTableID: "PRINT", OptionCode: "OFFSET", MinQty: 1000, MaxQty: 10000, UnitPrice: 50},
				{PriceTableID: "PRINT", OptionCode: "OFFSET-ART", MinQty: 1, MaxQty: 10000, UnitPrice: 65},
				{PriceTableID: "POST", OptionCode: "10010", MinQty: 1, MaxQty: 10000, UnitPrice: 15},
				{PriceTableID: "POST", OptionCode: "10020", MinQty: 1, MaxQty: 10000, UnitPrice: 12},
				{PriceTableID: "POST", OptionCode: "20010", MinQty: 1, MaxQty: 10000, UnitPrice: 30000},
				{PriceTableID: "POST", OptionCode: "20020", MinQty: 1, MaxQty: 10000, UnitPrice: 20},
				{PriceTableID: "POST", OptionCode: "25010", MinQty: 1, MaxQty: 10000, UnitPrice: 5000},
				{PriceTableID: "POST", OptionCode: "25020", MinQty: 1, MaxQty: 10000, UnitPrice: 8000},
				{PriceTableID: "POST", OptionCode: "30010", MinQty: 1, MaxQty: 10000, UnitPrice: 10},
				{PriceTableID: "POST", OptionCode: "40010", MinQty: 1, MaxQty: 10000, UnitPrice: 25},
			},
			Discounts: []catalog.DiscountTier{
				{MinQty: 1, MaxQty: 499, Rate: 0},
				{MinQty: 500, MaxQty: 999, Rate: 0.03, Label: "3%"},
				{MinQty: 1000, MaxQty: 10000, Rate: 0.05, Label: "5%"},
			},
			AreaSqm: 0.0625,
		},
		EdicusCode: "BK-1001",
	}
}
