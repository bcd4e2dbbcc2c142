package postprocess

import (
	"errors"
	"fmt"

	"github.com/iwvelando/print-configurator/internal/catalog"
	"github.com/tidwall/gjson"
)

// ErrInvalidPayload is returned for raw post-process data that is not a JSON
// object of the expected shape.
var ErrInvalidPayload = errors.New("invalid post-process payload")

// ParseJobGroups decodes a raw catalog export post-process block of the form
// {"jobgrouplist":[{"jobgroupno":..,"awkjoblist":[..]}]}.
func ParseJobGroups(raw []byte, coverCd int) ([]catalog.JobGroup, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrInvalidPayload
	}
	list := gjson.GetBytes(raw, "jobgrouplist")
	if !list.IsArray() {
		return nil, fmt.Errorf("jobgrouplist is missing: %w", ErrInvalidPayload)
	}

	var groups []catalog.JobGroup
	list.ForEach(func(_, g gjson.Result) bool {
		group := catalog.JobGroup{
			JobGroupNo: int(g.Get("jobgroupno").Int()),
			Name:       g.Get("jobgroup").String(),
			Type:       catalog.InputKind(g.Get("type").String()),
			DisplayLoc: g.Get("displayloc").String(),
			CoverCd:    coverCd,
		}
		g.Get("awkjoblist").ForEach(func(_, j gjson.Result) bool {
			group.Jobs = append(group.Jobs, parseAwkjob(j))
			return true
		})
		groups = append(groups, group)
		return true
	})
	return groups, nil
}

// ParseAwkjob decodes one raw awkjob object with its req_* and rst_* slots.
// A slot that is null, absent or an empty list stays nil. rst_ordqty is read
// as the order quantity restriction when rst_jobqty is not given, in either
// its {ordqtymin, ordqtymax} or {min, max} form.
func ParseAwkjob(raw []byte) (catalog.Awkjob, error) {
	if !gjson.ValidBytes(raw) {
		return catalog.Awkjob{}, ErrInvalidPayload
	}
	result := gjson.ParseBytes(raw)
	if !result.IsObject() {
		return catalog.Awkjob{}, fmt.Errorf("awkjob must be an object: %w", ErrInvalidPayload)
	}
	if !result.Get("awkjobno").Exists() && !result.Get("jobno").Exists() {
		return catalog.Awkjob{}, fmt.Errorf("awkjob has no job number: %w", ErrInvalidPayload)
	}
	return parseAwkjob(result), nil
}

func parseAwkjob(j gjson.Result) catalog.Awkjob {
	jobNo := j.Get("awkjobno")
	if !jobNo.Exists() {
		jobNo = j.Get("jobno")
	}
	name := j.Get("awkjobname")
	if !name.Exists() {
		name = j.Get("jobname")
	}

	job := catalog.Awkjob{
		JobNo:     int(jobNo.Int()),
		Name:      name.String(),
		InputKind: catalog.InputKind(j.Get("inputtype").String()),
		PriceType: catalog.PriceType(j.Get("pricetype").String()),
		PriceCode: j.Get("pricecode").String(),

		ReqJobOption: readRefs(j.Get("req_joboption"), "optno", "optname"),
		ReqJobSize:   readRangeInput(j.Get("req_jobsize")),
		ReqJobQty:    readRangeInput(j.Get("req_jobqty")),
		ReqAwkjob:    readRefs(j.Get("req_awkjob"), "jobno", "jobname"),

		RstJobQty: readRange(j.Get("rst_jobqty"), "min", "max"),
		RstCutCnt: readRange(j.Get("rst_cutcnt"), "min", "max"),
		RstSize:   readRefs(j.Get("rst_size"), "sizeno", "sizename"),
		RstPaper:  readRefs(j.Get("rst_paper"), "paperno", "papername"),
		RstColor:  readRefs(j.Get("rst_color"), "colorno", "colorname"),
		RstAwkjob: readRefs(j.Get("rst_awkjob"), "jobno", "jobname"),
	}

	if job.RstJobQty == nil {
		ordqty := j.Get("rst_ordqty")
		if ordqty.Get("ordqtymin").Exists() {
			job.RstJobQty = readRange(ordqty, "ordqtymin", "ordqtymax")
		} else {
			job.RstJobQty = readRange(ordqty, "min", "max")
		}
	}
	return job
}

func readRefs(v gjson.Result, noKey, nameKey string) []catalog.Ref {
	if !v.IsArray() {
		return nil
	}
	var refs []catalog.Ref
	v.ForEach(func(_, item gjson.Result) bool {
		refs = append(refs, catalog.Ref{
			No:   int(item.Get(noKey).Int()),
			Name: item.Get(nameKey).String(),
		})
		return true
	})
	return refs
}

func readRangeInput(v gjson.Result) *catalog.RangeInput {
	if !v.IsObject() {
		return nil
	}
	input := &catalog.RangeInput{
		Type:     v.Get("type").String(),
		Unit:     v.Get("unit").String(),
		Min:      v.Get("min").Float(),
		Max:      v.Get("max").Float(),
		Interval: 1,
	}
	if input.Type == "" {
		input.Type = "input"
	}
	if interval := v.Get("interval"); interval.Exists() && interval.Float() > 0 {
		input.Interval = interval.Float()
	}
	return input
}

func readRange(v gjson.Result, minKey, maxKey string) *catalog.Range {
	if !v.IsObject() {
		return nil
	}
	return &catalog.Range{Min: v.Get(minKey).Float(), Max: v.Get(maxKey).Float()}
}
