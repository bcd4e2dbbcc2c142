package postprocess

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/iwvelando/print-configurator/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAwkjob(t *testing.T) {
	raw := []byte(`{
		"awkjobno": 20010,
		"awkjobname": "Gold foil",
		"inputtype": "checkbox",
		"req_joboption": [{"optno": 1, "optname": "Front"}, {"optno": 2, "optname": "Back"}],
		"req_jobsize": {"type": "input", "unit": "mm", "min": 10, "max": 200},
		"req_jobqty": null,
		"req_awkjob": [],
		"rst_jobqty": {"type": "range", "min": 100, "max": 5000},
		"rst_cutcnt": null,
		"rst_size": [{"sizeno": 103, "sizename": "B5"}],
		"rst_paper": null,
		"rst_color": [{"colorno": 302, "colorname": "Mono"}],
		"rst_awkjob": [{"jobno": 10020, "jobname": "Matte"}]
	}`)

	job, err := ParseAwkjob(raw)
	require.NoError(t, err)

	expected := catalog.Awkjob{
		JobNo:        20010,
		Name:         "Gold foil",
		InputKind:    catalog.InputCheckbox,
		ReqJobOption: []catalog.Ref{{No: 1, Name: "Front"}, {No: 2, Name: "Back"}},
		ReqJobSize:   &catalog.RangeInput{Type: "input", Unit: "mm", Min: 10, Max: 200, Interval: 1},
		RstJobQty:    &catalog.Range{Min: 100, Max: 5000},
		RstSize:      []catalog.Ref{{No: 103, Name: "B5"}},
		RstColor:     []catalog.Ref{{No: 302, Name: "Mono"}},
		RstAwkjob:    []catalog.Ref{{No: 10020, Name: "Matte"}},
	}
	if diff := cmp.Diff(expected, job); diff != "" {
		t.Errorf("ParseAwkjob() mismatch (-want +got):\n%s", diff)
	}

	assert.False(t, job.HasRequirement(catalog.ReqJobQty))
	assert.False(t, job.HasRequirement(catalog.ReqAwkjob), "an empty list is an absent slot")
}

func TestParseAwkjobOrderQuantity(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected *catalog.Range
	}{
		{
			name:     "ordqty keys",
			raw:      `{"awkjobno": 1, "rst_ordqty": {"ordqtymin": 10, "ordqtymax": 90}}`,
			expected: &catalog.Range{Min: 10, Max: 90},
		},
		{
			name:     "min max keys",
			raw:      `{"awkjobno": 1, "rst_ordqty": {"min": 5, "max": 50}}`,
			expected: &catalog.Range{Min: 5, Max: 50},
		},
		{
			name:     "jobqty wins",
			raw:      `{"awkjobno": 1, "rst_jobqty": {"min": 1, "max": 2}, "rst_ordqty": {"min": 5, "max": 50}}`,
			expected: &catalog.Range{Min: 1, Max: 2},
		},
		{
			name: "absent",
			raw:  `{"awkjobno": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, err := ParseAwkjob([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, job.RstJobQty)
		})
	}
}

func TestParseAwkjobErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: `{"awkjobno": `},
		{name: "array", raw: `[1,2]`},
		{name: "no job number", raw: `{"awkjobname": "Gloss"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAwkjob([]byte(tt.raw))
			if !errors.Is(err, ErrInvalidPayload) {
				t.Errorf("ParseAwkjob() error = %v, expected ErrInvalidPayload", err)
			}
		})
	}
}

func TestParseJobGroups(t *testing.T) {
	raw := []byte(`{"jobgrouplist": [
		{"jobgroupno": 25000, "jobgroup": "Bookbinding", "type": "checkbox", "displayloc": "bottom",
		 "awkjoblist": [{"awkjobno": 25010, "awkjobname": "Saddle"}, {"awkjobno": 25020, "awkjobname": "Perfect",
		   "rst_cutcnt": {"min": 1, "max": 4}}]},
		{"jobgroupno": 10000, "jobgroup": "Coating", "awkjoblist": []}
	]}`)

	groups, err := ParseJobGroups(raw, 1)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, 25000, groups[0].JobGroupNo)
	assert.Equal(t, 1, groups[0].CoverCd)
	assert.Equal(t, catalog.InputRadio, groups[0].InputKindOrDefault())
	require.Len(t, groups[0].Jobs, 2)
	assert.Equal(t, &catalog.Range{Min: 1, Max: 4}, groups[0].Jobs[1].RstCutCnt)
	assert.Empty(t, groups[1].Jobs)

	product := catalog.Product{JobGroups: groups}
	evaluator := NewEvaluator(nil, &product)
	available := evaluator.GetAvailablePostProcesses(catalog.NewSelection(1, 1))
	assert.Len(t, available, 1, "empty groups are dropped")

	_, err = ParseJobGroups([]byte(`{"groups": []}`), 0)
	assert.ErrorIs(t, err, ErrInvalidPayload)
}
