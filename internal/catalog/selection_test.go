package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionIsImmutable(t *testing.T) {
	base := NewSelection(1, 0).With(LevelSize, 101)

	next := base.With(LevelPaper, 201).
		WithAwkjob(AwkjobSelection{JobGroupNo: 10000, JobNo: 10010}).
		WithQuantity(500).
		WithJobOption(25020, 1)

	assert.False(t, base.Has(LevelPaper))
	assert.Empty(t, base.Awkjobs())
	_, ok := base.Quantity()
	assert.False(t, ok)
	_, ok = base.JobOption(25020)
	assert.False(t, ok)

	assert.True(t, next.Has(LevelSize))
	assert.True(t, next.HasAwkjob(10010))
}

func TestSelectionAwkjobsCopy(t *testing.T) {
	sel := NewSelection(1, 0).WithAwkjob(AwkjobSelection{JobGroupNo: 10000, JobNo: 10010})
	jobs := sel.Awkjobs()
	jobs[0].JobNo = 99999

	assert.True(t, sel.HasAwkjob(10010))
	assert.False(t, sel.HasAwkjob(99999))
}

func TestSelectionWithAwkjobDedupes(t *testing.T) {
	job := AwkjobSelection{JobGroupNo: 10000, JobNo: 10010}
	sel := NewSelection(1, 0).WithAwkjob(job).WithAwkjob(job)
	assert.Len(t, sel.Awkjobs(), 1)

	sel = sel.WithoutAwkjob(10010)
	assert.Empty(t, sel.Awkjobs())
}

func TestSelectionWithoutAwkjobLeavesReceiver(t *testing.T) {
	sel := NewSelection(1, 0).WithAwkjobs([]AwkjobSelection{
		{JobGroupNo: 10000, JobNo: 10010},
		{JobGroupNo: 20000, JobNo: 20020},
	})

	trimmed := sel.WithoutAwkjob(10010)

	assert.Equal(t, []int{10010, 20020}, sel.AwkjobNos())
	assert.Equal(t, []int{20020}, trimmed.AwkjobNos())
}

func TestSelectionFieldValue(t *testing.T) {
	sel := NewSelection(1, 0).With(LevelPaper, 203).WithQuantity(1000).WithCutCount(3)

	tests := []struct {
		field    string
		expected string
		ok       bool
	}{
		{field: "paper", expected: "203", ok: true},
		{field: "paperNo", expected: "203", ok: true},
		{field: "quantity", expected: "1000", ok: true},
		{field: "cutCount", expected: "3", ok: true},
		{field: "size", ok: false},
		{field: "nonsense", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			got, ok := sel.FieldValue(tt.field)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSelectionLevelsInChainOrder(t *testing.T) {
	sel := NewSelection(1, 0).With(LevelColor, 301).With(LevelJobPreset, 1).With(LevelPaper, 201)

	if diff := cmp.Diff([]Level{LevelJobPreset, LevelPaper, LevelColor}, sel.Levels()); diff != "" {
		t.Errorf("Levels() mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectionWithUnknownLevelPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewSelection(1, 0).With(Level("binding"), 1)
	})
}

func TestSelectionSpec(t *testing.T) {
	spec := SelectionSpec{
		ProductID:     1001,
		CoverCd:       1,
		Levels:        map[string]int{"sizeNo": 101, "print": 2},
		Awkjobs:       []AwkjobSelection{{JobGroupNo: 30000, JobNo: 30010}},
		Quantity:      250,
		JobSizes:      map[int]float64{20010: 50},
		JobQuantities: map[int]int{40010: 2},
	}

	sel, err := spec.Selection()
	require.NoError(t, err)

	assert.Equal(t, 1001, sel.ProductID())
	assert.Equal(t, 1, sel.CoverCd())
	assert.Equal(t, map[string]string{"size": "101", "jobPreset": "2"}, sel.Key())
	assert.True(t, sel.HasAwkjob(30010))
	qty, _ := sel.Quantity()
	assert.Equal(t, 250, qty)
	size, ok := sel.JobSize(20010)
	assert.True(t, ok)
	assert.Equal(t, 50.0, size)
	jq, ok := sel.JobQuantity(40010)
	assert.True(t, ok)
	assert.Equal(t, 2, jq)

	_, err = SelectionSpec{Levels: map[string]int{"binding": 1}}.Selection()
	assert.Error(t, err)
}

func TestQuantityRangeContains(t *testing.T) {
	r := QuantityRange{MinQty: 50, MaxQty: 5000, Interval: 50}

	assert.True(t, r.Contains(50))
	assert.True(t, r.Contains(5000))
	assert.False(t, r.Contains(75))
	assert.False(t, r.Contains(0))
	assert.False(t, r.Contains(5050))
}
