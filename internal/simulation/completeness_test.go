package simulation

import (
	"testing"

	"github.com/iwvelando/print-configurator/pkg/testutil"
	"github.com/stretchr/testify/assert"
)

func completeInput() CompletenessInput {
	return CompletenessInput{
		HasDefaultRecipe:  true,
		OptionTypeCount:   3,
		MinChoiceCount:    2,
		HasRequiredOption: true,
		HasPricingConfig:  true,
		IsPricingActive:   true,
		ConstraintCount:   4,
		EdicusCode:        "BK-1",
	}
}

func TestCheckCompleteness(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*CompletenessInput)
		item        string
		completed   bool
		message     string
		publishable bool
	}{
		{name: "everything configured", mutate: func(*CompletenessInput) {}, item: ItemOptions, completed: true, message: "3 option type(s) configured", publishable: true},
		{name: "no recipe", mutate: func(in *CompletenessInput) { in.HasDefaultRecipe = false }, item: ItemOptions, message: "No default recipe configured"},
		{name: "no option types", mutate: func(in *CompletenessInput) { in.OptionTypeCount = 0 }, item: ItemOptions, message: "Recipe must have at least 1 option type"},
		{name: "single choice", mutate: func(in *CompletenessInput) { in.MinChoiceCount = 1 }, item: ItemOptions, message: "Option types must have at least 2 choices"},
		{name: "nothing required", mutate: func(in *CompletenessInput) { in.HasRequiredOption = false }, item: ItemOptions, message: "At least 1 option must be marked as required"},
		{name: "no pricing", mutate: func(in *CompletenessInput) { in.HasPricingConfig = false }, item: ItemPricing, message: "No price configuration found"},
		{name: "inactive pricing", mutate: func(in *CompletenessInput) { in.IsPricingActive = false }, item: ItemPricing, message: "Price configuration is inactive"},
		{name: "no constraints still publishable", mutate: func(in *CompletenessInput) { in.ConstraintCount = 0 }, item: ItemConstraints, completed: true, message: "No constraints defined (review recommended)", publishable: true},
		{name: "constraints counted", mutate: func(*CompletenessInput) {}, item: ItemConstraints, completed: true, message: "4 constraint(s) defined", publishable: true},
		{name: "mes item code is enough", mutate: func(in *CompletenessInput) { in.EdicusCode = ""; in.MesItemCd = "MES-9" }, item: ItemMesMapping, completed: true, message: "Integration code configured", publishable: true},
		{name: "no integration code", mutate: func(in *CompletenessInput) { in.EdicusCode = "" }, item: ItemMesMapping, message: "Edicus code or MES item code required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := completeInput()
			tt.mutate(&in)
			got := CheckCompleteness(in)

			assert.Equal(t, 4, got.TotalCount)
			assert.Equal(t, tt.publishable, got.Publishable)

			completed := 0
			for _, item := range got.Items {
				if item.Completed {
					completed++
				}
				if item.Item == tt.item {
					assert.Equal(t, tt.completed, item.Completed)
					assert.Equal(t, tt.message, item.Message)
				}
			}
			assert.Equal(t, completed, got.CompletedCount)
		})
	}
}

func TestCompletenessFromProduct(t *testing.T) {
	product := testutil.SampleProduct()
	in := CompletenessFromProduct(&product)

	assert.Equal(t, 6, in.OptionTypeCount)
	assert.Equal(t, 1, in.MinChoiceCount, "a single additional color")
	assert.True(t, in.HasDefaultRecipe)
	assert.True(t, in.HasRequiredOption)
	assert.True(t, in.HasPricingConfig)
	assert.True(t, in.IsPricingActive)
	assert.Equal(t, 5, in.ConstraintCount)
	assert.Equal(t, "BK-1001", in.EdicusCode)

	result := CheckCompleteness(in)
	assert.False(t, result.Publishable)
	assert.Equal(t, 3, result.CompletedCount)
}
