package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		content string
		want    HookType
	}{
		{"sports", "Celtics clinch top seed", "", Sports},
		{"sports multiword", "Red Sox sign ace", "", Sports},
		{"transit", "MBTA adds late-night service", "", Transit},
		{"transit phrase", "Orange Line shutdown extended", "", Transit},
		{"politics", "City Council passes rent measure", "", Politics},
		{"weather", "Nor'easter brings heavy snow", "", Weather},
		{"local impact from content", "New bakery opens", "The shop is on Mass Ave in Cambridge.", LocalImpact},
		{"default", "Study finds coffee is popular", "Researchers in Ohio surveyed adults.", News},
		{"case insensitive", "PATRIOTS DRAFT RECAP", "", Sports},
		{"politics before weather", "Mayor announces storm shelters", "", Politics},
		{"sports before transit", "Bruins fans face traffic after game", "", Sports},
		{"transit before politics", "Mayor rides the Green Line", "", Transit},
		{"title beats content", "Snow totals climb", "Boston and Brookline dig out.", Weather},
		{"title keywords ignored in content", "Local update", "The mayor spoke about the storm.", News},
		{"content keywords ignored in title", "Boston marathon route set", "Runners gather.", News},
		{"substring match", "Voters head to polls", "", Politics},
		{"rain substring", "Training camp opens", "", Weather},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.title, tt.content))
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		assert.Equal(t, Politics, Classify("Mayor announces storm shelters", "Boston"))
	}
}

func TestAllHookTypes(t *testing.T) {
	assert.Equal(t, []HookType{Sports, Transit, Politics, Weather, LocalImpact, News}, AllHookTypes())
}
