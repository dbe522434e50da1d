package classify

import "strings"

// HookType is the coarse topic label shown next to a story.
type HookType string

const (
	Sports      HookType = "SPORTS"
	Transit     HookType = "TRANSIT"
	Politics    HookType = "POLITICS"
	Weather     HookType = "WEATHER"
	LocalImpact HookType = "LOCAL_IMPACT"
	News        HookType = "NEWS"
)

// AllHookTypes returns every label in rule priority order, default last.
func AllHookTypes() []HookType {
	return []HookType{Sports, Transit, Politics, Weather, LocalImpact, News}
}

type field int

const (
	titleField field = iota
	contentField
)

type rule struct {
	hook     HookType
	field    field
	keywords []string
}

// rules are evaluated top-down; the first match wins.
var rules = []rule{
	{Sports, titleField, []string{"patriots", "celtics", "bruins", "red sox"}},
	{Transit, titleField, []string{"mbta", "orange line", "green line", "commuter rail", "traffic"}},
	{Politics, titleField, []string{"mayor", "city council", "election", "vote"}},
	{Weather, titleField, []string{"weather", "storm", "snow", "rain"}},
	{LocalImpact, contentField, []string{"boston", "cambridge", "somerville", "brookline"}},
}

// Classify assigns a hook type using case-insensitive substring matching.
func Classify(title, content string) HookType {
	text := [...]string{
		titleField:   strings.ToLower(title),
		contentField: strings.ToLower(content),
	}
	for _, r := range rules {
		if containsAny(text[r.field], r.keywords) {
			return r.hook
		}
	}
	return News
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
