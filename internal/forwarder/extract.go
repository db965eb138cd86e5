package forwarder

import "regexp"

// Item references sometimes only appear inside free text. The structured
// item_id field is authoritative; text scanning is a documented fallback
// for records that lack it.
var (
	pulseRefPattern  = regexp.MustCompile(`(?i)pulse[_-]?(\d+)`)
	itemIDRefPattern = regexp.MustCompile(`(?i)item[_-]?id[=:]?\s*(\d+)`)
	pulseURLPattern  = regexp.MustCompile(`/pulses/(\d+)`)
)

// extractItemID returns the item an update refers to: the structured id
// when present, otherwise the first match of the known text patterns.
// Empty string when nothing matches.
func extractItemID(structuredID, text string) string {
	if structuredID != "" {
		return structuredID
	}
	for _, p := range []*regexp.Regexp{pulseRefPattern, itemIDRefPattern, pulseURLPattern} {
		if m := p.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}
