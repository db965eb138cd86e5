package monday

import "encoding/json"

// Column value builders for monday.com mutations. Columns store values as
// JSON with type-specific shapes; these helpers build the right payload
// for each column type. Build a map of column id -> value, then serialize
// it with FormatColumnValues for the column_values mutation argument.

// FormatColumnValues serializes a column id -> value map into the JSON
// string the API expects for column_values arguments.
func FormatColumnValues(columns map[string]any) (string, error) {
	raw, err := json.Marshal(columns)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// StatusLabel builds a status value by label, e.g. {"label": "Done"}.
func StatusLabel(label string) map[string]any {
	return map[string]any{"label": label}
}

// StatusIndex builds a status value by index, e.g. {"index": 1}.
func StatusIndex(index int) map[string]any {
	return map[string]any{"index": index}
}

// DateValue builds a date value; time is optional ("HH:MM:SS").
func DateValue(date, timeOfDay string) map[string]any {
	v := map[string]any{"date": date}
	if timeOfDay != "" {
		v["time"] = timeOfDay
	}
	return v
}

// TimelineValue builds a timeline range value.
func TimelineValue(from, to string) map[string]any {
	return map[string]any{"from": from, "to": to}
}

// PersonOrTeam is one assignee entry for a people column. Kind is
// "person" or "team".
type PersonOrTeam struct {
	ID   int64  `json:"id"`
	Kind string `json:"kind"`
}

// PeopleValue builds a people column value.
func PeopleValue(entries []PersonOrTeam) map[string]any {
	return map[string]any{"personsAndTeams": entries}
}

// DropdownValue builds a dropdown value from its labels.
func DropdownValue(labels []string) map[string]any {
	return map[string]any{"labels": labels}
}

// CheckboxValue builds a checkbox value. The API wants the string forms
// "true" / "false" here, not booleans.
func CheckboxValue(checked bool) map[string]any {
	if checked {
		return map[string]any{"checked": "true"}
	}
	return map[string]any{"checked": "false"}
}

// EmailValue builds an email value; display text defaults to the address.
func EmailValue(email, text string) map[string]any {
	if text == "" {
		text = email
	}
	return map[string]any{"email": email, "text": text}
}

// PhoneValue builds a phone value with its ISO country short name.
func PhoneValue(phone, countryShortName string) map[string]any {
	return map[string]any{"phone": phone, "countryShortName": countryShortName}
}

// LinkValue builds a link value; display text defaults to the URL.
func LinkValue(url, text string) map[string]any {
	if text == "" {
		text = url
	}
	return map[string]any{"url": url, "text": text}
}

// LongTextValue builds a long text value.
func LongTextValue(text string) map[string]any {
	return map[string]any{"text": text}
}

// RatingValue builds a rating value, clamped to 1..5.
func RatingValue(rating int) map[string]any {
	if rating < 1 {
		rating = 1
	}
	if rating > 5 {
		rating = 5
	}
	return map[string]any{"rating": rating}
}

// HourValue builds an hour value.
func HourValue(hour, minute int) map[string]any {
	return map[string]any{"hour": hour, "minute": minute}
}

// WeekValue builds a week range value.
func WeekValue(startDate, endDate string) map[string]any {
	return map[string]any{"week": map[string]any{"startDate": startDate, "endDate": endDate}}
}

// TimezoneValue builds a world clock value, e.g. "America/New_York".
func TimezoneValue(timezone string) map[string]any {
	return map[string]any{"timezone": timezone}
}

// LocationValue builds a location value; address is optional.
func LocationValue(lat, lng float64, address string) map[string]any {
	v := map[string]any{"lat": lat, "lng": lng}
	if address != "" {
		v["address"] = address
	}
	return v
}

// CountryValue builds a country value from ISO code and display name.
func CountryValue(countryCode, countryName string) map[string]any {
	return map[string]any{"countryCode": countryCode, "countryName": countryName}
}

// TagsValue builds a tags value from tag IDs.
func TagsValue(tagIDs []int64) map[string]any {
	return map[string]any{"tag_ids": tagIDs}
}

// ColorValue builds a color picker value from a hex color.
func ColorValue(color string) map[string]any {
	return map[string]any{"color": color}
}

// FilesValue builds a file column value referencing already-uploaded URLs.
func FilesValue(fileURLs []string) map[string]any {
	files := make([]map[string]string, len(fileURLs))
	for i, u := range fileURLs {
		files[i] = map[string]string{"url": u}
	}
	return map[string]any{"files": files}
}

// ParseColumnValue decodes the raw `value` field of a column value
// response. Returns nil for empty values and the raw string when the
// payload is not valid JSON.
func ParseColumnValue(raw string) any {
	if raw == "" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}

// ColumnTypes maps column type IDs to human-readable names.
var ColumnTypes = map[string]string{
	"auto_number":    "Auto Number",
	"board_relation": "Board Relation",
	"button":         "Button",
	"checkbox":       "Checkbox",
	"color_picker":   "Color Picker",
	"country":        "Country",
	"creation_log":   "Creation Log",
	"date":           "Date",
	"dependency":     "Dependency",
	"doc":            "Doc",
	"dropdown":       "Dropdown",
	"email":          "Email",
	"file":           "File",
	"formula":        "Formula",
	"hour":           "Hour",
	"item_id":        "Item ID",
	"last_updated":   "Last Updated",
	"link":           "Link",
	"location":       "Location",
	"long_text":      "Long Text",
	"mirror":         "Mirror",
	"name":           "Name",
	"numbers":        "Numbers",
	"people":         "People",
	"phone":          "Phone",
	"progress":       "Progress Tracking",
	"rating":         "Rating",
	"status":         "Status",
	"tags":           "Tags",
	"text":           "Text",
	"timeline":       "Timeline",
	"time_tracking":  "Time Tracking",
	"vote":           "Vote",
	"week":           "Week",
	"world_clock":    "World Clock",
}
