package monday

import (
	"reflect"
	"testing"
)

func TestFormatColumnValues(t *testing.T) {
	got, err := FormatColumnValues(map[string]any{
		"status": StatusLabel("Done"),
	})
	if err != nil {
		t.Fatalf("FormatColumnValues: %v", err)
	}
	want := `{"status":{"label":"Done"}}`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestColumnValueBuilders(t *testing.T) {
	tests := []struct {
		name string
		got  map[string]any
		want map[string]any
	}{
		{"status by label", StatusLabel("Working on it"), map[string]any{"label": "Working on it"}},
		{"status by index", StatusIndex(1), map[string]any{"index": 1}},
		{"date without time", DateValue("2024-01-15", ""), map[string]any{"date": "2024-01-15"}},
		{"date with time", DateValue("2024-01-15", "09:00:00"), map[string]any{"date": "2024-01-15", "time": "09:00:00"}},
		{"timeline", TimelineValue("2024-01-01", "2024-01-31"), map[string]any{"from": "2024-01-01", "to": "2024-01-31"}},
		{"people", PeopleValue([]PersonOrTeam{{ID: 12345, Kind: "person"}, {ID: 9, Kind: "team"}}),
			map[string]any{"personsAndTeams": []PersonOrTeam{{ID: 12345, Kind: "person"}, {ID: 9, Kind: "team"}}}},
		{"week", WeekValue("2024-01-01", "2024-01-07"),
			map[string]any{"week": map[string]any{"startDate": "2024-01-01", "endDate": "2024-01-07"}}},
		{"tags", TagsValue([]int64{3, 7}), map[string]any{"tag_ids": []int64{3, 7}}},
		{"files", FilesValue([]string{"https://x.test/a.pdf"}),
			map[string]any{"files": []map[string]string{{"url": "https://x.test/a.pdf"}}}},
		{"dropdown", DropdownValue([]string{"A", "B"}), map[string]any{"labels": []string{"A", "B"}}},
		{"checkbox checked", CheckboxValue(true), map[string]any{"checked": "true"}},
		{"checkbox unchecked", CheckboxValue(false), map[string]any{"checked": "false"}},
		{"email defaults text", EmailValue("a@b.com", ""), map[string]any{"email": "a@b.com", "text": "a@b.com"}},
		{"link keeps text", LinkValue("https://x.test", "X"), map[string]any{"url": "https://x.test", "text": "X"}},
		{"rating clamps high", RatingValue(9), map[string]any{"rating": 5}},
		{"rating clamps low", RatingValue(0), map[string]any{"rating": 1}},
		{"hour", HourValue(14, 30), map[string]any{"hour": 14, "minute": 30}},
		{"timezone", TimezoneValue("America/New_York"), map[string]any{"timezone": "America/New_York"}},
		{"location without address", LocationValue(40.7, -74.0, ""), map[string]any{"lat": 40.7, "lng": -74.0}},
		{"country", CountryValue("US", "United States"), map[string]any{"countryCode": "US", "countryName": "United States"}},
		{"color", ColorValue("#FF5733"), map[string]any{"color": "#FF5733"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.want) {
				t.Errorf("got %#v, want %#v", tt.got, tt.want)
			}
		})
	}
}

func TestParseColumnValue(t *testing.T) {
	if v := ParseColumnValue(""); v != nil {
		t.Errorf("empty value = %v, want nil", v)
	}

	v := ParseColumnValue(`{"label":"Done"}`)
	m, ok := v.(map[string]any)
	if !ok || m["label"] != "Done" {
		t.Errorf("parsed = %#v, want label Done", v)
	}

	if v := ParseColumnValue("not json"); v != "not json" {
		t.Errorf("invalid json = %v, want raw string back", v)
	}
}

func TestColumnTypesTable(t *testing.T) {
	for id, name := range map[string]string{
		"status":      "Status",
		"long_text":   "Long Text",
		"world_clock": "World Clock",
	} {
		if got := ColumnTypes[id]; got != name {
			t.Errorf("ColumnTypes[%q] = %q, want %q", id, got, name)
		}
	}
}
