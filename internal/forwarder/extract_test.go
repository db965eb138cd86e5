package forwarder

import "testing"

func TestExtractItemID(t *testing.T) {
	tests := []struct {
		name         string
		structuredID string
		text         string
		want         string
	}{
		{"structured id wins", "123", "pulse-999", "123"},
		{"pulse dash", "", "see pulse-456789 for details", "456789"},
		{"pulse underscore", "", "ref pulse_456789", "456789"},
		{"pulse bare", "", "Pulse456789 changed", "456789"},
		{"item_id equals", "", "item_id=789", "789"},
		{"item-id colon space", "", "item-id: 789", "789"},
		{"pulses url", "", "https://acme.monday.com/boards/1/pulses/555", "555"},
		{"no match", "", "nothing relevant here", ""},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractItemID(tt.structuredID, tt.text); got != tt.want {
				t.Errorf("extractItemID(%q, %q) = %q, want %q", tt.structuredID, tt.text, got, tt.want)
			}
		})
	}
}
