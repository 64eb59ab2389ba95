package commit

import "testing"

func TestDurationDays(t *testing.T) {
	tests := []struct {
		name      string
		received  string
		published string
		want      string
	}{
		{"same day", "2021-01-01", "2021-01-01", "0"},
		{"one week", "2021-01-01", "2021-01-08", "7"},
		{"spans year boundary", "2020-12-20", "2021-01-05", "16"},
		{"missing received", "", "2021-01-08", ""},
		{"missing published", "2021-01-01", "", ""},
		{"unparseable received", "not-a-date", "2021-01-08", ""},
		{"unparseable published", "2021-01-01", "not-a-date", ""},
		{"published before received", "2021-01-08", "2021-01-01", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := durationDays(tt.received, tt.published); got != tt.want {
				t.Errorf("durationDays(%q, %q) = %q, want %q", tt.received, tt.published, got, tt.want)
			}
		})
	}
}
