package dateutil

import "testing"

func TestFindDMY(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"plain", "Received 3 May 2021 for review", "3 May 2021", true},
		{"ordinal suffix", "Accepted on the 21st June 2020", "21st June 2020", true},
		{"short month", "Published 5 Sep 2019 online", "5 Sep 2019", true},
		{"no month", "Received 2021-05-03", "", false},
		{"no year after month", "in May nowhere", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindDMY(tt.text)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		dmy  string
		want string
		ok   bool
	}{
		{"simple", "3 May 2021", "2021-05-03", true},
		{"ordinal", "21st June 2020", "2020-06-21", true},
		{"short month", "5 Sep 2019", "2019-09-05", true},
		{"single digit pads", "9 Jan 2000", "2000-01-09", true},
		{"bad month", "3 Notamonth 2021", "", false},
		{"out of range day", "32 May 2021", "", false},
		{"wrong field count", "May 2021", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.dmy)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeFreeText(t *testing.T) {
	got, ok := NormalizeFreeText("This article was received 3 May 2021 and published 10 June 2021.")
	if !ok {
		t.Fatal("expected ok")
	}
	if got != "2021-05-03" {
		t.Fatalf("got %q, want first DMY normalized to 2021-05-03", got)
	}

	if _, ok := NormalizeFreeText("no dates here at all"); ok {
		t.Fatal("expected ok=false when no date is present")
	}
}
