package snowball

import (
	"testing"

	"litsieve/internal/sources"
)

func TestDateWindowAllows(t *testing.T) {
	tests := []struct {
		name   string
		window DateWindow
		date   string
		want   bool
	}{
		{"open window", DateWindow{}, "1990-01-01", true},
		{"inside", DateWindow{From: "2020-01-01", To: "2023-12-31"}, "2021-06-15", true},
		{"before from", DateWindow{From: "2020-01-01"}, "2019-12-31", false},
		{"after to", DateWindow{To: "2023-12-31"}, "2024-01-01", false},
		{"on from bound", DateWindow{From: "2020-01-01"}, "2020-01-01", true},
		{"on to bound", DateWindow{To: "2023-12-31"}, "2023-12-31", true},
		{"year precision to", DateWindow{To: "2023"}, "2023-11-05", true},
		{"year precision past to", DateWindow{To: "2022"}, "2023-01-01", false},
		{"year precision date on from bound", DateWindow{From: "2020-01-01"}, "2020", true},
		{"year precision date before from", DateWindow{From: "2020-01-01"}, "2019", false},
		{"month precision date on from bound", DateWindow{From: "2020-03-01"}, "2020-03", true},
		{"month precision date before from", DateWindow{From: "2020-03-01"}, "2020-02", false},
		{"unknown date passes", DateWindow{From: "2020-01-01", To: "2020-12-31"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.window.Allows(tt.date); got != tt.want {
				t.Fatalf("Allows(%q) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestFilterByWindow(t *testing.T) {
	batch := []sources.Candidate{
		{Title: "Old", PublicationDate: "2015-01-01"},
		{Title: "In Range", PublicationDate: "2022-03-03"},
		{Title: "Undated"},
	}
	kept := filterByWindow(batch, DateWindow{From: "2020-01-01"})
	if len(kept) != 2 || kept[0].Title != "In Range" || kept[1].Title != "Undated" {
		t.Fatalf("unexpected survivors %+v", kept)
	}
}

func TestStopPolicyRounds(t *testing.T) {
	policy := StopPolicy{Mode: StopModeRounds, MaxRounds: 2}
	if stop, _ := policy.ShouldStop(1, 100, 5); stop {
		t.Fatal("should not stop before configured rounds")
	}
	stop, reason := policy.ShouldStop(2, 100, 5)
	if !stop || reason == "" {
		t.Fatalf("expected stop with reason at round limit, got %v %q", stop, reason)
	}
}

func TestStopPolicyThreshold(t *testing.T) {
	policy := StopPolicy{Mode: StopModeThreshold, MaxRawCandidates: 500, MaxIncluded: 30}
	if stop, _ := policy.ShouldStop(7, 499, 29); stop {
		t.Fatal("should not stop below both ceilings")
	}
	if stop, _ := policy.ShouldStop(7, 500, 0); !stop {
		t.Fatal("expected stop at raw candidate ceiling")
	}
	if stop, _ := policy.ShouldStop(7, 0, 30); !stop {
		t.Fatal("expected stop at include ceiling")
	}
}
