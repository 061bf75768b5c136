package models

import "testing"

func TestPortfolioIsEphemeral(t *testing.T) {
	if !(&Portfolio{}).IsEphemeral() {
		t.Error("zero-id portfolio should be ephemeral")
	}
	if (&Portfolio{ID: 12}).IsEphemeral() {
		t.Error("persisted portfolio reported as ephemeral")
	}
}

func TestPortfolioProjectIDs(t *testing.T) {
	p := &Portfolio{Projects: []Project{{ID: 3}, {ID: 1}, {ID: 7}}}
	got := p.ProjectIDs()
	want := []int64{3, 1, 7}
	if len(got) != len(want) {
		t.Fatalf("ProjectIDs: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ProjectIDs[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	if ids := (&Portfolio{}).ProjectIDs(); len(ids) != 0 {
		t.Errorf("empty portfolio: got %v", ids)
	}
}
