package models

import "testing"

// TestTemplateIDsOrder verifies the catalog order and that the returned
// slice is a defensive copy.
func TestTemplateIDsOrder(t *testing.T) {
	ids := TemplateIDs()
	if len(ids) != 17 {
		t.Fatalf("TemplateIDs: got %d identifiers, want 17", len(ids))
	}
	if ids[0] != TemplateModern {
		t.Errorf("first template: got %q, want %q", ids[0], TemplateModern)
	}
	if ids[len(ids)-1] != TemplateDark {
		t.Errorf("last template: got %q, want %q", ids[len(ids)-1], TemplateDark)
	}

	ids[0] = "tampered"
	if TemplateIDs()[0] != TemplateModern {
		t.Error("mutating the returned slice changed the catalog order")
	}
}

// TestTemplateIDsDistinct ensures all identifiers are unique and non-empty.
func TestTemplateIDsDistinct(t *testing.T) {
	seen := make(map[TemplateID]bool)
	for _, id := range TemplateIDs() {
		if id == "" {
			t.Error("empty TemplateID in catalog")
		}
		if seen[id] {
			t.Errorf("duplicate TemplateID value: %q", id)
		}
		seen[id] = true
	}
}

func TestTemplateIDValid(t *testing.T) {
	tests := []struct {
		id   TemplateID
		want bool
	}{
		{id: TemplateModern, want: true},
		{id: TemplateGlassmorphism, want: true},
		{id: TemplateDark, want: true},
		{id: "", want: false},
		{id: "Modern", want: false},
		{id: "brutalist", want: false},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			if got := tt.id.Valid(); got != tt.want {
				t.Errorf("TemplateID(%q).Valid() = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}
