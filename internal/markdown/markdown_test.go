// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package markdown

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
		absent   string
	}{
		{"emphasis", "I *love* Go", "<em>love</em>", ""},
		{"heading", "# About me", "<h1", ""},
		{"list", "- one\n- two", "<li>one</li>", ""},
		{"raw html dropped", "<script>alert(1)</script>", "", "<script>"},
		{"strikethrough", "~~old~~", "<del>old</del>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToHTML(tt.input)
			if err != nil {
				t.Fatalf("ToHTML: %v", err)
			}
			if tt.contains != "" && !strings.Contains(got, tt.contains) {
				t.Errorf("ToHTML(%q) = %q, want it to contain %q", tt.input, got, tt.contains)
			}
			if tt.absent != "" && strings.Contains(got, tt.absent) {
				t.Errorf("ToHTML(%q) = %q, must not contain %q", tt.input, got, tt.absent)
			}
		})
	}
}

func TestToHTMLBlank(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t"} {
		got, err := ToHTML(in)
		if err != nil || got != "" {
			t.Errorf("ToHTML(%q) = %q, %v; want empty", in, got, err)
		}
	}
}
