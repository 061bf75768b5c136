package models

import "testing"

func strPtr(s string) *string { return &s }

func TestUserFullName(t *testing.T) {
	tests := []struct {
		name  string
		first string
		last  string
		want  string
	}{
		{name: "both parts", first: "Ada", last: "Lovelace", want: "Ada Lovelace"},
		{name: "first only", first: "Ada", want: "Ada"},
		{name: "last only", last: "Lovelace", want: "Lovelace"},
		{name: "neither", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{FirstName: tt.first, LastName: tt.last}
			if got := u.FullName(); got != tt.want {
				t.Errorf("FullName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserInitials(t *testing.T) {
	tests := []struct {
		name  string
		first string
		last  string
		want  string
	}{
		{name: "ascii", first: "ada", last: "lovelace", want: "AL"},
		{name: "unicode", first: "Élodie", last: "Øster", want: "ÉØ"},
		{name: "blank last", first: "Grace", last: "  ", want: "G"},
		{name: "empty", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{FirstName: tt.first, LastName: tt.last}
			if got := u.Initials(); got != tt.want {
				t.Errorf("Initials() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserImageURL(t *testing.T) {
	u := &User{AvatarURL: strPtr("https://cdn.example/a.jpg")}

	if got := u.ImageURL(MediaTargetAvatar); got != "https://cdn.example/a.jpg" {
		t.Errorf("avatar: got %q", got)
	}
	if got := u.ImageURL(MediaTargetBanner); got != "" {
		t.Errorf("banner: got %q, want empty", got)
	}
	if got := u.ImageURL("cover"); got != "" {
		t.Errorf("unknown target: got %q, want empty", got)
	}
}
