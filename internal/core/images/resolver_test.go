package images

import "testing"

func TestResolve(t *testing.T) {
	r := NewResolver([]Placeholder{{ID: "tea", URL: "https://cdn.example/tea.jpg", Hint: "tea"}})

	tests := []struct {
		name     string
		imageID  string
		imageURL string
		want     string
	}{
		{"known id", "tea", "", "https://cdn.example/tea.jpg"},
		{"blob upload wins", "tea", "blob:http://localhost/abc", "blob:http://localhost/abc"},
		{"remote url wins", "tea", "https://uploads.example/x.png", "https://uploads.example/x.png"},
		{"unknown id falls back", "coffee", "coffee.png", "coffee.png"},
		{"nothing", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Resolve(tt.imageID, tt.imageURL); got != tt.want {
				t.Errorf("Resolve(%q, %q) = %q, want %q", tt.imageID, tt.imageURL, got, tt.want)
			}
		})
	}
}

func TestHint(t *testing.T) {
	r := NewDefaultResolver()

	if got := r.Hint("samosa"); got != "samosa" {
		t.Errorf("expected samosa hint, got %q", got)
	}
	if got := r.Hint("unknown"); got != "food" {
		t.Errorf("expected fallback hint, got %q", got)
	}
}
