package models

import "testing"

func TestNormalizeKind(t *testing.T) {
	tests := []struct {
		raw  string
		want MediaKind
	}{
		{"movie", KindMovie},
		{"Movies", KindMovie},
		{"film", KindMovie},
		{"tv", KindSeries},
		{"SHOW", KindSeries},
		{"series", KindSeries},
		{"song", KindMusic},
		{"music", KindMusic},
		{"book", KindBook},
		{" books ", KindBook},
		{"podcast", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeKind(tt.raw); got != tt.want {
			t.Errorf("NormalizeKind(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		req  ResearchRequest
		want bool
	}{
		{"movie with title", ResearchRequest{Kind: KindMovie, Title: "Heat"}, true},
		{"movie without title", ResearchRequest{Kind: KindMovie}, false},
		{"movie blank title", ResearchRequest{Kind: KindMovie, Title: "   "}, false},
		{"series with title", ResearchRequest{Kind: KindSeries, Title: "The Wire"}, true},
		{"book with title only", ResearchRequest{Kind: KindBook, Title: "Dune"}, true},
		{"music with artist", ResearchRequest{Kind: KindMusic, Title: "Kid A", Artist: "Radiohead"}, true},
		{"music without artist", ResearchRequest{Kind: KindMusic, Title: "Kid A"}, false},
		{"no kind", ResearchRequest{Title: "Heat"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.Validate(); got != tt.want {
				t.Errorf("Validate() = %v, want %v", got, tt.want)
			}
		})
	}
}
