package textfilter

import "testing"

func TestClean(t *testing.T) {
	f := New()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"clean text untouched", "Write the quarterly report", "Write the quarterly report"},
		{"lowercase word", "finish this damn report", "finish this dang report"},
		{"uppercase word", "DAMN deadlines", "DANG deadlines"},
		{"title case word", "Damn deadlines", "Dang deadlines"},
		{"word boundary respected", "classic assignment", "classic assignment"},
		{"multiple words", "this shit is hell", "this shoot is heck"},
		{"longer word wins its own rule", "what an asshole", "what an jerk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Clean(tt.input); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanMixedCase(t *testing.T) {
	f := New()
	got := f.Clean("dAmN it")
	if got == "dAmN it" {
		t.Errorf("mixed-case word not filtered: %q", got)
	}
}
