package catalog

import "testing"

func TestDecodeTestType(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"single code", "K", "Knowledge & Skills"},
		{"two codes", "KP", "Knowledge & Skills, Personality & Behavior"},
		{"all codes", "ABCDEKPS", "Ability & Aptitude, Biodata & Situational Judgement, Competencies, Development & 360, Assessment Exercises, Knowledge & Skills, Personality & Behavior, Simulations"},
		{"unknown code passes through", "X", "X"},
		{"mixed known and unknown", "KX", "Knowledge & Skills, X"},
		{"whitespace skipped", " K P ", "Knowledge & Skills, Personality & Behavior"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeTestType(tt.code)
			if got != tt.want {
				t.Errorf("DecodeTestType(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestParseDurationMinutes(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"40 minutes", 40},
		{"Approximate Completion Time in minutes = 30", 30},
		{"Untimed", 0},
		{"", 0},
		{"max 15", 15},
	}

	for _, tt := range tests {
		got := ParseDurationMinutes(tt.in)
		if got != tt.want {
			t.Errorf("ParseDurationMinutes(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestEmbeddingText(t *testing.T) {
	a := &Assessment{Name: "Java 8", Description: "Core Java knowledge test."}
	want := "Java 8. Core Java knowledge test."
	if got := a.EmbeddingText(); got != want {
		t.Errorf("EmbeddingText() = %q, want %q", got, want)
	}
}
