package names

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple lowercase",
			input:    "juan",
			expected: "JUAN",
		},
		{
			name:     "accented name",
			input:    "Juan Pérez",
			expected: "JUAN PEREZ",
		},
		{
			name:     "surrounding whitespace",
			input:    "   Juan   ",
			expected: "JUAN",
		},
		{
			name:     "hyphenated with accent",
			input:    "María-José",
			expected: "MARIA-JOSE",
		},
		{
			name:     "whitespace and accents combined",
			input:    " josé pérez ",
			expected: "JOSE PEREZ",
		},
		{
			name:     "enye folds to plain N",
			input:    "Nuñez",
			expected: "NUNEZ",
		},
		{
			name:     "already normalized",
			input:    "JUAN PEREZ",
			expected: "JUAN PEREZ",
		},
		{
			name:     "inner whitespace preserved",
			input:    "Ana  María",
			expected: "ANA  MARIA",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "whitespace only",
			input:    "   ",
			expected: "",
		},
		{
			name:     "umlaut",
			input:    "Müller",
			expected: "MULLER",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Juan Pérez",
		"  maría-josé  ",
		"ÁÉÍÓÚ Ñ",
		"plain name",
	}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}
