package spec

import "testing"

func TestInferOptionType(t *testing.T) {
	cases := []struct {
		name        string
		flag        string
		description string
		takesValue  bool
		want        TypeHint
	}{
		{"path from description", "--output", "path to output file", true, TypePath},
		{"integer from description", "--retries", "number of retries", true, TypeInteger},
		{"boolean when no value", "-v", "enable verbose output", false, TypeBoolean},
		{"default string", "--color", "when to colorize", true, TypeString},
		{"path beats integer", "--log", "file size limit", true, TypePath},
		{"flag name contributes", "--config-file", "", true, TypePath},
		{"no value wins over keywords", "-a", "append to file", false, TypeBoolean},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := InferOptionType(tc.flag, tc.description, tc.takesValue)
			if got != tc.want {
				t.Fatalf("InferOptionType(%q, %q, %v) = %q, want %q",
					tc.flag, tc.description, tc.takesValue, got, tc.want)
			}
		})
	}
}

func TestInferPositionalType(t *testing.T) {
	cases := []struct {
		name string
		want TypeHint
	}{
		{"FILE", TypePath},
		{"SOURCE", TypePath},
		{"DEST", TypePath},
		{"COUNT", TypeInteger},
		{"PORT", TypeInteger},
		{"PATTERN", TypeString},
		{"NAME", TypeString},
	}
	for _, tc := range cases {
		if got := InferPositionalType(tc.name); got != tc.want {
			t.Fatalf("InferPositionalType(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestInferDeterminism(t *testing.T) {
	// Same input must always map to the same hint.
	for i := 0; i < 10; i++ {
		if got := InferOptionType("--block-size", "size in bytes", true); got != TypeInteger {
			t.Fatalf("run %d: got %q, want %q", i, got, TypeInteger)
		}
	}
}
