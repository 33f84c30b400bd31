package main

import "testing"

func TestParseSizeValid(t *testing.T) {
	tests := []struct {
		input string
		want  uint64
	}{
		{"1234", 1234},
		{"0", 0},
		{"1K", 1000},
		{"1KB", 1000},
		{"1KiB", 1024},
		{"1MiB", 1048576},
		{"1GiB", 1073741824},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseSize(tt.input)
			if err != nil {
				t.Fatalf("parseSize(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("parseSize(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseSizeInvalid(t *testing.T) {
	for _, input := range []string{"invalid", "abc", "1.5.5"} {
		t.Run(input, func(t *testing.T) {
			if _, err := parseSize(input); err == nil {
				t.Errorf("parseSize(%q) should return error", input)
			}
		})
	}
}

func TestValidateGlobPatternValid(t *testing.T) {
	for _, pattern := range []string{"*.parquet.zst", "**/*.parquet.zst", "file?.txt", "[abc].txt"} {
		t.Run(pattern, func(t *testing.T) {
			if err := validateGlobPattern(pattern); err != nil {
				t.Errorf("validateGlobPattern(%q) unexpected error: %v", pattern, err)
			}
		})
	}
}

func TestValidateGlobPatternInvalid(t *testing.T) {
	for _, pattern := range []string{"[invalid", "[abc"} {
		t.Run(pattern, func(t *testing.T) {
			if err := validateGlobPattern(pattern); err == nil {
				t.Errorf("validateGlobPattern(%q) expected error, got nil", pattern)
			}
		})
	}
}
