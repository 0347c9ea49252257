package scope

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  Kind
	}{
		{"", KindEmpty},
		{"   ", KindEmpty},
		{"12", KindCommits},
		{"1", KindCommits},
		{"0", KindInvalid},
		{"src/**/*.ts", KindGlob},
		{"*.go", KindGlob},
		{"file?.txt", KindGlob},
		{"src/[ab].ts", KindGlob},
		{"src/lib/foo.ts", KindFile},
		{"docs/README", KindFile},
		{"!!!", KindInvalid},
		{"foo", KindInvalid},
		{"-3", KindInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Parse(tt.input)
			if got.Kind != tt.want {
				t.Errorf("Parse(%q).Kind = %s, want %s", tt.input, got.Kind, tt.want)
			}
		})
	}
}

func TestParse_CommitCount(t *testing.T) {
	got := Parse("12")
	if got.Kind != KindCommits || got.Commits != 12 {
		t.Errorf("Parse(12) = %+v", got)
	}
}

func TestParse_FilePath(t *testing.T) {
	got := Parse("src/lib/foo.ts")
	if got.Kind != KindFile || got.Path != "src/lib/foo.ts" {
		t.Errorf("Parse = %+v", got)
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		path    string
		pattern string
		want    bool
	}{
		{"src/components/Button.tsx", "src/**/*.tsx", true},
		{"lib/Button.tsx", "src/**/*.tsx", false},
		{"src/Button.tsx", "src/**/*.tsx", true},
		{"src/a/b/c/Button.tsx", "src/**/*.tsx", true},
		{"main.go", "*.go", true},
		{"cmd/main.go", "*.go", false}, // * stays within one segment
		{"cmd/main.go", "**/*.go", true},
		{"main.go", "**/*.go", true},
		{"a.txt", "?.txt", true},
		{"ab.txt", "?.txt", false},
		{"deep/nested/x.go", "**", true},
	}
	for _, tt := range tests {
		if got := Match(tt.path, tt.pattern); got != tt.want {
			t.Errorf("Match(%q, %q) = %v, want %v", tt.path, tt.pattern, got, tt.want)
		}
	}
}
