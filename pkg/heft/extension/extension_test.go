package extension

import (
	"reflect"
	"testing"
)

func TestNormalizeOne(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  string
		valid bool
	}{
		{name: "plain lowercase", raw: "log", want: "log", valid: true},
		{name: "uppercase", raw: "LOG", want: "log", valid: true},
		{name: "leading dot and trailing space", raw: ".LOG ", want: "log", valid: true},
		{name: "surrounding whitespace", raw: "  ts\t", want: "ts", valid: true},
		{name: "compound extension", raw: "tar.gz", want: "tar.gz", valid: true},
		{name: "digits and hyphen", raw: "c-99", want: "c-99", valid: true},
		{name: "empty", raw: "", valid: false},
		{name: "only a dot", raw: ".", valid: false},
		{name: "only whitespace", raw: "   ", valid: false},
		{name: "invalid characters", raw: "c++", valid: false},
		{name: "embedded space", raw: "my ext", valid: false},
		{name: "path separator", raw: "a/b", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeOne(tt.raw)
			if ok != tt.valid {
				t.Fatalf("NormalizeOne(%q) valid = %v, want %v", tt.raw, ok, tt.valid)
			}
			if ok && got != tt.want {
				t.Errorf("NormalizeOne(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeOneCanonicalVariants(t *testing.T) {
	// All casing/dot/whitespace variants collapse to one canonical form.
	variants := []string{".LOG ", "log", "LOG", " .log", ".log"}
	for _, v := range variants {
		got, ok := NormalizeOne(v)
		if !ok || got != "log" {
			t.Errorf("NormalizeOne(%q) = (%q, %v), want (\"log\", true)", v, got, ok)
		}
	}
}

func TestNormalizeMany(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want []string
	}{
		{
			name: "sorted and de-duplicated",
			raw:  []string{"TXT", "md", ".txt", "yaml", "md"},
			want: []string{"md", "txt", "yaml"},
		},
		{
			name: "invalid entries dropped",
			raw:  []string{"go", "", "c++", ".ts"},
			want: []string{"go", "ts"},
		},
		{
			name: "empty input",
			raw:  nil,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeMany(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeMany(%v) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "/src/app.ts", want: "ts"},
		{path: "/src/APP.TS", want: "ts"},
		{path: "/src/archive.tar.gz", want: "gz"},
		{path: "/repo/.gitignore", want: "gitignore"},
		{path: "/repo/Makefile", want: ""},
		{path: "trailing.", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := FromPath(tt.path); got != tt.want {
				t.Errorf("FromPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestSetContains(t *testing.T) {
	s := NewSet([]string{"md", ".TXT", "yaml"})

	if !s.Contains("txt") {
		t.Error("Contains(\"txt\") = false, want true")
	}
	if !s.Contains("TXT") {
		t.Error("Contains is case-sensitive, want case-insensitive")
	}
	if s.Contains("go") {
		t.Error("Contains(\"go\") = true, want false")
	}
	if (Set)(nil).Contains("md") {
		t.Error("nil set should contain nothing")
	}
}
