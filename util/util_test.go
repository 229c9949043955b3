package util

import (
	"reflect"
	"testing"
)

func TestContains(t *testing.T) {
	tests := []struct {
		name  string
		slice []int
		val   int
		want  bool
	}{
		{"found", []int{1, 2, 3}, 2, true},
		{"not found", []int{1, 2, 3}, 4, false},
		{"empty slice", []int{}, 1, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Contains(tc.slice, tc.val); got != tc.want {
				t.Errorf("Contains(%v, %d) = %v, want %v", tc.slice, tc.val, got, tc.want)
			}
		})
	}
}

func TestContainsStrings(t *testing.T) {
	if !Contains([]string{"a", "b", "c"}, "b") {
		t.Error("expected Contains to find 'b'")
	}
	if Contains([]string{"a", "b"}, "z") {
		t.Error("expected Contains to not find 'z'")
	}
}

func TestUnique(t *testing.T) {
	got := Unique([]string{"a", "b", "a", "c", "b"})
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Unique = %v, want %v", got, want)
	}
}

func TestUniqueEmpty(t *testing.T) {
	if got := Unique([]int{}); len(got) != 0 {
		t.Errorf("Unique of empty slice = %v, want empty", got)
	}
}

func TestCoalesce(t *testing.T) {
	if got := Coalesce("", "fallback", "other"); got != "fallback" {
		t.Errorf("Coalesce = %q, want fallback", got)
	}
	if got := Coalesce(0, 0); got != 0 {
		t.Errorf("Coalesce all-zero = %d, want 0", got)
	}
	if got := Coalesce(7, 3); got != 7 {
		t.Errorf("Coalesce = %d, want 7", got)
	}
}

func TestSanitizeEnvValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"quoted"`, "quoted"},
		{`'single'`, "single"},
		{"  padded  ", "padded"},
		{`plain`, "plain"},
		{`"`, `"`},
		{"", ""},
	}
	for _, tc := range tests {
		if got := SanitizeEnvValue(tc.in); got != tc.want {
			t.Errorf("SanitizeEnvValue(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
