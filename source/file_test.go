package source

import "testing"

func TestFromStringNormalization(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantLen  int
		wantRune rune
		runePos  int
	}{
		{"plain", "var x;", 6, 'v', 0},
		{"bom skipped", "\uFEFFvar", 3, 'v', 0},
		{"cr stripped", "a\r\nb", 3, '\n', 1},
		{"empty", "", 0, 0, 0},
		{"past end", "ab", 2, 0, 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := FromString("test.pl0", tc.text)

			if f.Len() != tc.wantLen {
				t.Errorf("Len() = %d, want %d", f.Len(), tc.wantLen)
			}

			if r := f.RuneAt(tc.runePos); r != tc.wantRune {
				t.Errorf("RuneAt(%d) = %q, want %q", tc.runePos, r, tc.wantRune)
			}
		})
	}
}

func TestLineLookup(t *testing.T) {
	f := FromString("test.pl0", "program ex;\nvar x;\nbegin\n  x := 1\nend")

	tests := []struct {
		row  int
		want string
	}{
		{1, "program ex;"},
		{2, "var x;"},
		{3, "begin"},
		{4, "  x := 1"},
		{5, "end"},
		{0, ""},
		{6, ""},
	}

	for _, tc := range tests {
		if got := f.Line(tc.row); got != tc.want {
			t.Errorf("Line(%d) = %q, want %q", tc.row, got, tc.want)
		}
	}

	if f.NumLines() != 5 {
		t.Errorf("NumLines() = %d, want 5", f.NumLines())
	}
}

func TestLineWithTrailingNewline(t *testing.T) {
	f := FromString("test.pl0", "begin\nend\n")

	if got := f.Line(2); got != "end" {
		t.Errorf("Line(2) = %q, want %q", got, "end")
	}

	// the trailing newline opens a final empty line
	if got := f.Line(3); got != "" {
		t.Errorf("Line(3) = %q, want empty", got)
	}
}
