package source

import (
	"io/ioutil"
	"os"
	"strings"
)

// File is a fully decoded source file.  The lexer walks it rune by rune and
// the reporter pulls whole lines from it when rendering diagnostics.
type File struct {
	// Path is the path the file was opened from, as the user gave it.
	Path string

	runes []rune

	// lines[i] is the index into runes of the first rune of line i+1
	lines []int
}

// Open reads and decodes the file at path.  A UTF-8 byte order mark is
// skipped and carriage returns are dropped so positions count only visible
// characters and newlines.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buff, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, err
	}

	return FromString(path, string(buff)), nil
}

// FromString builds a File from in-memory text; tests use it to avoid
// touching the file system.
func FromString(path, text string) *File {
	text = strings.TrimPrefix(text, "\uFEFF")

	f := &File{Path: path}
	f.lines = append(f.lines, 0)
	for _, r := range text {
		if r == '\r' {
			continue
		}

		f.runes = append(f.runes, r)
		if r == '\n' {
			f.lines = append(f.lines, len(f.runes))
		}
	}

	return f
}

// Len returns the number of runes in the file.
func (f *File) Len() int {
	return len(f.runes)
}

// RuneAt returns the rune at position pos, or 0 when pos is outside the
// file.  The lexer relies on the 0 sentinel to detect end of input.
func (f *File) RuneAt(pos int) rune {
	if pos < 0 || pos >= len(f.runes) {
		return 0
	}

	return f.runes[pos]
}

// NumLines returns the number of lines in the file.
func (f *File) NumLines() int {
	return len(f.lines)
}

// Line returns the 1-based line row without its trailing newline, or the
// empty string when row is out of range.
func (f *File) Line(row int) string {
	if row < 1 || row > len(f.lines) {
		return ""
	}

	start := f.lines[row-1]
	end := len(f.runes)
	if row < len(f.lines) {
		end = f.lines[row] - 1
	}

	return string(f.runes[start:end])
}
