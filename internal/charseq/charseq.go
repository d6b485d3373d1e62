// Package charseq splits text into the user-perceived characters a parser
// walks over.
//
// A Sequence is built once per parse and never changes afterwards: index i
// always names the same character regardless of how many bytes it occupies
// in the UTF-8 input. Two segmentations are supported:
//
//   - Codepoints (default): one element per rune.
//   - Graphemes: one element per extended grapheme cluster (UAX #29), so a
//     base letter plus its combining marks, or a flag emoji, is one element.
//
// Invalid UTF-8 bytes are kept as single-byte elements so that joining the
// sequence always reproduces the input exactly.
package charseq

import (
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// Segmenter splits a string into characters.
type Segmenter interface {
	Segment(s string) []string
}

// SegmenterFunc adapts a function to the Segmenter interface.
type SegmenterFunc func(s string) []string

// Segment implements Segmenter.
func (f SegmenterFunc) Segment(s string) []string {
	return f(s)
}

// Codepoints splits on rune boundaries.
var Codepoints Segmenter = SegmenterFunc(splitCodepoints)

// Graphemes splits on extended grapheme cluster boundaries.
var Graphemes Segmenter = SegmenterFunc(splitGraphemes)

func splitCodepoints(s string) []string {
	if s == "" {
		return nil
	}
	chars := make([]string, 0, utf8.RuneCountInString(s))
	for i := 0; i < len(s); {
		_, size := utf8.DecodeRuneInString(s[i:])
		chars = append(chars, s[i:i+size])
		i += size
	}
	return chars
}

func splitGraphemes(s string) []string {
	if s == "" {
		return nil
	}
	var chars []string
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		chars = append(chars, g.Str())
	}
	return chars
}

// Form selects an optional Unicode normalization applied before splitting.
type Form int

const (
	// FormNone leaves the input untouched.
	FormNone Form = iota
	// FormNFC composes characters (é as one rune).
	FormNFC
	// FormNFD decomposes characters (e followed by a combining acute).
	FormNFD
)

// String returns the lower-case name used on the command line.
func (f Form) String() string {
	switch f {
	case FormNFC:
		return "nfc"
	case FormNFD:
		return "nfd"
	default:
		return "none"
	}
}

// ParseForm maps "none", "nfc" or "nfd" (case-insensitive) to a Form.
func ParseForm(name string) (Form, bool) {
	switch strings.ToLower(name) {
	case "", "none":
		return FormNone, true
	case "nfc":
		return FormNFC, true
	case "nfd":
		return FormNFD, true
	default:
		return FormNone, false
	}
}

// Normalize applies the form to s.
func (f Form) Normalize(s string) string {
	switch f {
	case FormNFC:
		return norm.NFC.String(s)
	case FormNFD:
		return norm.NFD.String(s)
	default:
		return s
	}
}

// Sequence is an immutable, indexable list of characters.
type Sequence struct {
	chars []string
}

// New segments s with seg. A nil seg means Codepoints.
func New(s string, seg Segmenter) Sequence {
	if seg == nil {
		seg = Codepoints
	}
	return Sequence{chars: seg.Segment(s)}
}

// Len returns the number of characters.
func (q Sequence) Len() int {
	return len(q.chars)
}

// At returns the character at index i, or false when i is out of range.
func (q Sequence) At(i int) (string, bool) {
	if i < 0 || i >= len(q.chars) {
		return "", false
	}
	return q.chars[i], true
}

// String joins the characters back into text.
func (q Sequence) String() string {
	return strings.Join(q.chars, "")
}
