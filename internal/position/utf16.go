// Package position converts byte offsets in Go strings into the line and
// UTF-16 column coordinates that JavaScript source maps are expressed in.
package position

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Position is a zero-based location in a text document. Column counts UTF-16
// code units, Offset counts bytes.
type Position struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
	Offset int `json:"offset" yaml:"offset"`
}

// ByteOffsetToUTF16 converts a byte offset to a UTF-16 code unit offset in a string.
// Characters above U+FFFF count as 2 units, matching JavaScript string indexing.
func ByteOffsetToUTF16(s string, byteOffset int) int {
	if byteOffset <= 0 {
		return 0
	}
	if byteOffset > len(s) {
		byteOffset = len(s)
	}

	utf16Count := 0
	currentOffset := 0

	for currentOffset < byteOffset {
		r, size := utf8.DecodeRuneInString(s[currentOffset:])
		if r == utf8.RuneError && size == 0 {
			break
		}

		// Stop if decoding this rune would cross the target byteOffset
		if currentOffset+size > byteOffset {
			break
		}

		utf16Count += utf16.RuneLen(r)
		currentOffset += size
	}
	return utf16Count
}

// CountLineBreaks returns the number of line breaks in s. A CRLF pair counts once.
func CountLineBreaks(s string) int {
	return strings.Count(s, "\n")
}

// Locate returns the position of byteOffset within text.
func Locate(text string, byteOffset int) Position {
	if byteOffset > len(text) {
		byteOffset = len(text)
	}
	if byteOffset < 0 {
		byteOffset = 0
	}
	before := text[:byteOffset]
	line := CountLineBreaks(before)
	lineStart := strings.LastIndexByte(before, '\n') + 1
	return Position{
		Line:   line,
		Column: ByteOffsetToUTF16(text[lineStart:], byteOffset-lineStart),
		Offset: byteOffset,
	}
}
