// Package textutil provides byte- and line-level text utilities: binary
// detection, line counting, and the comment-aware line filter used by the
// duplication metric.
package textutil

import (
	"bytes"
	"strings"
)

// BinarySniffLength is the maximum number of bytes scanned for null-byte
// detection. Matches the heuristic used by Git and most editors.
const BinarySniffLength = 8000

// IsBinary returns true if data contains a null byte within the first
// BinarySniffLength bytes. Empty data is not binary.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}

	sniff := data
	if len(sniff) > BinarySniffLength {
		sniff = sniff[:BinarySniffLength]
	}

	return bytes.IndexByte(sniff, 0) >= 0
}

// CountLines returns the number of newline-delimited lines in source.
// A non-empty string without a trailing newline counts the last partial line.
// Returns 0 for an empty string.
func CountLines(source string) int {
	if len(source) == 0 {
		return 0
	}

	lines := strings.Count(source, "\n")

	if source[len(source)-1] != '\n' {
		lines++
	}

	return lines
}

// commentPrefixes covers the line-comment styles of the supported languages
// plus the opening of a block comment.
var commentPrefixes = [...]string{"//", "#", "/*"}

// IsCodeLine reports whether the trimmed line carries code: it is non-blank
// and does not start with a comment marker.
func IsCodeLine(trimmed string) bool {
	if trimmed == "" {
		return false
	}

	for _, p := range commentPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return false
		}
	}

	return true
}

// CodeLines returns the trimmed non-blank, non-comment lines of source in
// order of appearance.
func CodeLines(source string) []string {
	var out []string

	for _, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)
		if IsCodeLine(trimmed) {
			out = append(out, trimmed)
		}
	}

	return out
}
