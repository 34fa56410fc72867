// Package stringtest provides helpers for constructing expected multi-line
// test output with explicit line endings.
package stringtest

import "strings"

// JoinLF joins multiple strings with LF line endings.
// Use this to construct expected test output with explicit line endings.
//
// Example:
//
//	want := stringtest.JoinLF(
//		"line1",
//		"line2",
//		"line3",
//	) // -> "line1\nline2\nline3"
func JoinLF(ss ...string) string {
	var sb strings.Builder
	for i, s := range ss {
		if i > 0 {
			sb.WriteByte('\n')
		}

		sb.WriteString(s)
	}

	return sb.String()
}

// GridLF builds rows lines of cell repeated cols times, each line terminated
// by LF. Use this to construct expected frame-shaped output.
//
// Example:
//
//	want := stringtest.GridLF("#", 3, 2) // -> "###\n###\n"
func GridLF(cell string, cols, rows int) string {
	var sb strings.Builder

	line := strings.Repeat(cell, cols)
	for i := 0; i < rows; i++ {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	return sb.String()
}
