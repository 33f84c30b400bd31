// Package diffprint renders a colored, line-oriented diff of two duplicate
// candidate texts to stdout. It is a direct analogue of the reference
// tool's line-diff viewer: deleted lines in red, inserted lines in green,
// unchanged lines dimmed.
package diffprint

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	delStyle   = color.New(color.FgRed, color.Bold)
	insStyle   = color.New(color.FgGreen, color.Bold)
	equalStyle = color.New(color.Faint)
)

// Print writes a unified line diff of old and new to stdout, preceded by a
// horizontal rule. A replaced line (a delete immediately followed by an
// insert) additionally gets its changed words highlighted inline, the way
// the reference tool's `similar::iter_inline_changes` highlights sub-line
// changes rather than only marking whole lines changed.
func Print(old, new string) {
	fmt.Println(strings.Repeat("-", 80))

	oldLines := splitLines(old)
	newLines := splitLines(new)
	ops := diffLines(oldLines, newLines)

	for i := 0; i < len(ops); i++ {
		op := ops[i]
		switch op.kind {
		case opEqual:
			equalStyle.Printf(" | %s\n", op.text)
		case opDelete:
			if i+1 < len(ops) && ops[i+1].kind == opInsert {
				printInlineChange(op.text, ops[i+1].text)
				i++
				continue
			}
			delStyle.Printf("-| %s\n", op.text)
		case opInsert:
			insStyle.Printf("+| %s\n", op.text)
		}
	}
}

// printInlineChange renders a replaced line pair with only the changed
// words highlighted; the words both lines share are printed without color.
func printInlineChange(oldLine, newLine string) {
	oldWords := strings.Fields(oldLine)
	newWords := strings.Fields(newLine)

	delStyle.Print("-| ")
	for _, w := range diffWords(oldWords, newWords) {
		switch w.kind {
		case opEqual:
			fmt.Print(w.text + " ")
		case opDelete:
			delStyle.Print(w.text + " ")
		}
	}
	fmt.Println()

	insStyle.Print("+| ")
	for _, w := range diffWords(oldWords, newWords) {
		switch w.kind {
		case opEqual:
			fmt.Print(w.text + " ")
		case opInsert:
			insStyle.Print(w.text + " ")
		}
	}
	fmt.Println()
}

// diffWords is diffLines at word granularity, used to find the changed
// sub-span within a pair of lines the line-level diff already paired up.
func diffWords(a, b []string) []op {
	return diffLines(a, b)
}

// splitLines splits text into lines, preserving a trailing empty line for
// text ending in "\n" the way strings.Split over "\n" naturally does, but
// dropping one spurious trailing blank element when the text is empty.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

type opKind int

const (
	opEqual opKind = iota
	opDelete
	opInsert
)

type op struct {
	kind opKind
	text string
}

// diffLines computes a minimal line-level edit script between a and b using
// the classic longest-common-subsequence backtrack, the same algorithm
// family underlying line-oriented diff tools.
func diffLines(a, b []string) []op {
	n, m := len(a), len(b)
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	var ops []op
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case a[i] == b[j]:
			ops = append(ops, op{opEqual, a[i]})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			ops = append(ops, op{opDelete, a[i]})
			i++
		default:
			ops = append(ops, op{opInsert, b[j]})
			j++
		}
	}
	for ; i < n; i++ {
		ops = append(ops, op{opDelete, a[i]})
	}
	for ; j < m; j++ {
		ops = append(ops, op{opInsert, b[j]})
	}
	return ops
}
