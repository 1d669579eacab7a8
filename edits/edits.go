// Package edits derives the edit descriptors the token stores consume from
// plain old/new text pairs. Columns and lengths count runes; lines are
// separated by '\n'.
package edits

import (
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/zjrosen/tokstore/tokens"
)

// Edit describes one committed buffer edit: the text in Range was replaced
// by NewText. The derived fields are what the stores' AcceptEdit methods
// take: how many newline sequences the replacement contains, the rune
// lengths of its first and last lines, and its first character.
type Edit struct {
	Range           tokens.Range
	NewText         string
	EOLCount        int
	FirstLineLength int
	LastLineLength  int
	FirstChar       rune // 0 when NewText is empty
}

// Describe builds the descriptor for replacing the text in r with newText.
func Describe(r tokens.Range, newText string) Edit {
	eolCount := strings.Count(newText, "\n")
	first := newText
	last := newText
	if eolCount > 0 {
		first = newText[:strings.IndexByte(newText, '\n')]
		last = newText[strings.LastIndexByte(newText, '\n')+1:]
	}
	var firstChar rune
	if newText != "" {
		firstChar, _ = utf8.DecodeRuneInString(newText)
	}
	return Edit{
		Range:           r,
		NewText:         newText,
		EOLCount:        eolCount,
		FirstLineLength: utf8.RuneCountInString(first),
		LastLineLength:  utf8.RuneCountInString(last),
		FirstChar:       firstChar,
	}
}

// FromTexts diffs two buffer contents and returns the edits that turn
// oldText into newText, in application order. Each edit's coordinates are
// relative to the buffer with all preceding edits already applied, which is
// exactly the order the stores expect.
func FromTexts(oldText, newText string) []Edit {
	if oldText == newText {
		return nil
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldText, newText, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var out []Edit
	line, col := 1, 1
	for i := 0; i < len(diffs); i++ {
		d := diffs[i]
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			line, col = advance(line, col, d.Text)

		case diffmatchpatch.DiffDelete:
			endLine, endCol := advance(line, col, d.Text)
			// A delete directly followed by an insert is one replacement.
			insert := ""
			if i+1 < len(diffs) && diffs[i+1].Type == diffmatchpatch.DiffInsert {
				insert = diffs[i+1].Text
				i++
			}
			out = append(out, Describe(tokens.NewRange(line, col, endLine, endCol), insert))
			line, col = advance(line, col, insert)

		case diffmatchpatch.DiffInsert:
			out = append(out, Describe(tokens.NewRange(line, col, line, col), d.Text))
			line, col = advance(line, col, d.Text)
		}
	}
	return out
}

// advance returns the position reached by walking text from (line, col).
func advance(line, col int, text string) (int, int) {
	newlines := strings.Count(text, "\n")
	if newlines == 0 {
		return line, col + utf8.RuneCountInString(text)
	}
	last := text[strings.LastIndexByte(text, '\n')+1:]
	return line + newlines, 1 + utf8.RuneCountInString(last)
}
