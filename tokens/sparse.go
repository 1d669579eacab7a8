package tokens

// SparseMultilineTokens stores a contiguous span of individually positioned
// tokens, e.g. one semantic-provider result. Each token is a quadruple
// (deltaLine, startCharacter, endCharacter, metadata) where deltaLine is
// relative to the block's start line, so relocating the whole block is a
// single base adjustment. Tokens are ordered by (deltaLine, startCharacter).
type SparseMultilineTokens struct {
	startLineNumber int
	endLineNumber   int
	tokens          []uint32
}

// NewSparseMultilineTokens wraps a quadruple-encoded token array starting at
// the given 1-based line number. The array is not copied.
func NewSparseMultilineTokens(startLineNumber int, tokens []uint32) *SparseMultilineTokens {
	t := &SparseMultilineTokens{
		startLineNumber: startLineNumber,
		tokens:          tokens,
	}
	t.endLineNumber = t.startLineNumber + t.maxDeltaLine()
	return t
}

// StartLineNumber returns the 1-based line the block starts on.
func (t *SparseMultilineTokens) StartLineNumber() int {
	return t.startLineNumber
}

// EndLineNumber returns the 1-based line the block's last token is on.
func (t *SparseMultilineTokens) EndLineNumber() int {
	return t.endLineNumber
}

// IsEmpty reports whether the block holds no tokens.
func (t *SparseMultilineTokens) IsEmpty() bool {
	return len(t.tokens) == 0
}

// TokenCount returns the number of tokens in the block.
func (t *SparseMultilineTokens) TokenCount() int {
	return len(t.tokens) >> 2
}

func (t *SparseMultilineTokens) maxDeltaLine() int {
	if len(t.tokens) == 0 {
		return 0
	}
	return int(t.tokens[len(t.tokens)-4])
}

// SparseLineTokens is a zero-copy view over the run of quadruples sharing
// one delta line.
type SparseLineTokens struct {
	tokens []uint32
}

// Count returns the number of tokens on the line.
func (l SparseLineTokens) Count() int {
	return len(l.tokens) >> 2
}

// GetStartCharacter returns the start offset of token i within its line.
func (l SparseLineTokens) GetStartCharacter(i int) int {
	return int(l.tokens[(i<<2)+1])
}

// GetEndCharacter returns the end offset of token i within its line.
func (l SparseLineTokens) GetEndCharacter(i int) int {
	return int(l.tokens[(i<<2)+2])
}

// GetMetadata returns the metadata of token i.
func (l SparseLineTokens) GetMetadata(i int) Metadata {
	return Metadata(l.tokens[(i<<2)+3])
}

// GetLineTokens returns the tokens on the given 1-based line, located by
// binary search over the delta-line column and widened outward to cover the
// whole run sharing that line. The second result is false when the block has
// no token on the line.
func (t *SparseMultilineTokens) GetLineTokens(lineNumber int) (SparseLineTokens, bool) {
	if lineNumber < t.startLineNumber || lineNumber > t.endLineNumber {
		return SparseLineTokens{}, false
	}
	deltaLine := lineNumber - t.startLineNumber

	low, high, ok := findQuadRun(t.tokens, deltaLine)
	if !ok {
		return SparseLineTokens{}, false
	}
	return SparseLineTokens{tokens: t.tokens[low<<2 : (high+1)<<2]}, true
}

// findQuadRun binary-searches a quadruple array for any entry with the given
// delta line, then widens left and right to the boundaries of the contiguous
// run sharing it.
func findQuadRun(tokens []uint32, deltaLine int) (low, high int, ok bool) {
	count := len(tokens) >> 2
	low, high = 0, count-1
	for low < high {
		mid := low + (high-low)/2
		midLine := int(tokens[mid<<2])
		if midLine < deltaLine {
			low = mid + 1
		} else if midLine > deltaLine {
			high = mid - 1
			if low > high {
				return 0, 0, false
			}
		} else {
			low, high = mid, mid
			for low > 0 && int(tokens[(low-1)<<2]) == deltaLine {
				low--
			}
			for high+1 < count && int(tokens[(high+1)<<2]) == deltaLine {
				high++
			}
			return low, high, true
		}
	}
	if low >= count || int(tokens[low<<2]) != deltaLine {
		return 0, 0, false
	}
	return low, low, true
}

// AcceptEdit adjusts the block for one committed buffer edit: the text in r
// was replaced by text with eolCount newline sequences, whose first line is
// firstLineLength characters long and last line lastLineLength characters
// long, and whose first character is firstChar. firstChar feeds the
// single-word-character fast path during insertion.
func (t *SparseMultilineTokens) AcceptEdit(r Range, eolCount, firstLineLength, lastLineLength int, firstChar rune) {
	t.acceptDeleteRange(r)
	t.acceptInsertText(Position{LineNumber: r.StartLineNumber, Column: r.StartColumn}, eolCount, firstLineLength, lastLineLength, firstChar)
	t.endLineNumber = t.startLineNumber + t.maxDeltaLine()
}

func (t *SparseMultilineTokens) acceptDeleteRange(r Range) {
	if r.IsEmpty() {
		return
	}

	firstLineIndex := r.StartLineNumber - t.startLineNumber
	lastLineIndex := r.EndLineNumber - t.startLineNumber

	if lastLineIndex < 0 {
		// The deletion is entirely above the block.
		deletedLines := r.EndLineNumber - r.StartLineNumber
		t.startLineNumber -= deletedLines
		return
	}

	maxDeltaLine := t.maxDeltaLine()
	if firstLineIndex >= maxDeltaLine+1 {
		// The deletion is entirely below the block.
		return
	}

	if firstLineIndex < 0 && lastLineIndex >= maxDeltaLine+1 {
		// The deletion swallows the whole block.
		t.startLineNumber = 0
		t.tokens = t.tokens[:0]
		return
	}

	if firstLineIndex < 0 {
		// The deletion starts above the block and reaches into it. The
		// block's surviving first line is merged onto the deletion's start
		// line, so tokens that end up there shift right past the text that
		// precedes the deletion on that line.
		deletedBefore := -firstLineIndex
		t.startLineNumber -= deletedBefore
		t.deleteTokenRange(r.StartColumn-1, 0, 0, lastLineIndex, r.EndColumn-1)
	} else {
		t.deleteTokenRange(0, firstLineIndex, r.StartColumn-1, lastLineIndex, r.EndColumn-1)
	}
}

// deletionCase classifies one token's position relative to a deleted range.
// Exactly one case applies to every well-formed token/range pair; the
// property tests fuzz this exhaustively.
type deletionCase int

const (
	deleteCaseBefore        deletionCase = iota // entirely before the range
	deleteCaseOverlapsStart                     // starts before the range, reaches into it
	deleteCaseAtStart                           // starts exactly at the range start
	deleteCaseInside                            // starts inside the range
	deleteCaseAfterLine                         // starts on a line past the range's end line
	deleteCaseAfterOnEnd                        // starts on the end line, at or past the range end
	deleteCaseImpossible
)

func classifyDeletion(tokenDeltaLine, tokenStart, tokenEnd, startDeltaLine, startChar, endDeltaLine, endChar int) deletionCase {
	switch {
	case tokenDeltaLine < startDeltaLine,
		tokenDeltaLine == startDeltaLine && tokenEnd <= startChar:
		return deleteCaseBefore
	case tokenDeltaLine == startDeltaLine && tokenStart < startChar:
		return deleteCaseOverlapsStart
	case tokenDeltaLine == startDeltaLine && tokenStart == startChar:
		return deleteCaseAtStart
	case tokenDeltaLine < endDeltaLine,
		tokenDeltaLine == endDeltaLine && tokenStart < endChar:
		return deleteCaseInside
	case tokenDeltaLine > endDeltaLine:
		return deleteCaseAfterLine
	case tokenDeltaLine == endDeltaLine && tokenStart >= endChar:
		return deleteCaseAfterOnEnd
	default:
		return deleteCaseImpossible
	}
}

// deleteTokenRange removes the character range
// [startDeltaLine:startChar, endDeltaLine:endChar) from the token array,
// clipping, dropping and shifting tokens as needed.
// horizontalShiftForFirstLineTokens is applied to tokens landing on delta
// line 0 when the block's own first line is being merged leftward.
func (t *SparseMultilineTokens) deleteTokenRange(horizontalShiftForFirstLineTokens, startDeltaLine, startChar, endDeltaLine, endChar int) {
	tokens := t.tokens
	tokenCount := len(tokens) >> 2
	deletedLines := endDeltaLine - startDeltaLine
	deletedChars := endChar - startChar
	newTokenCount := 0
	hasDeletedTokens := false

	for i := 0; i < tokenCount; i++ {
		src := i << 2
		tokenDeltaLine := int(tokens[src])
		tokenStart := int(tokens[src+1])
		tokenEnd := int(tokens[src+2])
		tokenMetadata := tokens[src+3]

		switch classifyDeletion(tokenDeltaLine, tokenStart, tokenEnd, startDeltaLine, startChar, endDeltaLine, endChar) {
		case deleteCaseBefore:
			// Nothing moves ahead of the deletion.

		case deleteCaseOverlapsStart:
			if tokenDeltaLine == endDeltaLine && tokenEnd > endChar {
				// The deletion is strictly inside the token.
				tokenEnd -= deletedChars
			} else {
				tokenEnd = startChar
			}

		case deleteCaseAtStart:
			if tokenDeltaLine == endDeltaLine && tokenEnd > endChar {
				tokenEnd -= deletedChars
			} else {
				hasDeletedTokens = true
				continue
			}

		case deleteCaseInside:
			if tokenDeltaLine == endDeltaLine && tokenEnd > endChar {
				// The token's tail survives and lands at the deletion point.
				tokenDeltaLine = startDeltaLine
				remaining := tokenEnd - endChar
				tokenStart = startChar
				tokenEnd = tokenStart + remaining
			} else {
				hasDeletedTokens = true
				continue
			}

		case deleteCaseAfterLine:
			tokenDeltaLine -= deletedLines

		case deleteCaseAfterOnEnd:
			if horizontalShiftForFirstLineTokens != 0 && tokenDeltaLine == endDeltaLine {
				tokenStart += horizontalShiftForFirstLineTokens
				tokenEnd += horizontalShiftForFirstLineTokens
			}
			tokenDeltaLine -= deletedLines
			tokenStart -= deletedChars
			tokenEnd -= deletedChars

		case deleteCaseImpossible:
			panic("tokens: deletion range classification fell through; edit coordinates are inconsistent with the stored model")
		}

		dst := newTokenCount << 2
		tokens[dst] = uint32(tokenDeltaLine)
		tokens[dst+1] = uint32(tokenStart)
		tokens[dst+2] = uint32(tokenEnd)
		tokens[dst+3] = tokenMetadata

		newTokenCount++

		// Once past the deleted range, a deletion that removed no lines and
		// dropped no tokens cannot move anything else: every remaining
		// token keeps its slot untouched.
		if deletedLines == 0 && !hasDeletedTokens && newTokenCount == i+1 && tokenDeltaLine > endDeltaLine {
			newTokenCount = tokenCount
			break
		}
	}

	t.tokens = tokens[:newTokenCount<<2]
}

func (t *SparseMultilineTokens) acceptInsertText(pos Position, eolCount, firstLineLength, lastLineLength int, firstChar rune) {
	if eolCount == 0 && firstLineLength == 0 {
		return
	}

	lineIndex := pos.LineNumber - t.startLineNumber
	if lineIndex < 0 {
		// The insertion is entirely above the block.
		t.startLineNumber += eolCount
		return
	}

	if lineIndex >= t.maxDeltaLine()+1 {
		// The insertion is entirely below the block.
		return
	}

	t.insertTokenText(lineIndex, pos.Column-1, eolCount, firstLineLength, lastLineLength, firstChar)
}

// isWordChar implements the single-alphanumeric-character fast path's
// character class. Deliberately ASCII digits and letters only, no
// underscore: widening it changes perceived live-typing highlighting.
func isWordChar(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// insertTokenText adjusts tokens for text inserted at deltaLine:character.
// Tokens touching the insertion point grow only when exactly one word
// character is typed, which keeps "typing inside a word" inside the same
// token without reclassifying on every keystroke.
func (t *SparseMultilineTokens) insertTokenText(deltaLine, character, eolCount, firstLineLength, lastLineLength int, firstChar rune) {
	insertingOneWordChar := eolCount == 0 && firstLineLength == 1 && isWordChar(firstChar)

	tokens := t.tokens
	tokenCount := len(tokens) >> 2

	for i := 0; i < tokenCount; i++ {
		offset := i << 2
		tokenDeltaLine := int(tokens[offset])
		tokenStart := int(tokens[offset+1])
		tokenEnd := int(tokens[offset+2])

		if tokenDeltaLine < deltaLine || (tokenDeltaLine == deltaLine && tokenEnd < character) {
			// Entirely before the insertion point.
			continue
		} else if tokenDeltaLine == deltaLine && tokenEnd == character {
			if insertingOneWordChar {
				tokenEnd++
			} else {
				continue
			}
		} else if tokenDeltaLine == deltaLine && tokenStart < character && character < tokenEnd {
			// The insertion point is inside the token.
			if eolCount == 0 {
				tokenEnd += firstLineLength
			} else {
				// The token cannot span the new line boundary without
				// re-tokenization; cut it at the insertion point.
				tokenEnd = character
			}
		} else {
			if tokenDeltaLine == deltaLine && tokenStart == character && insertingOneWordChar {
				tokenEnd++
			} else if tokenDeltaLine == deltaLine {
				tokenDeltaLine += eolCount
				if eolCount == 0 {
					tokenStart += firstLineLength
					tokenEnd += firstLineLength
				} else {
					// Rebase relative to the start of the last inserted line.
					tokenStart = lastLineLength + (tokenStart - character)
					tokenEnd = lastLineLength + (tokenEnd - character)
				}
			} else {
				tokenDeltaLine += eolCount
			}
		}

		tokens[offset] = uint32(tokenDeltaLine)
		tokens[offset+1] = uint32(tokenStart)
		tokens[offset+2] = uint32(tokenEnd)
	}
}
