package tokens

// emptySentinel is the canonical empty-line value. Any non-nil zero-length
// slice is treated the same; this shared instance avoids allocating one per
// blank line.
var emptySentinel = make([]uint32, 0)

// isUntokenized reports whether tokens represents a line the tokenizer has
// not produced output for yet.
func isUntokenized(tokens []uint32) bool {
	return tokens == nil
}

// isEmptyLine reports whether tokens is the empty-line sentinel.
func isEmptyLine(tokens []uint32) bool {
	return tokens != nil && len(tokens) == 0
}

// findTokenIndex returns the index of the first token whose end offset is
// strictly greater than offset. A token ending exactly at offset does not
// contain it, so the search advances past equal end offsets.
func findTokenIndex(tokens []uint32, offset int) int {
	if len(tokens) <= 2 {
		return 0
	}
	low := 0
	high := (len(tokens) >> 1) - 1
	for low < high {
		mid := low + (high-low)/2
		end := int(tokens[mid<<1])
		if end == offset {
			return mid + 1
		} else if end < offset {
			low = mid + 1
		} else {
			high = mid
		}
	}
	return low
}

// DeleteTokens removes the half-open character range [from, to) from an
// encoded token array. The returned slice may alias the input: when no token
// was dropped the input's backing array is shifted in place, otherwise a
// shorter copy is returned. Callers must use the returned slice and treat
// the input as consumed.
func DeleteTokens(tokens []uint32, from, to int) []uint32 {
	if isUntokenized(tokens) || isEmptyLine(tokens) || from == to {
		return tokens
	}

	tokenCount := len(tokens) >> 1

	// Deleting the whole line leaves the empty-line sentinel.
	if from == 0 && int(tokens[len(tokens)-2]) == to {
		return emptySentinel
	}

	fromTokenIndex := findTokenIndex(tokens, from)
	fromTokenStart := 0
	if fromTokenIndex > 0 {
		fromTokenStart = int(tokens[(fromTokenIndex-1)<<1])
	}

	delta := to - from

	if to < int(tokens[fromTokenIndex<<1]) {
		// The deletion is entirely inside one token: that token and every
		// later one shrink left, nothing is dropped.
		for i := fromTokenIndex; i < tokenCount; i++ {
			tokens[i<<1] -= uint32(delta)
		}
		return tokens
	}

	var dest int
	var lastEnd int
	if fromTokenStart != from {
		// Clip the boundary token to end where the deletion starts.
		tokens[fromTokenIndex<<1] = uint32(from)
		dest = (fromTokenIndex + 1) << 1
		lastEnd = from
	} else {
		// The boundary token starts exactly at the deletion start; it is
		// consumed rather than clipped to zero length.
		dest = fromTokenIndex << 1
		lastEnd = fromTokenStart
	}

	// Shift the remaining tokens left, dropping any that were fully
	// consumed by the deletion.
	for i := fromTokenIndex + 1; i < tokenCount; i++ {
		end := int(tokens[i<<1]) - delta
		if end > lastEnd {
			tokens[dest] = uint32(end)
			tokens[dest+1] = tokens[(i<<1)+1]
			dest += 2
			lastEnd = end
		}
	}

	if dest == len(tokens) {
		return tokens
	}
	result := make([]uint32, dest)
	copy(result, tokens[:dest])
	return result
}

// InsertTokens grows the token covering the insertion point at by textLength
// characters and shifts every later token right by the same amount. The
// array is mutated in place; its length never changes.
//
// When the insertion point sits exactly on a token boundary the inserted
// text is attributed to the preceding token, matching how typing at the end
// of a word should extend that word's highlighting.
func InsertTokens(tokens []uint32, at, textLength int) {
	if isUntokenized(tokens) || isEmptyLine(tokens) || textLength == 0 {
		return
	}

	fromTokenIndex := findTokenIndex(tokens, at)
	if fromTokenIndex > 0 {
		if int(tokens[(fromTokenIndex-1)<<1]) == at {
			fromTokenIndex--
		}
	}
	for i := fromTokenIndex; i < len(tokens)>>1; i++ {
		tokens[i<<1] += uint32(textLength)
	}
}

// AppendTokens concatenates two encoded arrays, re-basing b's offsets past
// the end of a. Appending the empty-line sentinel is a no-op in either
// direction; appending anything onto or from an un-tokenized (nil) array
// yields nil, since the joined line's content is no longer fully tokenized.
func AppendTokens(a, b []uint32) []uint32 {
	if isEmptyLine(a) {
		return b
	}
	if isEmptyLine(b) {
		return a
	}
	if isUntokenized(a) || isUntokenized(b) {
		return nil
	}

	aLen := len(a)
	bLen := len(b)
	result := make([]uint32, aLen+bLen)
	copy(result, a)
	appendOffset := a[aLen-2]
	dest := aLen
	for i := 0; i < bLen; i += 2 {
		result[dest] = b[i] + appendOffset
		result[dest+1] = b[i+1]
		dest += 2
	}
	return result
}

// DeleteTokensBeginning removes [0, to) from the array.
func DeleteTokensBeginning(tokens []uint32, to int) []uint32 {
	if isUntokenized(tokens) || isEmptyLine(tokens) {
		return tokens
	}
	return DeleteTokens(tokens, 0, to)
}

// DeleteTokensEnding removes everything from from to the end of the line.
func DeleteTokensEnding(tokens []uint32, from int) []uint32 {
	if isUntokenized(tokens) || isEmptyLine(tokens) {
		return tokens
	}
	lineLength := int(tokens[len(tokens)-2])
	return DeleteTokens(tokens, from, lineLength)
}
