package tokens

// SparseStore holds the current set of sparse token blocks, typically one
// semantic tokenization pass. The whole set is replaced when a new pass
// completes and adjusted in place on every buffer edit in between.
//
// Pieces must be sorted by start line and non-overlapping; merging
// overlapping provider results is the provider's responsibility before Set.
type SparseStore struct {
	pieces []*SparseMultilineTokens
}

// NewSparseStore returns an empty store.
func NewSparseStore() *SparseStore {
	return &SparseStore{}
}

// Flush drops all pieces.
func (s *SparseStore) Flush() {
	s.pieces = nil
}

// IsEmpty reports whether the store holds no pieces.
func (s *SparseStore) IsEmpty() bool {
	return len(s.pieces) == 0
}

// Set replaces the stored pieces wholesale with a new tokenization pass.
func (s *SparseStore) Set(pieces []*SparseMultilineTokens) {
	s.pieces = pieces
}

// AcceptEdit fans one committed buffer edit out to every piece.
func (s *SparseStore) AcceptEdit(r Range, eolCount, firstLineLength, lastLineLength int, firstChar rune) {
	for _, piece := range s.pieces {
		piece.AcceptEdit(r, eolCount, firstLineLength, lastLineLength, firstChar)
	}
}

// GetLineTokens returns the sparse tokens covering the given 1-based line,
// or false when no piece covers it.
func (s *SparseStore) GetLineTokens(lineNumber int) (SparseLineTokens, bool) {
	if len(s.pieces) == 0 {
		return SparseLineTokens{}, false
	}
	idx := findFirstPieceWithLine(s.pieces, lineNumber)
	piece := s.pieces[idx]
	if lineNumber < piece.StartLineNumber() || lineNumber > piece.EndLineNumber() {
		return SparseLineTokens{}, false
	}
	return piece.GetLineTokens(lineNumber)
}

func findFirstPieceWithLine(pieces []*SparseMultilineTokens, lineNumber int) int {
	low, high := 0, len(pieces)-1
	for low < high {
		mid := low + (high-low)/2
		if pieces[mid].EndLineNumber() < lineNumber {
			low = mid + 1
		} else if pieces[mid].StartLineNumber() > lineNumber {
			high = mid - 1
			if low > high {
				return low
			}
		} else {
			// Walk back over any earlier piece that also covers the line.
			for mid > low && pieces[mid-1].StartLineNumber() <= lineNumber && lineNumber <= pieces[mid-1].EndLineNumber() {
				mid--
			}
			return mid
		}
	}
	return low
}

// AddSparseTokens merges the sparse tokens covering one line on top of that
// line's primary tokenization. The merged tokens take their coloring and
// style from the sparse source and their language id and token type from
// the last primary token they overlap, so a semantic pass can recolor
// without losing the lexical comment/string classification.
//
// The merged coverage equals the primary coverage; no gaps or overlaps are
// introduced. When no sparse tokens cover the line the primary view is
// returned unchanged.
func (s *SparseStore) AddSparseTokens(lineNumber int, primary LineTokens) LineTokens {
	if len(primary.LineContent()) == 0 {
		return primary
	}

	secondary, ok := s.GetLineTokens(lineNumber)
	if !ok || secondary.Count() == 0 {
		return primary
	}

	aCount := primary.Count()
	bCount := secondary.Count()

	result := make([]uint32, 0, (aCount+bCount)<<1)
	lastEnd := 0
	emit := func(endOffset int, metadata Metadata) {
		if endOffset <= lastEnd {
			return
		}
		result = append(result, uint32(endOffset), uint32(metadata))
		lastEnd = endOffset
	}

	aIndex := 0
	for bIndex := 0; bIndex < bCount; bIndex++ {
		bStart := secondary.GetStartCharacter(bIndex)
		bEnd := secondary.GetEndCharacter(bIndex)
		bMetadata := secondary.GetMetadata(bIndex)

		// Emit primary tokens that end at or before the sparse token.
		for aIndex < aCount && primary.GetEndCharacter(aIndex) <= bStart {
			emit(primary.GetEndCharacter(aIndex), primary.GetMetadata(aIndex))
			aIndex++
		}

		// Split the primary token straddling the sparse token's start.
		if aIndex < aCount && primary.GetStartCharacter(aIndex) < bStart {
			emit(bStart, primary.GetMetadata(aIndex))
		}

		// Consume primary tokens covered by the sparse span, remembering
		// the last one overlapped for its language and type bits.
		var overlapped Metadata
		if aIndex < aCount && primary.GetStartCharacter(aIndex) < bEnd {
			overlapped = primary.GetMetadata(aIndex)
		}
		for aIndex < aCount && primary.GetEndCharacter(aIndex) <= bEnd {
			overlapped = primary.GetMetadata(aIndex)
			aIndex++
		}
		if aIndex < aCount && primary.GetStartCharacter(aIndex) < bEnd {
			overlapped = primary.GetMetadata(aIndex)
		}

		emit(bEnd, bMetadata&^languageAndTypeMask|overlapped&languageAndTypeMask)
	}

	// The sparse list is exhausted; the rest of the primary passes through.
	for aIndex < aCount {
		emit(primary.GetEndCharacter(aIndex), primary.GetMetadata(aIndex))
		aIndex++
	}

	return NewLineTokens(result, primary.LineContent())
}
