package tokens

// Position is a 1-based line number and 1-based column. Columns count
// positions between characters, so column 1 is before the first character.
type Position struct {
	LineNumber int
	Column     int
}

// Range is a half-open span of buffer text between two positions, both
// 1-based. A range with equal start and end positions is empty.
type Range struct {
	StartLineNumber int
	StartColumn     int
	EndLineNumber   int
	EndColumn       int
}

// NewRange returns the range (startLine,startCol)-(endLine,endCol).
func NewRange(startLine, startCol, endLine, endCol int) Range {
	return Range{
		StartLineNumber: startLine,
		StartColumn:     startCol,
		EndLineNumber:   endLine,
		EndColumn:       endCol,
	}
}

// IsEmpty reports whether the range spans no text.
func (r Range) IsEmpty() bool {
	return r.StartLineNumber == r.EndLineNumber && r.StartColumn == r.EndColumn
}
