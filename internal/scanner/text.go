package scanner

// TextInfoScanner is a placeholder for text formats. It registers no
// extraction steps of its own, so scanning yields an empty record; the
// baseline facets for text files come from the FileInfoScanner.
type TextInfoScanner struct {
	Scanner
}

func NewTextInfoScanner() *TextInfoScanner {
	return &TextInfoScanner{
		Scanner: NewScanner("TextInfo", []string{"text/*"}),
	}
}
