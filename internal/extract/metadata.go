package extract

// analyzeMetadata fills the page-metadata fact group. Lengths are
// byte lengths, kept that way for wire compatibility with existing
// report consumers.
func (e *Extractor) analyzeMetadata(doc *document, result *Result) {
	meta := &result.Metadata

	meta.HasTitle = doc.titleFound
	meta.Title = doc.title
	meta.TitleLength = len(doc.title)

	meta.HasDescription = doc.descriptionFound
	meta.Description = doc.description
	meta.DescriptionLength = len(doc.description)

	// A usable social preview needs both a title and an image.
	meta.HasOG = doc.ogTitle != "" && doc.ogImage != ""
	meta.OGTitle = doc.ogTitle
}
