package distill

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	// The input should be distilled HTML.
	Convert(html string) (string, error)
}

// Policy is a final allow-list applied to rendered content HTML.
type Policy interface {
	// Sanitize returns html with everything outside the policy removed.
	Sanitize(html string) string
}
