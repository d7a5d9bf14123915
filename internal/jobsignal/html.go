package jobsignal

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/cv-ats/internal/dictionary"
	"github.com/jonathan/cv-ats/internal/types"
)

// FromHTML extracts a JobSignal from a job posting page. sourceURL is
// optional and only used to pick job board selectors; when it is empty or
// unrecognized the board is detected from the markup.
func FromHTML(html, sourceURL string, dict *dictionary.Dictionary) (types.JobSignal, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return types.JobSignal{}, &ParseError{Message: "failed to parse HTML", Cause: err}
	}

	platform := DetectPlatform(sourceURL)
	if platform == PlatformUnknown {
		platform = detectPlatformFromMarkup(doc)
	}
	doc.Find(strings.Join(noiseSelectors(platform), ", ")).Remove()

	content := mainContent(doc, platform)

	var items []string
	content.Find("li").Each(func(_ int, s *goquery.Selection) {
		// Nested lists contribute their own items.
		clone := s.Clone()
		clone.Find("ul, ol").Remove()
		items = append(items, clone.Text())
	})

	text := blockText(content)
	return types.JobSignal{
		Requirements: cleanRequirements(items),
		Keywords:     DetectKeywords(text, dict),
	}, nil
}

func mainContent(doc *goquery.Document, platform Platform) *goquery.Selection {
	for _, selector := range contentSelectors(platform) {
		if selection := doc.Find(selector); selection.Length() > 0 {
			return selection.First()
		}
	}
	return doc.Find("body")
}

// blockText returns the selection's text with a line break after every
// block element, so adjacent items do not run together.
func blockText(s *goquery.Selection) string {
	s.Find("br").ReplaceWithHtml("\n")
	s.Find("p, li, h1, h2, h3, h4, h5, h6, div, tr").Each(func(_ int, el *goquery.Selection) {
		el.AppendHtml("\n")
	})
	lines := strings.Split(s.Text(), "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
