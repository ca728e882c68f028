package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Its-donkey/portfolio/internal/scrollspy"
)

// VerifyNavigation parses rendered HTML and checks that every tracked section
// exists exactly once as an anchor and has a nav item pointing at it, and
// that no nav item points at a missing section.
func VerifyNavigation(r io.Reader) error {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return fmt.Errorf("parse page: %w", err)
	}

	var problems []string
	for _, id := range scrollspy.Sections {
		switch n := doc.Find(`section[id="` + id + `"]`).Length(); {
		case n == 0:
			problems = append(problems, fmt.Sprintf("section %q missing", id))
		case n > 1:
			problems = append(problems, fmt.Sprintf("section %q rendered %d times", id, n))
		}
		if doc.Find(`#`+NavID+` [`+NavAttr+`="`+id+`"]`).Length() == 0 {
			problems = append(problems, fmt.Sprintf("no nav item for %q", id))
		}
	}

	known := make(map[string]bool, len(scrollspy.Sections))
	for _, id := range scrollspy.Sections {
		known[id] = true
	}
	doc.Find(`[` + NavAttr + `]`).Each(func(_ int, s *goquery.Selection) {
		target, _ := s.Attr(NavAttr)
		if !known[target] {
			problems = append(problems, fmt.Sprintf("nav item %q points at no section", target))
		}
	})

	if len(problems) > 0 {
		return fmt.Errorf("navigation check failed: %s", strings.Join(problems, "; "))
	}
	return nil
}
