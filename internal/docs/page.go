// Package docs fetches an Rdatasets documentation page and reduces it to
// title, description and variable definitions.
package docs

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// DefaultMaxChars is the render budget before truncation.
const DefaultMaxChars = 3000

// TruncationMarker is appended to output cut at the budget.
const TruncationMarker = "...\n\n[Content truncated - visit URL for full documentation]"

var titleSuffix = regexp.MustCompile(`\s*R Documentation$`)

// Variable is one term/definition pair of the Format section.
type Variable struct {
	Term       string
	Definition string
}

// Page is the extracted content of one documentation page.
type Page struct {
	Title string
	URL   string

	// NoContent is set when no main container was found.
	NoContent bool

	Description []string

	// HasFormat is set when a Format or Variables heading exists.
	HasFormat   bool
	FormatIntro []string
	Variables   []Variable
}

// Parse extracts a Page from an HTML document.
func Parse(r io.Reader, url string) (*Page, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	doc := goquery.NewDocumentFromNode(root)

	p := &Page{URL: url, Title: "Documentation"}
	if t := doc.Find("title").First(); t.Length() > 0 {
		p.Title = titleSuffix.ReplaceAllString(strings.TrimSpace(t.Text()), "")
	}

	main := doc.Find("div#main").First()
	if main.Length() == 0 {
		main = doc.Find("div.main").First()
	}
	if main.Length() == 0 {
		main = doc.Find("body").First()
	}
	if main.Length() == 0 {
		p.NoContent = true
		return p, nil
	}
	main.Find("script, style").Remove()

	if h := heading(main, "Description"); h != nil {
		h.NextAll().EachWithBreak(func(_ int, s *goquery.Selection) bool {
			switch goquery.NodeName(s) {
			case "h3":
				return false
			case "p":
				p.Description = append(p.Description, strings.TrimSpace(s.Text()))
			}
			return true
		})
	}

	format := heading(main, "Format")
	if format == nil {
		format = heading(main, "Variables")
	}
	if format == nil {
		return p, nil
	}
	p.HasFormat = true

	format.NextAll().EachWithBreak(func(_ int, s *goquery.Selection) bool {
		switch goquery.NodeName(s) {
		case "h3", "dl":
			return false
		case "p":
			p.FormatIntro = append(p.FormatIntro, strings.TrimSpace(s.Text()))
		}
		return true
	})
	// The variable list is the first following dl, even past another h3.
	if dl := format.NextAllFiltered("dl").First(); dl.Length() > 0 {
		dts, dds := dl.Find("dt"), dl.Find("dd")
		n := dts.Length()
		if dds.Length() < n {
			n = dds.Length()
		}
		for i := 0; i < n; i++ {
			p.Variables = append(p.Variables, Variable{
				Term:       strings.TrimSpace(dts.Eq(i).Text()),
				Definition: strings.TrimSpace(dds.Eq(i).Text()),
			})
		}
	}

	return p, nil
}

// heading returns the first h3 whose text is exactly name.
func heading(s *goquery.Selection, name string) *goquery.Selection {
	h := s.Find("h3").FilterFunction(func(_ int, h *goquery.Selection) bool {
		return strings.TrimSpace(h.Text()) == name
	}).First()
	if h.Length() == 0 {
		return nil
	}
	return h
}

// Text renders the page as plain text, truncated to maxChars runes
// (0 means DefaultMaxChars).
func (p *Page) Text(maxChars int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Title: %s\nURL: %s\n\n", p.Title, p.URL)

	if p.NoContent {
		sb.WriteString("Could not extract main content from the documentation.")
		return sb.String()
	}

	if len(p.Description) > 0 {
		sb.WriteString(strings.Join(p.Description, "\n"))
		sb.WriteString("\n\n")
	}

	if p.HasFormat {
		sb.WriteString("## Variables\n\n")
		if len(p.FormatIntro) > 0 {
			sb.WriteString(strings.Join(p.FormatIntro, "\n"))
			sb.WriteString("\n\n")
		}
		for _, v := range p.Variables {
			fmt.Fprintf(&sb, "%s : %s\n", v.Term, v.Definition)
		}
	}

	return truncate(sb.String(), maxChars)
}

// Markdown renders the page as markdown for the full-screen browser.
func (p *Page) Markdown(maxChars int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n<%s>\n\n", p.Title, p.URL)

	if p.NoContent {
		sb.WriteString("_Could not extract main content from the documentation._\n")
		return sb.String()
	}

	for _, d := range p.Description {
		sb.WriteString(d)
		sb.WriteString("\n\n")
	}

	if p.HasFormat {
		sb.WriteString("## Variables\n\n")
		for _, d := range p.FormatIntro {
			sb.WriteString(d)
			sb.WriteString("\n\n")
		}
		for _, v := range p.Variables {
			fmt.Fprintf(&sb, "- **%s** : %s\n", v.Term, v.Definition)
		}
	}

	return truncate(sb.String(), maxChars)
}

func truncate(s string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	r := []rune(s)
	if len(r) <= maxChars {
		return s
	}
	return string(r[:maxChars]) + TruncationMarker
}
