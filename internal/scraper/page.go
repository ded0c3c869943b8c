package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pfrederiksen/keiba-flat/internal/race"
)

// ParseRace extracts a race from a result page. It reports false when the page has
// no result rows.
func ParseRace(doc *goquery.Document) (race.RawRace, bool) {
	rows := doc.Find(selResultRows)
	if rows.Length() < minResultRows {
		return race.RawRace{}, false
	}

	rr := race.RawRace{
		Title:     firstText(doc.Find(selTitle)),
		Diary:     firstText(doc.Find(selDiary)),
		SmallText: firstText(doc.Find(selSmallText)),
		Horses:    make([]race.RawHorse, 0, rows.Length()-1),
	}

	rows.Slice(1, goquery.ToEnd).Each(func(_ int, tr *goquery.Selection) {
		rr.Horses = append(rr.Horses, parseRow(tr))
	})
	return rr, true
}

// parseRow maps the row's cells onto race.Keys by position. Keys past the last cell
// are left out; a cell without any text is null.
func parseRow(tr *goquery.Selection) race.RawHorse {
	h := race.RawHorse{}
	tr.Find("td").EachWithBreak(func(i int, td *goquery.Selection) bool {
		if i >= len(race.Keys) {
			return false
		}
		h[race.Keys[i]] = cellText(td)
		return true
	})
	return h
}

// cellText joins the stripped text nodes under a cell with single spaces.
func cellText(td *goquery.Selection) *string {
	var parts []string
	for _, n := range td.Nodes {
		parts = appendText(parts, n)
	}
	if len(parts) == 0 {
		return nil
	}
	joined := strings.TrimSpace(strings.Join(parts, " "))
	return &joined
}

func appendText(parts []string, n *html.Node) []string {
	if n.Type == html.TextNode {
		return append(parts, strings.TrimSpace(n.Data))
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		parts = appendText(parts, c)
	}
	return parts
}

// firstText returns the first text node directly under the matched elements,
// unmodified, or nil.
func firstText(sel *goquery.Selection) *string {
	for _, n := range sel.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				text := c.Data
				return &text
			}
		}
	}
	return nil
}
