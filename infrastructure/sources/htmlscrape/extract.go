package htmlscrape

import (
	"bytes"
	"regexp"
	"strings"

	"otakubantu-api/core/domain"
	"otakubantu-api/infrastructure/sources/upstream"
	"otakubantu-api/pkg/utils/parse"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly"
	"golang.org/x/net/html/charset"
)

var (
	episodeSuffix = regexp.MustCompile(`-episode-[0-9.]+$`)
	numberPattern = regexp.MustCompile(`[0-9]+(\.[0-9]+)?`)
)

// parseDocument decodes raw in whatever charset the page declares
func parseDocument(raw []byte) (*goquery.Document, error) {
	r, err := charset.NewReader(bytes.NewReader(raw), "")
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(r)
}

func (s *Source) extractItems(doc *goquery.Document, req domain.ResolutionRequest, pageURL string) domain.Payload {
	// elements are built outside a collector run, so the response is a stub
	resp := &colly.Response{}
	items := make([]domain.Item, 0)

	doc.Find(s.selectors.Item).Each(func(i int, sel *goquery.Selection) {
		el := colly.NewHTMLElementFromSelectionNode(resp, sel, sel.Nodes[0], i)
		if item, ok := s.readItem(el, pageURL); ok {
			items = append(items, item)
		}
	})

	return domain.Payload{
		CurrentPage: req.PageOrDefault(),
		HasNextPage: doc.Find(s.selectors.NextPage).Length() > 0,
		Items:       items,
	}
}

// readItem reads one listing entry. Missing attributes become empty strings
// and a panic on a broken node only loses that node.
func (s *Source) readItem(el *colly.HTMLElement, pageURL string) (item domain.Item, ok bool) {
	defer func() {
		if recover() != nil {
			item, ok = domain.Item{}, false
		}
	}()

	link := upstream.Resolve(pageURL, el.ChildAttr(s.selectors.Link, "href"))
	title := el.ChildAttr(s.selectors.Title, "title")
	if title == "" {
		title = el.ChildText(s.selectors.Title)
	}

	image := el.ChildAttr(s.selectors.Image, "src")
	if image == "" {
		image = el.ChildAttr(s.selectors.Image, "data-src")
	}

	item = domain.Item{
		Title:       strings.TrimSpace(title),
		URL:         link,
		Image:       upstream.Resolve(pageURL, image),
		ReleaseDate: strings.TrimSpace(strings.TrimPrefix(el.ChildText(s.selectors.Released), "Released:")),
	}

	slug := upstream.LastSegment(link)
	if episodeSuffix.MatchString(slug) {
		item.EpisodeID = slug
		item.ID = episodeSuffix.ReplaceAllString(slug, "")
		item.EpisodeNumber = parseNumber(el.ChildText(s.selectors.Episode))
	} else {
		item.ID = slug
	}

	return item, item.IsValid()
}

func (s *Source) extractDetail(doc *goquery.Document, id, pageURL string) domain.Payload {
	title := strings.TrimSpace(doc.Find(s.selectors.DetailTitle).First().Text())
	if title == "" {
		return domain.Payload{}
	}

	image, _ := doc.Find(s.selectors.DetailImage).First().Attr("src")
	detail := &domain.AnimeDetail{
		ID:          id,
		Title:       title,
		URL:         pageURL,
		Image:       upstream.Resolve(pageURL, image),
		Description: strings.TrimSpace(doc.Find(s.selectors.DetailDescription).First().Text()),
		Episodes:    make([]domain.Episode, 0),
	}

	doc.Find(s.selectors.DetailInfo).Each(func(_ int, p *goquery.Selection) {
		label := strings.ToLower(strings.TrimSpace(p.Find("span").First().Text()))
		value := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(p.Text()), strings.TrimSpace(p.Find("span").First().Text())))

		switch {
		case strings.HasPrefix(label, "type"):
			detail.Type = value
		case strings.HasPrefix(label, "genre"):
			p.Find("a").Each(func(_ int, a *goquery.Selection) {
				g := strings.Trim(strings.TrimSpace(a.Text()), ", ")
				if name, ok := a.Attr("title"); ok && name != "" {
					g = name
				}
				if g != "" {
					detail.Genres = append(detail.Genres, g)
				}
			})
		case strings.HasPrefix(label, "released"):
			detail.ReleaseDate = value
		case strings.HasPrefix(label, "status"):
			detail.Status = value
		case strings.HasPrefix(label, "other name"):
			detail.OtherName = value
		}
	})

	doc.Find(s.selectors.DetailEpisodes).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		epID := upstream.LastSegment(href)
		if epID == "" {
			return
		}
		detail.Episodes = append(detail.Episodes, domain.Episode{
			ID:     epID,
			Number: parseNumber(a.Text()),
			URL:    upstream.Resolve(pageURL, href),
		})
	})
	detail.TotalEpisodes = len(detail.Episodes)

	return domain.Payload{Detail: detail}
}

func (s *Source) extractStream(doc *goquery.Document, pageURL string) domain.Payload {
	seen := make(map[string]bool)
	sources := make([]domain.StreamSource, 0)

	add := func(ref, quality string) {
		u := upstream.Resolve(pageURL, ref)
		if u == "" || seen[u] {
			return
		}
		seen[u] = true
		sources = append(sources, domain.StreamSource{
			URL:     u,
			Quality: quality,
			IsM3U8:  strings.Contains(u, ".m3u8"),
		})
	}

	doc.Find(s.selectors.StreamFrames).Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		quality, _ := sel.Attr("label")
		if quality == "" {
			quality = "default"
		}
		add(src, quality)
	})
	doc.Find(s.selectors.StreamLinks).Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("data-video")
		add(src, strings.ToLower(strings.TrimSpace(sel.Contents().Not("span").Text())))
	})

	if len(sources) == 0 {
		return domain.Payload{}
	}

	return domain.Payload{
		Stream: &domain.StreamSources{
			Headers: map[string]string{"Referer": pageURL},
			Sources: sources,
		},
	}
}

func parseNumber(s string) float64 {
	m := numberPattern.FindString(s)
	if m == "" {
		return 0
	}
	return parse.FloatOrZero(m)
}
