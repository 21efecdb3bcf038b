// ABOUTME: RSS/Atom release feed source for recent episodes and title search
// ABOUTME: Parses the feed with gofeed and finds thumbnails the way feed readers do

package rssfeed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"otakubantu-api/core/domain"
	coreerrors "otakubantu-api/core/errors"
	"otakubantu-api/core/interfaces"
	"otakubantu-api/infrastructure/sources/upstream"
	"otakubantu-api/pkg/utils/parse"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// Kind is the descriptor kind handled by this package
const Kind = "rssfeed"

var (
	episodeSuffix = regexp.MustCompile(`-episode-[0-9.]+$`)
	episodeTitle  = regexp.MustCompile(`(?i)episode\s*([0-9]+(\.[0-9]+)?)`)
)

// Source reads one release feed. BaseURL is the feed URL itself.
type Source struct {
	desc   domain.SourceDescriptor
	client interfaces.HTTPClient
}

// NewSource creates a feed source
func NewSource(desc domain.SourceDescriptor, client interfaces.HTTPClient) (*Source, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	if desc.BaseURL == "" {
		return nil, fmt.Errorf("source %s: feed URL is required", desc.Name)
	}
	if client == nil {
		return nil, errors.New("http client cannot be nil")
	}
	return &Source{desc: desc, client: client}, nil
}

// Descriptor returns the static configuration of the source
func (s *Source) Descriptor() domain.SourceDescriptor {
	return s.desc
}

// Supports reports whether the feed can answer req. A feed only carries
// recent releases, so it serves search and the recent listing.
func (s *Source) Supports(req domain.ResolutionRequest) bool {
	switch req.Kind() {
	case domain.KindSearch:
		return true
	case domain.KindListing:
		return req.Key() == domain.ListingRecent
	}
	return false
}

// Fetch retrieves the feed document. Every request reads the same feed.
func (s *Source) Fetch(ctx context.Context, req domain.ResolutionRequest) ([]byte, error) {
	return upstream.Get(ctx, s.client, s.desc.Name, s.desc.BaseURL)
}

// Extract turns feed entries into items. Feeds are not paginated, so any
// page past the first is empty.
func (s *Source) Extract(req domain.ResolutionRequest, raw []byte) (domain.Payload, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(raw))
	if err != nil {
		return domain.Payload{}, &coreerrors.ExtractionError{Source: s.desc.Name, Err: err}
	}

	if req.PageOrDefault() > 1 {
		return domain.Payload{CurrentPage: req.PageOrDefault()}, nil
	}

	terms := strings.Fields(req.Key())
	items := make([]domain.Item, 0, len(feed.Items))
	for _, fi := range feed.Items {
		if fi == nil {
			continue
		}
		if req.Kind() == domain.KindSearch && !matches(fi.Title, terms) {
			continue
		}
		if item, ok := toItem(fi); ok {
			items = append(items, item)
		}
	}

	return domain.Payload{CurrentPage: 1, Items: items}, nil
}

func toItem(fi *gofeed.Item) (domain.Item, bool) {
	slug := upstream.LastSegment(fi.Link)
	if slug == "" {
		slug = upstream.LastSegment(fi.GUID)
	}

	item := domain.Item{
		Title:       strings.TrimSpace(fi.Title),
		URL:         fi.Link,
		Image:       findThumbnail(fi),
		ReleaseDate: fi.Published,
		Genres:      fi.Categories,
	}
	if fi.PublishedParsed != nil {
		item.ReleaseDate = fi.PublishedParsed.UTC().Format("2006-01-02")
	}

	if episodeSuffix.MatchString(slug) {
		item.EpisodeID = slug
		item.ID = episodeSuffix.ReplaceAllString(slug, "")
	} else {
		item.ID = slug
	}
	if m := episodeTitle.FindStringSubmatch(fi.Title); m != nil {
		item.EpisodeNumber = parse.FloatOrZero(m[1])
	}

	return item, item.IsValid()
}

// matches reports whether every search term appears in title
func matches(title string, terms []string) bool {
	title = strings.ToLower(title)
	for _, t := range terms {
		if !strings.Contains(title, t) {
			return false
		}
	}
	return true
}

// findThumbnail checks the item image, image enclosures, media extensions and
// finally the first <img> in the description
func findThumbnail(fi *gofeed.Item) string {
	if fi.Image != nil && fi.Image.URL != "" {
		return fi.Image.URL
	}

	for _, e := range fi.Enclosures {
		if e != nil && strings.HasPrefix(e.Type, "image/") {
			return e.URL
		}
	}

	if media, ok := fi.Extensions["media"]; ok {
		for _, name := range []string{"thumbnail", "content"} {
			for _, ext := range media[name] {
				if u := ext.Attrs["url"]; u != "" {
					return u
				}
			}
		}
	}

	content := fi.Description
	if content == "" {
		content = fi.Content
	}
	if content == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img").First().Attr("src")
	return src
}
