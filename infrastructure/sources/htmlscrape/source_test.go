package htmlscrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"otakubantu-api/core/domain"
	coreerrors "otakubantu-api/core/errors"
	"otakubantu-api/infrastructure/http/standard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingPage = `<!DOCTYPE html>
<html><head><meta charset="utf-8"></head><body>
<ul class="items">
  <li>
    <div class="img"><a href="/category/naruto"><img src="https://cdn.test/naruto.png"></a></div>
    <p class="name"><a href="/category/naruto" title="Naruto">Naruto</a></p>
    <p class="released">Released: 2002</p>
  </li>
  <li>
    <div class="img"><img src="/broken.png"></div>
    <p class="released">Released: 1999</p>
  </li>
  <li>
    <div class="img"><a href="/category/bleach"><img data-src="//cdn.test/bleach.png"></a></div>
    <p class="name"><a href="/category/bleach">  Bleach  </a></p>
  </li>
</ul>
<ul class="pagination-list"><li class="selected"><a href="?page=1">1</a></li><li><a href="?page=2">2</a></li></ul>
</body></html>`

const recentPage = `<html><body>
<ul class="items">
  <li>
    <p class="name"><a href="/one-piece-episode-1071" title="One Piece">One Piece</a></p>
    <p class="episode">Episode 1071</p>
  </li>
</ul>
<ul class="pagination-list"><li class="selected"><a>1</a></li></ul>
</body></html>`

const detailPage = `<html><body>
<div class="anime_info_body_bg">
  <img src="https://cdn.test/naruto.png">
  <h1>Naruto</h1>
  <p class="type"><span>Type: </span><a href="/sub-category/tv">TV Series</a></p>
  <div class="description">A young ninja.</div>
  <p class="type"><span>Genre: </span><a href="/genre/action" title="Action">Action</a>, <a href="/genre/comedy" title="Comedy">Comedy</a></p>
  <p class="type"><span>Released: </span>2002</p>
  <p class="type"><span>Status: </span><a href="/status/completed">Completed</a></p>
  <p class="type"><span>Other name: </span>ナルト</p>
</div>
<ul id="episode_related">
  <li><a href="/naruto-episode-2"><div class="name"><span>EP</span> 2</div></a></li>
  <li><a href="/naruto-episode-1"><div class="name"><span>EP</span> 1</div></a></li>
</ul>
</body></html>`

const episodePage = `<html><body>
<div class="play-video"><iframe src="//embed.test/streaming.php?id=abc"></iframe></div>
<div class="anime_muti_link"><ul>
  <li><a data-video="https://embed.test/streaming.php?id=abc">Vidstreaming<span>Choose this server</span></a></li>
  <li><a data-video="https://cdn.test/hls/master.m3u8">HLS<span>Choose this server</span></a></li>
</ul></div>
</body></html>`

func newTestSource(t *testing.T, baseURL string) *Source {
	t.Helper()
	src, err := NewSource(domain.SourceDescriptor{
		Name:    "gogo-scrape",
		Role:    domain.RoleScrapeFallback,
		Timeout: time.Second,
		BaseURL: baseURL,
		Kind:    Kind,
	}, standard.NewStandardHTTPClient(time.Second))
	require.NoError(t, err)
	return src
}

func request(t *testing.T, kind domain.RequestKind, key string, page int) domain.ResolutionRequest {
	t.Helper()
	req, err := domain.NewResolutionRequest(kind, key, page)
	require.NoError(t, err)
	return req
}

func TestPageURL(t *testing.T) {
	src := newTestSource(t, "https://site.test")

	assert.Equal(t, "https://site.test/search.html?keyword=one+piece&page=2", src.pageURL(request(t, domain.KindSearch, "One  Piece", 2)))
	assert.Equal(t, "https://site.test/category/naruto", src.pageURL(request(t, domain.KindDetails, "naruto", 0)))
	assert.Equal(t, "https://site.test/naruto-episode-1", src.pageURL(request(t, domain.KindWatch, "naruto-episode-1", 0)))
	assert.Equal(t, "https://site.test/popular.html", src.pageURL(request(t, domain.KindListing, domain.ListingPopular, 0)))
	assert.Equal(t, "https://site.test/?page=4", src.pageURL(request(t, domain.KindListing, domain.ListingRecent, 4)))
	assert.Equal(t, "https://site.test/genre/action?page=1", src.pageURL(request(t, domain.KindListing, domain.GenrePrefix+"action", 1)))
}

func TestExtract_MalformedItemDoesNotAbortPage(t *testing.T) {
	src := newTestSource(t, "https://site.test")

	payload, err := src.Extract(request(t, domain.KindSearch, "naruto", 1), []byte(listingPage))

	require.NoError(t, err)
	require.Len(t, payload.Items, 2)
	assert.Equal(t, domain.Item{
		ID:          "naruto",
		Title:       "Naruto",
		URL:         "https://site.test/category/naruto",
		Image:       "https://cdn.test/naruto.png",
		ReleaseDate: "2002",
	}, payload.Items[0])

	bleach := payload.Items[1]
	assert.Equal(t, "bleach", bleach.ID)
	assert.Equal(t, "Bleach", bleach.Title)
	assert.Equal(t, "https://cdn.test/bleach.png", bleach.Image)
	assert.Empty(t, bleach.ReleaseDate)

	assert.Equal(t, 1, payload.CurrentPage)
	assert.True(t, payload.HasNextPage)
}

func TestExtract_RecentEpisodes(t *testing.T) {
	src := newTestSource(t, "https://site.test")

	payload, err := src.Extract(request(t, domain.KindListing, domain.ListingRecent, 1), []byte(recentPage))

	require.NoError(t, err)
	require.Len(t, payload.Items, 1)
	item := payload.Items[0]
	assert.Equal(t, "one-piece", item.ID)
	assert.Equal(t, "one-piece-episode-1071", item.EpisodeID)
	assert.Equal(t, 1071.0, item.EpisodeNumber)
	assert.False(t, payload.HasNextPage)
}

func TestExtract_PageWithoutItemsIsEmpty(t *testing.T) {
	src := newTestSource(t, "https://site.test")

	payload, err := src.Extract(request(t, domain.KindSearch, "zzz", 1), []byte(`<html><body><p>No results</p></body></html>`))

	require.NoError(t, err)
	assert.Equal(t, 0, payload.Count())
}

func TestExtract_TranscodesLegacyCharset(t *testing.T) {
	src := newTestSource(t, "https://site.test")
	page := []byte(`<html><head><meta http-equiv="Content-Type" content="text/html; charset=iso-8859-1"></head><body>` +
		`<ul class="items"><li><p class="name"><a href="/category/cafe">Caf` + "\xe9" + `</a></p></li></ul></body></html>`)

	payload, err := src.Extract(request(t, domain.KindSearch, "cafe", 1), page)

	require.NoError(t, err)
	require.Len(t, payload.Items, 1)
	assert.Equal(t, "Café", payload.Items[0].Title)
}

func TestExtract_Detail(t *testing.T) {
	src := newTestSource(t, "https://site.test")

	payload, err := src.Extract(request(t, domain.KindDetails, "naruto", 0), []byte(detailPage))

	require.NoError(t, err)
	require.NotNil(t, payload.Detail)
	d := payload.Detail
	assert.Equal(t, "naruto", d.ID)
	assert.Equal(t, "Naruto", d.Title)
	assert.Equal(t, "A young ninja.", d.Description)
	assert.Equal(t, "TV Series", d.Type)
	assert.Equal(t, []string{"Action", "Comedy"}, d.Genres)
	assert.Equal(t, "2002", d.ReleaseDate)
	assert.Equal(t, "Completed", d.Status)
	assert.Equal(t, "ナルト", d.OtherName)
	require.Len(t, d.Episodes, 2)
	assert.Equal(t, "naruto-episode-2", d.Episodes[0].ID)
	assert.Equal(t, 2.0, d.Episodes[0].Number)
	assert.Equal(t, 2, d.TotalEpisodes)
}

func TestExtract_DetailWithoutTitleIsEmpty(t *testing.T) {
	src := newTestSource(t, "https://site.test")

	payload, err := src.Extract(request(t, domain.KindDetails, "gone", 0), []byte(`<html><body>404</body></html>`))

	require.NoError(t, err)
	assert.Nil(t, payload.Detail)
	assert.Equal(t, 0, payload.Count())
}

func TestExtract_EpisodeStreams(t *testing.T) {
	src := newTestSource(t, "https://site.test")

	payload, err := src.Extract(request(t, domain.KindWatch, "naruto-episode-1", 0), []byte(episodePage))

	require.NoError(t, err)
	require.NotNil(t, payload.Stream)
	require.Len(t, payload.Stream.Sources, 2, "duplicate embed urls collapse")
	assert.Equal(t, "https://embed.test/streaming.php?id=abc", payload.Stream.Sources[0].URL)
	assert.False(t, payload.Stream.Sources[0].IsM3U8)
	assert.Equal(t, "https://cdn.test/hls/master.m3u8", payload.Stream.Sources[1].URL)
	assert.True(t, payload.Stream.Sources[1].IsM3U8)
	assert.Equal(t, "hls", payload.Stream.Sources[1].Quality)
	assert.Equal(t, "https://site.test/naruto-episode-1", payload.Stream.Headers["Referer"])
}

func TestFetch_AgainstServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search.html" || r.URL.Query().Get("keyword") != "naruto" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(listingPage))
	}))
	defer server.Close()

	src := newTestSource(t, server.URL)
	req := request(t, domain.KindSearch, "naruto", 1)

	raw, err := src.Fetch(context.Background(), req)
	require.NoError(t, err)
	payload, err := src.Extract(req, raw)
	require.NoError(t, err)
	assert.Len(t, payload.Items, 2)

	_, err = src.Fetch(context.Background(), request(t, domain.KindDetails, "naruto", 0))
	assert.True(t, coreerrors.IsTransport(err))
}
