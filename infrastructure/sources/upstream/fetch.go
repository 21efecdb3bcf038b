// ABOUTME: Shared fetch helpers for upstream source clients
// ABOUTME: Classifies status codes into transport errors and builds escaped request URLs

package upstream

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	coreerrors "otakubantu-api/core/errors"
	"otakubantu-api/core/interfaces"
)

// MaxBodySize caps how much of an upstream document is read
const MaxBodySize = 5 * 1024 * 1024

// Get fetches rawURL through client on behalf of source. Anything but a 2xx
// answer is a TransportError.
func Get(ctx context.Context, client interfaces.HTTPClient, source, rawURL string) ([]byte, error) {
	resp, err := client.Get(ctx, rawURL)
	if err != nil {
		return nil, &coreerrors.TransportError{Source: source, Err: err}
	}
	defer resp.Body().Close()

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, &coreerrors.TransportError{
			Source:     source,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode()),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body(), MaxBodySize+1))
	if err != nil {
		return nil, &coreerrors.TransportError{Source: source, Err: err}
	}
	if len(body) > MaxBodySize {
		return nil, &coreerrors.TransportError{
			Source: source,
			Err:    fmt.Errorf("response body exceeds %d bytes", MaxBodySize),
		}
	}

	return body, nil
}

// JoinPath appends path-escaped segments to base
func JoinPath(base string, segments ...string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

// WithQuery adds query parameters to rawURL, skipping empty values
func WithQuery(rawURL string, params map[string]string) string {
	values := url.Values{}
	for k, v := range params {
		if v != "" {
			values.Set(k, v)
		}
	}
	if len(values) == 0 {
		return rawURL
	}

	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + values.Encode()
}

// Page formats a page number, or "" when unset
func Page(page int) string {
	if page <= 0 {
		return ""
	}
	return strconv.Itoa(page)
}

// Resolve makes ref absolute against base. Unparseable refs are returned as is.
func Resolve(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "//") {
		return "https:" + ref
	}

	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

// LastSegment returns the final non-empty path segment of rawURL
func LastSegment(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	return parts[len(parts)-1]
}
