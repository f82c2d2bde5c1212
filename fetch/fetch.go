// Package fetch loads the source document from an HTTP(S) URL or a local
// file.
package fetch

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

// DefaultSource is downloaded when no input is given.
const DefaultSource = "https://www.gutenberg.org/cache/epub/16317/pg16317.txt"

const (
	defaultTimeout      = 30 * time.Second
	defaultMaxRedirects = 10
	userAgent           = "seatrans/1.0 (+https://github.com/seatrans/seatrans)"
)

// Fetcher downloads documents with a fasthttp client.
type Fetcher struct {
	client       *fasthttp.Client
	MaxRedirects int
}

// New returns a Fetcher whose reads and writes time out after timeout
// (30s when timeout <= 0).
func New(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Fetcher{
		client: &fasthttp.Client{
			Name:                userAgent,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: 64 << 20,
		},
		MaxRedirects: defaultMaxRedirects,
	}
}

// IsURL reports whether source is fetched over HTTP rather than read from disk.
func IsURL(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Download returns the text at source using a default Fetcher.
func Download(ctx context.Context, source string) (string, error) {
	return New(0).Download(ctx, source)
}

// Download returns the text at source. URLs are fetched following
// redirects; anything else is read as a file path (a file:// prefix is
// accepted). A leading UTF-8 byte order mark is removed.
func (f *Fetcher) Download(ctx context.Context, source string) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", fmt.Errorf("no input given")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var (
		data []byte
		err  error
	)
	if IsURL(source) {
		data, err = f.get(ctx, source)
	} else {
		data, err = os.ReadFile(strings.TrimPrefix(source, "file://"))
		if err != nil {
			err = fmt.Errorf("reading %s: %w", source, err)
		}
	}
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(string(data), "\ufeff"), nil
}

type getResult struct {
	body []byte
	err  error
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	done := make(chan getResult, 1)
	go func() {
		body, err := f.do(url)
		done <- getResult{body: body, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.body, r.err
	}
}

func (f *Fetcher) do(url string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)

	if err := f.client.DoRedirects(req, resp, f.MaxRedirects); err != nil {
		return nil, fmt.Errorf("downloading %s: %w", url, err)
	}
	if code := resp.StatusCode(); code != fasthttp.StatusOK {
		return nil, fmt.Errorf("downloading %s: unexpected status %d", url, code)
	}

	body, err := resp.BodyUncompressed()
	if err != nil {
		return nil, fmt.Errorf("decoding response from %s: %w", url, err)
	}
	// resp is released on return; copy the body out.
	return append([]byte(nil), body...), nil
}
