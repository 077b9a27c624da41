// Package qtquote fetches real-time quotes from the qt.gtimg.cn endpoint and
// decodes them with the decoder package.
package qtquote

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/sling"
	"github.com/llehouerou/go-qtquote/qtquote/decoder"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const baseUrl = "https://qt.gtimg.cn/"

const (
	DefaultChunkSize      = 60
	DefaultMaxConcurrency = 4
)

type Client struct {
	// ChunkSize caps the number of symbols sent in one request.
	ChunkSize int
	// MaxConcurrency caps the number of requests in flight for one call.
	MaxConcurrency int
	// AutoPrefix adds the market prefix to bare six-digit codes.
	AutoPrefix bool

	httpclient *http.Client
	sling      *sling.Sling
	decoder    *decoder.Decoder

	baseURL string
	headers map[string]string
}

type ClientOption func(*Client)

func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

func WithDecoder(d *decoder.Decoder) ClientOption {
	return func(c *Client) {
		c.decoder = d
	}
}

// WithHeader sets a request header, replacing the default value if any.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[key] = value
	}
}

func NewClient(httpClient *http.Client, options ...ClientOption) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	client := &Client{
		ChunkSize:      DefaultChunkSize,
		MaxConcurrency: DefaultMaxConcurrency,
		httpclient:     httpClient,
		decoder:        decoder.Default(),
		baseURL:        baseUrl,
		headers:        map[string]string{},
	}
	for _, option := range options {
		option(client)
	}

	// the endpoint rejects requests that do not look like they come from gu.qq.com
	base := sling.New().Client(httpClient).Base(client.baseURL).
		Set("Accept", "*/*").
		Set("Accept-Language", "zh-CN,zh;q=0.9").
		Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/100.0.4896.88 Safari/537.36").
		Set("Referer", "https://gu.qq.com/").
		ResponseDecoder(textDecoder{})
	for key, value := range client.headers {
		base.Set(key, value)
	}
	client.sling = base
	return client
}

// Quotes fetches and decodes the quotes of symbols. Symbols beyond ChunkSize
// are fetched in several requests; quotes keep the order of symbols. Lines the
// decoder rejects are reported in the batch diagnostics, never as an error.
func (c *Client) Quotes(ctx context.Context, symbols []string) (decoder.Batch, error) {
	symbols = c.normalize(symbols)
	if len(symbols) == 0 {
		return decoder.Batch{Quotes: []decoder.Quote{}}, nil
	}

	chunks := chunkSymbols(symbols, c.ChunkSize)
	batches := make([]decoder.Batch, len(chunks))
	g, ctx := errgroup.WithContext(ctx)
	limit := c.MaxConcurrency
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			body, err := c.fetch(ctx, chunk)
			if err != nil {
				return err
			}
			batches[i] = c.decoder.DecodeBatch(body)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return decoder.Batch{}, fmt.Errorf("requesting quotes: %v", err)
	}

	res := decoder.Batch{Quotes: make([]decoder.Quote, 0, len(symbols))}
	for _, b := range batches {
		res.Append(b)
	}
	res.Diagnostics.Log(log.WithField("source", "qt.gtimg.cn"))
	if res.Dropped > 0 {
		log.Warnf("%d of %d quote lines dropped", res.Dropped, res.Dropped+len(res.Quotes))
	}
	return res, nil
}

func (c *Client) fetch(ctx context.Context, symbols []string) (string, error) {
	req, err := c.sling.New().Get("q=" + strings.Join(symbols, ",")).Request()
	if err != nil {
		return "", fmt.Errorf("building request: %v", err)
	}
	var body string
	resp, err := c.sling.Do(req.WithContext(ctx), &body, nil)
	if err != nil {
		return "", fmt.Errorf("request: %v", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("not 2xx status code: %d - %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return body, nil
}

// normalize trims symbols and drops blanks and duplicates, keeping order.
func (c *Client) normalize(symbols []string) []string {
	res := make([]string, 0, len(symbols))
	seen := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		s = strings.TrimSpace(s)
		if c.AutoPrefix {
			s = WithMarketPrefix(s)
		}
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		res = append(res, s)
	}
	return res
}

func chunkSymbols(symbols []string, size int) [][]string {
	if size <= 0 || len(symbols) <= size {
		return [][]string{symbols}
	}
	res := make([][]string, 0, (len(symbols)+size-1)/size)
	for i := 0; i < len(symbols); i += size {
		j := i + size
		if j > len(symbols) {
			j = len(symbols)
		}
		res = append(res, symbols[i:j])
	}
	return res
}
