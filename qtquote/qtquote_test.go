package qtquote

import (
	"bytes"
	"context"
	"io/ioutil"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
)

const fundPayload = `="1~国泰申赎~518801~2.229~2.229~0.000~0~0~0~0.000~0~0.000~0~0.000~0~0.000~0~0.000~0~0.000~0~0.000~0~0.000~0~0.000~0~0.000~0~~20151224150221~0.000~0.00~0.000~0.000~2.230/0/0~0~0~~~~0.000~0.000~0.00~~~0.000~2.452~2.006~"`

// RoundTripFunc .
type RoundTripFunc func(req *http.Request) *http.Response

// RoundTrip .
func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

// NewTestClient returns *http.Client with Transport replaced to avoid making real calls
func NewTestClient(fn RoundTripFunc) *http.Client {
	return &http.Client{
		Transport: RoundTripFunc(fn),
	}
}

func getCommonHeaders() http.Header {
	headers := make(http.Header)
	headers.Set("Server", "nginx")
	headers.Set("Content-Type", "text/html; charset=GBK")
	headers.Set("Connection", "keep-alive")
	headers.Set("Cache-Control", "no-cache")
	return headers
}

func gbkResponse(t *testing.T, body string) *http.Response {
	encoded, err := simplifiedchinese.GBK.NewEncoder().String(body)
	require.NoError(t, err)
	return &http.Response{
		StatusCode:    200,
		Body:          ioutil.NopCloser(bytes.NewBufferString(encoded)),
		ContentLength: int64(len(encoded)),
		Header:        getCommonHeaders(),
	}
}

// bodyFor answers a request with one fund line per requested symbol.
func bodyFor(req *http.Request) string {
	q := strings.TrimPrefix(req.URL.Path, "/q=")
	var lines []string
	for _, symbol := range strings.Split(q, ",") {
		lines = append(lines, "v_"+symbol+fundPayload+";")
	}
	return strings.Join(lines, "\n")
}

func TestQuotes(t *testing.T) {
	assert := assert.New(t)

	client := NewTestClient(func(req *http.Request) *http.Response {
		assert.Equal("https://qt.gtimg.cn/q=sz000001,sh518801", req.URL.String())
		assert.Equal("https://gu.qq.com/", req.Header.Get("Referer"))
		assert.Contains(req.Header.Get("User-Agent"), "Mozilla/5.0")
		return gbkResponse(t, bodyFor(req)+"\nv_pv_none_match=\"1\";\n")
	})

	qt := NewClient(client)
	batch, err := qt.Quotes(context.Background(), []string{"sz000001", " sh518801 ", "sz000001", ""})

	require.NoError(t, err)
	if assert.Len(batch.Quotes, 2) {
		assert.Equal("sz000001", batch.Quotes[0].Code)
		assert.Equal("国泰申赎", batch.Quotes[0].Name)
		assert.Equal("sh518801", batch.Quotes[1].Code)
	}
	assert.Equal(1, batch.Dropped)
	assert.Len(batch.Diagnostics.ForLine("pv_none_match"), 1)
}

func TestQuotes_UTF8Body(t *testing.T) {
	client := NewTestClient(func(req *http.Request) *http.Response {
		body := bodyFor(req)
		headers := getCommonHeaders()
		headers.Set("Content-Type", "text/plain; charset=utf-8")
		return &http.Response{
			StatusCode:    200,
			Body:          ioutil.NopCloser(bytes.NewBufferString(body)),
			ContentLength: int64(len(body)),
			Header:        headers,
		}
	})

	batch, err := NewClient(client).Quotes(context.Background(), []string{"sh518801"})
	require.NoError(t, err)
	require.Len(t, batch.Quotes, 1)
	assert.Equal(t, "国泰申赎", batch.Quotes[0].Name)
}

func TestQuotes_Chunked(t *testing.T) {
	var mu sync.Mutex
	var requested []string
	client := NewTestClient(func(req *http.Request) *http.Response {
		mu.Lock()
		requested = append(requested, req.URL.Path)
		mu.Unlock()
		return gbkResponse(t, bodyFor(req))
	})

	qt := NewClient(client)
	qt.ChunkSize = 2
	qt.MaxConcurrency = 2
	symbols := []string{"sh600000", "sh600036", "sz000001", "sz000002", "sz300750"}
	batch, err := qt.Quotes(context.Background(), symbols)

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/q=sh600000,sh600036", "/q=sz000001,sz000002", "/q=sz300750"}, requested)
	var codes []string
	for _, q := range batch.Quotes {
		codes = append(codes, q.Code)
	}
	assert.Equal(t, symbols, codes)
}

func TestQuotes_AutoPrefix(t *testing.T) {
	client := NewTestClient(func(req *http.Request) *http.Response {
		assert.Equal(t, "/q=sh600036,sz000001,usAAPL", req.URL.Path)
		return gbkResponse(t, bodyFor(req))
	})

	qt := NewClient(client)
	qt.AutoPrefix = true
	batch, err := qt.Quotes(context.Background(), []string{"600036", "000001", "usAAPL"})
	require.NoError(t, err)
	assert.Len(t, batch.Quotes, 3)
}

func TestQuotes_Not2xx(t *testing.T) {
	client := NewTestClient(func(req *http.Request) *http.Response {
		return &http.Response{
			StatusCode: 403,
			Body:       ioutil.NopCloser(bytes.NewBufferString("forbidden")),
			Header:     getCommonHeaders(),
		}
	})

	_, err := NewClient(client).Quotes(context.Background(), []string{"sz000001"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403 - Forbidden")
}

func TestQuotes_NoSymbols(t *testing.T) {
	client := NewTestClient(func(req *http.Request) *http.Response {
		t.Fatal("no request expected")
		return nil
	})

	batch, err := NewClient(client).Quotes(context.Background(), []string{" ", ""})
	require.NoError(t, err)
	assert.Empty(t, batch.Quotes)
}

func TestNewClient_Options(t *testing.T) {
	client := NewTestClient(func(req *http.Request) *http.Response {
		assert.Equal(t, "http://localhost:8080/q=sz000001", req.URL.String())
		assert.Equal(t, "https://stockapp.finance.qq.com/", req.Header.Get("Referer"))
		return gbkResponse(t, bodyFor(req))
	})

	qt := NewClient(client,
		WithBaseURL("http://localhost:8080/"),
		WithHeader("Referer", "https://stockapp.finance.qq.com/"),
	)
	batch, err := qt.Quotes(context.Background(), []string{"sz000001"})
	require.NoError(t, err)
	assert.Len(t, batch.Quotes, 1)
}

func TestWithMarketPrefix(t *testing.T) {
	for in, want := range map[string]string{
		"600036":   "sh600036",
		"510300":   "sh510300",
		"000001":   "sz000001",
		"300750":   "sz300750",
		"159928":   "sz159928",
		"830799":   "bj830799",
		"sz000001": "sz000001",
		"700000":   "700000",
		"12345":    "12345",
		"hk00700":  "hk00700",
	} {
		assert.Equal(t, want, WithMarketPrefix(in), in)
	}
}

func TestChunkSymbols(t *testing.T) {
	assert.Equal(t, [][]string{{"a", "b", "c"}}, chunkSymbols([]string{"a", "b", "c"}, 0))
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, chunkSymbols([]string{"a", "b", "c"}, 2))
	assert.Equal(t, [][]string{{"a"}}, chunkSymbols([]string{"a"}, 5))
}
