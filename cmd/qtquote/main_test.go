package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/llehouerou/go-qtquote/qtquote/decoder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pinganLine = `v_sz000001="51~平安银行~000001~15.81~15.90~15.90~821772~381881~439892~15.81~506~15.80~1439~15.79~2145~15.78~3932~15.77~687~15.82~343~15.83~2665~15.84~1449~15.85~2681~15.86~1157~~20220419161403~-0.09~-0.57~15.97~15.62~15.81/821772/1294226951~821772~129423~0.42~8.44~~15.97~15.62~2.20~3068.01~3068.08~0.94~17.49~14.31~0.79~414~15.75~8.44~8.44~~~1.33~129422.6951~0.0000~0~ ~GP-A~-4.07~-0.69~1.14~9.19~0.74~25.16~13.22~0.38~7.55~-3.18~19405522500~19405918750~2.43~-23.25~19405522500~"`

type stubFetcher struct {
	calls int32
	err   error
	last  atomic.Value
}

func (f *stubFetcher) Quotes(ctx context.Context, symbols []string) (decoder.Batch, error) {
	atomic.AddInt32(&f.calls, 1)
	f.last.Store(symbols)
	if f.err != nil {
		return decoder.Batch{}, f.err
	}
	return decoder.DecodeBatch(pinganLine + `;v_pv_none_match="1";`), nil
}

func TestRun_JSON(t *testing.T) {
	var out bytes.Buffer
	cfg := &Config{Symbols: []string{"sz000001"}, Format: "json"}

	require.NoError(t, run(context.Background(), cfg, &stubFetcher{}, &out))

	var got struct {
		Quotes []struct {
			Code string `json:"code"`
			Now  string `json:"now"`
		} `json:"quotes"`
		Dropped int `json:"dropped"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got.Quotes, 1)
	assert.Equal(t, "sz000001", got.Quotes[0].Code)
	assert.Equal(t, "15.81", got.Quotes[0].Now)
	assert.Equal(t, 1, got.Dropped)
}

func TestRun_Text(t *testing.T) {
	var out bytes.Buffer
	cfg := &Config{Symbols: []string{"sz000001"}, Format: "text"}

	require.NoError(t, run(context.Background(), cfg, &stubFetcher{}, &out))

	text := out.String()
	assert.Contains(t, text, "CODE")
	assert.Contains(t, text, "平安银行")
	assert.Contains(t, text, "2022-04-19 16:14:03")
	assert.Contains(t, text, "1 line(s) dropped")
}

func TestRun_FetchError(t *testing.T) {
	cfg := &Config{Symbols: []string{"sz000001"}, Format: "text"}
	err := run(context.Background(), cfg, &stubFetcher{err: errors.New("boom")}, &bytes.Buffer{})
	assert.EqualError(t, err, "boom")
}

func TestRun_Watch(t *testing.T) {
	var out bytes.Buffer
	fetcher := &stubFetcher{}
	cfg := &Config{Symbols: []string{"sz000001"}, Format: "json", Watch: 5 * time.Millisecond}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	require.NoError(t, run(ctx, cfg, fetcher, &out))

	assert.GreaterOrEqual(t, atomic.LoadInt32(&fetcher.calls), int32(2))
	assert.Contains(t, out.String(), `"code": "sz000001"`)
}

func TestRun_WatchAutoPrefix(t *testing.T) {
	fetcher := &stubFetcher{}
	cfg := &Config{Symbols: []string{"000001", "sh600036"}, Format: "text", AutoPrefix: true, Watch: time.Hour}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.NoError(t, run(ctx, cfg, fetcher, &bytes.Buffer{}))

	assert.Equal(t, []string{"sz000001", "sh600036"}, fetcher.last.Load())
}

func TestConfigureLogging(t *testing.T) {
	assert.NoError(t, configureLogging(&Config{LogLevel: "debug", LogFormat: "json"}))
	assert.Error(t, configureLogging(&Config{LogLevel: "loud", LogFormat: "text"}))
	assert.NoError(t, configureLogging(&Config{LogLevel: "warning", LogFormat: "text"}))
}
