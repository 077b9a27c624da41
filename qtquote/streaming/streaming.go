// Package streaming keeps a set of subscribed symbols up to date by polling a
// quote fetcher on a fixed period.
package streaming

//go:generate mockgen -package=streaming -destination=mock_fetcher_test.go -source=streaming.go Fetcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/llehouerou/go-qtquote/qtquote/decoder"
	log "github.com/sirupsen/logrus"
)

var (
	ErrNoSymbols      = errors.New("no symbols")
	ErrAlreadyStarted = errors.New("streaming client already started")
)

// Fetcher is satisfied by *qtquote.Client.
type Fetcher interface {
	Quotes(ctx context.Context, symbols []string) (decoder.Batch, error)
}

// Handler receives every batch fetched by the client, in fetch order.
type Handler func(decoder.Batch)

// Client caches the last quote of each subscribed symbol, keyed by the quote
// code, so symbols should be subscribed with their market prefix.
type Client struct {
	fetcher           Fetcher
	quoteUpdatePeriod time.Duration
	handler           Handler

	symbols *SymbolSet
	quotes  *QuoteMap
	// cacheMu orders cache writes from Poll against UnSubscribeQuotes.
	cacheMu sync.Mutex

	startOnce sync.Once
	stopped   chan struct{}
}

func NewStreamingClient(fetcher Fetcher, updatePeriod time.Duration, handler Handler) *Client {
	return &Client{
		fetcher:           fetcher,
		quoteUpdatePeriod: updatePeriod,
		handler:           handler,
		symbols:           NewSymbolSet(),
		quotes:            NewQuoteMap(),
		stopped:           make(chan struct{}),
	}
}

// Start polls every update period until ctx is done. It returns at once; use
// Stopped to wait for the loop to exit.
func (c *Client) Start(ctx context.Context) error {
	if c.quoteUpdatePeriod <= 0 {
		return fmt.Errorf("invalid update period: %s", c.quoteUpdatePeriod)
	}
	err := ErrAlreadyStarted
	c.startOnce.Do(func() {
		err = nil
		go c.loopUpdateQuotes(ctx)
	})
	return err
}

// Stopped is closed once the loop launched by Start has returned.
func (c *Client) Stopped() <-chan struct{} {
	return c.stopped
}

func (c *Client) SubscribeQuotes(symbols []string) error {
	symbols = clean(symbols)
	if len(symbols) == 0 {
		return fmt.Errorf("subscribing quotes: %w", ErrNoSymbols)
	}
	if n := c.symbols.Add(symbols...); n > 0 {
		log.Debugf("subscribed %d symbols", n)
	}
	return nil
}

func (c *Client) UnSubscribeQuotes(symbols []string) error {
	symbols = clean(symbols)
	if len(symbols) == 0 {
		return fmt.Errorf("unsubscribing quotes: %w", ErrNoSymbols)
	}
	c.cacheMu.Lock()
	n := c.symbols.Remove(symbols...)
	c.quotes.Delete(symbols...)
	c.cacheMu.Unlock()
	if n > 0 {
		log.Debugf("unsubscribed %d symbols", n)
	}
	return nil
}

// Subscriptions returns the subscribed symbols in subscription order.
func (c *Client) Subscriptions() []string {
	return c.symbols.List()
}

// GetQuote returns the last quote received for code.
func (c *Client) GetQuote(code string) (decoder.Quote, bool) {
	return c.quotes.Get(code)
}

// Poll fetches the subscribed symbols once, records the quotes and hands the
// batch to the handler. With no subscription it returns an empty batch
// without fetching.
func (c *Client) Poll(ctx context.Context) (decoder.Batch, error) {
	symbols := c.symbols.List()
	if len(symbols) == 0 {
		return decoder.Batch{Quotes: []decoder.Quote{}}, nil
	}
	batch, err := c.fetcher.Quotes(ctx, symbols)
	if err != nil {
		return decoder.Batch{}, fmt.Errorf("retrieving quote updates: %v", err)
	}
	c.cacheMu.Lock()
	for _, q := range batch.Quotes {
		// the symbol may have been unsubscribed while the fetch was in flight
		if c.symbols.Has(q.Code) {
			c.quotes.Set(q.Code, q)
		}
	}
	c.cacheMu.Unlock()
	if c.handler != nil {
		c.handler(batch)
	}
	return batch, nil
}

func (c *Client) loopUpdateQuotes(ctx context.Context) {
	defer close(c.stopped)
	ticker := time.NewTicker(c.quoteUpdatePeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, err := c.Poll(ctx)
			if err != nil && ctx.Err() == nil {
				log.Errorf("polling quotes: %v", err)
			}
		}
	}
}

func clean(symbols []string) []string {
	res := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.TrimSpace(s)
		if s != "" {
			res = append(res, s)
		}
	}
	return res
}
