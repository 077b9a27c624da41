// Command qtquote prints real-time quotes from qt.gtimg.cn.
//
//	qtquote -f json sz000001 sh600036
//	QTQUOTE_WATCH_SEC=3 qtquote -p 600036,000001
package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/llehouerou/go-qtquote/qtquote"
	"github.com/llehouerou/go-qtquote/qtquote/decoder"
	"github.com/llehouerou/go-qtquote/qtquote/streaming"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

func main() {
	cfg, err := Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if err := configureLogging(cfg); err != nil {
		log.Fatalf("configuring logging: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, newClient(cfg), os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func configureLogging(cfg *Config) error {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}

func newClient(cfg *Config) *qtquote.Client {
	client := qtquote.NewClient(&http.Client{Timeout: cfg.Timeout})
	client.ChunkSize = cfg.ChunkSize
	client.MaxConcurrency = cfg.Concurrency
	client.AutoPrefix = cfg.AutoPrefix
	return client
}

func run(ctx context.Context, cfg *Config, fetcher streaming.Fetcher, out io.Writer) error {
	if cfg.Watch <= 0 {
		batch, err := fetcher.Quotes(ctx, cfg.Symbols)
		if err != nil {
			return err
		}
		return writeBatch(out, cfg.Format, batch)
	}

	s := streaming.NewStreamingClient(fetcher, cfg.Watch, func(batch decoder.Batch) {
		if err := writeBatch(out, cfg.Format, batch); err != nil {
			log.Errorf("writing quotes: %v", err)
		}
	})
	symbols := cfg.Symbols
	if cfg.AutoPrefix {
		symbols = make([]string, len(cfg.Symbols))
		for i, symbol := range cfg.Symbols {
			symbols[i] = qtquote.WithMarketPrefix(symbol)
		}
	}
	if err := s.SubscribeQuotes(symbols); err != nil {
		return err
	}
	if _, err := s.Poll(ctx); err != nil {
		log.Errorf("polling quotes: %v", err)
	}
	if err := s.Start(ctx); err != nil {
		return err
	}
	log.Infof("watching %d symbols every %s", len(cfg.Symbols), cfg.Watch)
	<-s.Stopped()
	return nil
}
