package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/llehouerou/go-qtquote/qtquote"
	"github.com/spf13/pflag"
)

// Config holds the command settings. Flags take precedence over environment
// variables, which take precedence over the env file.
type Config struct {
	Symbols     []string
	Timeout     time.Duration
	ChunkSize   int
	Concurrency int
	AutoPrefix  bool

	LogLevel  string
	LogFormat string

	// Format is the output format, "json" or "text".
	Format string
	// Watch is the polling period; zero fetches once.
	Watch time.Duration
}

// env resolves keys from the process environment, then from the env file.
type env map[string]string

func loadEnv(path string) (env, error) {
	values, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return env{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %v", path, err)
	}
	return values, nil
}

// getEnv returns the environment variable value or a default.
func (e env) getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	if value, exists := e[key]; exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as int or a default.
func (e env) getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(e.getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func (e env) getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(e.getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func splitSymbols(s string) []string {
	var res []string
	for _, symbol := range strings.Split(s, ",") {
		if symbol = strings.TrimSpace(symbol); symbol != "" {
			res = append(res, symbol)
		}
	}
	return res
}

func Load(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("qtquote", pflag.ContinueOnError)
	envFile := fs.String("env-file", ".env", "optional file of KEY=value settings")
	symbols := fs.StringP("symbols", "s", "", "comma separated symbols, e.g. sz000001,sh600036 (QTQUOTE_SYMBOLS)")
	timeout := fs.Int("timeout", 10, "request timeout in seconds (QTQUOTE_TIMEOUT_SEC)")
	chunkSize := fs.Int("chunk-size", qtquote.DefaultChunkSize, "symbols per request (QTQUOTE_CHUNK_SIZE)")
	concurrency := fs.Int("concurrency", qtquote.DefaultMaxConcurrency, "requests in flight (QTQUOTE_CONCURRENCY)")
	autoPrefix := fs.BoolP("auto-prefix", "p", false, "add the market prefix to bare six-digit codes (QTQUOTE_AUTO_PREFIX)")
	logLevel := fs.String("log-level", "warning", "log level (QTQUOTE_LOG_LEVEL)")
	logFormat := fs.String("log-format", "text", "log format, text or json (QTQUOTE_LOG_FORMAT)")
	format := fs.StringP("format", "f", "text", "output format, text or json (QTQUOTE_FORMAT)")
	watch := fs.Int("watch", 0, "poll every n seconds, 0 to fetch once (QTQUOTE_WATCH_SEC)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	e, err := loadEnv(*envFile)
	if err != nil {
		return nil, err
	}
	str := func(name, key string, value *string) string {
		if fs.Changed(name) {
			return *value
		}
		return e.getEnv(key, *value)
	}
	num := func(name, key string, value *int) int {
		if fs.Changed(name) {
			return *value
		}
		return e.getEnvInt(key, *value)
	}

	cfg := &Config{
		Symbols:     splitSymbols(str("symbols", "QTQUOTE_SYMBOLS", symbols)),
		Timeout:     time.Duration(num("timeout", "QTQUOTE_TIMEOUT_SEC", timeout)) * time.Second,
		ChunkSize:   num("chunk-size", "QTQUOTE_CHUNK_SIZE", chunkSize),
		Concurrency: num("concurrency", "QTQUOTE_CONCURRENCY", concurrency),
		AutoPrefix:  *autoPrefix,
		LogLevel:    str("log-level", "QTQUOTE_LOG_LEVEL", logLevel),
		LogFormat:   str("log-format", "QTQUOTE_LOG_FORMAT", logFormat),
		Format:      str("format", "QTQUOTE_FORMAT", format),
		Watch:       time.Duration(num("watch", "QTQUOTE_WATCH_SEC", watch)) * time.Second,
	}
	if !fs.Changed("auto-prefix") {
		cfg.AutoPrefix = e.getEnvBool("QTQUOTE_AUTO_PREFIX", *autoPrefix)
	}
	for _, arg := range fs.Args() {
		cfg.Symbols = append(cfg.Symbols, splitSymbols(arg)...)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.Symbols) == 0 {
		return errors.New("no symbols given")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout: %s", c.Timeout)
	}
	if c.Watch < 0 {
		return fmt.Errorf("invalid watch period: %s", c.Watch)
	}
	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown output format %q", c.Format)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}
