// Package decoder turns the tilde-delimited quote text served by qt.gtimg.cn
// into Quote records. It performs no I/O and keeps no mutable state, so a
// Decoder may be shared between goroutines.
package decoder

import (
	"fmt"
	"strings"
	"time"
)

const (
	defaultPrefix    = "v_"
	unknownSymbolTag = "pv_none_match"
)

// exchangeTime is the zone of the vendor timestamps (UTC+8, no DST).
var exchangeTime = time.FixedZone("CST", 8*60*60)

type Decoder struct {
	schema   Schema
	prefix   string
	location *time.Location
}

type Option func(*Decoder)

// WithPrefix sets the tag every line starts with. Default "v_".
func WithPrefix(prefix string) Option {
	return func(d *Decoder) {
		d.prefix = prefix
	}
}

// WithLocation sets the zone timestamps are read in. Default UTC+8.
func WithLocation(loc *time.Location) Option {
	return func(d *Decoder) {
		if loc != nil {
			d.location = loc
		}
	}
}

func New(schema Schema, options ...Option) (*Decoder, error) {
	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schema: %v", err)
	}
	d := &Decoder{
		schema:   append(Schema(nil), schema...),
		prefix:   defaultPrefix,
		location: exchangeTime,
	}
	for _, option := range options {
		option(d)
	}
	return d, nil
}

// MustNew is like New but panics on an invalid schema.
func MustNew(schema Schema, options ...Option) *Decoder {
	d, err := New(schema, options...)
	if err != nil {
		panic(err)
	}
	return d
}

var tencent = MustNew(TencentSchema())

// Default returns the decoder for the Tencent quote format.
func Default() *Decoder {
	return tencent
}

// DecodeLine decodes one quote line of the form v_<code>="t0~t1~...~tN~".
// On error the returned *DecodeError identifies the line and, for field
// failures, the position, field name and raw token.
func (d *Decoder) DecodeLine(line string) (Quote, Diagnostics, error) {
	line = strings.TrimSpace(line)
	code, tokens, err := d.split(line)
	if err != nil {
		return Quote{}, nil, err
	}

	c := &collector{line: code}
	q := Quote{Code: code}
	for _, f := range d.schema {
		if fe := d.coerce(f, tokens, &q, c); fe != nil {
			return Quote{}, nil, fieldLineError(code, fe)
		}
	}
	return q, c.diags, nil
}

func (d *Decoder) split(line string) (string, []string, error) {
	if !strings.HasPrefix(line, d.prefix) {
		return "", nil, lineError(line, ErrMissingPrefix)
	}
	rest := line[len(d.prefix):]
	eq := strings.IndexByte(rest, '=')
	if eq < 0 {
		return "", nil, lineError(line, ErrMissingSeparator)
	}
	code := rest[:eq]
	if code == "" {
		return "", nil, lineError(line, ErrEmptyIdentity)
	}
	if code == unknownSymbolTag {
		return "", nil, lineError(code, ErrUnknownSymbol)
	}

	payload := strings.TrimSpace(rest[eq+1:])
	if !strings.HasPrefix(payload, `"`) {
		return "", nil, lineError(code, ErrMissingPayload)
	}
	payload = payload[1:]
	if end := strings.LastIndexByte(payload, '"'); end >= 0 {
		payload = payload[:end]
	}
	payload = strings.TrimSuffix(payload, "~")
	return code, strings.Split(payload, "~"), nil
}
