package decoder

import (
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
)

// Batch is the result of decoding one response body. Quotes keep the order of
// their lines; every dropped line has exactly one ErrorLevel diagnostic.
type Batch struct {
	Quotes      []Quote     `json:"quotes"`
	Diagnostics Diagnostics `json:"diagnostics,omitempty"`
	Dropped     int         `json:"dropped"`
}

// Append adds other's results after b's.
func (b *Batch) Append(other Batch) {
	b.Quotes = append(b.Quotes, other.Quotes...)
	b.Diagnostics = append(b.Diagnostics, other.Diagnostics...)
	b.Dropped += other.Dropped
}

// DecodeBatch splits body on ';' and decodes each non-blank line on its own.
// A line that fails to decode is dropped and reported; it never affects the
// other lines.
func (d *Decoder) DecodeBatch(body string) Batch {
	b := Batch{Quotes: []Quote{}}
	for _, piece := range strings.Split(body, ";") {
		line := strings.TrimSpace(piece)
		if line == "" {
			continue
		}
		q, diags, err := d.DecodeLine(line)
		if err != nil {
			b.Dropped++
			b.Diagnostics = append(b.Diagnostics, dropped(line, err))
			continue
		}
		b.Quotes = append(b.Quotes, q)
		b.Diagnostics = append(b.Diagnostics, diags...)
	}
	return b
}

// DecodeBatch decodes body with the Tencent decoder.
func DecodeBatch(body string) Batch {
	return Default().DecodeBatch(body)
}

func dropped(line string, err error) Diagnostic {
	diag := Diagnostic{Line: line, Message: err.Error(), Level: logrus.ErrorLevel}
	var de *DecodeError
	if errors.As(err, &de) {
		diag.Line = de.Line
		diag.Field = de.Field
	}
	return diag
}
