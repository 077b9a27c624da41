package decoder

import (
	"github.com/sirupsen/logrus"
)

// Diagnostic records a recoverable anomaly met while decoding. Levels follow
// logrus: InfoLevel for absent optional fields, WarnLevel for malformed
// optional fields, ErrorLevel for dropped lines.
type Diagnostic struct {
	Line    string       `json:"line"`
	Field   string       `json:"field,omitempty"`
	Message string       `json:"message"`
	Level   logrus.Level `json:"level"`
}

type Diagnostics []Diagnostic

// Warnings returns the diagnostics at WarnLevel or more severe.
func (d Diagnostics) Warnings() Diagnostics {
	var res Diagnostics
	for _, diag := range d {
		if diag.Level <= logrus.WarnLevel {
			res = append(res, diag)
		}
	}
	return res
}

func (d Diagnostics) ForLine(line string) Diagnostics {
	var res Diagnostics
	for _, diag := range d {
		if diag.Line == line {
			res = append(res, diag)
		}
	}
	return res
}

// Log replays the diagnostics on entry, each at its own level.
func (d Diagnostics) Log(entry *logrus.Entry) {
	for _, diag := range d {
		e := entry.WithField("line", diag.Line)
		if diag.Field != "" {
			e = e.WithField("field", diag.Field)
		}
		e.Log(diag.Level, diag.Message)
	}
}

type collector struct {
	line  string
	diags Diagnostics
}

func (c *collector) add(level logrus.Level, field, message string) {
	c.diags = append(c.diags, Diagnostic{
		Line:    c.line,
		Field:   field,
		Message: message,
		Level:   level,
	})
}
