package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/llehouerou/go-qtquote/qtquote/decoder"
	"github.com/shopspring/decimal"
)

func writeBatch(w io.Writer, format string, batch decoder.Batch) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(batch)
	}
	return writeTable(w, batch)
}

func writeTable(w io.Writer, batch decoder.Batch) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "CODE\tNAME\tNOW\tCHG%\tOPEN\tHIGH\tLOW\tVOLUME\tTURNOVER%\tPE\tSPREAD\tTIME\t")
	for _, q := range batch.Quotes {
		ts := "-"
		if q.Timestamp.Valid {
			ts = q.Timestamp.Time.Format("2006-01-02 15:04:05")
		}
		spread := "-"
		if s, ok := q.Spread(); ok {
			spread = s.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\t\n",
			q.Code, q.Name, q.Now, q.ChangePercent.StringFixed(2), q.Open, q.High, q.Low, q.Volume,
			formatNull(q.TurnoverRate), formatNull(q.PriceEarnings), spread, ts)
	}
	if batch.Dropped > 0 {
		fmt.Fprintf(tw, "\n%d line(s) dropped\t\n", batch.Dropped)
	}
	return tw.Flush()
}

func formatNull(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return d.Decimal.String()
}
