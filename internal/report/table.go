// Package report shapes pipeline results into ordered tables for JSON
// rendering and CSV export.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Kind names a report table.
type Kind string

const (
	KindCampaigns       Kind = "campaign_performance"
	KindInfluencers     Kind = "influencer_insights"
	KindTopInfluencers  Kind = "top_influencers"
	KindPersonas        Kind = "personas"
	KindUnderperformers Kind = "underperformers"
	KindPayouts         Kind = "payout_tracking"
)

// AllKinds lists every report table in export order.
func AllKinds() []Kind {
	return []Kind{KindCampaigns, KindInfluencers, KindTopInfluencers, KindPersonas, KindUnderperformers, KindPayouts}
}

// ParseKind accepts a report name or its short route alias.
func ParseKind(s string) (Kind, error) {
	switch s {
	case string(KindCampaigns), "campaigns":
		return KindCampaigns, nil
	case string(KindInfluencers), "influencers":
		return KindInfluencers, nil
	case string(KindTopInfluencers), "top":
		return KindTopInfluencers, nil
	case string(KindPersonas):
		return KindPersonas, nil
	case string(KindUnderperformers):
		return KindUnderperformers, nil
	case string(KindPayouts), "payouts":
		return KindPayouts, nil
	}
	return "", fmt.Errorf("unknown report %q", s)
}

// FileName is the export file name of the report.
func (k Kind) FileName() string { return string(k) + ".csv" }

// Table is an ordered sequence of uniformly shaped rows. Cells hold
// string, int, int64, float64, pointers to those, or nil.
type Table struct {
	Kind    Kind     `json:"kind"`
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// Records renders the header and every row as strings.
func (t *Table) Records() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, append([]string(nil), t.Columns...))
	for _, row := range t.Rows {
		rec := make([]string, len(row))
		for i, cell := range row {
			rec[i] = FormatCell(cell)
		}
		out = append(out, rec)
	}
	return out
}

// WriteCSV writes the header row followed by the data rows.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(t.Records()); err != nil {
		return fmt.Errorf("write %s csv: %w", t.Kind, err)
	}
	return nil
}

// FormatCell renders one cell. Numbers use no locale formatting and nil
// renders as an empty field.
func FormatCell(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case *string:
		if c == nil {
			return ""
		}
		return *c
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case *float64:
		if c == nil {
			return ""
		}
		return strconv.FormatFloat(*c, 'f', -1, 64)
	case int:
		return strconv.Itoa(c)
	case int64:
		return strconv.FormatInt(c, 10)
	case *int64:
		if c == nil {
			return ""
		}
		return strconv.FormatInt(*c, 10)
	case fmt.Stringer:
		return c.String()
	default:
		return fmt.Sprintf("%v", c)
	}
}
