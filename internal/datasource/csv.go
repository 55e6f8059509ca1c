package datasource

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ignite/influencer-roi/internal/domain"
)

// ParseInfluencers reads the influencer roster.
func ParseInfluencers(r io.Reader) ([]domain.Influencer, error) {
	out := []domain.Influencer{}
	err := parse(domain.TableInfluencers, r, func(rec *record) {
		out = append(out, domain.Influencer{
			ID:            domain.NewInfluencerID(rec.text("id")),
			Name:          rec.text("name"),
			Category:      rec.text("category"),
			Gender:        rec.text("gender"),
			FollowerCount: rec.integer("follower_count"),
			Platform:      rec.text("platform"),
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ParsePosts reads the posts table.
func ParsePosts(r io.Reader) ([]domain.Post, error) {
	out := []domain.Post{}
	err := parse(domain.TablePosts, r, func(rec *record) {
		out = append(out, domain.Post{
			InfluencerID: domain.NewInfluencerID(rec.text("influencer_id")),
			Platform:     rec.text("platform"),
			Date:         rec.text("date"),
			URL:          rec.text("url"),
			Caption:      rec.text("caption"),
			Reach:        rec.integer("reach"),
			Likes:        rec.integer("likes"),
			Comments:     rec.integer("comments"),
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ParseTracking reads order attribution events.
func ParseTracking(r io.Reader) ([]domain.TrackingEntry, error) {
	out := []domain.TrackingEntry{}
	err := parse(domain.TableTracking, r, func(rec *record) {
		out = append(out, domain.TrackingEntry{
			Source:       rec.text("source"),
			Campaign:     rec.text("campaign"),
			InfluencerID: domain.NewInfluencerID(rec.text("influencer_id")),
			UserID:       rec.text("user_id"),
			Product:      rec.text("product"),
			Date:         rec.text("date"),
			Orders:       rec.integer("orders"),
			Revenue:      rec.decimal("revenue"),
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ParsePayouts reads payout agreements.
func ParsePayouts(r io.Reader) ([]domain.Payout, error) {
	out := []domain.Payout{}
	err := parse(domain.TablePayouts, r, func(rec *record) {
		out = append(out, domain.Payout{
			InfluencerID: domain.NewInfluencerID(rec.text("influencer_id")),
			Campaign:     rec.text("campaign"),
			Basis:        domain.PayoutBasis(rec.text("basis")),
			Rate:         rec.decimal("rate"),
			Orders:       rec.integer("orders"),
			TotalPayout:  rec.decimal("total_payout"),
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ParseTable parses r as the named table and stores it in ds, replacing
// the previous table in full. ds is left untouched on error.
func ParseTable(table domain.TableName, r io.Reader, ds *domain.Dataset) error {
	switch table {
	case domain.TableInfluencers:
		rows, err := ParseInfluencers(r)
		if err != nil {
			return err
		}
		ds.Influencers = rows
	case domain.TablePosts:
		rows, err := ParsePosts(r)
		if err != nil {
			return err
		}
		ds.Posts = rows
	case domain.TableTracking:
		rows, err := ParseTracking(r)
		if err != nil {
			return err
		}
		ds.Tracking = rows
	case domain.TablePayouts:
		rows, err := ParsePayouts(r)
		if err != nil {
			return err
		}
		ds.Payouts = rows
	default:
		return fmt.Errorf("parse table: unknown table %q", table)
	}
	return nil
}

// parse reads a CSV stream with a header row and calls fn per record. The
// first invalid cell stops the parse.
func parse(table domain.TableName, r io.Reader, fn func(*record)) error {
	reader := csv.NewReader(stripBOM(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s: %w", table, ErrEmptyFile)
		}
		return fmt.Errorf("%s: read header: %w", table, err)
	}

	index, err := mapColumns(table, header)
	if err != nil {
		return err
	}

	rec := &record{table: table, index: index}
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", table, err)
		}
		rec.line, _ = reader.FieldPos(0)
		rec.fields = fields
		fn(rec)
		if rec.err != nil {
			return rec.err
		}
	}
}

// record reads typed cells from one CSV row. Cells past the end of a short
// row are empty.
type record struct {
	table  domain.TableName
	index  map[string]int
	fields []string
	line   int
	err    error
}

func (r *record) text(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

// integer parses a whole number. Integral floats such as "3.0" are
// accepted; an empty cell is 0.
func (r *record) integer(col string) int64 {
	s := r.text(col)
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt64 {
		r.fail(col, s)
		return 0
	}
	return int64(f)
}

// decimal parses a finite number; an empty cell is 0.
func (r *record) decimal(col string) float64 {
	s := r.text(col)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		r.fail(col, s)
		return 0
	}
	return f
}

func (r *record) fail(col, value string) {
	if r.err == nil {
		r.err = &SchemaError{Table: r.table, Columns: []string{col}, Line: r.line, Value: value, Err: ErrInvalidValue}
	}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// stripBOM wraps a reader to strip a UTF-8 BOM if present.
func stripBOM(r io.Reader) io.Reader {
	buf := make([]byte, len(utf8BOM))
	n, err := io.ReadFull(r, buf)
	if err == nil && bytes.Equal(buf, utf8BOM) {
		return r
	}
	return io.MultiReader(bytes.NewReader(buf[:n]), r)
}
