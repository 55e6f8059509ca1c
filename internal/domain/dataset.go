package domain

import (
	"fmt"
	"strings"
	"time"
)

// TableName identifies one of the four input tables.
type TableName string

const (
	TableInfluencers TableName = "influencers"
	TablePosts       TableName = "posts"
	TableTracking    TableName = "tracking"
	TablePayouts     TableName = "payouts"
)

// AllTables returns the four tables in load order.
func AllTables() []TableName {
	return []TableName{TableInfluencers, TablePosts, TableTracking, TablePayouts}
}

// ParseTableName accepts the canonical names plus the original upload
// labels ("tracking_data").
func ParseTableName(s string) (TableName, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "influencers":
		return TableInfluencers, nil
	case "posts":
		return TablePosts, nil
	case "tracking", "tracking_data":
		return TableTracking, nil
	case "payouts":
		return TablePayouts, nil
	}
	return "", fmt.Errorf("unknown table %q", s)
}

// Dataset is the working snapshot of all four tables. A Dataset handed to a
// pipeline must not be mutated; replacing a table produces a new Dataset.
type Dataset struct {
	Version     string          `json:"version"`
	LoadedAt    time.Time       `json:"loaded_at"`
	Influencers []Influencer    `json:"influencers"`
	Posts       []Post          `json:"posts"`
	Tracking    []TrackingEntry `json:"tracking"`
	Payouts     []Payout        `json:"payouts"`
}

// Count returns the number of rows in the named table.
func (d *Dataset) Count(t TableName) int {
	if d == nil {
		return 0
	}
	switch t {
	case TableInfluencers:
		return len(d.Influencers)
	case TablePosts:
		return len(d.Posts)
	case TableTracking:
		return len(d.Tracking)
	case TablePayouts:
		return len(d.Payouts)
	}
	return 0
}

// Clone returns a copy whose slices do not alias d.
func (d *Dataset) Clone() *Dataset {
	if d == nil {
		return &Dataset{}
	}
	return &Dataset{
		Version:     d.Version,
		LoadedAt:    d.LoadedAt,
		Influencers: append([]Influencer(nil), d.Influencers...),
		Posts:       append([]Post(nil), d.Posts...),
		Tracking:    append([]TrackingEntry(nil), d.Tracking...),
		Payouts:     append([]Payout(nil), d.Payouts...),
	}
}

// CopyTable copies one table from src into d.
func (d *Dataset) CopyTable(src *Dataset, t TableName) {
	switch t {
	case TableInfluencers:
		d.Influencers = append([]Influencer(nil), src.Influencers...)
	case TablePosts:
		d.Posts = append([]Post(nil), src.Posts...)
	case TableTracking:
		d.Tracking = append([]TrackingEntry(nil), src.Tracking...)
	case TablePayouts:
		d.Payouts = append([]Payout(nil), src.Payouts...)
	}
}
