package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	_ "github.com/lib/pq"                  // PostgreSQL driver
	_ "github.com/snowflakedb/gosnowflake" // Snowflake driver

	"github.com/ignite/influencer-roi/internal/domain"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*){0,2}$`)

// OpenSQL opens a pooled connection for the postgres or snowflake driver.
func OpenSQL(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case "postgres", "snowflake":
	default:
		return nil, fmt.Errorf("%w: sql driver %q", ErrUnknownSource, driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", driver, err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

// DefaultSQLTables maps each input table to a SQL table of the same name.
func DefaultSQLTables() map[domain.TableName]string {
	out := make(map[domain.TableName]string, 4)
	for _, t := range domain.AllTables() {
		out[t] = string(t)
	}
	return out
}

// sqlTableNames applies configured overrides and rejects anything that is
// not a plain, optionally schema-qualified identifier.
func sqlTableNames(overrides map[string]string) (map[domain.TableName]string, error) {
	tables := DefaultSQLTables()
	for key, name := range overrides {
		table, err := domain.ParseTableName(key)
		if err != nil {
			return nil, fmt.Errorf("datasource tables: %w", err)
		}
		if name == "" {
			continue
		}
		if !identPattern.MatchString(name) {
			return nil, fmt.Errorf("datasource tables: invalid identifier %q", name)
		}
		tables[table] = name
	}
	return tables, nil
}

// SQLSource reads the four tables with one SELECT each. NULL text is
// missing and NULL numbers are 0.
type SQLSource struct {
	db     *sql.DB
	driver string
	tables map[domain.TableName]string
}

// NewSQLSource wraps an open database. A nil tables map uses
// DefaultSQLTables.
func NewSQLSource(db *sql.DB, driver string, tables map[domain.TableName]string) *SQLSource {
	if tables == nil {
		tables = DefaultSQLTables()
	}
	return &SQLSource{db: db, driver: driver, tables: tables}
}

func (s *SQLSource) Name() string { return "sql:" + s.driver }

// Close closes the database connection
func (s *SQLSource) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping tests the database connection
func (s *SQLSource) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLSource) Load(ctx context.Context) (*domain.Dataset, error) {
	ds := &domain.Dataset{}
	var err error
	if ds.Influencers, err = s.influencers(ctx); err != nil {
		return nil, err
	}
	if ds.Posts, err = s.posts(ctx); err != nil {
		return nil, err
	}
	if ds.Tracking, err = s.tracking(ctx); err != nil {
		return nil, err
	}
	if ds.Payouts, err = s.payouts(ctx); err != nil {
		return nil, err
	}
	logLoaded(s, ds)
	return ds, nil
}

func (s *SQLSource) query(ctx context.Context, table domain.TableName, scan func(*sql.Rows) error) error {
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(selectColumns[table], ", "), s.tables[table])
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("scan %s: %w", table, err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate %s: %w", table, err)
	}
	return nil
}

var selectColumns = map[domain.TableName][]string{
	domain.TableInfluencers: {"id", "name", "category", "gender", "follower_count", "platform"},
	domain.TablePosts:       {"influencer_id", "platform", "date", "url", "caption", "reach", "likes", "comments"},
	domain.TableTracking:    {"source", "campaign", "influencer_id", "user_id", "product", "date", "orders", "revenue"},
	domain.TablePayouts:     {"influencer_id", "campaign", "basis", "rate", "orders", "total_payout"},
}

func (s *SQLSource) influencers(ctx context.Context) ([]domain.Influencer, error) {
	out := []domain.Influencer{}
	err := s.query(ctx, domain.TableInfluencers, func(rows *sql.Rows) error {
		var id, name, category, gender, platform sql.NullString
		var followers sql.NullFloat64
		if err := rows.Scan(&id, &name, &category, &gender, &followers, &platform); err != nil {
			return err
		}
		out = append(out, domain.Influencer{
			ID:            domain.NewInfluencerID(id.String),
			Name:          name.String,
			Category:      category.String,
			Gender:        gender.String,
			FollowerCount: int64(followers.Float64),
			Platform:      platform.String,
		})
		return nil
	})
	return out, err
}

func (s *SQLSource) posts(ctx context.Context) ([]domain.Post, error) {
	out := []domain.Post{}
	err := s.query(ctx, domain.TablePosts, func(rows *sql.Rows) error {
		var id, platform, date, url, caption sql.NullString
		var reach, likes, comments sql.NullFloat64
		if err := rows.Scan(&id, &platform, &date, &url, &caption, &reach, &likes, &comments); err != nil {
			return err
		}
		out = append(out, domain.Post{
			InfluencerID: domain.NewInfluencerID(id.String),
			Platform:     platform.String,
			Date:         date.String,
			URL:          url.String,
			Caption:      caption.String,
			Reach:        int64(reach.Float64),
			Likes:        int64(likes.Float64),
			Comments:     int64(comments.Float64),
		})
		return nil
	})
	return out, err
}

func (s *SQLSource) tracking(ctx context.Context) ([]domain.TrackingEntry, error) {
	out := []domain.TrackingEntry{}
	err := s.query(ctx, domain.TableTracking, func(rows *sql.Rows) error {
		var source, campaign, id, user, product, date sql.NullString
		var orders, revenue sql.NullFloat64
		if err := rows.Scan(&source, &campaign, &id, &user, &product, &date, &orders, &revenue); err != nil {
			return err
		}
		out = append(out, domain.TrackingEntry{
			Source:       source.String,
			Campaign:     strings.TrimSpace(campaign.String),
			InfluencerID: domain.NewInfluencerID(id.String),
			UserID:       user.String,
			Product:      product.String,
			Date:         date.String,
			Orders:       int64(orders.Float64),
			Revenue:      revenue.Float64,
		})
		return nil
	})
	return out, err
}

func (s *SQLSource) payouts(ctx context.Context) ([]domain.Payout, error) {
	out := []domain.Payout{}
	err := s.query(ctx, domain.TablePayouts, func(rows *sql.Rows) error {
		var id, campaign, basis sql.NullString
		var rate, orders, total sql.NullFloat64
		if err := rows.Scan(&id, &campaign, &basis, &rate, &orders, &total); err != nil {
			return err
		}
		out = append(out, domain.Payout{
			InfluencerID: domain.NewInfluencerID(id.String),
			Campaign:     strings.TrimSpace(campaign.String),
			Basis:        domain.PayoutBasis(basis.String),
			Rate:         rate.Float64,
			Orders:       int64(orders.Float64),
			TotalPayout:  total.Float64,
		})
		return nil
	})
	return out, err
}
