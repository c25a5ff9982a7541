package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/yourorg/lead-scout/internal/canon"
	"github.com/yourorg/lead-scout/internal/models"
)

type UpsertStats struct {
	Written      int
	PriceChanges int
}

// PricePoint is one observed asking price.
type PricePoint struct {
	Price      int       `json:"price"`
	ObservedAt time.Time `json:"observedAt"`
}

const upsertProperty = `
INSERT INTO properties (id, property_key, address, zip, price, beds, baths, sqft, lot_size, year_built,
	property_type, days_on_market, price_drop, estimated_value, last_sold_price, last_sold_date, url, image_url,
	provider, motivation_score, score_factors, first_seen_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$22)
ON CONFLICT (id) DO UPDATE SET
	property_key=excluded.property_key, address=excluded.address, zip=excluded.zip, price=excluded.price,
	beds=excluded.beds, baths=excluded.baths, sqft=excluded.sqft, lot_size=excluded.lot_size,
	year_built=excluded.year_built, property_type=excluded.property_type, days_on_market=excluded.days_on_market,
	price_drop=excluded.price_drop, estimated_value=excluded.estimated_value, last_sold_price=excluded.last_sold_price,
	last_sold_date=excluded.last_sold_date, url=excluded.url, image_url=excluded.image_url, provider=excluded.provider,
	motivation_score=excluded.motivation_score, score_factors=excluded.score_factors, updated_at=excluded.updated_at`

// UpsertProperties writes props in one transaction and appends a price
// history row whenever a property is new or its price moved.
func (s *Store) UpsertProperties(ctx context.Context, props []models.Property, at time.Time) (UpsertStats, error) {
	var stats UpsertStats
	if s == nil || s.DB == nil {
		return stats, errors.New("nil db")
	}
	at = at.UTC()
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return stats, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, p := range props {
		if p.ID == "" {
			continue
		}
		var prev int64
		err = tx.QueryRowContext(ctx, `SELECT price FROM properties WHERE id = $1`, p.ID).Scan(&prev)
		changed := errors.Is(err, sql.ErrNoRows) || (err == nil && prev != int64(p.Price))
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return stats, err
		}

		factors, mErr := json.Marshal(nonNil(p.ScoreFactors))
		if mErr != nil {
			err = mErr
			return stats, err
		}
		_, _, _, zip := canon.SplitLine(p.Address)
		if _, err = tx.ExecContext(ctx, upsertProperty,
			p.ID, canon.Key(p.Address), p.Address, zip, p.Price, p.Beds, p.Baths, p.Sqft, p.LotSize, p.YearBuilt,
			p.PropertyType, p.DaysOnMarket, p.PriceDrop, p.EstimatedValue, p.LastSoldPrice, p.LastSoldDate, p.URL, p.ImageURL,
			p.Provider, p.MotivationScore, string(factors), at,
		); err != nil {
			return stats, err
		}
		stats.Written++

		if changed && p.Price > 0 {
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO price_history (id, property_id, price, observed_at) VALUES ($1,$2,$3,$4)`,
				uuid.NewString(), p.ID, p.Price, at,
			); err != nil {
				return stats, err
			}
			stats.PriceChanges++
		}
	}
	err = tx.Commit()
	return stats, err
}

const selectProperty = `SELECT id, address, price, beds, baths, sqft, lot_size, year_built, property_type,
	days_on_market, price_drop, estimated_value, last_sold_price, last_sold_date, url, image_url, provider,
	motivation_score, score_factors FROM properties`

func (s *Store) GetProperty(ctx context.Context, id string) (models.Property, error) {
	row := s.DB.QueryRowContext(ctx, selectProperty+` WHERE id = $1`, id)
	p, err := scanProperty(row)
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	return p, err
}

// RecentByPostal lists the most recently refreshed properties in a zip code.
func (s *Store) RecentByPostal(ctx context.Context, zip string, limit int) ([]models.Property, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.DB.QueryContext(ctx, selectProperty+` WHERE zip = $1 ORDER BY updated_at DESC, id LIMIT $2`, zip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) PriceHistory(ctx context.Context, id string) ([]PricePoint, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT price, observed_at FROM price_history WHERE property_id = $1 ORDER BY observed_at`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []PricePoint{}
	for rows.Next() {
		var pp PricePoint
		if err := rows.Scan(&pp.Price, &pp.ObservedAt); err != nil {
			return nil, err
		}
		out = append(out, pp)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProperty(sc scanner) (models.Property, error) {
	var (
		p                                           models.Property
		beds, baths                                 sql.NullFloat64
		sqft, lot, year, dom, est, lastPrice, score sql.NullInt64
		lastDate                                    sql.NullString
		factors                                     string
	)
	err := sc.Scan(&p.ID, &p.Address, &p.Price, &beds, &baths, &sqft, &lot, &year, &p.PropertyType,
		&dom, &p.PriceDrop, &est, &lastPrice, &lastDate, &p.URL, &p.ImageURL, &p.Provider, &score, &factors)
	if err != nil {
		return p, err
	}
	p.Beds = nullFloat(beds)
	p.Baths = nullFloat(baths)
	p.Sqft = nullInt(sqft)
	p.LotSize = nullInt(lot)
	p.YearBuilt = nullInt(year)
	p.DaysOnMarket = nullInt(dom)
	p.EstimatedValue = nullInt(est)
	p.LastSoldPrice = nullInt(lastPrice)
	p.MotivationScore = nullInt(score)
	if lastDate.Valid {
		p.LastSoldDate = models.String(lastDate.String)
	}
	p.ScoreFactors = []string{}
	if factors != "" {
		if err := json.Unmarshal([]byte(factors), &p.ScoreFactors); err != nil {
			return p, err
		}
	}
	return p, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return models.Float(v.Float64)
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	return models.Int(int(v.Int64))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
