package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"
	"github.com/zatekoja/localdeals/internal/domain/entities"
	"github.com/zatekoja/localdeals/internal/domain/repositories"
	"github.com/zatekoja/localdeals/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/localdeals/pkg/datetime"
	apperrors "github.com/zatekoja/localdeals/pkg/errors"
)

const (
	dealsTable       = "deals"
	activeDealsView  = "active_deals_view"
	dealsWithinQuery = "get_active_deals_within_extent(?, ?, ?)"
)

var dealColumns = []interface{}{
	"id", "dealer_id", "title", "description", "category_id",
	"duration", "start", "template", "likes",
	goqu.L("ST_Y(location::geometry)").As("latitude"),
	goqu.L("ST_X(location::geometry)").As("longitude"),
}

var activeDealColumns = append(append([]interface{}{}, dealColumns...), "company_name")

// orderColumns are the columns a deal search may be sorted by
var orderColumns = map[string]string{
	"likes":    "likes",
	"start":    "start",
	"title":    "title",
	"duration": "duration",
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// DealAdapter implements DealRepository on the deals table, the active deals
// view and the geospatial search function
type DealAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewDealAdapter creates a new deal adapter
func NewDealAdapter(client *postgres.Client) repositories.DealRepository {
	return &DealAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByID retrieves a deal by ID
func (a *DealAdapter) GetByID(ctx context.Context, id string) (*entities.Deal, error) {
	query, args, err := a.db.Select(dealColumns...).
		From(dealsTable).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	deal, err := scanDeal(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) || isInvalidText(err) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("deal with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get deal", err)
	}

	return deal, nil
}

// Upsert inserts the deal or updates the row with the same ID when it belongs
// to the same dealer
func (a *DealAdapter) Upsert(ctx context.Context, deal *entities.Deal) (string, error) {
	if deal.ID == "" {
		return "", apperrors.NewInternalError("deal id is empty", fmt.Errorf("deal id is empty"))
	}

	record := goqu.Record{
		"id":          deal.ID,
		"dealer_id":   deal.DealerID,
		"title":       deal.Title,
		"description": deal.Description,
		"category_id": deal.CategoryID,
		"duration":    deal.Duration,
		"start":       deal.Start,
		"template":    deal.Template,
		"location":    locationValue(deal.Location),
	}

	update := goqu.Record{}
	for k, v := range record {
		if k != "id" && k != "dealer_id" {
			update[k] = v
		}
	}

	query, args, err := a.db.Insert(dealsTable).
		Rows(record).
		OnConflict(goqu.DoUpdate("id", update).
			Where(goqu.I("deals.dealer_id").Eq(deal.DealerID))).
		Returning("id").
		ToSQL()
	if err != nil {
		return "", apperrors.NewInternalError("failed to build upsert query", err)
	}

	var id string
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperrors.NewNotFoundError(fmt.Sprintf("deal with id %s not found", deal.ID))
	}
	if isForeignKeyViolation(err) {
		return "", apperrors.NewValidationError("unknown category")
	}
	if isInvalidText(err) {
		return "", apperrors.NewValidationError("id is not a valid deal id")
	}
	if err != nil {
		return "", apperrors.NewInternalError("failed to upsert deal", err)
	}

	return id, nil
}

// Delete removes a deal owned by dealerID
func (a *DealAdapter) Delete(ctx context.Context, id, dealerID string) error {
	query, args, err := a.db.Delete(dealsTable).
		Where(goqu.Ex{"id": id, "dealer_id": dealerID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if isInvalidText(err) {
		return apperrors.NewNotFoundError(fmt.Sprintf("deal with id %s not found", id))
	}
	if err != nil {
		return apperrors.NewInternalError("failed to delete deal", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("deal with id %s not found", id))
	}

	return nil
}

// List retrieves deals from the deals table, newest start first
func (a *DealAdapter) List(ctx context.Context, filter repositories.DealListFilter) ([]*entities.Deal, error) {
	ds := a.db.Select(dealColumns...).From(dealsTable)

	if filter.DealerID != "" {
		ds = ds.Where(goqu.Ex{"dealer_id": filter.DealerID})
	}
	if filter.Template != nil {
		ds = ds.Where(goqu.Ex{"template": *filter.Template})
	}
	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}

	query, args, err := ds.Order(goqu.I("start").Desc()).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list deals", err)
	}
	defer rows.Close()

	deals := make([]*entities.Deal, 0)
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan deal", err)
		}
		deals = append(deals, deal)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate deals", err)
	}

	return deals, nil
}

// GetActiveByID retrieves an active deal by ID
func (a *DealAdapter) GetActiveByID(ctx context.Context, id string) (*entities.ActiveDeal, error) {
	query, args, err := a.db.Select(activeDealColumns...).
		From(activeDealsView).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	deal, err := scanActiveDeal(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) || isInvalidText(err) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("active deal with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get active deal", err)
	}

	return deal, nil
}

// ListActiveByDealers retrieves the active deals of the given dealers
func (a *DealAdapter) ListActiveByDealers(ctx context.Context, dealerIDs []string) ([]*entities.ActiveDeal, error) {
	if len(dealerIDs) == 0 {
		return []*entities.ActiveDeal{}, nil
	}

	ds := a.db.Select(activeDealColumns...).
		From(activeDealsView).
		Where(goqu.Ex{"dealer_id": dealerIDs}).
		Order(goqu.I("start").Asc())

	return a.queryActive(ctx, ds, "failed to list active deals by dealer")
}

// ListActiveByIDs retrieves active deals by ID. Inactive IDs are skipped.
func (a *DealAdapter) ListActiveByIDs(ctx context.Context, ids []string) ([]*entities.ActiveDeal, error) {
	if len(ids) == 0 {
		return []*entities.ActiveDeal{}, nil
	}

	ds := a.db.Select(activeDealColumns...).
		From(activeDealsView).
		Where(goqu.Ex{"id": ids}).
		Order(goqu.I("start").Asc())

	return a.queryActive(ctx, ds, "failed to list active deals")
}

// ListActiveWithin calls the geospatial search function with either the
// extent or the point and radius and refines the result with the category,
// order and limit of the query
func (a *DealAdapter) ListActiveWithin(ctx context.Context, q entities.DealQuery) ([]*entities.ActiveDeal, error) {
	var extent, location, radius interface{}

	switch q.Mode {
	case entities.GeoModeExtent:
		extent = pq.Array(q.Extent[:])
	case entities.GeoModeRadius:
		location = pq.Array(q.Location.Coordinate())
		radius = q.Radius
	default:
		return nil, apperrors.NewValidationError("deal query needs an extent or a location with radius")
	}

	ds := a.db.Select(activeDealColumns...).
		From(goqu.L(dealsWithinQuery, extent, location, radius).As("d"))

	if len(q.CategoryIDs) > 0 {
		ds = ds.Where(goqu.Ex{"category_id": q.CategoryIDs})
	}

	if q.Order != nil {
		column, ok := orderColumns[q.Order.Column]
		if !ok {
			return nil, apperrors.NewValidationError(fmt.Sprintf("cannot order deals by %q", q.Order.Column))
		}
		if q.Order.Ascending {
			ds = ds.Order(goqu.I(column).Asc())
		} else {
			ds = ds.Order(goqu.I(column).Desc())
		}
	}

	if q.Limit > 0 {
		ds = ds.Limit(uint(q.Limit))
	}

	return a.queryActive(ctx, ds, "failed to search active deals")
}

func (a *DealAdapter) queryActive(ctx context.Context, ds *goqu.SelectDataset, failure string) ([]*entities.ActiveDeal, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError(failure, err)
	}
	defer rows.Close()

	deals := make([]*entities.ActiveDeal, 0)
	for rows.Next() {
		deal, err := scanActiveDeal(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan active deal", err)
		}
		deals = append(deals, deal)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError(failure, err)
	}

	return deals, nil
}

func scanDeal(row rowScanner, extra ...interface{}) (*entities.Deal, error) {
	deal := &entities.Deal{ImageURLs: []string{}}
	var description sql.NullString
	var start time.Time
	var lat, lon sql.NullFloat64

	dest := []interface{}{
		&deal.ID,
		&deal.DealerID,
		&deal.Title,
		&description,
		&deal.CategoryID,
		&deal.Duration,
		&start,
		&deal.Template,
		&deal.Likes,
		&lat,
		&lon,
	}

	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	deal.Description = description.String
	deal.Start = start.Format(datetime.ZonedLayout)
	if lat.Valid && lon.Valid {
		deal.Location = &entities.Position{Latitude: lat.Float64, Longitude: lon.Float64}
	}

	return deal, nil
}

func scanActiveDeal(row rowScanner) (*entities.ActiveDeal, error) {
	var companyName sql.NullString
	deal, err := scanDeal(row, &companyName)
	if err != nil {
		return nil, err
	}
	return &entities.ActiveDeal{Deal: *deal, CompanyName: companyName.String}, nil
}

func locationValue(p *entities.Position) interface{} {
	if p == nil {
		return nil
	}
	return goqu.L("ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography", p.Longitude, p.Latitude)
}
