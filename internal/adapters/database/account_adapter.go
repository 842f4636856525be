package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/localdeals/internal/domain/entities"
	"github.com/zatekoja/localdeals/internal/domain/repositories"
	"github.com/zatekoja/localdeals/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/localdeals/pkg/errors"
)

const accountsTable = "accounts"

var accountColumns = []interface{}{
	"id", "email", "password", "username", "dealer",
	"street", "house_number", "city", "zip", "phone",
	"age", "gender", "tax_id", "default_category",
	goqu.L("ST_Y(location::geometry)").As("latitude"),
	goqu.L("ST_X(location::geometry)").As("longitude"),
	"created_at",
}

// AccountAdapter implements the AccountRepository interface
type AccountAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAccountAdapter creates a new account adapter
func NewAccountAdapter(client *postgres.Client) repositories.AccountRepository {
	return &AccountAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new account
func (a *AccountAdapter) Create(ctx context.Context, account *entities.Account) error {
	record := goqu.Record{
		"id":               account.ID,
		"email":            account.Email,
		"password":         account.PasswordHash,
		"username":         account.Username,
		"dealer":           account.Dealer,
		"street":           nullString(account.Street),
		"house_number":     nullString(account.HouseNumber),
		"city":             nullString(account.City),
		"zip":              nullString(account.Zip),
		"phone":            nullString(account.Phone),
		"age":              nullInt(account.Age),
		"gender":           nullString(account.Gender),
		"tax_id":           nullString(account.TaxID),
		"default_category": nullInt64(account.DefaultCategory),
		"location":         locationValue(account.Location),
		"created_at":       account.CreatedAt,
	}

	query, args, err := a.db.Insert(accountsTable).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError("email or username already in use")
		}
		return apperrors.NewInternalError("failed to create account", err)
	}

	return nil
}

// GetByID retrieves an account by ID
func (a *AccountAdapter) GetByID(ctx context.Context, id string) (*entities.Account, error) {
	return a.getBy(ctx, "id", id)
}

// GetByEmail retrieves an account by email
func (a *AccountAdapter) GetByEmail(ctx context.Context, email string) (*entities.Account, error) {
	return a.getBy(ctx, "email", email)
}

func (a *AccountAdapter) getBy(ctx context.Context, field, value string) (*entities.Account, error) {
	query, args, err := a.db.Select(accountColumns...).
		From(accountsTable).
		Where(goqu.Ex{field: value}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	account := &entities.Account{}
	var street, houseNumber, city, zip, phone, gender, taxID sql.NullString
	var age, defaultCategory sql.NullInt64
	var lat, lon sql.NullFloat64

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.Username,
		&account.Dealer,
		&street,
		&houseNumber,
		&city,
		&zip,
		&phone,
		&age,
		&gender,
		&taxID,
		&defaultCategory,
		&lat,
		&lon,
		&account.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) || isInvalidText(err) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("account with %s %s not found", field, value))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get account", err)
	}

	account.Street = street.String
	account.HouseNumber = houseNumber.String
	account.City = city.String
	account.Zip = zip.String
	account.Phone = phone.String
	account.Gender = gender.String
	account.TaxID = taxID.String
	if age.Valid {
		v := int(age.Int64)
		account.Age = &v
	}
	if defaultCategory.Valid {
		v := defaultCategory.Int64
		account.DefaultCategory = &v
	}
	if lat.Valid && lon.Valid {
		account.Location = &entities.Position{Latitude: lat.Float64, Longitude: lon.Float64}
	}

	return account, nil
}

// UsernameExists reports whether an account other than excludeID uses username
func (a *AccountAdapter) UsernameExists(ctx context.Context, username, excludeID string) (bool, error) {
	ds := a.db.Select(goqu.COUNT("*")).
		From(accountsTable).
		Where(goqu.Ex{"username": username})
	if excludeID != "" {
		ds = ds.Where(goqu.C("id").Neq(excludeID))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build query", err)
	}

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, apperrors.NewInternalError("failed to check username", err)
	}
	return count > 0, nil
}

// Update applies the non-nil fields of update
func (a *AccountAdapter) Update(ctx context.Context, id string, update *entities.AccountUpdate) error {
	record := goqu.Record{}
	setString := func(column string, v *string) {
		if v != nil {
			record[column] = *v
		}
	}
	setString("username", update.Username)
	setString("street", update.Street)
	setString("house_number", update.HouseNumber)
	setString("city", update.City)
	setString("zip", update.Zip)
	setString("phone", update.Phone)
	setString("gender", update.Gender)
	setString("tax_id", update.TaxID)
	if update.Age != nil {
		record["age"] = *update.Age
	}
	if update.DefaultCategory != nil {
		record["default_category"] = *update.DefaultCategory
	}
	if update.Location != nil {
		record["location"] = locationValue(update.Location)
	}

	if len(record) == 0 {
		return nil
	}

	query, args, err := a.db.Update(accountsTable).
		Set(record).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError("username already taken")
		}
		return apperrors.NewInternalError("failed to update account", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("account with id %s not found", id))
	}

	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
