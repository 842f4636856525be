package entities

import (
	"fmt"
	"strings"
	"time"
)

// Account is a registered consumer or dealer
type Account struct {
	ID              string    `json:"id" db:"id"`
	Email           string    `json:"email" db:"email"`
	PasswordHash    string    `json:"-" db:"password"`
	Username        string    `json:"username" db:"username"`
	Dealer          bool      `json:"dealer" db:"dealer"`
	Street          string    `json:"street" db:"street"`
	HouseNumber     string    `json:"house_number" db:"house_number"`
	City            string    `json:"city" db:"city"`
	Zip             string    `json:"zip" db:"zip"`
	Phone           string    `json:"phone" db:"phone"`
	Age             *int      `json:"age,omitempty" db:"age"`
	Gender          string    `json:"gender" db:"gender"`
	TaxID           string    `json:"tax_id" db:"tax_id"`
	DefaultCategory *int64    `json:"default_category,omitempty" db:"default_category"`
	Location        *Position `json:"location,omitempty" db:"-"`
	ProfileImageURL string    `json:"profile_image_url,omitempty" db:"-"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// Registration is the sign-up payload
type Registration struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	Username        string `json:"username" validate:"required,max=50"`
	Dealer          bool   `json:"dealer"`
	Street          string `json:"street" validate:"required_if=Dealer true"`
	HouseNumber     string `json:"house_number" validate:"required_if=Dealer true"`
	City            string `json:"city" validate:"required_if=Dealer true"`
	Zip             string `json:"zip" validate:"required_if=Dealer true"`
	Phone           string `json:"phone"`
	Age             *int   `json:"age,omitempty" validate:"omitempty,gte=0,lte=150"`
	Gender          string `json:"gender"`
	TaxID           string `json:"tax_id"`
	DefaultCategory *int64 `json:"default_category,omitempty"`
}

// Address returns the postal address in geocoder form
func (r Registration) Address() string {
	return FormatAddress(r.Street, r.HouseNumber, r.Zip, r.City)
}

// AccountUpdate carries the fields a user changes. Nil fields are kept.
type AccountUpdate struct {
	Username        *string   `json:"username,omitempty" validate:"omitempty,min=1,max=50"`
	Street          *string   `json:"street,omitempty"`
	HouseNumber     *string   `json:"house_number,omitempty"`
	City            *string   `json:"city,omitempty"`
	Zip             *string   `json:"zip,omitempty"`
	Phone           *string   `json:"phone,omitempty"`
	Age             *int      `json:"age,omitempty" validate:"omitempty,gte=0,lte=150"`
	Gender          *string   `json:"gender,omitempty"`
	TaxID           *string   `json:"tax_id,omitempty"`
	DefaultCategory *int64    `json:"default_category,omitempty"`
	Location        *Position `json:"-"`
}

// HasAddress reports whether the update carries enough of an address to
// geocode it.
func (u AccountUpdate) HasAddress() bool {
	return nonEmpty(u.Street) && nonEmpty(u.City) && nonEmpty(u.Zip)
}

// Address returns the postal address in geocoder form
func (u AccountUpdate) Address() string {
	return FormatAddress(deref(u.Street), deref(u.HouseNumber), deref(u.Zip), deref(u.City))
}

// Credentials is the login payload
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// FormatAddress joins address parts as "Street 1, 12345 City"
func FormatAddress(street, houseNumber, zip, city string) string {
	line1 := strings.TrimSpace(fmt.Sprintf("%s %s", street, houseNumber))
	line2 := strings.TrimSpace(fmt.Sprintf("%s %s", zip, city))
	switch {
	case line1 == "":
		return line2
	case line2 == "":
		return line1
	}
	return line1 + ", " + line2
}

func nonEmpty(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
