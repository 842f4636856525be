package entities

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/zatekoja/localdeals/pkg/datetime"
)

// Deal is a time-boxed offer published by a dealer. Start is a naive wall
// clock value in the reference zone.
type Deal struct {
	ID          string    `json:"id" db:"id"`
	DealerID    string    `json:"dealer_id" db:"dealer_id"`
	Title       string    `json:"title" db:"title" validate:"required,max=120"`
	Description string    `json:"description" db:"description" validate:"max=2000"`
	CategoryID  int64     `json:"category_id" db:"category_id" validate:"required,gt=0"`
	Duration    int       `json:"duration" db:"duration" validate:"gte=1,lte=720"` // hours
	Start       string    `json:"start" db:"start" validate:"required"`
	Template    bool      `json:"template" db:"template"`
	Likes       int       `json:"likes" db:"likes"`
	Location    *Position `json:"location,omitempty" db:"-"`
	ImageURLs   []string  `json:"imageUrls" db:"-"`
}

// ActiveDeal is a row of active_deals_view with the fields derived per request.
type ActiveDeal struct {
	Deal
	CompanyName string `json:"company_name" db:"company_name"`
	IsHot       bool   `json:"isHot" db:"-"`
}

// Position is a WGS84 coordinate.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// UnmarshalJSON accepts both {latitude, longitude} and the short {lat, lon}.
func (p *Position) UnmarshalJSON(data []byte) error {
	var raw struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
		Lat       *float64 `json:"lat"`
		Lon       *float64 `json:"lon"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	lat, lon := raw.Latitude, raw.Longitude
	if lat == nil {
		lat = raw.Lat
	}
	if lon == nil {
		lon = raw.Lon
	}
	if lat == nil || lon == nil {
		return fmt.Errorf("position needs latitude and longitude")
	}

	p.Latitude, p.Longitude = *lat, *lon
	return nil
}

// Coordinate returns the position as [lon, lat].
func (p Position) Coordinate() []float64 {
	return []float64{p.Longitude, p.Latitude}
}

// CenterOfGermany is the location assigned to accounts without an address.
var CenterOfGermany = Position{Latitude: 51.163361, Longitude: 10.447683}

// Extent is a bounding box as [minLon, minLat, maxLon, maxLat].
type Extent [4]float64

// Valid reports whether the box has a positive area.
func (e Extent) Valid() bool {
	return e[0] < e[2] && e[1] < e[3]
}

// DealState places a deal relative to the current time.
type DealState string

const (
	DealStatePast   DealState = "past"
	DealStateFuture DealState = "future"
	DealStateActive DealState = "active"
)

// Window returns the interval [start, end) in which the deal is active.
func (d *Deal) Window(loc *time.Location) (time.Time, time.Time, error) {
	start, err := datetime.Parse(d.Start, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.Add(time.Duration(d.Duration) * time.Hour), nil
}

// ClassifyDeal returns the state of d at now. A deal whose start cannot be
// read is treated as past.
func ClassifyDeal(d *Deal, now time.Time, loc *time.Location) DealState {
	start, end, err := d.Window(loc)
	if err != nil {
		return DealStatePast
	}
	switch {
	case now.Before(start):
		return DealStateFuture
	case !now.Before(end):
		return DealStatePast
	default:
		return DealStateActive
	}
}

// SortedDeals holds deals bucketed by state.
type SortedDeals struct {
	Past   []*Deal `json:"past"`
	Future []*Deal `json:"future"`
	Active []*Deal `json:"active"`
}

// PartitionDeals buckets deals by state, keeping their relative order.
func PartitionDeals(deals []*Deal, now time.Time, loc *time.Location) SortedDeals {
	sorted := SortedDeals{Past: []*Deal{}, Future: []*Deal{}, Active: []*Deal{}}
	for _, d := range deals {
		switch ClassifyDeal(d, now, loc) {
		case DealStateFuture:
			sorted.Future = append(sorted.Future, d)
		case DealStateActive:
			sorted.Active = append(sorted.Active, d)
		default:
			sorted.Past = append(sorted.Past, d)
		}
	}
	return sorted
}
