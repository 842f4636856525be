package entities

// DealFilter is the search request for active deals. Either Extent or
// Location with Radius selects the area; everything else narrows it down.
type DealFilter struct {
	Location    *Position  `json:"location,omitempty"`
	Radius      float64    `json:"radius,omitempty"`
	Extent      *Extent    `json:"extent,omitempty"`
	CategoryIDs []int64    `json:"categoryIds,omitempty"`
	Limit       int        `json:"limit,omitempty"`
	Order       *DealOrder `json:"order,omitempty"`
}

// DealOrder sorts the result by one column.
type DealOrder struct {
	Column    string `json:"column"`
	Ascending bool   `json:"ascending"`
}

// GeoMode is the area predicate of a DealQuery.
type GeoMode int

const (
	GeoModeExtent GeoMode = iota + 1
	GeoModeRadius
)

// DealQuery is a DealFilter resolved to exactly one area predicate.
type DealQuery struct {
	Mode        GeoMode
	Extent      Extent
	Location    Position
	Radius      float64
	CategoryIDs []int64
	Limit       int
	Order       *DealOrder
}

// Query resolves the filter. The extent wins over location and radius.
// It returns false when neither area is given.
func (f DealFilter) Query() (DealQuery, bool) {
	q := DealQuery{
		CategoryIDs: f.CategoryIDs,
		Limit:       f.Limit,
		Order:       f.Order,
	}

	switch {
	case f.Extent != nil:
		q.Mode = GeoModeExtent
		q.Extent = *f.Extent
	case f.Location != nil && f.Radius > 0:
		q.Mode = GeoModeRadius
		q.Location = *f.Location
		q.Radius = f.Radius
	default:
		return DealQuery{}, false
	}

	return q, true
}
