package entities

// DealerPage bundles everything shown on a dealer's public page
type DealerPage struct {
	Dealer          *PublicDealer  `json:"dealer"`
	Deals           []*ActiveDeal  `json:"deals"`
	Pictures        []string       `json:"pictures"`
	ProfileImageURL string         `json:"profile_image_url"`
	Ratings         *RatingSummary `json:"ratings"`
}

// PublicDealer is the part of a dealer account any signed-in user may see
type PublicDealer struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Street          string    `json:"street"`
	HouseNumber     string    `json:"house_number"`
	City            string    `json:"city"`
	Zip             string    `json:"zip"`
	Location        *Position `json:"location,omitempty"`
	ProfileImageURL string    `json:"profile_image_url,omitempty"`
}

// NewPublicDealer copies the public fields of a dealer account
func NewPublicDealer(a *Account) *PublicDealer {
	if a == nil {
		return nil
	}
	return &PublicDealer{
		ID:              a.ID,
		Username:        a.Username,
		Street:          a.Street,
		HouseNumber:     a.HouseNumber,
		City:            a.City,
		Zip:             a.Zip,
		Location:        a.Location,
		ProfileImageURL: a.ProfileImageURL,
	}
}
