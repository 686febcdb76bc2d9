package domain

import "time"

// Customer is one customer record, keyed by email: saving an existing email
// updates the row in place instead of inserting a new one.
type Customer struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	LastName  string    `json:"lastname"`
	FirstName string    `json:"firstname"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:254"`
	City      string    `json:"city"`
	Country   string    `json:"country"`
	ImagePath string    `json:"image_path,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AllowedCountries is the country selection the customer form offers.
var AllowedCountries = []string{
	"United States",
	"Canada",
	"Japan",
	"United Kingdom",
	"France",
	"Germany",
}

func CountryAllowed(country string) bool {
	for _, c := range AllowedCountries {
		if c == country {
			return true
		}
	}
	return false
}
