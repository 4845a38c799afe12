package domain

import "time"

// Client is the identity of a taxpayer across filing years.
type Client struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Email      string    `json:"email" db:"email"`
	Mobile     string    `json:"mobile" db:"mobile"`
	Occupation string    `json:"occupation" db:"occupation"`
	Locale     string    `json:"locale" db:"locale"`
	SSNLast4   string    `json:"-" db:"ssn_last4"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Merge fills c from incoming without clobbering existing data: blank
// incoming fields never overwrite non-blank stored values.
func (c *Client) Merge(incoming Client) {
	if incoming.Name != "" {
		c.Name = incoming.Name
	}
	if incoming.Mobile != "" {
		c.Mobile = incoming.Mobile
	}
	if incoming.Occupation != "" {
		c.Occupation = incoming.Occupation
	}
	if incoming.Locale != "" {
		c.Locale = incoming.Locale
	}
}
