package models

import "time"

// Performer is a content creator who owns zero or more ads. The Ads
// slice preserves insertion order; performer stats are reported in
// this order.
type Performer struct {
	ID    string   `json:"_id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Ads   []string `json:"ads"`
}

// Developer is an app developer account. Developers authenticate by
// email only; there is no password in this system.
type Developer struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
