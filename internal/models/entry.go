// internal/models/entry.go
package models

import (
	"time"
)

// Entry is one logged meal as stored in the users table.
// Calories and Protein are nil when the model declined to answer.
type Entry struct {
	Name      string    `json:"name"`
	Calories  *float64  `json:"calories"`
	Protein   *float64  `json:"protein"`
	CreatedAt time.Time `json:"created_at"`
}

// Extraction is the structured answer returned by the completion service.
type Extraction struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
}

// Totals is the daily aggregate over a set of entries.
type Totals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Count    int     `json:"count"`
}

// DailySummary is the result of a same-day read for one name.
type DailySummary struct {
	Name    string  `json:"name"`
	Date    string  `json:"date"`
	Totals  Totals  `json:"totals"`
	Entries []Entry `json:"entries"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}
