package v1

import (
	"fmt"
	"time"
)

// CatalogEntry is the mirrored store page of one app. One row per AppID.
type CatalogEntry struct {
	AppID            string   `json:"app_id"`
	Name             string   `json:"name"`
	Type             string   `json:"type"`
	IsFree           bool     `json:"is_free"`
	ShortDescription string   `json:"short_description"`
	Developers       []string `json:"developers"`
	Publishers       []string `json:"publishers"`
	Genres           []string `json:"genres"`
	ReleaseDate      string   `json:"release_date"`
	HeaderImage      string   `json:"header_image"`

	Timestamps
}

// Validate ensures the entry can be persisted.
func (c *CatalogEntry) Validate() error {
	if c.AppID == "" {
		return fmt.Errorf("app_id is required")
	}
	return nil
}

func (c CatalogEntry) EntityID() string   { return c.AppID }
func (c CatalogEntry) Stamps() Timestamps { return c.Timestamps }

func (c CatalogEntry) WithStamps(ts Timestamps) CatalogEntry {
	c.Timestamps = ts
	return c
}

func (c CatalogEntry) WithRefreshFailure(now time.Time) CatalogEntry {
	c.Timestamps = c.Timestamps.Failed(now)
	return c
}
