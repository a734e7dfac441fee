package v1

import (
	"fmt"
	"time"
)

// Profile is the mirrored player summary. Profiles are not bucketed; one row
// per SteamID is refreshed in place.
type Profile struct {
	SteamID      string    `json:"steam_id"`
	PersonaName  string    `json:"persona_name"`
	ProfileURL   string    `json:"profile_url"`
	Avatar       string    `json:"avatar"`
	AvatarMedium string    `json:"avatar_medium"`
	AvatarFull   string    `json:"avatar_full"`
	LastLogoff   time.Time `json:"last_logoff"`
	TimeCreated  time.Time `json:"time_created"`

	RealName    *string `json:"real_name,omitempty"`
	CountryCode *string `json:"country_code,omitempty"`
	StateCode   *string `json:"state_code,omitempty"`

	// MissingInAction is set once the source stops returning a profile that
	// is still persisted. The last known data is kept.
	MissingInAction bool `json:"missing_in_action"`

	Timestamps
}

// Validate ensures the profile can be persisted.
func (p *Profile) Validate() error {
	if p.SteamID == "" {
		return fmt.Errorf("steam_id is required")
	}
	return nil
}

func (p Profile) EntityID() string   { return p.SteamID }
func (p Profile) Stamps() Timestamps { return p.Timestamps }

func (p Profile) WithStamps(ts Timestamps) Profile {
	p.Timestamps = ts
	p.MissingInAction = false
	return p
}

func (p Profile) WithRefreshFailure(now time.Time) Profile {
	p.Timestamps = p.Timestamps.Failed(now)
	p.MissingInAction = true
	return p
}
