package steam

import (
	"strconv"
	"time"

	v1 "github.com/steamopera/steamsync/internal/api/v1"
)

type playerSummariesResponse struct {
	Response struct {
		Players []playerSummary `json:"players"`
	} `json:"response"`
}

type playerSummary struct {
	SteamID        string  `json:"steamid"`
	PersonaName    string  `json:"personaname"`
	ProfileURL     string  `json:"profileurl"`
	Avatar         string  `json:"avatar"`
	AvatarMedium   string  `json:"avatarmedium"`
	AvatarFull     string  `json:"avatarfull"`
	LastLogoff     int64   `json:"lastlogoff"`
	TimeCreated    int64   `json:"timecreated"`
	RealName       *string `json:"realname"`
	LocCountryCode *string `json:"loccountrycode"`
	LocStateCode   *string `json:"locstatecode"`
}

func (p playerSummary) toProfile() v1.Profile {
	return v1.Profile{
		SteamID:      p.SteamID,
		PersonaName:  p.PersonaName,
		ProfileURL:   p.ProfileURL,
		Avatar:       p.Avatar,
		AvatarMedium: p.AvatarMedium,
		AvatarFull:   p.AvatarFull,
		LastLogoff:   unixTime(p.LastLogoff),
		TimeCreated:  unixTime(p.TimeCreated),
		RealName:     p.RealName,
		CountryCode:  p.LocCountryCode,
		StateCode:    p.LocStateCode,
	}
}

type friendListResponse struct {
	FriendsList *struct {
		Friends []friendEntry `json:"friends"`
	} `json:"friendslist"`
}

type friendEntry struct {
	SteamID      string `json:"steamid"`
	Relationship string `json:"relationship"`
	FriendSince  int64  `json:"friend_since"`
}

func (f friendEntry) toFriend() v1.Friend {
	return v1.Friend{SteamID: f.SteamID, FriendSince: unixTime(f.FriendSince)}
}

type ownedGamesResponse struct {
	Response struct {
		GameCount *int        `json:"game_count"`
		Games     []ownedGame `json:"games"`
	} `json:"response"`
}

type ownedGame struct {
	AppID           int64 `json:"appid"`
	PlaytimeForever int64 `json:"playtime_forever"`
	RTimeLastPlayed int64 `json:"rtime_last_played"`
}

func (g ownedGame) toItem() v1.PlaytimeItem {
	item := v1.PlaytimeItem{
		AppID:         strconv.FormatInt(g.AppID, 10),
		MinutesPlayed: g.PlaytimeForever,
	}
	if g.RTimeLastPlayed > 0 {
		t := unixTime(g.RTimeLastPlayed)
		item.LastPlayedAt = &t
	}
	return item
}

type appDetailsEnvelope struct {
	Success bool        `json:"success"`
	Data    *appDetails `json:"data"`
}

type appDetails struct {
	Type             string   `json:"type"`
	Name             string   `json:"name"`
	SteamAppID       int64    `json:"steam_appid"`
	IsFree           bool     `json:"is_free"`
	ShortDescription string   `json:"short_description"`
	Developers       []string `json:"developers"`
	Publishers       []string `json:"publishers"`
	Genres           []struct {
		ID          string `json:"id"`
		Description string `json:"description"`
	} `json:"genres"`
	ReleaseDate struct {
		ComingSoon bool   `json:"coming_soon"`
		Date       string `json:"date"`
	} `json:"release_date"`
	HeaderImage string `json:"header_image"`
}

func (d appDetails) toCatalogEntry(appID string) v1.CatalogEntry {
	genres := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		genres = append(genres, g.Description)
	}
	return v1.CatalogEntry{
		AppID:            appID,
		Name:             d.Name,
		Type:             d.Type,
		IsFree:           d.IsFree,
		ShortDescription: d.ShortDescription,
		Developers:       d.Developers,
		Publishers:       d.Publishers,
		Genres:           genres,
		ReleaseDate:      d.ReleaseDate.Date,
		HeaderImage:      d.HeaderImage,
	}
}

// unixTime converts Steam's unix seconds. Zero stays the zero time.
func unixTime(sec int64) time.Time {
	if sec <= 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
