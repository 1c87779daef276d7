package model

// User is a directory record for a marketplace account.
// Created on first login; name and avatar are refreshed on later
// logins, credit and trade URL are owned by other subsystems.
type User struct {
	SteamID  string `json:"steamid" bson:"steamid"`
	Name     string `json:"name" bson:"name"`
	Avatar   string `json:"avatar" bson:"avatar"`
	Credit   int64  `json:"credit" bson:"credit"`
	TradeURL string `json:"trade_url" bson:"trade_url"`
}

// PublicIdentity is the viewer-safe projection of a User.
type PublicIdentity struct {
	SteamID string `json:"steamid"`
	Name    string `json:"name"`
	Avatar  string `json:"avatar"`
}

// Public returns the viewer-safe projection of u.
func (u *User) Public() PublicIdentity {
	return PublicIdentity{
		SteamID: u.SteamID,
		Name:    u.Name,
		Avatar:  u.Avatar,
	}
}

// BuildUserIndex projects a directory read into a lookup keyed by
// steamid. Pure and total: an empty input yields an empty map.
func BuildUserIndex(users []User) map[string]PublicIdentity {
	index := make(map[string]PublicIdentity, len(users))
	for i := range users {
		index[users[i].SteamID] = users[i].Public()
	}
	return index
}
