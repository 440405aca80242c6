package fortniteapi

import (
	"encoding/json"
)

// Numbers are kept as sent by the API so that replies show them verbatim
type Profile struct {
	Username string
	Kda      json.Number
	Wins     json.Number
	Kills    json.Number
}

type ShopItem struct {
	Name  string
	Price json.Number
}
