package fortniteapi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

func decode(data []byte, v any) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	return decoder.Decode(v)
}

func UnmarshalProfile(username string, data []byte) (Profile, error) {

	var raw struct {
		Kda   *json.Number `json:"kda"`
		Wins  *json.Number `json:"wins"`
		Kills *json.Number `json:"kills"`
	}
	if err := decode(data, &raw); err != nil {
		return Profile{}, err
	}
	if raw.Kda == nil || raw.Wins == nil || raw.Kills == nil {
		return Profile{}, fmt.Errorf("profile of %s is missing kda, wins or kills", username)
	}

	return Profile{Username: username, Kda: *raw.Kda, Wins: *raw.Wins, Kills: *raw.Kills}, nil
}

func UnmarshalShop(data []byte) ([]ShopItem, error) {

	var raw []struct {
		Name  *string      `json:"name"`
		Price *json.Number `json:"price"`
	}
	if err := decode(data, &raw); err != nil {
		return nil, err
	}

	items := make([]ShopItem, 0, len(raw))
	for i, item := range raw {
		if item.Name == nil || item.Price == nil {
			return nil, fmt.Errorf("shop item %d is missing name or price", i)
		}
		items = append(items, ShopItem{Name: *item.Name, Price: *item.Price})
	}
	return items, nil
}
