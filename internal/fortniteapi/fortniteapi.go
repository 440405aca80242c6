package fortniteapi

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"f7bot/internal/common"

	"github.com/rs/zerolog/log"
)

const DEFAULT_URL = "https://api.fortnitetracker.com/v1"

// Routes inside the tracker API
const ROUTE_PROFILE = "/profile/%s"
const ROUTE_SHOP = "/shop"

const API_KEY_HEADER = "TRN-Api-Key"

// The tracker allows one request every two seconds per key
var DefaultRestrictions = []common.Restriction{{Requests: 1, Duration: 2 * time.Second}}

type FortniteApi struct {
	baseUrl string
	proxy   *common.Proxy
}

func NewFortniteApi(baseUrl string, apiKey string, restrictions []common.Restriction, observer common.Observer) *FortniteApi {
	if baseUrl == "" {
		baseUrl = DEFAULT_URL
	}
	return &FortniteApi{
		baseUrl: strings.TrimRight(baseUrl, "/"),
		proxy:   common.NewProxy(map[string]string{API_KEY_HEADER: apiKey}, restrictions, observer),
	}
}

func (api *FortniteApi) GetProfile(ctx context.Context, username string) (Profile, error) {

	// Request
	data, err := api.request(ctx, api.baseUrl+fmt.Sprintf(ROUTE_PROFILE, url.PathEscape(username)))
	if err != nil {
		return Profile{}, fmt.Errorf("could not get profile of %s: %w", username, err)
	}

	// Decode
	profile, err := UnmarshalProfile(username, data)
	if err != nil {
		return Profile{}, fmt.Errorf("could not decode profile of %s: %w", username, err)
	}
	log.Debug().Msgf("Found profile for %s", username)
	return profile, nil
}

func (api *FortniteApi) GetShop(ctx context.Context) ([]ShopItem, error) {

	data, err := api.request(ctx, api.baseUrl+ROUTE_SHOP)
	if err != nil {
		return nil, fmt.Errorf("could not get shop: %w", err)
	}

	items, err := UnmarshalShop(data)
	if err != nil {
		return nil, fmt.Errorf("could not decode shop: %w", err)
	}
	log.Debug().Msgf("Shop contains %d items", len(items))
	return items, nil
}

func (api *FortniteApi) request(ctx context.Context, url string) ([]byte, error) {
	log.Debug().Msgf("Requesting to url %s", url)
	return api.proxy.Request(ctx, url)
}
