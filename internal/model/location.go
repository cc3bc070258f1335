package model

import (
	"encoding/json"
	"strings"
)

// Location is a place that holds stock.
type Location string

const (
	LocationHub    Location = "hub"
	LocationStoreA Location = "store_a"
	LocationStoreB Location = "store_b"
)

// Locations lists every stock location in display order.
var Locations = []Location{LocationHub, LocationStoreA, LocationStoreB}

var locationAliases = map[string]Location{
	"hub":       LocationHub,
	"home":      LocationHub,
	"main":      LocationHub,
	"warehouse": LocationHub,
	"store_a":   LocationStoreA,
	"store a":   LocationStoreA,
	"storea":    LocationStoreA,
	"partner a": LocationStoreA,
	"store_b":   LocationStoreB,
	"store b":   LocationStoreB,
	"storeb":    LocationStoreB,
	"partner b": LocationStoreB,
}

func normalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), " ")
}

// ParseLocation accepts canonical names and the common aliases operators type.
func ParseLocation(s string) (Location, bool) {
	l, ok := locationAliases[normalizeKey(s)]
	return l, ok
}

func (l Location) Valid() bool {
	switch l {
	case LocationHub, LocationStoreA, LocationStoreB:
		return true
	}
	return false
}

// Channel is where a sale happened: a stock location or a sales-only route.
type Channel string

const ChannelOnline Channel = "online"

func ParseChannel(s string) (Channel, bool) {
	switch normalizeKey(s) {
	case "online", "website", "web", "site":
		return ChannelOnline, true
	}
	if l, ok := ParseLocation(s); ok {
		return Channel(l), true
	}
	return "", false
}

// StockLocation is the counter a sale on this channel draws from.
// Sales-only channels ship from the hub.
func (c Channel) StockLocation() Location {
	if l := Location(c); l.Valid() {
		return l
	}
	return LocationHub
}

// StockLevels maps each location to its on-hand count.
type StockLevels map[Location]int

func (s StockLevels) Total() int {
	n := 0
	for _, q := range s {
		n += q
	}
	return n
}

func (s StockLevels) Clone() StockLevels {
	out := make(StockLevels, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// MarshalJSON always emits every location so clients get a full matrix.
func (s StockLevels) MarshalJSON() ([]byte, error) {
	m := make(map[string]int, len(Locations))
	for _, l := range Locations {
		m[string(l)] = s[l]
	}
	return json.Marshal(m)
}
