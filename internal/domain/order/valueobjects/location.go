package valueobjects

import (
	"fmt"
	"strings"
)

// Location is the datacenter a server is provisioned in.
type Location string

const (
	LocationMiami  Location = "miami"
	LocationFrance Location = "france"
)

var locationNames = map[Location]string{
	LocationMiami:  "Miami, USA",
	LocationFrance: "Gravelines, France",
}

// The original configurator posts "Miami" and "Francia".
var locationAliases = map[string]Location{
	"miami":   LocationMiami,
	"france":  LocationFrance,
	"francia": LocationFrance,
}

// Locations lists the datacenters in catalog order.
func Locations() []Location {
	return []Location{LocationMiami, LocationFrance}
}

// ParseLocation normalises value, accepting the configurator's labels.
func ParseLocation(value string) (Location, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return "", fmt.Errorf("location cannot be empty")
	}
	l, ok := locationAliases[normalized]
	if !ok {
		return "", fmt.Errorf("invalid location: %s", value)
	}
	return l, nil
}

func (l Location) String() string {
	return string(l)
}

func (l Location) IsValid() bool {
	_, ok := locationNames[l]
	return ok
}

// DisplayName returns the human label, or the raw token for unknown values.
func (l Location) DisplayName() string {
	if n, ok := locationNames[l]; ok {
		return n
	}
	return string(l)
}
