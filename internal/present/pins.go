// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package present

import "github.com/tomtom215/sentinelguard/internal/models"

// MapPin is a device as drawn on the perimeter map.
type MapPin struct {
	ID          string              `json:"id"`
	Position    [2]float64          `json:"position"` // [lat, lng]
	Status      models.DeviceStatus `json:"status"`
	Type        models.DeviceType   `json:"type"`
	Name        string              `json:"name"`
	Description *string             `json:"description"`

	// DistanceMeters is set only for proximity results.
	DistanceMeters *float64 `json:"distance_m,omitempty"`
}

// PinResponse wraps pins the way every map endpoint returns them.
type PinResponse struct {
	Pins []MapPin `json:"pins"`
}

// ToMapPin converts a device. The GeoJSON [lng, lat] pair is swapped.
func ToMapPin(d models.Device) MapPin {
	return MapPin{
		ID:          d.DeviceID,
		Position:    [2]float64{d.Location.Latitude(), d.Location.Longitude()},
		Status:      d.Status,
		Type:        d.Type,
		Name:        d.Name,
		Description: d.Description,
	}
}

// ToMapPins converts devices in order. The result is never nil.
func ToMapPins(devices []models.Device) []MapPin {
	pins := make([]MapPin, 0, len(devices))
	for _, d := range devices {
		pins = append(pins, ToMapPin(d))
	}
	return pins
}

// NearbyPins converts proximity results, keeping their order and distance.
func NearbyPins(devices []models.NearbyDevice) []MapPin {
	pins := make([]MapPin, 0, len(devices))
	for _, nd := range devices {
		pin := ToMapPin(nd.Device)
		dist := nd.DistanceMeters
		pin.DistanceMeters = &dist
		pins = append(pins, pin)
	}
	return pins
}

// FilterPins keeps the devices whose status and type are both enabled in
// filters. Keys missing from filters count as disabled.
func FilterPins(devices []models.Device, filters map[string]bool) []MapPin {
	pins := make([]MapPin, 0, len(devices))
	for _, d := range devices {
		if filters[string(d.Status)] && filters[string(d.Type)] {
			pins = append(pins, ToMapPin(d))
		}
	}
	return pins
}

// Overlay is a shaded zone on the perimeter map.
type Overlay struct {
	Type   string        `json:"type"`
	Bounds [2][2]float64 `json:"bounds"` // [[lat, lng], [lat, lng]]
	Label  string        `json:"label"`
}

// Overlays returns the configured map zones.
func Overlays() []Overlay {
	return []Overlay{
		{
			Type:   "tampering",
			Bounds: [2][2]float64{{51.504, -0.11}, {51.506, -0.09}},
			Label:  "Tampering Detection Zone Alpha",
		},
		{
			Type:   "illegal",
			Bounds: [2][2]float64{{51.507, -0.08}, {51.508, -0.07}},
			Label:  "Illegal Activity Alert - Sector B",
		},
	}
}

// FilterOptionSet lists the values the map filter panel offers.
type FilterOptionSet struct {
	StatusFilters []models.DeviceStatus `json:"status_filters"`
	TypeFilters   []models.DeviceType   `json:"type_filters"`
}

// FilterOptions returns every device status and type in display order.
func FilterOptions() FilterOptionSet {
	return FilterOptionSet{
		StatusFilters: append([]models.DeviceStatus(nil), models.DeviceStatuses...),
		TypeFilters:   append([]models.DeviceType(nil), models.DeviceTypes...),
	}
}
