// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

package models

import "time"

// DeviceType classifies perimeter hardware.
type DeviceType string

const (
	DeviceTypeSensorNode DeviceType = "sensorNode"
	DeviceTypeCamera     DeviceType = "camera"
	DeviceTypeGateway    DeviceType = "gateway"
)

// DeviceTypes lists every accepted device type in display order.
var DeviceTypes = []DeviceType{DeviceTypeSensorNode, DeviceTypeCamera, DeviceTypeGateway}

// Valid reports whether t is a known device type.
func (t DeviceType) Valid() bool {
	switch t {
	case DeviceTypeSensorNode, DeviceTypeCamera, DeviceTypeGateway:
		return true
	}
	return false
}

// DeviceStatus is the perimeter state a device reports.
type DeviceStatus string

const (
	DeviceStatusSafe    DeviceStatus = "safe"
	DeviceStatusWarning DeviceStatus = "warning"
	DeviceStatusAlert   DeviceStatus = "alert"
)

// DeviceStatuses lists every accepted device status in display order.
var DeviceStatuses = []DeviceStatus{DeviceStatusSafe, DeviceStatusWarning, DeviceStatusAlert}

// Valid reports whether s is a known device status.
func (s DeviceStatus) Valid() bool {
	switch s {
	case DeviceStatusSafe, DeviceStatusWarning, DeviceStatusAlert:
		return true
	}
	return false
}

// DefaultDeviceVoltage is assigned to newly registered devices.
const DefaultDeviceVoltage = 3.25

// GeoPoint is a GeoJSON Point. Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// NewGeoPoint builds a Point from longitude and latitude.
func NewGeoPoint(lng, lat float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: [2]float64{lng, lat}}
}

// Longitude returns the first coordinate.
func (p GeoPoint) Longitude() float64 { return p.Coordinates[0] }

// Latitude returns the second coordinate.
func (p GeoPoint) Latitude() float64 { return p.Coordinates[1] }

// Device is a registered piece of perimeter hardware.
type Device struct {
	DeviceID      string       `json:"device_id"`
	Name          string       `json:"name"`
	Type          DeviceType   `json:"type"`
	Status        DeviceStatus `json:"status"`
	Location      GeoPoint     `json:"location"`
	Description   *string      `json:"description"`
	Voltage       *float64     `json:"voltage"`
	LastHeartbeat time.Time    `json:"last_heartbeat"`
	CreatedAt     time.Time    `json:"created_at"`
}

// DeviceCreate carries the fields accepted at registration. Status and
// voltage are assigned by the repository.
type DeviceCreate struct {
	DeviceID    string     `json:"device_id" validate:"required,max=64"`
	Name        string     `json:"name" validate:"required,max=128"`
	Type        DeviceType `json:"type" validate:"required,device_type"`
	Latitude    float64    `json:"latitude" validate:"latitude"`
	Longitude   float64    `json:"longitude" validate:"longitude"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=512"`
}

// DeviceUpdate is a partial update. Nil fields are left untouched; an
// empty status or description is treated as not provided.
type DeviceUpdate struct {
	Status      *DeviceStatus `json:"status,omitempty" validate:"omitempty,device_status"`
	Voltage     *float64      `json:"voltage,omitempty" validate:"omitempty,gte=0,lte=1000"`
	Description *string       `json:"description,omitempty" validate:"omitempty,max=512"`
}

// NearbyDevice is a device returned by a proximity query.
type NearbyDevice struct {
	Device
	DistanceMeters float64 `json:"distance_m"`
}

// Normalize clears empty status and description so they count as absent.
func (u *DeviceUpdate) Normalize() {
	if u.Status != nil && *u.Status == "" {
		u.Status = nil
	}
	if u.Description != nil && *u.Description == "" {
		u.Description = nil
	}
}

// IsEmpty reports whether the update carries no field changes.
func (u *DeviceUpdate) IsEmpty() bool {
	return u.Status == nil && u.Voltage == nil && u.Description == nil
}
