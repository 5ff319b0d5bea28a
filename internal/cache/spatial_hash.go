// SentinelGuard - Perimeter Monitoring Directory Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sentinelguard

// Package cache provides the in-memory spatial index behind device proximity queries.
package cache

import (
	"math"
	"sort"
	"sync"
)

// EarthRadiusMeters is the mean radius used for all distance calculations.
const EarthRadiusMeters = 6371000.0

// metersPerDegree is the length of one degree of latitude.
const metersPerDegree = EarthRadiusMeters * math.Pi / 180

// DefaultCellSizeKm suits perimeter deployments where most queries use a
// radius of a kilometre or two.
const DefaultCellSizeKm = 1.0

// SpatialHashGrid divides geographic space into cells for fast proximity queries.
// A query only inspects cells overlapping the search radius instead of every
// indexed device.
//
// Time Complexity:
//   - Insert: O(1)
//   - Query nearby: O(k log k) where k = entries in the inspected cells
//   - Remove: O(1) amortized
type SpatialHashGrid struct {
	mu       sync.RWMutex
	cells    map[CellKey]*Cell        // Grid cells containing entries
	cellSize float64                  // Cell size in degrees
	entries  map[string]*SpatialEntry // Index by ID for fast lookup/removal
}

// CellKey represents a grid cell coordinate.
type CellKey struct {
	X, Y int
}

// Cell contains all entries in a grid cell.
type Cell struct {
	entries []*SpatialEntry
}

// SpatialEntry is an indexed position.
type SpatialEntry struct {
	ID      string
	Lat     float64
	Lon     float64
	cellKey CellKey
}

// SpatialResult is an entry matched by QueryNearby.
type SpatialResult struct {
	ID             string
	Lat            float64
	Lon            float64
	DistanceMeters float64
}

// NewSpatialHashGrid creates a new spatial hash grid.
// cellSizeKm specifies the approximate cell size in kilometers.
func NewSpatialHashGrid(cellSizeKm float64) *SpatialHashGrid {
	if cellSizeKm <= 0 {
		cellSizeKm = DefaultCellSizeKm
	}

	return &SpatialHashGrid{
		cells:    make(map[CellKey]*Cell),
		cellSize: cellSizeKm * 1000 / metersPerDegree,
		entries:  make(map[string]*SpatialEntry),
	}
}

func normalizeLon(lon float64) float64 {
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return lon
}

// getCellKey returns the cell key for a lat/lon coordinate.
func (g *SpatialHashGrid) getCellKey(lat, lon float64) CellKey {
	return CellKey{
		X: int(math.Floor(normalizeLon(lon) / g.cellSize)),
		Y: int(math.Floor(lat / g.cellSize)),
	}
}

// Insert adds an entry to the grid. An existing entry with the same ID is moved.
func (g *SpatialHashGrid) Insert(id string, lat, lon float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if existing, ok := g.entries[id]; ok {
		g.removeFromCellUnlocked(existing)
	}

	cellKey := g.getCellKey(lat, lon)
	entry := &SpatialEntry{ID: id, Lat: lat, Lon: normalizeLon(lon), cellKey: cellKey}

	cell, exists := g.cells[cellKey]
	if !exists {
		cell = &Cell{entries: make([]*SpatialEntry, 0, 4)}
		g.cells[cellKey] = cell
	}
	cell.entries = append(cell.entries, entry)
	g.entries[id] = entry
}

// removeFromCellUnlocked removes an entry from its cell (caller must hold lock).
func (g *SpatialHashGrid) removeFromCellUnlocked(entry *SpatialEntry) {
	cell, exists := g.cells[entry.cellKey]
	if !exists {
		return
	}

	for i, e := range cell.entries {
		if e.ID == entry.ID {
			cell.entries[i] = cell.entries[len(cell.entries)-1]
			cell.entries = cell.entries[:len(cell.entries)-1]
			break
		}
	}

	if len(cell.entries) == 0 {
		delete(g.cells, entry.cellKey)
	}
}

// QueryNearby returns all entries within radiusMeters of the point, nearest
// first. Entries at equal distance are ordered by ID.
func (g *SpatialHashGrid) QueryNearby(lat, lon, radiusMeters float64) []SpatialResult {
	if radiusMeters < 0 {
		return nil
	}
	lon = normalizeLon(lon)

	g.mu.RLock()
	defer g.mu.RUnlock()

	var results []SpatialResult
	collect := func(entries []*SpatialEntry) {
		for _, entry := range entries {
			dist := HaversineMeters(lat, lon, entry.Lat, entry.Lon)
			if dist <= radiusMeters {
				results = append(results, SpatialResult{
					ID:             entry.ID,
					Lat:            entry.Lat,
					Lon:            entry.Lon,
					DistanceMeters: dist,
				})
			}
		}
	}

	if keys, ok := g.candidateCells(lat, lon, radiusMeters); ok {
		for _, key := range keys {
			if cell, exists := g.cells[key]; exists {
				collect(cell.entries)
			}
		}
	} else {
		for _, cell := range g.cells {
			collect(cell.entries)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].DistanceMeters != results[j].DistanceMeters {
			return results[i].DistanceMeters < results[j].DistanceMeters
		}
		return results[i].ID < results[j].ID
	})
	return results
}

// candidateCells returns the cells overlapping the bounding box of the search
// circle. It reports false when the box wraps the antimeridian, reaches a
// pole, or would visit more cells than are populated; the caller then scans
// every cell.
func (g *SpatialHashGrid) candidateCells(lat, lon, radiusMeters float64) ([]CellKey, bool) {
	latSpan := radiusMeters / metersPerDegree
	if lat+latSpan >= 90 || lat-latSpan <= -90 {
		return nil, false
	}

	// Longitude degrees shrink with latitude; widen by the worst case in the box.
	maxAbsLat := math.Max(math.Abs(lat+latSpan), math.Abs(lat-latSpan))
	lonSpan := latSpan / math.Cos(maxAbsLat*math.Pi/180)
	if lon+lonSpan > 180 || lon-lonSpan < -180 {
		return nil, false
	}

	minX := int(math.Floor((lon - lonSpan) / g.cellSize))
	maxX := int(math.Floor((lon + lonSpan) / g.cellSize))
	minY := int(math.Floor((lat - latSpan) / g.cellSize))
	maxY := int(math.Floor((lat + latSpan) / g.cellSize))

	count := (maxX - minX + 1) * (maxY - minY + 1)
	if count > len(g.cells) {
		return nil, false
	}

	keys := make([]CellKey, 0, count)
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			keys = append(keys, CellKey{X: x, Y: y})
		}
	}
	return keys, true
}

// Size returns the total number of entries.
func (g *SpatialHashGrid) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.entries)
}

// Clear removes all entries.
func (g *SpatialHashGrid) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.cells = make(map[CellKey]*Cell)
	g.entries = make(map[string]*SpatialEntry)
}

// HaversineMeters returns the great-circle distance between two points on a
// sphere of radius EarthRadiusMeters.
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}
