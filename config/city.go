package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"vkinder/pkg/matching"
)

// CityTable maps normalized city names to the platform's city identifiers.
// Reads vastly outnumber reloads, so the map is guarded by an RWMutex and
// swapped wholesale on reload.
type CityTable struct {
	mu     sync.RWMutex
	byName map[string]int64
}

// defaultCities covers the largest Russian cities with their VK ids. A JSON
// file (search.city_file) can replace the whole table.
func defaultCities() map[string]int64 {
	return map[string]int64{
		"москва":          1,
		"санкт-петербург": 2,
		"волгоград":       10,
		"воронеж":         42,
		"екатеринбург":    49,
		"казань":          60,
		"красноярск":      73,
		"нижний новгород": 95,
		"новосибирск":     99,
		"омск":            104,
		"пермь":           110,
		"ростов-на-дону":  119,
		"самара":          134,
		"уфа":             151,
		"челябинск":       158,
	}
}

// NewCityTable builds a table from the given mapping, normalizing the keys.
// A nil mapping yields the built-in defaults.
func NewCityTable(cities map[string]int64) *CityTable {
	if cities == nil {
		cities = defaultCities()
	}
	t := &CityTable{}
	t.replace(cities)
	return t
}

// Lookup resolves a normalized city name. Callers are expected to normalize
// with matching.NormalizeCity first; the table keys already are.
func (t *CityTable) Lookup(name string) (int64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.byName[name]
	return id, ok
}

// Len reports the number of known cities.
func (t *CityTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byName)
}

// LoadFile replaces the table from a JSON object of name -> id. The swap is
// atomic: concurrent lookups see either the old or the new table, never a
// partial one.
func (t *CityTable) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read city file: %w", err)
	}
	var cities map[string]int64
	if err := json.Unmarshal(data, &cities); err != nil {
		return fmt.Errorf("parse city file %s: %w", path, err)
	}
	if len(cities) == 0 {
		return fmt.Errorf("city file %s is empty", path)
	}
	t.replace(cities)
	return nil
}

func (t *CityTable) replace(cities map[string]int64) {
	normalized := make(map[string]int64, len(cities))
	for name, id := range cities {
		normalized[matching.NormalizeCity(name)] = id
	}
	t.mu.Lock()
	t.byName = normalized
	t.mu.Unlock()
}
