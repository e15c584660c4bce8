// Package region describes the administrative hierarchy of Indonesia:
// Province → Regency (Kabupaten/Kota) → District (Kecamatan) →
// Village (Kelurahan/Desa).
//
// This package is pure: it has no I/O and is shared by the store,
// importer and lookup layers.
package region

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"
)

// Level is one of the four levels of the hierarchy.
type Level int

const (
	// Unknown is a zero value that does not correspond to any level.
	Unknown Level = iota
	Province
	Regency
	District
	Village
)

const (
	// MaxIDLen is the maximum length of a region identifier.
	MaxIDLen = 20

	// MaxNameLen is the maximum length (in characters) of a region name.
	MaxNameLen = 255
)

// Levels returns all levels in import order (parents first).
func Levels() []Level {
	return []Level{Province, Regency, District, Village}
}

var levelNames = map[Level]struct{ single, plural, parentCol string }{
	Province: {"province", "provinces", ""},
	Regency:  {"regency", "regencies", "province_id"},
	District: {"district", "districts", "regency_id"},
	Village:  {"village", "villages", "district_id"},
}

// NewLevel converts a string to a Level. It accepts English singular and
// plural forms and the Indonesian names used by the data providers.
// Returns Unknown for anything else.
func NewLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "province", "provinces", "provinsi", "propinsi":
		return Province
	case "regency", "regencies", "kabupaten", "kota":
		return Regency
	case "district", "districts", "kecamatan":
		return District
	case "village", "villages", "kelurahan", "desa":
		return Village
	default:
		return Unknown
	}
}

// String returns the singular English name of the level.
func (l Level) String() string {
	if n, ok := levelNames[l]; ok {
		return n.single
	}
	return "unknown"
}

// Plural returns the plural English name of the level.
// It is also the name of the level's table.
func (l Level) Plural() string {
	if n, ok := levelNames[l]; ok {
		return n.plural
	}
	return "unknown"
}

// Table returns the storage table name for the level.
func (l Level) Table() string {
	return l.Plural()
}

// ParentColumn returns the column holding the parent id, or an empty
// string for provinces.
func (l Level) ParentColumn() string {
	return levelNames[l].parentCol
}

// IsValid is true for the four real levels.
func (l Level) IsValid() bool {
	return l >= Province && l <= Village
}

// HasParent is true for every level below Province.
func (l Level) HasParent() bool {
	return l > Province && l <= Village
}

// Parent returns the level above, or Unknown for Province.
func (l Level) Parent() Level {
	if !l.HasParent() {
		return Unknown
	}
	return l - 1
}

// Child returns the level below, or Unknown for Village.
func (l Level) Child() Level {
	if l < Province || l >= Village {
		return Unknown
	}
	return l + 1
}

// Region is a node of the hierarchy. ParentID is empty for provinces.
type Region struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parent_id,omitempty"`
}

// VillageDetail is a village together with all its ancestors.
type VillageDetail struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DistrictID   string `json:"district_id"`
	DistrictName string `json:"district_name"`
	RegencyID    string `json:"regency_id"`
	RegencyName  string `json:"regency_name"`
	ProvinceID   string `json:"province_id"`
	ProvinceName string `json:"province_name"`
}

// IsValidID checks the identifier format: 1 to MaxIDLen characters,
// ASCII digits and dots, starting with a digit. Official Kemendagri codes
// come both as "1101010001" and as "11.01.01.2001".
func IsValidID(id string) bool {
	if id == "" || len(id) > MaxIDLen || id[0] == '.' {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c < '0' || c > '9') && c != '.' {
			return false
		}
	}
	return true
}

// IsValidName checks that a name is non-empty, valid UTF-8 and not
// longer than MaxNameLen characters.
func IsValidName(name string) bool {
	if name == "" || !utf8.ValidString(name) {
		return false
	}
	return utf8.RuneCountInString(name) <= MaxNameLen
}

// NormalizeSearch prepares a search string for matching.
func NormalizeSearch(search string) string {
	return lowerASCII(strings.TrimSpace(search))
}

// MatchName reports whether name contains search, ignoring the case of
// ASCII letters only, the same way SQL LIKE does.
// The search must be normalized with NormalizeSearch.
func MatchName(name, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(lowerASCII(name), search)
}

func lowerASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}

// Compare orders regions by name, then by id, which gives a stable order
// for dropdowns.
func Compare(a, b Region) int {
	return cmp.Or(
		strings.Compare(a.Name, b.Name),
		strings.Compare(a.ID, b.ID),
	)
}

// Sort sorts regions in place using Compare.
func Sort(rs []Region) {
	slices.SortFunc(rs, Compare)
}
