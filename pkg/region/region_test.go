package region_test

import (
	"testing"

	"github.com/gnames/wilayah/pkg/region"
	"github.com/stretchr/testify/assert"
)

func TestNewLevel(t *testing.T) {
	tests := []struct {
		msg string
		in  string
		res region.Level
	}{
		{"province", "province", region.Province},
		{"plural", "Provinces", region.Province},
		{"indonesian", "provinsi", region.Province},
		{"kota", "kota", region.Regency},
		{"kabupaten", " Kabupaten ", region.Regency},
		{"kecamatan", "kecamatan", region.District},
		{"desa", "desa", region.Village},
		{"kelurahan", "kelurahan", region.Village},
		{"empty", "", region.Unknown},
		{"garbage", "country", region.Unknown},
	}

	for _, v := range tests {
		assert.Equal(t, v.res, region.NewLevel(v.in), v.msg)
	}
}

func TestLevelNavigation(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(region.Unknown, region.Province.Parent())
	assert.Equal(region.Province, region.Regency.Parent())
	assert.Equal(region.Regency, region.District.Parent())
	assert.Equal(region.District, region.Village.Parent())

	assert.Equal(region.Regency, region.Province.Child())
	assert.Equal(region.Unknown, region.Village.Child())
	assert.Equal(region.Unknown, region.Unknown.Child())

	assert.False(region.Province.HasParent())
	assert.True(region.Village.HasParent())
	assert.False(region.Unknown.IsValid())
	assert.False(region.Level(42).IsValid())

	assert.Equal([]region.Level{
		region.Province, region.Regency, region.District, region.Village,
	}, region.Levels())
}

func TestLevelNames(t *testing.T) {
	tests := []struct {
		lvl       region.Level
		single    string
		table     string
		parentCol string
	}{
		{region.Province, "province", "provinces", ""},
		{region.Regency, "regency", "regencies", "province_id"},
		{region.District, "district", "districts", "regency_id"},
		{region.Village, "village", "villages", "district_id"},
		{region.Unknown, "unknown", "unknown", ""},
	}

	for _, v := range tests {
		assert.Equal(t, v.single, v.lvl.String())
		assert.Equal(t, v.table, v.lvl.Table())
		assert.Equal(t, v.parentCol, v.lvl.ParentColumn())
	}
}

func TestIsValidID(t *testing.T) {
	tests := []struct {
		id  string
		res bool
	}{
		{"11", true},
		{"1101010001", true},
		{"11.01.01.2001", true},
		{"AB12", false},
		{"", false},
		{"-1", false},
		{".11", false},
		{"11 01", false},
		{"id", false},
		{"123456789012345678901", false},
		{"ка", false},
	}

	for _, v := range tests {
		assert.Equal(t, v.res, region.IsValidID(v.id), v.id)
	}
}

func TestIsValidName(t *testing.T) {
	assert.True(t, region.IsValidName("DKI Jakarta"))
	assert.False(t, region.IsValidName(""))
	assert.False(t, region.IsValidName("bad \xff name"))

	long := make([]rune, region.MaxNameLen+1)
	for i := range long {
		long[i] = 'a'
	}
	assert.False(t, region.IsValidName(string(long)))
	assert.True(t, region.IsValidName(string(long[1:])))
}

func TestMatchName(t *testing.T) {
	search := region.NormalizeSearch("  JAK ")
	assert.Equal(t, "jak", search)

	assert.True(t, region.MatchName("DKI Jakarta", search))
	assert.False(t, region.MatchName("Jawa Barat", search))
	assert.True(t, region.MatchName("Jawa Barat", ""))

	// only ASCII letters fold
	assert.True(t, region.MatchName("KOTA BAUBAU", region.NormalizeSearch("bau")))
	assert.True(t, region.MatchName("SÉLÉ", region.NormalizeSearch("sÉ")))
	assert.False(t, region.MatchName("SÉLÉ", region.NormalizeSearch("sé")))
	assert.Equal(t, "sélé", region.NormalizeSearch(" SéLé "))
}

func TestSort(t *testing.T) {
	rs := []region.Region{
		{ID: "3", Name: "JAWA BARAT"},
		{ID: "2", Name: "ACEH"},
		{ID: "1", Name: "ACEH"},
		{ID: "4", Name: "BALI"},
	}
	region.Sort(rs)

	var ids []string
	for _, r := range rs {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"1", "2", "4", "3"}, ids)
}
