package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLatLng(t *testing.T) {
	p, err := Parse(" 45.8150, 15.9819 ")
	require.NoError(t, err)
	assert.InDelta(t, 15.9819, p.X(), 1e-9)
	assert.InDelta(t, 45.8150, p.Y(), 1e-9)
	assert.Equal(t, SRID, p.SRID())

	p, err = Parse("45.8 15.9")
	require.NoError(t, err)
	assert.InDelta(t, 15.9, p.X(), 1e-9)
}

func TestParseWKT(t *testing.T) {
	p, err := Parse("POINT (15.9819 45.815)")
	require.NoError(t, err)
	assert.InDelta(t, 45.815, p.Y(), 1e-9)
}

func TestParseRejects(t *testing.T) {
	for _, s := range []string{"north field", "91, 10", "10, 181", "1, 2, 3", "LINESTRING (0 0, 1 1)"} {
		_, err := Parse(s)
		assert.Error(t, err, s)
	}

	_, err := Parse("   ")
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestValidateAndGeoJSON(t *testing.T) {
	assert.NoError(t, Validate(""))
	assert.Error(t, Validate("somewhere"))

	assert.JSONEq(t, `{"type":"Point","coordinates":[15.9819,45.815]}`, string(GeoJSON("45.815, 15.9819")))
	assert.Nil(t, GeoJSON("nowhere"))
}
