// Package geo parses the free-text GPS location of a plot.
package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkt"
)

// SRID of every parsed point (WGS 84).
const SRID = 4326

var ErrEmpty = errors.New("empty location")

// Parse accepts "lat, lng", "lat lng" or a WKT "POINT(lng lat)".
func Parse(text string) (*geom.Point, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil, ErrEmpty
	}

	if strings.HasPrefix(strings.ToUpper(s), "POINT") {
		g, err := wkt.Unmarshal(s)
		if err != nil {
			return nil, err
		}
		p, ok := g.(*geom.Point)
		if !ok {
			return nil, fmt.Errorf("expected POINT, got %T", g)
		}
		if err := checkRange(p.Y(), p.X()); err != nil {
			return nil, err
		}
		return p.SetSRID(SRID), nil
	}

	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' || r == ' ' || r == '\t' })
	if len(parts) != 2 {
		return nil, fmt.Errorf("expected \"lat, lng\", got %q", text)
	}
	lat, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q", parts[0])
	}
	lng, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q", parts[1])
	}
	if err := checkRange(lat, lng); err != nil {
		return nil, err
	}

	p, err := geom.NewPoint(geom.XY).SetCoords(geom.Coord{lng, lat})
	if err != nil {
		return nil, err
	}
	return p.SetSRID(SRID), nil
}

func checkRange(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %v out of range", lat)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude %v out of range", lng)
	}
	return nil
}

// Validate returns nil for empty text or a parseable location.
func Validate(text string) error {
	if _, err := Parse(text); err != nil && !errors.Is(err, ErrEmpty) {
		return err
	}
	return nil
}

// GeoJSON converts text to a GeoJSON point, or nil when it does not parse.
func GeoJSON(text string) json.RawMessage {
	p, err := Parse(text)
	if err != nil {
		return nil
	}
	b, err := gjson.Marshal(p)
	if err != nil {
		return nil
	}
	return b
}
