// Package geo resolves coordinates to timezones for local-time rules.
package geo

import (
	"fmt"
	"math"
	"time"
)

// Resolver maps a coordinate pair to the timezone in effect there.
type Resolver interface {
	Location(lat, lng float64) (*time.Location, error)
}

// LongitudeResolver approximates the timezone from longitude alone, one
// hour per 15-degree band. Good enough for hour-granularity rules; swap in
// a shapefile-backed resolver when political boundaries start to matter.
type LongitudeResolver struct{}

// NewLongitudeResolver returns the longitude-band resolver.
func NewLongitudeResolver() *LongitudeResolver {
	return &LongitudeResolver{}
}

func (r *LongitudeResolver) Location(_ float64, lng float64) (*time.Location, error) {
	if lng < -180 || lng > 180 {
		return nil, fmt.Errorf("longitude out of range: %f", lng)
	}
	hours := int(math.Round(lng / 15))
	return time.FixedZone(fmt.Sprintf("UTC%+d", hours), hours*3600), nil
}
