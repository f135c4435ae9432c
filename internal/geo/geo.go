// Package geo holds great-circle helpers used by discovery queries.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used by DistanceKm.
const EarthRadiusKm = 6371.0

// kmPerDegreeLat is the length of one degree of latitude on the same sphere.
const kmPerDegreeLat = EarthRadiusKm * math.Pi / 180

// DistanceKm returns the haversine distance between two coordinates in kilometres.
// Inputs are degrees; non-finite inputs propagate as NaN.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// Box is a latitude/longitude rectangle. When LonBounded is false the box
// spans every longitude.
type Box struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
	LonBounded     bool
}

// BoundingBox returns a rectangle containing every point within radiusKm of
// (lat, lon). It is a coarse prefilter only; callers still check DistanceKm.
//
// Behavior:
//   - Latitude bounds are clamped to [-90, 90].
//   - If the circle reaches a pole or crosses the antimeridian the longitude
//     bound is dropped rather than split into two ranges.
func BoundingBox(lat, lon, radiusKm float64) Box {
	dLat := radiusKm / kmPerDegreeLat
	b := Box{
		MinLat: math.Max(lat-dLat, -90),
		MaxLat: math.Min(lat+dLat, 90),
	}
	if b.MinLat <= -90 || b.MaxLat >= 90 {
		return b
	}

	// widest longitude span sits at the latitude closest to a pole
	edgeLat := math.Max(math.Abs(b.MinLat), math.Abs(b.MaxLat))
	dLon := radiusKm / (kmPerDegreeLat * math.Cos(toRad(edgeLat)))
	if dLon >= 180 || lon-dLon < -180 || lon+dLon > 180 {
		return b
	}
	b.MinLon, b.MaxLon = lon-dLon, lon+dLon
	b.LonBounded = true
	return b
}

func toRad(deg float64) float64 { return deg * math.Pi / 180 }
