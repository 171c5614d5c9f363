package places

import "math"

const earthRadiusMeters = 6371000.0

type Point struct {
	Lat float64
	Lng float64
}

// BoundingBox is a lat/lng rectangle that contains a search circle
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

func (b BoundingBox) contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

// boundingBox widens to every longitude near the poles or when the circle
// crosses the antimeridian; distanceMeters does the exact filtering.
func boundingBox(center Point, radiusMeters float64) BoundingBox {
	dLat := radiusMeters / earthRadiusMeters * 180 / math.Pi
	box := BoundingBox{
		MinLat: math.Max(center.Lat-dLat, -90),
		MaxLat: math.Min(center.Lat+dLat, 90),
		MinLng: -180,
		MaxLng: 180,
	}

	cosLat := math.Cos(center.Lat * math.Pi / 180)
	if box.MinLat == -90 || box.MaxLat == 90 || cosLat < 1e-9 {
		return box
	}
	dLng := dLat / cosLat
	if center.Lng-dLng < -180 || center.Lng+dLng > 180 {
		return box
	}
	box.MinLng = center.Lng - dLng
	box.MaxLng = center.Lng + dLng
	return box
}

// distanceMeters is the haversine great-circle distance
func distanceMeters(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := lat2 - lat1
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}
