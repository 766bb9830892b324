package domain

import "github.com/golang/geo/s2"

// earthRadiusKm is the IUGG mean Earth radius.
const earthRadiusKm = 6371.0088

// GreatCircleKm returns the great-circle distance between two points in km.
func GreatCircleKm(lat1, lon1, lat2, lon2 float64) float64 {
	a := s2.LatLngFromDegrees(lat1, lon1)
	b := s2.LatLngFromDegrees(lat2, lon2)
	return a.Distance(b).Radians() * earthRadiusKm
}
