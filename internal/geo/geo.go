// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package geo

import "math"

const (
	radPerDeg = math.Pi / 180.0
	radPerNm  = math.Pi / (180.0 * 60.0)
)

// DegToRad converts degrees to radians.
func DegToRad(d float64) float64 { return d * radPerDeg }

// RadToDeg converts radians to degrees.
func RadToDeg(r float64) float64 { return r / radPerDeg }

// NmToRad converts nautical miles to radians of arc on the sphere.
func NmToRad(nm float64) float64 { return nm * radPerNm }

// RadToNm converts radians of arc to nautical miles.
func RadToNm(r float64) float64 { return r / radPerNm }

// CourseAndDistance returns the initial great-circle course (degrees in
// [0, 360)) and the distance (nautical miles) from point 1 to point 2.
//
// Distance uses the haversine form:
//
//	d = 2 * asin(sqrt(sin²((lat1-lat2)/2) + cos(lat1)*cos(lat2)*sin²((lon2-lon1)/2)))
//
// For identical points atan2(0, 0) is 0, so the course is 0.
func CourseAndDistance(lat1, lon1, lat2, lon2 float64) (float64, float64) {
	lat1 = DegToRad(lat1)
	lon1 = DegToRad(lon1)
	lat2 = DegToRad(lat2)
	lon2 = DegToRad(lon2)

	sdlat := math.Sin((lat1 - lat2) / 2.0)
	sdlon := math.Sin((lon2 - lon1) / 2.0)
	d := 2.0 * math.Asin(math.Sqrt(sdlat*sdlat+math.Cos(lat1)*math.Cos(lat2)*sdlon*sdlon))

	cse := math.Atan2(math.Sin(lon2-lon1)*math.Cos(lat2),
		math.Cos(lat1)*math.Sin(lat2)-math.Sin(lat1)*math.Cos(lat2)*math.Cos(lon2-lon1))
	// math.Mod keeps the dividend's sign; shift into [0, 2π) first.
	cse = math.Mod(cse+2.0*math.Pi, 2.0*math.Pi)

	return RadToDeg(cse), RadToNm(d)
}
