package spatial

import "math"

// Lambert Conformal Conic (two standard parallels) on GRS80 for
// NAD83 / Pennsylvania South (ftUS), EPSG:2272. NAD83 and WGS84 are treated as the same datum.
const (
	grs80A = 6378137.0
	grs80F = 1 / 298.257222101

	usSurveyFoot = 1200.0 / 3937.0

	paSouthLat1       = 40 + 58.0/60
	paSouthLat2       = 39 + 56.0/60
	paSouthLat0       = 39 + 20.0/60
	paSouthLon0       = -77.75
	paSouthFalseEast  = 600000.0 // meters
	paSouthFalseNorth = 0.0

	inverseIterations = 15
)

type lambertConic struct {
	e    float64
	n    float64
	af   float64 // a * F
	rho0 float64
	lon0 float64
	x0   float64
	y0   float64
	unit float64
}

var paSouth = newLambertConic(paSouthLat1, paSouthLat2, paSouthLat0, paSouthLon0, paSouthFalseEast, paSouthFalseNorth, usSurveyFoot)

func newLambertConic(lat1, lat2, lat0, lon0, x0, y0, unit float64) *lambertConic {
	e2 := 2*grs80F - grs80F*grs80F
	e := math.Sqrt(e2)

	m := func(phi float64) float64 {
		s := math.Sin(phi)
		return math.Cos(phi) / math.Sqrt(1-e2*s*s)
	}

	p1, p2, p0 := radians(lat1), radians(lat2), radians(lat0)
	m1, m2 := m(p1), m(p2)
	t1, t2, t0 := tsfn(p1, e), tsfn(p2, e), tsfn(p0, e)

	n := (math.Log(m1) - math.Log(m2)) / (math.Log(t1) - math.Log(t2))
	f := m1 / (n * math.Pow(t1, n))

	return &lambertConic{
		e:    e,
		n:    n,
		af:   grs80A * f,
		rho0: grs80A * f * math.Pow(t0, n),
		lon0: radians(lon0),
		x0:   x0,
		y0:   y0,
		unit: unit,
	}
}

// tsfn - isometric latitude term t(phi) for eccentricity e
func tsfn(phi, e float64) float64 {
	s := math.Sin(phi)
	return math.Tan(math.Pi/4-phi/2) / math.Pow((1-e*s)/(1+e*s), e/2)
}

func (l *lambertConic) forward(lon, lat float64) (x, y float64) {
	rho := l.af * math.Pow(tsfn(radians(lat), l.e), l.n)
	theta := l.n * (radians(lon) - l.lon0)
	x = (l.x0 + rho*math.Sin(theta)) / l.unit
	y = (l.y0 + l.rho0 - rho*math.Cos(theta)) / l.unit
	return x, y
}

func (l *lambertConic) inverse(x, y float64) (lon, lat float64) {
	dx := x*l.unit - l.x0
	dy := l.rho0 - (y*l.unit - l.y0)

	rho := math.Copysign(math.Hypot(dx, dy), l.n)
	var theta float64
	if l.n > 0 {
		theta = math.Atan2(dx, dy)
	} else {
		theta = math.Atan2(-dx, -dy)
	}

	t := math.Pow(rho/l.af, 1/l.n)
	phi := math.Pi/2 - 2*math.Atan(t)
	for i := 0; i < inverseIterations; i++ {
		s := math.Sin(phi)
		phi = math.Pi/2 - 2*math.Atan(t*math.Pow((1-l.e*s)/(1+l.e*s), l.e/2))
	}

	return degrees(theta/l.n + l.lon0), degrees(phi)
}

// ToStatePlane projects WGS84 lon/lat degrees to EPSG:2272 feet
func ToStatePlane(lon, lat float64) (x, y float64) {
	return paSouth.forward(lon, lat)
}

// ToGeographic converts EPSG:2272 feet back to WGS84 lon/lat degrees
func ToGeographic(x, y float64) (lon, lat float64) {
	return paSouth.inverse(x, y)
}

func radians(d float64) float64 { return d * math.Pi / 180 }
func degrees(r float64) float64 { return r * 180 / math.Pi }
