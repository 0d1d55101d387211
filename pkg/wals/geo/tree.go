package geo

// TreeClassifier places coordinates with a fixed chain of latitude and
// longitude thresholds. It needs no data and covers the whole globe.
//
// Branches are evaluated in order and the first match wins, so a point lying
// exactly on a threshold belongs to whichever branch tests it first.
// Branch order is significant.
type TreeClassifier struct{}

// Classify implements Classifier.
func (TreeClassifier) Classify(lat, lon float64) Province {
	if !validCoordinate(lat, lon) {
		return Uninhabited
	}

	// Western hemisphere
	if lon < -26 {
		if lat < 14.4 {
			if lon > -82 {
				return SouthAmerica
			}
			return Oceania
		}
		if lon > -80 && lat < 25 {
			return Caribbean
		}
		if lon > -115 && lon < -80 && lat < 30 {
			return CentralAmerica
		}
		if lat > 40 || lon > -115 {
			return NorthAmerica
		}
		return Oceania
	}

	// Europe and Africa
	if lon < 65 {
		if lat < 12 {
			return SubsaharanAfrica
		}
		// North Africa and the Middle East
		if lat < 37 {
			if lon < 41 {
				return NorthAfrica
			}
			return SouthwestAsia
		}
		// Europe and the Caucasus
		if lon < 50 {
			if lat < 45 && lon > 45 {
				return Caucasus
			}
			return Europe
		}
		if lat > 55 {
			return CentralAsia
		}
		return Siberia
	}

	// India and the eastern half of Central Asia
	if lon < 93 {
		if lat < 37 {
			return India
		}
		if lat < 55 {
			return CentralAsia
		}
		return Siberia
	}

	if lat > 51 {
		return Siberia
	}
	if lat > 22 {
		return EastAsia
	}
	if lat < -10 || lon > 130 {
		return Oceania
	}
	if lat < 6 || lon > 113 {
		return Indonesia
	}
	return Indochina
}
