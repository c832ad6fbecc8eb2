package domain

// Immutable geographic coordinates produced by a geocoder.
// They only live for the duration of the calculation that resolved them.
type Coordinates struct {
	Lat float64
	Lon float64
}
