package planet

// Planet is a habitable-exoplanet reference record, keyed by its Kepler
// name. The launch subsystem only ever reads these.
type Planet struct {
	KeplerName  string  `json:"keplerName" bson:"keplerName"`
	Disposition string  `json:"koiDisposition" bson:"koiDisposition"`
	Insolation  float64 `json:"koiInsol" bson:"koiInsol"`
	Radius      float64 `json:"koiPrad" bson:"koiPrad"`
}

// Habitable reports whether a Kepler object of interest passes the
// habitability filter: confirmed disposition, stellar flux within the
// habitable band, and a radius below 1.6 Earth radii.
func Habitable(disposition string, insolation, radius float64) bool {
	return disposition == "CONFIRMED" &&
		insolation > 0.36 && insolation < 1.11 &&
		radius < 1.6
}
