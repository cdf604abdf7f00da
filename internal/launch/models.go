package launch

import (
	"encoding/json"
	"time"
)

// Status is the lifecycle state of a launch. A launch is scheduled when
// created and can only ever transition to aborted.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusAborted   Status = "aborted"
)

// DefaultFlightNumber is the flight number of the seed launch; newly
// scheduled launches always receive a higher number.
const DefaultFlightNumber = 100

// DefaultCustomers is assigned to every scheduled launch. Clients cannot
// set customers themselves.
var DefaultCustomers = []string{"ZTM", "NASA"}

// Launch is the central entity of the system. FlightNumber is the natural
// key, server-assigned and unique.
type Launch struct {
	FlightNumber int
	Mission      string
	Rocket       string
	LaunchDate   time.Time
	Target       string
	Customers    []string
	Status       Status
}

// launchRecord is the wire and storage representation of a Launch. The
// upcoming/success flags are derived from Status so that contradictory
// combinations cannot occur in the domain model.
type launchRecord struct {
	FlightNumber int       `json:"flightNumber" bson:"flightNumber"`
	Mission      string    `json:"mission" bson:"mission"`
	Rocket       string    `json:"rocket" bson:"rocket"`
	LaunchDate   time.Time `json:"launchDate" bson:"launchDate"`
	Target       string    `json:"target" bson:"target"`
	Customers    []string  `json:"customers" bson:"customers"`
	Upcoming     bool      `json:"upcoming" bson:"upcoming"`
	Success      bool      `json:"success" bson:"success"`
}

func (l Launch) record() launchRecord {
	return launchRecord{
		FlightNumber: l.FlightNumber,
		Mission:      l.Mission,
		Rocket:       l.Rocket,
		LaunchDate:   l.LaunchDate,
		Target:       l.Target,
		Customers:    l.Customers,
		Upcoming:     l.Status == StatusScheduled,
		Success:      l.Status == StatusScheduled,
	}
}

func (r launchRecord) launch() Launch {
	status := StatusScheduled
	if !r.Upcoming {
		status = StatusAborted
	}
	return Launch{
		FlightNumber: r.FlightNumber,
		Mission:      r.Mission,
		Rocket:       r.Rocket,
		LaunchDate:   r.LaunchDate,
		Target:       r.Target,
		Customers:    r.Customers,
		Status:       status,
	}
}

// MarshalJSON emits the wire representation with upcoming/success flags.
func (l Launch) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.record())
}

// UnmarshalJSON accepts the wire representation.
func (l *Launch) UnmarshalJSON(data []byte) error {
	var r launchRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	*l = r.launch()
	return nil
}

// ScheduleRequest carries the client-supplied fields of a new launch. All
// other launch fields are server-assigned.
type ScheduleRequest struct {
	Mission    string
	Rocket     string
	LaunchDate time.Time
	Target     string
}

// SeedLaunch returns the canonical first launch, upserted on every boot.
func SeedLaunch() Launch {
	return Launch{
		FlightNumber: DefaultFlightNumber,
		Mission:      "Kepler Exploration X",
		Rocket:       "Explorer IS1",
		LaunchDate:   time.Date(2030, time.December, 27, 0, 0, 0, 0, time.UTC),
		Target:       "Kepler-442 b",
		Customers:    DefaultCustomers,
		Status:       StatusScheduled,
	}
}

// launchDateLayouts are the date formats accepted on launch creation.
var launchDateLayouts = []string{
	"January 2, 2006",
	"2006-01-02",
	time.RFC3339,
}

// ParseLaunchDate parses client-supplied launch date text.
func ParseLaunchDate(text string) (time.Time, error) {
	var err error
	for _, layout := range launchDateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, text); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// Pagination holds skip/limit parameters for listing launches. A zero
// limit means no limit.
type Pagination struct {
	Skip  int64
	Limit int64
}

// NewPagination converts one-based page and limit values into skip/limit.
func NewPagination(page, limit int64) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 0 {
		limit = 0
	}
	return Pagination{
		Skip:  (page - 1) * limit,
		Limit: limit,
	}
}
