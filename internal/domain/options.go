package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TravelOptions is the immutable option set for one pipeline run. It is
// constructed once, validated, and passed down so the fetch and the
// fingerprint always see the same values.
//
// Zero-valued fields mean "not set"; WithDefaults fills the documented
// defaults (mode=driving, departure_time=now).
type TravelOptions struct {
	Mode                     string
	Language                 string
	Avoid                    string
	Units                    string
	DepartureTime            string // "now" or unix seconds
	ArrivalTime              string // unix seconds
	TransitMode              string
	TransitRoutingPreference string
	TrafficModel             string
	Region                   string
}

// InvalidOptionError names the option and value that failed validation.
type InvalidOptionError struct {
	Option string
	Value  string
	Reason string
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("invalid option %s=%q: %s", e.Option, e.Value, e.Reason)
}

var (
	validModes          = []string{"driving", "walking", "bicycling", "transit"}
	validAvoids         = []string{"tolls", "highways", "ferries", "indoor"}
	validUnits          = []string{"metric", "imperial"}
	validTransitModes   = []string{"bus", "subway", "train", "tram", "rail"}
	validTransitPrefs   = []string{"less_walking", "fewer_transfers"}
	validTrafficModels  = []string{"best_guess", "optimistic", "pessimistic"}
	travelTimeTolerance = 4 * time.Minute
)

// WithDefaults returns a copy with the documented defaults applied.
func (o TravelOptions) WithDefaults() TravelOptions {
	if o.Mode == "" {
		o.Mode = "driving"
	}
	if o.DepartureTime == "" && o.ArrivalTime == "" {
		o.DepartureTime = "now"
	}
	return o
}

// Validate checks every option against its closed value set. Travel times
// may be "now" or unix seconds; timestamps more than a few minutes in the
// past are rejected.
func (o TravelOptions) Validate(now time.Time) error {
	if err := checkEnum("mode", o.Mode, validModes); err != nil {
		return err
	}
	if err := checkEnum("avoid", o.Avoid, validAvoids); err != nil {
		return err
	}
	if err := checkEnum("units", o.Units, validUnits); err != nil {
		return err
	}
	if err := checkEnum("transit_mode", o.TransitMode, validTransitModes); err != nil {
		return err
	}
	if err := checkEnum("transit_routing_preference", o.TransitRoutingPreference, validTransitPrefs); err != nil {
		return err
	}
	if err := checkEnum("traffic_model", o.TrafficModel, validTrafficModels); err != nil {
		return err
	}

	if o.DepartureTime != "" && o.ArrivalTime != "" {
		return &InvalidOptionError{
			Option: "departure_time",
			Value:  o.DepartureTime,
			Reason: "departure_time and arrival_time are mutually exclusive",
		}
	}
	if err := checkTravelTime("departure_time", o.DepartureTime, now, true); err != nil {
		return err
	}
	if err := checkTravelTime("arrival_time", o.ArrivalTime, now, false); err != nil {
		return err
	}

	return nil
}

func checkEnum(name, value string, allowed []string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return &InvalidOptionError{
		Option: name,
		Value:  value,
		Reason: "must be one of " + strings.Join(allowed, ", "),
	}
}

func checkTravelTime(name, value string, now time.Time, allowNow bool) error {
	if value == "" {
		return nil
	}
	if value == "now" {
		if allowNow {
			return nil
		}
		return &InvalidOptionError{Option: name, Value: value, Reason: `"now" is not permitted here`}
	}

	secs, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return &InvalidOptionError{Option: name, Value: value, Reason: `must be "now" or unix seconds`}
	}

	if time.Unix(secs, 0).Before(now.Add(-travelTimeTolerance)) {
		return &InvalidOptionError{Option: name, Value: value, Reason: "must not be in the past"}
	}

	return nil
}

// CanonicalString is the stable textual representation used for
// fingerprinting. Field order is fixed; changing any value changes the
// resulting fingerprint.
func (o TravelOptions) CanonicalString() string {
	parts := []string{
		"mode=" + o.Mode,
		"language=" + o.Language,
		"avoid=" + o.Avoid,
		"units=" + o.Units,
		"departure_time=" + o.DepartureTime,
		"arrival_time=" + o.ArrivalTime,
		"transit_mode=" + o.TransitMode,
		"transit_routing_preference=" + o.TransitRoutingPreference,
		"traffic_model=" + o.TrafficModel,
		"region=" + o.Region,
	}
	return strings.Join(parts, "&")
}
