package catalog

import (
	"fmt"
	"strings"
)

type Vehicle string

const (
	VehicleCar    Vehicle = "car"
	VehicleVan    Vehicle = "van"
	VehicleBus    Vehicle = "bus"
	VehicleLuxury Vehicle = "luxury"
)

// DefaultVehicle is preselected for a new trip.
const DefaultVehicle = VehicleCar

type VehicleOption struct {
	Value Vehicle `json:"value"`
	Label string  `json:"label"`
	Price string  `json:"price"`
}

var vehicleOptions = []VehicleOption{
	{Value: VehicleCar, Label: "Car (1-4 passengers)", Price: "From $50/day"},
	{Value: VehicleVan, Label: "Van (5-8 passengers)", Price: "From $80/day"},
	{Value: VehicleBus, Label: "Bus (9+ passengers)", Price: "From $120/day"},
	{Value: VehicleLuxury, Label: "Luxury Car", Price: "From $150/day"},
}

func VehicleOptions() []VehicleOption {
	return append([]VehicleOption(nil), vehicleOptions...)
}

func (v Vehicle) IsValid() bool {
	_, ok := v.Option()
	return ok
}

func (v Vehicle) Option() (VehicleOption, bool) {
	for _, o := range vehicleOptions {
		if o.Value == v {
			return o, true
		}
	}
	return VehicleOption{}, false
}

// Label falls back to the raw value for unknown vehicles.
func (v Vehicle) Label() string {
	if o, ok := v.Option(); ok {
		return o.Label
	}
	return string(v)
}

func ParseVehicle(s string) (Vehicle, error) {
	v := Vehicle(strings.ToLower(strings.TrimSpace(s)))
	if !v.IsValid() {
		return "", fmt.Errorf("invalid vehicle: %q", s)
	}
	return v, nil
}
