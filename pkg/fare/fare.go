package fare

import (
	"math"

	"github.com/spf13/viper"
)

// Tariff fare parameters are deployment configuration, never embedded
// constants: operators adjust them per city.
type Tariff struct {
	BaseFare    float64
	PerKmRate   float64
	BaseKm      float64
	MinimumFare float64
}

func NewTariff(baseFare, perKmRate, baseKm, minimumFare float64) Tariff {
	return Tariff{
		BaseFare:    baseFare,
		PerKmRate:   perKmRate,
		BaseKm:      baseKm,
		MinimumFare: minimumFare,
	}
}

func TariffFromConfig() Tariff {
	viper.SetDefault("FARE_BASE", 50.0)
	viper.SetDefault("FARE_PER_KM", 15.0)
	viper.SetDefault("FARE_BASE_KM", 1.0)
	viper.SetDefault("FARE_MINIMUM", 20.0)

	return NewTariff(
		viper.GetFloat64("FARE_BASE"),
		viper.GetFloat64("FARE_PER_KM"),
		viper.GetFloat64("FARE_BASE_KM"),
		viper.GetFloat64("FARE_MINIMUM"),
	)
}

// Calculate flat base fare covers the first BaseKm kilometers, every
// kilometer beyond is billed at PerKmRate. Rounded to whole currency units
// and floored at the minimum fare.
func (t Tariff) Calculate(distanceMeters float64) float64 {
	km := distanceMeters / 1000.0

	fare := t.BaseFare
	if km > t.BaseKm {
		fare = t.BaseFare + (km-t.BaseKm)*t.PerKmRate
	}

	fare = math.Round(fare)
	if fare < t.MinimumFare {
		fare = t.MinimumFare
	}
	return fare
}
