package services

import (
	"math"
	"route-profit-service/internal/domain"
)

// Typical consumption of a delivery vehicle, in km per liter.
const (
	DieselKmPerLiter   = 8.0
	GasolineKmPerLiter = 6.0
)

// AnalyzeFuel projects diesel and gasoline cost for a route of the given
// length, priced in the state of the origin city.
func AnalyzeFuel(regions *RegionTable, totalDistanceKm int, originCity string) domain.FuelAnalysis {
	state := regions.StateFor(originCity)
	distance := float64(totalDistanceKm)

	diesel := fuelOption(distance, DieselKmPerLiter, regions.PriceFor(state, domain.FuelDiesel))
	gasoline := fuelOption(distance, GasolineKmPerLiter, regions.PriceFor(state, domain.FuelGasoline))

	recommendation := domain.FuelGasoline
	if diesel.FuelCost <= gasoline.FuelCost {
		recommendation = domain.FuelDiesel
	}

	return domain.FuelAnalysis{
		Region:         state,
		Diesel:         diesel,
		Gasoline:       gasoline,
		Recommendation: recommendation,
		Savings:        math.Abs(diesel.FuelCost - gasoline.FuelCost),
	}
}

func fuelOption(distance, kmPerLiter, price float64) domain.FuelOption {
	liters := distance / kmPerLiter
	cost := liters * price

	// A zero-length route has no meaningful per-km cost.
	costPerKm := 0.0
	if distance > 0 {
		costPerKm = cost / distance
	}

	return domain.FuelOption{
		FuelPrice: price,
		Liters:    liters,
		FuelCost:  cost,
		CostPerKm: costPerKm,
	}
}
