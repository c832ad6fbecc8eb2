package dto

type DestinationRequest struct {
	ID              string  `json:"id"`
	City            string  `json:"city"`
	Packages        int     `json:"packages"`
	ValuePerPackage float64 `json:"value_per_package"`
}

type CalculateRouteRequest struct {
	Driver       string               `json:"driver"`
	Origin       string               `json:"origin"`
	Destinations []DestinationRequest `json:"destinations"`
	RouteCost    float64              `json:"route_cost"`
}

type DestinationResponse struct {
	ID              string  `json:"id"`
	City            string  `json:"city"`
	Packages        int     `json:"packages"`
	ValuePerPackage float64 `json:"value_per_package"`
}

type SegmentResponse struct {
	From       string `json:"from"`
	To         string `json:"to"`
	DistanceKm int    `json:"distance_km"`
	TravelTime string `json:"travel_time"`
}

type FuelOptionResponse struct {
	FuelPrice   float64 `json:"fuel_price"`
	Consumption float64 `json:"consumption_liters"`
	FuelCost    float64 `json:"fuel_cost"`
	CostPerKm   float64 `json:"cost_per_km"`
}

type FuelAnalysisResponse struct {
	Region         string             `json:"region"`
	Diesel         FuelOptionResponse `json:"diesel"`
	Gasoline       FuelOptionResponse `json:"gasoline"`
	Recommendation string             `json:"recommendation"`
	Savings        float64            `json:"savings"`
}

type MetricsResponse struct {
	RevenuePerKm         float64 `json:"revenue_per_km"`
	OperationalCostPerKm float64 `json:"operational_cost_per_km"`
	TotalCostPerKm       float64 `json:"total_cost_per_km"`
	ProfitPerHour        float64 `json:"profit_per_hour"`
	RevenuePerHour       float64 `json:"revenue_per_hour"`
	PackagesPerHour      float64 `json:"packages_per_hour"`
	RevenuePerPackage    float64 `json:"revenue_per_package"`
	Efficiency           float64 `json:"efficiency"`
	ProfitWithFuel       float64 `json:"profit_with_fuel"`
	ProfitMarginWithFuel float64 `json:"profit_margin_with_fuel"`
	MarginClass          string  `json:"margin_class"`
	MarginClassWithFuel  string  `json:"margin_class_with_fuel"`
	TravelTime           string  `json:"travel_time"`
}

type RouteResultResponse struct {
	Driver            string                `json:"driver"`
	Origin            string                `json:"origin"`
	Destinations      []DestinationResponse `json:"destinations"`
	TotalDistanceKm   int                   `json:"total_distance_km"`
	TotalTravelTimeH  float64               `json:"total_travel_time_hours"`
	TotalPackages     int                   `json:"total_packages"`
	TotalRevenue      float64               `json:"total_revenue"`
	RouteCost         float64               `json:"route_cost"`
	FuelCost          float64               `json:"fuel_cost"`
	FuelAnalysis      FuelAnalysisResponse  `json:"fuel_analysis"`
	TotalCost         float64               `json:"total_cost"`
	Profit            float64               `json:"profit"`
	ProfitMargin      float64               `json:"profit_margin"`
	DistanceBreakdown []SegmentResponse     `json:"distance_breakdown"`
	Metrics           MetricsResponse       `json:"metrics"`
}

// HistoryEntryResponse is a stored route result; ID doubles as its creation time in ms.
type HistoryEntryResponse struct {
	ID   int64  `json:"id"`
	Date string `json:"date"`
	RouteResultResponse
}
