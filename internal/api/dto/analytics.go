package dto

type RouteTypeResponse struct {
	RouteType       string  `json:"route_type"`
	Count           int     `json:"count"`
	TotalRevenue    float64 `json:"total_revenue"`
	TotalProfit     float64 `json:"total_profit"`
	TotalCost       float64 `json:"total_cost"`
	AverageMargin   float64 `json:"average_margin"`
	AverageDistance float64 `json:"average_distance_km"`
}

type RankingResponse struct {
	Driver        string  `json:"driver"`
	RouteName     string  `json:"route_name"`
	TotalPackages int     `json:"total_packages"`
	TotalRevenue  float64 `json:"total_revenue"`
	TotalProfit   float64 `json:"total_profit"`
	ProfitMargin  float64 `json:"profit_margin"`
}

type DashboardResponse struct {
	TotalRoutes             int                 `json:"total_routes"`
	TotalRevenue            float64             `json:"total_revenue"`
	TotalProfit             float64             `json:"total_profit"`
	AverageMargin           float64             `json:"average_margin"`
	TotalPackages           int                 `json:"total_packages"`
	AverageProfitPerPackage float64             `json:"average_profit_per_package"`
	RouteTypes              []RouteTypeResponse `json:"route_types"`
	LosingRouteTypes        []RouteTypeResponse `json:"losing_route_types"`
	TopByVolume             []RankingResponse   `json:"top_by_volume"`
	TopByProfit             []RankingResponse   `json:"top_by_profit"`
}

type CompareRequest struct {
	IDs []int64 `json:"ids"`
}

type ComparedRouteResponse struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	Driver            string  `json:"driver"`
	Profit            float64 `json:"profit"`
	Margin            float64 `json:"margin"`
	Revenue           float64 `json:"revenue"`
	DistanceKm        int     `json:"distance_km"`
	Efficiency        float64 `json:"efficiency"`
	ProfitPerHour     float64 `json:"profit_per_hour"`
	Cost              float64 `json:"cost"`
	Packages          int     `json:"packages"`
	ValuePerPackage   float64 `json:"value_per_package"`
	CostPerKm         float64 `json:"cost_per_km"`
	RevenuePerPackage float64 `json:"revenue_per_package"`
}

type BestPerformersResponse struct {
	Profit        int64 `json:"profit"`
	Margin        int64 `json:"margin"`
	Revenue       int64 `json:"revenue"`
	Efficiency    int64 `json:"efficiency"`
	ProfitPerHour int64 `json:"profit_per_hour"`
}

type SuggestionResponse struct {
	Type          string  `json:"type"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Impact        string  `json:"impact"`
	Difficulty    string  `json:"difficulty"`
	PotentialGain float64 `json:"potential_gain"`
}

type ComparisonResponse struct {
	Routes      []ComparedRouteResponse `json:"routes"`
	Best        BestPerformersResponse  `json:"best"`
	Suggestions []SuggestionResponse    `json:"suggestions"`
}
