package dto

type ListHistoryResponse struct {
	Items      []HistoryEntryResponse `json:"items"`
	Page       int                    `json:"page"`
	PerPage    int                    `json:"per_page"`
	TotalItems int                    `json:"total_items"`
	TotalPages int                    `json:"total_pages"`
}

type RowErrorResponse struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

type ImportedRouteResponse struct {
	Driver       string                `json:"driver"`
	Origin       string                `json:"origin"`
	Destinations []DestinationResponse `json:"destinations"`
	RouteCost    float64               `json:"route_cost"`
}

// ImportFailure reports a valid row whose calculation failed.
type ImportFailure struct {
	Index  int    `json:"index"`
	Driver string `json:"driver"`
	Error  string `json:"error"`
}

type ImportResponse struct {
	Routes     []ImportedRouteResponse `json:"routes"`
	Errors     []RowErrorResponse      `json:"errors"`
	Calculated []HistoryEntryResponse  `json:"calculated,omitempty"`
	Failures   []ImportFailure         `json:"failures,omitempty"`
}

type FieldProblemResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrorResponse struct {
	Error    string                 `json:"error"`
	Problems []FieldProblemResponse `json:"problems"`
}
