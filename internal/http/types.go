package http

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// Product is one catalogue item.
type Product struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
}

// ProductsResponse is the response body for GET /products.
type ProductsResponse struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Skip     int       `json:"skip"`
	Limit    int       `json:"limit"`
}

// StatusResponse is the response body for GET /status/:code.
type StatusResponse struct {
	Code int    `json:"code"`
	Text string `json:"text"`
}

// DelayResponse is the response body for GET /delay/:ms.
type DelayResponse struct {
	DelayedMS int `json:"delayed_ms"`
}
