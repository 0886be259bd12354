package models

// Activity is one persisted flight post in the feed
type Activity struct {
	ID          int64             `json:"id" db:"id"`
	UserID      string            `json:"userId" db:"user_id"`
	Fingerprint string            `json:"fingerprint" db:"fingerprint"`
	FlightDate  string            `json:"flightDate,omitempty" db:"flight_date"`
	FileURL     string            `json:"fileUrl,omitempty" db:"file_url"`
	Text        string            `json:"text,omitempty" db:"text"`
	Stats       *FlightStatistics `json:"stats,omitempty"`
	CreatedAt   string            `json:"createdAt,omitempty" db:"created_at"`
}

// ActivitiesResponse represents a paginated activity feed
type ActivitiesResponse struct {
	Data       []Activity `json:"data"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
	TotalPages int        `json:"totalPages"`
}

// ActivityFilter represents filter parameters for the feed
type ActivityFilter struct {
	UserID   string `form:"userId"`
	FromDate string `form:"fromDate"`
	ToDate   string `form:"toDate"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}
