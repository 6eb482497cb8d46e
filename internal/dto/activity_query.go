package dto

import "time"

// ActivityFilter narrows ledger queries. Zero-value fields are ignored.
type ActivityFilter struct {
	ProductID     int
	VariantID     *int
	Type          string
	PerformedBy   int
	ReferenceType string
	ReferenceID   uint
	StartDate     *time.Time
	EndDate       *time.Time
}

type Page struct {
	Number int
	Limit  int
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

type PaginationDTO struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

type ListActivitiesResponse struct {
	TraceID    string        `json:"traceId"`
	Activities []ActivityDTO `json:"activities"`
	Pagination PaginationDTO `json:"pagination"`
	Timestamp  time.Time     `json:"timestamp"`
}

// TypeSummary is the quantity moved for one activity type of one product.
type TypeSummary struct {
	Type          string `json:"type"`
	TotalQuantity int    `json:"totalQuantity"`
	Count         int    `json:"count"`
}

type ProductActivitySummary struct {
	ProductID    int           `json:"productId"`
	ProductName  string        `json:"productName"`
	CurrentStock int           `json:"currentStock"`
	Activities   []TypeSummary `json:"activities"`
}

type ActivitySummaryResponse struct {
	TraceID   string                   `json:"traceId"`
	Summary   []ProductActivitySummary `json:"summary"`
	Timestamp time.Time                `json:"timestamp"`
}
