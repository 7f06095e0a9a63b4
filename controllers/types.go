package controllers

type StandardResponse struct {
	Success    bool            `json:"success"`
	Data       interface{}     `json:"data,omitempty"`
	Meta       interface{}     `json:"meta,omitempty"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
	Message    string          `json:"message,omitempty"`
}

type PaginationMeta struct {
	Limit int `json:"limit"`
	Count int `json:"count"`
}

// Bounds for the ?limit= parameter on list endpoints.
const (
	defaultListLimit = 50
	maxListLimit     = 200
)
