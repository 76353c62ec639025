package model

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
	Meta    *Meta     `json:"meta,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type UploadedImage struct {
	URL          string `json:"url"`
	PublicID     string `json:"public_id"`
	OptimizedURL string `json:"optimized_url,omitempty"`
}

type DeleteTasksResult struct {
	Message        string `json:"message"`
	DeletedCount   int64  `json:"deleted_count"`
	RequestedCount int    `json:"requested_count"`
}
