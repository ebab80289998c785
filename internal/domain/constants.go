package domain

import "math"

// Query pagination defaults
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100

	// MaxPage keeps (Page-1)*PageSize within int for any normalized page size
	MaxPage = math.MaxInt / MaxPageSize
)

// Time format constants
const (
	TimeFormat = "2006-01-02T15:04:05Z07:00" // RFC3339
)
