package models

const (
	ParseModeMarkdown = "Markdown"
	ParseModeHTML     = "HTML"
)

const (
	// DefaultRedisTTL is how long a user session lives in Redis, in seconds.
	DefaultRedisTTL = 24 * 60 * 60

	// EditPageSize is the page size for editable row lists and claim batches.
	EditPageSize = 5

	// ListPageSize is the page size for read-only listings.
	ListPageSize = 10

	// DefaultClaimLimit caps how many pending rows one claim may take.
	DefaultClaimLimit = 5

	// RateLimitMessages is how many updates one user may send per window.
	RateLimitMessages = 20

	// RateLimitWindow is the rate limit window in seconds.
	RateLimitWindow = 60
)
