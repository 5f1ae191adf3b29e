package service

const (
	// History window fed to the load model. The 42-day average needs
	// a long run-up to settle, so keep a full year.
	HistoryDays = 365

	// Chart and table windows
	ChartWeeks = 12

	// Pagination limits
	FeedPageSize      = 20
	FeedActivityLimit = 500

	// Wellness lookback for the trailing averages
	WellnessWindowDays = 30
)
