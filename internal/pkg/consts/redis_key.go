package consts

const (
	MoodSummaryKey    = "mood:summary:"
	MoodSummaryGenKey = "mood:summary_gen:"
	RateLimitKey      = "ratelimit:"
)
