package consts

const (
	ServiceName  = "mood-checkin-api"
	APIKeyHeader = "x-api-key"
)
