package models

// LogsRequest filters the recent-logs endpoint.
type LogsRequest struct {
	Limit int    `query:"limit" default:"100" validate:"gte=1,lte=500"`
	Level string `query:"level" validate:"omitempty,oneof=warn error"`
}
