package dto

import "github.com/PUZZ-INC/puzzle/internal/analytics"

// DashboardResponse aggregates analytics for the signed-in dashboard view.
// ClickhouseConnected is false when the sink came up without its store, in
// which case every collection is empty rather than an error.
type DashboardResponse struct {
	ClickhouseConnected bool                           `json:"clickhouse_connected"`
	ClickhouseAddr      string                         `json:"clickhouse_addr"`
	Totals              analytics.Totals               `json:"totals"`
	RegistrationsByDay  []analytics.DailyRegistrations `json:"registrations_by_day"`
	UniqueUsers         analytics.UniqueUserStats      `json:"unique_users"`
	RecentEvents        []analytics.RecentEvent        `json:"recent_events"`
}

// UploadResponse reports a stored image.
type UploadResponse struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"image_url"`
	Filename string `json:"filename"`
}
