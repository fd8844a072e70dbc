package analytics

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DailyRegistrations is one row of the registrations-per-day aggregate.
type DailyRegistrations struct {
	Date          time.Time `json:"date"`
	Registrations uint64    `json:"registrations"`
}

// UniqueUserStats counts distinct registered handles and emails.
type UniqueUserStats struct {
	UniqueHandles uint64 `json:"unique_handles"`
	UniqueEmails  uint64 `json:"unique_emails"`
}

// RecentEvent is one row of the recent-events feed.
type RecentEvent struct {
	SubjectID uint64    `json:"subject_id"`
	Handle    string    `json:"handle"`
	EventType string    `json:"event_type"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
	Payload   string    `json:"payload"`
}

// Totals holds overall event counts for the dashboard.
type Totals struct {
	Events        uint64 `json:"events"`
	Subjects      uint64 `json:"subjects"`
	Registrations uint64 `json:"registrations"`
	Logins        uint64 `json:"logins"`
}

// RegistrationsByDay returns registration counts over the trailing window.
// Best effort: an unavailable sink or failed query yields an empty slice.
func (s *Sink) RegistrationsByDay(ctx context.Context, days int) []DailyRegistrations {
	if !s.Available() {
		return nil
	}

	const query = `
        SELECT toDate(timestamp) AS date, count() AS registrations
        FROM user_events
        WHERE event_type = 'registration' AND timestamp >= today() - ?
        GROUP BY date
        ORDER BY date DESC`
	rows, err := s.conn.Query(ctx, query, days)
	if err != nil {
		s.logger.Error("registration stats query failed", zap.Error(err))
		return nil
	}
	defer rows.Close()

	var stats []DailyRegistrations
	for rows.Next() {
		var row DailyRegistrations
		if err := rows.Scan(&row.Date, &row.Registrations); err != nil {
			s.logger.Error("registration stats scan failed", zap.Error(err))
			return nil
		}
		stats = append(stats, row)
	}
	return stats
}

// UniqueUsers returns distinct handle and email counts among registrations.
func (s *Sink) UniqueUsers(ctx context.Context) UniqueUserStats {
	var stats UniqueUserStats
	if !s.Available() {
		return stats
	}

	row := s.conn.QueryRow(ctx, `
        SELECT uniq(username)
        FROM user_events
        WHERE event_type = 'registration' AND username != ''`)
	if err := row.Scan(&stats.UniqueHandles); err != nil {
		s.logger.Error("unique handles query failed", zap.Error(err))
		return UniqueUserStats{}
	}

	row = s.conn.QueryRow(ctx, `
        SELECT uniq(email)
        FROM user_events
        WHERE event_type = 'registration' AND email != ''`)
	if err := row.Scan(&stats.UniqueEmails); err != nil {
		s.logger.Error("unique emails query failed", zap.Error(err))
		return UniqueUserStats{}
	}
	return stats
}

// RecentEvents returns the latest events by timestamp descending.
func (s *Sink) RecentEvents(ctx context.Context, limit int) []RecentEvent {
	if !s.Available() {
		return nil
	}

	const query = `
        SELECT user_id, username, event_type, email, timestamp, data
        FROM user_events
        ORDER BY timestamp DESC
        LIMIT ?`
	rows, err := s.conn.Query(ctx, query, limit)
	if err != nil {
		s.logger.Error("recent events query failed", zap.Error(err))
		return nil
	}
	defer rows.Close()

	var eventsOut []RecentEvent
	for rows.Next() {
		var row RecentEvent
		if err := rows.Scan(&row.SubjectID, &row.Handle, &row.EventType, &row.Email, &row.Timestamp, &row.Payload); err != nil {
			s.logger.Error("recent events scan failed", zap.Error(err))
			return nil
		}
		eventsOut = append(eventsOut, row)
	}
	return eventsOut
}

// TotalStats returns overall counts for the dashboard header.
func (s *Sink) TotalStats(ctx context.Context) Totals {
	var totals Totals
	if !s.Available() {
		return totals
	}

	counts := []struct {
		query string
		dest  *uint64
	}{
		{`SELECT count() FROM user_events`, &totals.Events},
		{`SELECT uniq(user_id) FROM user_events WHERE user_id > 0`, &totals.Subjects},
		{`SELECT count() FROM user_events WHERE event_type = 'registration'`, &totals.Registrations},
		{`SELECT count() FROM user_events WHERE event_type = 'login'`, &totals.Logins},
	}
	for _, c := range counts {
		if err := s.conn.QueryRow(ctx, c.query).Scan(c.dest); err != nil {
			s.logger.Error("total stats query failed", zap.Error(err))
			return Totals{}
		}
	}
	return totals
}
