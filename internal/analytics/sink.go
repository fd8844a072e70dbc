package analytics

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/PUZZ-INC/puzzle/internal/config"
	"github.com/PUZZ-INC/puzzle/internal/events"
)

// Sink appends account events to ClickHouse and serves dashboard aggregates.
// Availability is decided once at construction: if the connection or schema
// bootstrap fails the sink stays unavailable for the process lifetime and
// every call becomes a warn-logged no-op.
type Sink struct {
	conn   driver.Conn
	logger *zap.Logger
	addr   string
}

// NewSink connects to ClickHouse and ensures the schema exists. It never
// fails the caller; an unreachable analytics store yields a disabled sink.
func NewSink(ctx context.Context, cfg config.ClickHouseConfig, logger *zap.Logger) *Sink {
	s := &Sink{logger: logger, addr: cfg.Addr}

	opts := &clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
	}
	if cfg.Secure {
		opts.TLS = &tls.Config{}
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		logger.Error("clickhouse connection failed, analytics disabled", zap.Error(err))
		return s
	}
	if err := conn.Ping(ctx); err != nil {
		logger.Error("clickhouse unreachable, analytics disabled", zap.Error(err))
		return s
	}
	if err := bootstrapSchema(ctx, conn); err != nil {
		logger.Error("clickhouse schema bootstrap failed, analytics disabled", zap.Error(err))
		return s
	}

	logger.Info("connected to clickhouse", zap.String("addr", cfg.Addr))
	s.conn = conn
	return s
}

// Available reports whether the sink accepted its connection at construction.
func (s *Sink) Available() bool {
	return s != nil && s.conn != nil
}

// Addr returns the configured analytics store address.
func (s *Sink) Addr() string {
	if s == nil {
		return ""
	}
	return s.addr
}

// Close releases the connection.
func (s *Sink) Close() {
	if s.Available() {
		_ = s.conn.Close()
	}
}

// schemaDDL must stay compatible with stores bootstrapped by earlier
// deployments; object names are load-bearing.
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS user_events (
            user_id UInt64,
            username String,
            event_type String,
            email String,
            ip_address String,
            user_agent String,
            timestamp DateTime DEFAULT now(),
            data String DEFAULT ''
        ) ENGINE = MergeTree()
        ORDER BY (user_id, timestamp)`,
	`CREATE MATERIALIZED VIEW IF NOT EXISTS registration_stats
        ENGINE = SummingMergeTree()
        ORDER BY date
        AS SELECT
            toDate(timestamp) AS date,
            count() AS registrations
        FROM user_events
        WHERE event_type = 'registration'
        GROUP BY date`,
	`CREATE MATERIALIZED VIEW IF NOT EXISTS email_domains_stats
        ENGINE = SummingMergeTree()
        ORDER BY domain
        AS SELECT
            splitByChar('@', email)[2] AS domain,
            count() AS users_count
        FROM user_events
        WHERE event_type = 'registration' AND email != ''
        GROUP BY domain`,
}

func bootstrapSchema(ctx context.Context, conn driver.Conn) error {
	for _, ddl := range schemaDDL {
		if err := conn.Exec(ctx, ddl); err != nil {
			return err
		}
	}
	return nil
}

// LogEvent attempts one append-only insert. The returned error is advisory;
// callers are expected to discard it, and a failed insert never aborts the
// triggering user action.
func (s *Sink) LogEvent(ctx context.Context, event events.Event) error {
	if !s.Available() {
		s.logger.Warn("analytics unavailable, event dropped", zap.String("event_type", string(event.Type)))
		return nil
	}

	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	const insert = `
        INSERT INTO user_events (user_id, username, event_type, email, ip_address, user_agent, timestamp, data)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	err := s.conn.Exec(ctx, insert,
		uint64(event.SubjectID),
		event.Handle,
		string(event.Type),
		event.Email,
		event.Meta.IP,
		event.Meta.UserAgent,
		ts,
		event.Payload,
	)
	if err != nil {
		s.logger.Error("analytics insert failed",
			zap.String("event_type", string(event.Type)),
			zap.String("handle", event.Handle),
			zap.Error(err))
		return err
	}
	s.logger.Debug("analytics event recorded",
		zap.String("event_type", string(event.Type)),
		zap.String("handle", event.Handle))
	return nil
}
