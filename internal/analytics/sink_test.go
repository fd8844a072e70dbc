package analytics

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/PUZZ-INC/puzzle/internal/events"
)

// An unavailable sink must degrade to no-ops rather than errors: the app runs
// fine without its analytics store.
func TestUnavailableSinkIsNoop(t *testing.T) {
	s := &Sink{logger: zap.NewNop(), addr: "127.0.0.1:9000"}

	assert.False(t, s.Available())
	assert.Equal(t, "127.0.0.1:9000", s.Addr())

	err := s.LogEvent(context.Background(), events.NewLogin(1, "alice", events.RequestMeta{}))
	assert.NoError(t, err)

	ctx := context.Background()
	assert.Empty(t, s.RegistrationsByDay(ctx, 30))
	assert.Empty(t, s.RecentEvents(ctx, 50))
	assert.Zero(t, s.UniqueUsers(ctx))
	assert.Zero(t, s.TotalStats(ctx))

	s.Close() // must not panic without a connection
}

func TestNilSinkAccessors(t *testing.T) {
	var s *Sink
	assert.False(t, s.Available())
	assert.Empty(t, s.Addr())
}

// Object names must line up with stores bootstrapped by earlier deployments;
// IF NOT EXISTS silently creates a diverging twin otherwise.
func TestSchemaObjectNames(t *testing.T) {
	joined := strings.Join(schemaDDL, "\n")
	assert.Contains(t, joined, "CREATE TABLE IF NOT EXISTS user_events")
	assert.Contains(t, joined, "ORDER BY (user_id, timestamp)")
	assert.Contains(t, joined, "CREATE MATERIALIZED VIEW IF NOT EXISTS registration_stats")
	assert.Contains(t, joined, "CREATE MATERIALIZED VIEW IF NOT EXISTS email_domains_stats")
	assert.NotContains(t, joined, "email_domain_stats")
}
