package metrics_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	frameflow "github.com/frameflow/frameflow"
	"github.com/frameflow/frameflow/metrics"
)

func TestCollectorRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	ctx := context.Background()
	actor := uuid.New()

	collector.Record(ctx, frameflow.ActivityEvent{EventType: frameflow.ActivityEventLoginSuccess, Actor: actor})
	collector.Record(ctx, frameflow.ActivityEvent{EventType: frameflow.ActivityEventLoginSuccess, Actor: actor})
	collector.Record(ctx, frameflow.ActivityEvent{EventType: frameflow.ActivityEventLoginFailure})
	collector.Record(ctx, frameflow.ActivityEvent{EventType: frameflow.ActivityEventUserRegistered, Actor: actor})
	collector.Record(ctx, frameflow.ActivityEvent{
		EventType:  frameflow.ActivityEventToggleApplied,
		Actor:      actor,
		Action:     frameflow.ActionFollow,
		ToggleKind: frameflow.ToggleAddition,
	})
	collector.Record(ctx, frameflow.ActivityEvent{
		EventType: frameflow.ActivityEventToggleRejected,
		Actor:     actor,
		Action:    frameflow.ActionLike,
	})
	collector.Record(ctx, frameflow.ActivityEvent{
		EventType: frameflow.ActivityEventNotificationEmitted,
		Action:    frameflow.ActionFollow,
	})
	collector.Record(ctx, frameflow.ActivityEvent{
		EventType: frameflow.ActivityEventNotificationRetracted,
		Action:    frameflow.ActionFollow,
	})

	families, err := reg.Gather()
	require.NoError(t, err)

	got := map[string]bool{}
	for _, mf := range families {
		got[mf.GetName()] = true
	}
	assert.True(t, got["frameflow_login_success_total"])
	assert.True(t, got["frameflow_toggles_applied_total"])

	count, err := testutil.GatherAndCount(reg,
		"frameflow_login_success_total",
		"frameflow_toggles_applied_total",
		"frameflow_notifications_emitted_total",
	)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestHandlerServesScrapes(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)
	collector.Record(context.Background(), frameflow.ActivityEvent{EventType: frameflow.ActivityEventLoginSuccess})

	rec := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "frameflow_login_success_total 1")
}
