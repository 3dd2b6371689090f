package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/Arturolibup/sitemainventarios-sub002/internal/jobs"
)

func TestNotifyJobLogsApprovalNotice(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	job := NewNotifyJob(logger, nil)

	task, err := NewNotifyTask(NotifyPayload{
		RequisitionID: 12,
		CallID:        3,
		RequestedBy:   7,
		ApprovedBy:    9,
		ExitID:        44,
		ApprovedAt:    time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "requisition approval notice", entry["msg"])
	require.Equal(t, float64(12), entry["requisition_id"])
	require.Equal(t, float64(44), entry["exit_id"])
}

func TestNotifyJobCountsSuccessfulRun(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := jobmetrics.NewMetrics(registry)
	job := NewNotifyJob(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), metrics)

	task, err := NewNotifyTask(NotifyPayload{RequisitionID: 12})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	rec := httptest.NewRecorder()
	promhttp.HandlerFor(registry, promhttp.HandlerOpts{}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Contains(t, rec.Body.String(), `sitema_jobs_total{job="`+TaskNotifySend+`",status="success"} 1`)
}

func TestNotifyJobSkipsRetryOnBadPayload(t *testing.T) {
	job := NewNotifyJob(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), nil)

	task := asynq.NewTask(TaskNotifySend, []byte("not json"))
	err := job.Handle(context.Background(), task)
	require.ErrorIs(t, err, asynq.SkipRetry)
}
