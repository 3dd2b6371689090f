package requisition

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func TestApproveHandlerMapsDuplicateToConflict(t *testing.T) {
	env := newTestEnv(t)
	call := env.createCall(t, windowOpen, windowClose, 10)
	_, items, err := env.svc.CreateDraft(context.Background(), CreateDraftInput{CallID: call.ID, AreaID: 1, SubareaID: 2, ActorID: 50})
	require.NoError(t, err)
	reqID := items[0].RequisitionID
	require.NoError(t, env.svc.Send(context.Background(), reqID, 50))

	env.idem.keys[fmt.Sprintf("REQ-APPROVE:%d", reqID)] = "requisition.approve"

	handler := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), env.svc)
	router := chi.NewRouter()
	handler.MountRoutes(router)

	body := fmt.Sprintf(`{"warehouse_id":1,"items":[{"item_id":%d,"approved_qty":2}]}`, items[0].ID)
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/requisitions/%d/approve", reqID), strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "already processed")
}
