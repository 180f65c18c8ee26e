package kafka

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"

	"github.com/nguyentranbao-ct/merch-api/internal/models"
	"github.com/nguyentranbao-ct/merch-api/pkg/logger"
)

type fakeInvalidator struct {
	local [][]string
}

func (f *fakeInvalidator) Invalidate(ctx context.Context, routes ...string) {
	f.InvalidateLocal(ctx, routes...)
}

func (f *fakeInvalidator) InvalidateLocal(_ context.Context, routes ...string) int64 {
	f.local = append(f.local, routes)
	return int64(len(routes))
}

func encodeEvent(t *testing.T, event models.CatalogEvent) []byte {
	t.Helper()
	b, err := json.Marshal(event)
	require.NoError(t, err)
	return b
}

func TestHandleCatalogEvent(t *testing.T) {
	tests := []struct {
		name      string
		value     []byte
		wantLocal [][]string
		wantCode  codes.Code
	}{
		{
			name: "remote invalidation",
			value: encodeEvent(t, models.CatalogEvent{
				Type: models.EventCatalogInvalidated, Routes: []string{"/api/products"}, Origin: "node-b",
			}),
			wantLocal: [][]string{{"/api/products"}},
		},
		{
			name: "own event is skipped",
			value: encodeEvent(t, models.CatalogEvent{
				Type: models.EventCatalogInvalidated, Routes: []string{"/api/products"}, Origin: "node-a",
			}),
		},
		{
			name:  "other event types are ignored",
			value: encodeEvent(t, models.CatalogEvent{Type: "catalog.reindexed", Origin: "node-b"}),
		},
		{
			name:     "malformed payload",
			value:    []byte("{"),
			wantCode: codes.InvalidArgument,
		},
		{
			name: "no prefixes",
			value: encodeEvent(t, models.CatalogEvent{
				Type: models.EventCatalogInvalidated, Origin: "node-b",
			}),
			wantCode: codes.InvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &fakeInvalidator{}
			err := handleCatalogEvent(context.Background(), inv, "node-a", tt.value)
			assert.Equal(t, tt.wantCode, getCode(err))
			assert.Equal(t, tt.wantLocal, inv.local)
		})
	}
}

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *fakeWriter) Close() error {
	return nil
}

func TestPublisher(t *testing.T) {
	w := &fakeWriter{}
	p := newPublisher(w, "merch.catalog.events")
	event := models.CatalogEvent{
		Type:       models.EventCatalogInvalidated,
		Routes:     []string{"/api/universities", "/api/products"},
		Origin:     "node-a",
		OccurredAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	require.NoError(t, p.Publish(context.Background(), event))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, models.EventCatalogInvalidated, string(w.msgs[0].Key))
	assert.JSONEq(t,
		`{"type":"catalog.invalidated","prefixes":["/api/universities","/api/products"],"origin":"node-a","occurred_at":"2024-01-01T00:00:00Z"}`,
		string(w.msgs[0].Value))

	w.err = errors.New("broker down")
	assert.ErrorContains(t, p.Publish(context.Background(), event), "broker down")
}

func TestGetCodeAndLevel(t *testing.T) {
	tests := []struct {
		err       error
		wantCode  codes.Code
		wantLevel logger.Level
	}{
		{nil, codes.OK, logger.InfoLevel},
		{context.DeadlineExceeded, codes.DeadlineExceeded, logger.ErrorLevel},
		{fmt.Errorf("wrap: %w", context.Canceled), codes.Canceled, logger.WarnLevel},
		{models.NewValidationError("bad"), codes.InvalidArgument, logger.WarnLevel},
		{errors.New("boom"), codes.Unknown, logger.ErrorLevel},
	}
	for _, tt := range tests {
		code := getCode(tt.err)
		assert.Equal(t, tt.wantCode, code)
		assert.Equal(t, tt.wantLevel, getLogLevel(code))
	}
}
