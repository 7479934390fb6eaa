// internal/workers/workers_test.go
package workers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"
	"go.uber.org/mock/gomock"

	redis_a "github.com/ammerola/shelfscan/internal/adapters/redis_adapter"
	"github.com/ammerola/shelfscan/internal/core/domain"
	"github.com/ammerola/shelfscan/internal/workers"
	"github.com/ammerola/shelfscan/test/helpers"
	"github.com/ammerola/shelfscan/test/mocks"
)

func newTestCache(t *testing.T) (*redis_a.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redis_a.NewCache(client, time.Minute, helpers.TestLogger()), mr
}

func testSaleEvent() domain.SaleEvent {
	return domain.SaleEvent{
		ID:                uuid.New(),
		BatchID:           uuid.New(),
		ProductID:         uuid.New(),
		ShopID:            uuid.New(),
		Channel:           domain.ChannelCode,
		RemainingQuantity: 4,
		DiscountPercent:   decimal.NewFromInt(10),
		SoldAt:            time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
	}
}

func TestTasks_Construction(t *testing.T) {
	ev := testSaleEvent()

	task, err := workers.NewSaleRecordedTask(ev)
	require.NoError(t, err)
	assert.Equal(t, workers.TypeSaleRecorded, task.Type())

	var payload workers.SaleRecordedPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, ev.ID, payload.Event.ID)
	assert.True(t, payload.Event.DiscountPercent.Equal(ev.DiscountPercent))

	_, err = workers.NewCatalogImportTask(workers.CatalogImportPayload{ObjectKey: "k", Format: workers.FormatPDF})
	assert.ErrorContains(t, err, "shop id is required")

	_, err = workers.NewCatalogImportTask(workers.CatalogImportPayload{ObjectKey: "k", Format: "csv"})
	assert.ErrorContains(t, err, "unsupported import format")

	cleanup := workers.NewCleanupExpiredBatchesTask()
	assert.Equal(t, workers.TypeCleanupExpiredBatches, cleanup.Type())
}

func TestSaleProcessor_RecordsOnce(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	cache, mr := newTestCache(t)

	events := mocks.NewMockSaleEventRepository(ctrl)
	listings := mocks.NewMockListingService(ctrl)
	ev := testSaleEvent()

	events.EXPECT().Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, got *domain.SaleEvent) error {
			assert.Equal(t, ev.ID, got.ID)
			return nil
		}).Times(1)
	listings.EXPECT().Refresh(gomock.Any(), &ev.ShopID).Return(nil).Times(1)

	p := workers.NewSaleProcessor(events, listings, cache, helpers.TestLogger())
	task, err := workers.NewSaleRecordedTask(ev)
	require.NoError(t, err)

	require.NoError(t, p.ProcessSaleRecorded(ctx, task))
	// redelivery is absorbed by the dedupe key
	require.NoError(t, p.ProcessSaleRecorded(ctx, task))

	counter, err := mr.Get(workers.DailySalesKey(ev.ShopID.String(), ev.SoldAt))
	require.NoError(t, err)
	assert.Equal(t, "1", counter)
	assert.True(t, mr.Exists(workers.SaleDedupeKey(ev.ID.String())))
}

func TestSaleProcessor_RecordFailureReleasesDedupe(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	cache, mr := newTestCache(t)

	events := mocks.NewMockSaleEventRepository(ctrl)
	listings := mocks.NewMockListingService(ctrl)
	ev := testSaleEvent()

	events.EXPECT().Record(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

	p := workers.NewSaleProcessor(events, listings, cache, helpers.TestLogger())
	task, err := workers.NewSaleRecordedTask(ev)
	require.NoError(t, err)

	err = p.ProcessSaleRecorded(ctx, task)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record sale event")
	assert.False(t, mr.Exists(workers.SaleDedupeKey(ev.ID.String())))
}

func TestSaleProcessor_WithoutCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	events := mocks.NewMockSaleEventRepository(ctrl)
	listings := mocks.NewMockListingService(ctrl)
	ev := testSaleEvent()

	events.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)
	listings.EXPECT().Refresh(gomock.Any(), gomock.Any()).Return(errors.New("cache down"))

	p := workers.NewSaleProcessor(events, listings, nil, helpers.TestLogger())
	task, err := workers.NewSaleRecordedTask(ev)
	require.NoError(t, err)

	// a failed refresh does not fail the task
	assert.NoError(t, p.ProcessSaleRecorded(context.Background(), task))
}

func TestSaleProcessor_MalformedPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := workers.NewSaleProcessor(mocks.NewMockSaleEventRepository(ctrl), mocks.NewMockListingService(ctrl), nil, helpers.TestLogger())

	err := p.ProcessSaleRecorded(context.Background(), asynq.NewTask(workers.TypeSaleRecorded, []byte("{")))
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestListingProcessor(t *testing.T) {
	ctrl := gomock.NewController(t)
	listings := mocks.NewMockListingService(ctrl)
	shopID := uuid.New()

	gomock.InOrder(
		listings.EXPECT().Refresh(gomock.Any(), &shopID).Return(nil),
		listings.EXPECT().Refresh(gomock.Any(), (*uuid.UUID)(nil)).Return(errors.New("boom")),
	)

	p := workers.NewListingProcessor(listings, helpers.TestLogger())

	task, err := workers.NewListingRefreshTask(&shopID)
	require.NoError(t, err)
	require.NoError(t, p.ProcessListingRefresh(context.Background(), task))

	task, err = workers.NewListingRefreshTask(nil)
	require.NoError(t, err)
	assert.ErrorContains(t, p.ProcessListingRefresh(context.Background(), task), "failed to refresh listing")
}

func TestCleanupProcessor(t *testing.T) {
	ctrl := gomock.NewController(t)
	stock := mocks.NewMockStockService(ctrl)
	events := mocks.NewMockSaleEventRepository(ctrl)

	stock.EXPECT().ExpireBatches(gomock.Any(), gomock.Any()).Return(int64(3), nil)
	events.EXPECT().PruneBefore(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cutoff time.Time) (int64, error) {
			assert.WithinDuration(t, time.Now().Add(-30*24*time.Hour), cutoff, time.Minute)
			return 12, nil
		})

	p := workers.NewCleanupProcessor(stock, events, 30*24*time.Hour, helpers.TestLogger())
	require.NoError(t, p.ProcessExpiredBatches(context.Background(), workers.NewCleanupExpiredBatchesTask()))
}

func TestCleanupProcessor_ExpireFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	stock := mocks.NewMockStockService(ctrl)
	events := mocks.NewMockSaleEventRepository(ctrl)

	stock.EXPECT().ExpireBatches(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("db down"))

	p := workers.NewCleanupProcessor(stock, events, time.Hour, helpers.TestLogger())
	err := p.ProcessExpiredBatches(context.Background(), workers.NewCleanupExpiredBatchesTask())
	assert.ErrorContains(t, err, "failed to expire batches")
}

type fakeObjects struct {
	data    map[string][]byte
	removed []string
}

func (f *fakeObjects) Fetch(_ context.Context, key string) ([]byte, error) {
	b, ok := f.data[key]
	if !ok {
		return nil, errors.New("no such object")
	}
	return b, nil
}

func (f *fakeObjects) Remove(_ context.Context, key string) error {
	f.removed = append(f.removed, key)
	return nil
}

func buildImportWorkbook(t *testing.T) []byte {
	t.Helper()
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Stock")
	require.NoError(t, err)
	for _, values := range [][]string{
		{"Shop", "Product", "Qty", "Discount"},
		{"Corner Mart", "Parle G", "12", "10"},
		{"Corner Mart", "Milk", "lots", ""},
	} {
		row := sheet.AddRow()
		for _, v := range values {
			row.AddCell().Value = v
		}
	}
	var buf bytes.Buffer
	require.NoError(t, file.Write(&buf))
	return buf.Bytes()
}

func TestImportProcessor_Workbook(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	cache, _ := newTestCache(t)
	svc := mocks.NewMockCatalogService(ctrl)
	objects := &fakeObjects{data: map[string][]byte{"imports/a.xlsx": buildImportWorkbook(t)}}

	svc.EXPECT().Import(gomock.Any(), gomock.Len(1)).
		Return(&domain.ImportResult{RowsProcessed: 1, BatchesCreated: 1}, nil)

	p := workers.NewImportProcessor(svc, objects, cache, helpers.TestLogger())
	task, err := workers.NewCatalogImportTask(workers.CatalogImportPayload{
		JobID: "job-1", ObjectKey: "imports/a.xlsx", Filename: "a.xlsx", Format: workers.FormatXLSX,
	})
	require.NoError(t, err)

	require.NoError(t, p.ProcessCatalogImport(ctx, task))
	assert.Equal(t, []string{"imports/a.xlsx"}, objects.removed)

	var job workers.ImportJob
	require.NoError(t, cache.Get(ctx, workers.ImportJobKey("job-1"), &job))
	assert.Equal(t, workers.JobStatusCompleted, job.Status)
	require.NotNil(t, job.Result)
	assert.Equal(t, 1, job.Result.BatchesCreated)
	require.Len(t, job.Result.Errors, 1)
	assert.Contains(t, job.Result.Errors[0], "line 3")
}

func TestImportProcessor_DeliveryNoteParseFailureSkipsRetry(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	cache, _ := newTestCache(t)
	svc := mocks.NewMockCatalogService(ctrl)
	objects := &fakeObjects{data: map[string][]byte{"imports/n.pdf": []byte("not a pdf")}}
	shopID := uuid.New()

	p := workers.NewImportProcessor(svc, objects, cache, helpers.TestLogger())
	task, err := workers.NewCatalogImportTask(workers.CatalogImportPayload{
		JobID: "job-2", ObjectKey: "imports/n.pdf", Format: workers.FormatPDF, ShopID: &shopID,
	})
	require.NoError(t, err)

	err = p.ProcessCatalogImport(ctx, task)
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Empty(t, objects.removed)

	var job workers.ImportJob
	require.NoError(t, cache.Get(ctx, workers.ImportJobKey("job-2"), &job))
	assert.Equal(t, workers.JobStatusFailed, job.Status)
}

func TestImportProcessor_FetchFailureRetries(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := workers.NewImportProcessor(mocks.NewMockCatalogService(ctrl), &fakeObjects{}, nil, helpers.TestLogger())

	task, err := workers.NewCatalogImportTask(workers.CatalogImportPayload{ObjectKey: "missing", Format: workers.FormatXLSX})
	require.NoError(t, err)

	err = p.ProcessCatalogImport(context.Background(), task)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}
