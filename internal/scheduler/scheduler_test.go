package scheduler

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockForecast/internal/client"
	"StockForecast/internal/exporter"
	"StockForecast/internal/model"
	"StockForecast/internal/session"
	"StockForecast/internal/workflow"
)

type fakeSender struct {
	mu       sync.Mutex
	messages []string
	docs     []string
}

func (f *fakeSender) Send(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, text)
	return nil
}

func (f *fakeSender) SendDocument(path, caption string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs = append(f.docs, path)
	return nil
}

func (f *fakeSender) all() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.messages...)
}

func newTestScheduler(t *testing.T, mock *client.MockForecaster) (*Scheduler, *fakeSender) {
	t.Helper()
	st, err := session.NewStore("")
	require.NoError(t, err)
	st.SetFile("data/sales.csv")
	st.SetPeriod(model.March, 2026)

	sender := &fakeSender{}
	c := workflow.NewController(mock, workflow.Options{})
	s := NewScheduler(context.Background(), c, st, sender, t.TempDir(), exporter.FormatText)
	return s, sender
}

func mockWith(n int) *client.MockForecaster {
	preds := make([]model.PredictionResult, n)
	for i := range preds {
		preds[i] = model.PredictionResult{
			ProductID:        fmt.Sprintf("P%03d", i+1),
			ProductCategory:  "Bakery",
			LastMonthSales:   80,
			PredictedSales:   72,
			GrowthPercentage: -10,
			StockStatus:      model.StockNormal,
		}
	}
	req := model.ForecastRequest{Scope: model.ScopeAll, Month: model.March, Year: 2026}
	return &client.MockForecaster{Response: client.MockResponse(req, preds, "Softer demand.")}
}

func TestHandleCommand_ForecastAndBrowse(t *testing.T) {
	s, sender := newTestScheduler(t, mockWith(15))

	reply := s.HandleCommand(context.Background(), "/forecast")
	assert.Contains(t, reply, "March 2026")
	s.Wait()

	msgs := sender.all()
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0], "Total products: 15")
	assert.Contains(t, msgs[1], "page 1/2")

	assert.Contains(t, s.HandleCommand(context.Background(), "/next"), "page 2/2")
	assert.Contains(t, s.HandleCommand(context.Background(), "/next"), "page 2/2")
	assert.Contains(t, s.HandleCommand(context.Background(), "/prev"), "page 1/2")
	assert.Contains(t, s.HandleCommand(context.Background(), "/page 2"), "page 2/2")
	assert.Contains(t, s.HandleCommand(context.Background(), "/page 9"), "out of range")
	assert.Contains(t, s.HandleCommand(context.Background(), "/page x"), "Usage")
}

func TestHandleCommand_ForecastFailure(t *testing.T) {
	mock := &client.MockForecaster{Err: &client.ClientError{Kind: client.ServerRejected, Message: "bad file"}}
	s, sender := newTestScheduler(t, mock)

	s.HandleCommand(context.Background(), "/forecast")
	s.Wait()

	msgs := sender.all()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "bad file")
	assert.Contains(t, s.HandleCommand(context.Background(), "/status"), "State: failed")
}

func TestHandleCommand_BusyAndCancel(t *testing.T) {
	mock := mockWith(3)
	mock.Gate = make(chan struct{})
	s, sender := newTestScheduler(t, mock)

	s.HandleCommand(context.Background(), "/forecast")
	require.Eventually(t, func() bool { return s.Controller.View().Loading }, time.Second, 5*time.Millisecond)

	assert.Contains(t, s.HandleCommand(context.Background(), "/forecast"), "already in progress")
	assert.Contains(t, s.HandleCommand(context.Background(), "/cancel"), "Cancelling")
	s.Wait()

	assert.Equal(t, 1, mock.Calls())
	msgs := sender.all()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "cancelled")
	assert.Contains(t, s.HandleCommand(context.Background(), "/cancel"), "No prediction")
}

func TestHandleCommand_Settings(t *testing.T) {
	s, _ := newTestScheduler(t, mockWith(1))
	ctx := context.Background()

	assert.Contains(t, s.HandleCommand(ctx, "/scope specific P101"), "P101")
	assert.Equal(t, "P101", s.Session.Settings().ProductID)
	assert.Contains(t, s.HandleCommand(ctx, "/scope specific"), "Usage")
	assert.Contains(t, s.HandleCommand(ctx, "/scope all"), "all products")
	assert.Contains(t, s.HandleCommand(ctx, "/scope weekly"), "unknown")

	assert.Contains(t, s.HandleCommand(ctx, "/period apr 2027"), "April 2027")
	assert.Equal(t, model.April, s.Session.Settings().Month)
	assert.Contains(t, s.HandleCommand(ctx, "/period April"), "Usage")

	assert.Contains(t, s.HandleCommand(ctx, "/file data/q1.csv"), "data/q1.csv")
	assert.Contains(t, s.HandleCommand(ctx, "/status"), "Period: April 2027")
	assert.Contains(t, s.HandleCommand(ctx, "/bogus"), "Available commands")
	assert.Contains(t, s.HandleCommand(ctx, "/forecast@StockBot"), "April 2027")
	s.Wait()
}

func TestHandleCommand_Export(t *testing.T) {
	s, sender := newTestScheduler(t, mockWith(12))
	ctx := context.Background()

	assert.Equal(t, "No report to export.", s.HandleCommand(ctx, "/export"))

	s.HandleCommand(ctx, "/forecast")
	s.Wait()
	assert.Empty(t, s.HandleCommand(ctx, "/export xlsx"))
	require.Len(t, sender.docs, 1)
	_, err := os.Stat(sender.docs[0])
	assert.NoError(t, err)
	assert.Contains(t, s.HandleCommand(ctx, "/export pdf"), "unknown export format")

	assert.Equal(t, "Results cleared.", s.HandleCommand(ctx, "/reset"))
	assert.Contains(t, s.HandleCommand(ctx, "/report"), "No report yet")
}

func TestForecastTask_TargetsNextMonth(t *testing.T) {
	mock := mockWith(2)
	s, sender := newTestScheduler(t, mock)
	s.now = func() time.Time { return time.Date(2026, time.November, 25, 9, 0, 0, 0, time.UTC) }

	s.forecastTask()

	req := mock.LastRequest()
	assert.Equal(t, "December 2026", req.PeriodLabel())
	assert.Len(t, sender.all(), 2)
}

func TestRegisterAll(t *testing.T) {
	s, _ := newTestScheduler(t, mockWith(1))
	assert.NoError(t, s.RegisterAll("0 0 9 25 * *"))
	assert.Error(t, s.RegisterAll("not a cron"))
}

func TestHandleCommand_EscapesUserInput(t *testing.T) {
	s, _ := newTestScheduler(t, mockWith(1))
	ctx := context.Background()

	reply := s.HandleCommand(ctx, "/scope <b")
	assert.Contains(t, reply, "&lt;b")
	assert.NotContains(t, reply, "<b")

	reply = s.HandleCommand(ctx, "/file data/<q1>&.csv")
	assert.Contains(t, reply, "data/&lt;q1&gt;&amp;.csv")

	reply = s.HandleCommand(ctx, "/scope specific <i>P1")
	assert.Contains(t, reply, "&lt;i&gt;P1")

	reply = s.HandleCommand(ctx, "/export <pdf>")
	assert.NotContains(t, reply, "<pdf>")
}

func TestHandleCommand_Validate(t *testing.T) {
	mock := mockWith(1)
	s, _ := newTestScheduler(t, mock)
	ctx := context.Background()

	assert.Contains(t, s.HandleCommand(ctx, "/validate"), "not available")

	s.Validator = mock
	assert.Contains(t, s.HandleCommand(ctx, "/validate"), "sales.csv</b> is ready for prediction")

	mock.Validation = &client.DatasetValidation{Status: "invalid", MissingColumns: []string{"transaction_date"}}
	assert.Contains(t, s.HandleCommand(ctx, "/validate"), "Missing: transaction_date")

	s.Session.SetFile("")
	assert.Contains(t, s.HandleCommand(ctx, "/validate"), "/file")
}
