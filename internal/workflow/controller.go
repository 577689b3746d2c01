// Package workflow owns the forecast dashboard's submission cycle: it
// validates the draft, runs the single exchange with the engine, keeps the
// resulting Report and derives the visible page from it.
package workflow

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"StockForecast/internal/client"
	"StockForecast/internal/exporter"
	"StockForecast/internal/metrics"
	"StockForecast/internal/model"
	"StockForecast/internal/normalizer"
	"StockForecast/internal/paginator"
	"StockForecast/internal/recorder"
	"StockForecast/internal/request"
	"StockForecast/internal/validation"
)

// Options tune a Controller. Zero values select defaults.
type Options struct {
	// Timeout bounds one exchange. Zero means no deadline beyond the
	// caller's context.
	Timeout  time.Duration
	PageSize int
	Recorder recorder.Recorder
}

// View is a consistent snapshot of the controller's derived UI state.
type View struct {
	State      State
	Loading    bool
	Error      string
	RequestID  string
	Report     *model.Report
	Page       int
	TotalPages int
	Visible    []model.PredictionResult
}

// Controller is the single workflow instance of a session. All methods are
// safe for concurrent use; Submit blocks for the duration of the exchange.
type Controller struct {
	forecaster client.Forecaster
	recorder   recorder.Recorder
	timeout    time.Duration
	pageSize   int

	mu        sync.Mutex
	state     State
	report    *model.Report
	page      int
	errText   string
	requestID string
	cancel    context.CancelFunc
}

// NewController creates an idle controller.
func NewController(f client.Forecaster, opts Options) *Controller {
	c := &Controller{
		forecaster: f,
		recorder:   opts.Recorder,
		timeout:    opts.Timeout,
		pageSize:   opts.PageSize,
		state:      Idle,
		page:       1,
	}
	if c.recorder == nil {
		c.recorder = recorder.NewNoopRecorder()
	}
	if c.pageSize <= 0 {
		c.pageSize = paginator.DefaultPageSize
	}
	return c
}

// apply runs the transition function; callers hold c.mu.
func (c *Controller) apply(e Event) error {
	s, err := next(c.state, e)
	if err != nil {
		return err
	}
	c.state = s
	metrics.SetLoading(s == Submitting)
	return nil
}

// Submit runs one submission cycle for d. Starting a cycle clears the
// previous Report. It returns ErrBusy without contacting the engine while
// another cycle is pending, a *validation.ValidationError when d is
// incomplete, and otherwise the exchange or normalization error, if any.
func (c *Controller) Submit(ctx context.Context, d model.Draft) error {
	c.mu.Lock()
	if err := c.apply(EventSubmit); err != nil {
		c.mu.Unlock()
		return err
	}
	id := uuid.NewString()
	c.requestID = id
	c.report = nil
	c.page = 1
	c.errText = ""

	if err := validation.Validate(d); err != nil {
		c.mustApply(EventInvalid)
		c.errText = err.Error()
		c.mu.Unlock()
		log.Printf("[WARN] request %s rejected: %v", id, err)
		c.record(id, request.FromDraft(d), nil, err, 0)
		return err
	}

	req := request.FromDraft(d)
	c.mustApply(EventValid)
	exCtx, cancel := c.exchangeContext(ctx)
	c.cancel = cancel
	c.mu.Unlock()
	defer cancel()

	log.Printf("[INFO] request %s: %s forecast for %s via %s", id, req.Scope, req.PeriodLabel(), c.forecaster.Name())
	start := time.Now()
	raw, err := c.forecaster.Submit(exCtx, req)
	var report *model.Report
	if err == nil {
		report, err = normalizer.Normalize(raw, req)
	}
	elapsed := time.Since(start)

	c.mu.Lock()
	c.cancel = nil
	if err != nil {
		c.mustApply(EventFailed)
		c.errText = err.Error()
	} else {
		c.mustApply(EventSucceeded)
		c.report = report
		c.page = 1
	}
	c.mu.Unlock()

	if err != nil {
		log.Printf("[ERROR] request %s failed after %v: %s", id, elapsed.Round(time.Millisecond), client.Describe(err))
	} else {
		log.Printf("[INFO] request %s: %d predictions for %s in %v", id, report.TotalProducts, report.PeriodLabel(), elapsed.Round(time.Millisecond))
	}
	c.record(id, req, report, err, elapsed)
	return err
}

func (c *Controller) mustApply(e Event) {
	if err := c.apply(e); err != nil {
		log.Printf("[ERROR] workflow: %v", err)
	}
}

func (c *Controller) exchangeContext(parent context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(parent, c.timeout)
	}
	return context.WithCancel(parent)
}

// Cancel aborts the pending exchange, if any. The cycle then ends in Failed.
func (c *Controller) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel == nil {
		return false
	}
	c.cancel()
	log.Printf("[INFO] request %s: cancel requested", c.requestID)
	return true
}

// Reset returns to Idle and drops the current Report and error text.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.apply(EventReset); err != nil {
		return err
	}
	c.report = nil
	c.page = 1
	c.errText = ""
	return nil
}

// View returns the current state with the visible page derived from the
// Report.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		State:     c.state,
		Loading:   c.state == Submitting,
		Error:     c.errText,
		RequestID: c.requestID,
		Report:    c.report,
		Page:      c.page,
	}
	var items []model.PredictionResult
	if c.report != nil {
		items = c.report.Predictions
	}
	p := paginator.Paginate(items, c.page, c.pageSize)
	v.TotalPages = p.TotalPages
	v.Visible = p.Items
	return v
}

// NextPage moves forward one page; it is a no-op on the last page.
func (c *Controller) NextPage() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.goTo(c.page + 1)
}

// PrevPage moves back one page; it is a no-op on page 1.
func (c *Controller) PrevPage() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.goTo(c.page - 1)
}

// GoToPage jumps to page n. Out-of-range pages are rejected.
func (c *Controller) GoToPage(n int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.goTo(n)
}

func (c *Controller) goTo(n int) bool {
	total := 1
	if c.report != nil {
		total = paginator.TotalPages(len(c.report.Predictions), c.pageSize)
	}
	if !paginator.Valid(n, total) || n == c.page {
		return false
	}
	c.page = n
	return true
}

// Export builds the document for the current Report, or nil when there is
// none. It covers every prediction regardless of the visible page.
func (c *Controller) Export() *exporter.Document {
	c.mu.Lock()
	r := c.report
	c.mu.Unlock()
	return exporter.Build(r)
}

// SaveExport writes the current Report to dir. With no Report it does
// nothing and returns "".
func (c *Controller) SaveExport(dir string, format exporter.Format) (string, error) {
	c.mu.Lock()
	r, id := c.report, c.requestID
	c.mu.Unlock()

	doc := exporter.Build(r)
	if doc == nil {
		log.Println("[INFO] export skipped: no report")
		return "", nil
	}
	path, err := exporter.Save(dir, doc, format)
	if err != nil {
		return "", err
	}
	metrics.ObserveExport(string(format))
	if err := c.recorder.RecordExport(&recorder.ExportEvent{
		RequestID:   id,
		DocumentID:  doc.ID,
		Format:      string(format),
		Path:        path,
		Predictions: len(doc.Predictions),
	}); err != nil {
		log.Printf("[ERROR] record export: %v", err)
	}
	return path, nil
}

func (c *Controller) record(id string, req model.ForecastRequest, report *model.Report, err error, elapsed time.Duration) {
	outcome := outcomeOf(err)
	metrics.ObserveExchange(elapsed, outcome)

	evt := &recorder.ExchangeEvent{
		RequestID: id,
		Scope:     string(req.Scope),
		ProductID: req.ProductID,
		Outcome:   outcome,
		Duration:  elapsed,
	}
	if req.Month.Valid() && req.Year > 0 {
		evt.Period = req.PeriodLabel()
	}
	if req.File != nil {
		evt.FileName = req.File.Name()
	}
	if err != nil {
		evt.ErrorText = err.Error()
		var ce *client.ClientError
		if errors.As(err, &ce) {
			evt.StatusCode = ce.StatusCode
		}
	}
	if report != nil {
		evt.Predictions = report.TotalProducts
		evt.HighStock = report.Metadata.HighStockRequired
	}
	if rerr := c.recorder.RecordExchange(evt); rerr != nil {
		log.Printf("[ERROR] record exchange: %v", rerr)
	}
}

func outcomeOf(err error) string {
	if err == nil {
		return metrics.OutcomeSuccess
	}
	if validation.CodeOf(err) != "" {
		return metrics.OutcomeRejected
	}
	if normalizer.IsMalformed(err) {
		return metrics.OutcomeMalformed
	}
	switch client.KindOf(err) {
	case client.ServerRejected:
		return metrics.OutcomeServerRejected
	case client.Canceled:
		return metrics.OutcomeCanceled
	default:
		return metrics.OutcomeTransportFailure
	}
}
