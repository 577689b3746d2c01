// Package scheduler runs forecasts on a cron schedule and routes chat
// commands to the workflow controller.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"StockForecast/internal/client"
	"StockForecast/internal/exporter"
	"StockForecast/internal/model"
	"StockForecast/internal/notifier"
	"StockForecast/internal/session"
	"StockForecast/internal/workflow"
)

// Scheduler manages the forecast cron task and chat commands.
type Scheduler struct {
	Cron         *cron.Cron
	Controller   *workflow.Controller
	Session      *session.Store
	Notifier     notifier.Sender
	Validator    client.DatasetValidator
	ExportDir    string
	ExportFormat exporter.Format
	Ctx          context.Context

	now func() time.Time
	wg  sync.WaitGroup
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, c *workflow.Controller, st *session.Store, n notifier.Sender, exportDir string, format exporter.Format) *Scheduler {
	return &Scheduler{
		Cron:         cron.New(cron.WithSeconds()),
		Controller:   c,
		Session:      st,
		Notifier:     n,
		ExportDir:    exportDir,
		ExportFormat: format,
		Ctx:          ctx,
		now:          time.Now,
	}
}

// RegisterAll registers the forecast task.
func (s *Scheduler) RegisterAll(forecastCron string) error {
	if _, err := s.Cron.AddFunc(forecastCron, s.forecastTask); err != nil {
		return fmt.Errorf("register forecast task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for running forecasts.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.wg.Wait()
	log.Println("[INFO] scheduler stopped")
}

// Wait blocks until forecasts started by commands have finished.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// forecastTask targets the month after today and runs a forecast.
func (s *Scheduler) forecastTask() {
	m, y := s.Session.AdvanceToNextMonth(s.now())
	log.Printf("[INFO] running scheduled forecast for %s", model.PeriodLabel(m, y))
	s.runForecast(s.Ctx)
}

func (s *Scheduler) runForecast(ctx context.Context) {
	err := s.Controller.Submit(ctx, s.Session.Draft())
	switch {
	case errors.Is(err, workflow.ErrBusy):
		s.trySend("⏳ A prediction is already in progress.")
	case err != nil:
		s.trySend(notifier.FormatFailure(s.Controller.View().Error))
	default:
		v := s.Controller.View()
		s.trySend(notifier.FormatReportSummary(v.Report))
		s.trySend(notifier.FormatPage(v.Visible, v.Page, v.TotalPages))
	}
}

// HandleCommand processes a user command and returns a reply. Forecasts run
// in the background so /status and /cancel stay responsive.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	if i := strings.Index(cmd, "@"); i > 0 {
		cmd = cmd[:i]
	}

	switch cmd {
	case "/forecast":
		if s.Controller.View().Loading {
			return "⏳ A prediction is already in progress."
		}
		d := s.Session.Draft()
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runForecast(ctx)
		}()
		if d.Month.Valid() && d.Year > 0 {
			return fmt.Sprintf("⏳ Predicting stock for %s...", model.PeriodLabel(d.Month, d.Year))
		}
		return "⏳ Predicting stock..."
	case "/report":
		return notifier.FormatReportSummary(s.Controller.View().Report)
	case "/next":
		s.Controller.NextPage()
		return s.page()
	case "/prev":
		s.Controller.PrevPage()
		return s.page()
	case "/page":
		if len(args) != 1 {
			return "Usage: /page N"
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return "Usage: /page N"
		}
		if !s.Controller.GoToPage(n) && s.Controller.View().Page != n {
			return fmt.Sprintf("Page %d is out of range.", n)
		}
		return s.page()
	case "/status":
		v := s.Controller.View()
		return notifier.FormatStatus(v.State.String(), v.Loading, v.Error, s.Session.Draft())
	case "/export":
		return s.export(args)
	case "/scope":
		return s.setScope(args)
	case "/period":
		m, y, err := model.ParsePeriodLabel(strings.Join(args, " "))
		if err != nil || y <= 0 {
			return "Usage: /period March 2026"
		}
		s.Session.SetPeriod(m, y)
		return fmt.Sprintf("Target period set to %s.", model.PeriodLabel(m, y))
	case "/file":
		if len(args) == 0 {
			return "Usage: /file path/to/sales.csv"
		}
		s.Session.SetFile(strings.Join(args, " "))
		return fmt.Sprintf("Sales file set to %s.", html.EscapeString(s.Session.Settings().SalesFile))
	case "/validate":
		return s.validate(ctx)
	case "/cancel":
		if s.Controller.Cancel() {
			return "Cancelling the running prediction."
		}
		return "No prediction is running."
	case "/reset":
		if err := s.Controller.Reset(); err != nil {
			return err.Error()
		}
		return "Results cleared."
	default:
		return helpText
	}
}

const helpText = `Available commands:
/forecast - run a prediction
/report - show the report summary
/next, /prev, /page N - browse predictions
/export [text|xlsx] - download the report
/scope all | /scope specific ID
/period March 2026
/file path, /validate
/status, /cancel, /reset`

func (s *Scheduler) page() string {
	v := s.Controller.View()
	if v.Report == nil {
		return notifier.FormatReportSummary(nil)
	}
	return notifier.FormatPage(v.Visible, v.Page, v.TotalPages)
}

// validate runs the engine's column check on the session's sales file.
func (s *Scheduler) validate(ctx context.Context) string {
	if s.Validator == nil {
		return "Dataset validation is not available."
	}
	d := s.Session.Draft()
	if d.File == nil {
		return "Set a sales file first with /file path."
	}
	v, err := s.Validator.ValidateDataset(ctx, d.File)
	if err != nil {
		log.Printf("[WARN] validate %s: %s", d.File.Name(), client.Describe(err))
		return fmt.Sprintf("❌ %s", html.EscapeString(err.Error()))
	}
	return notifier.FormatDatasetValidation(d.File.Name(), v)
}

func (s *Scheduler) setScope(args []string) string {
	if len(args) == 0 {
		return "Usage: /scope all | /scope specific ID"
	}
	scope, err := model.ParseScope(args[0])
	if err != nil {
		return html.EscapeString(err.Error())
	}
	productID := ""
	if scope == model.ScopeSpecific {
		if len(args) < 2 {
			return "Usage: /scope specific ID"
		}
		productID = args[1]
	}
	s.Session.SetScope(scope, productID)
	if scope == model.ScopeSpecific {
		return fmt.Sprintf("Predicting product %s only.", html.EscapeString(productID))
	}
	return "Predicting all products."
}

func (s *Scheduler) export(args []string) string {
	format := s.ExportFormat
	if len(args) > 0 {
		f, err := exporter.ParseFormat(args[0])
		if err != nil {
			return html.EscapeString(err.Error())
		}
		format = f
	}
	path, err := s.Controller.SaveExport(s.ExportDir, format)
	if err != nil {
		log.Printf("[ERROR] export: %v", err)
		return "❌ Export failed."
	}
	if path == "" {
		return "No report to export."
	}
	caption := ""
	if r := s.Controller.View().Report; r != nil {
		caption = r.PeriodLabel()
	}
	if err := s.Notifier.SendDocument(path, caption); err != nil {
		log.Printf("[ERROR] send export: %v", err)
		return fmt.Sprintf("Export saved to %s but could not be sent.", path)
	}
	return ""
}

type retrySender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

func (s *Scheduler) trySend(text string) {
	var err error
	if rs, ok := s.Notifier.(retrySender); ok {
		err = rs.SendWithRetry(s.Ctx, text, 3)
	} else {
		err = s.Notifier.Send(text)
	}
	if err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}

// RunForecastNow executes the forecast task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunForecastNow() {
	s.forecastTask()
}
