package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"StockForecast/internal/client"
	"StockForecast/internal/config"
	"StockForecast/internal/exporter"
	"StockForecast/internal/metrics"
	"StockForecast/internal/model"
	"StockForecast/internal/notifier"
	"StockForecast/internal/recorder"
	"StockForecast/internal/scheduler"
	"StockForecast/internal/session"
	"StockForecast/internal/workflow"
)

func main() {
	var (
		file    = flag.String("file", "", "sales report to upload (csv or xlsx)")
		scope   = flag.String("scope", "", "prediction type: all or specific")
		product = flag.String("product", "", "product id when -scope=specific")
		period  = flag.String("month", "", `target month, e.g. "March" or "March 2026"`)
		year    = flag.Int("year", 0, "target year")
		export  = flag.Bool("export", false, "save the report to the export directory")
		format  = flag.String("format", "", "export format: text or xlsx")
		serve   = flag.Bool("serve", false, "run the Telegram bot and forecast schedule")
		mock    = flag.Bool("mock", false, "use built-in mock predictions instead of the engine")
	)
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] StockForecast starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if *format != "" {
		cfg.Export.Format = strings.ToLower(*format)
	}
	validate := cfg.Validate
	if *serve {
		validate = cfg.ValidateServe
	}
	if err := validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	exportFormat, err := exporter.ParseFormat(cfg.Export.Format)
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Init forecaster
	var forecaster client.Forecaster
	if *mock {
		forecaster = &client.MockForecaster{}
	} else {
		hf := client.NewHTTPForecaster(cfg.Engine.BaseURL, cfg.Engine.APIKey, cfg.Proxy)
		hctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if h, err := hf.Health(hctx); err != nil {
			log.Printf("[WARN] engine health check failed: %v", err)
		} else {
			log.Printf("[INFO] engine %s is %s", h.Service, h.Status)
		}
		cancel()
		forecaster = hf
	}
	log.Printf("[INFO] forecaster: %s", forecaster.Name())

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init metrics
	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		log.Fatalf("[FATAL] register metrics: %v", err)
	}
	if cfg.Metrics.ListenAddr != "" {
		srv := startMetricsServer(cfg.Metrics.ListenAddr)
		defer srv.Shutdown(context.Background())
	}

	// Init session
	store, err := session.NewStore(cfg.Session.StateFile)
	if err != nil {
		log.Fatalf("[FATAL] init session: %v", err)
	}
	if err := applyFlags(store, cfg.Session.SalesFile, *file, *scope, *product, *period, *year); err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	ctrl := workflow.NewController(forecaster, workflow.Options{
		Timeout:  cfg.Engine.Timeout,
		Recorder: rec,
	})

	if *serve {
		v, _ := forecaster.(client.DatasetValidator)
		runServe(ctx, cfg, ctrl, store, v, exportFormat)
		return
	}
	if err := runOnce(ctx, ctrl, store, cfg.Export.Dir, exportFormat, *export); err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

// applyFlags writes command line settings through to the session. The
// configured sales file only seeds a session that has none.
func applyFlags(st *session.Store, defaultFile, file, scope, product, period string, year int) error {
	if file != "" {
		st.SetFile(file)
	} else if defaultFile != "" && st.Settings().SalesFile == "" {
		st.SetFile(defaultFile)
	}
	if scope != "" || product != "" {
		sc, err := model.ParseScope(scope)
		if err != nil {
			return err
		}
		if scope == "" && product != "" {
			sc = model.ScopeSpecific
		}
		st.SetScope(sc, product)
	}
	if period != "" || year != 0 {
		cur := st.Settings()
		m, y := cur.Month, cur.Year
		if period != "" {
			pm, py, err := model.ParsePeriodLabel(period)
			if err != nil {
				return err
			}
			m = pm
			if py > 0 {
				y = py
			}
		}
		if year != 0 {
			y = year
		}
		st.SetPeriod(m, y)
	}
	return nil
}

func runOnce(ctx context.Context, ctrl *workflow.Controller, st *session.Store, dir string, f exporter.Format, save bool) error {
	if err := ctrl.Submit(ctx, st.Draft()); err != nil {
		return fmt.Errorf("prediction failed: %w", err)
	}
	doc := ctrl.Export()
	if err := exporter.WriteText(os.Stdout, doc); err != nil {
		return fmt.Errorf("print report: %w", err)
	}
	if !save {
		return nil
	}
	path, err := ctrl.SaveExport(dir, f)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", path)
	return nil
}

func runServe(ctx context.Context, cfg *config.Config, ctrl *workflow.Controller, st *session.Store, v client.DatasetValidator, f exporter.Format) {
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	sched := scheduler.NewScheduler(ctx, ctrl, st, tn, cfg.Export.Dir, f)
	sched.Validator = v
	if err := sched.RegisterAll(cfg.Schedule.ForecastCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Println("[INFO] Telegram polling started")

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing forecast now")
		go sched.RunForecastNow()
	}

	log.Println("[INFO] StockForecast is running. Press Ctrl+C to stop.")
	<-ctx.Done()

	log.Println("[INFO] shutdown signal received, stopping...")
	ctrl.Cancel()
}

func startMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	go func() {
		log.Printf("[INFO] metrics server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[ERROR] metrics server exited: %v", err)
		}
	}()
	return srv
}
