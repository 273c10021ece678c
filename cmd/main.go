package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"worktime/internal/alarm"
	"worktime/internal/api"
	"worktime/internal/config"
	"worktime/internal/core/model"
	"worktime/internal/core/scheduler"
	"worktime/internal/core/session"
	"worktime/internal/core/workday"
	"worktime/internal/notify"
	"worktime/internal/platform"
	"worktime/internal/storage"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	setupLogging(cfg)

	if err := run(cfg); err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			log.Warn().Err(err).Msg("WorkTime is already running")
			return
		}
		log.Fatal().Err(err).Msg("WorkTime stopped")
	}
}

func setupLogging(cfg *config.Config) {
	zerolog.SetGlobalLevel(cfg.Level())
	if !cfg.LogJSON {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	}
}

func run(cfg *config.Config) error {
	address := cfg.HTTPAddr
	if address == "" {
		address = platform.InstanceAddress(config.AppName)
	}
	guard, err := platform.AcquireSingleInstance(address)
	if err != nil {
		return err
	}
	defer func() {
		_ = guard.Release()
	}()

	db, err := storage.OpenDB(cfg.DataDir)
	if err != nil {
		return err
	}
	defer db.Close()

	settingsFile := storage.NewSettingsFile(storage.SettingsPath(cfg.DataDir))
	settings, err := settingsFile.Settings()
	if err != nil {
		log.Warn().Err(err).Msg("Settings unreadable, using defaults")
		settings = model.DefaultSettings()
	}
	stateStore := storage.NewStateStore(db)
	alarms := alarm.NewManager(storage.NewAlarmStore(db), alarm.Config{PollInterval: cfg.AlarmPoll})
	translator, err := notify.NewTranslator()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := alarms.Load(ctx); err != nil {
		return err
	}

	var alerts notify.Alerts = notify.NewLogAlerts()
	var badge notify.Badge = &notify.LogBadge{}
	var ui *desktopUI
	if !cfg.Headless {
		ui, err = newDesktopUI(ctx, settings, translator)
		if err != nil {
			return err
		}
		alerts, badge = ui.tray, ui.tray
	}

	sched := scheduler.New(scheduler.Deps{
		Settings:   settingsFile,
		State:      stateStore,
		Alarms:     alarms,
		Alerts:     alerts,
		Badge:      badge,
		Translator: translator,
		Idle:       platform.NewIdleProvider(),
	})
	service := workday.NewService(settingsFile, stateStore, sched, nil)
	alarms.OnFire(service.AlarmFired)
	if ui != nil {
		ui.service = service
	}

	tracker := session.NewTracker(stateStore, session.Config{
		TickInterval: cfg.TickInterval,
		OnTick: func(_ context.Context, snapshot session.Snapshot) {
			sched.UpdateBadge(snapshot)
			if ui != nil {
				ui.setSnapshot(snapshot)
			}
		},
	})

	service.Resume(ctx)
	applyLaunchAtLogin(settings.LaunchAtLogin)

	onSettingsChanged := func() {
		service.SettingsChanged(ctx)
		updated, err := settingsFile.Settings()
		if err != nil {
			log.Error().Err(err).Msg("Failed to read changed settings")
			return
		}
		applyLaunchAtLogin(updated.LaunchAtLogin)
		if ui != nil {
			ui.settingsChanged(updated)
		}
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error { return alarms.Run(groupCtx) })
	group.Go(func() error { return tracker.Run(groupCtx) })
	group.Go(func() error { return storage.WatchSettings(groupCtx, settingsFile, onSettingsChanged) })
	group.Go(func() error { return api.New(service, tracker, alarms).Serve(groupCtx, guard.Listener()) })

	log.Info().
		Str("data_dir", cfg.DataDir).
		Str("api", guard.Address()).
		Bool("headless", cfg.Headless).
		Msg("WorkTime started")

	if ui != nil {
		go func() {
			<-groupCtx.Done()
			ui.quit()
		}()
		// The desktop event loop owns the main goroutine until Quit.
		ui.run()
		stop()
	}

	return group.Wait()
}

func applyLaunchAtLogin(enabled bool) {
	if err := platform.SetLaunchAtLogin(config.AppName, enabled); err != nil {
		log.Warn().Err(err).Bool("enabled", enabled).Msg("Failed to update login item")
	}
}
