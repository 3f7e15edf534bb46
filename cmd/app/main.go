package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	inhttp "github.com/stwidget/timetable-engine/internal/adapters/in/http"
	"github.com/stwidget/timetable-engine/internal/adapters/in/poller"
	"github.com/stwidget/timetable-engine/internal/adapters/in/watcher"
	"github.com/stwidget/timetable-engine/internal/adapters/out/cache"
	"github.com/stwidget/timetable-engine/internal/adapters/out/events"
	"github.com/stwidget/timetable-engine/internal/adapters/out/logger"
	"github.com/stwidget/timetable-engine/internal/adapters/out/store"
	"github.com/stwidget/timetable-engine/internal/config"
	"github.com/stwidget/timetable-engine/internal/core/ports/out"
	"github.com/stwidget/timetable-engine/internal/core/services"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	mainLogger, err := logger.NewConsoleLogger(cfg.App.Timezone)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log := mainLogger.WithModule("Main")

	log.Info("app.starting", out.LogFields{
		"version":        cfg.App.Version,
		"env":            cfg.App.Env,
		"timezone":       cfg.App.Timezone,
		"configFile":     cfg.Store.ConfigFile,
		"cacheEnabled":   cfg.Cache.Enabled,
		"watcherEnabled": cfg.Watcher.Enabled,
		"amqpEnabled":    cfg.AMQP.Enabled,
	})

	if cfg.IsNotLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	storeAdapter := store.NewFileStoreAdapter(cfg, log)

	var cachePort out.CachePort
	if cfg.Cache.Enabled {
		cacheAdapter, err := cache.NewDayScheduleCacheAdapter(cfg, log)
		if err != nil {
			log.Error("app.cache.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		if cacheAdapter != nil {
			cachePort = cacheAdapter
		}
	}

	configService := services.NewConfigService(storeAdapter, cachePort, log)
	scheduleService := services.NewScheduleService(configService, cachePort, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := configService.Bootstrap(ctx); err != nil {
		log.Error("app.bootstrap.failed", out.LogFields{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	router := gin.Default()
	controller := inhttp.NewTimetableController(scheduleService, configService, cfg)
	controller.RegisterRoutes(router)

	if cfg.Watcher.Enabled {
		configWatcher, err := watcher.NewConfigWatcher(storeAdapter.ConfigPath(), configService, log)
		if err != nil {
			log.Error("app.watcher.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		if err := configWatcher.Start(ctx); err != nil {
			log.Error("app.watcher.start_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		defer func() {
			if err := configWatcher.Stop(); err != nil {
				log.Error("app.watcher.stop_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}()
	}

	var publisherPort out.EventPublisherPort
	if cfg.AMQP.Enabled {
		publisher, err := events.NewAmqpPublisher(cfg, log)
		if err != nil {
			log.Error("app.amqp.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		if publisher != nil {
			publisherPort = publisher
			defer func() {
				if err := publisher.Close(); err != nil {
					log.Error("app.amqp.close_failed", out.LogFields{
						"error": err.Error(),
					})
				}
			}()
		}
	}

	if cfg.Poller.Enabled {
		statusPoller := poller.NewStatusPoller(configService, publisherPort, cfg, log)
		statusPoller.Start(ctx)
		defer statusPoller.Stop()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("app.http.starting", out.LogFields{
			"host": cfg.HTTP.Host,
			"port": cfg.HTTP.Port,
		})

		if err := router.Run(cfg.HTTP.Host + ":" + cfg.HTTP.Port); err != nil {
			log.Error("app.http.failed", out.LogFields{
				"error": err.Error(),
			})
			sigChan <- syscall.SIGTERM
		}
	}()

	sig := <-sigChan
	log.Info("app.shutdown.initiated", out.LogFields{
		"signal": sig.String(),
	})
}
