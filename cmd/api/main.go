package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/sabinstha/khojdeal/internal/adapters/geolocate"
	httpadapter "github.com/sabinstha/khojdeal/internal/adapters/http"
	"github.com/sabinstha/khojdeal/internal/adapters/marketplace"
	"github.com/sabinstha/khojdeal/internal/adapters/memcache"
	natsadapter "github.com/sabinstha/khojdeal/internal/adapters/nats"
	"github.com/sabinstha/khojdeal/internal/adapters/valkey"
	"github.com/sabinstha/khojdeal/internal/core/domain"
	"github.com/sabinstha/khojdeal/internal/core/ports"
	"github.com/sabinstha/khojdeal/internal/core/usecases"
	"github.com/sabinstha/khojdeal/internal/pkg/config"
	"github.com/sabinstha/khojdeal/internal/pkg/eventbus"
	"github.com/sabinstha/khojdeal/internal/pkg/logging"
	"github.com/sabinstha/khojdeal/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("khojdeal-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Result cache
	var cache ports.CacheService
	if cfg.Cache.Backend == "valkey" {
		vk, err := valkey.New(cfg.Cache.ValkeyAddr)
		if err != nil {
			slog.Warn("valkey unavailable, falling back to in-process cache", "error", err)
			cache = memcache.New()
		} else {
			defer vk.Close()
			cache = vk
		}
	} else {
		cache = memcache.New()
	}

	// Geolocation with documented fallback coordinate
	locator := geolocate.New(cfg.Geolocate.URL,
		geolocate.WithTimeout(time.Duration(cfg.Geolocate.TimeoutMS)*time.Millisecond),
		geolocate.WithFallback(domain.GeoPoint{
			Lat: cfg.Geolocate.FallbackLat,
			Lon: cfg.Geolocate.FallbackLon,
		}),
	)

	// Marketplace endpoint client
	gateway := marketplace.NewClient(marketplace.Options{
		BaseURL: cfg.Marketplace.BaseURL,
		Timeout: time.Duration(cfg.Marketplace.TimeoutSeconds) * time.Second,
	})

	// In-process bookmark bus; NATS bridges it across instances when enabled
	bus := eventbus.New()
	relays := []ports.BookmarkRelay{gateway}

	var natsRelay *natsadapter.Relay
	if cfg.NATS.Enabled {
		natsRelay, err = natsadapter.NewRelay(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable", "error", err)
		} else {
			defer natsRelay.Close()
			if err := natsRelay.Bridge(bus); err != nil {
				slog.Warn("nats bridge failed", "error", err)
			}
			relays = append(relays, natsRelay)
		}
	}

	// Use cases
	searchSvc := usecases.NewSearchService(locator, gateway, cache,
		usecases.WithCacheTTL(cfg.Cache.SearchTTLMinutes))
	bookmarkSvc := usecases.NewBookmarkService(bus, relays...)

	deps := &httpadapter.Dependencies{
		Search:    searchSvc,
		Bookmarks: bookmarkSvc,
		Bus:       bus,
		Cache:     cache,
	}
	if natsRelay != nil {
		deps.NATS = natsRelay.Conn()
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	})
	app.Use(recover.New())
	app.Use(cors.New())

	httpadapter.SetupRoutes(app, deps)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("api listening", "addr", addr)
		if err := app.Listen(addr); err != nil {
			slog.Error("server stopped", "error", err)
			cancel()
		}
	}()

	// Graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-sig:
		slog.Info("shutting down", "signal", s.String())
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
}
