// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command recognize-server is a demo HTTP front-end for a single
// in-process Recognizer: POST /feed and POST /commit drive it, GET
// /state snapshots it, GET /events streams its entity/remove/diagnostic
// events over SSE, and GET /metrics exposes its Prometheus counters.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"semrec/config"
	"semrec/emitter"
	"semrec/plugin"
	"semrec/plugins/datetime"
	"semrec/plugins/email"
	"semrec/plugins/phone"
	"semrec/plugins/quantity"
	"semrec/plugins/url"
	"semrec/recognizer"
)

func initTracer() (func(context.Context), error) {
	ctx := context.Background()

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(os.Stderr), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceNameKey.String("recognize-server")))
	if err != nil {
		return nil, err
	}
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(provider)

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			slog.Error("failed to shut down tracer provider", "error", err)
		}
	}, nil
}

func defaultPlugins() []plugin.Plugin {
	return []plugin.Plugin{
		quantity.New(),
		email.New(),
		url.New(),
		phone.New(),
		datetime.New(),
	}
}

// selectPlugins filters defaultPlugins() down to the names in enabled,
// preserving defaultPlugins' order. An empty or nil enabled list means
// "no filter": every built-in stays registered.
func selectPlugins(enabled []string) []plugin.Plugin {
	all := defaultPlugins()
	if len(enabled) == 0 {
		return all
	}

	want := make(map[string]bool, len(enabled))
	for _, name := range enabled {
		want[name] = true
	}

	selected := make([]plugin.Plugin, 0, len(all))
	for _, p := range all {
		if want[p.Name()] {
			selected = append(selected, p)
		}
	}
	return selected
}

func main() {
	port := flag.Int("port", 8080, "Port to listen on")
	debug := flag.Bool("debug", false, "Enable debug mode")
	configPath := flag.String("config", "", "Path to a recognizer config YAML file (defaults are used if empty)")
	flag.Parse()

	if *debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	cleanup, err := initTracer()
	if err != nil {
		slog.Error("failed to set up tracer", "error", err)
		os.Exit(1)
	}
	defer cleanup(context.Background())

	cfg := config.Default()
	var enabledPlugins []string
	if *configPath != "" {
		cfg, enabledPlugins, err = config.Load(*configPath)
		if err != nil {
			slog.Error("failed to load recognizer config", "path", *configPath, "error", err)
			os.Exit(1)
		}
	}

	rec := recognizer.New(selectPlugins(enabledPlugins), cfg)
	defer rec.Destroy()

	hub := newEventHub()
	rec.OnEntity(func(ev emitter.EntityEvent) { hub.broadcast(sseEvent{Name: "entity", Payload: ev}) })
	rec.OnRemove(func(ev emitter.RemoveEvent) { hub.broadcast(sseEvent{Name: "remove", Payload: ev}) })
	rec.OnDiagnostic(func(ev emitter.DiagnosticEvent) { hub.broadcast(sseEvent{Name: "diagnostic", Payload: ev}) })

	router := gin.New()
	router.Use(gin.Recovery())
	if *debug {
		router.Use(gin.Logger())
	}
	router.Use(otelgin.Middleware("recognize-server"))

	registerRoutes(router, rec, hub)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf(":%d", *port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		slog.Info("shutting down recognize-server")
		os.Exit(0)
	}()

	slog.Info("starting recognize-server", "address", addr)
	if err := router.Run(addr); err != nil {
		slog.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}

// sseEvent is a single named event pushed to every connected /events
// subscriber.
type sseEvent struct {
	Name    string
	Payload any
}

// eventHub fans each recognizer event out to every currently-connected
// SSE client. The recognizer's own emitter is single-threaded cooperative
// (see recognizer.Recognizer), but subscribe/unsubscribe here race
// against broadcast from concurrent HTTP handlers, so the hub keeps its
// own mutex.
type eventHub struct {
	mu   sync.Mutex
	subs map[chan sseEvent]struct{}
}

func newEventHub() *eventHub {
	return &eventHub{subs: make(map[chan sseEvent]struct{})}
}

func (h *eventHub) subscribe() chan sseEvent {
	ch := make(chan sseEvent, 32)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *eventHub) unsubscribe(ch chan sseEvent) {
	h.mu.Lock()
	delete(h.subs, ch)
	h.mu.Unlock()
	close(ch)
}

func (h *eventHub) broadcast(ev sseEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
			// Slow client; drop rather than block the recognizer's
			// single-threaded event loop.
		}
	}
}
