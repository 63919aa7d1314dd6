package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vx-labs/sync-fabric/syncer/store"
)

// Context carries everything the daemon shares between startup and
// shutdown.
type Context struct {
	ID     string
	Logger *zap.Logger
}

func Bootstrap(id string) *Context {
	ctx := &Context{
		ID: id,
	}
	var logger *zap.Logger
	var err error
	fields := []zap.Field{
		zap.String("node_id", id), zap.String("version", Version()),
	}
	if allocID := os.Getenv("NOMAD_ALLOC_ID"); allocID != "" {
		fields = append(fields,
			zap.String("nomad_alloc_id", os.Getenv("NOMAD_ALLOC_ID")),
			zap.String("nomad_alloc_name", os.Getenv("NOMAD_ALLOC_NAME")),
		)
	}
	opts := []zap.Option{
		zap.Fields(fields...),
	}
	if os.Getenv("ENABLE_PRETTY_LOG") == "true" {
		logger, err = zap.NewDevelopment(opts...)
	} else {
		logger, err = zap.NewProduction(opts...)
	}
	if err != nil {
		panic(err)
	}
	ctx.Logger = logger
	return ctx
}

// StateDumper exposes the diagnostic dump of the fabric.
type StateDumper interface {
	DumpState() []store.DumpEntry
}

// ServeHTTPHealth starts the operational endpoint: liveness, prometheus
// metrics and the fabric state dump.
func (ctx *Context) ServeHTTPHealth(port int, dumper StateDumper) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/state", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(dumper.DumpState())
	})
	go func() {
		err := http.ListenAndServe(fmt.Sprintf("[::]:%d", port), mux)
		if err != nil {
			ctx.Logger.Error("health endpoint failed", zap.Error(err))
		}
	}()
}

// WaitForSignal blocks until the process receives a termination signal.
func (ctx *Context) WaitForSignal() {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)
	<-sigc
	ctx.Logger.Info("received termination signal")
}
