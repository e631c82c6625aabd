// Command vibejudge-worker is the orchestrator's process entrypoint: it
// loads configuration, wires the store, concurrency gate, repository
// extractor, agent runtime and policy evaluator together, and exposes a
// /healthz endpoint for the three external dependencies. It does not
// serve the hackathon/submission Wire API (spec §1's explicit
// non-goal) — the wired *orchestrator.Orchestrator is the extension
// point a router would call TriggerAnalysis/GetJob/EstimateCost against.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/ma-za-kpe/vibejudge/agentrt"
	"github.com/ma-za-kpe/vibejudge/converse"
	"github.com/ma-za-kpe/vibejudge/costs"
	"github.com/ma-za-kpe/vibejudge/extractor"
	"github.com/ma-za-kpe/vibejudge/healthz"
	"github.com/ma-za-kpe/vibejudge/ids"
	"github.com/ma-za-kpe/vibejudge/orchestrator"
	"github.com/ma-za-kpe/vibejudge/policy"
	"github.com/ma-za-kpe/vibejudge/queue"
	"github.com/ma-za-kpe/vibejudge/store"
	"github.com/ma-za-kpe/vibejudge/store/gate"
	"github.com/ma-za-kpe/vibejudge/vjconfig"
	"github.com/ma-za-kpe/vibejudge/vjlog"
)

func main() {
	configPath := flag.String("config", "vibejudge.yaml", "path to the vibejudge.yaml configuration file")
	healthAddr := flag.String("health-addr", ":8080", "address the /healthz endpoint listens on")
	dev := flag.Bool("dev", false, "use human-readable logs and an in-memory converse.Client for local development")
	flag.Parse()

	logger := vjlog.New(vjlog.Config{Development: *dev, Level: slog.LevelInfo})

	cfg, err := vjconfig.Load(*configPath)
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	etcdClient, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Etcd.Endpoints,
		DialTimeout: cfg.Etcd.GetDialTimeout(),
	})
	if err != nil {
		logger.Error("failed to construct etcd client", "error", err)
		os.Exit(1)
	}
	defer etcdClient.Close()

	table := store.NewMemory()

	pol, err := policy.NewEvaluator()
	if err != nil {
		logger.Error("failed to build policy evaluator", "error", err)
		os.Exit(1)
	}

	agentEvaluator := mustAgentRuntime(*dev, cfg, pol, logger)

	progress := mustProgressPublisher(cfg, logger)

	orch := orchestrator.New(
		table,
		gate.New(etcdClient),
		extractor.New(extractor.Config{
			NFiles:           cfg.DefaultTopFiles,
			NCommits:         cfg.DefaultTopCommits,
			NDiffs:           cfg.DefaultTopDiffs,
			CloneBudgetBytes: cfg.CloneBudgetBytes,
		}, extractor.HostAPIClient{}),
		agentEvaluator,
		costs.NewRateTable(cfg.ModelRates),
		ids.NewGenerator(),
		cfg,
		pol,
		progress,
	)

	srv := newHealthServer(*healthAddr, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = vjlog.WithLogger(ctx, logger)

	go func() {
		logger.Info("healthz listening", "addr", *healthAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("healthz server failed", "error", err)
		}
	}()

	_ = orch // wired and ready; TriggerAnalysis is invoked by the (out-of-scope) Wire API router.

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

// mustAgentRuntime builds the agentrt.Runtime the orchestrator
// evaluates agents through. No production converse.Client ships in
// this module (spec §9: Converse is the only call shape; an adapter to
// a real provider's wire format is the implementer's concern), so -dev
// wires converse.FakeClient for local smoke-testing and a production
// run must be built with a real Client plugged in here.
func mustAgentRuntime(dev bool, cfg vjconfig.Config, pol *policy.Evaluator, logger *slog.Logger) *agentrt.Runtime {
	var client converse.Client
	if dev {
		client = &converse.FakeClient{Responses: []converse.Response{{Content: `{"scores":{},"summary":"dev smoke test"}`}}}
	} else {
		logger.Warn("no production converse.Client configured; agent evaluation will fail until one is wired into cmd/vibejudge-worker")
		client = &converse.FakeClient{Err: errUnconfiguredClient}
	}

	return agentrt.New(client, costs.NewRateTable(cfg.ModelRates), pol)
}

var errUnconfiguredClient = errors.New("converse: no production client configured for this deployment")

// mustProgressPublisher connects the orchestrator's per-agent
// completion reporting (spec §4.1) to Redis when cfg.Redis.URL is
// configured. A nil return disables progress reporting entirely; the
// submission pipeline itself does not depend on it.
func mustProgressPublisher(cfg vjconfig.Config, logger *slog.Logger) orchestrator.ProgressPublisher {
	if cfg.Redis.URL == "" {
		logger.Warn("no redis url configured; per-agent progress events will not be published")
		return nil
	}

	client, err := queue.NewRedisClient(queue.RedisOptions{URL: cfg.Redis.URL})
	if err != nil {
		logger.Error("failed to connect to redis for progress reporting", "error", err)
		os.Exit(1)
	}
	return client
}

func newHealthServer(addr string, cfg vjconfig.Config) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		status := healthz.CheckAll(r.Context(), cfg)
		w.Header().Set("Content-Type", "application/json")
		if status.IsUnhealthy() {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(status)
	})
	return &http.Server{Addr: addr, Handler: mux}
}
