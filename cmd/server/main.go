package main

import (
	"context"
	"log"
	"os"
	"strings"

	httpadapter "roomverse/internal/adapter/http"
	metricsinmem "roomverse/internal/adapter/metrics/inmemory"
	gormrepo "roomverse/internal/adapter/repo/gorm"
	memrepo "roomverse/internal/adapter/repo/memory"
	"roomverse/internal/adapter/scenario"
	"roomverse/internal/adapter/trajlog"
	"roomverse/internal/app/action"
	"roomverse/internal/app/observe"
	"roomverse/internal/app/ports"
	"roomverse/internal/app/replay"

	"github.com/cloudwego/hertz/pkg/app/server"
)

func main() {
	sc := mustLoadScenario()
	rt, err := scenario.Build(sc)
	if err != nil {
		log.Fatalf("build scenario: %v", err)
	}

	executions, events, txManager := mustBuildRepos()
	if dir := strings.TrimSpace(os.Getenv("ROOMVERSE_TRAJECTORY_DIR")); dir != "" {
		rec, err := trajlog.NewRecorder(dir, rt.EpisodeID, executions)
		if err != nil {
			log.Fatalf("open trajectory recorder: %v", err)
		}
		defer rec.Close()
		executions = rec
	}
	kpiRecorder := metricsinmem.NewRecorder()

	engine := action.NewEngine(action.EngineConfig{
		State:       rt.State,
		Catalog:     rt.Catalog,
		Prox:        rt.Prox,
		Verifier:    rt.Verifier,
		SceneGrants: rt.Grants,
		EpisodeID:   rt.EpisodeID,
		TxManager:   txManager,
		Executions:  executions,
		Events:      events,
		Metrics:     kpiRecorder,
	})

	h := &httpadapter.Handler{
		Engine:    engine,
		ObserveUC: observe.UseCase{State: rt.State, Prox: rt.Prox, Grants: rt.Grants},
		ReplayUC:  replay.UseCase{Events: events},
		KPI:       kpiRecorder,
	}

	addr := envOr("ROOMVERSE_LISTEN", ":8080")
	s := server.Default(server.WithHostPorts(addr))
	h.RegisterRoutes(s)

	log.Printf("roomverse server listening on %s (episode %s)", addr, rt.EpisodeID)
	s.Spin()
}

func mustLoadScenario() scenario.Scenario {
	path := strings.TrimSpace(os.Getenv("ROOMVERSE_SCENARIO"))
	if path == "" {
		log.Fatal("ROOMVERSE_SCENARIO is required")
	}
	schemaPath := envOr("ROOMVERSE_SCENARIO_SCHEMA", "./schemas/scenario.schema.json")
	sc, err := scenario.LoadValidated(path, schemaPath)
	if err != nil {
		log.Fatalf("load scenario %s: %v", path, err)
	}
	return sc
}

func mustBuildRepos() (ports.ExecutionRepository, ports.EventRepository, ports.TxManager) {
	dsn := strings.TrimSpace(os.Getenv("ROOMVERSE_DB_DSN"))
	if dsn == "" {
		store := memrepo.NewStore()
		return memrepo.NewExecutionRepo(store), memrepo.NewEventRepo(store), memrepo.NewTxManager(store)
	}

	db, err := gormrepo.OpenPostgres(dsn)
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}
	migrationsDir := envOr("ROOMVERSE_MIGRATIONS_DIR", "./migrations")
	if err := gormrepo.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}
	return gormrepo.NewExecutionRepo(db), gormrepo.NewEventRepo(db), gormrepo.NewTxManager(db)
}

func envOr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}
