// Package main provides the game server binary: it loads content, runs the
// simulation, and serves the CharacterService over gRPC.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"time"

	"go.uber.org/zap"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/cory-johannsen/rpgproject/internal/config"
	"github.com/cory-johannsen/rpgproject/internal/game/controller"
	"github.com/cory-johannsen/rpgproject/internal/game/level"
	"github.com/cory-johannsen/rpgproject/internal/game/ruleset"
	"github.com/cory-johannsen/rpgproject/internal/game/world"
	"github.com/cory-johannsen/rpgproject/internal/gameserver"
	"github.com/cory-johannsen/rpgproject/internal/observability"
	"github.com/cory-johannsen/rpgproject/internal/scripting"
	"github.com/cory-johannsen/rpgproject/internal/server"
	"github.com/cory-johannsen/rpgproject/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	dbHealthInterval := flag.Duration("db-health", 30*time.Second, "database health check interval")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, zap.String("service", "gameserver"))
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting game server", zap.String("grpc_addr", cfg.GameServer.Addr()))

	// Content
	contentStart := time.Now()
	rules, err := ruleset.LoadRegistry(cfg.Content.ArchetypesDir, cfg.Content.SpellsDir, cfg.Content.PickupsDir)
	if err != nil {
		logger.Fatal("loading ruleset", zap.Error(err))
	}
	lvl, err := level.LoadFromFile(cfg.Content.LevelFile, func(id string) bool {
		_, ok := rules.Pickup(id)
		return ok
	})
	if err != nil {
		logger.Fatal("loading level", zap.String("file", cfg.Content.LevelFile), zap.Error(err))
	}
	archetypes, spells, pickups := rules.Counts()
	logger.Info("content loaded",
		zap.String("level", lvl.ID),
		zap.Int("areas", len(lvl.AreaIDs())),
		zap.Int("archetypes", archetypes),
		zap.Int("spells", spells),
		zap.Int("pickups", pickups),
		zap.Duration("elapsed", time.Since(contentStart)),
	)

	worldOpts := []world.Option{world.WithLogger(logger.Named("world"))}

	// Scripting
	if dir := cfg.Content.ScriptsDir; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			scriptMgr := scripting.NewManager(logger.Named("scripting"))
			defer scriptMgr.Close()
			n, err := scriptMgr.Load(dir, cfg.Content.ScriptInstructionLimit)
			if err != nil {
				logger.Fatal("loading scripts", zap.String("dir", dir), zap.Error(err))
			}
			worldOpts = append(worldOpts, world.WithHealResolver(scriptMgr))
			logger.Info("scripts loaded", zap.String("dir", dir), zap.Int("files", n))
		} else {
			logger.Warn("scripts_dir not found, scripting disabled", zap.String("dir", dir))
		}
	}

	w := world.New(lvl, rules, worldOpts...)
	logger.Info("world populated", zap.Int("pickups", w.PopulatePickups()))

	// Persistence
	dbStart := time.Now()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	logger.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.Duration("elapsed", time.Since(dbStart)),
	)
	charRepo := postgres.NewCharacterRepository(pool.DB())

	controllers := controller.NewRegistry(w)
	svc := gameserver.NewCharacterService(w, controllers, rules, charRepo, logger.Named("rpc"))
	grpcServer, healthSrv := gameserver.NewGRPCServer(svc, logger.Named("rpc"))

	sim := gameserver.NewSimulation(w, 10*cfg.GameServer.TickInterval(), logger.Named("simulation"))
	autosaver := gameserver.NewAutosaver(w, charRepo, cfg.GameServer.AutosaveConcurrency, logger.Named("autosave"))

	lifecycle := server.NewLifecycle(logger)

	dbHealth := server.NewTickerService(*dbHealthInterval, func(time.Duration) {
		if err := pool.Health(ctx, 5*time.Second); err != nil {
			logger.Warn("database health check failed", zap.Error(err))
			healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
			return
		}
		healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
		st := pool.Stats()
		logger.Debug("database pool",
			zap.Int32("total", st.Total),
			zap.Int32("idle", st.Idle),
			zap.Int32("acquired", st.Acquired),
		)
	})
	lifecycle.Add("postgres", &server.FuncService{
		StartFn: dbHealth.Start,
		StopFn: func() {
			dbHealth.Stop()
			pool.Close()
		},
	})

	lifecycle.Add("simulation", server.NewTickerService(cfg.GameServer.TickInterval(), sim.Step))

	if interval := cfg.GameServer.AutosaveInterval(); interval > 0 {
		saveTicker := server.NewTickerService(interval, func(time.Duration) {
			if _, err := autosaver.SaveAll(ctx); err != nil {
				logger.Warn("autosave incomplete", zap.Error(err))
			}
		})
		lifecycle.Add("autosave", &server.FuncService{
			StartFn: saveTicker.Start,
			StopFn: func() {
				saveTicker.Stop()
				n, err := autosaver.SaveAll(ctx)
				if err != nil {
					logger.Error("final save incomplete", zap.Error(err))
				}
				logger.Info("final save complete", zap.Int("characters", n))
			},
		})
	}

	lifecycle.Add("grpc", &server.FuncService{
		StartFn: func() error {
			lis, err := net.Listen("tcp", cfg.GameServer.Addr())
			if err != nil {
				return fmt.Errorf("listening on %s: %w", cfg.GameServer.Addr(), err)
			}
			logger.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
			return grpcServer.Serve(lis)
		},
		StopFn: func() {
			healthSrv.Shutdown()
			grpcServer.GracefulStop()
		},
	})

	logger.Info("game server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("grpc_addr", cfg.GameServer.Addr()),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
