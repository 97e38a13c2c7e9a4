// Package gameserver exposes the world over gRPC and runs the simulation
// and autosave loops.
package gameserver

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/cory-johannsen/rpgproject/internal/game/character"
	"github.com/cory-johannsen/rpgproject/internal/game/controller"
	"github.com/cory-johannsen/rpgproject/internal/game/ruleset"
	"github.com/cory-johannsen/rpgproject/internal/game/world"
	"github.com/cory-johannsen/rpgproject/internal/gameserver/rpgv1"
	"github.com/cory-johannsen/rpgproject/internal/storage/postgres"
)

// CharacterStore persists character records.
//
// Lookups return postgres.ErrCharacterNotFound when no record matches.
type CharacterStore interface {
	Create(ctx context.Context, c *character.Character) (*character.Character, error)
	GetByID(ctx context.Context, id string) (*character.Character, error)
	GetByName(ctx context.Context, name string) (*character.Character, error)
	SaveVitals(ctx context.Context, id, area string, health, mana float64) error
}

// CharacterService implements rpgv1.CharacterServiceServer.
type CharacterService struct {
	rpgv1.UnimplementedCharacterServiceServer
	world       *world.World
	controllers *controller.Registry
	rules       *ruleset.Registry
	store       CharacterStore
	logger      *zap.Logger
}

// NewCharacterService creates a CharacterService.
//
// Precondition: w, controllers, rules, store and logger must be non-nil.
func NewCharacterService(w *world.World, controllers *controller.Registry, rules *ruleset.Registry, store CharacterStore, logger *zap.Logger) *CharacterService {
	return &CharacterService{
		world:       w,
		controllers: controllers,
		rules:       rules,
		store:       store,
		logger:      logger,
	}
}

// Join loads or creates the player's character, spawns it, and gives the
// player a controller possessing it.
func (s *CharacterService) Join(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	uid, err := requireString(req, "player_uid")
	if err != nil {
		return nil, err
	}
	if _, err := s.controllers.Get(uid); err == nil {
		return nil, status.Errorf(codes.AlreadyExists, "player %q already joined", uid)
	}

	rec, err := s.resolveCharacter(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}

	spec := world.SpawnSpec{
		ID:        rec.ID,
		Name:      rec.Name,
		Archetype: rec.Archetype,
		Area:      rec.Area,
		Restore:   &world.Vitals{Health: rec.Health, Mana: rec.Mana},
	}
	arrival, err := s.world.Spawn(spec)
	if errors.Is(err, world.ErrUnknownArea) {
		s.logger.Warn("saved area no longer exists, spawning at start",
			zap.String("character", rec.ID),
			zap.String("area", rec.Area),
		)
		spec.Area = ""
		arrival, err = s.world.Spawn(spec)
	}
	if err != nil {
		return nil, toStatus(err)
	}

	if _, err := s.controllers.Add(uid, rec.ID); err != nil {
		_, _ = s.world.Despawn(rec.ID)
		return nil, toStatus(err)
	}
	s.logger.Info("player joined",
		zap.String("player", uid),
		zap.String("character", rec.ID),
		zap.String("area", arrival.Character.Area),
	)
	return arrivalResponse(arrival)
}

// resolveCharacter finds the character named by req, creating it when a
// name is given that no record uses yet.
func (s *CharacterService) resolveCharacter(ctx context.Context, req *structpb.Struct) (*character.Character, error) {
	if id := stringField(req, "character_id"); id != "" {
		return s.store.GetByID(ctx, id)
	}
	name := stringField(req, "name")
	if name == "" {
		return nil, status.Error(codes.InvalidArgument, "character_id or name is required")
	}
	rec, err := s.store.GetByName(ctx, name)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, postgres.ErrCharacterNotFound) {
		return nil, err
	}

	archID := stringField(req, "archetype")
	if archID == "" {
		ids := s.rules.ArchetypeIDs()
		if len(ids) == 0 {
			return nil, fmt.Errorf("no archetypes loaded")
		}
		archID = ids[0]
	}
	arch, ok := s.rules.Archetype(archID)
	if !ok {
		return nil, fmt.Errorf("creating %q: %w %q", name, world.ErrUnknownArchetype, archID)
	}
	built, err := character.Build(name, arch, s.world.StartArea())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	created, err := s.store.Create(ctx, built)
	if err != nil {
		return nil, err
	}
	s.logger.Info("character created",
		zap.String("character", created.ID),
		zap.String("name", created.Name),
		zap.String("archetype", created.Archetype),
	)
	return created, nil
}

// Leave persists the player's character, then despawns it and drops the
// controller. A failed save leaves the player online so Leave can be retried.
func (s *CharacterService) Leave(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	pc, err := s.controllerFor(req)
	if err != nil {
		return nil, err
	}
	uid := pc.UID()
	if snap, ok := pc.PossessedCharacter(); ok {
		if err := s.store.SaveVitals(ctx, snap.ID, snap.Area, snap.Health, snap.Mana); err != nil {
			s.logger.Error("saving character on leave",
				zap.String("player", uid),
				zap.String("character", snap.ID),
				zap.Error(err),
			)
			return nil, toStatus(err)
		}
	}

	charID, err := s.controllers.Remove(uid)
	if err != nil {
		return nil, toStatus(err)
	}
	final, err := s.world.Despawn(charID)
	if err != nil {
		return nil, toStatus(err)
	}
	// a tick may have landed between the save and the despawn
	if err := s.store.SaveVitals(ctx, final.ID, final.Area, final.Health, final.Mana); err != nil {
		s.logger.Warn("saving final vitals on leave",
			zap.String("character", final.ID),
			zap.Error(err),
		)
	}
	s.logger.Info("player left", zap.String("player", uid), zap.String("character", final.ID))
	return characterResponse(final)
}

// Move sends the player's character to another area.
func (s *CharacterService) Move(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	pc, err := s.controllerFor(req)
	if err != nil {
		return nil, err
	}
	area, err := requireString(req, "area")
	if err != nil {
		return nil, err
	}
	arrival, err := pc.MoveTo(area)
	if err != nil {
		return nil, toStatus(err)
	}
	return arrivalResponse(arrival)
}

// Cast triggers the player's spell. Busy and insufficient-mana outcomes
// are successful responses.
func (s *CharacterService) Cast(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	pc, err := s.controllerFor(req)
	if err != nil {
		return nil, err
	}
	out, snap, err := pc.CastSpell()
	if err != nil {
		return nil, toStatus(err)
	}
	return newResponse(map[string]interface{}{
		"outcome":   out.String(),
		"character": characterValue(snap),
	})
}

// Status returns the player's possessed character.
func (s *CharacterService) Status(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	pc, err := s.controllerFor(req)
	if err != nil {
		return nil, err
	}
	snap, ok := pc.PossessedCharacter()
	if !ok {
		return nil, status.Errorf(codes.NotFound, "player %q possesses no character", pc.UID())
	}
	return characterResponse(snap)
}

func (s *CharacterService) controllerFor(req *structpb.Struct) (*controller.PlayerController, error) {
	uid, err := requireString(req, "player_uid")
	if err != nil {
		return nil, err
	}
	pc, err := s.controllers.Get(uid)
	if err != nil {
		return nil, toStatus(err)
	}
	return pc, nil
}
