package gameserver

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/cory-johannsen/rpgproject/internal/game/character"
	"github.com/cory-johannsen/rpgproject/internal/game/controller"
	"github.com/cory-johannsen/rpgproject/internal/game/level"
	"github.com/cory-johannsen/rpgproject/internal/game/ruleset"
	"github.com/cory-johannsen/rpgproject/internal/game/world"
	"github.com/cory-johannsen/rpgproject/internal/gameserver/rpgv1"
	"github.com/cory-johannsen/rpgproject/internal/storage/postgres"
)

const testLevelYAML = `
level:
  id: test_map
  name: "Test Map"
  start_area: plaza
  areas:
    - id: plaza
      title: Plaza
    - id: ramp
      title: Ramp
      pickups:
        - pickup: health_orb
`

// memStore is an in-memory CharacterStore.
type memStore struct {
	mu      sync.Mutex
	byID    map[string]*character.Character
	saveErr error
	saves   int
}

func newMemStore() *memStore {
	return &memStore{byID: make(map[string]*character.Character)}
}

func (m *memStore) Create(_ context.Context, c *character.Character) (*character.Character, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Name == c.Name {
			return nil, postgres.ErrCharacterNameTaken
		}
	}
	cp := *c
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	m.byID[c.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memStore) GetByID(_ context.Context, id string) (*character.Character, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return nil, postgres.ErrCharacterNotFound
	}
	out := *c
	return &out, nil
}

func (m *memStore) GetByName(_ context.Context, name string) (*character.Character, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.byID {
		if c.Name == name {
			out := *c
			return &out, nil
		}
	}
	return nil, postgres.ErrCharacterNotFound
}

func (m *memStore) SaveVitals(_ context.Context, id, area string, health, mana float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	c, ok := m.byID[id]
	if !ok {
		return postgres.ErrCharacterNotFound
	}
	c.Area, c.Health, c.Mana = area, health, mana
	m.saves++
	return nil
}

func testRules(t *testing.T) *ruleset.Registry {
	t.Helper()
	reg := ruleset.NewRegistry()
	require.NoError(t, reg.RegisterSpell(&ruleset.Spell{
		ID: "heal_1h", Name: "Heal", ManaCost: 0.15, HealAmount: 0.15, CastDuration: 2.2, Effect: "heal_burst",
	}))
	require.NoError(t, reg.RegisterArchetype(&ruleset.Archetype{
		ID: "eve", Name: "Eve", Spell: "heal_1h",
		Health: ruleset.AttributeDef{Start: 0.5, RegenRate: 0.01, RegenInterval: 1},
		Mana:   ruleset.AttributeDef{Start: 0.75, RegenRate: 0.01, RegenInterval: 1},
	}))
	require.NoError(t, reg.RegisterPickup(&ruleset.PickupDef{ID: "health_orb", Name: "Health Orb", HealValue: 0.25, Effect: "orb_burst"}))
	return reg
}

func testWorld(t *testing.T) *world.World {
	t.Helper()
	lvl, err := level.LoadFromBytes([]byte(testLevelYAML), nil)
	require.NoError(t, err)
	w := world.New(lvl, testRules(t), world.WithLogger(zaptest.NewLogger(t)))
	w.PopulatePickups()
	return w
}

type testEnv struct {
	client rpgv1.CharacterServiceClient
	health healthpb.HealthClient
	world  *world.World
	store  *memStore
}

// testGRPCServer starts an in-process gRPC server and returns connected clients.
func testGRPCServer(t *testing.T) testEnv {
	t.Helper()
	w := testWorld(t)
	store := newMemStore()
	logger := zaptest.NewLogger(t)
	svc := NewCharacterService(w, controller.NewRegistry(w), testRules(t), store, logger)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv, _ := NewGRPCServer(svc, logger)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient(lis.Addr().String(),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return testEnv{
		client: rpgv1.NewCharacterServiceClient(conn),
		health: healthpb.NewHealthClient(conn),
		world:  w,
		store:  store,
	}
}

func req(t *testing.T, fields map[string]interface{}) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	return s
}

func charField(t *testing.T, resp *structpb.Struct) map[string]interface{} {
	t.Helper()
	c, ok := resp.AsMap()["character"].(map[string]interface{})
	require.True(t, ok, "response has no character")
	return c
}

func join(t *testing.T, env testEnv, uid, name string) map[string]interface{} {
	t.Helper()
	resp, err := env.client.Join(context.Background(), req(t, map[string]interface{}{"player_uid": uid, "name": name}))
	require.NoError(t, err)
	return charField(t, resp)
}

func TestGRPCService_JoinCreatesCharacter(t *testing.T) {
	env := testGRPCServer(t)
	c := join(t, env, "p1", "Zara")
	assert.Equal(t, "Zara", c["name"])
	assert.Equal(t, "eve", c["archetype"])
	assert.Equal(t, "plaza", c["area"])
	assert.Equal(t, 0.5, c["health"])

	rec, err := env.store.GetByName(context.Background(), "Zara")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, c["id"])
}

func TestGRPCService_JoinTwiceRejected(t *testing.T) {
	env := testGRPCServer(t)
	join(t, env, "p1", "Zara")
	_, err := env.client.Join(context.Background(), req(t, map[string]interface{}{"player_uid": "p1", "name": "Other"}))
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	_, err = env.client.Join(context.Background(), req(t, map[string]interface{}{"player_uid": "p2", "name": "Zara"}))
	assert.Equal(t, codes.AlreadyExists, status.Code(err), "character already online")
}

func TestGRPCService_JoinValidation(t *testing.T) {
	env := testGRPCServer(t)
	ctx := context.Background()
	_, err := env.client.Join(ctx, req(t, map[string]interface{}{"name": "Zara"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = env.client.Join(ctx, req(t, map[string]interface{}{"player_uid": "p1"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = env.client.Join(ctx, req(t, map[string]interface{}{"player_uid": "p1", "name": "Zara", "archetype": "troll"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = env.client.Join(ctx, req(t, map[string]interface{}{"player_uid": "p1", "character_id": "missing"}))
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestGRPCService_MoveConsumesPickup(t *testing.T) {
	env := testGRPCServer(t)
	join(t, env, "p1", "Zara")
	resp, err := env.client.Move(context.Background(), req(t, map[string]interface{}{"player_uid": "p1", "area": "ramp"}))
	require.NoError(t, err)
	c := charField(t, resp)
	assert.Equal(t, "ramp", c["area"])
	assert.InDelta(t, 0.75, c["health"], 1e-9)
	pickups, ok := resp.AsMap()["pickups"].([]interface{})
	require.True(t, ok)
	require.Len(t, pickups, 1)
	assert.Equal(t, "health_orb", pickups[0].(map[string]interface{})["pickup"])
	assert.Empty(t, env.world.PickupsIn("ramp"))
}

func TestGRPCService_MoveUnknownArea(t *testing.T) {
	env := testGRPCServer(t)
	join(t, env, "p1", "Zara")
	_, err := env.client.Move(context.Background(), req(t, map[string]interface{}{"player_uid": "p1", "area": "moon"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestGRPCService_Cast(t *testing.T) {
	env := testGRPCServer(t)
	join(t, env, "p1", "Zara")
	ctx := context.Background()

	resp, err := env.client.Cast(ctx, req(t, map[string]interface{}{"player_uid": "p1"}))
	require.NoError(t, err)
	assert.Equal(t, "started", resp.AsMap()["outcome"])
	c := charField(t, resp)
	assert.InDelta(t, 0.6, c["mana"], 1e-9)
	assert.Equal(t, true, c["casting"])

	resp, err = env.client.Cast(ctx, req(t, map[string]interface{}{"player_uid": "p1"}))
	require.NoError(t, err)
	assert.Equal(t, "busy", resp.AsMap()["outcome"])
}

func TestGRPCService_UnknownPlayer(t *testing.T) {
	env := testGRPCServer(t)
	ctx := context.Background()
	r := req(t, map[string]interface{}{"player_uid": "ghost"})
	_, err := env.client.Cast(ctx, r)
	assert.Equal(t, codes.NotFound, status.Code(err))
	_, err = env.client.Status(ctx, r)
	assert.Equal(t, codes.NotFound, status.Code(err))
	_, err = env.client.Leave(ctx, r)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestGRPCService_LeaveSavesAndRejoinRestores(t *testing.T) {
	env := testGRPCServer(t)
	ctx := context.Background()
	id := join(t, env, "p1", "Zara")["id"].(string)
	_, err := env.client.Move(ctx, req(t, map[string]interface{}{"player_uid": "p1", "area": "ramp"}))
	require.NoError(t, err)
	_, err = env.client.Cast(ctx, req(t, map[string]interface{}{"player_uid": "p1"}))
	require.NoError(t, err)

	resp, err := env.client.Leave(ctx, req(t, map[string]interface{}{"player_uid": "p1"}))
	require.NoError(t, err)
	assert.Equal(t, false, charField(t, resp)["casting"], "despawn cancels the cast")
	_, ok := env.world.Character(id)
	assert.False(t, ok)

	rec, err := env.store.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ramp", rec.Area)
	assert.InDelta(t, 0.9, rec.Health, 1e-9)
	assert.InDelta(t, 0.6, rec.Mana, 1e-9)

	resp, err = env.client.Join(ctx, req(t, map[string]interface{}{"player_uid": "p9", "character_id": id}))
	require.NoError(t, err)
	c := charField(t, resp)
	assert.Equal(t, "ramp", c["area"])
	assert.InDelta(t, 0.9, c["health"], 1e-9)
	assert.Equal(t, false, c["casting"])
}

func TestGRPCService_LeaveSaveFailureKeepsPlayerOnline(t *testing.T) {
	env := testGRPCServer(t)
	ctx := context.Background()
	id := join(t, env, "p1", "Zara")["id"].(string)
	_, err := env.client.Move(ctx, req(t, map[string]interface{}{"player_uid": "p1", "area": "ramp"}))
	require.NoError(t, err)

	env.store.mu.Lock()
	env.store.saveErr = errors.New("disk full")
	env.store.mu.Unlock()
	_, err = env.client.Leave(ctx, req(t, map[string]interface{}{"player_uid": "p1"}))
	assert.Equal(t, codes.Internal, status.Code(err))

	snap, ok := env.world.Character(id)
	require.True(t, ok, "character stays in the world")
	assert.Equal(t, "ramp", snap.Area)
	_, err = env.client.Status(ctx, req(t, map[string]interface{}{"player_uid": "p1"}))
	require.NoError(t, err, "player keeps their controller")

	env.store.mu.Lock()
	env.store.saveErr = nil
	env.store.mu.Unlock()
	_, err = env.client.Leave(ctx, req(t, map[string]interface{}{"player_uid": "p1"}))
	require.NoError(t, err)

	rec, err := env.store.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ramp", rec.Area)
	assert.InDelta(t, 0.75, rec.Health, 1e-9)
	assert.InDelta(t, 0.75, rec.Mana, 1e-9)
	_, ok = env.world.Character(id)
	assert.False(t, ok)
}

func TestGRPCService_MoveWhileCasting(t *testing.T) {
	env := testGRPCServer(t)
	ctx := context.Background()
	id := join(t, env, "p1", "Zara")["id"].(string)
	_, err := env.client.Cast(ctx, req(t, map[string]interface{}{"player_uid": "p1"}))
	require.NoError(t, err)

	_, err = env.client.Move(ctx, req(t, map[string]interface{}{"player_uid": "p1", "area": "ramp"}))
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
	snap, ok := env.world.Character(id)
	require.True(t, ok)
	assert.Equal(t, "plaza", snap.Area)
	assert.Len(t, env.world.PickupsIn("ramp"), 1)

	env.world.Tick(2.2)
	_, err = env.client.Move(ctx, req(t, map[string]interface{}{"player_uid": "p1", "area": "ramp"}))
	require.NoError(t, err)
}

func TestGRPCService_Status(t *testing.T) {
	env := testGRPCServer(t)
	join(t, env, "p1", "Zara")
	resp, err := env.client.Status(context.Background(), req(t, map[string]interface{}{"player_uid": "p1"}))
	require.NoError(t, err)
	assert.Equal(t, "Zara", charField(t, resp)["name"])
}

func TestGRPCService_Health(t *testing.T) {
	env := testGRPCServer(t)
	resp, err := env.health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: rpgv1.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestToStatus(t *testing.T) {
	cases := map[error]codes.Code{
		world.ErrCharacterNotFound:       codes.NotFound,
		controller.ErrPlayerNotFound:     codes.NotFound,
		world.ErrUnknownArea:             codes.InvalidArgument,
		world.ErrCharacterExists:         codes.AlreadyExists,
		postgres.ErrCharacterNameTaken:   codes.AlreadyExists,
		controller.ErrNotPossessing:      codes.FailedPrecondition,
		world.ErrCasting:                 codes.FailedPrecondition,
		errors.New("connection refused"): codes.Internal,
	}
	for err, want := range cases {
		assert.Equal(t, want, status.Code(toStatus(err)), err.Error())
	}
	assert.NoError(t, toStatus(nil))
	already := status.Error(codes.InvalidArgument, "bad")
	assert.Equal(t, already, toStatus(already))
}
