package gameserver

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/cory-johannsen/rpgproject/internal/game/world"
)

func characterValue(s world.Snapshot) map[string]interface{} {
	return map[string]interface{}{
		"id":             s.ID,
		"name":           s.Name,
		"archetype":      s.Archetype,
		"area":           s.Area,
		"health":         s.Health,
		"mana":           s.Mana,
		"casting":        s.Casting,
		"cast_remaining": s.CastRemaining,
	}
}

func pickupsValue(results []world.PickupResult) []interface{} {
	out := make([]interface{}, 0, len(results))
	for _, r := range results {
		out = append(out, map[string]interface{}{
			"id":     r.PickupID,
			"pickup": r.DefID,
			"healed": r.Healed,
			"effect": r.Effect,
		})
	}
	return out
}

func arrivalResponse(a world.Arrival) (*structpb.Struct, error) {
	return newResponse(map[string]interface{}{
		"character": characterValue(a.Character),
		"pickups":   pickupsValue(a.Pickups),
	})
}

func characterResponse(s world.Snapshot) (*structpb.Struct, error) {
	return newResponse(map[string]interface{}{"character": characterValue(s)})
}

func newResponse(fields map[string]interface{}) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encoding response: %v", err)
	}
	return out, nil
}

// stringField returns the string value of key, or "" when absent or not a string.
func stringField(req *structpb.Struct, key string) string {
	if req == nil {
		return ""
	}
	return req.GetFields()[key].GetStringValue()
}

func requireString(req *structpb.Struct, key string) (string, error) {
	v := stringField(req, key)
	if v == "" {
		return "", status.Errorf(codes.InvalidArgument, "%s is required", key)
	}
	return v, nil
}
