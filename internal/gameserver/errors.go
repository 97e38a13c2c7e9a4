package gameserver

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cory-johannsen/rpgproject/internal/game/controller"
	"github.com/cory-johannsen/rpgproject/internal/game/world"
	"github.com/cory-johannsen/rpgproject/internal/storage/postgres"
)

// toStatus maps domain errors to gRPC status errors. Errors that already
// carry a status pass through unchanged.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	var code codes.Code
	switch {
	case errors.Is(err, world.ErrCharacterNotFound),
		errors.Is(err, controller.ErrPlayerNotFound),
		errors.Is(err, postgres.ErrCharacterNotFound):
		code = codes.NotFound
	case errors.Is(err, world.ErrUnknownArea),
		errors.Is(err, world.ErrUnknownArchetype):
		code = codes.InvalidArgument
	case errors.Is(err, world.ErrCharacterExists),
		errors.Is(err, controller.ErrPlayerConnected),
		errors.Is(err, postgres.ErrCharacterNameTaken):
		code = codes.AlreadyExists
	case errors.Is(err, controller.ErrNotPossessing),
		errors.Is(err, world.ErrCasting):
		code = codes.FailedPrecondition
	default:
		code = codes.Internal
	}
	return status.Error(code, err.Error())
}
