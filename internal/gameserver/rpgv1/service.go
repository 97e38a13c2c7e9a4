// Package rpgv1 defines the rpg.v1.CharacterService gRPC contract.
// Requests and responses are google.protobuf.Struct values; the field names
// of each method are documented on CharacterServiceServer.
package rpgv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "rpg.v1.CharacterService"

const (
	JoinMethod   = "/" + ServiceName + "/Join"
	LeaveMethod  = "/" + ServiceName + "/Leave"
	MoveMethod   = "/" + ServiceName + "/Move"
	CastMethod   = "/" + ServiceName + "/Cast"
	StatusMethod = "/" + ServiceName + "/Status"
)

// CharacterServiceServer is the server API for CharacterService.
//
// Every request carries "player_uid".
//   - Join: "character_id", or "name" plus optional "archetype".
//     Returns {"character", "pickups"}.
//   - Leave: returns {"character"}.
//   - Move: "area". Returns {"character", "pickups"}.
//   - Cast: returns {"outcome", "character"}.
//   - Status: returns {"character"}.
type CharacterServiceServer interface {
	Join(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Leave(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Move(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Cast(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Status(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedCharacterServiceServer returns codes.Unimplemented for every
// method. Embed it for forward compatibility.
type UnimplementedCharacterServiceServer struct{}

func (UnimplementedCharacterServiceServer) Join(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Join not implemented")
}
func (UnimplementedCharacterServiceServer) Leave(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Leave not implemented")
}
func (UnimplementedCharacterServiceServer) Move(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Move not implemented")
}
func (UnimplementedCharacterServiceServer) Cast(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Cast not implemented")
}
func (UnimplementedCharacterServiceServer) Status(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Status not implemented")
}

// RegisterCharacterServiceServer registers srv with s.
func RegisterCharacterServiceServer(s grpc.ServiceRegistrar, srv CharacterServiceServer) {
	s.RegisterService(&CharacterService_ServiceDesc, srv)
}

// unaryHandler adapts one CharacterServiceServer method to grpc.MethodHandler.
func unaryHandler(fullMethod string, call func(CharacterServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CharacterServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(CharacterServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// CharacterService_ServiceDesc is the grpc.ServiceDesc for CharacterService.
var CharacterService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CharacterServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Join", Handler: unaryHandler(JoinMethod, CharacterServiceServer.Join)},
		{MethodName: "Leave", Handler: unaryHandler(LeaveMethod, CharacterServiceServer.Leave)},
		{MethodName: "Move", Handler: unaryHandler(MoveMethod, CharacterServiceServer.Move)},
		{MethodName: "Cast", Handler: unaryHandler(CastMethod, CharacterServiceServer.Cast)},
		{MethodName: "Status", Handler: unaryHandler(StatusMethod, CharacterServiceServer.Status)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rpg/v1/character.proto",
}

// CharacterServiceClient is the client API for CharacterService.
type CharacterServiceClient interface {
	Join(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Leave(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Move(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Cast(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Status(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type characterServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewCharacterServiceClient returns a client bound to cc.
func NewCharacterServiceClient(cc grpc.ClientConnInterface) CharacterServiceClient {
	return &characterServiceClient{cc: cc}
}

func (c *characterServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *characterServiceClient) Join(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, JoinMethod, in, opts)
}

func (c *characterServiceClient) Leave(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, LeaveMethod, in, opts)
}

func (c *characterServiceClient) Move(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MoveMethod, in, opts)
}

func (c *characterServiceClient) Cast(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, CastMethod, in, opts)
}

func (c *characterServiceClient) Status(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, StatusMethod, in, opts)
}
