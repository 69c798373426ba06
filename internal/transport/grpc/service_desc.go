package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const serviceName = "petstore.v1.PetStore"

// Full method names of the PetStore service.
const (
	AddPetMethod      = "/" + serviceName + "/AddPet"
	ListPetsMethod    = "/" + serviceName + "/ListPets"
	GetPetMethod      = "/" + serviceName + "/GetPet"
	DeletePetMethod   = "/" + serviceName + "/DeletePet"
	UpdatePriceMethod = "/" + serviceName + "/UpdatePrice"
	ClearMethod       = "/" + serviceName + "/Clear"
)

// PetStoreServer is the server API of the petstore.v1.PetStore service.
// Pets travel as structpb.Struct with the fields name, type, color and price.
type PetStoreServer interface {
	AddPet(ctx context.Context, pet *structpb.Struct) (*structpb.Struct, error)
	// ListPets returns the pets matching the optional type, color, minPrice and maxPrice fields.
	ListPets(ctx context.Context, criteria *structpb.Struct) (*structpb.ListValue, error)
	GetPet(ctx context.Context, name *wrapperspb.StringValue) (*structpb.Struct, error)
	DeletePet(ctx context.Context, name *wrapperspb.StringValue) (*emptypb.Empty, error)
	// UpdatePrice expects the fields name and price.
	UpdatePrice(ctx context.Context, update *structpb.Struct) (*structpb.Struct, error)
	Clear(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error)
}

// ServiceDesc describes the petstore.v1.PetStore service.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*PetStoreServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "AddPet", Handler: unaryHandler(AddPetMethod, PetStoreServer.AddPet)},
		{MethodName: "ListPets", Handler: unaryHandler(ListPetsMethod, PetStoreServer.ListPets)},
		{MethodName: "GetPet", Handler: unaryHandler(GetPetMethod, PetStoreServer.GetPet)},
		{MethodName: "DeletePet", Handler: unaryHandler(DeletePetMethod, PetStoreServer.DeletePet)},
		{MethodName: "UpdatePrice", Handler: unaryHandler(UpdatePriceMethod, PetStoreServer.UpdatePrice)},
		{MethodName: "Clear", Handler: unaryHandler(ClearMethod, PetStoreServer.Clear)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "petstore/v1/petstore.proto",
}

// RegisterPetStoreServer registers srv with the gRPC server.
func RegisterPetStoreServer(s grpc.ServiceRegistrar, srv PetStoreServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// unaryHandler adapts a typed PetStoreServer method to grpc.MethodHandler.
func unaryHandler[Req any, Resp any](fullMethod string, call func(PetStoreServer, context.Context, *Req) (Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(PetStoreServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(PetStoreServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
