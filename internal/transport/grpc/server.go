// Package grpc provides a gRPC server for the pet service.
package grpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	perrors "github.com/abgdnv/petstore/internal/errors"
	"github.com/abgdnv/petstore/internal/service"
	"github.com/go-playground/validator/v10"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var _ PetStoreServer = (*Server)(nil)

type Server struct {
	service  service.PetService
	validate *validator.Validate
	logger   *slog.Logger
}

func NewServer(service service.PetService, logger *slog.Logger) *Server {
	return &Server{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "grpc"),
	}
}

func (s *Server) AddPet(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	price, err := optionalInt(req, "price")
	if err != nil {
		return nil, err
	}
	dto := service.PetCreateDto{
		Name:  stringField(req, "name"),
		Type:  stringField(req, "type"),
		Color: stringField(req, "color"),
		Price: price,
	}
	if err := s.validate.Struct(dto); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid pet: %v", err)
	}

	created, err := s.service.Create(ctx, dto)
	if err != nil {
		return nil, s.toStatus(ctx, err, "AddPet")
	}
	return petToStruct(created), nil
}

func (s *Server) ListPets(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error) {
	minPrice, err := optionalInt(req, "minPrice")
	if err != nil {
		return nil, err
	}
	maxPrice, err := optionalInt(req, "maxPrice")
	if err != nil {
		return nil, err
	}
	filter := service.FilterDto{
		Type:     optionalString(req, "type"),
		Color:    optionalString(req, "color"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	}

	var list []service.PetDto
	if filter.IsEmpty() {
		list, err = s.service.FindAll(ctx)
	} else {
		list, err = s.service.Find(ctx, filter)
	}
	if err != nil {
		return nil, s.toStatus(ctx, err, "ListPets")
	}

	values := make([]*structpb.Value, 0, len(list))
	for i := range list {
		values = append(values, structpb.NewStructValue(petToStruct(&list[i])))
	}
	return &structpb.ListValue{Values: values}, nil
}

func (s *Server) GetPet(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	found, err := s.service.FindByName(ctx, req.GetValue())
	if err != nil {
		return nil, s.toStatus(ctx, err, "GetPet")
	}
	return petToStruct(found), nil
}

func (s *Server) DeletePet(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	if err := s.service.DeleteByName(ctx, req.GetValue()); err != nil {
		return nil, s.toStatus(ctx, err, "DeletePet")
	}
	return &emptypb.Empty{}, nil
}

func (s *Server) UpdatePrice(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	price, err := optionalInt(req, "price")
	if err != nil {
		return nil, err
	}
	update := service.PriceUpdateDto{Price: price}
	if err := s.validate.Struct(update); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid price update: %v", err)
	}

	updated, err := s.service.UpdatePrice(ctx, stringField(req, "name"), update)
	if err != nil {
		return nil, s.toStatus(ctx, err, "UpdatePrice")
	}
	return petToStruct(updated), nil
}

func (s *Server) Clear(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	if err := s.service.Clear(ctx); err != nil {
		return nil, s.toStatus(ctx, err, "Clear")
	}
	return &emptypb.Empty{}, nil
}

// toStatus maps service errors to gRPC status codes.
func (s *Server) toStatus(ctx context.Context, err error, method string) error {
	switch {
	case errors.Is(err, perrors.ErrPetNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, perrors.ErrInvalidPet):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		s.logger.ErrorContext(ctx, "service call failed", "method", method, "error", err)
		return status.Errorf(codes.Internal, "internal server error")
	}
}

func petToStruct(p *service.PetDto) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"name":  structpb.NewStringValue(p.Name),
		"type":  structpb.NewStringValue(p.Type),
		"color": structpb.NewStringValue(p.Color),
		"price": structpb.NewNumberValue(float64(p.Price)),
	}}
}

func stringField(req *structpb.Struct, key string) string {
	return req.GetFields()[key].GetStringValue()
}

func optionalString(req *structpb.Struct, key string) *string {
	v := stringField(req, key)
	if v == "" {
		return nil
	}
	return &v
}

// optionalInt reads a whole number field. An absent or null field yields nil.
func optionalInt(req *structpb.Struct, key string) (*int64, error) {
	v, ok := req.GetFields()[key]
	if !ok {
		return nil, nil
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return nil, nil
	case *structpb.Value_NumberValue:
		n := kind.NumberValue
		if n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
			return nil, status.Errorf(codes.InvalidArgument, "%s must be a whole number: %v", key, n)
		}
		i := int64(n)
		return &i, nil
	default:
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("%s must be a number", key))
	}
}
