package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name
const ServiceName = "savingsplan.v1.PlannerService"

const (
	BuildPlanMethod    = "/" + ServiceName + "/BuildPlan"
	ListTaxYearsMethod = "/" + ServiceName + "/ListTaxYears"
)

// PlannerServiceServer is the server API for PlannerService.
// Messages are google.protobuf.Struct so clients need no generated stubs.
type PlannerServiceServer interface {
	BuildPlan(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListTaxYears(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// PlannerServiceDesc describes PlannerService for grpc.Server registration
var PlannerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PlannerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "BuildPlan", Handler: buildPlanHandler},
		{MethodName: "ListTaxYears", Handler: listTaxYearsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "savingsplan/v1/planner.proto",
}

// RegisterPlannerServiceServer registers srv on s
func RegisterPlannerServiceServer(s grpc.ServiceRegistrar, srv PlannerServiceServer) {
	s.RegisterService(&PlannerServiceDesc, srv)
}

func buildPlanHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PlannerServiceServer).BuildPlan(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: BuildPlanMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PlannerServiceServer).BuildPlan(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func listTaxYearsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PlannerServiceServer).ListTaxYears(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ListTaxYearsMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PlannerServiceServer).ListTaxYears(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// PlannerServiceClient is the client API for PlannerService
type PlannerServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewPlannerServiceClient wraps a connection
func NewPlannerServiceClient(cc grpc.ClientConnInterface) *PlannerServiceClient {
	return &PlannerServiceClient{cc: cc}
}

// BuildPlan calls PlannerService.BuildPlan
func (c *PlannerServiceClient) BuildPlan(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, BuildPlanMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTaxYears calls PlannerService.ListTaxYears
func (c *PlannerServiceClient) ListTaxYears(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ListTaxYearsMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
