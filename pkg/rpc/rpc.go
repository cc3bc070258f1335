// Package rpc serves JSON documents over gRPC using google.protobuf.Struct
// as the wire message, so services can be declared without generated stubs.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Decode copies a Struct message into dst through its JSON form.
func Decode(msg *structpb.Struct, dst any) error {
	if msg == nil {
		msg = &structpb.Struct{}
	}
	b, err := protojson.Marshal(msg)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}

// Encode converts src into a Struct message. src must marshal to a JSON object.
func Encode(src any) (*structpb.Struct, error) {
	b, err := json.Marshal(src)
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}
	return out, nil
}

// Service collects unary methods under one fully qualified service name.
type Service struct {
	name    string
	methods []grpc.MethodDesc
}

func NewService(name string) *Service {
	return &Service{name: name}
}

func (s *Service) Name() string { return s.name }

// Unary registers fn as method on s. Requests that cannot be decoded into Req
// are rejected with InvalidArgument before fn runs.
func Unary[Req, Resp any](s *Service, method string, fn func(ctx context.Context, req *Req) (*Resp, error)) {
	fullMethod := "/" + s.name + "/" + method
	s.methods = append(s.methods, grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			call := func(ctx context.Context, req any) (any, error) {
				var r Req
				if err := Decode(req.(*structpb.Struct), &r); err != nil {
					return nil, status.Errorf(codes.InvalidArgument, "decode request: %v", err)
				}
				resp, err := fn(ctx, &r)
				if err != nil {
					return nil, err
				}
				return Encode(resp)
			}
			if interceptor == nil {
				return call(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			return interceptor(ctx, in, info, call)
		},
	})
}

func (s *Service) Desc() *grpc.ServiceDesc {
	return &grpc.ServiceDesc{
		ServiceName: s.name,
		HandlerType: (*any)(nil),
		Methods:     s.methods,
		Metadata:    "retail/v1/" + s.name,
	}
}

func (s *Service) Register(r grpc.ServiceRegistrar) {
	r.RegisterService(s.Desc(), struct{}{})
}

// Invoke calls a Struct-based method on conn and decodes the reply into resp.
func Invoke(ctx context.Context, conn grpc.ClientConnInterface, fullMethod string, req, resp any, opts ...grpc.CallOption) error {
	in, err := Encode(req)
	if err != nil {
		return err
	}
	out := new(structpb.Struct)
	if err := conn.Invoke(ctx, fullMethod, in, out, opts...); err != nil {
		return err
	}
	return Decode(out, resp)
}

// RegisterDefaults adds the health and reflection services and marks every
// registered service as serving.
func RegisterDefaults(srv *grpc.Server, services ...*Service) *health.Server {
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)
	for _, s := range services {
		hs.SetServingStatus(s.Name(), healthpb.HealthCheckResponse_SERVING)
	}
	return hs
}
