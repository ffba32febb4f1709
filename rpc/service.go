package rpc

import (
	"context"

	"binobj/record"

	"google.golang.org/grpc"
)

const (
	ServiceName = "binobj.v1.Users"

	echoMethod = "/" + ServiceName + "/Echo"
	putMethod  = "/" + ServiceName + "/Put"
)

type UsersServer interface {
	Echo(context.Context, *record.User) (*record.User, error)
	Put(context.Context, *record.User) (*Ack, error)
}

func RegisterUsersServer(s grpc.ServiceRegistrar, srv UsersServer) {
	s.RegisterService(&UsersServiceDesc, srv)
}

var UsersServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*UsersServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Echo",
			Handler:    usersEchoHandler,
		},
		{
			MethodName: "Put",
			Handler:    usersPutHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "binobj/v1/users",
}

func usersEchoHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(record.User)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(UsersServer).Echo(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: echoMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(UsersServer).Echo(ctx, req.(*record.User))
	}
	return interceptor(ctx, in, info, handler)
}

func usersPutHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(record.User)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(UsersServer).Put(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: putMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(UsersServer).Put(ctx, req.(*record.User))
	}
	return interceptor(ctx, in, info, handler)
}
