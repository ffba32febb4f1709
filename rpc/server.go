package rpc

import (
	"context"
	"net"
	"strconv"
	"time"

	"binobj/bwire"
	"binobj/log"
	"binobj/record"
	"binobj/store"
	"binobj/util"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Opts struct {
	DB         *leveldb.DB
	Codec      *bwire.ConfiguredCodec
	UserLocker *util.MultiLocker[string]
	Host       string
	Port       int
}

type Server struct {
	host  string
	port  int
	db    *leveldb.DB
	codec *bwire.ConfiguredCodec
	users *util.MultiLocker[string]
	lgr   log.Logger
	srv   *grpc.Server
	lis   net.Listener
}

var _ UsersServer = (*Server)(nil)

func NewServer(opts *Opts) *Server {
	codec := opts.Codec
	if codec == nil {
		def := bwire.DefaultCodec()
		codec = &def
	}
	users := opts.UserLocker
	if users == nil {
		users = util.NewMultiLocker[string]()
	}
	s := &Server{
		host:  opts.Host,
		port:  opts.Port,
		db:    opts.DB,
		codec: codec,
		users: users,
		lgr:   log.WithModule("rpc-server"),
	}
	s.srv = grpc.NewServer(
		grpc.ForceServerCodec(NewCodec(codec)),
		grpc.UnaryInterceptor(s.logCalls),
	)
	RegisterUsersServer(s.srv, s)
	return s
}

func (s *Server) Start() error {
	lis, err := net.Listen("tcp", net.JoinHostPort(s.host, strconv.Itoa(s.port)))
	if err != nil {
		return errors.Wrap(err, "error opening RPC listener")
	}
	s.lis = lis
	s.lgr.Info("started RPC server", "addr", lis.Addr().String())
	go func() {
		if err := s.srv.Serve(lis); err != nil {
			s.lgr.Error("RPC server exited", "err", err)
		}
	}()
	return nil
}

// Serve blocks serving lis until Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	s.lis = lis
	return s.srv.Serve(lis)
}

func (s *Server) Addr() string {
	if s.lis == nil {
		return ""
	}
	return s.lis.Addr().String()
}

func (s *Server) Stop() error {
	s.srv.GracefulStop()
	return nil
}

func (s *Server) Echo(_ context.Context, user *record.User) (*record.User, error) {
	return user, nil
}

func (s *Server) Put(_ context.Context, user *record.User) (*Ack, error) {
	if s.db == nil {
		return nil, status.Error(codes.Unavailable, "store is disabled")
	}
	key := store.UserKey(user.ID)
	if !s.users.TryLock(key) {
		return nil, status.Error(codes.Aborted, "user is busy")
	}
	defer s.users.Unlock(key)
	if err := store.PutUser(s.db, s.codec, user); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &Ack{Stored: true}, nil
}

func (s *Server) logCalls(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	res, err := handler(ctx, req)
	if err != nil {
		s.lgr.Debug("call failed", "method", info.FullMethod, "err", err)
		return nil, err
	}
	s.lgr.Trace("handled call", "method", info.FullMethod, "duration", time.Since(start))
	return res, nil
}
