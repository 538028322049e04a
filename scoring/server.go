package scoring

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sentiment-lab/errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	scoringService = "sentiment.v1.ScoringService"
	scoreMethod    = "/" + scoringService + "/Score"
)

// ScoringServer is the server side of the scoring specialist. Requests and
// responses are generic structs: {"text": string, "vector": [number]} in,
// {"score": number} out.
type ScoringServer interface {
	Score(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

var scoringServiceDesc = grpc.ServiceDesc{
	ServiceName: scoringService,
	HandlerType: (*ScoringServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Score", Handler: scoreHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sentiment/v1/scoring.proto",
}

// RegisterScorerServer exposes any Scorer as a scoring specialist.
func RegisterScorerServer(s *grpc.Server, scorer Scorer, log *slog.Logger) {
	s.RegisterService(&scoringServiceDesc, &scorerServer{scorer: scorer, log: log})
}

type scorerServer struct {
	scorer Scorer
	log    *slog.Logger
}

func (s *scorerServer) Score(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	score, err := s.scorer.Score(ctx, decodeRequest(req))
	if err != nil {
		s.log.Debug("Score failed", "error", err)
		switch {
		case stderrors.Is(err, errors.ErrMissingText),
			stderrors.Is(err, errors.ErrMissingVector),
			stderrors.Is(err, errors.ErrDimensionMismatch):
			return nil, status.Error(codes.InvalidArgument, err.Error())
		default:
			return nil, status.Error(codes.Internal, err.Error())
		}
	}
	return structpb.NewStruct(map[string]any{"score": Clamp(score)})
}

func scoreHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScoringServer).Score(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: scoreMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ScoringServer).Score(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}
