package scoring

import (
	"context"
	"log/slog"
	"net"
	customerrors "sentiment-lab/errors"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type fixedScorer struct {
	score float64
	seen  chan Input
}

func (f fixedScorer) Score(_ context.Context, input Input) (float64, error) {
	if f.seen != nil {
		f.seen <- input
	}
	return f.score, nil
}

func startServer(t *testing.T, scorer Scorer) *grpc.ClientConn {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	lis := bufconn.Listen(1 << 20)
	server := grpc.NewServer()
	RegisterScorerServer(server, scorer, log)
	go func() { _ = server.Serve(lis) }()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	return conn
}

func TestRemoteScorer_Round_Trip(t *testing.T) {
	req := require.New(t)
	seen := make(chan Input, 1)
	conn := startServer(t, fixedScorer{score: 0.8, seen: seen})
	remote := NewRemoteScorer(conn, time.Second, slog.Default())
	defer remote.Close()

	score, err := remote.Score(context.Background(), Input{Text: "really good", Vector: []float64{0.5, -1}})
	req.NoError(err)
	req.InDelta(0.8, score, 1e-9)
	req.Equal(0, remote.Pid())

	input := <-seen
	req.Equal("really good", input.Text)
	req.Equal([]float64{0.5, -1}, input.Vector)
}

func TestRemoteScorer_Clamps_Out_Of_Range_Scores(t *testing.T) {
	conn := startServer(t, fixedScorer{score: 7})
	remote := NewRemoteScorer(conn, time.Second, slog.Default())
	defer remote.Close()

	score, err := remote.Score(context.Background(), Input{Text: "good"})
	require.NoError(t, err)
	require.Equal(t, 1.0, score)
}

func TestRemoteScorer_Rejects_Empty_Text(t *testing.T) {
	conn := startServer(t, fixedScorer{score: 0.5})
	remote := NewRemoteScorer(conn, time.Second, slog.Default())
	defer remote.Close()

	_, err := remote.Score(context.Background(), Input{Text: "  "})
	require.ErrorIs(t, err, customerrors.ErrMissingText)
}

func TestScorerServer_Maps_Input_Errors(t *testing.T) {
	req := require.New(t)
	pipeline, err := NewPipeline(twoTreeModel())
	req.NoError(err)
	conn := startServer(t, pipeline)
	remote := NewRemoteScorer(conn, time.Second, slog.Default())
	defer remote.Close()

	_, err = remote.Score(context.Background(), Input{Text: "no vector"})
	req.Error(err)
	req.Equal(codes.InvalidArgument, status.Code(err))
}

func TestDecodeScore(t *testing.T) {
	tests := []struct {
		description string
		fields      map[string]any
		expected    float64
		err         error
	}{
		{"Should read a numeric score", map[string]any{"score": 0.25}, 0.25, nil},
		{"Should clamp a negative score", map[string]any{"score": -2.0}, 0, nil},
		{"Should reject a missing score", map[string]any{"label": "positive"}, 0, customerrors.ErrInvalidScoreResponse},
		{"Should reject a textual score", map[string]any{"score": "high"}, 0, customerrors.ErrInvalidScoreResponse},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			resp, err := structpb.NewStruct(tt.fields)
			require.NoError(t, err)
			score, err := decodeScore(resp)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expected, score)
		})
	}
}
