package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sentiment-lab/errors"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"google.golang.org/grpc"
	"google.golang.org/grpc/backoff"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

// SpecialistConfig locates a scoring sidecar. With an empty BinPath the
// sidecar is expected to be already listening on Host:Port.
type SpecialistConfig struct {
	BinPath string
	Host    string
	Port    int
	Model   string
	Timeout time.Duration
}

// RemoteScorer delegates scoring to a specialist over gRPC.
type RemoteScorer struct {
	conn    *grpc.ClientConn
	process *os.Process
	timeout time.Duration
	log     *slog.Logger
}

func NewRemoteScorer(conn *grpc.ClientConn, timeout time.Duration, log *slog.Logger) *RemoteScorer {
	return &RemoteScorer{conn: conn, timeout: timeout, log: log}
}

// StartSpecialist launches the sidecar binary when one is configured, then
// waits for its gRPC server to be ready.
func StartSpecialist(ctx context.Context, cfg SpecialistConfig, log *slog.Logger) (*RemoteScorer, error) {
	if cfg.BinPath == "" {
		conn, err := dialWithRetry(ctx, cfg.Host, cfg.Port)
		if err != nil {
			return nil, fmt.Errorf("%w on %s port %d: %v", errors.ErrSpecialistUnavailable, cfg.Host, cfg.Port, err)
		}
		return NewRemoteScorer(conn, cfg.Timeout, log), nil
	}

	if _, err := os.Stat(cfg.BinPath); err != nil {
		return nil, fmt.Errorf("%w: %s", errors.ErrSpecialistNotFound, cfg.BinPath)
	}
	args := []string{"--port", strconv.Itoa(cfg.Port)}
	if cfg.Model != "" {
		args = append(args, "--model", cfg.Model)
	}
	cmd := exec.CommandContext(ctx, cfg.BinPath, args...)
	cmd.Stderr = os.Stderr
	setPlatformSpecificAttrs(cmd)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrSpecialistStartFailed, err)
	}

	conn, err := dialWithRetry(ctx, cfg.Host, cfg.Port)
	if err != nil {
		_ = cmd.Process.Kill()
		return nil, fmt.Errorf("%w on %s port %d: %v", errors.ErrSpecialistUnavailable, cfg.Host, cfg.Port, err)
	}
	log.Info("Scoring specialist ready", "pid", cmd.Process.Pid, "port", cfg.Port)

	scorer := NewRemoteScorer(conn, cfg.Timeout, log)
	scorer.process = cmd.Process
	return scorer, nil
}

func (r *RemoteScorer) Score(ctx context.Context, input Input) (float64, error) {
	if strings.TrimSpace(input.Text) == "" {
		return 0, errors.ErrMissingText
	}
	req, err := encodeRequest(input)
	if err != nil {
		return 0, err
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	resp := new(structpb.Struct)
	if err := r.conn.Invoke(ctx, scoreMethod, req, resp); err != nil {
		return 0, fmt.Errorf("remote score: %w", err)
	}
	return decodeScore(resp)
}

// Pid is the sidecar process id, 0 when the sidecar was not launched by us.
func (r *RemoteScorer) Pid() int {
	if r.process == nil {
		return 0
	}
	return r.process.Pid
}

// Close releases the connection and stops the sidecar process if we own it.
func (r *RemoteScorer) Close() error {
	err := r.conn.Close()
	if r.process != nil {
		if killErr := r.process.Kill(); killErr != nil {
			r.log.Debug("Specialist already stopped", "error", killErr)
		}
		_, _ = r.process.Wait()
	}
	return err
}

func encodeRequest(input Input) (*structpb.Struct, error) {
	fields := map[string]any{"text": input.Text}
	if len(input.Vector) > 0 {
		fields["vector"] = lo.Map(input.Vector, func(f float64, _ int) any { return f })
	}
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encode score request: %w", err)
	}
	return req, nil
}

func decodeRequest(req *structpb.Struct) Input {
	input := Input{Text: req.GetFields()["text"].GetStringValue()}
	if list := req.GetFields()["vector"].GetListValue(); list != nil {
		input.Vector = lo.Map(list.GetValues(), func(v *structpb.Value, _ int) float64 { return v.GetNumberValue() })
	}
	return input
}

func decodeScore(resp *structpb.Struct) (float64, error) {
	value, ok := resp.GetFields()["score"]
	if !ok {
		return 0, fmt.Errorf("%w: missing score", errors.ErrInvalidScoreResponse)
	}
	number, ok := value.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%w: score is not a number", errors.ErrInvalidScoreResponse)
	}
	return Clamp(number.NumberValue), nil
}

// dialWithRetry creates the client then blocks until the connection is READY,
// so the first comment is not sent while the sidecar is still loading its model.
func dialWithRetry(ctx context.Context, host string, port int) (*grpc.ClientConn, error) {
	addr := fmt.Sprintf("%s:%d", host, port)

	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithConnectParams(grpc.ConnectParams{
			Backoff: backoff.Config{
				BaseDelay:  100 * time.Millisecond,
				Multiplier: 1.6,
				Jitter:     0.2,
				MaxDelay:   3 * time.Second,
			},
		}),
	)
	if err != nil {
		return nil, err
	}

	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	conn.Connect()
	for {
		state := conn.GetState()
		if state == connectivity.Ready {
			break
		}
		if !conn.WaitForStateChange(dialCtx, state) {
			_ = conn.Close()
			return nil, errors.ErrSpecialistUnavailable
		}
	}
	return conn, nil
}
