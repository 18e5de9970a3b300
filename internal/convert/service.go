package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"ncmconv/internal/config"
	"ncmconv/internal/history"
	"ncmconv/internal/logging"
	"ncmconv/internal/ncm"
	"ncmconv/internal/services"
	"ncmconv/internal/transcode"
)

const (
	stageDecode   = "decode"
	stageFinalize = "finalize"
)

// Finalizer persists decrypted audio. *transcode.Coordinator satisfies it.
type Finalizer interface {
	Finalize(ctx context.Context, audio []byte, format ncm.Format, target string) error
}

// Outcome describes one finished request.
type Outcome struct {
	RequestID string
	Source    string
	Output    string
	Format    ncm.Format
	Duration  time.Duration
	Err       error
}

// Option configures the service.
type Option func(*Service)

// WithHistory records every request in store.
func WithHistory(store *history.Store) Option {
	return func(s *Service) {
		s.history = store
	}
}

// WithReporter delivers request events to r.
func WithReporter(r Reporter) Option {
	return func(s *Service) {
		if r != nil {
			s.reporter = r
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service converts containers into output files.
type Service struct {
	outputDir string
	workers   int
	decrypt   ncm.DecryptOptions
	finalizer Finalizer
	history   *history.Store
	reporter  Reporter
	logger    *slog.Logger
	now       func() time.Time
}

// NewService builds a service from configuration and a finalizer.
func NewService(cfg *config.Config, finalizer Finalizer, opts ...Option) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("convert: config required")
	}
	if finalizer == nil {
		return nil, errors.New("convert: finalizer required")
	}
	s := &Service{
		outputDir: cfg.Paths.OutputDir,
		workers:   max(cfg.Workers.Conversions, 1),
		decrypt:   ncm.DecryptOptions{Workers: cfg.Workers.Decrypt},
		finalizer: finalizer,
		reporter:  discardReporter{},
		logger:    logging.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "converter")
	return s, nil
}

// NewServiceFromConfig wires the external transcoder configured in cfg.
func NewServiceFromConfig(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("convert: config required")
	}
	coord, err := transcode.New(cfg.TranscoderBinary(), transcode.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return NewService(cfg, coord, append([]Option{WithLogger(logger)}, opts...)...)
}

// Convert runs one request for path. The returned outcome is always non-nil;
// its Err mirrors the returned error.
func (s *Service) Convert(ctx context.Context, path string) (*Outcome, error) {
	requestID := uuid.NewString()
	ctx = services.WithRequestID(ctx, requestID)
	ctx = services.WithSourcePath(ctx, path)
	logger := logging.WithContext(ctx, s.logger)

	started := s.now()
	outcome := &Outcome{RequestID: requestID, Source: path}
	s.emit(Event{RequestID: requestID, Path: path, Phase: PhaseStarted})
	logger.Info("conversion started")
	s.recordBegin(ctx, logger, requestID, path)

	err := s.run(ctx, outcome)
	outcome.Duration = s.now().Sub(started)
	outcome.Err = err

	if err != nil {
		s.emit(Event{RequestID: requestID, Path: path, Phase: PhaseFailed, Message: err.Error()})
		logging.ErrorWithContext(logger, "conversion failed", "conversion_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, errorHint(err)),
			logging.String("failed_stage", services.StageOf(err)),
			logging.Duration("duration", outcome.Duration),
		)
		s.recordFailure(ctx, logger, requestID, err)
		return outcome, err
	}

	s.emit(Event{RequestID: requestID, Path: path, Phase: PhaseCompleted, Output: outcome.Output})
	logger.Info("conversion completed",
		logging.String("output", outcome.Output),
		logging.String("format", outcome.Format.String()),
		logging.Duration("duration", outcome.Duration),
	)
	s.recordCompletion(ctx, logger, outcome)
	return outcome, nil
}

func (s *Service) run(ctx context.Context, outcome *Outcome) error {
	target := OutputPath(outcome.Source, s.outputDir)
	if samePath(target, outcome.Source) {
		return services.Wrap(services.ErrValidation, stageDecode, "resolve output", "output would overwrite the source file", nil)
	}

	decodeCtx := services.WithStage(ctx, stageDecode)
	result, err := ncm.DecodeFile(decodeCtx, outcome.Source, s.decrypt)
	if err != nil {
		return services.Wrap(decodeMarker(err), stageDecode, "decode container", "", err)
	}
	outcome.Format = result.Format
	logging.WithContext(decodeCtx, s.logger).Debug("container decoded",
		logging.Int("key_len", result.KeyLen),
		logging.Int("metadata_len", result.MetadataLen),
		logging.Int("image_len", result.ImageLen),
		logging.Int("audio_len", len(result.Audio)),
		logging.String("format", result.Format.String()),
	)

	finalizeCtx := services.WithStage(ctx, stageFinalize)
	if err := s.finalizer.Finalize(finalizeCtx, result.Audio, result.Format, target); err != nil {
		return services.Wrap(finalizeMarker(err), stageFinalize, "write output", "", err)
	}
	outcome.Output = target
	return nil
}

// ConvertAll converts every input (directories expanded to their matching
// files) on a pool bounded by the configured worker count. Outcomes are
// returned in input order; the error joins every failure.
func (s *Service) ConvertAll(ctx context.Context, inputs []string, ext string) ([]*Outcome, error) {
	paths, err := ExpandInputs(inputs, ext)
	if err != nil {
		return nil, err
	}
	type indexed struct {
		idx     int
		outcome *Outcome
	}
	p := pool.NewWithResults[indexed]().WithMaxGoroutines(s.workers)
	for idx, path := range paths {
		p.Go(func() indexed {
			outcome, _ := s.Convert(ctx, path)
			return indexed{idx: idx, outcome: outcome}
		})
	}
	results := p.Wait()
	sort.Slice(results, func(i, j int) bool { return results[i].idx < results[j].idx })

	outcomes := make([]*Outcome, 0, len(results))
	var errs []error
	for _, r := range results {
		outcomes = append(outcomes, r.outcome)
		if r.outcome.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.outcome.Source, r.outcome.Err))
		}
	}
	return outcomes, errors.Join(errs...)
}

func (s *Service) emit(ev Event) {
	if ev.Time.IsZero() {
		ev.Time = s.now()
	}
	s.reporter.Report(ev)
}

func (s *Service) recordBegin(ctx context.Context, logger *slog.Logger, requestID, path string) {
	if s.history == nil {
		return
	}
	if _, err := s.history.Begin(ctx, requestID, path); err != nil {
		logging.WarnWithContext(logger, "history record not created", "history_begin_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "request will be missing from ncmconv history"),
		)
	}
}

func (s *Service) recordCompletion(ctx context.Context, logger *slog.Logger, outcome *Outcome) {
	if s.history == nil {
		return
	}
	if err := s.history.Complete(ctx, outcome.RequestID, outcome.Output, outcome.Format.String()); err != nil {
		logging.WarnWithContext(logger, "history record not updated", "history_complete_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "history shows the request as started"),
		)
	}
}

func (s *Service) recordFailure(ctx context.Context, logger *slog.Logger, requestID string, cause error) {
	if s.history == nil {
		return
	}
	if err := s.history.Fail(ctx, requestID, services.FailureStatus(cause), cause.Error()); err != nil {
		logging.WarnWithContext(logger, "history record not updated", "history_fail_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "history shows the request as started"),
		)
	}
}

func decodeMarker(err error) error {
	switch {
	case errors.Is(err, ncm.ErrInput):
		return services.ErrNotFound
	case errors.Is(err, ncm.ErrFormat), errors.Is(err, ncm.ErrCrypto):
		return services.ErrValidation
	default:
		return services.ErrTransient
	}
}

func finalizeMarker(err error) error {
	switch {
	case errors.Is(err, transcode.ErrTranscoderNotFound):
		return services.ErrConfiguration
	case errors.Is(err, transcode.ErrTranscoder):
		return services.ErrExternalTool
	default:
		return services.ErrTransient
	}
}

func errorHint(err error) string {
	switch {
	case errors.Is(err, ncm.ErrInput):
		return "check that the file exists and is readable"
	case errors.Is(err, ncm.ErrFormat):
		return "file is not a complete container; re-download it"
	case errors.Is(err, ncm.ErrCrypto):
		return "embedded key could not be recovered; the file may be corrupt"
	case errors.Is(err, transcode.ErrTranscoderNotFound):
		return "install ffmpeg or set transcoder.binary in config"
	case errors.Is(err, transcode.ErrTranscoderFailed):
		return "inspect the transcoder stderr in the error message"
	default:
		return "check logs for details"
	}
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
