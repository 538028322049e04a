package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sentiment-lab/embedding"
	"sentiment-lab/errors"
	"sentiment-lab/normalizer"
	"sentiment-lab/runtime/workers"
	"sentiment-lab/scoring"
	"sentiment-lab/textproc"
	"sentiment-lab/vectorizer"
	"sync"

	"github.com/shirou/gopsutil/process"
	"golang.org/x/sync/errgroup"
)

type ResourcesConfig struct {
	ScorerKind        scoring.Kind
	ModelPath         string
	EmbeddingsPath    string
	Specialist        scoring.SpecialistConfig
	EmoticonsPath     string
	AbbreviationsPath string
	ContractionsPath  string
	LemmasPath        string
	LexiconPath       string
	StopWords         []string
}

// Resources holds the heavy, process-wide dependencies of the pipeline. Each
// one is built on first use and reused afterwards; Close releases them all.
type Resources struct {
	cfg ResourcesConfig
	log *slog.Logger

	cleanerOnce sync.Once
	cleaner     *textproc.Cleaner
	cleanerErr  error

	scorerOnce sync.Once
	scorer     scoring.Scorer
	scorerErr  error

	mu      sync.Mutex
	closers []func() error
	pids    map[string]int32
}

type ResourcesOption func(r *Resources)

// WithCleaner provides an already built cleaner.
func WithCleaner(cleaner *textproc.Cleaner) ResourcesOption {
	return func(r *Resources) {
		r.cleanerOnce.Do(func() { r.cleaner = cleaner })
	}
}

// WithScorer provides an already built scorer.
func WithScorer(scorer scoring.Scorer) ResourcesOption {
	return func(r *Resources) {
		r.scorerOnce.Do(func() { r.scorer = scorer })
	}
}

func NewResources(cfg ResourcesConfig, log *slog.Logger, opts ...ResourcesOption) *Resources {
	r := &Resources{
		cfg:  cfg,
		log:  log,
		pids: map[string]int32{"classifier": int32(os.Getpid())},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resources) Cleaner() (*textproc.Cleaner, error) {
	r.cleanerOnce.Do(func() {
		r.cleaner, r.cleanerErr = r.loadCleaner()
	})
	return r.cleaner, r.cleanerErr
}

// Scorer builds the configured strategy. ctx bounds the lifetime of a
// launched specialist, so it must outlive the run.
func (r *Resources) Scorer(ctx context.Context) (scoring.Scorer, error) {
	r.scorerOnce.Do(func() {
		r.scorer, r.scorerErr = r.loadScorer(ctx)
		if r.scorerErr == nil {
			r.logMemory()
		}
	})
	return r.scorer, r.scorerErr
}

// Pids lists the processes worth monitoring, by name.
func (r *Resources) Pids() map[string]int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	pids := make(map[string]int32, len(r.pids))
	for name, pid := range r.pids {
		pids[name] = pid
	}
	return pids
}

// Close releases the store and the specialist concurrently.
func (r *Resources) Close() error {
	r.mu.Lock()
	closers := r.closers
	r.closers = nil
	r.mu.Unlock()

	var g errgroup.Group
	for _, closer := range closers {
		g.Go(closer)
	}
	return g.Wait()
}

func (r *Resources) addCloser(closer func() error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closers = append(r.closers, closer)
}

func (r *Resources) loadCleaner() (*textproc.Cleaner, error) {
	emoticons, err := normalizer.LoadDictionaryFile(r.cfg.EmoticonsPath)
	if err != nil {
		return nil, err
	}
	abbreviations, err := normalizer.LoadDictionaryFile(r.cfg.AbbreviationsPath)
	if err != nil {
		return nil, err
	}
	contractions, err := normalizer.LoadDictionaryFile(r.cfg.ContractionsPath)
	if err != nil {
		return nil, err
	}
	n, err := normalizer.New(
		normalizer.WithEmoticons(emoticons),
		normalizer.WithAbbreviations(abbreviations),
		normalizer.WithContractions(contractions),
	)
	if err != nil {
		return nil, err
	}

	var lemmatizerOpts []textproc.LemmatizerOption
	if r.cfg.LemmasPath != "" {
		lemmas, err := textproc.LoadLemmaDictionary(r.cfg.LemmasPath)
		if err != nil {
			return nil, err
		}
		lemmatizerOpts = append(lemmatizerOpts, textproc.WithLemmaDictionary(lemmas))
	}
	if r.cfg.LexiconPath != "" {
		lexicon, err := textproc.LoadWordListFile(r.cfg.LexiconPath)
		if err != nil {
			return nil, err
		}
		lemmatizerOpts = append(lemmatizerOpts, textproc.WithLexicon(lexicon))
	}

	r.log.Debug("Cleaner loaded",
		"extra_emoticons", len(emoticons),
		"extra_abbreviations", len(abbreviations),
		"extra_contractions", len(contractions))
	return textproc.NewCleaner(
		n,
		textproc.NewLemmatizer(lemmatizerOpts...),
		textproc.DefaultStopWords(r.cfg.StopWords...),
	), nil
}

func (r *Resources) loadScorer(ctx context.Context) (scoring.Scorer, error) {
	switch r.cfg.ScorerKind {
	case scoring.KindForest:
		pipeline, err := scoring.LoadPipeline(r.cfg.ModelPath)
		if err != nil {
			return nil, err
		}
		store, err := embedding.OpenStore(r.cfg.EmbeddingsPath, r.log)
		if err != nil {
			return nil, err
		}
		r.addCloser(store.Close)
		if store.Dimension() != pipeline.Dimension() {
			return nil, fmt.Errorf("%w: embeddings have %d dimensions, model expects %d",
				errors.ErrDimensionMismatch, store.Dimension(), pipeline.Dimension())
		}
		r.log.Info("Forest scorer loaded", "dimension", pipeline.Dimension())
		return scoring.NewVectorizingScorer(vectorizer.NewVectorizer(store), pipeline), nil
	case scoring.KindTransformer:
		remote, err := scoring.StartSpecialist(ctx, r.cfg.Specialist, r.log)
		if err != nil {
			return nil, err
		}
		r.addCloser(remote.Close)
		if pid := remote.Pid(); pid > 0 {
			r.mu.Lock()
			r.pids["specialist"] = int32(pid)
			r.mu.Unlock()
		}
		return remote, nil
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownScorer, r.cfg.ScorerKind)
	}
}

func (r *Resources) logMemory() {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return
	}
	rss, _, err := workers.ProcessStats(p)
	if err != nil {
		return
	}
	r.log.Info("Resources loaded", "scorer", r.cfg.ScorerKind, "rss_mb", rss/1024/1024)
}
