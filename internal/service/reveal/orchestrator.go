// Package reveal paces one discovery cycle: fetch a word and a decoy batch,
// hold the anticipation animation, show the word, then show its definition.
package reveal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/plexicon/internal/domain"
)

// statsWriteTimeout bounds one stats write.
const statsWriteTimeout = 5 * time.Second

// WordFetcher never fails; it degrades to a fallback record.
type WordFetcher interface {
	FetchWord(ctx context.Context, letter domain.Letter, lang domain.Language) domain.WordRecord
}

// DecoyFetcher never fails; it degrades to repeated letters.
type DecoyFetcher interface {
	FetchDecoys(ctx context.Context, letter domain.Letter, count int, lang domain.Language) []string
}

type StatsRecorder interface {
	Record(ctx context.Context, word string) (domain.StatsRecord, error)
}

// Config holds the pacing of a cycle.
type Config struct {
	AnticipationDelay time.Duration
	DefinitionDelay   time.Duration
	DecoyCount        int
}

func DefaultConfig() Config {
	return Config{
		AnticipationDelay: 2 * time.Second,
		DefinitionDelay:   2 * time.Second,
		DecoyCount:        15,
	}
}

// Snapshot is a copy of the orchestrator state safe to hand to renderers.
type Snapshot struct {
	Phase        Phase           `json:"phase"`
	Cycle        uint64          `json:"cycle"`
	Letter       string          `json:"letter,omitempty"`
	Language     domain.Language `json:"language,omitempty"`
	Word         string          `json:"word,omitempty"`
	PartOfSpeech string          `json:"partOfSpeech,omitempty"`
	Definition   string          `json:"definition,omitempty"`
	Decoys       []string        `json:"decoys"`
	Animating    bool            `json:"animating"`
}

// Orchestrator runs at most one loading cycle at a time.
type Orchestrator struct {
	log    *slog.Logger
	words  WordFetcher
	decoys DecoyFetcher
	stats  StatsRecorder
	clock  clockwork.Clock
	cfg    Config

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	phase       Phase
	cycle       uint64
	cancelCycle context.CancelFunc
	letter      domain.Letter
	lang        domain.Language
	record      domain.WordRecord
	batch       []string
	animating   bool
	closed      bool

	changed chan struct{}
}

func New(
	logger *slog.Logger,
	words WordFetcher,
	decoys DecoyFetcher,
	stats StatsRecorder,
	clock clockwork.Clock,
	cfg Config,
) *Orchestrator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if cfg.DecoyCount <= 0 {
		cfg.DecoyCount = DefaultConfig().DecoyCount
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		log:         logger.With("service", "reveal"),
		words:       words,
		decoys:      decoys,
		stats:       stats,
		clock:       clock,
		cfg:         cfg,
		ctx:         ctx,
		cancel:      cancel,
		cancelCycle: func() {},
		changed:     make(chan struct{}, 1),
	}
}

// Start begins a cycle for letter and lang. It returns false without side
// effects while a cycle is loading or after Close.
func (o *Orchestrator) Start(letter domain.Letter, lang domain.Language) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed || o.phase == PhaseLoading {
		return false
	}

	// A pending definition timer from the previous cycle must not fire.
	o.cancelCycle()
	ctx, cancel := context.WithCancel(o.ctx)
	o.cancelCycle = cancel

	o.cycle++
	o.phase = PhaseLoading
	o.letter = letter
	o.lang = lang
	o.record = domain.WordRecord{}
	o.batch = nil
	o.animating = true

	anticipation := o.clock.NewTimer(o.cfg.AnticipationDelay)
	o.notify()

	o.log.Debug("cycle started", slog.Uint64("cycle", o.cycle), slog.String("letter", letter.String()), slog.String("language", lang.String()))

	o.wg.Add(1)
	go o.run(ctx, o.cycle, letter, lang, anticipation)
	return true
}

func (o *Orchestrator) run(ctx context.Context, cycle uint64, letter domain.Letter, lang domain.Language, anticipation clockwork.Timer) {
	defer o.wg.Done()
	defer anticipation.Stop()

	rec, batch, err := o.fetch(ctx, letter, lang)
	if err != nil {
		o.log.Error("cycle failed", slog.Uint64("cycle", cycle), slog.String("error", err.Error()))
		o.fail(cycle)
		return
	}

	if !o.settle(cycle, batch) {
		return
	}

	select {
	case <-anticipation.Chan():
	case <-ctx.Done():
		o.fail(cycle)
		return
	}

	if !o.revealWord(cycle, rec) {
		return
	}

	// The definition delay does not wait on the stats write.
	definition := o.clock.NewTimer(o.cfg.DefinitionDelay)
	defer definition.Stop()

	o.wg.Add(1)
	go o.recordStats(rec.Word)

	select {
	case <-definition.Chan():
		o.revealDefinition(cycle)
	case <-ctx.Done():
	}
}

// recordStats persists one discovery. It is not tied to the cycle context, so a
// new cycle does not abort the write.
func (o *Orchestrator) recordStats(word string) {
	defer o.wg.Done()

	ctx, cancel := context.WithTimeout(o.ctx, statsWriteTimeout)
	defer cancel()

	if _, err := o.stats.Record(ctx, word); err != nil {
		o.log.Warn("stats not persisted", slog.String("word", word), slog.String("error", err.Error()))
	}

	o.mu.Lock()
	o.notify()
	o.mu.Unlock()
}

// fetch issues both requests concurrently and waits for both.
func (o *Orchestrator) fetch(ctx context.Context, letter domain.Letter, lang domain.Language) (domain.WordRecord, []string, error) {
	var (
		rec   domain.WordRecord
		batch []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(guard("word", func() {
		rec = o.words.FetchWord(gctx, letter, lang)
	}))
	g.Go(guard("decoys", func() {
		batch = o.decoys.FetchDecoys(gctx, letter, o.cfg.DecoyCount, lang)
	}))
	if err := g.Wait(); err != nil {
		return domain.WordRecord{}, nil, err
	}
	if err := ctx.Err(); err != nil {
		return domain.WordRecord{}, nil, err
	}
	return rec, batch, nil
}

func guard(name string, fn func()) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("reveal: fetch %s: panic: %v", name, r)
			}
		}()
		fn()
		return nil
	}
}

// settle publishes the decoy batch while the anticipation delay runs.
func (o *Orchestrator) settle(cycle uint64, batch []string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cycle != cycle || o.phase != PhaseLoading {
		return false
	}
	o.batch = batch
	o.notify()
	return true
}

func (o *Orchestrator) revealWord(cycle uint64, rec domain.WordRecord) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cycle != cycle || o.phase != PhaseLoading {
		return false
	}
	o.phase = PhaseRevealingWord
	o.record = rec
	o.animating = false
	o.notify()
	return true
}

func (o *Orchestrator) revealDefinition(cycle uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cycle != cycle || o.phase != PhaseRevealingWord {
		return
	}
	o.phase = PhaseRevealingDefinition
	o.notify()
}

func (o *Orchestrator) fail(cycle uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cycle != cycle {
		return
	}
	o.phase = PhaseIdle
	o.animating = false
	o.notify()
}

// notify signals Changed without blocking. The caller must hold o.mu.
func (o *Orchestrator) notify() {
	select {
	case o.changed <- struct{}{}:
	default:
	}
}

// Changed receives a value after one or more state changes. Readers should
// call Snapshot to see the new state.
func (o *Orchestrator) Changed() <-chan struct{} {
	return o.changed
}

func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := Snapshot{
		Phase:     o.phase,
		Cycle:     o.cycle,
		Decoys:    append([]string{}, o.batch...),
		Animating: o.animating,
	}
	if o.cycle > 0 {
		s.Letter = o.letter.String()
		s.Language = o.lang
	}
	if o.phase.WordVisible() {
		s.Word = o.record.Word
		s.PartOfSpeech = o.record.PartOfSpeech
	}
	if o.phase == PhaseRevealingDefinition {
		s.Definition = o.record.Definition
	}
	return s
}

// Close cancels in-flight work and waits for it to stop. Start returns
// false afterwards.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()

	o.cancel()
	o.wg.Wait()
}
