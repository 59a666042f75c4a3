package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/halfstats/ingestor/internal/domain/competition"
	"github.com/halfstats/ingestor/internal/domain/sheet"
	"github.com/halfstats/ingestor/internal/domain/syncindex"
	"github.com/halfstats/ingestor/internal/platform/logging"
)

// Mode selects how a run treats previously ingested data.
type Mode string

const (
	// ModeFromScratch resets the league's sheet and index before
	// ingesting everything again.
	ModeFromScratch Mode = "from-scratch"
	// ModeUpdate consults the sync index and skips known events.
	ModeUpdate Mode = "update"
)

func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.TrimSpace(strings.ToLower(raw))) {
	case ModeFromScratch:
		return ModeFromScratch, nil
	case ModeUpdate:
		return ModeUpdate, nil
	default:
		return "", crerr.Wrapf(ErrInvalidInput, "mode %q, expected %q or %q", raw, ModeFromScratch, ModeUpdate)
	}
}

// IngestConfig tunes pacing and season labelling for a run.
type IngestConfig struct {
	AppendDelay     time.Duration
	SeasonStartYear int
	Location        *time.Location
}

func normalizeIngestConfig(cfg IngestConfig) IngestConfig {
	if cfg.SeasonStartYear <= 0 {
		cfg.SeasonStartYear = competition.DefaultSeasonStartYear
	}
	return cfg
}

// Summary reports what a run did.
type Summary struct {
	League          string
	Mode            Mode
	Rounds          int
	EventsIngested  int
	EventsSkipped   int
	HeaderRewritten bool
}

// IngestService drives a full ingestion run: discover rounds, select
// finished events, fetch each event's detail, statistics and incidents,
// normalize, build the two half rows, append them and record the sync
// index entry. Everything runs strictly sequentially; per-event
// failures degrade to a skip and never abort the run.
type IngestService struct {
	provider   StatsProvider
	sheets     sheet.Repository
	index      syncindex.Repository
	registry   *competition.Registry
	rounds     *RoundService
	normalizer *StatNormalizer
	builder    *RowBuilder
	logger     *logging.Logger
	cfg        IngestConfig
}

func NewIngestService(
	provider StatsProvider,
	sheets sheet.Repository,
	index syncindex.Repository,
	registry *competition.Registry,
	rounds *RoundService,
	normalizer *StatNormalizer,
	builder *RowBuilder,
	logger *logging.Logger,
	cfg IngestConfig,
) *IngestService {
	if logger == nil {
		logger = logging.Default()
	}
	if registry == nil {
		registry = competition.DefaultRegistry()
	}
	if normalizer == nil {
		normalizer = NewStatNormalizer(DefaultAliasTable())
	}
	if builder == nil {
		builder = NewRowBuilder(nil)
	}
	return &IngestService{
		provider:   provider,
		sheets:     sheets,
		index:      index,
		registry:   registry,
		rounds:     rounds,
		normalizer: normalizer,
		builder:    builder,
		logger:     logger,
		cfg:        normalizeIngestConfig(cfg),
	}
}

func (s *IngestService) Run(ctx context.Context, league string, mode Mode) (Summary, error) {
	ctx, span := startUsecaseSpan(ctx, "IngestService.Run")
	defer span.End()

	summary := Summary{League: league, Mode: mode}

	comp, ok := s.registry.Get(league)
	if !ok {
		return summary, crerr.Wrapf(ErrUnknownLeague, "%q", league)
	}

	if mode == ModeFromScratch {
		if err := s.sheets.Reset(ctx, comp.Name); err != nil {
			return summary, fmt.Errorf("%w: reset sheet for %s: %w", ErrDependencyUnavailable, comp.Name, err)
		}
		if err := s.index.Reset(ctx, comp.Name); err != nil {
			return summary, fmt.Errorf("%w: reset sync index for %s: %w", ErrDependencyUnavailable, comp.Name, err)
		}
	}

	rewritten, err := s.sheets.EnsureHeader(ctx, comp.Name)
	if err != nil {
		return summary, fmt.Errorf("%w: ensure header for %s: %w", ErrDependencyUnavailable, comp.Name, err)
	}
	summary.HeaderRewritten = rewritten
	if rewritten {
		s.logger.WarnContext(ctx, "output header drifted and was rewritten", "league", comp.Name)
	}

	known := map[int64]struct{}{}
	if mode == ModeUpdate {
		known, err = s.index.LoadEventIDs(ctx, comp.Name)
		if err != nil {
			return summary, fmt.Errorf("%w: load sync index for %s: %w", ErrDependencyUnavailable, comp.Name, err)
		}
	}

	rounds, err := s.rounds.DiscoverRounds(ctx, comp)
	if err != nil {
		return summary, fmt.Errorf("%w: discover rounds for %s: %w", ErrDependencyUnavailable, comp.Name, err)
	}
	season := competition.SeasonLabel(comp.Name, s.cfg.SeasonStartYear)

	for _, round := range rounds {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		events, err := s.rounds.SelectEvents(ctx, comp, round)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping round, events unavailable",
				"league", comp.Name, "round", round, "error", err)
			continue
		}
		summary.Rounds++

		if err := s.ensureSection(ctx, comp.Name, round); err != nil {
			return summary, err
		}

		for _, event := range events {
			if _, done := known[event.ID]; mode == ModeUpdate && done {
				summary.EventsSkipped++
				continue
			}

			ingested, err := s.ingestEvent(ctx, comp.Name, season, round, event.ID)
			if err != nil {
				return summary, err
			}
			if !ingested {
				summary.EventsSkipped++
				continue
			}
			summary.EventsIngested++

			if err := pause(ctx, s.cfg.AppendDelay); err != nil {
				return summary, err
			}
		}
	}

	s.logger.InfoContext(ctx, "ingestion run finished",
		"league", comp.Name,
		"mode", string(mode),
		"rounds", summary.Rounds,
		"ingested", summary.EventsIngested,
		"skipped", summary.EventsSkipped,
	)
	return summary, nil
}

// ensureSection appends the round title line once per league.
func (s *IngestService) ensureSection(ctx context.Context, league string, round int) error {
	title := fmt.Sprintf("Round %d", round)
	has, err := s.sheets.HasSection(ctx, league, title)
	if err != nil {
		return fmt.Errorf("%w: check section %q for %s: %w", ErrDependencyUnavailable, title, league, err)
	}
	if has {
		return nil
	}
	if _, err := s.sheets.AppendRows(ctx, []sheet.Row{sheet.SectionRow(league, title)}); err != nil {
		return fmt.Errorf("%w: append section %q for %s: %w", ErrDependencyUnavailable, title, league, err)
	}
	return nil
}

// ingestEvent fetches, normalizes and appends one match. It reports
// false when the match was skipped; only context and store failures
// propagate as errors.
func (s *IngestService) ingestEvent(ctx context.Context, league, season string, round int, eventID int64) (bool, error) {
	detail, err := s.provider.EventDetail(ctx, eventID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		s.logger.WarnContext(ctx, "skipping match, detail unavailable",
			"league", league, "event_id", eventID, "error", err)
		return false, nil
	}

	entries, err := s.provider.Statistics(ctx, eventID)
	if err != nil {
		s.logger.WarnContext(ctx, "statistics unavailable, continuing without",
			"league", league, "event_id", eventID, "error", err)
		entries = nil
	}
	incidents, err := s.provider.Incidents(ctx, eventID)
	if err != nil {
		s.logger.WarnContext(ctx, "incidents unavailable, continuing without",
			"league", league, "event_id", eventID, "error", err)
		incidents = nil
	}

	normalized := s.normalizer.Normalize(entries, incidents)
	goals := AggregateGoals(incidents)
	rows := s.builder.BuildRows(league, season, detail, normalized, goals)

	rowStart, err := s.sheets.AppendRows(ctx, rows)
	if err != nil {
		return false, fmt.Errorf("%w: append rows for event %d: %w", ErrDependencyUnavailable, eventID, err)
	}

	// The index entry lands after the append. A crash inside this
	// window duplicates the match on the next run, an accepted
	// at-least-once trade-off.
	entry := syncindex.Entry{League: league, EventID: eventID, Round: round, RowStart: rowStart}
	if err := s.index.Record(ctx, entry); err != nil {
		return false, fmt.Errorf("%w: record sync index entry for event %d: %w", ErrDependencyUnavailable, eventID, err)
	}

	s.logger.DebugContext(ctx, "match ingested",
		"league", league, "event_id", eventID, "round", round, "row_start", rowStart)
	return true, nil
}
