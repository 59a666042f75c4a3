package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/halfstats/ingestor/external/sofascore"
	"github.com/halfstats/ingestor/internal/domain/competition"
	"github.com/halfstats/ingestor/internal/domain/match"
	"github.com/halfstats/ingestor/internal/platform/logging"
)

// StatsProvider is the upstream read surface the ingestor consumes.
type StatsProvider interface {
	Rounds(ctx context.Context, tournamentID, seasonID int64) ([]int, error)
	EventsForRound(ctx context.Context, tournamentID, seasonID int64, round int) ([]match.Event, error)
	EventDetail(ctx context.Context, eventID int64) (match.Event, error)
	Statistics(ctx context.Context, eventID int64) ([]sofascore.StatEntry, error)
	Incidents(ctx context.Context, eventID int64) ([]match.Incident, error)
}

// RoundServiceConfig bounds the probing fallback.
type RoundServiceConfig struct {
	MaxProbeRound   int
	MissStreakLimit int
	ProbeDelay      time.Duration
}

func normalizeRoundServiceConfig(cfg RoundServiceConfig) RoundServiceConfig {
	if cfg.MaxProbeRound < 1 {
		cfg.MaxProbeRound = 60
	}
	if cfg.MissStreakLimit < 1 {
		cfg.MissStreakLimit = 6
	}
	return cfg
}

// RoundService discovers a season's rounds and selects each round's
// finished events in kickoff order.
type RoundService struct {
	provider StatsProvider
	logger   *logging.Logger
	cfg      RoundServiceConfig
}

func NewRoundService(provider StatsProvider, logger *logging.Logger, cfg RoundServiceConfig) *RoundService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RoundService{provider: provider, logger: logger, cfg: normalizeRoundServiceConfig(cfg)}
}

// DiscoverRounds returns the season's round numbers in ascending order.
// The provider's round listing is authoritative; when it is absent or
// empty the service probes rounds sequentially, stopping after a run of
// consecutive empty rounds once at least one round was found.
func (s *RoundService) DiscoverRounds(ctx context.Context, comp competition.Competition) ([]int, error) {
	ctx, span := startUsecaseSpan(ctx, "RoundService.DiscoverRounds")
	defer span.End()

	listed, err := s.provider.Rounds(ctx, comp.TournamentID, comp.SeasonID)
	if err != nil {
		s.logger.WarnContext(ctx, "round listing unavailable, falling back to probing",
			"league", comp.Name, "error", err)
	}
	if len(listed) > 0 {
		return listed, nil
	}

	var found []int
	misses := 0
	for round := 1; round <= s.cfg.MaxProbeRound; round++ {
		events, err := s.provider.EventsForRound(ctx, comp.TournamentID, comp.SeasonID, round)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return found, ctxErr
			}
			events = nil
		}
		if len(events) > 0 {
			found = append(found, round)
			misses = 0
		} else {
			misses++
			// Postponed rounds leave gaps, so a miss streak only
			// terminates probing after something was found.
			if misses >= s.cfg.MissStreakLimit && len(found) > 0 {
				break
			}
		}
		if err := pause(ctx, s.cfg.ProbeDelay); err != nil {
			return found, err
		}
	}
	return found, nil
}

// SelectEvents returns the round's finished events sorted ascending by
// kickoff.
func (s *RoundService) SelectEvents(ctx context.Context, comp competition.Competition, round int) ([]match.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "RoundService.SelectEvents")
	defer span.End()

	events, err := s.provider.EventsForRound(ctx, comp.TournamentID, comp.SeasonID, round)
	if err != nil {
		return nil, err
	}

	finished := make([]match.Event, 0, len(events))
	for _, event := range events {
		if match.IsFinishedStatus(event.Status) {
			finished = append(finished, event)
		}
	}
	sort.SliceStable(finished, func(i, j int) bool {
		return finished[i].Kickoff.Before(finished[j].Kickoff)
	})
	return finished, nil
}

// pause sleeps for the pacing delay unless the context ends first.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
