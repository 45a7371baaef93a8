// Package briefing runs the end-to-end pipeline: fetch records, rank them,
// compress, render sections, assemble under the token budget, persist the
// result, and fan out notifications.
package briefing

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yourusername/briefd/internal/assemble"
	"github.com/yourusername/briefd/internal/compress"
	"github.com/yourusername/briefd/internal/config"
	"github.com/yourusername/briefd/internal/db"
	"github.com/yourusername/briefd/internal/render"
	"github.com/yourusername/briefd/internal/score"
	"github.com/yourusername/briefd/internal/tokenizer"
	"github.com/yourusername/briefd/internal/tracker"
	"github.com/yourusername/briefd/internal/webhook"
)

// Fetcher is the tracker surface the service needs. *tracker.Client
// satisfies it; tests substitute a stub.
type Fetcher interface {
	FetchTickets(ctx context.Context) ([]tracker.Ticket, error)
	FetchPullRequests(ctx context.Context) ([]tracker.PullRequest, error)
	FetchProjects(ctx context.Context) ([]tracker.Project, error)
}

// Notifier receives run lifecycle events. *notify.Dispatcher satisfies it.
type Notifier interface {
	Send(event string, payload interface{})
	SendTelegram(msg string)
}

// EventSink receives live run events. *ws.Hub satisfies it via a thin
// adapter in main.
type EventSink interface {
	RunStarted(runID string)
	RunCompleted(runID string, evicted []string)
	SectionEvicted(runID, section string)
	Overflow(runID, section string, shortfall int)
	RunFailed(reason string)
}

// Narrator produces the optional recommendation narrative.
// *advisor.Client satisfies it; nil disables narration.
type Narrator interface {
	Narrate(ctx context.Context, document string) (string, error)
}

// Service generates briefings.
type Service struct {
	database *db.DB
	fetcher  Fetcher
	profile  *config.Profile
	capacity int
	keep     int
	notifier Notifier
	events   EventSink
	narrator Narrator
	count    assemble.CountFunc
	now      func() time.Time
}

// Options configures optional collaborators of a Service.
type Options struct {
	Notifier Notifier
	Events   EventSink
	Narrator Narrator
	Count    assemble.CountFunc // defaults to tokenizer.EstimateTokens
	Now      func() time.Time   // defaults to time.Now
}

// NewService creates a Service. fetcher must be non-nil; everything in
// opts may be zero.
func NewService(database *db.DB, fetcher Fetcher, cfg *config.Config, profile *config.Profile, opts Options) *Service {
	capacity := cfg.BriefingCapacity
	if profile.Capacity > 0 {
		capacity = profile.Capacity
	}
	s := &Service{
		database: database,
		fetcher:  fetcher,
		profile:  profile,
		capacity: capacity,
		keep:     cfg.HistoryKeep,
		notifier: opts.Notifier,
		events:   opts.Events,
		narrator: opts.Narrator,
		count:    opts.Count,
		now:      opts.Now,
	}
	if s.count == nil {
		s.count = tokenizer.EstimateTokens
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Run generates one briefing and stores it. Satisfies the scheduler's and
// Telegram handler's BriefingRunner interface.
func (s *Service) Run(ctx context.Context) (*db.Briefing, error) {
	now := s.now()
	part := score.Classify(now)

	tickets, err := s.fetcher.FetchTickets(ctx)
	if err != nil {
		return nil, s.fail(err)
	}
	prs, err := s.fetcher.FetchPullRequests(ctx)
	if err != nil {
		return nil, s.fail(err)
	}
	projects, err := s.fetcher.FetchProjects(ctx)
	if err != nil {
		return nil, s.fail(err)
	}

	boosts, err := s.loadBoosts(ctx)
	if err != nil {
		log.Printf("briefing: load pins: %v (continuing without overrides)", err)
	}

	tickets = score.RankTickets(tickets, boosts, now)
	prs = score.RankPullRequests(prs, boosts)
	projects = score.RankProjects(projects)

	sections := s.buildSections(tickets, prs, projects, part)
	res := assemble.Run(sections, s.capacity, s.count)

	if s.events != nil {
		s.events.RunStarted(res.RunID)
		for _, name := range res.Evicted {
			s.events.SectionEvicted(res.RunID, name)
		}
	}

	b := &db.Briefing{
		ID:              res.RunID,
		DayPart:         part.String(),
		Document:        res.Document,
		TokensUsed:      res.Stats.Used,
		TokensRemaining: res.Stats.Remaining,
		SectionsKept:    res.Stats.Sections,
		Evicted:         strings.Join(res.Evicted, ","),
	}

	if s.narrator != nil && res.Document != "" {
		narrative, err := s.narrator.Narrate(ctx, res.Document)
		if err != nil {
			log.Printf("briefing: narrative: %v (storing briefing without one)", err)
		} else {
			b.Narrative = narrative
		}
	}

	if err := s.database.SaveBriefing(ctx, b, s.keep); err != nil {
		return nil, s.fail(err)
	}

	if s.events != nil {
		s.events.RunCompleted(res.RunID, res.Evicted)
	}
	if s.notifier != nil {
		s.notifier.Send(webhook.EventBriefingGenerated, map[string]interface{}{
			"run_id":        b.ID,
			"day_part":      b.DayPart,
			"tokens_used":   b.TokensUsed,
			"sections_kept": b.SectionsKept,
			"evicted":       res.Evicted,
		})
		if len(res.Evicted) > 0 {
			s.notifier.Send(webhook.EventSectionEvicted, map[string]interface{}{
				"run_id":   b.ID,
				"sections": res.Evicted,
			})
		}
	}
	for _, oe := range res.Skipped {
		log.Printf("briefing: section %q skipped (short %d tokens)", oe.Section, oe.Shortfall)
		if s.events != nil {
			s.events.Overflow(res.RunID, oe.Section, oe.Shortfall)
		}
		if s.notifier != nil {
			s.notifier.SendTelegram(fmt.Sprintf(
				"⚠️ Briefing overflow: section %q (%d tokens) is still %d tokens short after eviction. It was skipped.",
				oe.Section, oe.Requested, oe.Shortfall))
		}
	}
	return b, nil
}

// fail wraps a run error and reports it to webhook subscribers and
// connected clients.
func (s *Service) fail(err error) error {
	wrapped := fmt.Errorf("briefing.Run: %w", err)
	if s.events != nil {
		s.events.RunFailed(wrapped.Error())
	}
	if s.notifier != nil {
		s.notifier.Send(webhook.EventBriefingFailed, map[string]interface{}{
			"error": wrapped.Error(),
		})
	}
	return wrapped
}

// buildSections renders each configured section with its day-part priority.
func (s *Service) buildSections(tickets []tracker.Ticket, prs []tracker.PullRequest, projects []tracker.Project, part score.DayPart) []assemble.Section {
	defaults := score.SectionPriorities(part)

	var sections []assemble.Section
	for _, spec := range s.profile.Sections {
		var content string
		switch spec.Name {
		case "tickets":
			content = render.Tickets(compress.CompressTickets(tickets), spec.MaxItems)
		case "pull_requests":
			content = render.PullRequests(compress.CompressPullRequests(prs), spec.MaxItems)
		case "projects":
			content = render.Projects(compress.CompressProjects(projects), spec.MaxItems)
		default:
			log.Printf("briefing: unknown section %q in profile, skipping", spec.Name)
			continue
		}
		sections = append(sections, assemble.Section{
			Name:     spec.Name,
			Priority: s.profile.SectionPriority(spec.Name, defaults),
			Content:  content,
		})
	}
	return sections
}

func (s *Service) loadBoosts(ctx context.Context) ([]score.Boost, error) {
	pins, err := s.database.ListPins(ctx)
	if err != nil {
		return nil, err
	}
	boosts := make([]score.Boost, 0, len(pins))
	for _, p := range pins {
		boosts = append(boosts, score.Boost{
			Kind:   p.ItemKind,
			ID:     p.ItemID,
			Delta:  p.Boost,
			Pinned: p.Pinned,
		})
	}
	return boosts, nil
}
