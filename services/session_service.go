package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Dosada05/versusite/brackets"
	"github.com/Dosada05/versusite/catalog"
	"github.com/Dosada05/versusite/models"
	"github.com/Dosada05/versusite/realtime"
)

// Notifier receives every accepted snapshot change. *realtime.Hub implements it.
type Notifier interface {
	BroadcastToRoom(roomID string, msg realtime.Message)
}

type SessionService interface {
	Start(ctx context.Context, input StartTournamentInput) (*StartedSession, error)
	Get(ctx context.Context, tournamentID string) (models.Tournament, error)
	NextMatch(ctx context.Context, tournamentID string) (*models.Match, error)
	ResolveMatch(ctx context.Context, input ResolveMatchInput) (models.Tournament, error)
	Rankings(ctx context.Context, tournamentID string) ([]models.Standing, error)
	ExpireIdle(now time.Time) int
	RunJanitor(ctx context.Context, interval time.Duration) error
}

// StartTournamentInput starts from explicit items, or from a saved catalog
// when CatalogID is set. A blank title falls back to the catalog's title and
// then to the default title.
type StartTournamentInput struct {
	Title     string        `json:"title"`
	Items     []models.Item `json:"items"`
	CatalogID string        `json:"catalog_id"`
}

type ResolveMatchInput struct {
	Token        string
	TournamentID string
	MatchID      string
	WinnerID     string
}

// StartedSession is the initial snapshot plus the writer token for it.
type StartedSession struct {
	Tournament models.Tournament `json:"tournament"`
	Token      string            `json:"token"`
}

// session serialises writes to one tournament; different tournaments never
// share a lock.
type session struct {
	mu         sync.Mutex
	tournament models.Tournament
	lastActive time.Time
}

type sessionService struct {
	generator *brackets.SingleEliminationGenerator
	catalogs  CatalogService
	tokens    *SessionTokens
	notifier  Notifier
	ids       brackets.IDGenerator
	ttl       time.Duration
	logger    *slog.Logger
	now       func() time.Time
	mu        sync.RWMutex
	sessions  map[string]*session
}

func NewSessionService(
	generator *brackets.SingleEliminationGenerator,
	catalogs CatalogService,
	tokens *SessionTokens,
	notifier Notifier,
	ttl time.Duration,
	logger *slog.Logger,
) SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &sessionService{
		generator: generator,
		catalogs:  catalogs,
		tokens:    tokens,
		notifier:  notifier,
		ids:       brackets.UUIDGenerator{},
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
		sessions:  make(map[string]*session),
	}
}

func (s *sessionService) Start(ctx context.Context, input StartTournamentInput) (*StartedSession, error) {
	title := strings.TrimSpace(input.Title)
	items := input.Items

	if input.CatalogID != "" {
		if len(items) > 0 {
			return nil, fmt.Errorf("%w: provide either items or catalog_id, not both", ErrValidationFailed)
		}
		if s.catalogs == nil {
			return nil, fmt.Errorf("%w: catalogs are not available", ErrValidationFailed)
		}
		c, err := s.catalogs.GetCatalog(ctx, input.CatalogID)
		if err != nil {
			return nil, err
		}
		items = c.Items
		if title == "" {
			title = c.Title
		}
	}

	items, err := catalog.Normalize(s.ids, items)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	tournament, err := s.generator.CreateTournament(catalog.TitleOrDefault(title), items)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(tournament.ID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[tournament.ID] = &session{tournament: tournament, lastActive: s.now()}
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "tournament started",
		slog.String("tournament_id", tournament.ID),
		slog.Int("items", len(tournament.Items)),
		slog.Int("first_round_matches", len(tournament.Rounds[0])),
	)
	return &StartedSession{Tournament: tournament, Token: token}, nil
}

func (s *sessionService) Get(ctx context.Context, tournamentID string) (models.Tournament, error) {
	sess, err := s.lookup(tournamentID)
	if err != nil {
		return models.Tournament{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastActive = s.now()
	return sess.tournament, nil
}

// NextMatch returns nil without error once the tournament is completed.
func (s *sessionService) NextMatch(ctx context.Context, tournamentID string) (*models.Match, error) {
	t, err := s.Get(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return brackets.NextMatch(&t), nil
}

func (s *sessionService) Rankings(ctx context.Context, tournamentID string) ([]models.Standing, error) {
	t, err := s.Get(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return brackets.Rankings(t), nil
}

func (s *sessionService) ResolveMatch(ctx context.Context, input ResolveMatchInput) (models.Tournament, error) {
	if err := s.tokens.Verify(input.Token, input.TournamentID); err != nil {
		return models.Tournament{}, err
	}
	sess, err := s.lookup(input.TournamentID)
	if err != nil {
		return models.Tournament{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	prev := sess.tournament
	next, err := s.generator.ResolveMatch(prev, input.MatchID, models.Item{ID: input.WinnerID})
	if err != nil {
		return models.Tournament{}, err
	}
	sess.tournament = next
	sess.lastActive = s.now()

	msgType := realtime.MessageMatchResolved
	switch {
	case next.Completed:
		msgType = realtime.MessageTournamentCompleted
	case next.CurrentRoundIndex > prev.CurrentRoundIndex:
		msgType = realtime.MessageRoundAdvanced
	}

	// рассылка под блокировкой сессии сохраняет порядок снимков
	if s.notifier != nil {
		s.notifier.BroadcastToRoom(realtime.RoomForTournament(next.ID), realtime.Message{Type: msgType, Payload: next})
	}

	s.logger.InfoContext(ctx, "match resolved",
		slog.String("tournament_id", next.ID),
		slog.String("match_id", input.MatchID),
		slog.String("winner_id", input.WinnerID),
		slog.String("event", msgType),
	)
	return next, nil
}

// ExpireIdle drops sessions untouched for longer than the TTL and reports how many went.
func (s *sessionService) ExpireIdle(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	expired := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := now.Sub(sess.lastActive) > s.ttl
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			expired++
		}
	}
	return expired
}

func (s *sessionService) RunJanitor(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	s.logger.Info("session janitor started", slog.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.ExpireIdle(s.now()); n > 0 {
				s.logger.Info("expired idle tournament sessions", slog.Int("count", n))
			}
		}
	}
}

func (s *sessionService) lookup(tournamentID string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[tournamentID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTournamentNotFound, tournamentID)
	}
	return sess, nil
}
