package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/Dosada05/bracket-engine/brackets"
	"github.com/Dosada05/bracket-engine/rating"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type ParticipantInput struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Rating *float64 `json:"rating,omitempty"`
}

type CreateBracketInput struct {
	Name         string             `json:"name"`
	Participants []ParticipantInput `json:"participants"`
	SeedByRating bool               `json:"seed_by_rating"`
	SupportDraws bool               `json:"support_draws"`
	Meta         brackets.Meta      `json:"meta,omitempty"`
}

type ReportResultInput struct {
	BracketID string          `json:"bracket_id"`
	MatchID   int             `json:"match_id"`
	P1Score   float64         `json:"p1_score"`
	P2Score   float64         `json:"p2_score"`
	Winner    brackets.Winner `json:"winner"`
}

// BracketService keeps brackets in memory and serialises every operation on
// a single bracket. Operations on different brackets run in parallel.
type BracketService interface {
	Create(ctx context.Context, input CreateBracketInput) (*BracketView, error)
	Get(ctx context.Context, bracketID string) (*BracketView, error)
	List(ctx context.Context) []string
	ReportResult(ctx context.Context, input ReportResultInput) (*MatchView, error)
	ReportResults(ctx context.Context, inputs []ReportResultInput) error
	UndoResult(ctx context.Context, bracketID string, matchID int) (*MatchView, error)
	Finalize(ctx context.Context, bracketID string) (*BracketView, error)
	Render(ctx context.Context, bracketID string, w io.Writer) error
	Delete(ctx context.Context, bracketID string) error
}

type bracketEntry struct {
	mu      sync.Mutex
	name    string
	bracket *brackets.Bracket
}

type bracketService struct {
	mu       sync.RWMutex
	brackets map[string]*bracketEntry
	hub      *brackets.Hub
	elo      *rating.Elo
	logger   *slog.Logger
}

func NewBracketService(hub *brackets.Hub, elo *rating.Elo, logger *slog.Logger) BracketService {
	if logger == nil {
		logger = slog.Default()
	}
	return &bracketService{
		brackets: make(map[string]*bracketEntry),
		hub:      hub,
		elo:      elo,
		logger:   logger,
	}
}

// Create builds, seeds and starts a single-elimination bracket.
func (s *bracketService) Create(ctx context.Context, input CreateBracketInput) (*BracketView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	participants, err := buildParticipants(input.Participants)
	if err != nil {
		return nil, err
	}

	b, err := brackets.New(brackets.Options{
		ID:           uuid.NewString(),
		Type:         brackets.TypeElimination,
		SupportDraws: input.SupportDraws,
		Meta:         input.Meta,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bracket: %w", err)
	}
	b.AddParticipants(participants...)
	if input.SeedByRating {
		b.SortParticipants(rating.ByRating)
	}
	if err := b.CreateMatches(); err != nil {
		return nil, fmt.Errorf("failed to create matches for %d participants: %w", len(participants), err)
	}
	b.SeedParticipants()
	if err := b.SeedMatches(); err != nil {
		return nil, fmt.Errorf("failed to seed matches: %w", err)
	}
	b.Start()

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = "Bracket " + b.ID[:8]
	}
	entry := &bracketEntry{name: name, bracket: b}

	s.mu.Lock()
	s.brackets[b.ID] = entry
	s.mu.Unlock()

	view := toBracketView(name, b)
	s.logger.InfoContext(ctx, "bracket created",
		slog.String("bracket_id", b.ID),
		slog.Int("participants", len(participants)),
		slog.Int("matches", len(view.Matches)),
		slog.Bool("seed_by_rating", input.SeedByRating))
	s.publish(b.ID, brackets.EventBracketCreated, view)
	s.publish(b.ID, brackets.EventBracketStarted, view)
	return view, nil
}

func buildParticipants(inputs []ParticipantInput) ([]*brackets.Participant, error) {
	if len(inputs) < 2 {
		return nil, fmt.Errorf("%w: found %d", ErrNotEnoughParticipants, len(inputs))
	}
	seen := make(map[string]bool, len(inputs))
	out := make([]*brackets.Participant, 0, len(inputs))
	for i, in := range inputs {
		id := strings.TrimSpace(in.ID)
		if id == "" {
			return nil, fmt.Errorf("%w: participant %d has no id", ErrValidationFailed, i+1)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateParticipant, id)
		}
		seen[id] = true

		name := strings.TrimSpace(in.Name)
		if name == "" {
			name = id
		}
		p := brackets.NewParticipant(id, name)
		if in.Rating != nil {
			p.SetMetaByKey(rating.MetaKey, *in.Rating)
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *bracketService) entry(ctx context.Context, bracketID string) (*bracketEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	e, ok := s.brackets[bracketID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBracketNotFound, bracketID)
	}
	return e, nil
}

func (s *bracketService) Get(ctx context.Context, bracketID string) (*BracketView, error) {
	e, err := s.entry(ctx, bracketID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return toBracketView(e.name, e.bracket), nil
}

func (s *bracketService) List(ctx context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.brackets))
	for id := range s.brackets {
		ids = append(ids, id)
	}
	return ids
}

// ReportResult records scores and the winner of one match, moving the winner
// into the next match.
func (s *bracketService) ReportResult(ctx context.Context, input ReportResultInput) (*MatchView, error) {
	e, err := s.entry(ctx, input.BracketID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	b := e.bracket
	if b.State() != brackets.StateInProgress {
		return nil, fmt.Errorf("%w: bracket %s is %s", ErrBracketNotInProgress, b.ID, b.State())
	}
	m, ok := b.Match(input.MatchID)
	if !ok {
		return nil, fmt.Errorf("%w: match %d in bracket %s", ErrMatchNotFound, input.MatchID, b.ID)
	}
	if input.Winner != brackets.Undecided && !m.Decided() && !m.Ready() {
		return nil, fmt.Errorf("%w: match %d", brackets.ErrMatchNotReady, m.ID())
	}
	switch {
	case input.Winner == brackets.WinnerP1 && m.P1() == nil,
		input.Winner == brackets.WinnerP2 && m.P2() == nil:
		return nil, fmt.Errorf("%w: match %d, %s", ErrEmptySlot, m.ID(), input.Winner)
	}

	wasDecided := m.Decided()
	if err := m.UpdateWinner(input.Winner); err != nil {
		return nil, fmt.Errorf("failed to update winner of match %d: %w", m.ID(), err)
	}
	m.UpdateScore(input.P1Score, input.P2Score)

	if s.elo != nil && !wasDecided && m.Decided() {
		if err := s.elo.ApplyResult(m); err != nil {
			s.logger.WarnContext(ctx, "failed to update ratings",
				slog.String("bracket_id", b.ID), slog.Int("match_id", m.ID()), slog.Any("error", err))
		}
	}

	view := toMatchView(m)
	s.logger.InfoContext(ctx, "match result reported",
		slog.String("bracket_id", b.ID),
		slog.Int("match_id", m.ID()),
		slog.String("winner", m.Winner().String()))
	s.publish(b.ID, brackets.EventMatchUpdated, view)

	if champion := b.Champion(); champion != nil && m == b.Final() {
		s.logger.InfoContext(ctx, "bracket champion decided",
			slog.String("bracket_id", b.ID), slog.String("participant_id", champion.ID))
	}
	return &view, nil
}

// ReportResults applies a batch of results. Results for the same bracket are
// applied in the order given; different brackets are processed concurrently.
func (s *bracketService) ReportResults(ctx context.Context, inputs []ReportResultInput) error {
	byBracket := make(map[string][]ReportResultInput)
	var order []string
	for _, in := range inputs {
		if _, ok := byBracket[in.BracketID]; !ok {
			order = append(order, in.BracketID)
		}
		byBracket[in.BracketID] = append(byBracket[in.BracketID], in)
	}

	g, gCtx := errgroup.WithContext(ctx)
	for _, id := range order {
		batch := byBracket[id]
		g.Go(func() error {
			for _, in := range batch {
				if _, err := s.ReportResult(gCtx, in); err != nil {
					return fmt.Errorf("bracket %s, match %d: %w", in.BracketID, in.MatchID, err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "batch result reporting failed", slog.Any("error", err))
		return err
	}
	return nil
}

func (s *bracketService) UndoResult(ctx context.Context, bracketID string, matchID int) (*MatchView, error) {
	e, err := s.entry(ctx, bracketID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	b := e.bracket
	if b.State() != brackets.StateInProgress {
		return nil, fmt.Errorf("%w: bracket %s is %s", ErrBracketNotInProgress, b.ID, b.State())
	}
	m, ok := b.Match(matchID)
	if !ok {
		return nil, fmt.Errorf("%w: match %d in bracket %s", ErrMatchNotFound, matchID, b.ID)
	}
	if m.IsBye() {
		return nil, fmt.Errorf("%w: match %d is a bye", ErrValidationFailed, matchID)
	}
	if err := m.Undo(); err != nil {
		return nil, fmt.Errorf("failed to undo match %d: %w", matchID, err)
	}
	m.UpdateScore(0, 0)
	if s.elo != nil {
		s.elo.RevertResult(m)
	}

	view := toMatchView(m)
	s.logger.InfoContext(ctx, "match result undone",
		slog.String("bracket_id", b.ID), slog.Int("match_id", matchID))
	s.publish(b.ID, brackets.EventMatchUpdated, view)
	return &view, nil
}

func (s *bracketService) Finalize(ctx context.Context, bracketID string) (*BracketView, error) {
	e, err := s.entry(ctx, bracketID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.bracket.State() == brackets.StateFinal {
		return nil, fmt.Errorf("%w: %s", ErrBracketAlreadyFinalized, bracketID)
	}
	e.bracket.Finalize()

	view := toBracketView(e.name, e.bracket)
	attrs := []any{slog.String("bracket_id", bracketID)}
	if view.Champion != nil {
		attrs = append(attrs, slog.String("champion", view.Champion.ID))
	}
	s.logger.InfoContext(ctx, "bracket finalized", attrs...)
	s.publish(bracketID, brackets.EventBracketFinalized, view)
	return view, nil
}

func (s *bracketService) Render(ctx context.Context, bracketID string, w io.Writer) error {
	e, err := s.entry(ctx, bracketID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.bracket.Visualize(w); err != nil {
		if errors.Is(err, brackets.ErrTooLargeToVisualize) {
			s.logger.WarnContext(ctx, "bracket too large to render", slog.String("bracket_id", bracketID))
		}
		return err
	}
	return nil
}

func (s *bracketService) Delete(ctx context.Context, bracketID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	_, ok := s.brackets[bracketID]
	delete(s.brackets, bracketID)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrBracketNotFound, bracketID)
	}
	s.logger.InfoContext(ctx, "bracket deleted", slog.String("bracket_id", bracketID))
	s.publish(bracketID, brackets.EventBracketDeleted, nil)
	return nil
}

func (s *bracketService) publish(bracketID string, t brackets.EventType, payload any) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(bracketID, brackets.Event{Type: t, Payload: payload})
}
