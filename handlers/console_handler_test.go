package handlers

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/Dosada05/bracket-engine/brackets"
	"github.com/Dosada05/bracket-engine/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConsole(t *testing.T) (*ConsoleHandler, *strings.Builder) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := services.NewBracketService(nil, nil, logger)
	view, err := svc.Create(context.Background(), services.CreateBracketInput{
		Name: "Cup",
		Participants: []services.ParticipantInput{
			{ID: "alice", Name: "Alice"},
			{ID: "bob", Name: "Bob"},
			{ID: "carol", Name: "Carol"},
			{ID: "dave", Name: "Dave"},
		},
	})
	require.NoError(t, err)

	out := &strings.Builder{}
	h, err := NewConsoleHandler(svc, view.ID, out, logger)
	require.NoError(t, err)
	return h, out
}

func handle(t *testing.T, h *ConsoleHandler, line string) {
	t.Helper()
	quit, err := h.Handle(context.Background(), line)
	require.NoError(t, err, line)
	assert.False(t, quit, line)
}

func TestConsolePlaysBracket(t *testing.T) {
	h, out := newTestConsole(t)

	handle(t, h, "win 1 p1")
	assert.Contains(t, out.String(), "M1 (round 1): Alice vs Dave, winner p1")

	handle(t, h, `win M2 "crl"`)
	assert.Contains(t, out.String(), "M2 (round 1): Bob vs Carol, winner p2")

	handle(t, h, "score 3 2 1")
	assert.Contains(t, out.String(), "M3 (round 2): Alice vs Carol, winner p1, score 2-1")

	handle(t, h, "undo 3")
	assert.Contains(t, out.String(), "M3 (round 2): Alice vs Carol\n")

	handle(t, h, "win 3 Carol")
	out.Reset()
	handle(t, h, "status")
	assert.Contains(t, out.String(), "Cup [in_progress]")
	assert.Contains(t, out.String(), "champion: Carol")

	out.Reset()
	handle(t, h, "finalize")
	assert.Equal(t, "Cup finalized, champion: Carol\n", out.String())
}

func TestConsoleErrors(t *testing.T) {
	h, _ := newTestConsole(t)
	ctx := context.Background()

	tests := []struct {
		line string
		want error
	}{
		{line: "dance", want: ErrUnknownCommand},
		{line: "win 1", want: ErrUsage},
		{line: "win x p1", want: ErrUsage},
		{line: "score 1 2", want: ErrUsage},
		{line: "score 1 two 1", want: ErrUsage},
		{line: "score 1 1 1", want: services.ErrValidationFailed},
		{line: "win 1 zed", want: services.ErrParticipantNotFound},
		{line: "win 9 alice", want: services.ErrMatchNotFound},
		{line: "undo 1", want: brackets.ErrMatchNotDecided},
	}
	for _, tt := range tests {
		_, err := h.Handle(ctx, tt.line)
		assert.ErrorIs(t, err, tt.want, tt.line)
	}

	quit, err := h.Handle(ctx, "   ")
	assert.NoError(t, err)
	assert.False(t, quit)
}

func TestConsoleServe(t *testing.T) {
	h, out := newTestConsole(t)

	in := strings.NewReader("status\nbogus\nwin 1 alice\nquit\nstatus\n")
	require.NoError(t, h.Serve(context.Background(), in))

	assert.Equal(t, 1, strings.Count(out.String(), "Cup [in_progress]"), "commands after quit are not read")
	assert.Contains(t, out.String(), "invalid: unknown command")
	assert.Contains(t, out.String(), "winner p1")
}

func TestConsoleShowAndHelp(t *testing.T) {
	h, out := newTestConsole(t)

	handle(t, h, "show")
	assert.Contains(t, out.String(), "M2 Pbob v Pcarol")

	out.Reset()
	handle(t, h, "HELP")
	assert.Contains(t, out.String(), "win <match> <p1|p2|name>")
}

func TestConsoleNumericIDs(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := services.NewBracketService(nil, nil, logger)
	view, err := svc.Create(context.Background(), services.CreateBracketInput{
		Name: "Cup",
		Participants: []services.ParticipantInput{
			{ID: "1", Name: "Alpha"},
			{ID: "2", Name: "Bravo"},
			{ID: "3", Name: "Charlie"},
			{ID: "4", Name: "Delta"},
		},
	})
	require.NoError(t, err)
	out := &strings.Builder{}
	h, err := NewConsoleHandler(svc, view.ID, out, logger)
	require.NoError(t, err)

	// M2 is Bravo (id 2) vs Charlie (id 3): "2" names the participant, not the slot
	handle(t, h, "win 2 2")
	assert.Contains(t, out.String(), "M2 (round 1): Bravo vs Charlie, winner p1")

	handle(t, h, "win 1 p2")
	assert.Contains(t, out.String(), "M1 (round 1): Alpha vs Delta, winner p2")

	_, err = h.Handle(context.Background(), "win 3 1")
	assert.ErrorIs(t, err, services.ErrParticipantNotFound, "id 1 is out")
}
