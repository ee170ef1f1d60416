package main

import (
	"bytes"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/SergeyParamoshkin/dealnotes/internal/model"
	"github.com/SergeyParamoshkin/dealnotes/internal/server"
	"github.com/SergeyParamoshkin/dealnotes/internal/store"
	"github.com/SergeyParamoshkin/dealnotes/internal/telemetry"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func run(t *testing.T, args ...string) string {
	t.Helper()

	now := func() time.Time { return epoch }
	srv := httptest.NewServer(server.NewRouter(server.Options{
		Logger:  zap.NewNop().Sugar(),
		Store:   store.NewMemory(now),
		Metrics: telemetry.NewGlobal("test"),
		Now:     now,
	}))
	defer srv.Close()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--addr", srv.URL}, args...))
	require.NoError(t, cmd.Execute())

	return out.String()
}

func TestNotesList(t *testing.T) {
	out := run(t, "notes", "list", "deal-1")

	assert.Contains(t, out, "3 notes")
	assert.Contains(t, out, "John Smith • ")
	first := bytes.Index([]byte(out), []byte("Initial property inspection"))
	last := bytes.Index([]byte(out), []byte("Buyer has requested"))
	assert.Less(t, first, last, "pinned notes print first")
}

func TestNotesAdd(t *testing.T) {
	out := run(t, "notes", "add", "deal-2", "Walkthrough done", "--pin")
	assert.Contains(t, out, "to deal-2")
}

func TestDealsList(t *testing.T) {
	out := run(t, "deals", "list")
	assert.Contains(t, out, "deal-1")
	assert.Contains(t, out, "lease")
}

func TestPrintNotes(t *testing.T) {
	var buf bytes.Buffer
	res := &model.ListDealNotesResult{
		Notes: []*model.DealNote{
			{Content: "plain", CreatedByName: "A", CreatedAt: epoch.Add(-2 * time.Minute)},
			{Content: "pinned", CreatedByName: "B", CreatedAt: epoch.Add(-48 * time.Hour), IsPinned: true},
		},
		TotalCount: 2,
	}
	require.NoError(t, printNotes(&buf, res, epoch))

	assert.Equal(t, "2 notes\n* pinned\n  B • 2 days ago\n  plain\n  A • 2 min ago\n", buf.String())

	buf.Reset()
	require.NoError(t, printNotes(&buf, &model.ListDealNotesResult{}, epoch))
	assert.Equal(t, "No notes yet\n", buf.String())
}
