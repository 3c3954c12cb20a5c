package syncer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daybook-io/daybook/internal/journal"
	"github.com/daybook-io/daybook/internal/queue"
	"github.com/daybook-io/daybook/internal/transport"
)

const testDate = "2026-08-29"

// fakeTransport serves scripted entry records and accepts uploads.
type fakeTransport struct {
	entries  []transport.EntryRecord
	fetchErr error
	created  []transport.CreateRequest
}

func (f *fakeTransport) FetchEntries(ctx context.Context, date string) ([]transport.EntryRecord, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.entries, nil
}

func (f *fakeTransport) CreateEntry(ctx context.Context, req transport.CreateRequest) (*transport.CreateResult, error) {
	f.created = append(f.created, req)
	return &transport.CreateResult{ID: fmt.Sprintf("srv-%d", len(f.created)), CreatedAt: time.Now()}, nil
}

func setup(t *testing.T, tr transport.Transport) (Syncer, string) {
	t.Helper()

	dir := t.TempDir()
	q, err := queue.Initialize(filepath.Join(dir, "pending.json"), nil)
	require.NoError(t, err)

	journalsDir := filepath.Join(dir, "journals")
	return New(tr, q, journalsDir, nil), journalsDir
}

func writeLocalDay(t *testing.T, dir, date, text string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(journal.DayPath(dir, date), []byte(text), 0o600))
}

func localDayText(t *testing.T, dir, date string) string {
	t.Helper()

	data, err := os.ReadFile(journal.DayPath(dir, date))
	require.NoError(t, err)
	return string(data)
}

func TestMergeAndPersist_MissingDate(t *testing.T) {
	s, _ := setup(t, &fakeTransport{})

	_, err := s.MergeAndPersist(context.Background(), "")
	require.Error(t, err)

	_, err = s.MergeAndPersist(context.Background(), "29/08/2026")
	require.Error(t, err)
}

func TestMergeAndPersist_NoLocalFile(t *testing.T) {
	tr := &fakeTransport{entries: []transport.EntryRecord{
		{ID: "A", Title: "08:00", Content: "from the server", Type: "text"},
	}}
	s, journalsDir := setup(t, tr)

	res, err := s.MergeAndPersist(context.Background(), testDate)
	require.NoError(t, err)
	assert.Equal(t, 1, res.ServerOnly)
	assert.Zero(t, res.LocalOnly)
	assert.False(t, res.NeedsPush)

	day, err := journal.Parse(localDayText(t, journalsDir, testDate), testDate)
	require.NoError(t, err)
	require.NotNil(t, day.Entry("A"))
	assert.Equal(t, "from the server", day.Entry("A").Content)
}

func TestMergeAndPersist_LocalAdditionSignalsPush(t *testing.T) {
	tr := &fakeTransport{entries: []transport.EntryRecord{
		{ID: "A", Title: "08:00", Content: "shared", Type: "text"},
	}}
	s, journalsDir := setup(t, tr)

	localDay := &journal.Day{
		Date: testDate,
		Entries: []*journal.Entry{
			{ID: "A", Title: "08:00", Content: "shared", Type: journal.TypeText},
			{ID: "B", Title: "11:00", Content: "written offline", Type: journal.TypeText},
		},
		Meta: map[string]journal.EntryMetadata{},
	}
	writeLocalDay(t, journalsDir, testDate, journal.Serialize(localDay))

	res, err := s.MergeAndPersist(context.Background(), testDate)
	require.NoError(t, err)
	assert.Equal(t, 1, res.LocalOnly)
	assert.True(t, res.NeedsPush)

	day, err := journal.Parse(localDayText(t, journalsDir, testDate), testDate)
	require.NoError(t, err)
	assert.NotNil(t, day.Entry("B"))
}

func TestMergeAndPersist_ConflictKeepsLocalAndReportsIt(t *testing.T) {
	tr := &fakeTransport{entries: []transport.EntryRecord{
		{ID: "A", Title: "08:00", Content: "server version", Type: "text"},
	}}
	s, journalsDir := setup(t, tr)

	localDay := &journal.Day{
		Date: testDate,
		Entries: []*journal.Entry{
			{ID: "A", Title: "08:00", Content: "edited on phone", Type: journal.TypeText},
		},
		Meta: map[string]journal.EntryMetadata{},
	}
	writeLocalDay(t, journalsDir, testDate, journal.Serialize(localDay))

	res, err := s.MergeAndPersist(context.Background(), testDate)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, res.ConflictEntryIDs)
	assert.True(t, res.NeedsPush)

	day, err := journal.Parse(localDayText(t, journalsDir, testDate), testDate)
	require.NoError(t, err)
	assert.Equal(t, "edited on phone", day.Entry("A").Content)
}

func TestMergeAndPersist_FetchErrorProceedsLocalOnly(t *testing.T) {
	tr := &fakeTransport{fetchErr: fmt.Errorf("network down")}
	s, journalsDir := setup(t, tr)

	localDay := &journal.Day{
		Date: testDate,
		Entries: []*journal.Entry{
			{ID: "A", Title: "08:00", Content: "safe at home", Type: journal.TypeText},
		},
		Meta: map[string]journal.EntryMetadata{},
	}
	writeLocalDay(t, journalsDir, testDate, journal.Serialize(localDay))

	res, err := s.MergeAndPersist(context.Background(), testDate)
	require.NoError(t, err, "fetch failures never abort a pull")
	assert.Zero(t, res.ServerOnly)

	day, err := journal.Parse(localDayText(t, journalsDir, testDate), testDate)
	require.NoError(t, err)
	assert.Equal(t, "safe at home", day.Entry("A").Content)
}

func TestMergeAndPersist_VoiceMetadataCarriedFromServer(t *testing.T) {
	tr := &fakeTransport{entries: []transport.EntryRecord{
		{
			ID: "V", Title: "07:45", Content: "morning memo", Type: "voice",
			AudioPath: "recordings/memo.m4a", Duration: 31,
			CreatedAt: time.Date(2026, 8, 29, 7, 45, 0, 0, time.UTC),
		},
	}}
	s, journalsDir := setup(t, tr)

	_, err := s.MergeAndPersist(context.Background(), testDate)
	require.NoError(t, err)

	day, err := journal.Parse(localDayText(t, journalsDir, testDate), testDate)
	require.NoError(t, err)
	m := day.MetadataFor("V")
	assert.Equal(t, journal.TypeVoice, m.Type)
	assert.Equal(t, "recordings/memo.m4a", m.AudioPath)
	assert.Equal(t, 31, m.Duration)
}

func TestMergeAndPersist_IdempotentSecondPull(t *testing.T) {
	tr := &fakeTransport{entries: []transport.EntryRecord{
		{ID: "A", Title: "08:00", Content: "stable", Type: "text"},
	}}
	s, journalsDir := setup(t, tr)

	_, err := s.MergeAndPersist(context.Background(), testDate)
	require.NoError(t, err)
	first := localDayText(t, journalsDir, testDate)

	res, err := s.MergeAndPersist(context.Background(), testDate)
	require.NoError(t, err)
	assert.False(t, res.NeedsPush)
	assert.Equal(t, first, localDayText(t, journalsDir, testDate))
}

func TestFlushPending_DrivesQueue(t *testing.T) {
	tr := &fakeTransport{}
	dir := t.TempDir()
	q, err := queue.Initialize(filepath.Join(dir, "pending.json"), nil)
	require.NoError(t, err)
	s := New(tr, q, filepath.Join(dir, "journals"), nil)

	_, err = q.Enqueue(queue.PendingItem{LocalID: "l1", Content: "offline capture"})
	require.NoError(t, err)

	require.NoError(t, s.FlushPending(context.Background()))
	assert.Zero(t, q.Len())
	require.Len(t, tr.created, 1)
	assert.Equal(t, "offline capture", tr.created[0].Content)
}
