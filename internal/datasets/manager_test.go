package datasets

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"mediapulse/internal/campaign"
)

const sampleCSV = `Date,Platform,Sentiment,Location,Engagements,Media Type
2024-03-01,FB,Positive,Cairo,10,Image
2024-03-01,IG,Negative,Cairo,5,Video
2024-03-02,FB,Positive,Giza,20,Image
`

func writeCSV(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "posts.csv")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestManager_OpenCSVAndGet(t *testing.T) {
	mgr := NewManager(0, 0, nil, nil)
	path := writeCSV(t, sampleCSV)

	id, canonical, err := mgr.Open(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, path, canonical)
	require.Equal(t, 1, mgr.Count())

	ds, ok := mgr.Get(id)
	require.True(t, ok)
	require.Equal(t, 3, ds.Len())
	require.Equal(t, 35.0, ds.TotalEngagements())
}

func TestManager_OpenXLSX(t *testing.T) {
	f := excelize.NewFile()
	sh := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sh, "A1", &[]string{"Date", "Platform", "Sentiment", "Location", "Engagements", "Media Type"}))
	require.NoError(t, f.SetSheetRow(sh, "A2", &[]string{"2024-03-01", "FB", "Positive", "Cairo", "10", "Image"}))
	path := filepath.Join(t.TempDir(), "posts.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	mgr := NewManager(0, 0, nil, nil)
	id, _, err := mgr.Open(context.Background(), path)
	require.NoError(t, err)

	ds, ok := mgr.Get(id)
	require.True(t, ok)
	require.Equal(t, 1, ds.Len())
	require.Equal(t, "FB", ds.Records[0].Platform)
}

func TestManager_OpenSchemaError(t *testing.T) {
	mgr := NewManager(0, 0, nil, nil)
	path := writeCSV(t, "Date,Platform\n2024-03-01,FB\n")

	_, _, err := mgr.Open(context.Background(), path)
	var serr *campaign.SchemaError
	require.ErrorAs(t, err, &serr)
	require.Equal(t, 0, mgr.Count())
}

func TestLoadFile_TooLargeIsSentinel(t *testing.T) {
	path := writeCSV(t, sampleCSV)

	_, err := LoadFile(path, 4)
	require.ErrorIs(t, err, ErrFileTooLarge)
}

func TestManager_UnsupportedFormat(t *testing.T) {
	mgr := NewManager(0, 0, nil, nil)
	path := filepath.Join(t.TempDir(), "posts.txt")
	require.NoError(t, os.WriteFile(path, []byte("hi"), 0o644))

	_, _, err := mgr.Open(context.Background(), path)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestManager_CloseHandle(t *testing.T) {
	mgr := NewManager(0, 0, nil, nil)
	id, err := mgr.Adopt(context.Background(), &campaign.Dataset{})
	require.NoError(t, err)

	require.NoError(t, mgr.CloseHandle(context.Background(), id))
	require.ErrorIs(t, mgr.CloseHandle(context.Background(), id), ErrHandleNotFound)
	_, ok := mgr.Get(id)
	require.False(t, ok)
}

func TestManager_EvictExpired(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	clock := func() time.Time { return now }
	mgr := NewManager(time.Minute, time.Hour, nil, clock)

	id, err := mgr.Adopt(context.Background(), &campaign.Dataset{})
	require.NoError(t, err)

	mgr.EvictExpired()
	require.Equal(t, 1, mgr.Count())

	now = now.Add(2 * time.Minute)
	mgr.EvictExpired()
	require.Equal(t, 0, mgr.Count())
	_, ok := mgr.Get(id)
	require.False(t, ok)
}

func TestManager_GetRefreshesTTL(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	clock := func() time.Time { return now }
	mgr := NewManager(time.Minute, time.Hour, nil, clock)

	id, err := mgr.Adopt(context.Background(), &campaign.Dataset{})
	require.NoError(t, err)

	now = now.Add(50 * time.Second)
	_, ok := mgr.Get(id)
	require.True(t, ok)

	// The access above pushed expiry out past the original deadline.
	now = now.Add(30 * time.Second)
	mgr.EvictExpired()
	require.Equal(t, 1, mgr.Count())
}
