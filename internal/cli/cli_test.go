package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/five82/timekeep/internal/app"
	"github.com/five82/timekeep/internal/config"
	"github.com/five82/timekeep/internal/entry"
)

var fixedNow = time.Date(2024, 5, 1, 11, 45, 0, 0, time.UTC)

type fakeService struct {
	mu       sync.Mutex
	entries  []entry.Entry
	nextID   int
	failWith error

	created [][2]string
}

func newFakeService() *fakeService {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	stop := start.Add(2 * time.Hour)
	return &fakeService{
		nextID: 3,
		entries: []entry.Entry{
			{ID: "1", Name: "design review", StartedAt: start, StoppedAt: &stop, Duration: 2 * time.Hour},
			{ID: "2", Name: "write docs", StartedAt: stop},
		},
	}
}

func (s *fakeService) FetchAll(context.Context) ([]entry.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	return entry.Clone(s.entries), nil
}

func (s *fakeService) Create(_ context.Context, name, description string) (entry.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return entry.Entry{}, s.failWith
	}
	s.created = append(s.created, [2]string{name, description})
	e := entry.Entry{ID: entry.ID(fmt.Sprint(s.nextID)), Name: name, Description: description, StartedAt: fixedNow}
	s.nextID++
	s.entries = append(s.entries, e)
	return e, nil
}

func (s *fakeService) Delete(_ context.Context, id entry.ID) (entry.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return "", s.failWith
	}
	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return id, nil
		}
	}
	return "", errors.New("not found")
}

func (s *fakeService) Stop(_ context.Context, id entry.ID) (entry.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return entry.Entry{}, s.failWith
	}
	for i, e := range s.entries {
		if e.ID == id {
			s.entries[i] = e.Stopped(fixedNow)
			return s.entries[i].Clone(), nil
		}
	}
	return entry.Entry{}, errors.New("not found")
}

func runCLI(t *testing.T, svc *fakeService, args ...string) (string, error) {
	t.Helper()

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	cfg := fmt.Sprintf("log_file = %q\nlog_level = \"debug\"\n", filepath.Join(dir, "timekeep.log"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	opts := &RootOptions{
		connect: func(ctx context.Context, _ config.Config) (*app.Runtime, error) {
			return app.NewRuntime(ctx, svc), nil
		},
		now: func() time.Time { return fixedNow },
		loc: time.UTC,
	}
	cmd := newRootCommand(opts)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func golden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "timekeep", cmd.Use)

	for _, name := range []string{"list", "add", "stop", "delete", "version"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestList_Text(t *testing.T) {
	out, err := runCLI(t, newFakeService(), "list")
	require.NoError(t, err)
	golden(t).Assert(t, "list_text", []byte(out))
}

func TestList_Empty(t *testing.T) {
	svc := newFakeService()
	svc.entries = nil

	out, err := runCLI(t, svc, "list")
	require.NoError(t, err)
	golden(t).Assert(t, "list_empty", []byte(out))
}

func TestList_JSON(t *testing.T) {
	out, err := runCLI(t, newFakeService(), "--format", "json", "list")
	require.NoError(t, err)

	var view ListView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.Len(t, view.Entries, 2)
	assert.Equal(t, int64(7200), view.TotalSeconds)
	assert.Equal(t, "2h00m", view.Total)
	assert.True(t, view.Entries[1].Running)
	assert.Equal(t, int64(45*60), view.Entries[1].Seconds)
}

func TestList_YAML(t *testing.T) {
	out, err := runCLI(t, newFakeService(), "--format", "yaml", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "name: design review")

	var view ListView
	require.NoError(t, yaml.Unmarshal([]byte(out), &view))
	require.Len(t, view.Entries, 2)
	assert.Equal(t, "write docs", view.Entries[1].Name)
}

func TestList_Failure(t *testing.T) {
	svc := newFakeService()
	svc.failWith = errors.New("connection refused")

	_, err := runCLI(t, svc, "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list entries")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAdd(t *testing.T) {
	svc := newFakeService()
	out, err := runCLI(t, svc, "add", "write", "tests", "-d", "unit")
	require.NoError(t, err)
	assert.Equal(t, "Started write tests [3]\n", out)
	assert.Equal(t, [][2]string{{"write tests", "unit"}}, svc.created)
}

func TestAdd_BlankName(t *testing.T) {
	svc := newFakeService()
	_, err := runCLI(t, svc, "add", "   ")
	require.Error(t, err)
	assert.Empty(t, svc.created)
}

func TestStop(t *testing.T) {
	out, err := runCLI(t, newFakeService(), "stop", "2")
	require.NoError(t, err)
	assert.Equal(t, "Stopped write docs [2] after 45m\n", out)
}

func TestStop_JSON(t *testing.T) {
	out, err := runCLI(t, newFakeService(), "--format", "json", "stop", "2")
	require.NoError(t, err)

	var view EntryView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.False(t, view.Running)
	require.NotNil(t, view.StoppedAt)
	assert.True(t, view.StoppedAt.Equal(fixedNow))
}

func TestStop_UnknownID(t *testing.T) {
	_, err := runCLI(t, newFakeService(), "stop", "99")
	require.Error(t, err)
}

func TestDelete(t *testing.T) {
	svc := newFakeService()
	out, err := runCLI(t, svc, "delete", "1")
	require.NoError(t, err)
	assert.Equal(t, "Deleted 1\n", out)
	assert.Len(t, svc.entries, 1)
}

func TestInvalidFormat(t *testing.T) {
	_, err := runCLI(t, newFakeService(), "--format", "xml", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, newFakeService(), "version")
	require.NoError(t, err)
	assert.Equal(t, "timekeep dev\n", out)
}
