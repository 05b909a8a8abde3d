package monitor

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"kindling/internal/api"
	"kindling/internal/config"
	"kindling/internal/store"
	"kindling/internal/ui/messages"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSource struct {
	mu         sync.Mutex
	users      map[string]*api.User
	updates    *api.Updates
	updatesErr error
	fetched    []string
}

func (f *fakeSource) GetUser(ctx context.Context, username string) (*api.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, username)
	u, ok := f.users[username]
	if !ok {
		return nil, errors.New("no such user")
	}
	return u, nil
}

func (f *fakeSource) GetUpdates(ctx context.Context) (*api.Updates, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updatesErr != nil {
		return nil, f.updatesErr
	}
	return f.updates, nil
}

func (f *fakeSource) fetchedUsers() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]string(nil), f.fetched...)
	sort.Strings(out)
	return out
}

type fakeNotifier struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (n *fakeNotifier) Send(msg tea.Msg) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
}

func (n *fakeNotifier) unreads() []messages.UnreadMsg {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []messages.UnreadMsg
	for _, m := range n.msgs {
		if u, ok := m.(messages.UnreadMsg); ok {
			out = append(out, u)
		}
	}
	return out
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "kindling.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func newTestWatcher(t *testing.T, src *fakeSource, st *store.Store) (*Watcher, *fakeNotifier) {
	t.Helper()
	w := New(config.Config{MonitorInterval: time.Minute}, src, st, nil)
	n := &fakeNotifier{}
	w.notify = n
	return w, n
}

func TestPoll_RecordsFreshSubmissions(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Follow("alice"))
	require.NoError(t, st.RecordActivity("alice", 100, 0))

	src := &fakeSource{users: map[string]*api.User{
		"alice": {ID: "alice", Submitted: []int{103, 102, 100, 99}},
	}}
	w, n := newTestWatcher(t, src, st)

	w.poll(context.Background(), true)

	f, err := st.GetFollow("alice")
	require.NoError(t, err)
	require.Equal(t, 2, f.Unread)
	require.Equal(t, 103, f.LastSeen)
	require.Equal(t, []messages.UnreadMsg{{Total: 2}}, n.unreads())
}

func TestPoll_BaselinesNewFollowQuietly(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Follow("bob"))

	src := &fakeSource{users: map[string]*api.User{
		"bob": {ID: "bob", Submitted: []int{50, 49, 48}},
	}}
	w, n := newTestWatcher(t, src, st)

	w.poll(context.Background(), true)

	f, err := st.GetFollow("bob")
	require.NoError(t, err)
	require.Zero(t, f.Unread)
	require.Equal(t, 50, f.LastSeen)
	require.Empty(t, n.unreads())

	// The next sweep only reports what came in after the baseline.
	src.mu.Lock()
	src.users["bob"].Submitted = []int{51, 50, 49, 48}
	src.mu.Unlock()

	w.poll(context.Background(), true)

	f, err = st.GetFollow("bob")
	require.NoError(t, err)
	require.Equal(t, 1, f.Unread)
	require.Equal(t, 51, f.LastSeen)
	require.Equal(t, []messages.UnreadMsg{{Total: 1}}, n.unreads())
}

func TestPoll_PartialSweepSkipsUnchangedProfiles(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Follow("alice"))
	require.NoError(t, st.Follow("bob"))
	require.NoError(t, st.RecordActivity("alice", 10, 0))
	require.NoError(t, st.RecordActivity("bob", 20, 0))

	src := &fakeSource{
		users: map[string]*api.User{
			"alice": {ID: "alice", Submitted: []int{11, 10}},
			"bob":   {ID: "bob", Submitted: []int{21, 20}},
		},
		updates: &api.Updates{Profiles: []string{"alice", "someone-else"}},
	}
	w, _ := newTestWatcher(t, src, st)

	w.poll(context.Background(), false)

	require.Equal(t, []string{"alice"}, src.fetchedUsers())
	f, err := st.GetFollow("alice")
	require.NoError(t, err)
	require.Equal(t, 1, f.Unread)
}

func TestPoll_FullSweepWhenUpdatesFeedFails(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Follow("alice"))
	require.NoError(t, st.Follow("bob"))
	require.NoError(t, st.RecordActivity("alice", 10, 0))
	require.NoError(t, st.RecordActivity("bob", 20, 0))

	src := &fakeSource{
		users: map[string]*api.User{
			"alice": {ID: "alice", Submitted: []int{10}},
			"bob":   {ID: "bob", Submitted: []int{20}},
		},
		updatesErr: errors.New("feed down"),
	}
	w, n := newTestWatcher(t, src, st)

	w.poll(context.Background(), false)

	require.Equal(t, []string{"alice", "bob"}, src.fetchedUsers())
	// Nothing new, so nothing announced.
	require.Empty(t, n.unreads())
}

func TestPoll_ToleratesProfileFetchFailure(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Follow("gone"))
	require.NoError(t, st.Follow("alice"))
	require.NoError(t, st.RecordActivity("alice", 10, 0))

	src := &fakeSource{users: map[string]*api.User{
		"alice": {ID: "alice", Submitted: []int{12, 11, 10}},
	}}
	w, n := newTestWatcher(t, src, st)

	w.poll(context.Background(), true)

	f, err := st.GetFollow("alice")
	require.NoError(t, err)
	require.Equal(t, 2, f.Unread)
	require.Equal(t, []messages.UnreadMsg{{Total: 2}}, n.unreads())
}

func TestStartStop_ShutsDownCleanly(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Follow("alice"))

	src := &fakeSource{users: map[string]*api.User{
		"alice": {ID: "alice", Submitted: []int{5}},
	}}
	w := New(config.Config{MonitorInterval: 10 * time.Millisecond}, src, st, nil)

	w.Start(&fakeNotifier{})
	time.Sleep(35 * time.Millisecond)
	w.Stop()

	// The immediate sweep baselined the follow.
	f, err := st.GetFollow("alice")
	require.NoError(t, err)
	require.Equal(t, 5, f.LastSeen)
}
