// Package clientstate holds the dashboard client's state: the signed-in
// user, the last fetched statistics snapshot, unsaved article drafts and
// navigation. Each slice is owned by one pure reducer; the Store composes
// them and is the only place state changes, through Dispatch.
package clientstate

import (
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// Action is a message dispatched into the Store. Every reducer sees every
// action and ignores the ones it does not own.
type Action interface {
	action()
}

// State is the composed, immutable client state. Reducers return new
// values; nothing reachable from a published State is modified afterwards.
type State struct {
	Session    SessionState
	Dashboard  DashboardState
	Drafts     DraftsState
	Navigation NavigationState
}

// Reduce routes a through every slice reducer.
func Reduce(s State, a Action) State {
	return State{
		Session:    ReduceSession(s.Session, a),
		Dashboard:  ReduceDashboard(s.Dashboard, a),
		Drafts:     ReduceDrafts(s.Drafts, a),
		Navigation: ReduceNavigation(s.Navigation, a),
	}
}

// Session slice.

// SessionState is the signed-in user, if any.
type SessionState struct {
	User *models.User
}

// SignedIn reports whether a user is signed in.
func (s SessionState) SignedIn() bool { return s.User != nil }

// LoggedIn records a successful login.
type LoggedIn struct{ User models.User }

// LoggedOut clears the session.
type LoggedOut struct{}

func (LoggedIn) action()  {}
func (LoggedOut) action() {}

// ReduceSession is the session reducer.
func ReduceSession(s SessionState, a Action) SessionState {
	switch a := a.(type) {
	case LoggedIn:
		u := a.User
		return SessionState{User: &u}
	case LoggedOut:
		return SessionState{}
	}
	return s
}

// Dashboard slice.

// DashboardStatus is the fetch lifecycle of the statistics snapshot.
type DashboardStatus int

const (
	DashboardIdle DashboardStatus = iota
	DashboardLoading
	DashboardReady
	DashboardFailed
)

func (s DashboardStatus) String() string {
	switch s {
	case DashboardLoading:
		return "loading"
	case DashboardReady:
		return "ready"
	case DashboardFailed:
		return "failed"
	}
	return "idle"
}

// DashboardState holds the last complete snapshot. A failed refresh keeps
// that snapshot and marks it Stale; it is never merged with partial data.
type DashboardState struct {
	Status    DashboardStatus
	Snapshot  *models.StatsSnapshot
	Stale     bool
	Err       error
	FetchedAt time.Time
}

// StatsRequested marks the start of a fetch.
type StatsRequested struct{}

// StatsLoaded carries a complete snapshot.
type StatsLoaded struct {
	Snapshot *models.StatsSnapshot
	At       time.Time
}

// StatsFailed carries the fetch error.
type StatsFailed struct{ Err error }

func (StatsRequested) action() {}
func (StatsLoaded) action()    {}
func (StatsFailed) action()    {}

// ReduceDashboard is the dashboard reducer.
func ReduceDashboard(s DashboardState, a Action) DashboardState {
	switch a := a.(type) {
	case StatsRequested:
		s.Status = DashboardLoading
		s.Err = nil
		return s
	case StatsLoaded:
		return DashboardState{
			Status:    DashboardReady,
			Snapshot:  a.Snapshot,
			FetchedAt: a.At,
		}
	case StatsFailed:
		s.Status = DashboardFailed
		s.Err = a.Err
		s.Stale = s.Snapshot != nil
		return s
	case LoggedOut:
		return DashboardState{}
	}
	return s
}

// Drafts slice.

// Draft is an unsaved article edit. Key is the article id for edits, or a
// client-chosen key for new articles.
type Draft struct {
	Key        string
	Title      string
	Body       string
	CategoryID uuid.UUID
	TagIDs     []uuid.UUID
	SavedAt    time.Time
}

// DraftsState maps draft keys to drafts.
type DraftsState struct {
	Items map[string]Draft
}

// Get returns the draft stored under key.
func (s DraftsState) Get(key string) (Draft, bool) {
	d, ok := s.Items[key]
	return d, ok
}

// DraftSaved stores or replaces a draft.
type DraftSaved struct{ Draft Draft }

// DraftDiscarded drops a draft.
type DraftDiscarded struct{ Key string }

func (DraftSaved) action()     {}
func (DraftDiscarded) action() {}

// ReduceDrafts is the drafts reducer. The map is copied on every change.
func ReduceDrafts(s DraftsState, a Action) DraftsState {
	switch a := a.(type) {
	case DraftSaved:
		items := maps.Clone(s.Items)
		if items == nil {
			items = make(map[string]Draft, 1)
		}
		d := a.Draft
		d.TagIDs = slices.Clone(d.TagIDs)
		items[d.Key] = d
		return DraftsState{Items: items}
	case DraftDiscarded:
		if _, ok := s.Items[a.Key]; !ok {
			return s
		}
		items := maps.Clone(s.Items)
		delete(items, a.Key)
		return DraftsState{Items: items}
	case LoggedOut:
		return DraftsState{}
	}
	return s
}

// Navigation slice.

// maxHistory bounds the back stack.
const maxHistory = 50

// NavigationState is the current location and its back stack.
type NavigationState struct {
	Path    string
	History []string
}

// Navigated moves to a new path.
type Navigated struct{ Path string }

// NavigatedBack returns to the previous path, if any.
type NavigatedBack struct{}

func (Navigated) action()     {}
func (NavigatedBack) action() {}

// ReduceNavigation is the navigation reducer.
func ReduceNavigation(s NavigationState, a Action) NavigationState {
	switch a := a.(type) {
	case Navigated:
		if a.Path == s.Path {
			return s
		}
		history := s.History
		if s.Path != "" {
			history = append(slices.Clip(history), s.Path)
			if len(history) > maxHistory {
				history = history[len(history)-maxHistory:]
			}
		}
		return NavigationState{Path: a.Path, History: history}
	case NavigatedBack:
		if len(s.History) == 0 {
			return s
		}
		last := len(s.History) - 1
		return NavigationState{Path: s.History[last], History: slices.Clip(s.History[:last])}
	}
	return s
}
