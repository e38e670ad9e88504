package watchlist

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"GETracker/model"
)

// DefaultGroup is the permanent partition every watchlist has. It can
// never be deleted or renamed; orphaned items land here.
const DefaultGroup = "default"

// Store holds watchlist items partitioned into named groups. All
// mutations are synchronous, last-writer-wins, and write one full
// persisted snapshot.
type Store struct {
	mu     sync.Mutex
	items  []model.WatchlistItem
	groups []model.WatchlistGroup
	repo   Repository
	subs   map[string]func()
}

// NewStore loads the persisted snapshot (if any) and guarantees the
// default group exists.
func NewStore(repo Repository) (*Store, error) {
	s := &Store{repo: repo, subs: make(map[string]func())}
	if repo != nil {
		snapshot, err := repo.Load()
		if err != nil {
			return nil, err
		}
		s.items = snapshot.Items
		s.groups = snapshot.Groups
	}
	if !s.groupExistsLocked(DefaultGroup) {
		s.groups = append(s.groups, model.WatchlistGroup{Name: DefaultGroup, CreatedAt: time.Now()})
	}
	return s, nil
}

// Subscribe registers a callback invoked after every mutation and
// returns a token for Unsubscribe.
func (s *Store) Subscribe(fn func()) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := uuid.NewString()
	s.subs[token] = fn
	return token
}

func (s *Store) Unsubscribe(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, token)
}

// AddToWatchlist adds an item to the named group. Adding an id already
// present anywhere in the watchlist is a no-op; an unknown group falls
// back to the default group.
func (s *Store) AddToWatchlist(item model.WatchlistItem, groupName string) {
	s.mu.Lock()
	if s.indexOfLocked(item.ID) >= 0 {
		s.mu.Unlock()
		return
	}
	if groupName == "" || !s.groupExistsLocked(groupName) {
		groupName = DefaultGroup
	}
	item.GroupName = groupName
	s.items = append(s.items, item)
	s.persistLocked()
	subs := s.subscribersLocked()
	s.mu.Unlock()
	notify(subs)
}

// RemoveFromWatchlist removes the item with the given id; absent ids
// are a no-op.
func (s *Store) RemoveFromWatchlist(id int) {
	s.mu.Lock()
	idx := s.indexOfLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.persistLocked()
	subs := s.subscribersLocked()
	s.mu.Unlock()
	notify(subs)
}

// IsInWatchlist reports whether the id is tracked in any group.
func (s *Store) IsInWatchlist(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOfLocked(id) >= 0
}

// Items returns a copy of all watchlist items.
func (s *Store) Items() []model.WatchlistItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.WatchlistItem, len(s.items))
	copy(out, s.items)
	return out
}

// Groups returns a copy of all groups.
func (s *Store) Groups() []model.WatchlistGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.WatchlistGroup, len(s.groups))
	copy(out, s.groups)
	return out
}

// CreateGroup adds a new empty group; an existing name is a no-op.
func (s *Store) CreateGroup(name string) {
	s.mu.Lock()
	if name == "" || s.groupExistsLocked(name) {
		s.mu.Unlock()
		return
	}
	s.groups = append(s.groups, model.WatchlistGroup{Name: name, CreatedAt: time.Now()})
	s.persistLocked()
	subs := s.subscribersLocked()
	s.mu.Unlock()
	notify(subs)
}

// DeleteGroup removes a non-default group, reassigning its members to
// the default group. Deleting the default group is rejected.
func (s *Store) DeleteGroup(name string) {
	s.mu.Lock()
	if name == DefaultGroup || !s.groupExistsLocked(name) {
		s.mu.Unlock()
		return
	}
	for i := range s.items {
		if s.items[i].GroupName == name {
			s.items[i].GroupName = DefaultGroup
		}
	}
	for i := range s.groups {
		if s.groups[i].Name == name {
			s.groups = append(s.groups[:i], s.groups[i+1:]...)
			break
		}
	}
	s.persistLocked()
	subs := s.subscribersLocked()
	s.mu.Unlock()
	notify(subs)
}

// RenameGroup renames a non-default group and re-tags its members.
// Renaming the default group, renaming to an existing name, or an
// unknown source group are all no-ops.
func (s *Store) RenameGroup(oldName, newName string) {
	s.mu.Lock()
	if oldName == DefaultGroup || newName == "" ||
		!s.groupExistsLocked(oldName) || s.groupExistsLocked(newName) {
		s.mu.Unlock()
		return
	}
	for i := range s.groups {
		if s.groups[i].Name == oldName {
			s.groups[i].Name = newName
			break
		}
	}
	for i := range s.items {
		if s.items[i].GroupName == oldName {
			s.items[i].GroupName = newName
		}
	}
	s.persistLocked()
	subs := s.subscribersLocked()
	s.mu.Unlock()
	notify(subs)
}

// MoveItemToGroup re-tags one item; an unknown group or item is a no-op.
func (s *Store) MoveItemToGroup(itemID int, groupName string) {
	s.mu.Lock()
	idx := s.indexOfLocked(itemID)
	if idx < 0 || !s.groupExistsLocked(groupName) {
		s.mu.Unlock()
		return
	}
	if s.items[idx].GroupName == groupName {
		s.mu.Unlock()
		return
	}
	s.items[idx].GroupName = groupName
	s.persistLocked()
	subs := s.subscribersLocked()
	s.mu.Unlock()
	notify(subs)
}

// GetGroupItems returns the items tagged with the given group.
func (s *Store) GetGroupItems(groupName string) []model.WatchlistItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.WatchlistItem
	for _, item := range s.items {
		if item.GroupName == groupName {
			out = append(out, item)
		}
	}
	return out
}

// Snapshot returns the current full state.
func (s *Store) Snapshot() model.WatchlistSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() model.WatchlistSnapshot {
	items := make([]model.WatchlistItem, len(s.items))
	copy(items, s.items)
	groups := make([]model.WatchlistGroup, len(s.groups))
	copy(groups, s.groups)
	return model.WatchlistSnapshot{Items: items, Groups: groups}
}

func (s *Store) indexOfLocked(id int) int {
	for i, item := range s.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) groupExistsLocked(name string) bool {
	for _, g := range s.groups {
		if g.Name == name {
			return true
		}
	}
	return false
}

func (s *Store) persistLocked() {
	if s.repo == nil {
		return
	}
	if err := s.repo.Save(s.snapshotLocked()); err != nil {
		log.Printf("[ERROR] save watchlist snapshot: %v", err)
	}
}

func (s *Store) subscribersLocked() []func() {
	subs := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func()) {
	for _, fn := range subs {
		fn()
	}
}
