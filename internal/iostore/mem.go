package iostore

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/gnames/wilayah/pkg/region"
	"github.com/gnames/wilayah/pkg/store"
)

// memData holds regions of all levels.
type memData struct {
	regions map[region.Level]map[string]region.Region
	// children maps a child level to parent id to ids of children.
	children map[region.Level]map[string][]string
}

func newMemData() *memData {
	res := &memData{
		regions:  make(map[region.Level]map[string]region.Region),
		children: make(map[region.Level]map[string][]string),
	}
	for _, l := range region.Levels() {
		res.regions[l] = make(map[string]region.Region)
		res.children[l] = make(map[string][]string)
	}
	return res
}

func (d *memData) clone() *memData {
	res := &memData{
		regions:  make(map[region.Level]map[string]region.Region),
		children: make(map[region.Level]map[string][]string),
	}
	for _, l := range region.Levels() {
		res.regions[l] = maps.Clone(d.regions[l])
		ch := make(map[string][]string, len(d.children[l]))
		for k, v := range d.children[l] {
			ch[k] = slices.Clone(v)
		}
		res.children[l] = ch
	}
	return res
}

// memStore implements store.Store in memory.
type memStore struct {
	mu   sync.RWMutex
	data *memData

	// stageMu allows only one staged writer at a time.
	stageMu sync.Mutex
}

// NewMemory creates an empty in-memory region store.
func NewMemory() store.Store {
	return &memStore{data: newMemData()}
}

func (s *memStore) Exists(
	ctx context.Context,
	lvl region.Level,
	id string,
) (bool, error) {
	if !lvl.IsValid() {
		return false, store.UnknownLevelError(lvl)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.data.regions[lvl][id]
	return ok, nil
}

func (s *memStore) ExistingIDs(
	ctx context.Context,
	lvl region.Level,
	ids []string,
) (map[string]struct{}, error) {
	if !lvl.IsValid() {
		return nil, store.UnknownLevelError(lvl)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make(map[string]struct{})
	for _, id := range ids {
		if _, ok := s.data.regions[lvl][id]; ok {
			res[id] = struct{}{}
		}
	}
	return res, nil
}

func (s *memStore) ListByParent(
	ctx context.Context,
	lvl region.Level,
	parentID, search string,
) ([]region.Region, error) {
	if !lvl.IsValid() {
		return nil, store.UnknownLevelError(lvl)
	}
	search = region.NormalizeSearch(search)

	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]region.Region, 0)
	add := func(r region.Region) {
		if region.MatchName(r.Name, search) {
			res = append(res, r)
		}
	}

	if lvl.HasParent() {
		for _, id := range s.data.children[lvl][parentID] {
			add(s.data.regions[lvl][id])
		}
	} else {
		for _, r := range s.data.regions[lvl] {
			add(r)
		}
	}

	region.Sort(res)
	return res, nil
}

func (s *memStore) Get(
	ctx context.Context,
	lvl region.Level,
	id string,
) (region.Region, bool, error) {
	if !lvl.IsValid() {
		return region.Region{}, false, store.UnknownLevelError(lvl)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.data.regions[lvl][id]
	return r, ok, nil
}

func (s *memStore) CountAll(ctx context.Context, lvl region.Level) (int, error) {
	if !lvl.IsValid() {
		return 0, store.UnknownLevelError(lvl)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data.regions[lvl]), nil
}

func (s *memStore) Upsert(
	ctx context.Context,
	lvl region.Level,
	r region.Region,
) (bool, error) {
	if !lvl.IsValid() {
		return false, store.UnknownLevelError(lvl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if lvl.HasParent() {
		if _, ok := s.data.regions[lvl.Parent()][r.ParentID]; !ok {
			return false, store.IntegrityError(lvl, r.ID, r.ParentID)
		}
	}
	return s.insert(lvl, r), nil
}

func (s *memStore) InsertBatch(
	ctx context.Context,
	lvl region.Level,
	rs []region.Region,
) (int, error) {
	if !lvl.IsValid() {
		return 0, store.UnknownLevelError(lvl)
	}
	if err := ctx.Err(); err != nil {
		return 0, WriteError(lvl, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var res int
	for _, r := range rs {
		if s.insert(lvl, r) {
			res++
		}
	}
	return res, nil
}

// insert adds a region unless its id exists. Must be called with
// the write lock held.
func (s *memStore) insert(lvl region.Level, r region.Region) bool {
	if _, ok := s.data.regions[lvl][r.ID]; ok {
		return false
	}
	if !lvl.HasParent() {
		r.ParentID = ""
	}
	s.data.regions[lvl][r.ID] = r
	if lvl.HasParent() {
		ch := s.data.children[lvl]
		ch[r.ParentID] = append(ch[r.ParentID], r.ID)
	}
	return true
}

func (s *memStore) Clear(ctx context.Context, lvl region.Level) error {
	if !lvl.IsValid() {
		return store.UnknownLevelError(lvl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range clearOrder(lvl) {
		s.data.regions[l] = make(map[string]region.Region)
		s.data.children[l] = make(map[string][]string)
	}
	return nil
}

// Stage runs fn on a copy of the data and replaces the data with the
// copy when fn succeeds.
func (s *memStore) Stage(ctx context.Context, fn func(store.Writer) error) error {
	s.stageMu.Lock()
	defer s.stageMu.Unlock()

	s.mu.RLock()
	shadow := &memStore{data: s.data.clone()}
	s.mu.RUnlock()

	if err := fn(shadow); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return StageError(err)
	}

	s.mu.Lock()
	s.data = shadow.data
	s.mu.Unlock()
	return nil
}

func (s *memStore) Close() error {
	return nil
}
