package poems

import (
	"context"
	"sort"
	"sync"
	"time"
)

var _ poemsRepo = (*repoMock)(nil)

type repoMock struct {
	poems  map[int]*Poem
	mutex  sync.Mutex
	nextID int
}

func newRepoMock() *repoMock {
	return &repoMock{
		poems:  make(map[int]*Poem),
		nextID: 1,
	}
}

func (r *repoMock) Add(_ context.Context, poem *Poem) error {
	if poem.Title == "" || poem.Content == "" {
		return ErrPoemTitleOrContentEmpty
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if poem.CreatedAt.IsZero() {
		poem.CreatedAt = time.Now()
	}

	poem.ID = r.nextID
	r.nextID++
	r.poems[poem.ID] = poem
	return nil
}

func (r *repoMock) Get(_ context.Context, id int) (*Poem, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	poem, ok := r.poems[id]
	if !ok {
		return nil, ErrPoemNotFound
	}
	return poem, nil
}

func (r *repoMock) Exists(_ context.Context, id int) (bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	_, ok := r.poems[id]
	return ok, nil
}

func (r *repoMock) Delete(_ context.Context, id int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.poems[id]; !ok {
		return ErrPoemNotFound
	}
	delete(r.poems, id)
	return nil
}

func (r *repoMock) All(_ context.Context) ([]*Poem, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var allPoems []*Poem
	for _, poem := range r.poems {
		allPoems = append(allPoems, poem)
	}

	sort.Slice(allPoems, func(i, j int) bool {
		return allPoems[i].ID > allPoems[j].ID
	})

	return allPoems, nil
}
