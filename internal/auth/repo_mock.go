package auth

import (
	"context"
	"sync"
)

var _ adminRepo = (*repoMock)(nil)

type repoMock struct {
	admins map[string]*Admin
	mutex  sync.Mutex
	nextID int
}

func newRepoMock() *repoMock {
	return &repoMock{
		admins: make(map[string]*Admin),
		nextID: 1,
	}
}

func (r *repoMock) Count(_ context.Context) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.admins), nil
}

func (r *repoMock) Get(_ context.Context, username string) (*Admin, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	admin, ok := r.admins[username]
	if !ok {
		return nil, ErrAdminNotFound
	}
	return admin, nil
}

func (r *repoMock) Add(_ context.Context, admin *Admin) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.admins[admin.Username]; ok {
		return ErrAdminExists
	}

	admin.ID = r.nextID
	r.nextID++
	r.admins[admin.Username] = admin
	return nil
}
