package comments

import (
	"context"
	"sort"
	"sync"
	"time"
)

var _ commentsRepo = (*repoMock)(nil)

type repoMock struct {
	comments map[int]*Comment
	mutex    sync.Mutex
	nextID   int
}

func newRepoMock() *repoMock {
	return &repoMock{
		comments: make(map[int]*Comment),
		nextID:   1,
	}
}

func (r *repoMock) Add(_ context.Context, comment *Comment) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}

	comment.ID = r.nextID
	r.nextID++
	r.comments[comment.ID] = comment
	return nil
}

func (r *repoMock) All(_ context.Context) ([]*Comment, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var allComments []*Comment
	for _, comment := range r.comments {
		allComments = append(allComments, comment)
	}

	sortNewestFirst(allComments)
	return allComments, nil
}

func (r *repoMock) ApprovedForPoem(_ context.Context, poemID int) ([]*Comment, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var approvedComments []*Comment
	for _, comment := range r.comments {
		if comment.PoemID == poemID && comment.Approved {
			approvedComments = append(approvedComments, comment)
		}
	}

	sortNewestFirst(approvedComments)
	return approvedComments, nil
}

func (r *repoMock) SetApproved(_ context.Context, id int, approved bool) (*Comment, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	comment, ok := r.comments[id]
	if !ok {
		return nil, ErrCommentNotFound
	}

	comment.Approved = approved
	return comment, nil
}

func (r *repoMock) Delete(_ context.Context, id int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.comments[id]; !ok {
		return ErrCommentNotFound
	}
	delete(r.comments, id)
	return nil
}

func sortNewestFirst(comments []*Comment) {
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].ID > comments[j].ID
	})
}
