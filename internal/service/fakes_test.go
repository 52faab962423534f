package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/dom/blog-platform/internal/domain"
	"github.com/dom/blog-platform/internal/repository"
	"github.com/dom/blog-platform/internal/service"
	"github.com/google/uuid"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return repository.ErrDuplicate
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username })
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r *fakeUserRepo) GetRole(ctx context.Context, id uuid.UUID) (domain.Role, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cp := *user
	cp.PasswordHash = existing.PasswordHash
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, limit, offset int) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.User
	for _, u := range r.users {
		out = append(out, u)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) setRole(id uuid.UUID, role domain.Role) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[id].Role = role
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*domain.Session)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[session.TokenHash]; ok {
		return repository.ErrDuplicate
	}
	cp := *session
	r.sessions[session.TokenHash] = &cp
	return nil
}

func (r *fakeSessionRepo) ExistsByTokenHash(_ context.Context, tokenHash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[tokenHash]
	return ok, nil
}

func (r *fakeSessionRepo) DeleteByTokenHash(_ context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, tokenHash)
	return nil
}

func (r *fakeSessionRepo) DeleteByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k, s := range r.sessions {
		if s.UserID == userID {
			delete(r.sessions, k)
			n++
		}
	}
	return n, nil
}

func (r *fakeSessionRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k, s := range r.sessions {
		if s.IsExpired(now) {
			delete(r.sessions, k)
			n++
		}
	}
	return n, nil
}

func (r *fakeSessionRepo) CountByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, s := range r.sessions {
		if s.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *fakeSessionRepo) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []service.CounterEvent
}

func (p *recordingPublisher) PublishCounter(event service.CounterEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Events() []service.CounterEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]service.CounterEvent(nil), p.events...)
}

// fakeContent keeps blogs, comments and likes together so the like and
// comment fakes can move counters the way the database does.
type fakeContent struct {
	mu       sync.Mutex
	blogs    map[uuid.UUID]*domain.Blog
	comments map[uuid.UUID]*domain.Comment
	likes    map[domain.LikeTarget]map[uuid.UUID]bool
}

func newFakeContent() *fakeContent {
	return &fakeContent{
		blogs:    make(map[uuid.UUID]*domain.Blog),
		comments: make(map[uuid.UUID]*domain.Comment),
		likes:    make(map[domain.LikeTarget]map[uuid.UUID]bool),
	}
}

type fakeBlogRepo struct{ *fakeContent }

func (r fakeBlogRepo) Create(_ context.Context, blog *domain.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.blogs {
		if b.Slug == blog.Slug {
			return repository.ErrDuplicate
		}
	}
	cp := *blog
	r.blogs[blog.ID] = &cp
	return nil
}

func (r fakeBlogRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blogs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r fakeBlogRepo) GetBySlug(_ context.Context, slug string) (*domain.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.blogs {
		if b.Slug == slug {
			cp := *b
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r fakeBlogRepo) List(_ context.Context, filter repository.BlogListFilter) ([]*domain.Blog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Blog
	for _, b := range r.blogs {
		if filter.AuthorID != nil && b.AuthorID != *filter.AuthorID {
			continue
		}
		if filter.PublishedOnly && !b.IsPublished() {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (r fakeBlogRepo) Update(_ context.Context, blog *domain.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.blogs[blog.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cp := *blog
	cp.LikesCount = existing.LikesCount
	cp.CommentsCount = existing.CommentsCount
	r.blogs[blog.ID] = &cp
	return nil
}

func (r fakeBlogRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blogs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.blogs, id)
	for cid, c := range r.comments {
		if c.BlogID == id {
			delete(r.comments, cid)
		}
	}
	return nil
}

type fakeCommentRepo struct{ *fakeContent }

func (r fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	blog, ok := r.blogs[comment.BlogID]
	if !ok {
		return repository.ErrNotFound
	}
	cp := *comment
	r.comments[comment.ID] = &cp
	blog.CommentsCount++
	return nil
}

func (r fakeCommentRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r fakeCommentRepo) ListByBlogID(_ context.Context, blogID uuid.UUID) ([]*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Comment
	for _, c := range r.comments {
		if c.BlogID == blogID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r fakeCommentRepo) List(_ context.Context, limit, offset int) ([]*domain.Comment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Comment
	for _, c := range r.comments {
		cp := *c
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (r fakeCommentRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return repository.ErrNotFound
	}
	delete(r.comments, id)
	if blog, ok := r.blogs[c.BlogID]; ok {
		blog.CommentsCount--
	}
	return nil
}

type fakeLikeRepo struct{ *fakeContent }

func (r fakeLikeRepo) counter(target domain.LikeTarget) *int64 {
	if target.Type == domain.ResourceComment {
		if c, ok := r.comments[target.ID]; ok {
			return &c.LikesCount
		}
		return nil
	}
	if b, ok := r.blogs[target.ID]; ok {
		return &b.LikesCount
	}
	return nil
}

func (r fakeLikeRepo) Like(_ context.Context, target domain.LikeTarget, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.likes[target] == nil {
		r.likes[target] = make(map[uuid.UUID]bool)
	}
	if r.likes[target][userID] {
		return repository.ErrDuplicate
	}
	r.likes[target][userID] = true
	if c := r.counter(target); c != nil {
		*c++
	}
	return nil
}

func (r fakeLikeRepo) Unlike(_ context.Context, target domain.LikeTarget, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.likes[target][userID] {
		return false, nil
	}
	delete(r.likes[target], userID)
	if c := r.counter(target); c != nil {
		*c--
	}
	return true, nil
}

func (r fakeLikeRepo) LikesCount(_ context.Context, target domain.LikeTarget) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c := r.counter(target); c != nil {
		return *c, nil
	}
	return 0, repository.ErrNotFound
}
