package http

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/itww/admin-api/internal/domain/blog"
	"github.com/itww/admin-api/internal/domain/listing"
	"github.com/itww/admin-api/internal/domain/media"
	"github.com/itww/admin-api/internal/domain/user"
	"github.com/itww/admin-api/pkg/apperror"
)

type memoryBlogRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   []*blog.Blog
}

func (r *memoryBlogRepo) List(_ context.Context, q listing.Query) ([]*blog.Blog, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := len(r.rows)
	start := q.Offset()
	if start >= total {
		return []*blog.Blog{}, total, nil
	}
	end := min(start+q.PageSize, total)
	out := make([]*blog.Blog, end-start)
	copy(out, r.rows[start:end])
	return out, total, nil
}

func (r *memoryBlogRepo) FindByID(_ context.Context, id int64) (*blog.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.rows {
		if b.ID == id {
			cp := *b
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("Blog", strconv.FormatInt(id, 10))
}

func (r *memoryBlogRepo) Create(_ context.Context, b *blog.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	b.ID = r.nextID
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	cp := *b
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *memoryBlogRepo) Update(_ context.Context, b *blog.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, row := range r.rows {
		if row.ID == b.ID {
			cp := *b
			r.rows[i] = &cp
			return nil
		}
	}
	return apperror.NewNotFound("Blog", strconv.FormatInt(b.ID, 10))
}

func (r *memoryBlogRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, row := range r.rows {
		if row.ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return apperror.NewNotFound("Blog", strconv.FormatInt(id, 10))
}

func (r *memoryBlogRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type memoryMediaRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*media.Asset
}

func newMemoryMediaRepo() *memoryMediaRepo {
	return &memoryMediaRepo{rows: map[int64]*media.Asset{}}
}

func (r *memoryMediaRepo) Create(_ context.Context, a *media.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	a.ID = r.nextID
	a.CreatedAt = time.Now()
	cp := *a
	r.rows[a.ID] = &cp
	return nil
}

func (r *memoryMediaRepo) FindByID(_ context.Context, id int64) (*media.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok {
		return nil, apperror.NewNotFound("Media", strconv.FormatInt(id, 10))
	}
	cp := *a
	return &cp, nil
}

func (r *memoryMediaRepo) List(_ context.Context, moduleRef string) ([]*media.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*media.Asset{}
	for _, a := range r.rows {
		if moduleRef == "" || a.ModuleRef == moduleRef {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *memoryMediaRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return apperror.NewNotFound("Media", strconv.FormatInt(id, 10))
	}
	delete(r.rows, id)
	return nil
}

func (r *memoryMediaRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type memoryUserRepo struct {
	users []*user.User
}

func (r *memoryUserRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperror.NewNotFound("User", email)
}

func (r *memoryUserRepo) FindByID(_ context.Context, id int64) (*user.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperror.NewNotFound("User", strconv.FormatInt(id, 10))
}
