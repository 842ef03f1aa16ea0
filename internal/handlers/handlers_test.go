package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/auth"
	"inkwell/internal/blog"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

// memPostStore is an in-memory blog.PostStore for handler tests.
type memPostStore struct {
	mu    sync.Mutex
	posts map[uuid.UUID]*models.Post
	views map[string]int
	likes map[string]int
}

func newMemPostStore() *memPostStore {
	return &memPostStore{
		posts: make(map[uuid.UUID]*models.Post),
		views: make(map[string]int),
		likes: make(map[string]int),
	}
}

func (m *memPostStore) Create(_ context.Context, p *models.Post) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.posts {
		if existing.Slug == p.Slug {
			return nil, fmt.Errorf("create post: %w", store.ErrDuplicate)
		}
	}
	stored := *p
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	m.posts[stored.ID] = &stored
	clone := stored
	return &clone, nil
}

func (m *memPostStore) FindByID(_ context.Context, id uuid.UUID) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (m *memPostStore) FindPublishedBySlug(_ context.Context, slug string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.Slug == slug && p.Status == models.PostStatusPublished {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memPostStore) SlugExists(_ context.Context, slug string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m *memPostStore) ListAll(_ context.Context) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Post
	for _, p := range m.posts {
		out = append(out, *p)
	}
	return out, nil
}

func (m *memPostStore) ListByAuthor(_ context.Context, authorID uuid.UUID) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Post
	for _, p := range m.posts {
		if p.AuthorID == authorID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memPostStore) Update(_ context.Context, p *models.Post) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[p.ID]; !ok {
		return nil, nil
	}
	updated := *p
	updated.UpdatedAt = time.Now()
	m.posts[p.ID] = &updated
	clone := updated
	return &clone, nil
}

func (m *memPostStore) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return false, nil
	}
	delete(m.posts, id)
	return true, nil
}

func (m *memPostStore) IncrementViewCount(_ context.Context, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.views[slug]++
	return nil
}

func (m *memPostStore) IncrementLikeCount(_ context.Context, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.likes[slug]++
	return nil
}

func (m *memPostStore) viewCount(slug string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.views[slug]
}

func (m *memPostStore) likeCount(slug string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.likes[slug]
}

// memCategoryStore is an in-memory blog.CategoryStore.
type memCategoryStore struct {
	mu         sync.Mutex
	categories map[string]*models.Category
}

func newMemCategoryStore() *memCategoryStore {
	return &memCategoryStore{categories: make(map[string]*models.Category)}
}

func (m *memCategoryStore) FindByName(_ context.Context, name string) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[name]
	if !ok {
		return nil, nil
	}
	clone := *c
	return &clone, nil
}

func (m *memCategoryStore) SlugExists(_ context.Context, slug string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.categories {
		if c.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m *memCategoryStore) Create(_ context.Context, c *models.Category) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[c.Name]; ok {
		return nil, fmt.Errorf("create category: %w", store.ErrDuplicate)
	}
	stored := *c
	stored.ID = uuid.New()
	m.categories[stored.Name] = &stored
	clone := stored
	return &clone, nil
}

func (m *memCategoryStore) List(_ context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Category
	for _, c := range m.categories {
		out = append(out, *c)
	}
	return out, nil
}

// fakeUserStore is an in-memory userStore and profileStore.
type fakeUserStore struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*models.User
	byEmail map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byID:    make(map[uuid.UUID]*models.User),
		byEmail: make(map[string]*models.User),
	}
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byEmail[email]
	if !ok {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserStore) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserStore) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[u.Email]; ok {
		return nil, fmt.Errorf("create user: %w", store.ErrDuplicate)
	}
	stored := *u
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.byID[stored.ID] = &stored
	f.byEmail[stored.Email] = &stored
	clone := stored
	return &clone, nil
}

func (f *fakeUserStore) UpdateProfile(_ context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.byID[u.ID]
	if !ok {
		return nil, nil
	}
	existing.DisplayName = u.DisplayName
	existing.Role = u.Role
	existing.UpdatedAt = time.Now()
	clone := *existing
	return &clone, nil
}

func (f *fakeUserStore) SetTOTPSecret(_ context.Context, id uuid.UUID, secret string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		s := secret
		u.TOTPSecret = &s
		u.TOTPEnabled = false
	}
	return nil
}

func (f *fakeUserStore) EnableTOTP(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		u.TOTPEnabled = true
	}
	return nil
}

// fakeAppStore is an in-memory applicationStore.
type fakeAppStore struct {
	mu     sync.Mutex
	byID   map[uuid.UUID]*models.BloggerApplication
	byUser map[uuid.UUID]*models.BloggerApplication
}

func newFakeAppStore() *fakeAppStore {
	return &fakeAppStore{
		byID:   make(map[uuid.UUID]*models.BloggerApplication),
		byUser: make(map[uuid.UUID]*models.BloggerApplication),
	}
}

func (f *fakeAppStore) Create(_ context.Context, a *models.BloggerApplication) (*models.BloggerApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byUser[a.UserID]; ok {
		return nil, fmt.Errorf("create application: %w", store.ErrDuplicate)
	}
	stored := *a
	stored.ID = uuid.New()
	stored.Status = models.ApplicationStatusPending
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.byID[stored.ID] = &stored
	f.byUser[stored.UserID] = &stored
	clone := stored
	return &clone, nil
}

func (f *fakeAppStore) FindByUser(_ context.Context, userID uuid.UUID) (*models.BloggerApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byUser[userID]
	if !ok {
		return nil, nil
	}
	clone := *a
	return &clone, nil
}

func (f *fakeAppStore) ListPending(_ context.Context) ([]models.BloggerApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.BloggerApplication
	for _, a := range f.byID {
		if a.Status == models.ApplicationStatusPending {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAppStore) SetStatus(_ context.Context, id uuid.UUID, status models.ApplicationStatus) (*models.BloggerApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	a.Status = status
	a.UpdatedAt = time.Now()
	clone := *a
	return &clone, nil
}

// newBlogService wires a service against in-memory stores.
func newBlogService() (*blog.Service, *memPostStore) {
	posts := newMemPostStore()
	return blog.NewService(posts, blog.NewCategoryResolver(newMemCategoryStore())), posts
}

// asActor stamps an actor into the request context, standing in for the
// Authenticate middleware.
func asActor(r *http.Request, id uuid.UUID, role models.Role) *http.Request {
	return r.WithContext(middleware.WithActor(r.Context(), auth.Actor{ID: id, Role: role}))
}

// jsonBody encodes v for use as a request body.
func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		t.Fatalf("encode body: %v", err)
	}
	return &buf
}

// decodeBody decodes a recorded JSON response into dst.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("content type: got %q", ct)
	}
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}
