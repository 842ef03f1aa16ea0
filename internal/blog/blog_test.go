// blog_test.go provides in-memory store fakes shared by the resolver and
// service tests. They mirror the storage contract: unique indexes surface
// as store.ErrDuplicate, absence as nil.
package blog

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/store"
)

// fakeCategoryStore is an in-memory CategoryStore.
type fakeCategoryStore struct {
	mu     sync.Mutex
	byName map[string]*models.Category

	// raceOnCreate simulates losing the creation race: the first Create
	// inserts a competing row for the same name and reports a duplicate.
	raceOnCreate bool

	// dropOnCreate simulates a duplicate error whose winning row never
	// appears (persistent conflict).
	dropOnCreate bool

	creates int
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{byName: make(map[string]*models.Category)}
}

func (f *fakeCategoryStore) FindByName(_ context.Context, name string) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.byName[name]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, nil
}

func (f *fakeCategoryStore) SlugExists(_ context.Context, slug string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.byName {
		if c.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCategoryStore) Create(_ context.Context, c *models.Category) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++

	if f.dropOnCreate {
		return nil, store.ErrDuplicate
	}
	if f.raceOnCreate {
		f.raceOnCreate = false
		winner := &models.Category{
			ID:        uuid.New(),
			Name:      c.Name,
			Slug:      c.Slug,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		f.byName[c.Name] = winner
		return nil, store.ErrDuplicate
	}
	if _, ok := f.byName[c.Name]; ok {
		return nil, store.ErrDuplicate
	}

	created := &models.Category{
		ID:        uuid.New(),
		Name:      c.Name,
		Slug:      c.Slug,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.byName[c.Name] = created
	clone := *created
	return &clone, nil
}

// fakePostStore is an in-memory PostStore.
type fakePostStore struct {
	mu    sync.Mutex
	posts map[uuid.UUID]*models.Post

	updates int
	views   map[string]int
	likes   map[string]int
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{
		posts: make(map[uuid.UUID]*models.Post),
		views: make(map[string]int),
		likes: make(map[string]int),
	}
}

func (f *fakePostStore) Create(_ context.Context, p *models.Post) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.posts {
		if existing.Slug == p.Slug {
			return nil, store.ErrDuplicate
		}
	}

	created := *p
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	if created.Tags == nil {
		created.Tags = []string{}
	}
	f.posts[created.ID] = &created
	clone := created
	return &clone, nil
}

func (f *fakePostStore) FindByID(_ context.Context, id uuid.UUID) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.posts[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, nil
}

func (f *fakePostStore) FindPublishedBySlug(_ context.Context, slug string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.posts {
		if p.Slug == slug && p.Status == models.PostStatusPublished {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakePostStore) SlugExists(_ context.Context, slug string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.posts {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePostStore) ListAll(_ context.Context) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []models.Post
	for _, p := range f.posts {
		items = append(items, *p)
	}
	return items, nil
}

func (f *fakePostStore) ListByAuthor(_ context.Context, authorID uuid.UUID) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []models.Post
	for _, p := range f.posts {
		if p.AuthorID == authorID {
			items = append(items, *p)
		}
	}
	return items, nil
}

func (f *fakePostStore) Update(_ context.Context, p *models.Post) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++

	if _, ok := f.posts[p.ID]; !ok {
		return nil, nil
	}
	for id, existing := range f.posts {
		if id != p.ID && existing.Slug == p.Slug {
			return nil, store.ErrDuplicate
		}
	}

	updated := *p
	updated.UpdatedAt = time.Now()
	f.posts[p.ID] = &updated
	clone := updated
	return &clone, nil
}

func (f *fakePostStore) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[id]; !ok {
		return false, nil
	}
	delete(f.posts, id)
	return true, nil
}

func (f *fakePostStore) IncrementViewCount(_ context.Context, slug string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.views[slug]++
	for _, p := range f.posts {
		if p.Slug == slug {
			p.ViewCount++
		}
	}
	return nil
}

func (f *fakePostStore) IncrementLikeCount(_ context.Context, slug string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.likes[slug]++
	for _, p := range f.posts {
		if p.Slug == slug {
			p.LikeCount++
		}
	}
	return nil
}

// slugPrefix reports whether got is want or a suffixed variant of want.
func slugPrefix(got, want string) bool {
	return got == want || strings.HasPrefix(got, want+"-")
}
