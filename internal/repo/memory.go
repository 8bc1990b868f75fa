package repo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"resume-api/internal/domain"
)

// purger 由内存仓储实现，供删除用户时级联清理
type purger interface{ purgeOwner(owner uint) }

type MemorySectionRepo[T any, P domain.Record[T]] struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	rows map[uint]T
	next uint
}

func NewMemorySectionRepo[T any, P domain.Record[T]]() *MemorySectionRepo[T, P] {
	return &MemorySectionRepo[T, P]{rows: make(map[uint]T)}
}

func (r *MemorySectionRepo[T, P]) List(ctx context.Context, owner uint) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	items := make([]T, 0)
	for _, m := range r.rows {
		if P(&m).Owner() == owner {
			items = append(items, m)
		}
	}
	r.mu.RUnlock()
	sort.SliceStable(items, func(i, j int) bool { return P(&items[i]).Less(&items[j]) })
	return items, nil
}

func (r *MemorySectionRepo[T, P]) Get(ctx context.Context, id uint) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

func (r *MemorySectionRepo[T, P]) Insert(ctx context.Context, m *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	P(m).SetKey(r.next)
	r.rows[r.next] = *m
	return nil
}

func (r *MemorySectionRepo[T, P]) Update(ctx context.Context, m *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	id := P(m).Key()
	if _, ok := r.rows[id]; !ok {
		return domain.ErrNotFound
	}
	r.rows[id] = *m
	return nil
}

func (r *MemorySectionRepo[T, P]) Delete(ctx context.Context, id uint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *MemorySectionRepo[T, P]) DeleteByOwner(ctx context.Context, owner uint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.purgeOwner(owner)
	return nil
}

func (r *MemorySectionRepo[T, P]) purgeOwner(owner uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, m := range r.rows {
		if P(&m).Owner() == owner {
			delete(r.rows, id)
		}
	}
}

// Transaction 串行化写事务；fn 内先校验后写入，因此无需回滚
func (r *MemorySectionRepo[T, P]) Transaction(ctx context.Context, fn func(domain.SectionStore[T]) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(r)
}

type MemoryBioRepo struct {
	mu   sync.RWMutex
	rows map[uint]domain.Bio // key: owner
	next uint
}

func NewMemoryBioRepo() *MemoryBioRepo { return &MemoryBioRepo{rows: make(map[uint]domain.Bio)} }

func (r *MemoryBioRepo) GetByOwner(ctx context.Context, owner uint) (*domain.Bio, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.rows[owner]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (r *MemoryBioRepo) Upsert(ctx context.Context, b *domain.Bio) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.rows[b.UserID]; ok {
		b.ID = cur.ID
		r.rows[b.UserID] = *b
		return false, nil
	}
	r.next++
	b.ID = r.next
	r.rows[b.UserID] = *b
	return true, nil
}

func (r *MemoryBioRepo) Delete(ctx context.Context, owner uint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[owner]; !ok {
		return domain.ErrNotFound
	}
	delete(r.rows, owner)
	return nil
}

func (r *MemoryBioRepo) purgeOwner(owner uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, owner)
}

type MemoryUserRepo struct {
	mu      sync.RWMutex
	users   map[uint]domain.User
	next    uint
	cascade []purger
}

func NewMemoryUserRepo(cascade ...purger) *MemoryUserRepo {
	return &MemoryUserRepo{users: make(map[uint]domain.User), cascade: cascade}
}

// conflict 需持有 r.mu
func (r *MemoryUserRepo) conflict(u *domain.User) error {
	for id, cur := range r.users {
		if id == u.ID {
			continue
		}
		if cur.Username == u.Username {
			return duplicateUser("username")
		}
		if cur.Email == u.Email {
			return duplicateUser("email")
		}
	}
	return nil
}

func (r *MemoryUserRepo) Create(ctx context.Context, u *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = 0
	if err := r.conflict(u); err != nil {
		return err
	}
	r.next++
	u.ID = r.next
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	if u.Role == "" {
		u.Role = domain.RoleUser
	}
	r.users[u.ID] = *u
	return nil
}

func (r *MemoryUserRepo) find(ctx context.Context, match func(domain.User) bool) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *MemoryUserRepo) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	return r.find(ctx, func(u domain.User) bool { return u.ID == id })
}

func (r *MemoryUserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.find(ctx, func(u domain.User) bool { return u.Username == username })
}

func (r *MemoryUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.find(ctx, func(u domain.User) bool { return u.Email == email })
}

func (r *MemoryUserRepo) List(ctx context.Context, q string, offset, limit int) ([]domain.User, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	r.mu.RLock()
	all := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		if q == "" || strings.Contains(u.Username, q) || strings.Contains(u.Email, q) {
			all = append(all, u)
		}
	}
	r.mu.RUnlock()
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	total := int64(len(all))
	if offset >= len(all) {
		return []domain.User{}, total, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], total, nil
}

func (r *MemoryUserRepo) Update(ctx context.Context, u *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	if err := r.conflict(u); err != nil {
		return err
	}
	u.UpdatedAt = time.Now().UTC()
	r.users[u.ID] = *u
	return nil
}

func (r *MemoryUserRepo) Delete(ctx context.Context, id uint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrNotFound
	}
	for _, p := range r.cascade {
		p.purgeOwner(id)
	}
	delete(r.users, id)
	return nil
}
