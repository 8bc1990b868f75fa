package account

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"resume-api/internal/core/auth"
	"resume-api/internal/domain"
	"resume-api/internal/repo"
	"resume-api/pkg/utils"
)

func newTestService(t *testing.T) (*Service, *repo.Stores, *auth.JWTer) {
	t.Helper()
	stores := repo.NewMemoryStores()
	j := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: time.Minute, RefreshTTL: time.Hour}
	svc := NewService(stores.Users, utils.BcryptHasher{Cost: bcrypt.MinCost}, j, DefaultPasswordPolicy(), nil)
	return svc, stores, j
}

func aliceInput() RegisterInput {
	return RegisterInput{Username: "alice", Email: "alice@example.com", Password: "StrongPassword123"}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, j := newTestService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, aliceInput())
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.NotEqual(t, "StrongPassword123", u.PasswordHash)

	res, err := svc.Login(ctx, LoginInput{Username: "alice", Password: "StrongPassword123"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)

	c, err := j.Verify(res.Access, auth.TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, u.ID, c.UID)
	_, err = j.Verify(res.Refresh, auth.TypeRefresh)
	require.NoError(t, err)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, aliceInput())
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginInput{Username: "alice", Password: "wrong-password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Username: "nobody", Password: "StrongPassword123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, aliceInput())
	require.NoError(t, err)

	_, err = svc.Register(ctx, aliceInput())
	require.ErrorIs(t, err, domain.ErrDuplicateField)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "username")
	assert.Contains(t, ve.Fields, "email")
}

func TestRegisterWeakPassword(t *testing.T) {
	svc, stores, _ := newTestService(t)
	ctx := context.Background()

	cases := map[string]string{
		"short":   "weak",
		"numeric": "1234567890123",
		"common":  "password",
		"similar": "alice1234",
	}
	for name, pw := range cases {
		t.Run(name, func(t *testing.T) {
			in := aliceInput()
			in.Password = pw
			_, err := svc.Register(ctx, in)
			require.ErrorIs(t, err, domain.ErrWeakPassword)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.NotEmpty(t, ve.Fields["password"])
		})
	}

	_, err := stores.Users.FindByUsername(ctx, "alice")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	in := aliceInput()
	in.Email = "not-an-email"
	in.Username = "bad name!"
	_, err := svc.Register(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrValidation)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "email")
	assert.Contains(t, ve.Fields, "username")
}

func TestRefresh(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, aliceInput())
	require.NoError(t, err)
	res, err := svc.Login(ctx, LoginInput{Username: "alice", Password: "StrongPassword123"})
	require.NoError(t, err)

	pair, err := svc.Refresh(ctx, res.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Access)

	_, err = svc.Refresh(ctx, res.Access)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = svc.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestUpdateProfile(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	alice, err := svc.Register(ctx, aliceInput())
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterInput{Username: "bob", Email: "bob@example.com", Password: "AnotherStrong789"})
	require.NoError(t, err)

	var changed []uint
	svc.OnChange = func(_ context.Context, uid uint) { changed = append(changed, uid) }

	actor := domain.Actor{ID: alice.ID, Role: alice.Role}
	u, err := svc.UpdateProfile(ctx, actor, ProfileInput{Email: "alice@example.com", FirstName: " Alice ", LastName: "Liddell"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.FirstName)
	assert.Equal(t, []uint{alice.ID}, changed)

	_, err = svc.UpdateProfile(ctx, actor, ProfileInput{Email: "bob@example.com"})
	assert.ErrorIs(t, err, domain.ErrDuplicateField)
}

func TestDeleteCascades(t *testing.T) {
	svc, stores, _ := newTestService(t)
	ctx := context.Background()
	u, err := svc.Register(ctx, aliceInput())
	require.NoError(t, err)
	require.NoError(t, stores.Skills.Insert(ctx, &domain.Skill{Owned: domain.Owned{UserID: u.ID}, Title: "Go", Rate: 5}))

	require.NoError(t, svc.Delete(ctx, u.ID))
	skills, err := stores.Skills.List(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, skills)

	assert.ErrorIs(t, svc.Delete(ctx, u.ID), domain.ErrNotFound)
}

func TestListPaginates(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	for _, name := range []string{"alice", "bob", "carol"} {
		_, err := svc.Register(ctx, RegisterInput{Username: name, Email: name + "@example.com", Password: "Xq7!vR2mZp9w"})
		require.NoError(t, err)
	}
	page, err := svc.List(ctx, ListQuery{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.List, 2)
	assert.EqualValues(t, 3, page.Total)

	page, err = svc.List(ctx, ListQuery{Q: "bob"})
	require.NoError(t, err)
	require.Len(t, page.List, 1)
	assert.Equal(t, "bob", page.List[0].Username)
}
