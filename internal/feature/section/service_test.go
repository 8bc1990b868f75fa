package section

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-api/internal/domain"
	"resume-api/internal/repo"
)

var (
	alice = domain.Actor{ID: 1, Role: domain.RoleUser}
	bob   = domain.Actor{ID: 2, Role: domain.RoleUser}
)

func newSkills() *Service[domain.Skill, *domain.Skill] {
	return NewService[domain.Skill]("skill", repo.NewMemorySectionRepo[domain.Skill](), nil)
}

func TestListEmpty(t *testing.T) {
	svc := newSkills()
	items, err := svc.List(context.Background(), alice)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestCreateForcesOwner(t *testing.T) {
	svc := newSkills()
	ctx := context.Background()

	in := &domain.Skill{Owned: domain.Owned{ID: 99, UserID: bob.ID}, Title: "  Go ", Rate: 4}
	out, err := svc.Create(ctx, alice, in)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, out.UserID)
	assert.NotEqual(t, uint(99), out.ID)
	assert.Equal(t, "Go", out.Title)

	mine, err := svc.List(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	theirs, err := svc.List(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestCreateValidation(t *testing.T) {
	svc := newSkills()
	_, err := svc.Create(context.Background(), alice, &domain.Skill{Title: "Go", Rate: 6})
	require.ErrorIs(t, err, domain.ErrValidation)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"Ensure this value is less than or equal to 5."}, ve.Fields["rate"])

	items, err := svc.List(context.Background(), alice)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestOwnershipEnforced(t *testing.T) {
	svc := newSkills()
	ctx := context.Background()
	m, err := svc.Create(ctx, alice, &domain.Skill{Title: "Go", Rate: 4})
	require.NoError(t, err)

	_, err = svc.Retrieve(ctx, bob, m.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = svc.Update(ctx, bob, m.ID, &domain.Skill{Title: "Rust", Rate: 1})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, bob, m.ID), domain.ErrForbidden)

	got, err := svc.Retrieve(ctx, alice, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go", got.Title)
}

func TestMissingRecord(t *testing.T) {
	svc := newSkills()
	ctx := context.Background()
	_, err := svc.Retrieve(ctx, alice, 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.Update(ctx, alice, 42, &domain.Skill{Title: "Go", Rate: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, alice, 42), domain.ErrNotFound)
}

func TestUpdateKeepsOwnerAndID(t *testing.T) {
	svc := newSkills()
	ctx := context.Background()
	m, err := svc.Create(ctx, alice, &domain.Skill{Title: "Go", Rate: 4})
	require.NoError(t, err)

	out, err := svc.Update(ctx, alice, m.ID, &domain.Skill{Owned: domain.Owned{ID: 500, UserID: bob.ID}, Title: "Go", Rate: 5})
	require.NoError(t, err)
	assert.Equal(t, m.ID, out.ID)
	assert.Equal(t, alice.ID, out.UserID)

	got, err := svc.Retrieve(ctx, alice, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Rate)
}

func TestDeleteThenList(t *testing.T) {
	svc := newSkills()
	ctx := context.Background()
	var changes int
	svc.OnChange = func(_ context.Context, owner uint) {
		assert.Equal(t, alice.ID, owner)
		changes++
	}
	m, err := svc.Create(ctx, alice, &domain.Skill{Title: "Go", Rate: 4})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, alice, m.ID))

	items, err := svc.List(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 2, changes)
}

func TestListOrdering(t *testing.T) {
	svc := NewService[domain.Certificate]("certificate", repo.NewMemorySectionRepo[domain.Certificate](), nil)
	ctx := context.Background()
	for _, d := range []string{"2019-05-01", "2023-01-15", "2021-07-30"} {
		date, err := domain.ParseDate(d)
		require.NoError(t, err)
		_, err = svc.Create(ctx, alice, &domain.Certificate{IssuingAuthority: "AWS", IssueDate: date})
		require.NoError(t, err)
	}
	items, err := svc.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "2023-01-15", items[0].IssueDate.String())
	assert.Equal(t, "2021-07-30", items[1].IssueDate.String())
	assert.Equal(t, "2019-05-01", items[2].IssueDate.String())
}

func TestEducationPeriodValidation(t *testing.T) {
	svc := NewService[domain.Education]("education", repo.NewMemorySectionRepo[domain.Education](), nil)
	start, _ := domain.ParseDate("2020-09-01")
	end, _ := domain.ParseDate("2019-06-30")
	_, err := svc.Create(context.Background(), alice, &domain.Education{
		Institution: "MIT", Degree: "BSc", StartDate: start, EndDate: &end,
	})
	require.ErrorIs(t, err, domain.ErrValidation)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "end_date")
}

func TestExperienceUpdatePeriodValidation(t *testing.T) {
	svc := NewService[domain.Experience]("experience", repo.NewMemorySectionRepo[domain.Experience](), nil)
	ctx := context.Background()
	start, _ := domain.ParseDate("2020-09-01")
	end, _ := domain.ParseDate("2022-06-30")
	before, _ := domain.ParseDate("2019-01-01")

	created, err := svc.Create(ctx, alice, &domain.Experience{
		Company: "Acme", Position: "Dev", StartDate: start, EndDate: &end, Description: "Shipped",
	})
	require.NoError(t, err)

	changes := 0
	svc.OnChange = func(context.Context, uint) { changes++ }
	_, err = svc.Update(ctx, alice, created.ID, &domain.Experience{
		Company: "Acme", Position: "Lead", StartDate: start, EndDate: &before, Description: "Shipped",
	})
	require.ErrorIs(t, err, domain.ErrValidation)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"Start date must be before the end date."}, ve.Fields["end_date"])
	assert.Zero(t, changes)

	stored, err := svc.Retrieve(ctx, alice, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dev", stored.Position)
	require.NotNil(t, stored.EndDate)
	assert.Equal(t, "2022-06-30", stored.EndDate.String())
}

func TestBioUpsert(t *testing.T) {
	svc := NewBioService(repo.NewMemoryBioRepo(), nil)
	ctx := context.Background()

	_, err := svc.Get(ctx, alice)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	b, created, err := svc.Put(ctx, alice, "Gopher <script>alert(1)</script>")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Gopher", b.Content)

	b2, created, err := svc.Put(ctx, alice, "Senior gopher")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, b.ID, b2.ID)

	_, _, err = svc.Put(ctx, alice, "   ")
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, svc.Delete(ctx, alice))
	assert.ErrorIs(t, svc.Delete(ctx, alice), domain.ErrNotFound)
}
