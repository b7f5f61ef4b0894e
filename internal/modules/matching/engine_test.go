package matching

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"homecrew/internal/domain"
)

type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) Get(ctx context.Context, id string) (*domain.Worker, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Worker), args.Error(1)
}

func (m *MockDirectory) ListByCityAndSkill(ctx context.Context, city string, skill domain.Skill) ([]domain.Worker, error) {
	args := m.Called(ctx, city, skill)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Worker), args.Error(1)
}

func mumbaiPlumbers() []domain.Worker {
	return []domain.Worker{
		{ID: "w-01", Name: "First", Skill: domain.SkillPlumber, City: "Mumbai", Available: true},
		{ID: "w-02", Name: "Second", Skill: domain.SkillPlumber, City: "Mumbai", Available: true, RatingTenths: 50},
	}
}

// First-eligible-wins is the whole algorithm: a higher-rated worker later in
// the list is never preferred.
func TestAssign_FirstEligibleWins(t *testing.T) {
	dir := new(MockDirectory)
	dir.On("ListByCityAndSkill", mock.Anything, "Mumbai", domain.SkillPlumber).Return(mumbaiPlumbers(), nil)
	engine := NewEngine(dir, zap.NewNop())

	w, err := engine.Assign(context.Background(), Request{City: "Mumbai", Skill: domain.SkillPlumber})
	require.NoError(t, err)
	assert.Equal(t, "w-01", w.ID)
}

func TestAssign_Deterministic(t *testing.T) {
	dir := new(MockDirectory)
	dir.On("ListByCityAndSkill", mock.Anything, "Mumbai", domain.SkillPlumber).Return(mumbaiPlumbers(), nil)
	engine := NewEngine(dir, zap.NewNop())

	req := Request{City: "Mumbai", Skill: domain.SkillPlumber}
	first, err := engine.Assign(context.Background(), req)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		w, err := engine.Assign(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, first.ID, w.ID)
	}
}

func TestAssign_NoMatch(t *testing.T) {
	dir := new(MockDirectory)
	dir.On("ListByCityAndSkill", mock.Anything, "Pune", domain.SkillElectrician).Return([]domain.Worker{}, nil)
	engine := NewEngine(dir, zap.NewNop())

	w, err := engine.Assign(context.Background(), Request{City: "Pune", Skill: domain.SkillElectrician})
	assert.Nil(t, w)
	assert.ErrorIs(t, err, domain.ErrNoMatch)
}

// A preferred worker is assigned even when unavailable and in another city.
func TestAssign_PreferredWorkerNotRevalidated(t *testing.T) {
	stale := &domain.Worker{ID: "w-09", Skill: domain.SkillCarpenter, City: "Delhi", Available: false}
	dir := new(MockDirectory)
	dir.On("Get", mock.Anything, "w-09").Return(stale, nil)
	engine := NewEngine(dir, zap.NewNop())

	w, err := engine.Assign(context.Background(), Request{City: "Mumbai", Skill: domain.SkillPlumber, PreferredWorkerID: "w-09"})
	require.NoError(t, err)
	assert.Equal(t, "w-09", w.ID)
	dir.AssertNotCalled(t, "ListByCityAndSkill", mock.Anything, mock.Anything, mock.Anything)
}

func TestAssign_PreferredWorkerUnknown(t *testing.T) {
	dir := new(MockDirectory)
	dir.On("Get", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)
	engine := NewEngine(dir, zap.NewNop())

	_, err := engine.Assign(context.Background(), Request{City: "Mumbai", Skill: domain.SkillPlumber, PreferredWorkerID: "ghost"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAssign_StorageError(t *testing.T) {
	dir := new(MockDirectory)
	dir.On("ListByCityAndSkill", mock.Anything, "Mumbai", domain.SkillPlumber).Return(nil, domain.ErrStorage)
	engine := NewEngine(dir, zap.NewNop())

	_, err := engine.Assign(context.Background(), Request{City: "Mumbai", Skill: domain.SkillPlumber})
	assert.ErrorIs(t, err, domain.ErrStorage)
}
