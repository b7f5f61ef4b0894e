package auth

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"homecrew/internal/database"
	"homecrew/internal/domain"
	"homecrew/internal/notification"
	"homecrew/internal/pkg/jwt"
	"homecrew/internal/repository"
)

type capturingSink struct {
	mu   sync.Mutex
	sent []notification.Message
	err  error
}

func (s *capturingSink) Send(_ context.Context, msg notification.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return s.err
}

var codePattern = regexp.MustCompile(`code is: (\d{6})`)

func (s *capturingSink) lastCode(t *testing.T) string {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.sent)
	m := codePattern.FindStringSubmatch(s.sent[len(s.sent)-1].Body)
	require.Len(t, m, 2)
	return m[1]
}

type fixture struct {
	svc   *Service
	sink  *capturingSink
	codes *MemoryCodeStore
	jwt   *jwt.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.ConnectInMemory()
	require.NoError(t, err)

	f := &fixture{
		sink:  &capturingSink{},
		codes: NewMemoryCodeStore(10 * time.Minute),
		jwt:   jwt.New("test-secret", time.Hour),
	}
	users := repository.NewUserRepository(db, time.Second)
	f.svc = NewService(users, f.codes, f.jwt, f.sink, "pepper", zap.NewNop())
	return f
}

func registration() RegisterRequest {
	return RegisterRequest{
		Name:     "Priya Nair",
		Email:    "Priya@Example.com ",
		Phone:    "+91-9000000000",
		Password: "secret123",
	}
}

func TestRegisterVerifyLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.svc.Register(ctx, registration())
	require.NoError(t, err)
	assert.Equal(t, "priya@example.com", user.Email)
	assert.Equal(t, domain.RoleCustomer, user.Role)
	assert.False(t, user.EmailVerified)
	assert.Empty(t, user.PasswordHash)

	require.Len(t, f.sink.sent, 1)
	assert.Equal(t, "priya@example.com", f.sink.sent[0].To)
	code := f.sink.lastCode(t)

	_, err = f.svc.Login(ctx, LoginRequest{Email: "priya@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrEmailNotVerified)

	verified, err := f.svc.Verify(ctx, "priya@example.com", code)
	require.NoError(t, err)
	assert.True(t, verified.EmailVerified)

	_, err = f.codes.Get(ctx, "priya@example.com")
	assert.ErrorIs(t, err, ErrCodeExpired, "code is single use")

	res, err := f.svc.Login(ctx, LoginRequest{Email: "PRIYA@example.com", Password: "secret123"})
	require.NoError(t, err)
	claims, err := f.jwt.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "customer", claims.Role)

	me, err := f.svc.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Priya Nair", me.Name)
	assert.Empty(t, me.PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, registration())
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, registration())
	assert.ErrorIs(t, err, ErrPendingVerification)

	_, err = f.svc.Verify(ctx, "priya@example.com", f.sink.lastCode(t))
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, registration())
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)

	req := registration()
	req.Password = "123"
	_, err := f.svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrValidation)

	req = registration()
	req.Email = "not-an-email"
	_, err = f.svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, f.sink.sent)
}

func TestRegister_DeliveryFailureKeepsAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.sink.err = errors.New("smtp down")

	_, err := f.svc.Register(ctx, registration())
	require.NoError(t, err)

	f.sink.err = nil
	require.NoError(t, f.svc.ResendCode(ctx, "priya@example.com"))
	require.Len(t, f.sink.sent, 2)

	_, err = f.svc.Verify(ctx, "priya@example.com", f.sink.lastCode(t))
	require.NoError(t, err)
	assert.ErrorIs(t, f.svc.ResendCode(ctx, "priya@example.com"), ErrAlreadyVerified)
}

func TestVerify_WrongAndExpiredCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, registration())
	require.NoError(t, err)
	code := f.sink.lastCode(t)

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	_, err = f.svc.Verify(ctx, "priya@example.com", wrong)
	assert.ErrorIs(t, err, ErrInvalidCode)

	_, err = f.svc.Verify(ctx, "nobody@example.com", code)
	assert.ErrorIs(t, err, ErrInvalidCode)

	f.codes.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = f.svc.Verify(ctx, "priya@example.com", code)
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Login(ctx, LoginRequest{Email: "ghost@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Register(ctx, registration())
	require.NoError(t, err)
	_, err = f.svc.Verify(ctx, "priya@example.com", f.sink.lastCode(t))
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, LoginRequest{Email: "priya@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestEnsureAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admin, err := f.svc.EnsureAdmin(ctx, "HomeCrew Admin", "admin@homecrew.com", "admin123")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCompany, admin.Role)
	assert.True(t, admin.EmailVerified)

	again, err := f.svc.EnsureAdmin(ctx, "HomeCrew Admin", "admin@homecrew.com", "rotated-pass")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, again.ID)

	_, err = f.svc.Login(ctx, LoginRequest{Email: "admin@homecrew.com", Password: "admin123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	res, err := f.svc.Login(ctx, LoginRequest{Email: "admin@homecrew.com", Password: "rotated-pass"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCompany, res.User.Role)

	_, err = f.svc.Register(ctx, registration())
	require.NoError(t, err)
	_, err = f.svc.EnsureAdmin(ctx, "x", "priya@example.com", "secret123")
	assert.ErrorIs(t, err, ErrNotAdmin)
}

func TestGenerateCode_SixDigits(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		assert.Regexp(t, `^[1-9]\d{5}$`, code)
	}
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) MarkVerified(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

func TestRegister_ConcurrentDuplicateInsert(t *testing.T) {
	users := new(mockUserRepo)
	users.On("GetByEmail", mock.Anything, "priya@example.com").Return(nil, domain.ErrNotFound)
	users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(repository.ErrDuplicate)

	svc := NewService(users, NewMemoryCodeStore(time.Minute), jwt.New("s", time.Hour), nil, "p", zap.NewNop())
	_, err := svc.Register(context.Background(), registration())
	assert.ErrorIs(t, err, ErrPendingVerification)
	users.AssertExpectations(t)
}

func TestLogin_StorageErrorPassesThrough(t *testing.T) {
	users := new(mockUserRepo)
	storageErr := errors.Join(domain.ErrStorage, errors.New("connection reset"))
	users.On("GetByEmail", mock.Anything, "priya@example.com").Return(nil, storageErr)

	svc := NewService(users, NewMemoryCodeStore(time.Minute), jwt.New("s", time.Hour), nil, "p", zap.NewNop())
	_, err := svc.Login(context.Background(), LoginRequest{Email: "priya@example.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_HashComparison(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	users := new(mockUserRepo)
	users.On("GetByEmail", mock.Anything, "priya@example.com").Return(&domain.User{
		ID: "u1", Email: "priya@example.com", PasswordHash: string(hash), Role: domain.RoleCustomer, EmailVerified: true,
	}, nil)

	svc := NewService(users, NewMemoryCodeStore(time.Minute), jwt.New("s", time.Hour), nil, "p", zap.NewNop())
	res, err := svc.Login(context.Background(), LoginRequest{Email: "priya@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Empty(t, res.User.PasswordHash)
}
