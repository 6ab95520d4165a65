package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/siravitrin-eng/the-pos-67079349/models"
	"github.com/siravitrin-eng/the-pos-67079349/repository"
	"github.com/siravitrin-eng/the-pos-67079349/services"
)

// ---- mock user repository ----

type mockUserRepo struct {
	users     map[string]*models.User // by id
	insertErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*models.User)}
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepo) Insert(_ context.Context, u *models.User) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) UpdateDisplayName(_ context.Context, id, displayName string) error {
	u, ok := m.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.DisplayName = displayName
	return nil
}

// ---- mock identity provider ----

type mockIdentityProvider struct {
	claims    *services.FederatedClaims
	verifyErr error
}

func (m *mockIdentityProvider) Verify(_ context.Context, _ string) (*services.FederatedClaims, error) {
	if m.verifyErr != nil {
		return nil, m.verifyErr
	}
	return m.claims, nil
}

func newTestAuth(repo *mockUserRepo) services.AuthService {
	return newTestAuthWithProvider(repo, &mockIdentityProvider{verifyErr: services.ErrInvalidIDToken})
}

func newTestAuthWithProvider(repo *mockUserRepo, provider services.IdentityProvider) services.AuthService {
	logger, _ := zap.NewDevelopment()
	return services.NewAuthService(repo, provider, "test-secret", logger)
}

// ---- tests ----

func TestRegister_CreatesUserAndSession(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestAuth(repo)

	user, token, err := svc.Register(context.Background(), &models.RegisterRequest{
		Email: "a@b.co", Password: "secret1", DisplayName: "Somchai",
	})
	assert.Nil(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "Somchai", user.DisplayName)
	assert.False(t, user.IsAnonymous)
	// password is stored hashed
	assert.NotEqual(t, "secret1", repo.users[user.ID].Password)
}

func TestRegister_DuplicateEmailRejected(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestAuth(repo)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, &models.RegisterRequest{Email: "a@b.co", Password: "secret1", DisplayName: "A"})
	assert.Nil(t, err)

	_, _, err = svc.Register(ctx, &models.RegisterRequest{Email: "a@b.co", Password: "secret2", DisplayName: "B"})
	assert.NotNil(t, err)
	assert.Equal(t, 409, err.StatusCode)
}

func TestLogin_RoundTrip(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestAuth(repo)
	ctx := context.Background()

	_, _, _ = svc.Register(ctx, &models.RegisterRequest{Email: "a@b.co", Password: "secret1", DisplayName: "A"})

	user, token, err := svc.Login(ctx, &models.LoginRequest{Email: "a@b.co", Password: "secret1"})
	assert.Nil(t, err)
	assert.NotEmpty(t, token)

	claims, parseErr := svc.ParseToken(token)
	assert.NoError(t, parseErr)
	assert.Equal(t, user.ID, claims.UserID)
	assert.NotEmpty(t, claims.SessionID)
	assert.False(t, claims.IsAnonymous)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestAuth(repo)
	ctx := context.Background()

	_, _, _ = svc.Register(ctx, &models.RegisterRequest{Email: "a@b.co", Password: "secret1", DisplayName: "A"})

	_, _, err := svc.Login(ctx, &models.LoginRequest{Email: "a@b.co", Password: "wrong"})
	assert.NotNil(t, err)
	assert.Equal(t, 401, err.StatusCode)
}

func TestFederated_FirstSignInCreatesAccount(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestAuthWithProvider(repo, &mockIdentityProvider{
		claims: &services.FederatedClaims{
			Subject: "goog-123", Email: "fed@b.co", Name: "Fed User",
			Picture: "https://img.example/fed.png",
		},
	})

	user, token, err := svc.Federated(context.Background(), "provider-token")
	assert.Nil(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "fed@b.co", user.Email)
	assert.Equal(t, "Fed User", user.DisplayName)
	assert.Equal(t, "google", user.Provider)
	assert.False(t, user.IsAnonymous)
	assert.Len(t, repo.users, 1)
}

func TestFederated_RepeatSignInReusesAccount(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestAuthWithProvider(repo, &mockIdentityProvider{
		claims: &services.FederatedClaims{Subject: "goog-123", Email: "fed@b.co", Name: "Fed User"},
	})
	ctx := context.Background()

	first, _, err := svc.Federated(ctx, "provider-token")
	assert.Nil(t, err)
	second, _, err := svc.Federated(ctx, "provider-token")
	assert.Nil(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.users, 1)
}

func TestFederated_RejectedToken(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestAuthWithProvider(repo, &mockIdentityProvider{verifyErr: services.ErrInvalidIDToken})

	_, _, err := svc.Federated(context.Background(), "bad-token")
	assert.NotNil(t, err)
	assert.Equal(t, 401, err.StatusCode)
	assert.Empty(t, repo.users)
}

func TestGuest_AnonymousSession(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestAuth(repo)

	user, token, err := svc.Guest(context.Background())
	assert.Nil(t, err)
	assert.True(t, user.IsAnonymous)

	claims, parseErr := svc.ParseToken(token)
	assert.NoError(t, parseErr)
	assert.True(t, claims.IsAnonymous)
}

func TestParseToken_RejectsGarbage(t *testing.T) {
	svc := newTestAuth(newMockUserRepo())

	_, err := svc.ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestParseToken_RejectsForeignSignature(t *testing.T) {
	repo := newMockUserRepo()
	other := services.NewAuthService(repo, nil, "other-secret", zap.NewNop())

	_, token, _ := other.Guest(context.Background())

	svc := newTestAuth(repo)
	_, err := svc.ParseToken(token)
	assert.Error(t, err)
}

func TestIdentity_GuestFallbacks(t *testing.T) {
	identity := services.BuildIdentity(&models.User{ID: "u1", IsAnonymous: true})

	assert.Equal(t, "Guest User", identity.DisplayName)
	assert.Contains(t, identity.PhotoURL, "ui-avatars.com")
	assert.True(t, identity.IsAnonymous)
}

func TestIdentity_EmailFallback(t *testing.T) {
	identity := services.BuildIdentity(&models.User{ID: "u1", Email: "a@b.co"})

	assert.Equal(t, "a@b.co", identity.DisplayName)
	assert.False(t, identity.IsAnonymous)
}

func TestIdentity_KeepsExplicitPhoto(t *testing.T) {
	identity := services.BuildIdentity(&models.User{
		ID: "u1", DisplayName: "Somchai", PhotoURL: "https://img.example/me.png",
	})

	assert.Equal(t, "https://img.example/me.png", identity.PhotoURL)
}

func TestUpdateDisplayName(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestAuth(repo)
	ctx := context.Background()

	user, _, _ := svc.Guest(ctx)
	assert.Nil(t, svc.UpdateDisplayName(ctx, user.ID, "Named Guest"))

	identity, err := svc.Identity(ctx, user.ID)
	assert.Nil(t, err)
	assert.Equal(t, "Named Guest", identity.DisplayName)

	svcErr := svc.UpdateDisplayName(ctx, user.ID, "")
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}
