package news

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	newsdomain "newsfeed-service/internal/domain/news"
	domain "newsfeed-service/internal/domain/user"
	apperrors "newsfeed-service/pkg/errors"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *domain.User) (int64, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) ReplacePreferences(ctx context.Context, id int64, preferences []string) error {
	args := m.Called(ctx, id, preferences)
	return args.Error(0)
}

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Everything(ctx context.Context, query string) (*newsdomain.Result, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*newsdomain.Result), args.Error(1)
}

func (m *MockProvider) TopHeadlines(ctx context.Context, country string) (*newsdomain.Result, error) {
	args := m.Called(ctx, country)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*newsdomain.Result), args.Error(1)
}

func result(articles string) *newsdomain.Result {
	return &newsdomain.Result{Status: "ok", Articles: json.RawMessage(articles)}
}

func TestFetch_PreferencesBecomeDisjunctiveQuery(t *testing.T) {
	repo := new(MockRepository)
	provider := new(MockProvider)
	svc := New(repo, provider, "in", zaptest.NewLogger(t))

	repo.On("GetByID", mock.Anything, int64(7)).
		Return(&domain.User{ID: 7, Preferences: []string{"cricket", "politics", "tech"}}, nil)
	provider.On("Everything", mock.Anything, "cricket OR politics OR tech").
		Return(result(`[{"title":"a"}]`), nil)

	articles, err := svc.Fetch(context.Background(), 7)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"title":"a"}]`, string(articles))

	provider.AssertExpectations(t)
	provider.AssertNotCalled(t, "TopHeadlines", mock.Anything, mock.Anything)
}

func TestFetch_SinglePreferenceHasNoSeparator(t *testing.T) {
	repo := new(MockRepository)
	provider := new(MockProvider)
	svc := New(repo, provider, "in", zaptest.NewLogger(t))

	repo.On("GetByID", mock.Anything, int64(7)).
		Return(&domain.User{ID: 7, Preferences: []string{"cricket"}}, nil)
	provider.On("Everything", mock.Anything, "cricket").Return(result(`[]`), nil)

	_, err := svc.Fetch(context.Background(), 7)
	require.NoError(t, err)
	provider.AssertExpectations(t)
}

func TestFetch_EmptyPreferencesFallBackToHeadlines(t *testing.T) {
	repo := new(MockRepository)
	provider := new(MockProvider)
	svc := New(repo, provider, "in", zaptest.NewLogger(t))

	repo.On("GetByID", mock.Anything, int64(7)).
		Return(&domain.User{ID: 7, Preferences: []string{}}, nil)
	provider.On("TopHeadlines", mock.Anything, "in").Return(result(`[{"title":"h"}]`), nil)

	articles, err := svc.Fetch(context.Background(), 7)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"title":"h"}]`, string(articles))

	provider.AssertNotCalled(t, "Everything", mock.Anything, mock.Anything)
}

func TestFetch_StaleTokenFallsBackToHeadlines(t *testing.T) {
	repo := new(MockRepository)
	provider := new(MockProvider)
	svc := New(repo, provider, "in", zaptest.NewLogger(t))

	repo.On("GetByID", mock.Anything, int64(99)).Return(nil, apperrors.ErrUserNotFound)
	provider.On("TopHeadlines", mock.Anything, "in").Return(result(`[]`), nil)

	_, err := svc.Fetch(context.Background(), 99)
	require.NoError(t, err)
	provider.AssertExpectations(t)
}

func TestFetch_RepositoryFailureIsNotMaskedAsUpstream(t *testing.T) {
	repo := new(MockRepository)
	provider := new(MockProvider)
	svc := New(repo, provider, "in", zaptest.NewLogger(t))

	repo.On("GetByID", mock.Anything, int64(7)).Return(nil, errors.New("disk failure"))

	_, err := svc.Fetch(context.Background(), 7)
	require.Error(t, err)
	var uerr *apperrors.UpstreamError
	assert.False(t, errors.As(err, &uerr))
	provider.AssertNotCalled(t, "Everything", mock.Anything, mock.Anything)
	provider.AssertNotCalled(t, "TopHeadlines", mock.Anything, mock.Anything)
}

func TestFetch_ProviderFailureBecomesUpstreamError(t *testing.T) {
	repo := new(MockRepository)
	provider := new(MockProvider)
	svc := New(repo, provider, "in", zaptest.NewLogger(t))

	repo.On("GetByID", mock.Anything, int64(7)).
		Return(&domain.User{ID: 7, Preferences: []string{"cricket"}}, nil)
	provider.On("Everything", mock.Anything, "cricket").Return(nil, errors.New("502 bad gateway"))

	_, err := svc.Fetch(context.Background(), 7)
	require.Error(t, err)
	var uerr *apperrors.UpstreamError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "News API failed", uerr.Message)
}
