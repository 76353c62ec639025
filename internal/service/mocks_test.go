package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"go-task-manager/internal/model"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) FindByID(ctx context.Context, id string) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) Create(ctx context.Context, u model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserStore) Update(ctx context.Context, u model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserStore) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

func (m *MockUserStore) UpdateAvatar(ctx context.Context, userID string, avatarURL string) error {
	args := m.Called(ctx, userID, avatarURL)
	return args.Error(0)
}

func (m *MockUserStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserStore) List(ctx context.Context) ([]model.PublicUser, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.PublicUser), args.Error(1)
}

type MockTaskStore struct {
	mock.Mock
}

func (m *MockTaskStore) Create(ctx context.Context, t model.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskStore) FindByID(ctx context.Context, id string) (model.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskStore) ListByUser(ctx context.Context, userID string, state string) ([]model.Task, error) {
	args := m.Called(ctx, userID, state)
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskStore) Update(ctx context.Context, t model.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskStore) UpdateState(ctx context.Context, id string, state string) (model.Task, error) {
	args := m.Called(ctx, id, state)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskStore) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskStore) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockKPIStore struct {
	mock.Mock
}

func (m *MockKPIStore) CountByState(ctx context.Context, userID string) ([]model.StateCount, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.StateCount), args.Error(1)
}

func (m *MockKPIStore) CountPendingByPriority(ctx context.Context, userID string) ([]model.PriorityCount, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.PriorityCount), args.Error(1)
}

func (m *MockKPIStore) CountCompletedBetween(ctx context.Context, userID string, from time.Time, to time.Time) (int, error) {
	args := m.Called(ctx, userID, from, to)
	return args.Int(0), args.Error(1)
}

func (m *MockKPIStore) CompletedCountPerDay(ctx context.Context, userID string, from time.Time, to time.Time) (map[string]int, error) {
	args := m.Called(ctx, userID, from, to)
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockKPIStore) AvgCompletionMinutesByPriority(ctx context.Context, userID string) ([]model.PriorityCompletionAvg, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.PriorityCompletionAvg), args.Error(1)
}

type MockRecoveryMarker struct {
	mock.Mock
}

func (m *MockRecoveryMarker) Consume(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

// recordingMailer captures outgoing mail so tests can inspect rendered
// recipients and variables without a mock expectation per call.
type recordingMailer struct {
	sent []MailMessage
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg MailMessage) error {
	m.sent = append(m.sent, msg)
	return m.err
}
