package mocks

import (
	context "context"

	uuid "github.com/google/uuid"
	mock "github.com/stretchr/testify/mock"
	gorm "gorm.io/gorm"
)

// ProgressRepository is a mock type for the ProgressRepository type
type ProgressRepository struct {
	mock.Mock
}

func (_m *ProgressRepository) MarkCompleted(ctx context.Context, db *gorm.DB, userID uuid.UUID, trailID uuid.UUID) (bool, error) {
	ret := _m.Called(ctx, db, userID, trailID)
	return ret.Bool(0), ret.Error(1)
}

func (_m *ProgressRepository) CountCompletedAtLevel(ctx context.Context, db *gorm.DB, userID uuid.UUID, level int) (int64, error) {
	ret := _m.Called(ctx, db, userID, level)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *ProgressRepository) CountCompleted(ctx context.Context, db *gorm.DB, userID uuid.UUID) (int64, error) {
	ret := _m.Called(ctx, db, userID)
	return ret.Get(0).(int64), ret.Error(1)
}

// NewProgressRepository creates a new instance of ProgressRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewProgressRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *ProgressRepository {
	m := &ProgressRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
