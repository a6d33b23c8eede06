package mocks

import (
	context "context"

	model "go_5_real_english/internal/model"

	uuid "github.com/google/uuid"
	mock "github.com/stretchr/testify/mock"
	gorm "gorm.io/gorm"
)

// ImmersionRepository is a mock type for the ImmersionRepository type
type ImmersionRepository struct {
	mock.Mock
}

func (_m *ImmersionRepository) CreateShort(ctx context.Context, db *gorm.DB, short *model.ImmersionShort) error {
	ret := _m.Called(ctx, db, short)
	return ret.Error(0)
}

func (_m *ImmersionRepository) FindShortByID(ctx context.Context, db *gorm.DB, shortID uuid.UUID) (*model.ImmersionShort, error) {
	ret := _m.Called(ctx, db, shortID)
	var r0 *model.ImmersionShort
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.ImmersionShort)
	}
	return r0, ret.Error(1)
}

func (_m *ImmersionRepository) FindFeed(ctx context.Context, db *gorm.DB, userID uuid.UUID, category model.ShortCategory, limit int) ([]model.ImmersionShort, error) {
	ret := _m.Called(ctx, db, userID, category, limit)
	var r0 []model.ImmersionShort
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.ImmersionShort)
	}
	return r0, ret.Error(1)
}

func (_m *ImmersionRepository) MarkWatched(ctx context.Context, db *gorm.DB, userID uuid.UUID, shortID uuid.UUID) error {
	ret := _m.Called(ctx, db, userID, shortID)
	return ret.Error(0)
}

func (_m *ImmersionRepository) ToggleSave(ctx context.Context, db *gorm.DB, userID uuid.UUID, shortID uuid.UUID) (bool, error) {
	ret := _m.Called(ctx, db, userID, shortID)
	return ret.Bool(0), ret.Error(1)
}

func (_m *ImmersionRepository) FindSaved(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]model.ImmersionShort, error) {
	ret := _m.Called(ctx, db, userID)
	var r0 []model.ImmersionShort
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.ImmersionShort)
	}
	return r0, ret.Error(1)
}

func (_m *ImmersionRepository) CountWatched(ctx context.Context, db *gorm.DB, userID uuid.UUID) (int64, error) {
	ret := _m.Called(ctx, db, userID)
	return ret.Get(0).(int64), ret.Error(1)
}

// NewImmersionRepository creates a new instance of ImmersionRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewImmersionRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *ImmersionRepository {
	m := &ImmersionRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
