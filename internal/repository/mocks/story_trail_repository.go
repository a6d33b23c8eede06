package mocks

import (
	context "context"

	model "go_5_real_english/internal/model"

	uuid "github.com/google/uuid"
	mock "github.com/stretchr/testify/mock"
	gorm "gorm.io/gorm"
)

// StoryTrailRepository is a mock type for the StoryTrailRepository type
type StoryTrailRepository struct {
	mock.Mock
}

func (_m *StoryTrailRepository) FindByID(ctx context.Context, db *gorm.DB, trailID uuid.UUID) (*model.Trail, error) {
	ret := _m.Called(ctx, db, trailID)
	var r0 *model.Trail
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Trail)
	}
	return r0, ret.Error(1)
}

func (_m *StoryTrailRepository) FindNextIncompleteByLevel(ctx context.Context, db *gorm.DB, level int, userID uuid.UUID) (*model.Trail, error) {
	ret := _m.Called(ctx, db, level, userID)
	var r0 *model.Trail
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Trail)
	}
	return r0, ret.Error(1)
}

func (_m *StoryTrailRepository) FindFirstByLevel(ctx context.Context, db *gorm.DB, level int) (*model.Trail, error) {
	ret := _m.Called(ctx, db, level)
	var r0 *model.Trail
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Trail)
	}
	return r0, ret.Error(1)
}

func (_m *StoryTrailRepository) Save(ctx context.Context, db *gorm.DB, trail *model.Trail) error {
	ret := _m.Called(ctx, db, trail)
	return ret.Error(0)
}

func (_m *StoryTrailRepository) FindSegmentByID(ctx context.Context, db *gorm.DB, segmentID uuid.UUID) (model.Segment, error) {
	ret := _m.Called(ctx, db, segmentID)
	var r0 model.Segment
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(model.Segment)
	}
	return r0, ret.Error(1)
}

func (_m *StoryTrailRepository) UpdateSegmentAudioURL(ctx context.Context, db *gorm.DB, segmentID uuid.UUID, audioURL string) error {
	ret := _m.Called(ctx, db, segmentID, audioURL)
	return ret.Error(0)
}

// NewStoryTrailRepository creates a new instance of StoryTrailRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewStoryTrailRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *StoryTrailRepository {
	m := &StoryTrailRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
