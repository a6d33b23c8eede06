package mocks

import (
	context "context"

	model "go_5_real_english/internal/model"

	uuid "github.com/google/uuid"
	mock "github.com/stretchr/testify/mock"
	gorm "gorm.io/gorm"
)

// IdentityRepository is a mock type for the IdentityRepository type
type IdentityRepository struct {
	mock.Mock
}

func (_m *IdentityRepository) Create(ctx context.Context, db *gorm.DB, identity *model.Identity) error {
	ret := _m.Called(ctx, db, identity)
	return ret.Error(0)
}

func (_m *IdentityRepository) FindByProvider(ctx context.Context, db *gorm.DB, authProvider string, providerID string) (*model.Identity, error) {
	ret := _m.Called(ctx, db, authProvider, providerID)
	var r0 *model.Identity
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Identity)
	}
	return r0, ret.Error(1)
}

func (_m *IdentityRepository) FindByUserAndProvider(ctx context.Context, db *gorm.DB, userID uuid.UUID, authProvider string) (*model.Identity, error) {
	ret := _m.Called(ctx, db, userID, authProvider)
	var r0 *model.Identity
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Identity)
	}
	return r0, ret.Error(1)
}

func (_m *IdentityRepository) UpdatePasswordHash(ctx context.Context, db *gorm.DB, userID uuid.UUID, passwordHash string) error {
	ret := _m.Called(ctx, db, userID, passwordHash)
	return ret.Error(0)
}

// NewIdentityRepository creates a new instance of IdentityRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewIdentityRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *IdentityRepository {
	m := &IdentityRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
