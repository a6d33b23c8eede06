package mocks

import (
	context "context"

	model "go_5_real_english/internal/model"

	mock "github.com/stretchr/testify/mock"
)

// GoogleTokenVerifier is a mock type for the GoogleTokenVerifier type
type GoogleTokenVerifier struct {
	mock.Mock
}

func (_m *GoogleTokenVerifier) Verify(ctx context.Context, idToken string) (*model.GoogleIdentity, error) {
	ret := _m.Called(ctx, idToken)
	var r0 *model.GoogleIdentity
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.GoogleIdentity)
	}
	return r0, ret.Error(1)
}

// NewGoogleTokenVerifier creates a new instance of GoogleTokenVerifier. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewGoogleTokenVerifier(t interface {
	mock.TestingT
	Cleanup(func())
}) *GoogleTokenVerifier {
	m := &GoogleTokenVerifier{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
