package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"
)

// SpeechSynthesizer is a mock type for the SpeechSynthesizer type
type SpeechSynthesizer struct {
	mock.Mock
}

func (_m *SpeechSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	ret := _m.Called(ctx, text)
	var r0 []byte
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}
	return r0, ret.Error(1)
}

// NewSpeechSynthesizer creates a new instance of SpeechSynthesizer. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewSpeechSynthesizer(t interface {
	mock.TestingT
	Cleanup(func())
}) *SpeechSynthesizer {
	m := &SpeechSynthesizer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
