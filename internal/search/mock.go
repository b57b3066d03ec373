package search

import "github.com/stretchr/testify/mock"

// MockProvider is a testify mock of Provider.
//
//	p := new(MockProvider)
//	p.On("Score", "git", "git status").Return(3)
type MockProvider struct {
	mock.Mock
}

// Score returns the configured score.
func (m *MockProvider) Score(term, entry string) int {
	args := m.Called(term, entry)
	return args.Int(0)
}

// Name returns "mock".
func (m *MockProvider) Name() string {
	return "mock"
}
