package completion

import "github.com/stretchr/testify/mock"

// MockLister is a testify mock of Lister.
type MockLister struct {
	mock.Mock
}

// List returns the configured names and error.
func (m *MockLister) List(dir string) ([]string, error) {
	args := m.Called(dir)
	var names []string
	if v := args.Get(0); v != nil {
		names = v.([]string)
	}
	return names, args.Error(1)
}
