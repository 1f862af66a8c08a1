package contract

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockGitClient is a mock type for the GitClient type.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	mockArgs := []any{ctx, repoPath}
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// GetRepoRoot implements the GitClient interface.
func (m *MockGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	ret := m.Called(ctx, contextPath)
	return ret.String(0), ret.Error(1)
}

// Checkout implements the GitClient interface.
func (m *MockGitClient) Checkout(ctx context.Context, repoPath string, ref string) error {
	return m.Called(ctx, repoPath, ref).Error(0)
}

// Pull implements the GitClient interface.
func (m *MockGitClient) Pull(ctx context.Context, repoPath string) error {
	return m.Called(ctx, repoPath).Error(0)
}

// GetFollowRenameLog implements the GitClient interface.
func (m *MockGitClient) GetFollowRenameLog(ctx context.Context, repoPath string, path string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, path)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// GetRenameLog implements the GitClient interface.
func (m *MockGitClient) GetRenameLog(ctx context.Context, repoPath string) ([]byte, error) {
	ret := m.Called(ctx, repoPath)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// MockToolRunner is a mock type for the ToolRunner type.
type MockToolRunner struct {
	mock.Mock
}

var _ ToolRunner = &MockToolRunner{} // Compile-time check

// Run implements the ToolRunner interface.
func (m *MockToolRunner) Run(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	mockArgs := []any{ctx, dir, name}
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}
