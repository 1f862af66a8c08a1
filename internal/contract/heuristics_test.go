package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUtilPath(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"src/util/strings.c", true},
		{"src/Utils.java", true},
		{"lib/HELPER.py", true},
		{"lib/string_helpers.h", true},
		{"test/util_test.go", true},
		{"src/main.c", false},
		{"src/test/main_test.c", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsUtilPath(tt.path))
		})
	}
}

func TestIsTestPath(t *testing.T) {
	assert.True(t, IsTestPath("src/Test/a.c"))
	assert.True(t, IsTestPath("a_test.go"))
	assert.False(t, IsTestPath("src/util.c"))
}

func TestIsPromotionCandidate(t *testing.T) {
	assert.True(t, IsPromotionCandidate("src/UTIL/a.c"))
	assert.True(t, IsPromotionCandidate("src/helper/a.c"))
	assert.False(t, IsPromotionCandidate("src/Helper/a.c"), "helper match is case-sensitive")
	assert.False(t, IsPromotionCandidate("src/main.c"))
}
