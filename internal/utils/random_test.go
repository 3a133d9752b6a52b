package utils

import (
	"regexp"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/worklog/backend/internal/domain"
)

func TestGenerateRandomWorker(t *testing.T) {
	usernamePattern := regexp.MustCompile(`^[a-z]+[0-9]{1,3}$`)

	for i := 0; i < 50; i++ {
		w := GenerateRandomWorker()

		assert.GreaterOrEqual(t, w.TelegramID, int64(10_000_000))
		assert.Less(t, w.TelegramID, int64(100_000_000))

		n := utf8.RuneCountInString(w.FullName)
		assert.True(t, n >= 2 && n <= 3, w.FullName)

		require.NotNil(t, w.Username)
		assert.Regexp(t, usernamePattern, *w.Username)
		assert.True(t, w.IsActive)
	}
}

func TestGenerateRandomQuantity(t *testing.T) {
	for i := 0; i < 200; i++ {
		q := GenerateRandomQuantity(1, 200)
		assert.GreaterOrEqual(t, q, domain.Quantity(1000))
		assert.LessOrEqual(t, q, domain.Quantity(200000))
	}
}

func TestSampleWorkTypes(t *testing.T) {
	types := []*domain.WorkType{{ID: 1}, {ID: 2}, {ID: 3}}

	sample := SampleWorkTypes(types, 2)
	require.Len(t, sample, 2)
	assert.NotEqual(t, sample[0].ID, sample[1].ID)

	assert.Len(t, SampleWorkTypes(types, 5), 3)
	assert.Empty(t, SampleWorkTypes(types, 0))
	assert.Empty(t, SampleWorkTypes(types, -1))
	assert.Empty(t, SampleWorkTypes(nil, 2))
}
