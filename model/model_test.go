package model

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguageTotalsAccumulation(t *testing.T) {
	totals := NewLanguageTotals()
	totals.Add(LanguageByteMap{"JavaScript": 300})
	totals.Add(LanguageByteMap{"Python": 100, "JavaScript": 100, "CSS": 100})

	assert.Equal(t, []string{"JavaScript", "CSS", "Python"}, totals.Names())
	assert.Equal(t, int64(400), totals.Bytes("JavaScript"))
	assert.Equal(t, int64(100), totals.Bytes("Python"))
	assert.Equal(t, int64(0), totals.Bytes("Go"))
	assert.Equal(t, int64(600), totals.TotalBytes())
	assert.Equal(t, 3, totals.Len())
}

func TestSortedNames(t *testing.T) {
	languages := LanguageByteMap{"Shell": 10, "Go": 500, "Makefile": 10, "HTML": 40}

	assert.Equal(t, []string{"Go", "HTML", "Makefile", "Shell"}, languages.SortedNames())
	assert.Empty(t, LanguageByteMap{}.SortedNames())
}

func TestOtherPercentage(t *testing.T) {
	tests := []struct {
		name     string
		top      []RankedLanguage
		expected int
	}{
		{name: "No languages", top: nil, expected: 100},
		{name: "Full coverage", top: []RankedLanguage{{Name: "Go", Bytes: 50, Percentage: 100}}, expected: 0},
		{name: "Partial coverage", top: []RankedLanguage{{Name: "Go", Percentage: 60}, {Name: "C", Percentage: 30}}, expected: 10},
		{name: "Rounding above 100", top: []RankedLanguage{{Name: "A", Percentage: 51}, {Name: "B", Percentage: 50}}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, OtherPercentage(tt.top))
		})
	}
}

func TestLanguagesLimit(t *testing.T) {
	limit := 0

	assert.Equal(t, 5, ProfileQuery{Username: "octocat"}.LanguagesLimit(5))
	assert.Equal(t, 0, ProfileQuery{Username: "octocat", Limit: &limit}.LanguagesLimit(5))
	assert.Equal(t, "octocat/hello", RepositoryRef{Owner: "octocat", Name: "hello"}.FullName())
}

func TestNewAPIError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{name: "Rate limit", err: ErrRateLimitReached, expectedStatus: http.StatusTooManyRequests, expectedCode: "RATE_LIMIT_REACHED"},
		{name: "User not found", err: ErrUserNotFound, expectedStatus: http.StatusNotFound, expectedCode: "USER_NOT_FOUND"},
		{name: "Invalid query", err: ErrInvalidQuery, expectedStatus: http.StatusBadRequest, expectedCode: "INVALID_QUERY"},
		{name: "Wrapped fetch error", err: fmt.Errorf("list repositories: %w", ErrFetch), expectedStatus: http.StatusInternalServerError, expectedCode: "FETCH_ERROR"},
		{name: "Rate limiter error", err: ErrRateLimiter, expectedStatus: http.StatusInternalServerError, expectedCode: "RATE_LIMITER_ERROR"},
		{name: "Unknown error", err: errors.New("boom"), expectedStatus: http.StatusInternalServerError, expectedCode: "GENERIC_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, apiErr := NewAPIError(tt.err)

			assert.Equal(t, tt.expectedStatus, status)
			assert.Equal(t, tt.expectedCode, apiErr.Code)
			assert.NotEmpty(t, apiErr.Message)
		})
	}
}
