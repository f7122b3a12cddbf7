package common

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_Generation(t *testing.T) {
	tests := []struct {
		name string
		test func(*testing.T)
	}{
		{
			name: "NewID generates unique IDs",
			test: func(t *testing.T) {
				id1 := NewID()
				id2 := NewID()

				assert.NotEqual(t, id1, id2)
				assert.NotEmpty(t, id1)
				assert.NotEmpty(t, id2)
			},
		},
		{
			name: "NewID generates valid UUIDs",
			test: func(t *testing.T) {
				id := NewID()
				assert.True(t, id.IsValid())

				_, err := uuid.Parse(string(id))
				assert.NoError(t, err)
			},
		},
		{
			name: "IsValid returns false for invalid UUIDs",
			test: func(t *testing.T) {
				invalidIDs := []string{
					"invalid-uuid",
					"",
					"550e8400-e29b-41d4-a716",
					"not-a-uuid-at-all",
				}

				for _, invalidID := range invalidIDs {
					id := ID(invalidID)
					assert.False(t, id.IsValid(), "Expected %s to be invalid", invalidID)
				}
			},
		},
		{
			name: "String returns string representation",
			test: func(t *testing.T) {
				testString := "test-id-string"
				id := ID(testString)
				assert.Equal(t, testString, id.String())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.test)
	}
}

func TestTypedIDs(t *testing.T) {
	t.Run("typed IDs share the underlying value but stay distinct types", func(t *testing.T) {
		baseID := NewID()
		userID := UserID(baseID)
		chatID := ChatID(baseID)
		recordID := RecordID(baseID)

		assert.Equal(t, string(userID), string(chatID))
		assert.Equal(t, string(chatID), string(recordID))

		assert.IsType(t, UserID(""), userID)
		assert.IsType(t, ChatID(""), chatID)
		assert.IsType(t, RecordID(""), recordID)
	})

	t.Run("telegram numeric ids are representable", func(t *testing.T) {
		chatID := ChatID("123456789")
		assert.Equal(t, "123456789", string(chatID))
	})
}

func TestErrorTypes(t *testing.T) {
	tests := []struct {
		name     string
		error    error
		expected string
	}{
		{
			name: "ValidationError",
			error: ValidationError{
				Field:   "name",
				Message: "cannot be empty",
			},
			expected: "validation error for field 'name': cannot be empty",
		},
		{
			name: "NotFoundError",
			error: NotFoundError{
				Resource: "BirthdayRecord",
				ID:       "123",
			},
			expected: "BirthdayRecord with ID '123' not found",
		},
		{
			name: "InternalError without cause",
			error: InternalError{
				Message: "something went wrong",
			},
			expected: "internal error: something went wrong",
		},
		{
			name: "InternalError with cause",
			error: InternalError{
				Message: "database operation failed",
				Cause:   ValidationError{Field: "id", Message: "required"},
			},
			expected: "internal error: database operation failed (caused by: validation error for field 'id': required)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.error.Error())
		})
	}
}

func TestErrorUnwrapping(t *testing.T) {
	originalErr := ValidationError{Field: "test", Message: "test error"}
	wrappedErr := InternalError{
		Message: "wrapped error",
		Cause:   originalErr,
	}

	unwrapped := wrappedErr.Unwrap()
	assert.Equal(t, originalErr, unwrapped)

	noCauseErr := InternalError{Message: "no cause"}
	assert.Nil(t, noCauseErr.Unwrap())
}

func TestID_JSONMarshaling(t *testing.T) {
	id := NewID()

	jsonData, err := json.Marshal(id)
	require.NoError(t, err)

	var unmarshaled ID
	err = json.Unmarshal(jsonData, &unmarshaled)
	require.NoError(t, err)

	assert.Equal(t, id, unmarshaled)

	err = json.Unmarshal([]byte(`invalid`), &unmarshaled)
	assert.Error(t, err)
}

func TestRealClock_Now(t *testing.T) {
	clock := NewRealClock()

	before := time.Now()
	now := clock.Now()
	after := time.Now()

	assert.False(t, now.Before(before))
	assert.False(t, now.After(after))
}

func TestMockClock(t *testing.T) {
	initial := time.Date(2024, 2, 14, 9, 0, 0, 0, time.UTC)
	clock := NewMockClock(initial)

	assert.Equal(t, initial, clock.Now())

	clock.Advance(24 * time.Hour)
	assert.Equal(t, initial.Add(24*time.Hour), clock.Now())

	target := time.Date(2024, 12, 31, 9, 0, 0, 0, time.UTC)
	clock.SetTime(target)
	assert.Equal(t, target, clock.Now())
}
