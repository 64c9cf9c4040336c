package domain

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrValidation,
		ErrMedia,
		ErrStorage,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b,
					"sentinels should be distinct: %v vs %v", a, b)
			}
		}
	}
}

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name        string
		entity      string
		id          string
		expectedMsg string
	}{
		{
			name:        "with entity and ID",
			entity:      "image",
			id:          "a.png",
			expectedMsg: `image "a.png" not found`,
		},
		{
			name:        "with entity only",
			entity:      "quotation store",
			expectedMsg: "quotation store not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewNotFoundError(tt.entity, tt.id)

			assert.Equal(t, tt.expectedMsg, err.Error())
			assert.True(t, IsNotFound(err))
			assert.False(t, IsValidation(err))
		})
	}
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := NewValidationErrorWithValue("width", "must be an integer", "abc")

		assert.Equal(t, "validation failed for width: must be an integer", err.Error())
		assert.True(t, IsValidation(err))

		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "abc", ve.Value)
	})

	t.Run("without field", func(t *testing.T) {
		err := NewValidationError("", "missing required fields")

		assert.Equal(t, "validation failed: missing required fields", err.Error())
	})

	t.Run("survives wrapping", func(t *testing.T) {
		err := fmt.Errorf("building entry: %w", NewValidationError("title", "required"))

		assert.True(t, IsValidation(err))
	})
}

func TestMediaError(t *testing.T) {
	unsupported := NewUnsupportedMediaError()
	tooLarge := NewTooLargeError(10 << 20)

	assert.True(t, IsMedia(unsupported))
	assert.True(t, IsMedia(tooLarge))
	assert.Equal(t, "only JPG and PNG images are supported", unsupported.Error())
	assert.Equal(t, "file exceeds the 10MB limit", tooLarge.Error())

	var me *MediaError
	require.ErrorAs(t, tooLarge, &me)
	assert.Equal(t, MediaTooLarge, me.Reason)
}

func TestNewTooLargeError_Limits(t *testing.T) {
	tests := []struct {
		limit    int64
		expected string
	}{
		{limit: 10 << 20, expected: "file exceeds the 10MB limit"},
		{limit: 3 << 19, expected: "file exceeds the 1.5MB limit"},
		{limit: 10<<20 + 1, expected: "file exceeds the 10MB limit"},
		{limit: 512 << 10, expected: "file exceeds the 512KB limit"},
		{limit: 1536, expected: "file exceeds the 1.5KB limit"},
		{limit: 16, expected: "file exceeds the 16B limit"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.EqualError(t, NewTooLargeError(tt.limit), tt.expected)
		})
	}
}

func TestStorageError(t *testing.T) {
	err := NewStorageError("reading quotation store", os.ErrNotExist)

	assert.True(t, IsStorage(err))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, "reading quotation store: file does not exist", err.Error())
	assert.False(t, IsMedia(err))

	wrapped := fmt.Errorf("archive: %w", err)

	var se *StorageError
	require.True(t, errors.As(wrapped, &se))
	assert.Equal(t, "reading quotation store", se.Op)
}
