package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name" validate:"required,max=10"`
	Start string `json:"startTime" validate:"required,hhmm"`
}

func TestStructReportsJSONFieldName(t *testing.T) {
	err := Struct(sample{Name: "", Start: "08:00"})
	require.Error(t, err)

	fe, ok := IsFieldError(err)
	require.True(t, ok)
	assert.Equal(t, "name", fe.Field)
	assert.Equal(t, "must not be empty", fe.Message)
}

func TestStructHHMM(t *testing.T) {
	valid := []string{"00:00", "08:30", "23:59"}
	for _, s := range valid {
		assert.NoError(t, Struct(sample{Name: "ok", Start: s}), s)
	}

	invalid := []string{"24:00", "8:30", "08:60", "0830", "ab:cd"}
	for _, s := range invalid {
		err := Struct(sample{Name: "ok", Start: s})
		require.Error(t, err, s)
		fe, ok := IsFieldError(err)
		require.True(t, ok)
		assert.Equal(t, "startTime", fe.Field)
	}
}

func TestStructMax(t *testing.T) {
	err := Struct(sample{Name: "this name is too long", Start: "08:00"})
	require.Error(t, err)

	fe, ok := IsFieldError(err)
	require.True(t, ok)
	assert.Equal(t, "must be at most 10", fe.Message)
}
