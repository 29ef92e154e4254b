package helpers

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	// Test case 1: Check if an existing environment variable is retrieved
	expectedValue := "test value"
	t.Setenv("TEST_KEY", expectedValue)

	actualValue := GetEnv("TEST_KEY", "fallback")
	if actualValue != expectedValue {
		t.Errorf("expected value to be [%s], but got [%s]", expectedValue, actualValue)
	}

	// Test case 2: Check if a missing environment variable falls back to the default value
	expectedValue = "fallback"
	actualValue = GetEnv("TESTKIT_MISSING_KEY", expectedValue)
	if actualValue != expectedValue {
		t.Errorf("expected value to be [%s], but got [%s]", expectedValue, actualValue)
	}
}

func TestContains(t *testing.T) {
	slice := []string{"none", "warning", "error"}

	assert.True(t, Contains(slice, "warning"))
	assert.False(t, Contains(slice, "info"))
	assert.False(t, Contains(nil, "error"))
}

func TestSplitEnvEntry(t *testing.T) {
	tests := []struct {
		name          string
		entry         string
		expectedKey   string
		expectedValue string
		expectedOk    bool
	}{
		{name: "simple", entry: "USER=root", expectedKey: "USER", expectedValue: "root", expectedOk: true},
		{name: "value with separator", entry: "OPTS=a=b=c", expectedKey: "OPTS", expectedValue: "a=b=c", expectedOk: true},
		{name: "empty value", entry: "EMPTY=", expectedKey: "EMPTY", expectedValue: "", expectedOk: true},
		{name: "no separator", entry: "BROKEN", expectedOk: false},
		{name: "no key", entry: "=C:=C:\\", expectedOk: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, value, ok := SplitEnvEntry(tt.entry)

			assert.Equal(t, tt.expectedOk, ok)
			assert.Equal(t, tt.expectedKey, key)
			assert.Equal(t, tt.expectedValue, value)
		})
	}
}

func TestExcerpt(t *testing.T) {
	t.Run("short text is untouched", func(t *testing.T) {
		assert.Equal(t, "hello", Excerpt("hello", 10))
	})

	t.Run("long text is cut", func(t *testing.T) {
		assert.Equal(t, "hello... (6 more bytes)", Excerpt("hello world", 5))
	})

	t.Run("multibyte rune is not split", func(t *testing.T) {
		// "é" is two bytes, so a cut at 2 would land inside it.
		assert.Equal(t, "a... (3 more bytes)", Excerpt("aéb", 2))
	})

	t.Run("no limit", func(t *testing.T) {
		assert.Equal(t, "hello world", Excerpt("hello world", 0))
	})
}

func TestWriteToFile(t *testing.T) {
	fs := afero.NewMemMapFs()

	// Test case 1: Check the successful case, including missing parents
	filePath := "/reports/nested/report.yaml"
	err := WriteToFile(fs, filePath, []byte("verdict: passed\n"))
	assert.NoError(t, err)

	writtenData, err := afero.ReadFile(fs, filePath)
	assert.NoError(t, err)
	assert.Equal(t, "verdict: passed\n", string(writtenData))

	// Test case 2: Check the error case (we should get an error if the file cannot be written)
	fs = afero.NewReadOnlyFs(fs)
	err = WriteToFile(fs, "/reports/other.yaml", []byte("x"))
	assert.Error(t, err)
}
