// SPDX-License-Identifier: MIT

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseHelpers(t *testing.T) {
	t.Setenv("ARTELOO_TEST_STRING", "value")
	t.Setenv("ARTELOO_TEST_INT", " 42 ")
	t.Setenv("ARTELOO_TEST_BAD_INT", "4x2")
	t.Setenv("ARTELOO_TEST_DURATION", "1m30s")
	t.Setenv("ARTELOO_TEST_BOOL", "No")
	t.Setenv("ARTELOO_TEST_BAD_BOOL", "maybe")
	t.Setenv("ARTELOO_TEST_FLOAT", "0.25")
	t.Setenv("ARTELOO_TEST_EMPTY", "")

	assert.Equal(t, "value", ParseString("ARTELOO_TEST_STRING", "d"))
	assert.Equal(t, "d", ParseString("ARTELOO_TEST_EMPTY", "d"))
	assert.Equal(t, "d", ParseString("ARTELOO_TEST_UNSET_XYZ", "d"))

	assert.Equal(t, 42, ParseInt("ARTELOO_TEST_INT", 1))
	assert.Equal(t, 1, ParseInt("ARTELOO_TEST_BAD_INT", 1))

	assert.Equal(t, 90*time.Second, ParseDuration("ARTELOO_TEST_DURATION", time.Second))
	assert.Equal(t, time.Second, ParseDuration("ARTELOO_TEST_STRING", time.Second))

	assert.False(t, ParseBool("ARTELOO_TEST_BOOL", true))
	assert.True(t, ParseBool("ARTELOO_TEST_BAD_BOOL", true))

	assert.InDelta(t, 0.25, ParseFloat("ARTELOO_TEST_FLOAT", 1), 1e-9)
	assert.InDelta(t, 1.0, ParseFloat("ARTELOO_TEST_EMPTY", 1), 1e-9)
}

func TestIsSensitive(t *testing.T) {
	assert.True(t, isSensitive("ARTELOO_API_TOKEN"))
	assert.True(t, isSensitive("DB_PASSWORD"))
	assert.False(t, isSensitive("ARTELOO_CACHE_TTL"))
}
