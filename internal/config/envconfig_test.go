package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvList(t *testing.T) {
	t.Setenv("COHORTS", " Faculty, ,Admin ,")
	assert.Equal(t, []string{"Faculty", "Admin"}, getEnvList("COHORTS", nil))

	t.Setenv("COHORTS", " , ")
	assert.Equal(t, []string{"Staff"}, getEnvList("COHORTS", []string{"Staff"}))

	assert.Equal(t, []string{"x"}, getEnvList("ATTENDANCE_UNSET_LIST", []string{"x"}))
}

func TestGetEnvNumbers(t *testing.T) {
	t.Setenv("HOLIDAY_ABSENT_THRESHOLD", "0.75")
	assert.Equal(t, 0.75, getEnvFloat("HOLIDAY_ABSENT_THRESHOLD", 0.9))

	t.Setenv("HOLIDAY_ABSENT_THRESHOLD", "most")
	assert.Equal(t, 0.9, getEnvFloat("HOLIDAY_ABSENT_THRESHOLD", 0.9))

	t.Setenv("SERVER_PORT", "abc")
	assert.Equal(t, 8080, getEnvInt("SERVER_PORT", 8080))
}

func TestNewApplicationConfig(t *testing.T) {
	t.Setenv("DIRECTORY_ENDPOINT", "")
	t.Setenv("EMAIL_TO", "")

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("COHORTS", "Faculty")
		t.Setenv("HOLIDAY_ABSENT_THRESHOLD", "0.8")

		cfg, err := NewApplicationConfig()
		require.NoError(t, err)
		assert.Equal(t, []string{"Faculty"}, cfg.Cohorts())
		assert.Equal(t, 0.8, cfg.HolidayAbsentThreshold())
		assert.NotNil(t, cfg.Classifier())
		assert.Nil(t, cfg.DirectorySource())
		assert.Nil(t, cfg.Mailer())
	})

	t.Run("threshold out of range", func(t *testing.T) {
		t.Setenv("HOLIDAY_ABSENT_THRESHOLD", "1.5")

		_, err := NewApplicationConfig()
		assert.Error(t, err)
	})

	t.Run("directory endpoint", func(t *testing.T) {
		t.Setenv("HOLIDAY_ABSENT_THRESHOLD", "0.9")
		t.Setenv("DIRECTORY_ENDPOINT", "http://hr.local")

		cfg, err := NewApplicationConfig()
		require.NoError(t, err)
		assert.NotNil(t, cfg.DirectorySource())
	})
}
