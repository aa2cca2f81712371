package core

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatementName(t *testing.T) {
	cases := []struct {
		path  string
		month time.Month
		year  int
	}{
		{"March_2024.csv", time.March, 2024},
		{"/tmp/statements/march_2024.csv", time.March, 2024},
		{"DECEMBER_2023.CSV", time.December, 2023},
		{"statements/hsbc/cleaned/January_2025.csv", time.January, 2025},
	}
	for _, tc := range cases {
		p, err := ParseStatementName(tc.path)
		require.NoError(t, err, tc.path)
		assert.Equal(t, tc.month, p.Month, tc.path)
		assert.Equal(t, tc.year, p.Year, tc.path)
	}
}

func TestParseStatementName_Invalid(t *testing.T) {
	for _, path := range []string{
		"March2024.csv",
		"March_2024_extra.csv",
		"Marzo_2024.csv",
		"Mar_2024.csv",
		"March_24.csv",
		"March_20x4.csv",
		"statement.csv",
	} {
		_, err := ParseStatementName(path)
		require.Error(t, err, path)
		assert.True(t, errors.Is(err, ErrInvalidStatementName), path)
	}
}

func TestPeriodNames(t *testing.T) {
	p := Period{Month: time.March, Year: 2024}
	assert.Equal(t, "March", p.MonthName())
	assert.Equal(t, "2024", p.YearSheet())
	assert.Equal(t, "March 2024", p.String())
}
