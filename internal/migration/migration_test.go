package migration

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatementsAreIdempotent(t *testing.T) {
	steps := Statements()
	assert.NotEmpty(t, steps)
	for _, s := range steps {
		sql := strings.ToUpper(s.SQL)
		if strings.Contains(sql, "CREATE TABLE") {
			assert.Contains(t, sql, "IF NOT EXISTS", s.Name)
		}
		if strings.Contains(sql, "CREATE INDEX") {
			assert.Equal(t, strings.Count(sql, "CREATE INDEX"), strings.Count(sql, "CREATE INDEX IF NOT EXISTS"), s.Name)
		}
	}
}

func TestRunsTableComesFirst(t *testing.T) {
	steps := Statements()
	assert.Contains(t, steps[0].SQL, "validation_runs")
	assert.Equal(t, "1.0.0", NewRunner().Version())
}
