package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.Len(t, c.InitialQuestions, 5)
	require.Len(t, c.DailyQuestions, 5)
	assert.True(t, c.InitialQuestions[1].Multiple())
	assert.False(t, c.InitialQuestions[0].Multiple())
	assert.True(t, c.InitialQuestions[0].HasOption("0-2 anos"))
	assert.Len(t, c.Report.Patterns, 4)
	assert.Len(t, c.Premium.Features, 6)
	assert.NotEmpty(t, c.Report.ProfessionalAdvice)
}

func TestParseRejectsReorderedKeys(t *testing.T) {
	_, err := Parse([]byte(`
initial_questions:
  - {key: concerns, type: multiple, options: [a]}
  - {key: childAge, type: select, options: [a]}
  - {key: familyHistory, type: select, options: [a]}
  - {key: routineLevel, type: select, options: [a]}
  - {key: relationship, type: select, options: [a]}
daily_questions: []
`))
	assert.Error(t, err)
}

func TestParseRejectsBadYAML(t *testing.T) {
	_, err := Parse([]byte("initial_questions: ["))
	assert.Error(t, err)
}
