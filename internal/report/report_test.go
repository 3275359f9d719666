package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atypico/journey/internal/content"
	"github.com/atypico/journey/internal/models"
)

func TestBuild(t *testing.T) {
	c := content.Default()
	at := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	data := models.NewUserData()
	data.Profile.Name = "Ana"
	data.InitialAnswers.ChildAge = "3-5 anos"
	data.JourneyData.SetDay(1, models.DailyAnswers{Sleep: "bem", Reactions: "r", Communication: "c", Crises: "nenhuma", HappyMoment: "parque"})
	data.SetCompletedAt(1, at)
	data.JourneyData.SetDay(3, models.DailyAnswers{Sleep: "mal"})

	r := Build(data, c)
	assert.Equal(t, "Ana", r.Name)
	assert.False(t, r.Complete)
	require.Len(t, r.Days, 2)
	assert.Equal(t, 1, r.Days[0].Day)
	assert.Equal(t, &at, r.Days[0].CompletedAt)
	require.Len(t, r.Days[0].Items, 5)
	assert.Equal(t, c.DailyQuestions[0].Question, r.Days[0].Items[0].Question)
	assert.Equal(t, "bem", r.Days[0].Items[0].Answer)
	assert.Equal(t, "parque", r.Days[0].Items[4].Answer)
	assert.Equal(t, 3, r.Days[1].Day)
	assert.Nil(t, r.Days[1].CompletedAt)
	assert.Len(t, r.Patterns, 4)
	assert.NotEmpty(t, r.ProfessionalAdvice)
}

func TestBuildEmpty(t *testing.T) {
	r := Build(models.NewUserData(), content.Default())
	assert.Empty(t, r.Days)
	assert.False(t, r.Complete)
}
