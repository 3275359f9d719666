package models

import (
	"strings"
	"time"
)

type UserProfile struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	WhatsApp  string    `json:"whatsapp"`
	CreatedAt time.Time `json:"createdAt"`
}

type InitialAnswers struct {
	ChildAge      string   `json:"childAge"`
	Concerns      []string `json:"concerns"`
	FamilyHistory string   `json:"familyHistory"`
	RoutineLevel  string   `json:"routineLevel"`
	Relationship  string   `json:"relationship"`
}

// IsZero reports whether no initial answer was ever recorded.
func (a InitialAnswers) IsZero() bool {
	return a.ChildAge == "" && len(a.Concerns) == 0 && a.FamilyHistory == "" &&
		a.RoutineLevel == "" && a.Relationship == ""
}

type DailyAnswers struct {
	Sleep         string `json:"sleep"`
	Reactions     string `json:"reactions"`
	Communication string `json:"communication"`
	Crises        string `json:"crises"`
	HappyMoment   string `json:"happyMoment"`
}

// Complete is true when all five prompts carry non-blank text.
func (a DailyAnswers) Complete() bool {
	for _, v := range []string{a.Sleep, a.Reactions, a.Communication, a.Crises, a.HappyMoment} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// JourneyData keeps one DailyAnswers per journey day (1..3).
type JourneyData struct {
	Day1 *DailyAnswers `json:"day1,omitempty"`
	Day2 *DailyAnswers `json:"day2,omitempty"`
	Day3 *DailyAnswers `json:"day3,omitempty"`
}

func (j JourneyData) Day(day int) *DailyAnswers {
	switch day {
	case 1:
		return j.Day1
	case 2:
		return j.Day2
	case 3:
		return j.Day3
	}
	return nil
}

func (j *JourneyData) SetDay(day int, a DailyAnswers) {
	switch day {
	case 1:
		j.Day1 = &a
	case 2:
		j.Day2 = &a
	case 3:
		j.Day3 = &a
	}
}

// UserData is the single durable aggregate for the local user.
type UserData struct {
	Profile         UserProfile    `json:"profile"`
	InitialAnswers  InitialAnswers `json:"initialAnswers"`
	JourneyData     JourneyData    `json:"journeyData"`
	CurrentDay      int            `json:"currentDay"`
	Day1CompletedAt *time.Time     `json:"day1CompletedAt,omitempty"`
	Day2CompletedAt *time.Time     `json:"day2CompletedAt,omitempty"`
	Day3CompletedAt *time.Time     `json:"day3CompletedAt,omitempty"`
}

// NewUserData returns the empty aggregate used on first read.
func NewUserData() UserData {
	return UserData{CurrentDay: 1}
}

func (u UserData) CompletedAt(day int) *time.Time {
	switch day {
	case 1:
		return u.Day1CompletedAt
	case 2:
		return u.Day2CompletedAt
	case 3:
		return u.Day3CompletedAt
	}
	return nil
}

func (u *UserData) SetCompletedAt(day int, t time.Time) {
	switch day {
	case 1:
		u.Day1CompletedAt = &t
	case 2:
		u.Day2CompletedAt = &t
	case 3:
		u.Day3CompletedAt = &t
	}
}

func (u UserData) HasProfile() bool {
	return strings.TrimSpace(u.Profile.Email) != ""
}

// Stats are coarse counts over the historical users list.
type Stats struct {
	TotalUsers       int `json:"totalUsers"`
	CompletedDay1    int `json:"completedDay1"`
	CompletedDay2    int `json:"completedDay2"`
	CompletedDay3    int `json:"completedDay3"`
	CompletedJourney int `json:"completedJourney"`
}
