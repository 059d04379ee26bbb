package study

import (
	"strings"
	"time"
)

// StudyData is one logged study session. Time is the session length in
// minutes.
type StudyData struct {
	ID    string  `json:"id,omitempty"`
	Email string  `json:"email"`
	Title string  `json:"title"`
	Time  float64 `json:"time"`
}

// Record is a stored StudyData plus storage metadata.
type Record struct {
	StudyData
	CreatedAt time.Time `json:"-"`
}

func (d StudyData) normalized() StudyData {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Title = strings.TrimSpace(d.Title)
	return d
}
