package models

import "time"

type Tone string

const (
	ToneProfessional  Tone = "Professional"
	ToneViral         Tone = "Viral"
	ToneFunny         Tone = "Funny"
	ToneCasual        Tone = "Casual"
	ToneInspirational Tone = "Inspirational"
)

type ScheduleMode string

const (
	ScheduleImmediate ScheduleMode = "immediate"
	ScheduleDeferred  ScheduleMode = "deferred"
)

// Draft is the in-progress post. PostType must only change through
// DerivePostType or an explicit pin.
type Draft struct {
	Content          string       `json:"content"`
	Media            []MediaFile  `json:"media"`
	MandatoryContent string       `json:"mandatoryContent"`
	SeedingComment   string       `json:"seedingComment"`
	PostType         PostType     `json:"postType"`
	Tone             Tone         `json:"tone"`
	Audience         string       `json:"audience"`
	Status           Status       `json:"status"`
	ScheduleMode     ScheduleMode `json:"scheduleMode"`
	ScheduledAt      time.Time    `json:"scheduledAt"`
	AutoRewrite      bool         `json:"autoRewrite"`
}

// HasBody reports whether the draft has anything worth publishing.
func (d Draft) HasBody() bool {
	return d.Content != "" || len(d.Media) > 0 || d.PostType == PostTypeTextWithBackground
}

// DerivePostType computes the post type from the media list. The first
// file decides between video and image; text-with-background survives an
// empty list.
func DerivePostType(media []MediaFile, current PostType) PostType {
	if len(media) == 0 {
		if current == PostTypeTextWithBackground {
			return current
		}
		return PostTypeTextOnly
	}
	if media[0].IsVideo() {
		return PostTypeVideo
	}
	if len(media) > 1 {
		return PostTypeMultipleImages
	}
	return PostTypeSingleImage
}

// NextFullHour returns the top of the hour after now.
func NextFullHour(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), now.Hour()+1, 0, 0, 0, now.Location())
}
