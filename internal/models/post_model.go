package models

import "time"

// Status is the canonical, locale-independent state of a post record.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusScheduled Status = "scheduled"
	StatusQueue     Status = "queue"
	StatusPublished Status = "published"
	StatusFailed    Status = "failed"
)

// Statuses lists every canonical status in display order.
var Statuses = []Status{StatusDraft, StatusScheduled, StatusQueue, StatusPublished, StatusFailed}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// PostType values double as the labels stored in the remote sheet.
type PostType string

const (
	PostTypeMultipleImages     PostType = "Đăng Nhiều Ảnh"
	PostTypeSingleImage        PostType = "Đăng Một Ảnh"
	PostTypeTextOnly           PostType = "Text"
	PostTypeVideo              PostType = "Video"
	PostTypeTextWithBackground PostType = "Text_Kèm_Background"
)

var PostTypes = []PostType{
	PostTypeMultipleImages,
	PostTypeSingleImage,
	PostTypeTextOnly,
	PostTypeVideo,
	PostTypeTextWithBackground,
}

func (p PostType) Valid() bool {
	for _, v := range PostTypes {
		if p == v {
			return true
		}
	}
	return false
}

type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// ScheduledPost is a remote post row after read-normalization.
type ScheduledPost struct {
	ID               string    `json:"id"`
	Topic            string    `json:"topic"`
	Content          string    `json:"content"`
	MediaPreview     *string   `json:"mediaPreview"`
	MediaType        MediaType `json:"mediaType"`
	MandatoryContent string    `json:"mandatoryContent"`
	SeedingComment   string    `json:"seedingComment"`
	PostType         PostType  `json:"postType"`
	Destinations     []string  `json:"destinations"`
	ScheduledTime    string    `json:"scheduledTime"`
	Status           Status    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
}

// PostUpdate carries the optional fields of an update. Nil means unchanged.
type PostUpdate struct {
	Content          *string   `json:"content,omitempty"`
	MandatoryContent *string   `json:"mandatoryContent,omitempty"`
	SeedingComment   *string   `json:"seedingComment,omitempty"`
	PostType         *PostType `json:"postType,omitempty"`
	Destinations     []string  `json:"destinations,omitempty"`
	ScheduledTime    *string   `json:"scheduledTime,omitempty"`
	Status           *Status   `json:"status,omitempty"`
}

// Apply merges the set fields of u into p.
func (u PostUpdate) Apply(p *ScheduledPost) {
	if u.Content != nil {
		p.Content = *u.Content
	}
	if u.MandatoryContent != nil {
		p.MandatoryContent = *u.MandatoryContent
	}
	if u.SeedingComment != nil {
		p.SeedingComment = *u.SeedingComment
	}
	if u.PostType != nil {
		p.PostType = *u.PostType
	}
	if u.Destinations != nil {
		p.Destinations = u.Destinations
	}
	if u.ScheduledTime != nil {
		p.ScheduledTime = *u.ScheduledTime
	}
	if u.Status != nil {
		p.Status = *u.Status
	}
}

// BatchPostItem is one outgoing record. Each item targets exactly one destination.
type BatchPostItem struct {
	ID               string   `json:"id"`
	Content          string   `json:"content"`
	Destinations     []string `json:"destinations"`
	DestinationIDs   []string `json:"destinationIds"`
	ScheduledTime    string   `json:"scheduledTime"`
	MandatoryContent string   `json:"mandatoryContent"`
	SeedingComment   string   `json:"seedingComment"`
}

// BatchCommonData is shared by every item of one submission.
type BatchCommonData struct {
	Status    Status    `json:"status"`
	PostType  PostType  `json:"postType"`
	Topic     string    `json:"topic,omitempty"`
	MediaType MediaType `json:"mediaType,omitempty"`
	CreatedAt string    `json:"createdAt,omitempty"`
}
