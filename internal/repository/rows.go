package repository

import (
	"strings"
	"time"

	"github.com/maheshrc27/postbatch/internal/models"
	"github.com/maheshrc27/postbatch/internal/transfer"
	"github.com/spf13/cast"
)

// Column positions of a post row, version 1 of the sheet layout.
const (
	colID = iota
	colDestinations
	colStatus
	colPostType
	colScheduledTime
	colContent
	colMandatoryContent
	colSeedingComment
	colVideoLinks
	colImageLinks
)

// postRow is a positional row decoded into named fields. Nothing past
// decodeRow reads the sheet by index.
type postRow struct {
	ID               string
	Destinations     string
	Status           string
	PostType         string
	ScheduledTime    string
	Content          string
	MandatoryContent string
	SeedingComment   string
	VideoLinks       string
	ImageLinks       string
}

func decodeRow(r transfer.RawRow) postRow {
	return postRow{
		ID:               cell(r, colID),
		Destinations:     cell(r, colDestinations),
		Status:           cell(r, colStatus),
		PostType:         cell(r, colPostType),
		ScheduledTime:    cell(r, colScheduledTime),
		Content:          cell(r, colContent),
		MandatoryContent: cell(r, colMandatoryContent),
		SeedingComment:   cell(r, colSeedingComment),
		VideoLinks:       cell(r, colVideoLinks),
		ImageLinks:       cell(r, colImageLinks),
	}
}

func cell(r transfer.RawRow, i int) string {
	if i >= len(r) || r[i] == nil {
		return ""
	}
	return cast.ToString(r[i])
}

var idQuotes = strings.NewReplacer("'", "", `"`, "")

func normalizeRow(row postRow, dates DateNormalizer, now time.Time) models.ScheduledPost {
	videos := mediaLinks(row.VideoLinks)
	images := mediaLinks(row.ImageLinks)

	post := models.ScheduledPost{
		ID:               strings.TrimSpace(idQuotes.Replace(row.ID)),
		Destinations:     splitDestinations(row.Destinations),
		Status:           NormalizeStatus(row.Status),
		PostType:         models.PostTypeSingleImage,
		ScheduledTime:    dates.Normalize(row.ScheduledTime),
		Content:          row.Content,
		MandatoryContent: row.MandatoryContent,
		SeedingComment:   row.SeedingComment,
		MediaType:        models.MediaTypeImage,
		Topic:            models.Topic(row.Content, models.ListTopicLength, models.ListTopicFallback),
		CreatedAt:        now,
	}
	if row.PostType != "" {
		post.PostType = models.PostType(row.PostType)
	}
	if len(videos) > 0 {
		post.MediaType = models.MediaTypeVideo
	}
	if all := append(videos, images...); len(all) > 0 {
		post.MediaPreview = &all[0]
	}
	return post
}

// normalizeRows decodes rows and returns them newest first.
func normalizeRows(rows []transfer.RawRow, dates DateNormalizer, now time.Time) []models.ScheduledPost {
	posts := make([]models.ScheduledPost, len(rows))
	for i, r := range rows {
		posts[len(rows)-1-i] = normalizeRow(decodeRow(r), dates, now)
	}
	return posts
}

func splitDestinations(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ", ")
}

func mediaLinks(s string) []string {
	var links []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			links = append(links, DirectMediaLink(line))
		}
	}
	return links
}
