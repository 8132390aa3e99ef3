package models

import "unicode/utf8"

const (
	ListTopicLength    = 60
	ListTopicFallback  = "Bài viết không tiêu đề"
	BatchTopicLength   = 50
	BatchTopicFallback = "Bài viết mới"
)

// Topic truncates content to limit runes, appending "..." when cut.
func Topic(content string, limit int, fallback string) string {
	if content == "" {
		return fallback
	}
	if utf8.RuneCountInString(content) <= limit {
		return content
	}
	runes := []rune(content)
	return string(runes[:limit]) + "..."
}
