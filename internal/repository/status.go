package repository

import (
	"strings"
	"unicode"

	"github.com/maheshrc27/postbatch/internal/models"
	"github.com/spf13/cast"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Sheet labels for each canonical status. The sheet stores these, not the keys.
var statusLabels = map[models.Status]string{
	models.StatusDraft:     "Nháp",
	models.StatusScheduled: "Chờ Đăng",
	models.StatusQueue:     "Hàng chờ",
	models.StatusPublished: "Thành Công",
	models.StatusFailed:    "Lỗi",
}

// Spellings seen from older writers that are neither keys nor labels.
var statusSynonyms = map[string]models.Status{
	"error":   models.StatusFailed,
	"posted":  models.StatusPublished,
	"success": models.StatusPublished,
}

type statusRule struct {
	name  string
	match func(value string) (models.Status, bool)
}

// statusRules are tried in order; the first match wins.
var statusRules = []statusRule{
	{name: "canonical key", match: matchStatusKey},
	{name: "sheet label", match: matchStatusLabel},
	{name: "folded label", match: matchFoldedStatusLabel},
	{name: "synonym", match: matchStatusSynonym},
}

func matchStatusKey(value string) (models.Status, bool) {
	s := models.Status(strings.ToLower(value))
	return s, s.Valid()
}

func matchStatusLabel(value string) (models.Status, bool) {
	for status, label := range statusLabels {
		if strings.EqualFold(value, label) {
			return status, true
		}
	}
	return "", false
}

func matchFoldedStatusLabel(value string) (models.Status, bool) {
	folded := foldDiacritics(value)
	for status, label := range statusLabels {
		if folded == foldDiacritics(label) {
			return status, true
		}
	}
	return "", false
}

func matchStatusSynonym(value string) (models.Status, bool) {
	s, ok := statusSynonyms[foldDiacritics(value)]
	return s, ok
}

// NormalizeStatus maps any status cell to a canonical status, defaulting to draft.
func NormalizeStatus(raw any) models.Status {
	value := strings.TrimSpace(cast.ToString(raw))
	if value == "" {
		return models.StatusDraft
	}
	for _, rule := range statusRules {
		if status, ok := rule.match(value); ok {
			return status
		}
	}
	return models.StatusDraft
}

// StatusLabel returns the sheet label for s, or s itself when it has none.
func StatusLabel(s models.Status) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

var letterD = strings.NewReplacer("đ", "d", "Đ", "D")

// foldDiacritics lowercases s, strips combining marks and collapses whitespace.
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	out = letterD.Replace(out)
	return strings.ToLower(strings.Join(strings.Fields(out), " "))
}
