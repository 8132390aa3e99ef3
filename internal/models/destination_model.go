package models

type DestinationKind string

const (
	DestinationPage  DestinationKind = "page"
	DestinationGroup DestinationKind = "group"
)

// Destination is a publishing target. ID is immutable once created.
type Destination struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	AccessToken string          `json:"accessToken"`
	Kind        DestinationKind `json:"type"`
	Icon        string          `json:"icon,omitempty"`
}
