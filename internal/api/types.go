package api

import (
	"time"

	"github.com/drasi-project/drasi-server/internal/component"
)

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type statusMessage struct {
	Message string `json:"message"`
}

type componentListItem struct {
	ID     string           `json:"id"`
	Status component.Status `json:"status"`
}

// queryListItem mirrors componentListItem but adds a one-line query-text
// preview, since a query's defining text (unlike a source/reaction's
// params) is meaningful to show in a list view.
type queryListItem struct {
	ID      string           `json:"id"`
	Status  component.Status `json:"status"`
	Summary string           `json:"summary"`
}

type sourceRuntime struct {
	DTO    any              `json:"config"`
	Status component.Status `json:"status"`
}
