package domain

import (
	"sort"
	"time"
)

// Poll represents a poll ("encuesta") as served by the backend
type Poll struct {
	ID          int64      `json:"id"`
	CreatorID   int64      `json:"usuarioId"`
	Name        string     `json:"nombre"`
	Description string     `json:"descripcion"`
	ImageURL    string     `json:"imagenUrl,omitempty"`
	CreatedAt   *time.Time `json:"creadaEn,omitempty"`
	StartAt     *time.Time `json:"fechaInicio,omitempty"`
	EndAt       *time.Time `json:"fechaCierre,omitempty"`
	Closed      bool       `json:"cerrada"`
}

// Option represents a votable option within a poll
type Option struct {
	ID          int64  `json:"id"`
	PollID      int64  `json:"encuestaId"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
	ImageURL    string `json:"imagenUrl,omitempty"`
	Order       *int   `json:"orden,omitempty"`
}

// PollStatus is the derived lifecycle state of a poll. It is never stored;
// compute it from the poll and the current wall clock at every read.
type PollStatus string

const (
	StatusPending PollStatus = "pending"
	StatusOpen    PollStatus = "open"
	StatusClosed  PollStatus = "closed"
)

// Status derives the poll state at the given instant. A future start date
// wins over the closed flag and the end date.
func (p *Poll) Status(now time.Time) PollStatus {
	if p.StartAt != nil && now.Before(*p.StartAt) {
		return StatusPending
	}
	if p.Closed {
		return StatusClosed
	}
	if p.EndAt != nil && !now.Before(*p.EndAt) {
		return StatusClosed
	}
	return StatusOpen
}

// IsOwnedBy reports whether the given user created the poll
func (p *Poll) IsOwnedBy(userID int64) bool {
	return userID != 0 && p.CreatorID == userID
}

// SortOptions orders options ascending by their display order. Options
// without an order sort after every option that has one.
func SortOptions(options []Option) {
	sort.SliceStable(options, func(i, j int) bool {
		oi, oj := options[i].Order, options[j].Order
		switch {
		case oi == nil:
			return false
		case oj == nil:
			return true
		default:
			return *oi < *oj
		}
	})
}
