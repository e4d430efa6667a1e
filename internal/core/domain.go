package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	StatusNew          LeadStatus = "New"
	StatusContacted    LeadStatus = "Contacted"
	StatusAssigned     LeadStatus = "Assigned"
	StatusProposalSent LeadStatus = "ProposalSent"
	StatusClosedWon    LeadStatus = "ClosedWon"
	StatusClosedLost   LeadStatus = "ClosedLost"
)

const (
	maxNameLen  = 200
	maxNotesLen = 2000
)

type (
	LeadStatus string

	// Shoot is a scheduled or completed photography day.
	Shoot struct {
		ID           string    `json:"id"`
		Date         Date      `json:"date"`
		ClientName   string    `json:"clientName"`
		Phone        string    `json:"phone"`
		Location     string    `json:"location"`
		Deliverables string    `json:"deliverables"`
		Price        Money     `json:"price"`
		Notes        string    `json:"notes,omitempty"`
		CreatedAt    time.Time `json:"createdAt"`
	}

	// Lead is a prospective client in the sales pipeline.
	Lead struct {
		ID          string     `json:"id"`
		Name        string     `json:"name"`
		Phone       string     `json:"phone"`
		Company     string     `json:"company,omitempty"`
		Notes       string     `json:"notes,omitempty"`
		LastContact Date       `json:"lastContact"`
		NextFollow  Date       `json:"nextFollow"`
		Status      LeadStatus `json:"status"`
		CreatedAt   time.Time  `json:"createdAt"`
	}
)

var (
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidPrice         = errors.New("invalid price")
	ErrEmptyClientName      = errors.New("empty client name")
	ErrEmptyLeadName        = errors.New("empty lead name")
	ErrEmptyPhone           = errors.New("empty phone")
	ErrInvalidStatus        = errors.New("invalid lead status")
	ErrNotFound             = errors.New("record not found")
	ErrConfirmationRequired = errors.New("delete requires confirmation")
)

// statusLabels maps the labels written by the Hebrew UI to statuses so that
// lists exported from it load unchanged.
var statusLabels = map[string]LeadStatus{
	"חדש":        StatusNew,
	"נוצר קשר":   StatusContacted,
	"מוקצה":      StatusAssigned,
	"הצעה נשלחה": StatusProposalSent,
	"נסגר חיובי": StatusClosedWon,
	"נסגר שלילי": StatusClosedLost,
}

// LeadStatuses lists every status in pipeline order.
func LeadStatuses() []LeadStatus {
	return []LeadStatus{StatusNew, StatusContacted, StatusAssigned, StatusProposalSent, StatusClosedWon, StatusClosedLost}
}

// ParseLeadStatus accepts a status name or its Hebrew UI label.
func ParseLeadStatus(s string) (LeadStatus, error) {
	s = strings.TrimSpace(s)
	for _, st := range LeadStatuses() {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	if st, ok := statusLabels[s]; ok {
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

func (s LeadStatus) IsValid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusAssigned, StatusProposalSent, StatusClosedWon, StatusClosedLost:
		return true
	default:
		return false
	}
}

// IsClosed reports whether the lead left the pipeline, won or lost.
func (s LeadStatus) IsClosed() bool {
	return s == StatusClosedWon || s == StatusClosedLost
}

func (s *LeadStatus) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, b)
	}
	st, err := ParseLeadStatus(raw)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

func (s Shoot) Validate() error {
	if err := s.Date.Validate(); err != nil {
		return err
	}
	name := strings.TrimSpace(s.ClientName)
	if name == "" {
		return ErrEmptyClientName
	}
	if len(name) > maxNameLen {
		return errors.New("client name too long (max 200 characters)")
	}
	if len(s.Notes) > maxNotesLen {
		return errors.New("notes too long (max 2000 characters)")
	}
	return s.Price.Validate()
}

func (l Lead) Validate() error {
	name := strings.TrimSpace(l.Name)
	if name == "" {
		return ErrEmptyLeadName
	}
	if len(name) > maxNameLen {
		return errors.New("lead name too long (max 200 characters)")
	}
	if strings.TrimSpace(l.Phone) == "" {
		return ErrEmptyPhone
	}
	if !l.Status.IsValid() {
		return ErrInvalidStatus
	}
	if len(l.Notes) > maxNotesLen {
		return errors.New("notes too long (max 2000 characters)")
	}
	return nil
}

// Normalize trims the free-text fields the way the entry forms do.
func (s Shoot) Normalize() Shoot {
	s.ClientName = strings.TrimSpace(s.ClientName)
	s.Phone = strings.TrimSpace(s.Phone)
	s.Location = strings.TrimSpace(s.Location)
	s.Deliverables = strings.TrimSpace(s.Deliverables)
	s.Notes = strings.TrimSpace(s.Notes)
	return s
}

func (l Lead) Normalize() Lead {
	l.Name = strings.TrimSpace(l.Name)
	l.Phone = strings.TrimSpace(l.Phone)
	l.Company = strings.TrimSpace(l.Company)
	l.Notes = strings.TrimSpace(l.Notes)
	if l.Status == "" {
		l.Status = StatusNew
	}
	return l
}
