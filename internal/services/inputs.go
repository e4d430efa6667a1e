package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"shootbook/internal/core"
)

// ErrInvalidInput marks every rejection of caller-supplied data.
var ErrInvalidInput = errors.New("invalid input")

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}

// PriceText keeps a submitted price verbatim so it can be validated
// instead of silently decoding to zero. Accepts a JSON number or string.
type PriceText string

func (p *PriceText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*p = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = PriceText(s)
		return nil
	}
	*p = PriceText(b)
	return nil
}

// ShootInput is the create/edit form for a shoot. An empty ID creates.
type ShootInput struct {
	ID           string    `json:"id"`
	Date         string    `json:"date"`
	ClientName   string    `json:"clientName"`
	Phone        string    `json:"phone"`
	Location     string    `json:"location"`
	Deliverables string    `json:"deliverables"`
	Price        PriceText `json:"price"`
	Notes        string    `json:"notes"`
}

// toShoot parses and validates the form. A blank price is zero.
func (in ShootInput) toShoot() (core.Shoot, error) {
	date, err := core.ParseDate(strings.TrimSpace(in.Date))
	if err != nil {
		return core.Shoot{}, invalid(err)
	}
	var units int64
	if p := strings.TrimSpace(string(in.Price)); p != "" {
		if units, err = core.ParsePrice(p); err != nil {
			return core.Shoot{}, invalid(err)
		}
	}
	s := core.Shoot{
		ID:           strings.TrimSpace(in.ID),
		Date:         date,
		ClientName:   in.ClientName,
		Phone:        in.Phone,
		Location:     in.Location,
		Deliverables: in.Deliverables,
		Price:        core.Money{Units: units},
		Notes:        in.Notes,
	}.Normalize()
	if err := s.Validate(); err != nil {
		return core.Shoot{}, invalid(err)
	}
	return s, nil
}

// LeadInput is the create/edit form for a lead. Status may be a name or a
// UI label and defaults to New.
type LeadInput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Company     string `json:"company"`
	Status      string `json:"status"`
	LastContact string `json:"lastContact"`
	NextFollow  string `json:"nextFollow"`
	Notes       string `json:"notes"`
}

func (in LeadInput) toLead() (core.Lead, error) {
	l := core.Lead{
		ID:      strings.TrimSpace(in.ID),
		Name:    in.Name,
		Phone:   in.Phone,
		Company: in.Company,
		Notes:   in.Notes,
	}
	var err error
	if s := strings.TrimSpace(in.Status); s != "" {
		if l.Status, err = core.ParseLeadStatus(s); err != nil {
			return core.Lead{}, invalid(err)
		}
	}
	if l.LastContact, err = core.ParseDate(strings.TrimSpace(in.LastContact)); err != nil {
		return core.Lead{}, invalid(err)
	}
	if l.NextFollow, err = core.ParseDate(strings.TrimSpace(in.NextFollow)); err != nil {
		return core.Lead{}, invalid(err)
	}
	l = l.Normalize()
	if err := l.Validate(); err != nil {
		return core.Lead{}, invalid(err)
	}
	return l, nil
}
