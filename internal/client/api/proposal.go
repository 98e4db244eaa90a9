package api

import (
	"encoding/json"
	"strconv"
)

// Proposal is one work-proposal record exactly as the server sent it. The
// server schema is not controlled by this client and field presence is not
// guaranteed, so access goes through fallback accessors.
type Proposal map[string]interface{}

// ID resolves the record identifier across the field names backends have
// used (_id for document stores, id elsewhere). Empty when neither is set.
func (p Proposal) ID() string {
	for _, key := range []string{"_id", "id"} {
		if v, ok := p[key]; ok {
			switch id := v.(type) {
			case string:
				if id != "" {
					return id
				}
			case float64:
				return strconv.FormatFloat(id, 'f', -1, 64)
			}
		}
	}
	return ""
}

// Status resolves currentStatus with a status fallback, defaulting to
// Pending the way the app renders unknown records.
func (p Proposal) Status() string {
	for _, key := range []string{"currentStatus", "status"} {
		if s, ok := p[key].(string); ok && s != "" {
			return s
		}
	}
	return "Pending"
}

// Title resolves the display name across the naming variants.
func (p Proposal) Title() string {
	for _, key := range []string{"title", "nameOfWork", "workName", "description"} {
		if s, ok := p[key].(string); ok && s != "" {
			return s
		}
	}
	return "Work Item"
}

// ExtractProposals normalizes a list payload. Backends have returned a bare
// array, {data:[...]} and {proposals:[...]}; all three are accepted.
func ExtractProposals(raw json.RawMessage) ([]Proposal, error) {
	var bare []Proposal
	if err := json.Unmarshal(raw, &bare); err == nil {
		return bare, nil
	}

	var wrapped struct {
		Data      []Proposal `json:"data"`
		Proposals []Proposal `json:"proposals"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, err
	}
	if wrapped.Data != nil {
		return wrapped.Data, nil
	}
	if wrapped.Proposals != nil {
		return wrapped.Proposals, nil
	}
	return []Proposal{}, nil
}

// ExtractProposal normalizes a single-record payload, which may arrive bare
// or wrapped in {data:{...}}.
func ExtractProposal(raw json.RawMessage) (Proposal, error) {
	var wrapped struct {
		Data Proposal `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Data != nil {
		return wrapped.Data, nil
	}

	var bare Proposal
	if err := json.Unmarshal(raw, &bare); err != nil {
		return nil, err
	}
	return bare, nil
}
