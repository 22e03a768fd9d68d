// HydroWire - Hydrographic Queries and River Network Analytics
// Copyright 2026 HydroWire contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hydrowire/hydrowire

package processes

// Summary is the catalog entry served by GET /processes.
type Summary struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Version            string   `json:"version"`
	JobControlOptions  []string `json:"jobControlOptions"`
	OutputTransmission []string `json:"outputTransmission"`
}

// Description is the full document served by GET /processes/{id}.
type Description struct {
	Summary
	Inputs  map[string]InputDescription  `json:"inputs"`
	Outputs map[string]OutputDescription `json:"outputs"`
}

// InputDescription documents one input of a process.
type InputDescription struct {
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Schema      InputSchema `json:"schema"`
	MinOccurs   int         `json:"minOccurs"`
	MaxOccurs   int         `json:"maxOccurs"`
}

// InputSchema is the JSON-schema fragment of one input.
type InputSchema struct {
	Type string `json:"type"`
}

// OutputDescription documents the single result document.
type OutputDescription struct {
	Title  string      `json:"title"`
	Schema InputSchema `json:"schema"`
}

func (p *Process) summary() Summary {
	return Summary{
		ID:                 p.ID,
		Title:              p.Title,
		Description:        p.Description,
		Version:            p.Version,
		JobControlOptions:  []string{"sync-execute"},
		OutputTransmission: []string{"value", "reference"},
	}
}

// Describe builds the process description document.
func (p *Process) Describe() Description {
	inputs := make(map[string]InputDescription, len(p.Inputs))
	for _, in := range p.Inputs {
		min := 0
		if in.Required {
			min = 1
		}
		inputs[in.Name] = InputDescription{
			Title:       in.Title,
			Description: in.Description,
			Schema:      InputSchema{Type: in.Type},
			MinOccurs:   min,
			MaxOccurs:   1,
		}
	}
	return Description{
		Summary: p.summary(),
		Inputs:  inputs,
		Outputs: map[string]OutputDescription{
			"result": {Title: "Result document", Schema: InputSchema{Type: "object"}},
		},
	}
}

// Summaries lists the catalog for GET /processes.
func (r *Registry) Summaries() []Summary {
	out := make([]Summary, 0, len(r.order))
	for _, p := range r.List() {
		out = append(out, p.summary())
	}
	return out
}
