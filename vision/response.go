package vision

import (
	"encoding/json"
	"fmt"
	"strings"

	"auditform/model"
)

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	ModelVersion string `json:"modelVersion"`
}

// wireItem uses pointers so a missing required field can be told apart
// from an empty one.
type wireItem struct {
	Model   *string `json:"model"`
	GB      *string `json:"gb"`
	PCS     *int    `json:"pcs"`
	Color   *string `json:"color"`
	COO     *string `json:"coo"`
	Spec    *string `json:"spec"`
	Remarks *string `json:"remarks"`
}

type wireResult struct {
	Company      string      `json:"company"`
	CustomerCode string      `json:"customerCode"`
	Items        *[]wireItem `json:"items"`
}

// ParseResponse extracts the first candidate's text and decodes it against
// the response schema.
func ParseResponse(body []byte) (*model.ExtractionResult, error) {
	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse vision response: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return nil, ErrNoCandidates
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return DecodeResult(sb.String())
}

// DecodeResult decodes the model's JSON answer. Every item must carry all
// seven fields; empty strings are allowed.
func DecodeResult(text string) (*model.ExtractionResult, error) {
	var wire wireResult
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &wire); err != nil {
		raw := ExtractJSON(text)
		if raw == "" {
			return nil, fmt.Errorf("%w: no JSON object in output", ErrSchema)
		}
		wire = wireResult{}
		if err := json.Unmarshal([]byte(raw), &wire); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSchema, err)
		}
	}
	if wire.Items == nil {
		return nil, fmt.Errorf("%w: items is required", ErrSchema)
	}

	res := &model.ExtractionResult{
		Company:      wire.Company,
		CustomerCode: wire.CustomerCode,
		Items:        make([]model.ExtractedItem, 0, len(*wire.Items)),
	}
	for i, it := range *wire.Items {
		if missing := it.missingFields(); len(missing) > 0 {
			return nil, fmt.Errorf("%w: item %d missing %s", ErrSchema, i, strings.Join(missing, ", "))
		}
		res.Items = append(res.Items, model.ExtractedItem{
			Model:   *it.Model,
			GB:      *it.GB,
			PCS:     *it.PCS,
			Color:   *it.Color,
			COO:     *it.COO,
			Spec:    *it.Spec,
			Remarks: *it.Remarks,
		})
	}
	return res, nil
}

func (it wireItem) missingFields() []string {
	var missing []string
	present := map[string]bool{
		"model":   it.Model != nil,
		"gb":      it.GB != nil,
		"pcs":     it.PCS != nil,
		"color":   it.Color != nil,
		"coo":     it.COO != nil,
		"spec":    it.Spec != nil,
		"remarks": it.Remarks != nil,
	}
	for _, f := range itemFields {
		if !present[f] {
			missing = append(missing, f)
		}
	}
	return missing
}
