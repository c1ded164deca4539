package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	// DefaultHuggingFaceEndpoint is the hosted inference router.
	DefaultHuggingFaceEndpoint = "https://router.huggingface.co/hf-inference/models"

	// DefaultHuggingFaceModel is a general purpose NLI model suited to
	// zero-shot classification.
	DefaultHuggingFaceModel = "facebook/bart-large-mnli"

	maxResponseBytes = 1 << 20
)

// HuggingFace calls a zero-shot-classification pipeline over the inference
// API: the hosted router or any self-hosted server speaking the same protocol.
type HuggingFace struct {
	endpoint string
	model    string
	token    string
	client   *http.Client
}

// NewHuggingFace creates a backend. An empty endpoint or model selects the
// defaults; a nil client selects http.DefaultClient.
func NewHuggingFace(endpoint, model, token string, client *http.Client) *HuggingFace {
	if endpoint == "" {
		endpoint = DefaultHuggingFaceEndpoint
	}
	if model == "" {
		model = DefaultHuggingFaceModel
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HuggingFace{
		endpoint: strings.TrimRight(endpoint, "/"),
		model:    model,
		token:    token,
		client:   client,
	}
}

func (h *HuggingFace) Name() string { return "huggingface:" + h.model }

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	CandidateLabels []Label `json:"candidate_labels"`
}

// hfPipelineResponse is the classic pipeline shape.
type hfPipelineResponse struct {
	Sequence string    `json:"sequence"`
	Labels   []Label   `json:"labels"`
	Scores   []float64 `json:"scores"`
}

type hfError struct {
	Error string `json:"error"`
}

// Classify posts the prompt and candidate labels and returns the ranking.
func (h *HuggingFace) Classify(ctx context.Context, prompt string, labels []Label) (Ranking, error) {
	body, err := json.Marshal(hfRequest{
		Inputs:     prompt,
		Parameters: hfParameters{CandidateLabels: labels},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint+"/"+h.model, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("huggingface request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read huggingface response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr hfError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("huggingface: %s (HTTP %d)", apiErr.Error, resp.StatusCode)
		}
		return nil, fmt.Errorf("huggingface: HTTP %d", resp.StatusCode)
	}

	return parseRanking(data, labels)
}

// parseRanking accepts both the pipeline object
// {"labels":[...],"scores":[...]} and the list form
// [{"label":...,"score":...}].
func parseRanking(data []byte, requested []Label) (Ranking, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrBadResponse
	}

	var ranking Ranking
	switch trimmed[0] {
	case '{':
		var p hfPipelineResponse
		if err := json.Unmarshal(trimmed, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
		}
		r, err := NewRanking(p.Labels, p.Scores)
		if err != nil {
			return nil, err
		}
		ranking = r
	case '[':
		var list []Score
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
		}
		labels := make([]Label, len(list))
		scores := make([]float64, len(list))
		for i, s := range list {
			labels[i], scores[i] = s.Label, s.Score
		}
		r, err := NewRanking(labels, scores)
		if err != nil {
			return nil, err
		}
		ranking = r
	default:
		return nil, ErrBadResponse
	}

	if err := checkLabels(ranking, requested); err != nil {
		return nil, err
	}
	return ranking, nil
}

func checkLabels(r Ranking, requested []Label) error {
	allowed := make(map[Label]bool, len(requested))
	for _, l := range requested {
		allowed[l] = true
	}
	for _, s := range r {
		if !allowed[s.Label] {
			return fmt.Errorf("%w: unexpected label %q", ErrBadResponse, s.Label)
		}
	}
	return nil
}
