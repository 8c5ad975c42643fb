package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"parking-server/server/sim"
)

const submitTimeout = 10 * time.Second

// scoreSubmission mirrors the server's POST /api/scores body
type scoreSubmission struct {
	Score      int   `json:"score"`
	DurationMS int64 `json:"duration_ms"`
	Hits       int   `json:"hits,omitempty"`
	HitsTaken  int   `json:"hits_taken,omitempty"`
}

// Receipt is the server's answer to an accepted score
type Receipt struct {
	ID       int64  `json:"id"`
	Score    int    `json:"score"`
	ShareURL string `json:"url"`
	QRPath   string `json:"qr"`
}

// Submitter posts winning scores to a parking server
type Submitter struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

// NewSubmitter returns nil unless both a server and a token are given
func NewSubmitter(baseURL, token string) *Submitter {
	if baseURL == "" || token == "" {
		return nil
	}
	return &Submitter{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		Client:  &http.Client{Timeout: submitTimeout},
	}
}

// Submit sends the final snapshot of a won match.
func (s *Submitter) Submit(ctx context.Context, snap sim.Snapshot) (Receipt, error) {
	if snap.State != sim.Victory {
		return Receipt{}, fmt.Errorf("match not won: %s", snap.State)
	}
	body, err := json.Marshal(scoreSubmission{
		Score:      snap.Score,
		DurationMS: snap.ElapsedMS,
		Hits:       snap.Stats.HitsLanded,
		HitsTaken:  snap.Stats.HitsTaken,
	})
	if err != nil {
		return Receipt{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/api/scores", bytes.NewReader(body))
	if err != nil {
		return Receipt{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.Token)

	resp, err := s.Client.Do(req)
	if err != nil {
		return Receipt{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		var e struct {
			Msg string `json:"msg"`
		}
		json.NewDecoder(resp.Body).Decode(&e)
		if e.Msg == "" {
			e.Msg = resp.Status
		}
		return Receipt{}, fmt.Errorf("server rejected score: %s", e.Msg)
	}

	var r Receipt
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return Receipt{}, err
	}
	return r, nil
}
