// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

func apiBaseURL() string {
	if u := os.Getenv("ADVISOR_API_URL"); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func newClient() *resty.Client {
	return resty.New().
		SetBaseURL(apiBaseURL()).
		SetTimeout(90 * time.Second).
		SetHeader("Content-Type", "application/json")
}

// chatResult 与服务端单轮结果对齐
type chatResult struct {
	SessionID string   `json:"session_id"`
	Response  string   `json:"response"`
	Intent    string   `json:"intent"`
	Success   bool     `json:"success"`
	ToolsUsed []string `json:"tools_used"`
}

func postChat(sessionID, message string) (*chatResult, error) {
	body := map[string]string{"message": message}
	if sessionID != "" {
		body["session_id"] = sessionID
	}
	var out chatResult
	resp, err := newClient().R().
		SetBody(body).
		SetResult(&out).
		Post("/api/chat")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("POST /api/chat: %s", resp.String())
	}
	return &out, nil
}

func getHistory(sessionID string) (map[string]interface{}, error) {
	var out map[string]interface{}
	resp, err := newClient().R().
		SetResult(&out).
		Get("/api/sessions/" + sessionID + "/history")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("GET /api/sessions/%s/history: %s", sessionID, resp.String())
	}
	return out, nil
}

func deleteSession(sessionID string) error {
	resp, err := newClient().R().
		Delete("/api/sessions/" + sessionID)
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("DELETE /api/sessions/%s: %s", sessionID, resp.String())
	}
	return nil
}

func resetSessions() error {
	resp, err := newClient().R().
		Delete("/api/sessions")
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("DELETE /api/sessions: %s", resp.String())
	}
	return nil
}

func checkHealth() error {
	resp, err := newClient().R().Get("/api/health")
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("GET /api/health: %s", resp.String())
	}
	return nil
}

func prettyJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
