package model

import (
	"encoding/json"
	"strconv"
)

// Content types produced by tenant lifecycle calls.
const (
	ContentTypeJSON = "application/json"
	ContentTypeText = "text/plain"
)

// Result is the outcome of a tenant lifecycle call: an HTTP status and an
// optional body.
type Result struct {
	Status      int
	ContentType string
	Body        []byte
}

// Succeeded reports whether the status is in the 2xx range.
func (r *Result) Succeeded() bool {
	return r != nil && r.Status >= 200 && r.Status <= 299
}

// Error is the structured error record returned in failure bodies.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BuildError encodes an error record for the given status and message.
func BuildError(status int, message string) string {
	data, err := json.Marshal(Error{Code: strconv.Itoa(status), Message: message})
	if err != nil {
		return message
	}
	return string(data)
}

// TextResult returns a plain-text result with the given status and body.
func TextResult(status int, body string) *Result {
	return &Result{Status: status, ContentType: ContentTypeText, Body: []byte(body)}
}
