package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLooksLikeHTML(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        bool
	}{
		{"declared html", "text/html; charset=utf-8", `{"message":"pong"}`, true},
		{"doctype body", "application/json", "<!DOCTYPE html><html>", true},
		{"html tag body", "text/plain", "  \n<HTML><head>", true},
		{"body tag", "", "<body>portal</body>", true},
		{"json body", "application/json", `{"message":"pong"}`, false},
		{"json with angle bracket inside", "application/json", `{"note":"<html>"}`, false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, looksLikeHTML(tt.contentType, []byte(tt.body)))
		})
	}
}
