package transport

import (
	"bytes"
	"strings"
)

// htmlMarkers are document openers that identify an HTML body regardless of
// the declared content type. Captive portals and proxy error pages often
// claim 200 and even a JSON content type.
var htmlMarkers = [][]byte{
	[]byte("<!doctype"),
	[]byte("<html"),
	[]byte("<head"),
	[]byte("<body"),
}

// looksLikeHTML classifies a response as an HTML document using both the
// declared content type and the leading bytes of the body.
func looksLikeHTML(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		return true
	}

	lead := bytes.ToLower(bytes.TrimLeft(body, " \t\r\n"))
	for _, marker := range htmlMarkers {
		if bytes.HasPrefix(lead, marker) {
			return true
		}
	}
	return false
}
