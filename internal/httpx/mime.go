package httpx

import (
	"net/http"
	"strings"
)

// MediaType returns the media type of the request body, without any
// parameters. An absent Content-Type is reported as application/octet-stream.
func MediaType(req *http.Request) string {
	typ, _, _ := strings.Cut(req.Header.Get("Content-Type"), ";")
	typ = strings.TrimSpace(typ)
	if typ == "" {
		typ = "application/octet-stream"
	}
	return typ
}
