// Package display prints responses for a person watching a smoke run.
package display

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/DSACMS/receipt-processor-client/pkg/webclient"
)

const indent = "  "

// Show prints the status line, then the body as indented JSON, or raw when
// the body is not JSON. Write errors are ignored.
func Show(w io.Writer, resp *webclient.Response) {
	if resp == nil {
		_, _ = fmt.Fprintln(w, "(no response)")
		_, _ = fmt.Fprintln(w)
		return
	}

	_, _ = fmt.Fprintf(w, "(%d) %s %s\n", resp.StatusCode, resp.Method, resp.URL)
	_, _ = fmt.Fprintln(w, Body(resp.Body))
	_, _ = fmt.Fprintln(w)
}

// Body pretty prints b when it holds JSON and returns it untouched otherwise.
func Body(b []byte) string {
	var out bytes.Buffer
	if err := json.Indent(&out, bytes.TrimSpace(b), "", indent); err != nil {
		return string(b)
	}
	return out.String()
}

// Selected reports which pooled identifier a random pick landed on.
func Selected(w io.Writer, id string) {
	_, _ = fmt.Fprintf(w, "Selected id=%q\n", id)
}
