package server

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/webform-cli/readwebform/internal/deadline"
	"github.com/webform-cli/readwebform/internal/formdata"
	"github.com/webform-cli/readwebform/internal/htmlform"
	"github.com/webform-cli/readwebform/internal/protocol"
	"github.com/webform-cli/readwebform/internal/storage"
	"github.com/webform-cli/readwebform/internal/ui"
)

// handlerContext is the immutable, per-run configuration injected into
// every connection's handling path. It replaces the source's
// class-level mutable fields on the handler type (spec.md §9, "Shared
// handler configuration").
type handlerContext struct {
	html         string
	csrfToken    string
	endpointPath string
	maxFileSize  int64
	maxTotalSize int64
	storage      *storage.FormStorage
	deadline     *deadline.Controller
	verbose      bool

	once    sync.Once
	outcome Outcome
	done    chan struct{}

	// settled closes once the post-success settling delay has elapsed;
	// serveOn waits on it before closing the listener so the response
	// has actually had time to flush (spec.md §4.6, §9).
	settled chan struct{}
}

func newHandlerContext(html, csrfToken, endpointPath string, maxFileSize, maxTotalSize int64, fs *storage.FormStorage, dl *deadline.Controller, verbose bool) *handlerContext {
	return &handlerContext{
		html:         html,
		csrfToken:    csrfToken,
		endpointPath: endpointPath,
		maxFileSize:  maxFileSize,
		maxTotalSize: maxTotalSize,
		storage:      fs,
		deadline:     dl,
		verbose:      verbose,
		done:         make(chan struct{}),
		settled:      make(chan struct{}),
	}
}

// publishSuccess fills the at-most-once success slot and signals done.
// Subsequent calls (a second concurrent submission, or one that arrives
// after a timeout already fired) are silently discarded.
func (h *handlerContext) publishSuccess(form *formdata.FormData, files map[string]formdata.FileValue) {
	h.once.Do(func() {
		h.outcome = Outcome{Success: true, Form: form, Files: files}
		close(h.done)
	})
}

func (h *handlerContext) logf(format string, args ...interface{}) {
	if h.verbose {
		log.Printf(format, args...)
	}
}

func (h *handlerContext) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != h.endpointPath {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.handleGet(w)
	case http.MethodPost:
		h.handlePost(w, r)
	default:
		http.NotFound(w, r)
	}
}

// handleGet serves the stored form document. GETs never consume the
// deadline and never trigger shutdown (spec.md §4.6).
func (h *handlerContext) handleGet(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, h.html)
}

func (h *handlerContext) handlePost(w http.ResponseWriter, r *http.Request) {
	contentLength, err := strconv.ParseInt(r.Header.Get("Content-Length"), 10, 64)
	if err != nil || contentLength < 0 {
		h.sendErrorPage(w, http.StatusBadRequest, "Bad Request", "Invalid Content-Length header")
		h.deadline.Reset()
		return
	}

	effectiveCap := h.maxTotalSize
	if effectiveCap <= 0 {
		effectiveCap = protocol.DefaultMaxBodySize
	}
	if contentLength > effectiveCap {
		h.sendErrorPage(w, http.StatusRequestEntityTooLarge, "Payload Too Large",
			fmt.Sprintf("Total upload size (%d bytes) exceeds limit (%d bytes)", contentLength, effectiveCap))
		h.deadline.Reset()
		return
	}

	var reader io.Reader = r.Body
	if h.verbose {
		reader = &ui.ProgressReader{R: r.Body, Total: contentLength, Out: log.Writer()}
	}
	body := make([]byte, contentLength)
	if _, err := io.ReadFull(reader, body); err != nil {
		h.sendErrorPage(w, http.StatusInternalServerError, "Internal Server Error",
			fmt.Sprintf("Failed to read request: %v", err))
		return
	}

	contentType := r.Header.Get("Content-Type")
	form, err := decodeBody(body, contentType, h.maxFileSize, h.maxTotalSize)
	if err != nil {
		switch {
		case isSizeError(err):
			h.sendErrorPage(w, http.StatusRequestEntityTooLarge, "Payload Too Large", err.Error())
			h.deadline.Reset()
			h.logf("upload limit exceeded: %v", err)
		default:
			h.sendErrorPage(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Failed to parse form data: %v", err))
			h.deadline.Reset()
		}
		return
	}

	submitted, _ := form.Field(protocol.CSRFFieldName)
	if subtle.ConstantTimeCompare([]byte(submitted.String()), []byte(h.csrfToken)) != 1 {
		h.sendErrorPage(w, http.StatusForbidden, "Forbidden", "Invalid CSRF token")
		h.deadline.Reset()
		return
	}
	form.RemoveField(protocol.CSRFFieldName)

	storedFiles := map[string]formdata.FileValue{}
	for name, uploads := range form.UploadedFiles() {
		stored := make([]formdata.StoredFile, 0, len(uploads))
		for _, uf := range uploads {
			sf, err := h.storage.Store(uf)
			if err != nil {
				log.Printf("Warning: failed to save uploaded file: %v", err)
				h.sendErrorPage(w, http.StatusInternalServerError, "Internal Server Error",
					fmt.Sprintf("Failed to save file: %v", err))
				return
			}
			stored = append(stored, sf)
		}
		if len(stored) == 1 {
			storedFiles[name] = formdata.NewSingleFile(stored[0])
		} else {
			storedFiles[name] = formdata.NewMultiFile(stored)
		}
	}

	h.sendSuccessPage(w)

	// Publish after the response has been written to the socket. The
	// settling delay runs on its own goroutine so this handler can
	// return immediately; serveOn blocks on h.settled before closing the
	// listener, giving the response time to flush first (spec.md §4.6,
	// §9 "Post-response shutdown race").
	h.publishSuccess(form, storedFiles)
	go func() {
		time.Sleep(protocol.SuccessSettleDelay)
		close(h.settled)
	}()
}

func decodeBody(body []byte, contentType string, maxFileSize, maxTotalSize int64) (*formdata.FormData, error) {
	if isMultipart(contentType) {
		return formdata.DecodeMultipart(body, contentType, maxFileSize, maxTotalSize)
	}
	return formdata.DecodeURLEncoded(body)
}

func isMultipart(contentType string) bool {
	return strings.Contains(contentType, "multipart/form-data")
}

func isSizeError(err error) bool {
	return errors.Is(err, formdata.ErrTotalSizeExceeded) || errors.Is(err, formdata.ErrFileSizeExceeded)
}

func (h *handlerContext) sendSuccessPage(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, successPageHTML)
}

func (h *handlerContext) sendErrorPage(w http.ResponseWriter, code int, title, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	fmt.Fprintf(w, errorPageTemplate, htmlform.EscapeHTML(title), htmlform.EscapeHTML(title), htmlform.EscapeHTML(message), h.endpointPath)
}

const successPageHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Success</title>
    <style>
        body { font-family: system-ui, -apple-system, sans-serif; max-width: 600px; margin: 100px auto; padding: 20px; text-align: center; }
        .success { color: #28a745; font-size: 24px; font-weight: 500; }
    </style>
</head>
<body>
    <div class="success">Form submitted successfully</div>
    <p>You may now close this window.</p>
</body>
</html>`

const errorPageTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>%s</title>
    <style>
        body { font-family: system-ui, -apple-system, sans-serif; max-width: 600px; margin: 100px auto; padding: 20px; text-align: center; }
        .error { color: #dc3545; font-size: 24px; font-weight: 500; }
        .back { margin-top: 20px; }
        a { color: #007bff; text-decoration: none; }
    </style>
</head>
<body>
    <div class="error">%s</div>
    <p>%s</p>
    <div class="back"><a href="%s">Go back</a></div>
</body>
</html>`
