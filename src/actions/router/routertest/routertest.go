// Package routertest fakes the Discord REST API for handler tests.
package routertest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
)

type Request struct {
	Method string
	Path   string
	Body   []byte
}

// Decode unmarshals the JSON request body into v.
func (r Request) Decode(v any) error { return json.Unmarshal(r.Body, v) }

type route struct {
	method string
	path   string
	status int
	body   string
}

// Recorder is an http.RoundTripper that records every request and answers
// from registered routes. Unmatched requests get 200 with a stub object.
type Recorder struct {
	mu       sync.Mutex
	requests []Request
	routes   []route
}

// On answers requests whose method matches and whose path contains path.
// Later registrations win.
func (r *Recorder) On(method, path string, status int, body string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route{method: method, path: path, status: status, body: body})
}

func (r *Recorder) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		_ = req.Body.Close()
	}

	r.mu.Lock()
	r.requests = append(r.requests, Request{Method: req.Method, Path: req.URL.Path, Body: body})
	status, payload := http.StatusOK, `{"id":"900000000000000001","channel_id":"800000000000000001"}`
	for i := len(r.routes) - 1; i >= 0; i-- {
		rt := r.routes[i]
		if rt.method == req.Method && strings.Contains(req.URL.Path, rt.path) {
			status, payload = rt.status, rt.body
			break
		}
	}
	r.mu.Unlock()

	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewBufferString(payload)),
		Request:    req,
	}, nil
}

func (r *Recorder) Requests() []Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Request(nil), r.requests...)
}

// Find returns recorded requests with method whose path contains path.
func (r *Recorder) Find(method, path string) []Request {
	var out []Request
	for _, req := range r.Requests() {
		if req.Method == method && strings.Contains(req.Path, path) {
			out = append(out, req)
		}
	}
	return out
}

// ResponseData is the decoded payload of an interaction reply.
type ResponseData struct {
	Content    string                                      `json:"content"`
	Embeds     []*discordgo.MessageEmbed                   `json:"embeds"`
	Flags      discordgo.MessageFlags                      `json:"flags"`
	Components []Row                                       `json:"components"`
	Choices    []*discordgo.ApplicationCommandOptionChoice `json:"choices"`
}

type Row struct {
	Components []Component `json:"components"`
}

type Component struct {
	CustomID string `json:"custom_id"`
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
}

type Response struct {
	Type discordgo.InteractionResponseType `json:"type"`
	Data *ResponseData                     `json:"data"`
}

// Ephemeral reports whether the reply is only visible to the invoker.
func (d *ResponseData) Ephemeral() bool {
	return d != nil && d.Flags&discordgo.MessageFlagsEphemeral != 0
}

// CustomIDs lists every component custom id in row order.
func (d *ResponseData) CustomIDs() []string {
	var ids []string
	for _, row := range d.Components {
		for _, c := range row.Components {
			ids = append(ids, c.CustomID)
		}
	}
	return ids
}

// Responses decodes every interaction callback that was sent.
func (r *Recorder) Responses() []Response {
	var out []Response
	for _, req := range r.Find(http.MethodPost, "/callback") {
		var resp Response
		if err := req.Decode(&resp); err == nil {
			out = append(out, resp)
		}
	}
	return out
}

// Messages decodes every message body sent to a channel, webhook edit or
// followup, in order.
func (r *Recorder) Messages() []ResponseData {
	var out []ResponseData
	for _, req := range r.Requests() {
		if req.Method == http.MethodGet || req.Method == http.MethodDelete {
			continue
		}
		if !strings.Contains(req.Path, "/webhooks/") && !strings.HasSuffix(req.Path, "/messages") &&
			!strings.Contains(req.Path, "/messages/") {
			continue
		}
		var msg ResponseData
		if err := req.Decode(&msg); err == nil {
			out = append(out, msg)
		}
	}
	return out
}

// LastEmbed returns the first embed of the most recent reply, edit,
// followup or channel message, or nil.
func (r *Recorder) LastEmbed() *discordgo.MessageEmbed {
	reqs := r.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		req := reqs[i]
		var embeds []*discordgo.MessageEmbed
		if strings.HasSuffix(req.Path, "/callback") {
			var resp Response
			if req.Decode(&resp) == nil && resp.Data != nil {
				embeds = resp.Data.Embeds
			}
		} else {
			var msg ResponseData
			if req.Decode(&msg) == nil {
				embeds = msg.Embeds
			}
		}
		if len(embeds) > 0 {
			return embeds[0]
		}
	}
	return nil
}

// NewSession returns a session whose REST calls go to a Recorder.
func NewSession() (*discordgo.Session, *Recorder) {
	rec := &Recorder{}
	s, _ := discordgo.New("Bot test-token")
	s.Client = &http.Client{Transport: rec}
	s.MaxRestRetries = 0
	s.State.User = &discordgo.User{ID: "100000000000000000", Username: "LockerRoom", Bot: true}
	return s, rec
}
