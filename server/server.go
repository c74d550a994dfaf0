// Package server runs an in-process recommendations host for exercising
// clients without the network.
//
// Each Server is one replica. Tests start several, hand their URLs to a
// client as its host list, program what each answers and then read back how
// often each one was hit:
//
//	a, b := server.New(), server.New()
//	defer a.Close()
//	defer b.Close()
//	a.Respond(500, `{"message":"server error"}`)
//	b.Respond(200, `{"results":[{"hits":[{"objectID":"ok"}]}]}`)
//	// ... call the client with []string{a.URL(), b.URL()}
//	// a.Hits() == 1, b.Hits() == 1
package server

import (
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
)

// RecommendRoute is the batched recommendations endpoint served by Server.
const RecommendRoute = "/1/indexes/{indexName}/recommendations"

// Request is what the server recorded about one hit.
type Request struct {
	Method    string
	Path      string
	IndexName string // path segment, "*" for batched calls
	Header    http.Header
	Body      []byte
}

// Reply is a programmed answer.
type Reply struct {
	Status int
	Body   string
	Header http.Header
}

// Server is a fake recommendations host.
type Server struct {
	srv   *httptest.Server
	hits  atomic.Int64
	mu    sync.Mutex // guards reply, fn and reqs
	reply Reply
	fn    func(Request) Reply
	reqs  []Request
}

// New starts a server answering 200 with an empty result list.
func New() *Server {
	s := &Server{
		reply: Reply{Status: http.StatusOK, Body: `{"results":[]}`},
	}

	r := chi.NewRouter()
	r.Post(RecommendRoute, s.handleRecommend)
	s.srv = httptest.NewServer(r)
	return s
}

// URL returns the base URL to use as a host.
func (s *Server) URL() string {
	return s.srv.URL
}

// Respond makes every following request answer status with body.
func (s *Server) Respond(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reply = Reply{Status: status, Body: body}
	s.fn = nil
}

// RespondFunc computes the answer per request, replacing Respond.
func (s *Server) RespondFunc(fn func(Request) Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fn = fn
}

// Hits returns how many requests reached the recommendations route.
func (s *Server) Hits() int {
	return int(s.hits.Load())
}

// Requests returns a copy of every recorded request, oldest first.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.reqs))
	copy(out, s.reqs)
	return out
}

// LastRequest returns the most recent request, if any.
func (s *Server) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.reqs) == 0 {
		return Request{}, false
	}
	return s.reqs[len(s.reqs)-1], true
}

// Close shuts the server down. Its URL refuses connections afterwards.
func (s *Server) Close() {
	s.srv.Close()
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	s.hits.Add(1)

	body, _ := io.ReadAll(r.Body)
	req := Request{
		Method:    r.Method,
		Path:      r.URL.Path,
		IndexName: chi.URLParam(r, "indexName"),
		Header:    r.Header.Clone(),
		Body:      body,
	}

	s.mu.Lock()
	s.reqs = append(s.reqs, req)
	reply, fn := s.reply, s.fn
	s.mu.Unlock()

	if fn != nil {
		reply = fn(req)
	}
	if reply.Status == 0 {
		reply.Status = http.StatusOK
	}

	for k, vs := range reply.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(reply.Status)
	_, _ = io.WriteString(w, reply.Body)
}

// UnreachableURL returns a base URL on which nothing listens, so dialing it
// fails with connection refused.
func UnreachableURL() (string, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	addr := ln.Addr().String()
	if err := ln.Close(); err != nil {
		return "", err
	}
	return "http://" + addr, nil
}
