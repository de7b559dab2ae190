package openapi

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"regexp"
	"slices"
	"strings"
)

var wildcard = regexp.MustCompile(`\{(\w+)\.\.\.\}`)

// Spec represents an OpenAPI 3.1 specification document.
type Spec struct {
	OpenAPI    string               `json:"openapi"`
	Info       *Info                `json:"info"`
	Servers    []*Server            `json:"servers,omitempty"`
	Tags       []*Tag               `json:"tags,omitempty"`
	Paths      map[string]*PathItem `json:"paths"`
	Components *Components          `json:"components,omitempty"`
}

// NewSpec creates a Spec with the given title, version, and default components.
func NewSpec(title, version string) *Spec {
	return &Spec{
		OpenAPI:    "3.1.0",
		Info:       &Info{Title: title, Version: version},
		Components: NewComponents(),
		Paths:      make(map[string]*PathItem),
	}
}

// AddServer appends a server URL to the spec.
func (s *Spec) AddServer(url string) {
	s.Servers = append(s.Servers, &Server{URL: url})
}

// SetDescription sets the API description in the info object.
func (s *Spec) SetDescription(desc string) {
	s.Info.Description = desc
}

// AddOperation registers op for method on a ServeMux-style pattern.
// Wildcards such as {path...} become plain parameters and a trailing {$}
// is dropped. A missing OperationID is derived from method and path, so
// GET /api/chat/conversations/{id} becomes getApiChatConversationsById.
// The operation's tags are added to the document tag list.
// Unsupported methods are ignored.
func (s *Spec) AddOperation(method, pattern string, op *Operation) {
	var slot **Operation
	path := documentPath(pattern)

	item, ok := s.Paths[path]
	if !ok {
		item = &PathItem{}
	}

	switch strings.ToUpper(method) {
	case http.MethodGet:
		slot = &item.Get
	case http.MethodPost:
		slot = &item.Post
	case http.MethodPut:
		slot = &item.Put
	case http.MethodPatch:
		slot = &item.Patch
	case http.MethodDelete:
		slot = &item.Delete
	default:
		return
	}

	if op.OperationID == "" {
		op.OperationID = operationID(method, path)
	}
	*slot = op
	s.Paths[path] = item
	for _, tag := range op.Tags {
		s.addTag(tag)
	}
}

func (s *Spec) addTag(name string) {
	i, found := slices.BinarySearchFunc(s.Tags, name, func(t *Tag, name string) int {
		return strings.Compare(t.Name, name)
	})
	if !found {
		s.Tags = slices.Insert(s.Tags, i, &Tag{Name: name})
	}
}

func operationID(method, path string) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(method))
	for seg := range strings.SplitSeq(path, "/") {
		if seg == "" {
			continue
		}
		if name, ok := strings.CutPrefix(seg, "{"); ok {
			b.WriteString("By")
			seg = strings.TrimSuffix(name, "}")
		}
		for word := range strings.FieldsFuncSeq(seg, func(r rune) bool { return r == '-' || r == '_' }) {
			b.WriteString(strings.ToUpper(word[:1]) + word[1:])
		}
	}
	return b.String()
}

func documentPath(pattern string) string {
	pattern = strings.TrimSuffix(pattern, "{$}")
	return wildcard.ReplaceAllString(pattern, "{$1}")
}

// ServeSpec returns a handler that serves pre-serialized JSON spec bytes.
// Responses carry a content ETag and honor If-None-Match.
func ServeSpec(specBytes []byte) http.HandlerFunc {
	sum := sha256.Sum256(specBytes)
	etag := `"` + hex.EncodeToString(sum[:8]) + `"`

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(specBytes)
	}
}
