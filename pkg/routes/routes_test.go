package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/companion/pkg/openapi"
	"github.com/JaimeStill/companion/pkg/routes"
)

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRegisterHandlers(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux, routes.Group{
		Prefix: "/personas",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: ok},
			{Method: "GET", Pattern: "/{id}", Handler: ok},
		},
	})

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{"list", "GET", "/personas"},
		{"find", "GET", "/personas/123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != http.StatusOK {
				t.Errorf("status: got %d, want 200", rec.Code)
			}
		})
	}
}

func TestNestedGroups(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux, routes.Group{
		Prefix: "/intent",
		Children: []routes.Group{
			{
				Prefix: "/artifacts",
				Routes: []routes.Route{{Method: "GET", Pattern: "", Handler: ok}},
			},
		},
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/intent/artifacts", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("nested route: got %d, want 200", rec.Code)
	}
}

func TestDescribe(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0.0")

	routes.Describe(spec, "/api", routes.Group{
		Prefix: "/intent",
		Tags:   []string{"Intent"},
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/decide", Handler: ok, OpenAPI: &openapi.Operation{Summary: "Decide"}},
			{Method: "GET", Pattern: "/hidden", Handler: ok},
		},
		Children: []routes.Group{
			{
				Prefix: "/artifacts",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: ok, OpenAPI: &openapi.Operation{Summary: "Runs", Tags: []string{"Artifacts"}}},
				},
			},
		},
	})

	decide := spec.Paths["/api/intent/decide"]
	if decide == nil || decide.Post == nil {
		t.Fatal("decide operation missing")
	}
	if len(decide.Post.Tags) != 1 || decide.Post.Tags[0] != "Intent" {
		t.Errorf("decide tags: got %v, want [Intent]", decide.Post.Tags)
	}

	if _, ok := spec.Paths["/api/intent/hidden"]; ok {
		t.Error("undocumented route should not be described")
	}

	runs := spec.Paths["/api/intent/artifacts"]
	if runs == nil || runs.Get == nil {
		t.Fatal("nested operation missing")
	}
	if runs.Get.Tags[0] != "Artifacts" {
		t.Errorf("explicit tags should win: got %v", runs.Get.Tags)
	}
}
