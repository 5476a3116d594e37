package graphql

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	partsApi "repairshop.GO/api/parts"
	"repairshop.GO/api/apitest"
	"repairshop.GO/model/repository/repotest"
)

// TestPerf_GraphQL_vs_API lists 100 parts with their models through both
// surfaces and logs the timings. Skipped with -short.
func TestPerf_GraphQL_vs_API(t *testing.T) {
	if testing.Short() {
		t.Skip("perf")
	}
	env := apitest.New(t, partsApi.RegisterPartRoutes)
	d := *env.Deps
	d.Auth = nil
	RegisterGraphQLRoutes(env.E, &d)

	m := repotest.Hierarchy(t, env.DB, "Android", "Samsung", "Galaxy", "Galaxy S24")
	createStart := time.Now()
	for i := 0; i < 100; i++ {
		rec := env.Do(t, http.MethodPost, "/api/parts", map[string]interface{}{
			"name": fmt.Sprintf("Perf Part %03d", i+1), "sku": fmt.Sprintf("PERF-%03d", i+1),
			"realCost": 10, "sellingPrice": 20, "stock": 5, "modelIds": []string{m.ID},
		})
		apitest.Expect(t, rec, http.StatusCreated)
	}
	createDur := time.Since(createStart)

	runREST := func() time.Duration {
		start := time.Now()
		rec := env.Do(t, http.MethodGet, "/api/parts?limit=100", nil)
		apitest.Expect(t, rec, http.StatusOK)
		return time.Since(start)
	}
	runGQL := func(pageSize int) time.Duration {
		req := apitest.NewRequest(t, http.MethodPost, "/graphql", map[string]interface{}{
			"query":     `query($n: Int) { parts(pageSize: $n) { items { sku sellingPrice models { slug } } pagination { totalCount } } }`,
			"variables": map[string]int{"n": pageSize},
		})
		start := time.Now()
		rec := httptest.NewRecorder()
		env.E.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("graphql pageSize=%d status = %d", pageSize, rec.Code)
		}
		return time.Since(start)
	}

	t.Logf(`=== GraphQL vs REST API (100 parts) ===
Create 100 parts:   %v
REST list (100):    %v
REST list (100):    %v
GraphQL fetch 1:    %v
GraphQL fetch 50:   %v
GraphQL fetch 100:  %v`, createDur, runREST(), runREST(), runGQL(1), runGQL(50), runGQL(100))
}
