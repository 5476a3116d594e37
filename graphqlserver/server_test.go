package graphqlserver

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"

	"repairshop.GO/core/cache"
	"repairshop.GO/model/repository/repotest"
)

func TestNewSchema_ParsesAndDefaultsArgs(t *testing.T) {
	db := repotest.Open(t)
	log, _ := test.NewNullLogger()
	schema, err := NewSchema(db, cache.NewMemoryStore(cache.NewCache()), log)
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	repotest.Part(t, db, "SCHEMA-1", 1)

	queries := []string{
		`{ parts { items { sku } pagination { page limit } } }`,
		`{ lowStock { sku } }`,
		`{ sales { pagination { totalCount } } }`,
	}
	for _, q := range queries {
		res := schema.Exec(context.Background(), q, "", nil)
		if len(res.Errors) > 0 {
			t.Errorf("%s: %v", q, res.Errors)
		}
	}

	res := schema.Exec(context.Background(), `{ parts { pagination { page limit } } }`, "", nil)
	if string(res.Data) != `{"parts":{"pagination":{"page":1,"limit":20}}}` {
		t.Errorf("default pagination = %s", res.Data)
	}
}
