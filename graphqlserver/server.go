package graphqlserver

import (
	gql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"repairshop.GO/core/cache"
	"repairshop.GO/graphql"
	"repairshop.GO/graphql/resolvers"
)

// RootResolver is the root for graphql-go.
type RootResolver struct {
	query *resolvers.QueryResolver
}

// Query returns the query resolver.
func (r *RootResolver) Query() *resolvers.QueryResolver {
	return r.query
}

// NewSchema parses the schema (with registered extensions) against the
// catalog, sales and analytics resolvers.
func NewSchema(db *gorm.DB, store cache.Store, log logrus.FieldLogger) (*gql.Schema, error) {
	q, err := resolvers.NewQueryResolver(db, store, log)
	if err != nil {
		return nil, err
	}
	return gql.ParseSchema(graphql.Schema(), &RootResolver{query: q}, gql.UseFieldResolvers())
}

// Handler returns an http.Handler for GraphQL (relay format).
func Handler(schema *gql.Schema) *relay.Handler {
	return &relay.Handler{Schema: schema}
}
