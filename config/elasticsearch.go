package config

import (
	"github.com/elastic/go-elasticsearch/v8"
)

// ElasticsearchIndex returns the parts index name, prefixed when
// ELASTICSEARCH_INDEX_PREFIX is set.
func ElasticsearchIndex() string {
	if prefix := GetEnv("ELASTICSEARCH_INDEX_PREFIX", ""); prefix != "" {
		return prefix + "_parts"
	}
	return "parts"
}

func NewElasticsearchClient() (*elasticsearch.Client, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{GetEnv("ELASTICSEARCH_HOST", "http://localhost:9200")},
		Username:  GetEnv("ELASTICSEARCH_USERNAME", ""),
		Password:  GetEnv("ELASTICSEARCH_PASSWORD", ""),
	}
	return elasticsearch.NewClient(cfg)
}
