// Package search keeps the Elasticsearch parts index in step with the
// database and answers full-text part searches.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"repairshop.GO/core/apperror"
	catalogEntity "repairshop.GO/model/entity/catalog"
	catalogRepo "repairshop.GO/model/repository/catalog"
)

const reindexBatch = 100

type Service struct {
	client *elasticsearch.Client
	index  string
	parts  *catalogRepo.PartRepository
	log    logrus.FieldLogger
}

// NewService returns a search service. A nil client yields a service that
// reports itself unavailable and ignores index updates.
func NewService(client *elasticsearch.Client, index string, db *gorm.DB, log logrus.FieldLogger) *Service {
	return &Service{
		client: client,
		index:  index,
		parts:  catalogRepo.NewPartRepository(db),
		log:    log.WithField("module", "search"),
	}
}

func (s *Service) Index() string { return s.index }

// Healthy reports whether the cluster answers and is not red.
func (s *Service) Healthy(ctx context.Context) bool {
	if s.client == nil {
		return false
	}
	res, err := s.client.Cluster.Health(s.client.Cluster.Health.WithContext(ctx))
	if err != nil {
		return false
	}
	defer res.Body.Close()
	if res.IsError() {
		return false
	}
	var health struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(res.Body).Decode(&health); err != nil {
		return false
	}
	return health.Status != "" && health.Status != "red"
}

// EnsureIndex creates the parts index with its mapping when missing.
func (s *Service) EnsureIndex(ctx context.Context) error {
	if s.client == nil {
		return apperror.Unavailable("Search is not configured", nil)
	}
	res, err := s.client.Indices.Exists([]string{s.index}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return apperror.Unavailable("Search engine unreachable", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = s.client.Indices.Create(s.index,
		s.client.Indices.Create.WithContext(ctx),
		s.client.Indices.Create.WithBody(strings.NewReader(indexMapping)),
	)
	if err != nil {
		return apperror.Unavailable("Search engine unreachable", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", s.index, res.String())
	}
	s.log.WithField("index", s.index).Info("search index created")
	return nil
}

// Put writes one document, refreshing so it is searchable immediately.
func (s *Service) Put(ctx context.Context, doc Document) error {
	if s.client == nil {
		return nil
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	res, err := s.client.Index(s.index, bytes.NewReader(body),
		s.client.Index.WithContext(ctx),
		s.client.Index.WithDocumentID(doc.ID),
		s.client.Index.WithRefresh("true"),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index part %s: %s", doc.ID, res.String())
	}
	return nil
}

// IndexPart loads a part with its hierarchy and indexes it.
func (s *Service) IndexPart(ctx context.Context, id string) error {
	if s.client == nil {
		return nil
	}
	p, err := s.parts.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load part %s: %w", id, err)
	}
	return s.Put(ctx, NewDocument(*p))
}

// DeletePart removes a part from the index. A missing document is not an error.
func (s *Service) DeletePart(ctx context.Context, id string) error {
	if s.client == nil {
		return nil
	}
	res, err := s.client.Delete(s.index, id,
		s.client.Delete.WithContext(ctx),
		s.client.Delete.WithRefresh("true"),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete part %s: %s", id, res.String())
	}
	return nil
}

// PartsChanged re-indexes parts after a commit. Failures are logged only.
func (s *Service) PartsChanged(ctx context.Context, partIDs ...string) {
	if s.client == nil {
		return
	}
	for _, id := range partIDs {
		if err := s.IndexPart(ctx, id); err != nil {
			s.log.WithError(err).WithField("partId", id).Warn("search index update failed")
		}
	}
}

func (s *Service) PartsDeleted(ctx context.Context, partIDs ...string) {
	if s.client == nil {
		return
	}
	for _, id := range partIDs {
		if err := s.DeletePart(ctx, id); err != nil {
			s.log.WithError(err).WithField("partId", id).Warn("search index delete failed")
		}
	}
}

// Query is a search request.
type Query struct {
	Q             string
	PlatformSlugs []string
	BrandSlugs    []string
	FamilySlugs   []string
	ModelSlugs    []string
	LowStockOnly  bool
	MinPrice      *float64
	MaxPrice      *float64
	From          int
	Size          int
}

// Hit is a matched part with its relevance score.
type Hit struct {
	Document
	Score *float64 `json:"_score"`
}

type Result struct {
	Hits  []Hit `json:"hits"`
	Total int   `json:"total"`
	Took  int   `json:"took"`
}

type object = map[string]interface{}

// BuildQuery renders q as an Elasticsearch request body.
func BuildQuery(q Query) object {
	size := q.Size
	if size <= 0 {
		size = 20
	}
	from := q.From
	if from < 0 {
		from = 0
	}

	must := []interface{}{}
	text := strings.TrimSpace(q.Q)
	if text != "" {
		must = append(must, object{"multi_match": object{
			"query":     text,
			"fields":    []string{"name^3", "description^2", "sku^2", "platformNames", "brandNames", "familyNames", "modelNames"},
			"type":      "best_fields",
			"fuzziness": "AUTO",
		}})
	} else {
		must = append(must, object{"match_all": object{}})
	}

	filter := []interface{}{}
	for field, values := range map[string][]string{
		"platformSlugs": q.PlatformSlugs,
		"brandSlugs":    q.BrandSlugs,
		"familySlugs":   q.FamilySlugs,
		"modelSlugs":    q.ModelSlugs,
	} {
		if len(values) > 0 {
			filter = append(filter, object{"terms": object{field: values}})
		}
	}
	if q.LowStockOnly {
		filter = append(filter, object{"term": object{"isLowStock": true}})
	}
	if q.MinPrice != nil || q.MaxPrice != nil {
		r := object{}
		if q.MinPrice != nil {
			r["gte"] = *q.MinPrice
		}
		if q.MaxPrice != nil {
			r["lte"] = *q.MaxPrice
		}
		filter = append(filter, object{"range": object{"sellingPrice": r}})
	}

	byUpdated := object{"updatedAt": object{"order": "desc"}}
	sort := []interface{}{byUpdated}
	if text != "" {
		sort = []interface{}{"_score", byUpdated}
	}

	return object{
		"from":  from,
		"size":  size,
		"query": object{"bool": object{"must": must, "filter": filter}},
		"sort":  sort,
	}
}

// Search runs q against the index. An unreachable or red cluster is
// reported as unavailable.
func (s *Service) Search(ctx context.Context, q Query) (*Result, error) {
	if !s.Healthy(ctx) {
		return nil, apperror.Unavailable("Search is currently unavailable", nil)
	}
	body, err := json.Marshal(BuildQuery(q))
	if err != nil {
		return nil, apperror.Internal("encode search", err)
	}
	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, apperror.Unavailable("Search is currently unavailable", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, apperror.Unavailable("Search failed", fmt.Errorf("elasticsearch error: %s", res.String()))
	}

	var esResp struct {
		Took int `json:"took"`
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				Score  *float64               `json:"_score"`
				Source map[string]interface{} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, apperror.Internal("decode search response", err)
	}

	out := &Result{Hits: make([]Hit, 0, len(esResp.Hits.Hits)), Total: esResp.Hits.Total.Value, Took: esResp.Took}
	for _, h := range esResp.Hits.Hits {
		doc, err := decodeSource(h.Source)
		if err != nil {
			s.log.WithError(err).Warn("skipping undecodable search hit")
			continue
		}
		out.Hits = append(out.Hits, Hit{Document: doc, Score: h.Score})
	}
	return out, nil
}

var sourceDecodeHook = mapstructure.ComposeDecodeHookFunc(
	mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
	mapstructure.StringToSliceHookFunc(","),
)

func decodeSource(src map[string]interface{}) (Document, error) {
	var doc Document
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook:       sourceDecodeHook,
		Result:           &doc,
		TagName:          "mapstructure",
	})
	if err != nil {
		return doc, err
	}
	if err := dec.Decode(src); err != nil {
		return doc, err
	}
	for _, list := range []*[]string{
		&doc.PlatformSlugs, &doc.BrandSlugs, &doc.FamilySlugs, &doc.ModelSlugs,
		&doc.PlatformNames, &doc.BrandNames, &doc.FamilyNames, &doc.ModelNames,
	} {
		if *list == nil {
			*list = []string{}
		}
	}
	return doc, nil
}

// ReindexReport summarizes a full rebuild of the index.
type ReindexReport struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Indexed int    `json:"indexed"`
	Errors  int    `json:"errors"`
}

// ReindexAll writes every part to the index.
func (s *Service) ReindexAll(ctx context.Context) (ReindexReport, error) {
	if !s.Healthy(ctx) {
		return ReindexReport{Message: "Elasticsearch not available"}, apperror.Unavailable("Elasticsearch not available", nil)
	}
	if err := s.EnsureIndex(ctx); err != nil {
		return ReindexReport{Message: "Indexing failed"}, err
	}

	var report ReindexReport
	err := s.parts.EachBatch(ctx, reindexBatch, func(batch []catalogEntity.Part) error {
		for _, p := range batch {
			if err := s.Put(ctx, NewDocument(p)); err != nil {
				s.log.WithError(err).WithField("partId", p.ID).Warn("reindex part failed")
				report.Errors++
				continue
			}
			report.Indexed++
		}
		return ctx.Err()
	})
	if err != nil {
		report.Message = "Indexing failed"
		return report, apperror.Internal("reindex parts", err)
	}

	report.Success = true
	report.Message = fmt.Sprintf("Successfully indexed %d parts", report.Indexed)
	if report.Errors > 0 {
		report.Message += fmt.Sprintf(" (%d errors)", report.Errors)
	}
	s.log.WithFields(logrus.Fields{"indexed": report.Indexed, "errors": report.Errors}).Info("search reindex finished")
	return report, nil
}
