package service

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/meilisearch/meilisearch-go"
	"github.com/tr33-app/tr33-backend/internal/entity"
)

// ScanSearchService indexes committed scans into Meilisearch so the
// collection can be searched by tree or scientific name.
type ScanSearchService interface {
	IndexScan(scan *entity.ScannedTree, nickname string) error
	Search(query string) ([]ScanDocument, error)
	ReindexAll(scans []entity.ScannedTree) error
}

type ScanDocument struct {
	ID             string `json:"id"`
	UserID         string `json:"user_id"`
	Nickname       string `json:"nickname"`
	TreeName       string `json:"tree_name"`
	ScientificName string `json:"scientific_name"`
	CarbonScore    int    `json:"carbon_score"`
	CreatedAt      int64  `json:"created_at"`
}

const scansIndex = "scans"

type scanSearchService struct {
	client meilisearch.ServiceManager
}

func NewScanSearchService(client meilisearch.ServiceManager) ScanSearchService {
	s := &scanSearchService{client: client}
	s.initIndexes()
	return s
}

func (s *scanSearchService) initIndexes() {
	filterableAttrs := []string{"user_id"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	if _, err := s.client.Index(scansIndex).UpdateFilterableAttributes(&filterableInterface); err != nil {
		log.Printf("Failed to update scans filterable attributes: %v", err)
	}

	sortableAttrs := []string{"created_at", "carbon_score"}
	if _, err := s.client.Index(scansIndex).UpdateSortableAttributes(&sortableAttrs); err != nil {
		log.Printf("Failed to update scans sortable attributes: %v", err)
	}

	log.Println("Meilisearch scans index initialized")
}

func toDocument(scan *entity.ScannedTree, nickname string) ScanDocument {
	return ScanDocument{
		ID:             strconv.FormatUint(uint64(scan.ID), 10),
		UserID:         scan.UserID.String(),
		Nickname:       nickname,
		TreeName:       scan.TreeName,
		ScientificName: scan.ScientificName,
		CarbonScore:    scan.CarbonScore,
		CreatedAt:      scan.CreatedAt.Unix(),
	}
}

func strPtr(s string) *string {
	return &s
}

func (s *scanSearchService) IndexScan(scan *entity.ScannedTree, nickname string) error {
	doc := toDocument(scan, nickname)
	if _, err := s.client.Index(scansIndex).AddDocuments([]ScanDocument{doc}, strPtr("id")); err != nil {
		return fmt.Errorf("failed to index scan %s: %w", doc.ID, err)
	}
	return nil
}

func (s *scanSearchService) Search(query string) ([]ScanDocument, error) {
	resp, err := s.client.Index(scansIndex).Search(query, &meilisearch.SearchRequest{
		Limit: 50,
	})
	if err != nil {
		return nil, fmt.Errorf("scan search failed: %w", err)
	}

	docs := make([]ScanDocument, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		raw, err := json.Marshal(hit)
		if err != nil {
			continue
		}
		var doc ScanDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

func (s *scanSearchService) ReindexAll(scans []entity.ScannedTree) error {
	docs := make([]ScanDocument, 0, len(scans))
	for i := range scans {
		docs = append(docs, toDocument(&scans[i], scans[i].User.Nickname))
	}

	if len(docs) == 0 {
		return nil
	}

	if _, err := s.client.Index(scansIndex).AddDocuments(docs, strPtr("id")); err != nil {
		return fmt.Errorf("failed to reindex scans: %w", err)
	}

	log.Printf("Reindexed %d scans into Meilisearch", len(docs))
	return nil
}
