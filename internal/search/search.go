// Package search maintains a Meilisearch index of questions. Callers fall
// back to SQL matching when the index is unavailable, so indexing is
// best-effort and fire-and-forget.
package search

import (
	"encoding/json"
	"log"
	"strconv"
	"sync/atomic"
	"time"

	meili "github.com/meilisearch/meilisearch-go"
)

const idxQuestions = "devflow_questions"

// QuestionRecord is the data we index for a question.
type QuestionRecord struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Index wraps the Meilisearch client for the question index.
type Index struct {
	client  meili.ServiceManager
	healthy atomic.Bool
	done    chan struct{}
}

// New creates a Meilisearch client and configures the question index.
// The index starts unhealthy if the initial connection fails and recovers
// via the background health loop.
func New(url, apiKey string) *Index {
	client := meili.New(url, meili.WithAPIKey(apiKey))

	m := &Index{
		client: client,
		done:   make(chan struct{}),
	}

	if _, err := client.Health(); err != nil {
		log.Printf("search: meilisearch unavailable at %s: %v", url, err)
		m.healthy.Store(false)
	} else {
		m.healthy.Store(true)
		m.configureIndex()
	}

	go m.healthLoop()
	return m
}

func (m *Index) configureIndex() {
	if _, err := m.client.CreateIndex(&meili.IndexConfig{
		Uid:        idxQuestions,
		PrimaryKey: "id",
	}); err != nil {
		log.Printf("search: create index %s (may already exist): %v", idxQuestions, err)
	}

	searchable := []string{"title", "content"}
	if _, err := m.client.Index(idxQuestions).UpdateSearchableAttributes(&searchable); err != nil {
		log.Printf("search: update searchable attrs for %s: %v", idxQuestions, err)
	}
}

func (m *Index) healthLoop() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			_, err := m.client.Health()
			wasHealthy := m.healthy.Load()
			m.healthy.Store(err == nil)
			if err == nil && !wasHealthy {
				log.Println("search: meilisearch recovered, reconfiguring index")
				m.configureIndex()
			}
		}
	}
}

// Close stops the background health monitor.
func (m *Index) Close() {
	close(m.done)
}

// Healthy reports whether Meilisearch is reachable. A nil *Index reports
// unhealthy, so callers configured without search skip it transparently.
func (m *Index) Healthy() bool {
	return m != nil && m.healthy.Load()
}

// IndexQuestion adds or updates a question in the search index.
func (m *Index) IndexQuestion(rec QuestionRecord) {
	if !m.Healthy() {
		return
	}
	go func() {
		if _, err := m.client.Index(idxQuestions).AddDocuments([]QuestionRecord{rec}, nil); err != nil {
			log.Printf("search: index question %d: %v", rec.ID, err)
		}
	}()
}

// DeleteQuestion removes a question from the search index.
func (m *Index) DeleteQuestion(id int) {
	if !m.Healthy() {
		return
	}
	go func() {
		if _, err := m.client.Index(idxQuestions).DeleteDocument(strconv.Itoa(id), nil); err != nil {
			log.Printf("search: delete question %d: %v", id, err)
		}
	}()
}

// SearchQuestions returns the ids of matching questions, best first.
// The second return is false when the index could not serve the query and
// the caller should use its SQL fallback.
func (m *Index) SearchQuestions(query string, limit int) ([]int, bool) {
	if !m.Healthy() {
		return nil, false
	}
	if limit <= 0 {
		limit = 20
	}

	resp, err := m.client.Index(idxQuestions).Search(query, &meili.SearchRequest{
		Limit: int64(limit),
	})
	if err != nil {
		m.healthy.Store(false)
		log.Printf("search: query %q: %v", query, err)
		return nil, false
	}

	ids := make([]int, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		raw, ok := hit["id"]
		if !ok {
			continue
		}
		var id int
		if err := json.Unmarshal(raw, &id); err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, true
}
