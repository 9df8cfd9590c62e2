package wiki

import (
	"sort"
	"sync"
)

// Store looks documents up by filename. Resolvers read through it while
// rendering, so implementations must be safe for concurrent use.
type Store interface {
	// GetDocument returns ErrDocumentNotFound when filename is unknown.
	GetDocument(filename string) (*Document, error)
}

// MemoryStore is a Store backed by a map.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewMemoryStore returns a store holding docs.
func NewMemoryStore(docs ...*Document) *MemoryStore {
	s := &MemoryStore{docs: make(map[string]*Document, len(docs))}
	for _, doc := range docs {
		s.docs[doc.Filename] = doc
	}
	return s
}

// GetDocument implements Store.
func (s *MemoryStore) GetDocument(filename string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[filename]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}

// PutDocument adds or replaces doc.
func (s *MemoryStore) PutDocument(doc *Document) error {
	if err := ValidateFilename(doc.Filename); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.Filename] = doc
	return nil
}

// ListDocuments returns a summary of every document, sorted by filename.
func (s *MemoryStore) ListDocuments() ([]*DocumentSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]*DocumentSummary, 0, len(s.docs))
	for _, doc := range s.docs {
		fm, _ := ParseFrontmatter(doc.Markdown)
		summaries = append(summaries, &DocumentSummary{
			Filename:     doc.Filename,
			LastModified: doc.LastModified,
			Title:        fm.Title,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Filename < summaries[j].Filename
	})
	return summaries, nil
}
