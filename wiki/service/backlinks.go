package service

import (
	"errors"

	"github.com/danielledeleo/wikirefs/render"
	"github.com/danielledeleo/wikirefs/wiki"
)

// Backlink is one reference from another document to a target.
type Backlink struct {
	From  string       `json:"from" yaml:"from"`
	Title string       `json:"title" yaml:"title"`
	Kind  wiki.RefKind `json:"kind" yaml:"kind"`
	Type  string       `json:"type,omitempty" yaml:"type,omitempty"`
}

// BacklinkService answers "what refers to this document?".
type BacklinkService interface {
	GetBacklinks(filename string) ([]Backlink, error)
}

type backlinkService struct {
	docs DocumentService
	refs *render.RefExtractor
}

// NewBacklinkService scans every document of docs for references. Nothing
// is cached, so the answer always reflects the stored markdown.
func NewBacklinkService(docs DocumentService) BacklinkService {
	return &backlinkService{
		docs: docs,
		refs: render.NewRefExtractor(),
	}
}

func (s *backlinkService) GetBacklinks(filename string) ([]Backlink, error) {
	summaries, err := s.docs.GetAllDocuments()
	if errors.Is(err, wiki.ErrNoDocuments) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var backlinks []Backlink
	for _, summary := range summaries {
		if summary.Filename == filename {
			continue
		}
		doc, err := s.docs.GetDocument(summary.Filename)
		if err != nil {
			return nil, err
		}
		for _, ref := range s.refs.ExtractRefs(doc.Markdown) {
			if ref.Filename != filename {
				continue
			}
			backlinks = append(backlinks, Backlink{
				From:  doc.Filename,
				Title: summary.DisplayTitle(),
				Kind:  ref.Kind,
				Type:  ref.Type,
			})
		}
	}
	return backlinks, nil
}
