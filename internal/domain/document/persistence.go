package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/rpggio/pantry/internal/codec"
	"github.com/rpggio/pantry/internal/domain/activity"
	"github.com/rpggio/pantry/internal/repository"
)

// Save encodes the current document, meals in display order.
func (s *Service) Save() ([]byte, error) {
	data, err := codec.Encode(s.doc.unsorted, s.doc.index.Meals())
	if err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}
	return data, nil
}

// Load decodes data and installs it as the current document. On error the
// current document is left untouched.
func (s *Service) Load(ctx context.Context, data []byte) error {
	doc, err := s.decode(data)
	if err != nil {
		return err
	}
	s.Replace(doc)
	s.record(ctx, activity.TypeDocumentLoaded, nil, nil, fmt.Sprintf("loaded %d meals", doc.index.Len()))
	return nil
}

// Replace discards the current document, purging its sections, and installs doc.
func (s *Service) Replace(doc *Document) {
	if doc == nil {
		return
	}
	s.doc.purge()
	s.doc = doc
	s.notify(EventDocumentReplaced, Change{Meal: doc.unsorted, Unsorted: true})
}

func (s *Service) decode(data []byte) (*Document, error) {
	snap, err := codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	snap.Unsorted.SetTitle(s.printer.UnsortedTitle())
	idx, err := snap.Index(s.offset, s.indexOptions()...)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	return newDocument(snap.Unsorted, idx), nil
}

// SaveAsync snapshots the document now and writes it to store in the
// background. The channel yields exactly one result.
func (s *Service) SaveAsync(ctx context.Context, store Store) <-chan error {
	done := make(chan error, 1)
	data, err := s.Save()
	if err != nil {
		done <- err
		close(done)
		return done
	}

	go func() {
		defer close(done)
		if err := store.Write(ctx, data); err != nil {
			done <- fmt.Errorf("writing document: %w", err)
			return
		}
		done <- nil
	}()
	return done
}

// LoadAsync reads and decodes a document from store in the background. The
// result is not installed; pass it to Replace from the intent-processing
// goroutine. A store with nothing written yields an empty document.
func (s *Service) LoadAsync(ctx context.Context, store Store) <-chan LoadResult {
	done := make(chan LoadResult, 1)
	go func() {
		defer close(done)
		data, err := store.Read(ctx)
		if errors.Is(err, repository.ErrNotFound) {
			done <- LoadResult{Document: s.emptyDocument()}
			return
		}
		if err != nil {
			done <- LoadResult{Err: fmt.Errorf("reading document: %w", err)}
			return
		}
		doc, err := s.decode(data)
		done <- LoadResult{Document: doc, Err: err}
	}()
	return done
}
