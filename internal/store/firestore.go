package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/lexigo/lexigo/internal/model"
)

// FirestoreStore implements Store on the hosted document database. Layout:
// users/{uid}/categories/{slug} with a words subcollection per category.
// The auth provider owns the uid; this store only namespaces by it.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestore initializes the Firestore client. credentialsFile may be
// empty to use application default credentials.
func NewFirestore(ctx context.Context, projectID, credentialsFile string) (*FirestoreStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	conf := &firebase.Config{ProjectID: projectID}
	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, eris.Wrap(err, "firestore: init app")
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "firestore: init client")
	}
	return &FirestoreStore{client: client}, nil
}

func (s *FirestoreStore) categoryDoc(userID, slug string) *firestore.DocumentRef {
	return s.client.Collection("users").Doc(userID).Collection("categories").Doc(slug)
}

func (s *FirestoreStore) wordsCol(userID, category string) *firestore.CollectionRef {
	return s.categoryDoc(userID, category).Collection("words")
}

// Migrate is a no-op: collections materialize on first write.
func (s *FirestoreStore) Migrate(ctx context.Context) error { return nil }

// Close closes the client.
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

// SaveWord writes the word document and returns its generated ID.
func (s *FirestoreStore) SaveWord(ctx context.Context, userID string, w model.SavedWord) (string, error) {
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
	}
	doc := s.wordsCol(userID, w.Category).NewDoc()
	if w.ID != "" {
		doc = s.wordsCol(userID, w.Category).Doc(w.ID)
	}
	if _, err := doc.Set(ctx, w); err != nil {
		return "", eris.Wrap(err, "firestore: save word")
	}
	return doc.ID, nil
}

// GetWord returns a single word document.
func (s *FirestoreStore) GetWord(ctx context.Context, userID, category, wordID string) (model.SavedWord, error) {
	doc, err := s.wordsCol(userID, category).Doc(wordID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return model.SavedWord{}, eris.Wrapf(ErrNotFound, "word %s", wordID)
		}
		return model.SavedWord{}, eris.Wrap(err, "firestore: get word")
	}
	var w model.SavedWord
	if err := doc.DataTo(&w); err != nil {
		return model.SavedWord{}, eris.Wrap(err, "firestore: decode word")
	}
	w.ID = doc.Ref.ID
	w.Category = category
	return w, nil
}

// ListWords returns the words of a category, newest first.
func (s *FirestoreStore) ListWords(ctx context.Context, userID, category string) ([]model.SavedWord, error) {
	iter := s.wordsCol(userID, category).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var words []model.SavedWord
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "firestore: list words")
		}
		var w model.SavedWord
		if err := doc.DataTo(&w); err != nil {
			return nil, eris.Wrap(err, "firestore: decode word")
		}
		w.ID = doc.Ref.ID
		w.Category = category
		words = append(words, w)
	}
	return words, nil
}

// DeleteWord removes one word document.
func (s *FirestoreStore) DeleteWord(ctx context.Context, userID, category, wordID string) error {
	ref := s.wordsCol(userID, category).Doc(wordID)
	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return eris.Wrapf(ErrNotFound, "word %s", wordID)
		}
		return eris.Wrap(err, "firestore: get word")
	}
	if _, err := ref.Delete(ctx); err != nil {
		return eris.Wrap(err, "firestore: delete word")
	}
	return nil
}

// ClearCategory bulk-deletes every word document of a category.
func (s *FirestoreStore) ClearCategory(ctx context.Context, userID, category string) (int, error) {
	refs, err := s.wordsCol(userID, category).DocumentRefs(ctx).GetAll()
	if err != nil {
		return 0, eris.Wrap(err, "firestore: list word refs")
	}
	if len(refs) == 0 {
		return 0, nil
	}

	bw := s.client.BulkWriter(ctx)
	for _, ref := range refs {
		if _, err := bw.Delete(ref); err != nil {
			return 0, eris.Wrap(err, "firestore: queue delete")
		}
	}
	bw.End()
	return len(refs), nil
}

// CreateCategory writes the category document.
func (s *FirestoreStore) CreateCategory(ctx context.Context, userID string, c model.Category) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if _, err := s.categoryDoc(userID, c.Slug).Set(ctx, c); err != nil {
		return eris.Wrap(err, "firestore: create category")
	}
	return nil
}

// ListCategories returns the user's categories with word counts.
func (s *FirestoreStore) ListCategories(ctx context.Context, userID string) ([]model.Category, error) {
	iter := s.client.Collection("users").Doc(userID).Collection("categories").
		OrderBy("createdAt", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var cats []model.Category
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "firestore: list categories")
		}
		var c model.Category
		if err := doc.DataTo(&c); err != nil {
			return nil, eris.Wrap(err, "firestore: decode category")
		}
		c.Slug = doc.Ref.ID

		refs, err := s.wordsCol(userID, c.Slug).DocumentRefs(ctx).GetAll()
		if err != nil {
			return nil, eris.Wrap(err, "firestore: count words")
		}
		c.WordCount = len(refs)
		cats = append(cats, c)
	}
	return cats, nil
}

// DeleteCategory removes the category document and its words.
func (s *FirestoreStore) DeleteCategory(ctx context.Context, userID, slug string) error {
	if _, err := s.ClearCategory(ctx, userID, slug); err != nil {
		return err
	}
	if _, err := s.categoryDoc(userID, slug).Delete(ctx); err != nil {
		return eris.Wrap(err, "firestore: delete category")
	}
	return nil
}

// Watch subscribes to the category's query snapshots and emits the word
// list on every change.
func (s *FirestoreStore) Watch(ctx context.Context, userID, category string) (<-chan []model.SavedWord, error) {
	snaps := s.wordsCol(userID, category).
		OrderBy("createdAt", firestore.Desc).
		Snapshots(ctx)

	ch := make(chan []model.SavedWord, 1)
	go func() {
		defer close(ch)
		defer snaps.Stop()
		for {
			snap, err := snaps.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					zap.L().Warn("firestore: watch ended", zap.Error(err))
				}
				return
			}
			words, err := decodeSnapshot(snap, category)
			if err != nil {
				zap.L().Warn("firestore: decode snapshot", zap.Error(err))
				continue
			}
			select {
			case ch <- words:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

func decodeSnapshot(snap *firestore.QuerySnapshot, category string) ([]model.SavedWord, error) {
	var words []model.SavedWord
	for {
		doc, err := snap.Documents.Next()
		if err == iterator.Done {
			return words, nil
		}
		if err != nil {
			return nil, err
		}
		var w model.SavedWord
		if err := doc.DataTo(&w); err != nil {
			return nil, err
		}
		w.ID = doc.Ref.ID
		w.Category = category
		words = append(words, w)
	}
}
