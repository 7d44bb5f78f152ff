package handlers

import (
	"context"
	"time"

	"lexmatter/application/ports"
	"lexmatter/domain/core/entities"
	"lexmatter/domain/core/valueobjects"
	"lexmatter/domain/events"
	pkgerrors "lexmatter/pkg/errors"
)

// In-memory fakes for the persistence ports. They store entities keyed by ID
// and surface the same not-found errors the real adapters return.

type fakeMatterRepo struct {
	matters map[string]*entities.Matter
	saveErr error
	saves   int
}

func newFakeMatterRepo(matters ...*entities.Matter) *fakeMatterRepo {
	repo := &fakeMatterRepo{matters: make(map[string]*entities.Matter)}
	for _, m := range matters {
		repo.matters[m.ID().String()] = m
	}
	return repo
}

func (r *fakeMatterRepo) Save(_ context.Context, matter *entities.Matter) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.matters[matter.ID().String()] = matter
	return nil
}

func (r *fakeMatterRepo) GetByID(_ context.Context, id valueobjects.MatterID) (*entities.Matter, error) {
	matter, ok := r.matters[id.String()]
	if !ok {
		return nil, pkgerrors.ErrMatterNotFound
	}
	return matter, nil
}

func (r *fakeMatterRepo) GetByNumber(_ context.Context, userID, number string) (*entities.Matter, error) {
	for _, matter := range r.matters {
		if matter.UserID() == userID && matter.Number() == number {
			return matter, nil
		}
	}
	return nil, pkgerrors.ErrMatterNotFound
}

func (r *fakeMatterRepo) GetByUserID(_ context.Context, userID string, _ ports.ListFilter) ([]*entities.Matter, error) {
	var result []*entities.Matter
	for _, matter := range r.matters {
		if matter.UserID() == userID {
			result = append(result, matter)
		}
	}
	return result, nil
}

func (r *fakeMatterRepo) Delete(_ context.Context, id valueobjects.MatterID) error {
	delete(r.matters, id.String())
	return nil
}

type fakeDocumentRepo struct {
	documents map[string]*entities.Document
	saveErr   error
	saves     int
}

func newFakeDocumentRepo(documents ...*entities.Document) *fakeDocumentRepo {
	repo := &fakeDocumentRepo{documents: make(map[string]*entities.Document)}
	for _, d := range documents {
		repo.documents[d.ID().String()] = d
	}
	return repo
}

func (r *fakeDocumentRepo) Save(_ context.Context, document *entities.Document) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.documents[document.ID().String()] = document
	return nil
}

func (r *fakeDocumentRepo) GetByID(_ context.Context, id valueobjects.DocumentID) (*entities.Document, error) {
	document, ok := r.documents[id.String()]
	if !ok {
		return nil, pkgerrors.ErrDocumentNotFound
	}
	return document, nil
}

func (r *fakeDocumentRepo) GetByMatterID(_ context.Context, matterID valueobjects.MatterID, _ ports.ListFilter) ([]*entities.Document, error) {
	var result []*entities.Document
	for _, document := range r.documents {
		if document.MatterID().Equals(matterID) {
			result = append(result, document)
		}
	}
	return result, nil
}

func (r *fakeDocumentRepo) FileNamesByMatterID(_ context.Context, matterID valueobjects.MatterID) ([]string, error) {
	var names []string
	for _, document := range r.documents {
		if document.MatterID().Equals(matterID) && !document.IsDeleted() {
			names = append(names, document.FileName().String())
		}
	}
	return names, nil
}

func (r *fakeDocumentRepo) CountCheckedOut(_ context.Context, matterID valueobjects.MatterID) (int, error) {
	count := 0
	for _, document := range r.documents {
		if document.MatterID().Equals(matterID) && document.IsCheckedOut() {
			count++
		}
	}
	return count, nil
}

func (r *fakeDocumentRepo) Delete(_ context.Context, id valueobjects.DocumentID) error {
	delete(r.documents, id.String())
	return nil
}

type transferPair struct {
	from *entities.TransferRecord
	to   *entities.TransferRecord
}

type fakeAuditStore struct {
	matterActivity   []*entities.MatterActivityRecord
	documentActivity []*entities.DocumentActivityRecord
	transfers        []transferPair
	appendErr        error
}

func (s *fakeAuditStore) AppendMatterActivity(_ context.Context, record *entities.MatterActivityRecord) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.matterActivity = append(s.matterActivity, record)
	return nil
}

func (s *fakeAuditStore) AppendDocumentActivity(_ context.Context, record *entities.DocumentActivityRecord) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.documentActivity = append(s.documentActivity, record)
	return nil
}

func (s *fakeAuditStore) AppendTransferRecords(_ context.Context, from, to *entities.TransferRecord) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.transfers = append(s.transfers, transferPair{from: from, to: to})
	return nil
}

func (s *fakeAuditStore) MatterActivity(_ context.Context, matterID valueobjects.MatterID, _ ports.ListFilter) ([]*entities.MatterActivityRecord, error) {
	var result []*entities.MatterActivityRecord
	for _, record := range s.matterActivity {
		if record.MatterID.Equals(matterID) {
			result = append(result, record)
		}
	}
	return result, nil
}

func (s *fakeAuditStore) DocumentActivity(_ context.Context, documentID valueobjects.DocumentID, _ ports.ListFilter) ([]*entities.DocumentActivityRecord, error) {
	var result []*entities.DocumentActivityRecord
	for _, record := range s.documentActivity {
		if record.DocumentID.Equals(documentID) {
			result = append(result, record)
		}
	}
	return result, nil
}

func (s *fakeAuditStore) TransfersByMatter(_ context.Context, matterID valueobjects.MatterID, direction entities.TransferDirection, _ ports.ListFilter) ([]*entities.TransferRecord, error) {
	var result []*entities.TransferRecord
	for _, pair := range s.transfers {
		for _, record := range []*entities.TransferRecord{pair.from, pair.to} {
			if record.MatterID.Equals(matterID) && (direction == "" || record.Direction == direction) {
				result = append(result, record)
			}
		}
	}
	return result, nil
}

func (s *fakeAuditStore) TransfersByDocument(_ context.Context, documentID valueobjects.DocumentID, _ ports.ListFilter) ([]*entities.TransferRecord, error) {
	var result []*entities.TransferRecord
	for _, pair := range s.transfers {
		if pair.from.DocumentID.Equals(documentID) {
			result = append(result, pair.from, pair.to)
		}
	}
	return result, nil
}

type fakeEventStore struct {
	saved   []events.DomainEvent
	saveErr error
}

func (s *fakeEventStore) SaveEvents(_ context.Context, evts []events.DomainEvent) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, evts...)
	return nil
}

func (s *fakeEventStore) GetEvents(_ context.Context, aggregateID string) ([]events.DomainEvent, error) {
	var result []events.DomainEvent
	for _, evt := range s.saved {
		if evt.GetAggregateID() == aggregateID {
			result = append(result, evt)
		}
	}
	return result, nil
}

func (s *fakeEventStore) GetUnpublished(_ context.Context, _ int) ([]ports.StoredEvent, error) {
	return nil, nil
}

func (s *fakeEventStore) MarkPublished(_ context.Context, _ []ports.StoredEvent) error {
	return nil
}

// fakeUnitOfWork records registrations and applies nothing until Commit.
// Tests assert against the registered sets to verify transaction scope.
type fakeUnitOfWork struct {
	begun      bool
	committed  bool
	rolledBack bool
	beginErr   error
	commitErr  error

	matters    []*entities.Matter
	documents  []*entities.Document
	revisions  []*entities.Revision
	matterActs []*entities.MatterActivityRecord
	docActs    []*entities.DocumentActivityRecord
	transfers  []transferPair
	events     []events.DomainEvent
}

func (u *fakeUnitOfWork) Begin(_ context.Context) error {
	if u.beginErr != nil {
		return u.beginErr
	}
	u.begun = true
	return nil
}

func (u *fakeUnitOfWork) Commit(_ context.Context) error {
	if u.commitErr != nil {
		return u.commitErr
	}
	u.committed = true
	return nil
}

func (u *fakeUnitOfWork) Rollback() error {
	u.rolledBack = true
	return nil
}

func (u *fakeUnitOfWork) RegisterMatter(matter *entities.Matter) error {
	u.matters = append(u.matters, matter)
	return nil
}

func (u *fakeUnitOfWork) RegisterDocument(document *entities.Document) error {
	u.documents = append(u.documents, document)
	return nil
}

func (u *fakeUnitOfWork) RegisterRevision(revision *entities.Revision) error {
	u.revisions = append(u.revisions, revision)
	return nil
}

func (u *fakeUnitOfWork) RegisterMatterActivity(record *entities.MatterActivityRecord) error {
	u.matterActs = append(u.matterActs, record)
	return nil
}

func (u *fakeUnitOfWork) RegisterDocumentActivity(record *entities.DocumentActivityRecord) error {
	u.docActs = append(u.docActs, record)
	return nil
}

func (u *fakeUnitOfWork) RegisterTransferRecords(from, to *entities.TransferRecord) error {
	u.transfers = append(u.transfers, transferPair{from: from, to: to})
	return nil
}

func (u *fakeUnitOfWork) RegisterEvents(evts []events.DomainEvent) error {
	u.events = append(u.events, evts...)
	return nil
}

type fakeLock struct {
	acquired   []string
	releases   int
	acquireErr error
}

func (l *fakeLock) Acquire(_ context.Context, resource string, _ time.Duration) (func(), error) {
	if l.acquireErr != nil {
		return nil, l.acquireErr
	}
	l.acquired = append(l.acquired, resource)
	return func() { l.releases++ }, nil
}

// Fixture builders. Entities come back in a loaded-from-storage state with
// no uncommitted events.

func testMatter(t interface{ Fatalf(string, ...interface{}) }, userID, number string, documentCount int) *entities.Matter {
	now := time.Now()
	matter, err := entities.ReconstructMatter(
		valueobjects.NewMatterID(), userID, number,
		"Acme v. Initech", "Contract dispute", "Acme Corp",
		false, false, documentCount, now, now, 1,
	)
	if err != nil {
		t.Fatalf("reconstruct matter: %v", err)
	}
	return matter
}

func testDocument(t interface{ Fatalf(string, ...interface{}) }, matterID valueobjects.MatterID, userID, fileName string) *entities.Document {
	name, err := valueobjects.NewFileName(fileName)
	if err != nil {
		t.Fatalf("file name: %v", err)
	}
	now := time.Now()
	document, err := entities.ReconstructDocument(
		valueobjects.NewDocumentID(), matterID, userID, name,
		2048, valueobjects.ComputeChecksum([]byte(fileName)), "application/pdf",
		false, "", false, 0, now, now, 1,
	)
	if err != nil {
		t.Fatalf("reconstruct document: %v", err)
	}
	return document
}
