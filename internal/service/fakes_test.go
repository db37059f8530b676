package service

import (
	"context"
	"sort"
	"time"

	"github.com/bazarkampus/bazar-api/internal/domain"
	"github.com/bazarkampus/bazar-api/internal/repository"
)

// In-memory fakes implementing the service-side repository interfaces. They
// mirror the conditional-write semantics of the real dao layer so the
// services' gate logic can be exercised without a database.

type fakeUserRepo struct {
	users  map[uint]domain.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]domain.User)}
}

func (f *fakeUserRepo) add(name, email, role string) domain.User {
	f.nextID++
	u := domain.User{ID: f.nextID, Name: name, Email: email, Role: role}
	f.users[u.ID] = u
	return u
}

func (f *fakeUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	for _, u := range f.users {
		if u.Email == user.Email {
			return domain.User{}, repository.ErrUserEmailExists
		}
	}
	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, repository.ErrUserNotFound
}

func (f *fakeUserRepo) FindByRole(_ context.Context, role string) ([]domain.User, error) {
	var out []domain.User
	for _, u := range f.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUserRepo) FindByIDs(_ context.Context, ids []uint) ([]domain.User, error) {
	var out []domain.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeEventRepo struct {
	events   map[uint]domain.Event
	sponsors map[uint]domain.Sponsor
	nextID   uint
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		events:   make(map[uint]domain.Event),
		sponsors: make(map[uint]domain.Sponsor),
	}
}

func (f *fakeEventRepo) add(event domain.Event) domain.Event {
	f.nextID++
	event.ID = f.nextID
	f.events[event.ID] = event
	return event
}

func (f *fakeEventRepo) Create(_ context.Context, event domain.Event) (domain.Event, error) {
	return f.add(event), nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, id uint) (domain.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}
	return e, nil
}

func (f *fakeEventRepo) List(_ context.Context, _, _ int) ([]domain.Event, int64, error) {
	var out []domain.Event
	for _, e := range f.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (f *fakeEventRepo) Update(_ context.Context, event domain.Event) (domain.Event, error) {
	if _, ok := f.events[event.ID]; !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}
	f.events[event.ID] = event
	return event, nil
}

func (f *fakeEventRepo) UpdateStatus(_ context.Context, id uint, from, to string) error {
	e, ok := f.events[id]
	if !ok {
		return repository.ErrEventNotFound
	}
	if e.Status != from {
		return repository.ErrEventStatusMoved
	}
	e.Status = to
	f.events[id] = e
	return nil
}

func (f *fakeEventRepo) AddSponsor(_ context.Context, sponsor domain.Sponsor) (domain.Sponsor, error) {
	f.nextID++
	sponsor.ID = f.nextID
	f.sponsors[sponsor.ID] = sponsor
	return sponsor, nil
}

func (f *fakeEventRepo) FindSponsors(_ context.Context, eventID uint) ([]domain.Sponsor, error) {
	var out []domain.Sponsor
	for _, s := range f.sponsors {
		if s.EventID == eventID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) DeleteSponsor(_ context.Context, eventID, sponsorID uint) error {
	s, ok := f.sponsors[sponsorID]
	if !ok || s.EventID != eventID {
		return repository.ErrSponsorNotFound
	}
	delete(f.sponsors, sponsorID)
	return nil
}

type fakeBusinessRepo struct {
	businesses map[uint]domain.Business
	nextID     uint
}

func newFakeBusinessRepo() *fakeBusinessRepo {
	return &fakeBusinessRepo{businesses: make(map[uint]domain.Business)}
}

func (f *fakeBusinessRepo) add(business domain.Business) domain.Business {
	f.nextID++
	business.ID = f.nextID
	f.businesses[business.ID] = business
	return business
}

func (f *fakeBusinessRepo) Create(_ context.Context, business domain.Business) (domain.Business, error) {
	for _, b := range f.businesses {
		if b.EventID != business.EventID {
			continue
		}
		if b.OwnerID == business.OwnerID {
			return domain.Business{}, repository.ErrDuplicateRegistration
		}
		if b.ProductName == business.ProductName {
			return domain.Business{}, repository.ErrProductNameTaken
		}
	}
	return f.add(business), nil
}

func (f *fakeBusinessRepo) GetByID(_ context.Context, id uint) (domain.Business, error) {
	b, ok := f.businesses[id]
	if !ok {
		return domain.Business{}, repository.ErrBusinessNotFound
	}
	return b, nil
}

func (f *fakeBusinessRepo) FindByEventID(_ context.Context, eventID uint, _, _ int) ([]domain.Business, int64, error) {
	var out []domain.Business
	for _, b := range f.businesses {
		if b.EventID == eventID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (f *fakeBusinessRepo) FindEligibleByEventID(_ context.Context, eventID uint) ([]domain.Business, error) {
	var out []domain.Business
	for _, b := range f.businesses {
		if b.EventID == eventID && b.Status == domain.BusinessApproved && b.Type == domain.BusinessStudent {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeBusinessRepo) CountByEventID(_ context.Context, eventID uint) (int64, error) {
	var n int64
	for _, b := range f.businesses {
		if b.EventID == eventID && b.Status != domain.BusinessRejected {
			n++
		}
	}
	return n, nil
}

func (f *fakeBusinessRepo) Approve(_ context.Context, id uint) error {
	b, ok := f.businesses[id]
	if !ok {
		return repository.ErrBusinessNotFound
	}
	if b.Status != domain.BusinessPending {
		return repository.ErrBusinessNotPending
	}
	b.Status = domain.BusinessApproved
	f.businesses[id] = b
	return nil
}

func (f *fakeBusinessRepo) Reject(_ context.Context, id uint, reason string) error {
	b, ok := f.businesses[id]
	if !ok {
		return repository.ErrBusinessNotFound
	}
	if b.Status != domain.BusinessPending {
		return repository.ErrBusinessNotPending
	}
	b.Status = domain.BusinessRejected
	b.RejectReason = reason
	f.businesses[id] = b
	return nil
}

func (f *fakeBusinessRepo) AssignBooth(_ context.Context, id uint, booth string) error {
	b, ok := f.businesses[id]
	if !ok {
		return repository.ErrBusinessNotFound
	}
	if b.Status != domain.BusinessApproved {
		return repository.ErrBusinessNotApproved
	}
	for _, other := range f.businesses {
		if other.ID != id && other.EventID == b.EventID && other.BoothNumber != nil && *other.BoothNumber == booth {
			return repository.ErrBoothTaken
		}
	}
	b.BoothNumber = &booth
	f.businesses[id] = b
	return nil
}

func (f *fakeBusinessRepo) DeleteIfPending(_ context.Context, id, ownerID uint) error {
	b, ok := f.businesses[id]
	if !ok || b.OwnerID != ownerID {
		return repository.ErrBusinessNotFound
	}
	if b.Status != domain.BusinessPending {
		return repository.ErrBusinessNotPending
	}
	delete(f.businesses, id)
	return nil
}

type scoreKey struct {
	businessID  uint
	categoryID  uint
	criterionID uint
}

type fakeAssessmentRepo struct {
	categories map[uint]domain.Category
	scores     map[scoreKey]domain.Score
	nextID     uint
}

func newFakeAssessmentRepo() *fakeAssessmentRepo {
	return &fakeAssessmentRepo{
		categories: make(map[uint]domain.Category),
		scores:     make(map[scoreKey]domain.Score),
	}
}

func (f *fakeAssessmentRepo) CreateCategory(_ context.Context, category domain.Category, assessors []domain.User) (domain.Category, error) {
	f.nextID++
	category.ID = f.nextID
	category.Assessors = assessors
	for i := range category.Criteria {
		f.nextID++
		category.Criteria[i].ID = f.nextID
		category.Criteria[i].CategoryID = category.ID
	}
	f.categories[category.ID] = category
	return category, nil
}

func (f *fakeAssessmentRepo) GetCategoryByID(_ context.Context, id uint) (domain.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return domain.Category{}, repository.ErrCategoryNotFound
	}
	return c, nil
}

func (f *fakeAssessmentRepo) FindCategoriesByEventID(_ context.Context, eventID uint) ([]domain.Category, error) {
	var out []domain.Category
	for _, c := range f.categories {
		if c.EventID == eventID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeAssessmentRepo) GetCriterionByID(_ context.Context, id uint) (domain.Criterion, error) {
	for _, c := range f.categories {
		for _, cr := range c.Criteria {
			if cr.ID == id {
				return cr, nil
			}
		}
	}
	return domain.Criterion{}, repository.ErrCriterionNotFound
}

func (f *fakeAssessmentRepo) IsCategoryAssessor(_ context.Context, categoryID, userID uint) (bool, error) {
	c, ok := f.categories[categoryID]
	if !ok {
		return false, nil
	}
	for _, a := range c.Assessors {
		if a.ID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAssessmentRepo) UpsertScore(_ context.Context, score domain.Score) (domain.Score, error) {
	key := scoreKey{score.BusinessID, score.CategoryID, score.CriterionID}
	if existing, ok := f.scores[key]; ok {
		score.ID = existing.ID
	} else {
		f.nextID++
		score.ID = f.nextID
	}
	f.scores[key] = score
	return score, nil
}

func (f *fakeAssessmentRepo) FindScoresByCategoryID(_ context.Context, categoryID uint) ([]domain.Score, error) {
	var out []domain.Score
	for _, s := range f.scores {
		if s.CategoryID == categoryID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeAssessmentRepo) SetWinnerIfNone(_ context.Context, categoryID, businessID uint) error {
	c, ok := f.categories[categoryID]
	if !ok {
		return repository.ErrCategoryNotFound
	}
	if c.WinnerID != nil {
		return repository.ErrWinnerAlreadySet
	}
	c.WinnerID = &businessID
	f.categories[categoryID] = c
	return nil
}

type fakeUmkmRepo struct {
	umkms      map[uint]domain.Umkm
	nextID     uint
	nextFileID uint
}

func newFakeUmkmRepo() *fakeUmkmRepo {
	return &fakeUmkmRepo{umkms: make(map[uint]domain.Umkm)}
}

func (f *fakeUmkmRepo) Create(_ context.Context, umkm domain.Umkm) (domain.Umkm, error) {
	f.nextID++
	umkm.ID = f.nextID
	umkm.CurrentStage = 1
	for i := 0; i < domain.StageCount; i++ {
		f.nextID++
		status := domain.StageNotStarted
		if i == 0 {
			status = domain.StageInProgress
		}
		umkm.Stages[i] = domain.Stage{
			ID:     f.nextID,
			UmkmID: umkm.ID,
			Number: i + 1,
			Status: status,
		}
	}
	f.umkms[umkm.ID] = umkm
	return umkm, nil
}

func (f *fakeUmkmRepo) GetByID(_ context.Context, id uint) (domain.Umkm, error) {
	u, ok := f.umkms[id]
	if !ok {
		return domain.Umkm{}, repository.ErrUmkmNotFound
	}
	return u, nil
}

func (f *fakeUmkmRepo) List(_ context.Context, ownerID uint, _, _ int) ([]domain.Umkm, int64, error) {
	var out []domain.Umkm
	for _, u := range f.umkms {
		if ownerID == 0 || u.OwnerID == ownerID {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (f *fakeUmkmRepo) findStage(stageID uint) (umkmID uint, idx int, ok bool) {
	for id, u := range f.umkms {
		for i, s := range u.Stages {
			if s.ID == stageID {
				return id, i, true
			}
		}
	}
	return 0, 0, false
}

func (f *fakeUmkmRepo) GetStage(_ context.Context, umkmID uint, number int) (domain.Stage, error) {
	u, ok := f.umkms[umkmID]
	if !ok || number < 1 || number > domain.StageCount {
		return domain.Stage{}, repository.ErrStageNotFound
	}
	return u.Stages[number-1], nil
}

func (f *fakeUmkmRepo) AddStageFiles(_ context.Context, stageID uint, files []domain.StageFile) error {
	umkmID, idx, ok := f.findStage(stageID)
	if !ok {
		return repository.ErrStageNotFound
	}
	u := f.umkms[umkmID]
	for _, file := range files {
		f.nextFileID++
		file.ID = f.nextFileID
		file.StageID = stageID
		u.Stages[idx].Files = append(u.Stages[idx].Files, file)
	}
	u.Stages[idx].Status = domain.StageInProgress
	f.umkms[umkmID] = u
	return nil
}

func (f *fakeUmkmRepo) MarkAwaitingValidation(_ context.Context, stageID uint, submittedAt time.Time) error {
	umkmID, idx, ok := f.findStage(stageID)
	if !ok {
		return repository.ErrStageNotFound
	}
	u := f.umkms[umkmID]
	if u.Stages[idx].Status != domain.StageInProgress {
		return repository.ErrStageNotInProgress
	}
	u.Stages[idx].Status = domain.StageAwaitingValidation
	u.Stages[idx].SubmittedAt = &submittedAt
	f.umkms[umkmID] = u
	return nil
}

func (f *fakeUmkmRepo) ApproveStage(_ context.Context, umkmID uint, number int, note string, validatedAt time.Time) error {
	u, ok := f.umkms[umkmID]
	if !ok {
		return repository.ErrUmkmNotFound
	}
	idx := number - 1
	if u.Stages[idx].Status != domain.StageAwaitingValidation {
		return repository.ErrStageNotAwaiting
	}
	u.Stages[idx].Status = domain.StageComplete
	u.Stages[idx].Note = note
	u.Stages[idx].ValidatedAt = &validatedAt
	if number < domain.StageCount {
		u.Stages[idx+1].Status = domain.StageInProgress
		u.CurrentStage = number + 1
	}
	f.umkms[umkmID] = u
	return nil
}

func (f *fakeUmkmRepo) RejectStage(_ context.Context, umkmID uint, number int, note string) error {
	u, ok := f.umkms[umkmID]
	if !ok {
		return repository.ErrUmkmNotFound
	}
	idx := number - 1
	if u.Stages[idx].Status != domain.StageAwaitingValidation {
		return repository.ErrStageNotAwaiting
	}
	u.Stages[idx].Status = domain.StageInProgress
	u.Stages[idx].Note = note
	f.umkms[umkmID] = u
	return nil
}

type sentNotification struct {
	userIDs []uint
	kind    string
	title   string
	body    string
}

type fakeNotifier struct {
	sent []sentNotification
}

func (f *fakeNotifier) Notify(_ context.Context, userIDs []uint, kind, title, body string) {
	f.sent = append(f.sent, sentNotification{userIDs: userIDs, kind: kind, title: title, body: body})
}
