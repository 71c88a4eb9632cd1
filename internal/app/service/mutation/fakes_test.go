package mutation_test

import (
	"context"
	"io"
	"sort"

	activitystore "github.com/projecthubhq/projecthub/internal/app/store/activities"
	projectstore "github.com/projecthubhq/projecthub/internal/app/store/projects"
	submissionstore "github.com/projecthubhq/projecthub/internal/app/store/submissions"
	taskstore "github.com/projecthubhq/projecthub/internal/app/store/tasks"
	"github.com/projecthubhq/projecthub/internal/app/system/filestore"
	"github.com/projecthubhq/projecthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// In-memory doubles for the store interfaces. They mimic the mongo-backed
// stores' observable behavior: generated IDs, mongo.ErrNoDocuments for
// misses, and value-copy semantics.

type fakeProjects struct {
	docs map[primitive.ObjectID]models.Project
}

func newFakeProjects() *fakeProjects {
	return &fakeProjects{docs: map[primitive.ObjectID]models.Project{}}
}

func (f *fakeProjects) GetByID(_ context.Context, id primitive.ObjectID) (models.Project, error) {
	p, ok := f.docs[id]
	if !ok {
		return models.Project{}, mongo.ErrNoDocuments
	}
	return p, nil
}

func (f *fakeProjects) Insert(_ context.Context, p models.Project) (models.Project, error) {
	p.ID = primitive.NewObjectID()
	if p.Status == "" {
		p.Status = models.ProjectActive
	}
	if p.Members == nil {
		p.Members = []primitive.ObjectID{}
	}
	if p.Files == nil {
		p.Files = []models.FileRef{}
	}
	f.docs[p.ID] = p
	return p, nil
}

func (f *fakeProjects) Update(_ context.Context, id primitive.ObjectID, patch projectstore.Patch) (models.Project, error) {
	p, ok := f.docs[id]
	if !ok {
		return models.Project{}, mongo.ErrNoDocuments
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Deadline != nil {
		p.Deadline = patch.Deadline
	}
	f.docs[id] = p
	return p, nil
}

func (f *fakeProjects) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(f.docs, id)
	return nil
}

func (f *fakeProjects) AddMember(_ context.Context, projectID, memberID primitive.ObjectID) error {
	p, ok := f.docs[projectID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if !p.HasMember(memberID) {
		p.Members = append(p.Members, memberID)
	}
	f.docs[projectID] = p
	return nil
}

func (f *fakeProjects) RemoveMember(_ context.Context, projectID, memberID primitive.ObjectID) error {
	p, ok := f.docs[projectID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	kept := p.Members[:0]
	for _, m := range p.Members {
		if m != memberID {
			kept = append(kept, m)
		}
	}
	p.Members = kept
	f.docs[projectID] = p
	return nil
}

func (f *fakeProjects) SetProgress(_ context.Context, projectID primitive.ObjectID, progress int) error {
	p, ok := f.docs[projectID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	p.Progress = progress
	f.docs[projectID] = p
	return nil
}

func (f *fakeProjects) AddFile(_ context.Context, projectID primitive.ObjectID, file models.FileRef) error {
	p, ok := f.docs[projectID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	p.Files = append(p.Files, file)
	f.docs[projectID] = p
	return nil
}

func (f *fakeProjects) List(_ context.Context, flt projectstore.Filter) ([]models.Project, error) {
	out := []models.Project{}
	for _, p := range f.docs {
		if !flt.Faculty.IsZero() && p.Faculty != flt.Faculty {
			continue
		}
		if !flt.Member.IsZero() && !p.HasMember(flt.Member) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out, nil
}

type fakeUsers struct {
	docs map[primitive.ObjectID]models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{docs: map[primitive.ObjectID]models.User{}}
}

func (f *fakeUsers) add(u models.User) models.User {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.Groups == nil {
		u.Groups = []primitive.ObjectID{}
	}
	f.docs[u.ID] = u
	return u
}

func (f *fakeUsers) GetByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	u, ok := f.docs[id]
	if !ok {
		return models.User{}, mongo.ErrNoDocuments
	}
	return u, nil
}

func (f *fakeUsers) AddGroup(_ context.Context, userID, projectID primitive.ObjectID) error {
	u, ok := f.docs[userID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.Groups = append(u.Groups, projectID)
	f.docs[userID] = u
	return nil
}

func (f *fakeUsers) RemoveGroup(_ context.Context, userID, projectID primitive.ObjectID) error {
	u, ok := f.docs[userID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	kept := u.Groups[:0]
	for _, g := range u.Groups {
		if g != projectID {
			kept = append(kept, g)
		}
	}
	u.Groups = kept
	f.docs[userID] = u
	return nil
}

func (f *fakeUsers) RemoveGroupFromAll(ctx context.Context, projectID primitive.ObjectID) error {
	for id := range f.docs {
		_ = f.RemoveGroup(ctx, id, projectID)
	}
	return nil
}

func (f *fakeUsers) Refs(_ context.Context, ids []primitive.ObjectID) ([]models.UserRef, error) {
	out := []models.UserRef{}
	for _, id := range ids {
		if u, ok := f.docs[id]; ok {
			out = append(out, models.UserRef{ID: u.ID, Name: u.Name, Email: u.Email})
		}
	}
	return out, nil
}

type fakeTasks struct {
	docs map[primitive.ObjectID]models.Task
}

func newFakeTasks() *fakeTasks {
	return &fakeTasks{docs: map[primitive.ObjectID]models.Task{}}
}

func (f *fakeTasks) GetByID(_ context.Context, id primitive.ObjectID) (models.Task, error) {
	t, ok := f.docs[id]
	if !ok {
		return models.Task{}, mongo.ErrNoDocuments
	}
	return t, nil
}

func (f *fakeTasks) Insert(_ context.Context, t models.Task) (models.Task, error) {
	t.ID = primitive.NewObjectID()
	if t.Status == "" {
		t.Status = models.TaskTodo
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	f.docs[t.ID] = t
	return t, nil
}

func (f *fakeTasks) Update(_ context.Context, id primitive.ObjectID, patch taskstore.Patch) (models.Task, error) {
	t, ok := f.docs[id]
	if !ok {
		return models.Task{}, mongo.ErrNoDocuments
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.AssignedTo != nil {
		t.AssignedTo = *patch.AssignedTo
	}
	if patch.Deadline != nil {
		t.Deadline = patch.Deadline
	}
	f.docs[id] = t
	return t, nil
}

func (f *fakeTasks) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(f.docs, id)
	return nil
}

func (f *fakeTasks) DeleteByProject(_ context.Context, projectID primitive.ObjectID) error {
	for id, t := range f.docs {
		if t.Project == projectID {
			delete(f.docs, id)
		}
	}
	return nil
}

func (f *fakeTasks) ListByProject(_ context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	out := []models.Task{}
	for _, t := range f.docs {
		if t.Project == projectID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTasks) ListByProjects(_ context.Context, projectIDs []primitive.ObjectID) ([]models.Task, error) {
	in := map[primitive.ObjectID]bool{}
	for _, id := range projectIDs {
		in[id] = true
	}
	out := []models.Task{}
	for _, t := range f.docs {
		if in[t.Project] {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTasks) ListVisibleToStudent(_ context.Context, userID primitive.ObjectID, projectIDs []primitive.ObjectID) ([]models.Task, error) {
	in := map[primitive.ObjectID]bool{}
	for _, id := range projectIDs {
		in[id] = true
	}
	out := []models.Task{}
	for _, t := range f.docs {
		if t.IsAssignee(userID) || in[t.Project] {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTasks) ListAll(_ context.Context) ([]models.Task, error) {
	out := []models.Task{}
	for _, t := range f.docs {
		out = append(out, t)
	}
	return out, nil
}

type fakeSubmissions struct {
	docs map[primitive.ObjectID]models.Submission
}

func newFakeSubmissions() *fakeSubmissions {
	return &fakeSubmissions{docs: map[primitive.ObjectID]models.Submission{}}
}

func (f *fakeSubmissions) GetByID(_ context.Context, id primitive.ObjectID) (models.Submission, error) {
	s, ok := f.docs[id]
	if !ok {
		return models.Submission{}, mongo.ErrNoDocuments
	}
	return s, nil
}

func (f *fakeSubmissions) Insert(_ context.Context, s models.Submission) (models.Submission, error) {
	s.ID = primitive.NewObjectID()
	if s.Status == "" {
		s.Status = models.SubmissionPending
	}
	f.docs[s.ID] = s
	return s, nil
}

func (f *fakeSubmissions) ApplyReview(_ context.Context, id primitive.ObjectID, r submissionstore.Review) (models.Submission, error) {
	s, ok := f.docs[id]
	if !ok {
		return models.Submission{}, mongo.ErrNoDocuments
	}
	s.Status = r.Status
	s.Feedback = r.Feedback
	s.ReviewedBy = &r.ReviewedBy
	s.ReviewedAt = &r.ReviewedAt
	if r.Grade != nil {
		s.Grade = r.Grade
	}
	f.docs[id] = s
	return s, nil
}

func (f *fakeSubmissions) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(f.docs, id)
	return nil
}

func (f *fakeSubmissions) ListByProject(_ context.Context, projectID primitive.ObjectID) ([]models.Submission, error) {
	out := []models.Submission{}
	for _, s := range f.docs {
		if s.Project == projectID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubmissions) ListBySubmitter(_ context.Context, userID primitive.ObjectID) ([]models.Submission, error) {
	out := []models.Submission{}
	for _, s := range f.docs {
		if s.SubmittedBy == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubmissions) ListByProjects(_ context.Context, projectIDs []primitive.ObjectID) ([]models.Submission, error) {
	in := map[primitive.ObjectID]bool{}
	for _, id := range projectIDs {
		in[id] = true
	}
	out := []models.Submission{}
	for _, s := range f.docs {
		if in[s.Project] {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubmissions) ListAll(_ context.Context) ([]models.Submission, error) {
	out := []models.Submission{}
	for _, s := range f.docs {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSubmissions) DeleteByProject(_ context.Context, projectID primitive.ObjectID) error {
	for id, s := range f.docs {
		if s.Project == projectID {
			delete(f.docs, id)
		}
	}
	return nil
}

// fakeActivities backs both the activity store interface and the activity
// logger's inserter, so tests observe exactly what the feed would show.
type fakeActivities struct {
	docs      []models.Activity
	insertErr error
}

func newFakeActivities() *fakeActivities {
	return &fakeActivities{}
}

func (f *fakeActivities) Insert(_ context.Context, a models.Activity) (models.Activity, error) {
	if f.insertErr != nil {
		return models.Activity{}, f.insertErr
	}
	a.ID = primitive.NewObjectID()
	f.docs = append(f.docs, a)
	return a, nil
}

func (f *fakeActivities) ListByProject(_ context.Context, projectID primitive.ObjectID) ([]activitystore.Entry, error) {
	out := []activitystore.Entry{}
	for _, a := range f.docs {
		if a.Project == projectID {
			out = append(out, activitystore.Entry{
				ID:          a.ID,
				Project:     a.Project,
				User:        models.UserRef{ID: a.User},
				Type:        a.Type,
				Description: a.Description,
				CreatedAt:   a.CreatedAt,
			})
		}
	}
	return out, nil
}

func (f *fakeActivities) DeleteByProject(_ context.Context, projectID primitive.ObjectID) error {
	kept := f.docs[:0]
	for _, a := range f.docs {
		if a.Project != projectID {
			kept = append(kept, a)
		}
	}
	f.docs = kept
	return nil
}

// byType returns the recorded activities of one type, insertion order.
func (f *fakeActivities) byType(typ string) []models.Activity {
	out := []models.Activity{}
	for _, a := range f.docs {
		if a.Type == typ {
			out = append(out, a)
		}
	}
	return out
}

// fakeFiles records deletions instead of touching disk.
type fakeFiles struct {
	deleted []string
}

func (f *fakeFiles) Save(_ context.Context, originalName, contentType string, r io.Reader) (filestore.SavedFile, error) {
	data, _ := io.ReadAll(r)
	return filestore.SavedFile{
		StoredName:   originalName,
		OriginalName: originalName,
		Path:         "test/" + originalName,
		Size:         int64(len(data)),
		MimeType:     contentType,
	}, nil
}

func (f *fakeFiles) Delete(_ context.Context, path string) error {
	f.deleted = append(f.deleted, path)
	return nil
}

func (f *fakeFiles) URL(path string) string { return "/uploads/" + path }
