package service

import (
	"sort"
	"time"

	"github.com/lshigami/Bettongs/internal/model"
	"gorm.io/gorm"
)

// memDB is a shared in-memory store backing the fake repositories, with the
// same error contract as the real gorm-backed ones: ErrRecordNotFound for
// missing rows, ErrForeignKeyViolated for dangling references, and
// ErrDuplicatedKey for a second active attempt per user.
type memDB struct {
	categories map[uint]*model.Category
	questions  map[uint]*model.Question
	flags      map[uint]*model.QuestionFlag
	attempts   map[uint]*model.TestAttempt
	nextID     uint
}

func newMemDB() *memDB {
	return &memDB{
		categories: map[uint]*model.Category{},
		questions:  map[uint]*model.Question{},
		flags:      map[uint]*model.QuestionFlag{},
		attempts:   map[uint]*model.TestAttempt{},
	}
}

func (m *memDB) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memDB) seedCategory(name string) *model.Category {
	c := &model.Category{ID: m.id(), Name: name, CreatedBy: "seed", CreatedAt: time.Now().UTC()}
	m.categories[c.ID] = c
	return c
}

// seedQuestion creates an active question whose first answer is the correct
// one.
func (m *memDB) seedQuestion(categoryID uint, text string, answerCount int) *model.Question {
	q := &model.Question{
		ID:           m.id(),
		CategoryID:   categoryID,
		QuestionText: text,
		IsActive:     true,
		CreatedBy:    "seed",
		CreatedAt:    time.Now().UTC(),
	}
	for i := 0; i < answerCount; i++ {
		q.Answers = append(q.Answers, model.Answer{
			ID:           m.id(),
			QuestionID:   q.ID,
			AnswerText:   "option",
			IsCorrect:    i == 0,
			DisplayOrder: i,
		})
	}
	m.questions[q.ID] = q
	return q
}

type fakeCategoryRepo struct {
	db *memDB
}

func (r *fakeCategoryRepo) FindAll() ([]model.Category, error) {
	out := make([]model.Category, 0, len(r.db.categories))
	for _, c := range r.db.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeCategoryRepo) FindByID(id uint) (*model.Category, error) {
	c, ok := r.db.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCategoryRepo) FindByIDWithQuestions(id uint) (*model.Category, error) {
	c, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}
	for _, q := range r.db.questions {
		if q.CategoryID == id {
			c.Questions = append(c.Questions, *q)
		}
	}
	sort.Slice(c.Questions, func(i, j int) bool {
		return c.Questions[i].CreatedAt.After(c.Questions[j].CreatedAt)
	})
	return c, nil
}

func (r *fakeCategoryRepo) Create(category *model.Category) error {
	category.ID = r.db.id()
	category.CreatedAt = time.Now().UTC()
	cp := *category
	r.db.categories[category.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) Save(category *model.Category) error {
	if _, ok := r.db.categories[category.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *category
	cp.Questions = nil
	r.db.categories[category.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) Delete(id uint) error {
	if _, ok := r.db.categories[id]; !ok {
		return nil
	}
	for _, q := range r.db.questions {
		if q.CategoryID == id {
			return gorm.ErrForeignKeyViolated
		}
	}
	for _, a := range r.db.attempts {
		if a.CategoryID == id {
			return gorm.ErrForeignKeyViolated
		}
	}
	delete(r.db.categories, id)
	return nil
}

func (r *fakeCategoryRepo) CountActiveQuestions(categoryID uint) (int64, error) {
	var count int64
	for _, q := range r.db.questions {
		if q.CategoryID == categoryID && q.IsActive {
			count++
		}
	}
	return count, nil
}

type fakeQuestionRepo struct {
	db *memDB
}

func sortedAnswers(q *model.Question) []model.Answer {
	answers := append([]model.Answer(nil), q.Answers...)
	sort.Slice(answers, func(i, j int) bool { return answers[i].DisplayOrder < answers[j].DisplayOrder })
	return answers
}

func (r *fakeQuestionRepo) FindByCategory(categoryID uint) ([]model.Question, error) {
	var out []model.Question
	for _, q := range r.db.questions {
		if q.CategoryID == categoryID {
			cp := *q
			cp.Answers = sortedAnswers(q)
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeQuestionRepo) FindActiveByCategory(categoryID uint) ([]model.Question, error) {
	var out []model.Question
	for _, q := range r.db.questions {
		if q.CategoryID == categoryID && q.IsActive {
			cp := *q
			cp.Answers = sortedAnswers(q)
			out = append(out, cp)
		}
	}
	return out, nil
}

func (r *fakeQuestionRepo) FindByID(id uint) (*model.Question, error) {
	q, ok := r.db.questions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *q
	cp.Answers = sortedAnswers(q)
	if c, ok := r.db.categories[q.CategoryID]; ok {
		cp.Category = *c
	}
	return &cp, nil
}

func (r *fakeQuestionRepo) FindAnswer(questionID, answerID uint) (*model.Answer, error) {
	q, ok := r.db.questions[questionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	for _, a := range q.Answers {
		if a.ID == answerID {
			cp := a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeQuestionRepo) Create(question *model.Question) error {
	if _, ok := r.db.categories[question.CategoryID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	question.ID = r.db.id()
	question.CreatedAt = time.Now().UTC()
	for i := range question.Answers {
		question.Answers[i].ID = r.db.id()
		question.Answers[i].QuestionID = question.ID
	}
	cp := *question
	cp.Answers = append([]model.Answer(nil), question.Answers...)
	r.db.questions[question.ID] = &cp
	return nil
}

func (r *fakeQuestionRepo) CreateBatch(questions []model.Question) ([]model.Question, error) {
	for i := range questions {
		if _, ok := r.db.categories[questions[i].CategoryID]; !ok {
			return nil, gorm.ErrForeignKeyViolated
		}
	}
	for i := range questions {
		if err := r.Create(&questions[i]); err != nil {
			return nil, err
		}
	}
	return questions, nil
}

func (r *fakeQuestionRepo) ReplaceAnswersAndSave(question *model.Question, answers []model.Answer) error {
	if _, ok := r.db.questions[question.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range answers {
		answers[i].ID = r.db.id()
		answers[i].QuestionID = question.ID
	}
	cp := *question
	cp.Answers = append([]model.Answer(nil), answers...)
	r.db.questions[question.ID] = &cp
	question.Answers = answers
	return nil
}

func (r *fakeQuestionRepo) Save(question *model.Question) error {
	stored, ok := r.db.questions[question.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *question
	cp.Answers = stored.Answers
	cp.Flags = stored.Flags
	r.db.questions[question.ID] = &cp
	return nil
}

type fakeFlagRepo struct {
	db *memDB
}

func (r *fakeFlagRepo) Create(flag *model.QuestionFlag) error {
	if _, ok := r.db.questions[flag.QuestionID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	flag.ID = r.db.id()
	cp := *flag
	r.db.flags[flag.ID] = &cp
	return nil
}

func (r *fakeFlagRepo) FindByID(id uint) (*model.QuestionFlag, error) {
	f, ok := r.db.flags[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFlagRepo) FindAll(includeResolved bool) ([]model.QuestionFlag, error) {
	var out []model.QuestionFlag
	for _, f := range r.db.flags {
		if !includeResolved && f.IsResolved {
			continue
		}
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FlaggedDate.After(out[j].FlaggedDate) })
	return out, nil
}

func (r *fakeFlagRepo) Save(flag *model.QuestionFlag) error {
	if _, ok := r.db.flags[flag.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *flag
	r.db.flags[flag.ID] = &cp
	return nil
}

type fakeAttemptRepo struct {
	db *memDB
}

func (r *fakeAttemptRepo) Create(attempt *model.TestAttempt) error {
	if _, ok := r.db.categories[attempt.CategoryID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	for _, existing := range r.db.attempts {
		if existing.UserID == attempt.UserID && !existing.IsCompleted {
			return gorm.ErrDuplicatedKey
		}
	}
	attempt.ID = r.db.id()
	for i := range attempt.Questions {
		attempt.Questions[i].ID = r.db.id()
		attempt.Questions[i].TestAttemptID = attempt.ID
	}
	cp := *attempt
	cp.Questions = append([]model.TestAttemptQuestion(nil), attempt.Questions...)
	r.db.attempts[attempt.ID] = &cp
	return nil
}

func (r *fakeAttemptRepo) hydrate(a *model.TestAttempt) *model.TestAttempt {
	cp := *a
	if c, ok := r.db.categories[a.CategoryID]; ok {
		cp.Category = *c
	}
	cp.Questions = append([]model.TestAttemptQuestion(nil), a.Questions...)
	sort.Slice(cp.Questions, func(i, j int) bool {
		return cp.Questions[i].QuestionOrder < cp.Questions[j].QuestionOrder
	})
	for i := range cp.Questions {
		if q, ok := r.db.questions[cp.Questions[i].QuestionID]; ok {
			qc := *q
			qc.Answers = sortedAnswers(q)
			cp.Questions[i].Question = qc
		}
	}
	return &cp
}

func (r *fakeAttemptRepo) FindActiveByUser(userID string) (*model.TestAttempt, error) {
	for _, a := range r.db.attempts {
		if a.UserID == userID && !a.IsCompleted {
			return r.hydrate(a), nil
		}
	}
	return nil, nil
}

func (r *fakeAttemptRepo) FindByID(id uint) (*model.TestAttempt, error) {
	a, ok := r.db.attempts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	cp.Questions = append([]model.TestAttemptQuestion(nil), a.Questions...)
	return &cp, nil
}

func (r *fakeAttemptRepo) FindByIDWithDetails(id uint) (*model.TestAttempt, error) {
	a, ok := r.db.attempts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.hydrate(a), nil
}

func (r *fakeAttemptRepo) FindAttemptQuestion(attemptID, questionID uint) (*model.TestAttemptQuestion, error) {
	a, ok := r.db.attempts[attemptID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	for i := range a.Questions {
		if a.Questions[i].QuestionID == questionID {
			cp := a.Questions[i]
			if q, ok := r.db.questions[questionID]; ok {
				qc := *q
				qc.Answers = sortedAnswers(q)
				cp.Question = qc
			}
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAttemptRepo) SaveAttemptQuestion(question *model.TestAttemptQuestion) error {
	a, ok := r.db.attempts[question.TestAttemptID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range a.Questions {
		if a.Questions[i].ID == question.ID {
			cp := *question
			cp.Question = model.Question{}
			a.Questions[i] = cp
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeAttemptRepo) Seal(attempt *model.TestAttempt) error {
	if _, ok := r.db.attempts[attempt.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *attempt
	cp.Category = model.Category{}
	cp.Questions = make([]model.TestAttemptQuestion, len(attempt.Questions))
	for i, q := range attempt.Questions {
		q.Question = model.Question{}
		cp.Questions[i] = q
	}
	r.db.attempts[attempt.ID] = &cp
	return nil
}

func (r *fakeAttemptRepo) Delete(attempt *model.TestAttempt) error {
	delete(r.db.attempts, attempt.ID)
	return nil
}

func (r *fakeAttemptRepo) completed(filter func(*model.TestAttempt) bool) []model.TestAttempt {
	var out []model.TestAttempt
	for _, a := range r.db.attempts {
		if a.IsCompleted && filter(a) {
			cp := *a
			if c, ok := r.db.categories[a.CategoryID]; ok {
				cp.Category = *c
			}
			cp.Questions = nil
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out
}

func (r *fakeAttemptRepo) FindCompletedByUser(userID string, categoryID *uint) ([]model.TestAttempt, error) {
	return r.completed(func(a *model.TestAttempt) bool {
		if a.UserID != userID {
			return false
		}
		return categoryID == nil || a.CategoryID == *categoryID
	}), nil
}

func (r *fakeAttemptRepo) FindRecentCompleted(limit int) ([]model.TestAttempt, error) {
	out := r.completed(func(*model.TestAttempt) bool { return true })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeAttemptRepo) FindLastCompletedForCategory(userID string, categoryID uint) (*model.TestAttempt, error) {
	out := r.completed(func(a *model.TestAttempt) bool {
		return a.UserID == userID && a.CategoryID == categoryID
	})
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

func (r *fakeAttemptRepo) FindCompletedPaged(categoryID *uint, page, pageSize int) ([]model.TestAttempt, int64, error) {
	out := r.completed(func(a *model.TestAttempt) bool {
		return categoryID == nil || a.CategoryID == *categoryID
	})
	total := int64(len(out))
	start := (page - 1) * pageSize
	if start >= len(out) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}
