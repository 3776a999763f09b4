package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"taskapp/internal/adapter/database/memory"
	"taskapp/internal/adapter/database/sqlite/repository"
	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/request"
	"taskapp/internal/core/port"
	"taskapp/internal/core/service"
	. "taskapp/pkg/test"
)

// steppingClock moves forward one second on every reading.
type steppingClock struct {
	mu  sync.Mutex
	now time.Time
}

func newSteppingClock() *steppingClock {
	return &steppingClock{now: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(time.Second)
	return c.now
}

type TaskServiceTestSuite struct {
	suite.Suite
	service *service.TaskService
	owner   uuid.UUID
	other   uuid.UUID
	ctx     context.Context
}

func (s *TaskServiceTestSuite) SetupTest() {
	s.service = service.NewTaskService(memory.NewTaskRepository(), service.WithClock(newSteppingClock().Now))
	s.owner = uuid.New()
	s.other = uuid.New()
	s.ctx = context.Background()
}

func TestTaskServiceTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TaskServiceTestSuite))
}

func (s *TaskServiceTestSuite) create(owner uuid.UUID, title string, completed bool) domain.Task {
	task, err := s.service.Create(s.ctx, owner, request.TaskRequest{Title: title, Completed: &completed})
	s.Require().NoError(err)

	return task
}

func (s *TaskServiceTestSuite) TestCreate_DefaultsAndTrim() {
	task, err := s.service.Create(s.ctx, s.owner, request.TaskRequest{Title: "  Buy milk  "})

	assert.NoError(s.T(), err)
	Expect(task.Title).To(Equal("Buy milk"))
	Expect(task.Completed).To(BeFalse())
	Expect(task.Owner).To(Equal(s.owner))
	Expect(task.ID).ToNot(Equal(uuid.Nil))
	Expect(task.CreatedAt).To(Equal(task.UpdatedAt))
}

func (s *TaskServiceTestSuite) TestCreate_ThenGetByID() {
	created := s.create(s.owner, "Write report", true)

	found, err := s.service.GetByID(s.ctx, s.owner, created.ID.String())

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), created, found)
}

func (s *TaskServiceTestSuite) TestOtherUsersTasksAreNotFound() {
	created := s.create(s.owner, "Private task", false)
	id := created.ID.String()

	_, err := s.service.GetByID(s.ctx, s.other, id)
	assert.ErrorIs(s.T(), err, domain.ErrTaskNotFound)

	_, err = s.service.Update(s.ctx, s.other, id, request.TaskRequest{Title: "Hijacked", Completed: ptr(true)})
	assert.ErrorIs(s.T(), err, domain.ErrTaskNotFound)

	_, err = s.service.Toggle(s.ctx, s.other, id)
	assert.ErrorIs(s.T(), err, domain.ErrTaskNotFound)

	_, err = s.service.Delete(s.ctx, s.other, id)
	assert.ErrorIs(s.T(), err, domain.ErrTaskNotFound)

	found, err := s.service.GetByID(s.ctx, s.owner, id)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), created, found)

	list, err := s.service.List(s.ctx, s.other, request.NewListTasksQuery("", "", "", "", ""))
	assert.NoError(s.T(), err)
	assert.Empty(s.T(), list.Tasks)
	assert.Equal(s.T(), int64(0), list.Pagination.TotalTasks)
}

func (s *TaskServiceTestSuite) TestMalformedIDIsInvalid() {
	for _, id := range []string{"", "123", "not-a-uuid"} {
		_, err := s.service.GetByID(s.ctx, s.owner, id)
		assert.ErrorIs(s.T(), err, domain.ErrInvalidTaskID, id)

		_, err = s.service.Delete(s.ctx, s.owner, id)
		assert.ErrorIs(s.T(), err, domain.ErrInvalidTaskID, id)

		_, err = s.service.Toggle(s.ctx, s.owner, id)
		assert.ErrorIs(s.T(), err, domain.ErrInvalidTaskID, id)
	}
}

func (s *TaskServiceTestSuite) TestUpdate_IsIdempotent() {
	created := s.create(s.owner, "Draft", false)
	req := request.TaskRequest{Title: "Final", Completed: ptr(true)}

	first, err := s.service.Update(s.ctx, s.owner, created.ID.String(), req)
	s.Require().NoError(err)

	second, err := s.service.Update(s.ctx, s.owner, created.ID.String(), req)
	s.Require().NoError(err)

	Expect(second.Title).To(Equal(first.Title))
	Expect(second.Completed).To(Equal(first.Completed))
	Expect(second.CreatedAt).To(Equal(created.CreatedAt))
	Expect(first.UpdatedAt).To(BeTemporally(">", created.UpdatedAt))
	Expect(second.UpdatedAt).To(BeTemporally(">", first.UpdatedAt))
}

func (s *TaskServiceTestSuite) TestToggle_TwiceRestoresCompleted() {
	created := s.create(s.owner, "Flip me", false)

	once, err := s.service.Toggle(s.ctx, s.owner, created.ID.String())
	s.Require().NoError(err)
	Expect(once.Completed).To(BeTrue())
	Expect(once.Status()).To(Equal("completed"))

	twice, err := s.service.Toggle(s.ctx, s.owner, created.ID.String())
	s.Require().NoError(err)
	Expect(twice.Completed).To(BeFalse())
	Expect(twice.Title).To(Equal(created.Title))
	Expect(once.UpdatedAt).To(BeTemporally(">", created.UpdatedAt))
	Expect(twice.UpdatedAt).To(BeTemporally(">", once.UpdatedAt))
	Expect(twice.CreatedAt).To(Equal(created.CreatedAt))
}

func (s *TaskServiceTestSuite) TestDelete_SecondDeleteIsNotFound() {
	created := s.create(s.owner, "Temporary", false)

	deleted, err := s.service.Delete(s.ctx, s.owner, created.ID.String())
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), created.ID, deleted.ID)

	_, err = s.service.Delete(s.ctx, s.owner, created.ID.String())
	assert.ErrorIs(s.T(), err, domain.ErrTaskNotFound)

	_, err = s.service.GetByID(s.ctx, s.owner, created.ID.String())
	assert.ErrorIs(s.T(), err, domain.ErrTaskNotFound)
}

func (s *TaskServiceTestSuite) TestList_PagesPartitionTasks() {
	for i := 0; i < 25; i++ {
		s.create(s.owner, fmt.Sprintf("Task %02d", i), i%2 == 0)
	}

	seen := map[uuid.UUID]bool{}

	for page := 1; page <= 3; page++ {
		list, err := s.service.List(s.ctx, s.owner, request.NewListTasksQuery(fmt.Sprint(page), "10", "", "title", "asc"))
		s.Require().NoError(err)

		Expect(list.Pagination.TotalTasks).To(Equal(int64(25)))
		Expect(list.Pagination.TotalPages).To(Equal(3))
		Expect(list.Pagination.CurrentPage).To(Equal(page))
		Expect(list.Pagination.HasPrevPage).To(Equal(page > 1))
		Expect(list.Pagination.HasNextPage).To(Equal(page < 3))

		for _, task := range list.Tasks {
			Expect(seen).ToNot(HaveKey(task.ID))
			seen[task.ID] = true
		}
	}

	Expect(seen).To(HaveLen(25))

	beyond, err := s.service.List(s.ctx, s.owner, request.NewListTasksQuery("4", "10", "", "", ""))
	s.Require().NoError(err)
	Expect(beyond.Tasks).To(BeEmpty())
	Expect(beyond.Pagination.HasNextPage).To(BeFalse())
}

func (s *TaskServiceTestSuite) TestList_HugePageIsEmpty() {
	s.create(s.owner, "Only task", false)

	for _, page := range []string{"1844674407370955162", "99999999999999999999999"} {
		list, err := s.service.List(s.ctx, s.owner, request.NewListTasksQuery(page, "10", "", "", ""))
		s.Require().NoError(err)

		Expect(list.Tasks).To(BeEmpty())
		Expect(list.Pagination.CurrentPage).To(Equal(request.MaxPage))
		Expect(list.Pagination.TotalTasks).To(Equal(int64(1)))
		Expect(list.Pagination.TotalPages).To(Equal(1))
		Expect(list.Pagination.HasNextPage).To(BeFalse())
		Expect(list.Pagination.HasPrevPage).To(BeTrue())
	}
}

func (s *TaskServiceTestSuite) TestList_FilterAndSort() {
	s.create(s.owner, "Charlie", true)
	s.create(s.owner, "Alpha", false)
	s.create(s.owner, "Bravo", true)

	list, err := s.service.List(s.ctx, s.owner, request.NewListTasksQuery("", "", "true", "title", "ASC"))
	s.Require().NoError(err)

	titles := []string{}
	for _, task := range list.Tasks {
		titles = append(titles, task.Title)
	}

	Expect(titles).To(Equal([]string{"Bravo", "Charlie"}))
	Expect(list.Pagination.TotalTasks).To(Equal(int64(2)))

	list, err = s.service.List(s.ctx, s.owner, request.NewListTasksQuery("", "", "", "title", "desc"))
	s.Require().NoError(err)
	Expect(list.Tasks[0].Title).To(Equal("Charlie"))
	Expect(list.Tasks[2].Title).To(Equal("Alpha"))
}

func TestNewPagination(t *testing.T) {
	cases := []struct {
		total      int64
		page       int
		limit      int
		totalPages int
		hasNext    bool
		hasPrev    bool
	}{
		{0, 1, 10, 0, false, false},
		{10, 1, 10, 1, false, false},
		{11, 1, 10, 2, true, false},
		{11, 2, 10, 2, false, true},
		{25, 3, 10, 3, false, true},
		{25, 5, 10, 3, false, true},
		{25, request.MaxPage, request.MaxLimit, 1, false, true},
	}

	for _, tc := range cases {
		p := service.NewPagination(tc.total, tc.page, tc.limit)

		assert.Equal(t, tc.totalPages, p.TotalPages)
		assert.Equal(t, tc.hasNext, p.HasNextPage)
		assert.Equal(t, tc.hasPrev, p.HasPrevPage)
		assert.Equal(t, tc.page, p.CurrentPage)
		assert.Equal(t, tc.total, p.TotalTasks)
	}
}

func TestTaskService_WritesAdvanceUpdatedAt(t *testing.T) {
	stores := map[string]func(t *testing.T) (port.TaskRepository, uuid.UUID){
		"memory": func(t *testing.T) (port.TaskRepository, uuid.UUID) {
			return memory.NewTaskRepository(), uuid.New()
		},
		"sqlite": func(t *testing.T) (port.TaskRepository, uuid.UUID) {
			db := SetupTestDB(t)
			return repository.NewTaskRepository(db), SeedUser(t, db).ID
		},
	}

	for name, setup := range stores {
		t.Run(name, func(t *testing.T) {
			RegisterTestingT(t)

			repo, owner := setup(t)
			ts := service.NewTaskService(repo, service.WithClock(newSteppingClock().Now))
			ctx := context.Background()

			created, err := ts.Create(ctx, owner, request.TaskRequest{Title: "Draft"})
			require.NoError(t, err)

			id := created.ID.String()
			final := request.TaskRequest{Title: "Final", Completed: ptr(false)}

			writes := []struct {
				name  string
				write func() (domain.Task, error)
			}{
				{"update", func() (domain.Task, error) { return ts.Update(ctx, owner, id, final) }},
				{"same update", func() (domain.Task, error) { return ts.Update(ctx, owner, id, final) }},
				{"toggle", func() (domain.Task, error) { return ts.Toggle(ctx, owner, id) }},
				{"toggle back", func() (domain.Task, error) { return ts.Toggle(ctx, owner, id) }},
			}

			last := created.UpdatedAt

			for _, w := range writes {
				task, err := w.write()
				require.NoError(t, err, w.name)

				Expect(task.UpdatedAt).To(BeTemporally(">", last), w.name)
				Expect(task.CreatedAt).To(BeTemporally("==", created.CreatedAt), w.name)
				last = task.UpdatedAt
			}

			found, err := ts.GetByID(ctx, owner, id)
			require.NoError(t, err)
			Expect(found.UpdatedAt).To(BeTemporally("==", last))
			Expect(found.Completed).To(BeFalse())
		})
	}
}

func ptr[T any](v T) *T {
	return &v
}
