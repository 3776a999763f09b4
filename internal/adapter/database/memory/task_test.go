package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/gomega"

	"taskapp/internal/core/domain"
)

func TestTaskRepository_ConcurrentTogglesAreNotLost(t *testing.T) {
	RegisterTestingT(t)

	repo := NewTaskRepository()
	owner := uuid.New()
	task, _ := repo.Create(context.Background(), domain.NewTask(owner, "Flip", false, time.Now()))

	var wg sync.WaitGroup

	for i := 0; i < 11; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.ToggleCompleted(context.Background(), owner, task.ID, time.Now())
			Expect(err).ToNot(HaveOccurred())
		}()
	}

	wg.Wait()

	found, err := repo.FindByID(context.Background(), owner, task.ID)
	Expect(err).ToNot(HaveOccurred())
	Expect(found.Completed).To(BeTrue())
}

func TestTaskRepository_ToggleRefreshesUpdatedAt(t *testing.T) {
	RegisterTestingT(t)

	repo := NewTaskRepository()
	owner := uuid.New()
	created := time.Now().Add(-time.Hour).UTC()
	task, _ := repo.Create(context.Background(), domain.NewTask(owner, "Flip", false, created))

	toggledAt := created.Add(time.Hour)
	toggled, err := repo.ToggleCompleted(context.Background(), owner, task.ID, toggledAt)

	Expect(err).ToNot(HaveOccurred())
	Expect(toggled.Completed).To(BeTrue())
	Expect(toggled.UpdatedAt).To(Equal(toggledAt))
	Expect(toggled.CreatedAt).To(Equal(created))

	found, err := repo.FindByID(context.Background(), owner, task.ID)
	Expect(err).ToNot(HaveOccurred())
	Expect(found.UpdatedAt).To(Equal(toggledAt))
}

func TestTaskRepository_FindPastLastPageIsEmpty(t *testing.T) {
	RegisterTestingT(t)

	repo := NewTaskRepository()
	owner := uuid.New()
	_, _ = repo.Create(context.Background(), domain.NewTask(owner, "Only one", false, time.Now()))

	for _, offset := range []int{1, 1 << 40, -6} {
		tasks, err := repo.Find(context.Background(), domain.TaskQuery{
			TaskFilter: domain.TaskFilter{Owner: owner},
			Offset:     offset,
			Limit:      10,
		})

		Expect(err).ToNot(HaveOccurred())
		Expect(tasks).To(BeEmpty(), "offset %d", offset)
	}
}

func TestTaskRepository_FindSortsAndPages(t *testing.T) {
	RegisterTestingT(t)

	repo := NewTaskRepository()
	owner := uuid.New()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, title := range []string{"Charlie", "Alpha", "Bravo"} {
		_, _ = repo.Create(context.Background(), domain.NewTask(owner, title, i == 1, base.Add(time.Duration(i)*time.Hour)))
	}

	_, _ = repo.Create(context.Background(), domain.NewTask(uuid.New(), "Foreign", false, base))

	tasks, err := repo.Find(context.Background(), domain.TaskQuery{
		TaskFilter: domain.TaskFilter{Owner: owner},
		SortBy:     domain.SortByCreatedAt,
		Descending: true,
		Limit:      2,
	})

	Expect(err).ToNot(HaveOccurred())
	Expect(tasks).To(HaveLen(2))
	Expect(tasks[0].Title).To(Equal("Bravo"))
	Expect(tasks[1].Title).To(Equal("Alpha"))

	completed := false
	total, _ := repo.Count(context.Background(), domain.TaskFilter{Owner: owner, Completed: &completed})
	Expect(total).To(Equal(int64(2)))

	tasks, _ = repo.Find(context.Background(), domain.TaskQuery{
		TaskFilter: domain.TaskFilter{Owner: owner},
		SortBy:     domain.SortByCompleted,
		Limit:      10,
	})
	Expect(tasks[2].Title).To(Equal("Alpha"))
}

func TestUserRepository_UniqueEmailAndUsername(t *testing.T) {
	RegisterTestingT(t)

	repo := NewUserRepository()
	ctx := context.Background()

	user, err := repo.Create(ctx, domain.NewUser("alice", "alice@example.com", "hash", time.Now()))
	Expect(err).ToNot(HaveOccurred())

	_, err = repo.Create(ctx, domain.NewUser("alice", "other@example.com", "hash", time.Now()))
	Expect(err).To(MatchError(domain.ErrUserAlreadyExists))

	found, err := repo.GetByEmail(ctx, "alice@example.com")
	Expect(err).ToNot(HaveOccurred())
	Expect(found.ID).To(Equal(user.ID))

	_, err = repo.GetByID(ctx, uuid.New())
	Expect(err).To(MatchError(domain.ErrUserNotFound))
}
