package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/noah-isme/sira-go-api/internal/models"
	"github.com/noah-isme/sira-go-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

type registrationRepoStub struct {
	enrollFn func(ctx context.Context, studentID, courseID uint) (models.Registration, error)
	getFn    func(ctx context.Context, id uint) (models.Registration, error)
	listFn   func(ctx context.Context, filter repository.RegistrationFilter) ([]models.Registration, int64, error)
	dropFn   func(ctx context.Context, id uint) (models.Registration, error)
	deleteFn func(ctx context.Context, id uint) error
	updateFn func(ctx context.Context, id uint, update repository.RegistrationUpdate) (models.Registration, error)
}

func (s *registrationRepoStub) Enroll(ctx context.Context, studentID, courseID uint) (models.Registration, error) {
	return s.enrollFn(ctx, studentID, courseID)
}

func (s *registrationRepoStub) GetByID(ctx context.Context, id uint) (models.Registration, error) {
	return s.getFn(ctx, id)
}

func (s *registrationRepoStub) List(ctx context.Context, filter repository.RegistrationFilter) ([]models.Registration, int64, error) {
	return s.listFn(ctx, filter)
}

func (s *registrationRepoStub) Drop(ctx context.Context, id uint) (models.Registration, error) {
	return s.dropFn(ctx, id)
}

func (s *registrationRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func (s *registrationRepoStub) Update(ctx context.Context, id uint, update repository.RegistrationUpdate) (models.Registration, error) {
	return s.updateFn(ctx, id, update)
}

type studentRepoStub struct {
	students map[uint]models.Student
	byUser   map[uint]models.Student
}

func (s *studentRepoStub) List(ctx context.Context, filter repository.StudentFilter) ([]models.Student, int64, error) {
	items := make([]models.Student, 0, len(s.students))
	for _, student := range s.students {
		items = append(items, student)
	}
	return items, int64(len(items)), nil
}

func (s *studentRepoStub) GetByID(ctx context.Context, id uint) (models.Student, error) {
	student, ok := s.students[id]
	if !ok {
		return models.Student{}, repository.ErrStudentNotFound
	}
	return student, nil
}

func (s *studentRepoStub) GetByUserID(ctx context.Context, userID uint) (models.Student, error) {
	student, ok := s.byUser[userID]
	if !ok {
		return models.Student{}, repository.ErrStudentNotFound
	}
	return student, nil
}

func (s *studentRepoStub) Create(ctx context.Context, student *models.Student, account *models.User) error {
	if s.students == nil {
		s.students = make(map[uint]models.Student)
	}
	student.ID = uint(len(s.students) + 1)
	s.students[student.ID] = *student
	return nil
}

func (s *studentRepoStub) Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Student, error) {
	student, ok := s.students[id]
	if !ok {
		return models.Student{}, repository.ErrStudentNotFound
	}
	return student, nil
}

func (s *studentRepoStub) Delete(ctx context.Context, id uint) error {
	if _, ok := s.students[id]; !ok {
		return repository.ErrStudentNotFound
	}
	delete(s.students, id)
	return nil
}

type userRepoStub struct {
	users   map[uint]models.User
	byEmail map[string]models.User
	created []models.User
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	user.ID = uint(len(s.created) + 1)
	s.created = append(s.created, *user)
	return nil
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (models.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (s *userRepoStub) Count(ctx context.Context) (int64, error) {
	return int64(len(s.users) + len(s.created)), nil
}
