package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/noah-isme/sira-go-api/internal/auth"
	"github.com/noah-isme/sira-go-api/internal/dto"
	"github.com/noah-isme/sira-go-api/internal/models"
	"github.com/noah-isme/sira-go-api/internal/repository"
)

// ErrAccountPasswordRequired indicates create_account was requested without a password.
var ErrAccountPasswordRequired = errors.New("password is required when creating an account")

// StudentService orchestrates student record management use cases.
type StudentService interface {
	List(ctx context.Context, req dto.StudentListRequest) (dto.StudentListResponse, error)
	Get(ctx context.Context, id uint) (dto.StudentResponse, error)
	GetByUserID(ctx context.Context, userID uint) (dto.StudentResponse, error)
	Create(ctx context.Context, req dto.StudentCreateRequest) (dto.StudentResponse, error)
	Update(ctx context.Context, id uint, req dto.StudentUpdateRequest) (dto.StudentResponse, error)
	SelfUpdate(ctx context.Context, userID uint, req dto.StudentSelfUpdateRequest) (dto.StudentResponse, error)
	Delete(ctx context.Context, id uint) error
}

type studentService struct {
	repo      repository.StudentRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo repository.StudentRepository, validate *validator.Validate, logger zerolog.Logger) StudentService {
	return &studentService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) List(ctx context.Context, req dto.StudentListRequest) (dto.StudentListResponse, error) {
	filter := repository.StudentFilter{
		Search:     strings.TrimSpace(req.Search),
		Status:     strings.TrimSpace(req.Status),
		CourseName: strings.TrimSpace(req.Course),
		Page:       req.Page,
		PageSize:   req.PageSize,
	}

	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.StudentListResponse{}, err
	}

	items := make([]dto.StudentResponse, 0, len(students))
	for _, student := range students {
		items = append(items, dto.NewStudentResponse(student))
	}

	return dto.StudentListResponse{
		Items:      items,
		Pagination: dto.NewPaginationMeta(req.Page, req.PageSize, total),
	}, nil
}

func (s *studentService) Get(ctx context.Context, id uint) (dto.StudentResponse, error) {
	student, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.StudentResponse{}, err
	}

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) GetByUserID(ctx context.Context, userID uint) (dto.StudentResponse, error) {
	student, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return dto.StudentResponse{}, err
	}

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Create(ctx context.Context, req dto.StudentCreateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.StudentResponse{}, err
	}

	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = models.StudentStatusActive
	}

	student := models.Student{
		StudentID:      strings.TrimSpace(req.StudentID),
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Email:          strings.TrimSpace(req.Email),
		Phone:          strings.TrimSpace(req.Phone),
		Gender:         req.Gender,
		Address:        datatypes.JSONMap(req.Address),
		EnrollmentDate: time.Now().UTC(),
		Status:         status,
	}

	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return dto.StudentResponse{}, err
		}
		student.DateOfBirth = &dob
	}

	var account *models.User
	if req.CreateAccount {
		if req.Password == "" {
			return dto.StudentResponse{}, ErrAccountPasswordRequired
		}
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return dto.StudentResponse{}, err
		}
		account = &models.User{
			Email:        student.Email,
			PasswordHash: hash,
			Role:         models.RoleStudent,
			IsActive:     true,
		}
	}

	if err := s.repo.Create(ctx, &student, account); err != nil {
		return dto.StudentResponse{}, err
	}

	s.logger.Info().Uint("student_id", student.ID).Str("code", student.StudentID).Msg("student created")
	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Update(ctx context.Context, id uint, req dto.StudentUpdateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.StudentResponse{}, err
	}

	updates := make(map[string]interface{})
	if req.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return dto.StudentResponse{}, err
		}
		updates["date_of_birth"] = dob
	}
	if req.Gender != nil {
		updates["gender"] = *req.Gender
	}
	if req.Address != nil {
		updates["address"] = datatypes.JSONMap(req.Address)
	}
	if req.Status != nil {
		updates["status"] = strings.ToLower(strings.TrimSpace(*req.Status))
	}

	if len(updates) == 0 {
		return s.Get(ctx, id)
	}

	student, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return dto.StudentResponse{}, err
	}

	return dto.NewStudentResponse(student), nil
}

// SelfUpdate lets a student edit their own contact fields only.
func (s *studentService) SelfUpdate(ctx context.Context, userID uint, req dto.StudentSelfUpdateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.StudentResponse{}, err
	}

	student, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return dto.StudentResponse{}, err
	}

	updates := make(map[string]interface{})
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		updates["address"] = datatypes.JSONMap(req.Address)
	}

	if len(updates) == 0 {
		return dto.NewStudentResponse(student), nil
	}

	updated, err := s.repo.Update(ctx, student.ID, updates)
	if err != nil {
		return dto.StudentResponse{}, err
	}

	return dto.NewStudentResponse(updated), nil
}

func (s *studentService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Uint("student_id", id).Msg("student deleted with registrations")
	return nil
}
