package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/sira-go-api/internal/dto"
	"github.com/noah-isme/sira-go-api/internal/models"
	"github.com/noah-isme/sira-go-api/internal/repository"
)

const catalogCachePrefix = "sira:catalog:"

// CourseService orchestrates course catalog management use cases.
type CourseService interface {
	List(ctx context.Context, req dto.CourseListRequest) (dto.CourseListResponse, error)
	Get(ctx context.Context, id uint) (dto.CourseDetailResponse, error)
	Create(ctx context.Context, req dto.CourseCreateRequest) (dto.CourseResponse, error)
	Update(ctx context.Context, id uint, req dto.CourseUpdateRequest) (dto.CourseResponse, error)
	Delete(ctx context.Context, id uint) error
}

type courseService struct {
	repo      repository.CourseRepository
	validator *validator.Validate
	cache     *redis.Client
	cacheTTL  time.Duration
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewCourseService constructs the course service. The redis client is
// optional; without it every list hits the database.
func NewCourseService(repo repository.CourseRepository, validate *validator.Validate, cache *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) CourseService {
	return &courseService{
		repo:      repo,
		validator: validate,
		cache:     cache,
		cacheTTL:  cacheTTL,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "course_service").Logger(),
	}
}

func (s *courseService) List(ctx context.Context, req dto.CourseListRequest) (dto.CourseListResponse, error) {
	cacheKey := s.cacheKey(req)
	if s.cache != nil && s.cacheTTL > 0 {
		if cached, err := s.cache.Get(ctx, cacheKey).Bytes(); err == nil {
			var response dto.CourseListResponse
			if err := json.Unmarshal(cached, &response); err == nil {
				return response, nil
			}
		}
	}

	filter := repository.CourseFilter{
		Search:     strings.TrimSpace(req.Search),
		Department: strings.TrimSpace(req.Department),
		Semester:   strings.TrimSpace(req.Semester),
		Status:     strings.TrimSpace(req.Status),
		Page:       req.Page,
		PageSize:   req.PageSize,
	}

	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.CourseListResponse{}, err
	}

	items := make([]dto.CourseResponse, 0, len(courses))
	for _, course := range courses {
		items = append(items, dto.NewCourseResponse(course))
	}

	response := dto.CourseListResponse{
		Items:      items,
		Pagination: dto.NewPaginationMeta(req.Page, req.PageSize, total),
	}

	if s.cache != nil && s.cacheTTL > 0 {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to cache course catalog page")
			}
		}
	}

	return response, nil
}

func (s *courseService) Get(ctx context.Context, id uint) (dto.CourseDetailResponse, error) {
	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.CourseDetailResponse{}, err
	}

	enrolled, err := s.repo.CountEnrolled(ctx, id)
	if err != nil {
		return dto.CourseDetailResponse{}, err
	}

	remaining := int64(course.MaxStudents) - enrolled
	if remaining < 0 {
		remaining = 0
	}

	return dto.CourseDetailResponse{
		CourseResponse: dto.NewCourseResponse(course),
		EnrolledCount:  enrolled,
		SeatsRemaining: remaining,
	}, nil
}

func (s *courseService) Create(ctx context.Context, req dto.CourseCreateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.CourseResponse{}, err
	}

	credits := req.Credits
	if credits == 0 {
		credits = 3
	}

	maxStudents := req.MaxStudents
	if maxStudents == 0 {
		maxStudents = 30
	}

	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = models.CourseStatusActive
	}

	course := models.Course{
		CourseCode:    strings.ToUpper(strings.TrimSpace(req.CourseCode)),
		Name:          strings.TrimSpace(req.Name),
		Description:   s.sanitizer.Sanitize(req.Description),
		Credits:       credits,
		MaxStudents:   maxStudents,
		Instructor:    strings.TrimSpace(req.Instructor),
		Department:    strings.TrimSpace(req.Department),
		Semester:      strings.TrimSpace(req.Semester),
		Year:          req.Year,
		DurationWeeks: req.DurationWeeks,
		Status:        status,
	}

	if err := s.repo.Create(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	s.invalidateCatalog(ctx)
	s.logger.Info().Uint("course_id", course.ID).Str("code", course.CourseCode).Msg("course created")
	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Update(ctx context.Context, id uint, req dto.CourseUpdateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.CourseResponse{}, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = s.sanitizer.Sanitize(*req.Description)
	}
	if req.Credits != nil {
		updates["credits"] = *req.Credits
	}
	if req.MaxStudents != nil {
		updates["max_students"] = *req.MaxStudents
	}
	if req.Instructor != nil {
		updates["instructor"] = strings.TrimSpace(*req.Instructor)
	}
	if req.Department != nil {
		updates["department"] = strings.TrimSpace(*req.Department)
	}
	if req.Semester != nil {
		updates["semester"] = strings.TrimSpace(*req.Semester)
	}
	if req.Year != nil {
		updates["year"] = *req.Year
	}
	if req.DurationWeeks != nil {
		updates["duration_weeks"] = *req.DurationWeeks
	}
	if req.Status != nil {
		updates["status"] = strings.ToLower(strings.TrimSpace(*req.Status))
	}

	if len(updates) == 0 {
		course, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return dto.CourseResponse{}, err
		}
		return dto.NewCourseResponse(course), nil
	}

	course, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return dto.CourseResponse{}, err
	}

	s.invalidateCatalog(ctx)
	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateCatalog(ctx)
	s.logger.Info().Uint("course_id", id).Msg("course deleted")
	return nil
}

func (s *courseService) cacheKey(req dto.CourseListRequest) string {
	return fmt.Sprintf("%sp%d:s%d:q=%s:d=%s:sem=%s:st=%s",
		catalogCachePrefix, req.Page, req.PageSize,
		strings.ToLower(req.Search), strings.ToLower(req.Department),
		strings.ToLower(req.Semester), strings.ToLower(req.Status))
}

func (s *courseService) invalidateCatalog(ctx context.Context) {
	if s.cache == nil {
		return
	}

	iter := s.cache.Scan(ctx, 0, catalogCachePrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.cache.Del(ctx, iter.Val()).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to evict catalog cache entry")
		}
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn().Err(err).Msg("catalog cache scan failed")
	}
}
