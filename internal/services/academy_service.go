package services

import (
	"context"
	"log"
	"time"

	"cloudpanel/internal/caching"
	"cloudpanel/internal/models"
	"cloudpanel/internal/repositories"

	"github.com/google/uuid"
)

const (
	academyBucket   = "academy-media"
	academyCacheTTL = 10 * time.Minute
	videoURLExpiry  = 2 * time.Hour
)

// LessonView is a lesson with its playback URL resolved.
type LessonView struct {
	models.Lesson
	VideoURL string `json:"video_url"`
}

// CourseDetail is a course together with its ordered lessons.
type CourseDetail struct {
	Course  *models.Course `json:"course"`
	Lessons []*LessonView  `json:"lessons"`
}

// AcademyService serves the learning-academy content viewer. Course and
// lesson listings are near-static and cached; playback URLs are presigned
// per read.
type AcademyService interface {
	ListCourses(ctx context.Context, language string) ([]*models.Course, error)
	GetCourseDetail(ctx context.Context, courseID uuid.UUID) (*CourseDetail, error)
	GetLesson(ctx context.Context, lessonID uuid.UUID) (*LessonView, error)
}

type academyService struct {
	academyRepo repositories.AcademyRepository
	storageSvc  StorageService
	cacheSvc    caching.CacheService
}

func NewAcademyService(academyRepo repositories.AcademyRepository, storageSvc StorageService, cacheSvc caching.CacheService) AcademyService {
	return &academyService{
		academyRepo: academyRepo,
		storageSvc:  storageSvc,
		cacheSvc:    cacheSvc,
	}
}

func (s *academyService) ListCourses(ctx context.Context, language string) ([]*models.Course, error) {
	if language == "" {
		language = "en"
	}

	if cached, err := s.cacheSvc.GetCourses(ctx, language); err == nil && cached != nil {
		return cached, nil
	}

	courses, err := s.academyRepo.ListCourses(ctx, language)
	if err != nil {
		return nil, err
	}

	if err := s.cacheSvc.SetCourses(ctx, language, courses, academyCacheTTL); err != nil {
		log.Printf("Failed to cache course listing: %v", err)
	}
	return courses, nil
}

func (s *academyService) GetCourseDetail(ctx context.Context, courseID uuid.UUID) (*CourseDetail, error) {
	course, err := s.academyRepo.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	lessons, err := s.lessonsFor(ctx, courseID)
	if err != nil {
		return nil, err
	}

	views := make([]*LessonView, 0, len(lessons))
	for _, lesson := range lessons {
		views = append(views, s.lessonView(ctx, lesson))
	}

	return &CourseDetail{Course: course, Lessons: views}, nil
}

func (s *academyService) GetLesson(ctx context.Context, lessonID uuid.UUID) (*LessonView, error) {
	lesson, err := s.academyRepo.GetLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	return s.lessonView(ctx, lesson), nil
}

func (s *academyService) lessonsFor(ctx context.Context, courseID uuid.UUID) ([]*models.Lesson, error) {
	if cached, err := s.cacheSvc.GetLessons(ctx, courseID); err == nil && cached != nil {
		return cached, nil
	}

	lessons, err := s.academyRepo.ListLessons(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if err := s.cacheSvc.SetLessons(ctx, courseID, lessons, academyCacheTTL); err != nil {
		log.Printf("Failed to cache lessons for course %s: %v", courseID, err)
	}
	return lessons, nil
}

func (s *academyService) lessonView(ctx context.Context, lesson *models.Lesson) *LessonView {
	view := &LessonView{Lesson: *lesson}
	if lesson.VideoKey != "" {
		url, err := s.storageSvc.GetPresignedURL(ctx, academyBucket, lesson.VideoKey, videoURLExpiry)
		if err != nil {
			log.Printf("Failed to presign video URL for lesson %s: %v", lesson.ID, err)
		} else {
			view.VideoURL = url
		}
	}
	return view
}
