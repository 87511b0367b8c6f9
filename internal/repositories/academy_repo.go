package repositories

import (
	"context"

	"cloudpanel/internal/models"

	"github.com/google/uuid"
)

type AcademyRepository interface {
	ListCourses(ctx context.Context, language string) ([]*models.Course, error)
	GetCourse(ctx context.Context, id uuid.UUID) (*models.Course, error)
	ListLessons(ctx context.Context, courseID uuid.UUID) ([]*models.Lesson, error)
	GetLesson(ctx context.Context, id uuid.UUID) (*models.Lesson, error)
}

type academyRepo struct {
	db DB
}

func NewAcademyRepo(db DB) AcademyRepository {
	return &academyRepo{db: db}
}

func (r *academyRepo) ListCourses(ctx context.Context, language string) ([]*models.Course, error) {
	query := `
		SELECT id, title, description, language, position, published, created_at, updated_at
		FROM courses
		WHERE published = TRUE AND language = $1
		ORDER BY position ASC
	`
	rows, err := r.db.Query(ctx, query, language)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		course := &models.Course{}
		if err := rows.Scan(&course.ID, &course.Title, &course.Description, &course.Language, &course.Position, &course.Published, &course.CreatedAt, &course.UpdatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

func (r *academyRepo) GetCourse(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	course := &models.Course{}
	query := `
		SELECT id, title, description, language, position, published, created_at, updated_at
		FROM courses
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&course.ID, &course.Title, &course.Description, &course.Language, &course.Position, &course.Published, &course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return course, nil
}

func (r *academyRepo) ListLessons(ctx context.Context, courseID uuid.UUID) ([]*models.Lesson, error) {
	query := `
		SELECT id, course_id, title, video_key, duration_seconds, position, created_at, updated_at
		FROM lessons
		WHERE course_id = $1
		ORDER BY position ASC
	`
	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lessons []*models.Lesson
	for rows.Next() {
		lesson := &models.Lesson{}
		if err := rows.Scan(&lesson.ID, &lesson.CourseID, &lesson.Title, &lesson.VideoKey, &lesson.DurationSeconds, &lesson.Position, &lesson.CreatedAt, &lesson.UpdatedAt); err != nil {
			return nil, err
		}
		lessons = append(lessons, lesson)
	}
	return lessons, rows.Err()
}

func (r *academyRepo) GetLesson(ctx context.Context, id uuid.UUID) (*models.Lesson, error) {
	lesson := &models.Lesson{}
	query := `
		SELECT id, course_id, title, video_key, duration_seconds, position, created_at, updated_at
		FROM lessons
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&lesson.ID, &lesson.CourseID, &lesson.Title, &lesson.VideoKey, &lesson.DurationSeconds, &lesson.Position, &lesson.CreatedAt, &lesson.UpdatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return lesson, nil
}
