package models

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Language    string    `json:"language" db:"language"`
	Position    int       `json:"position" db:"position"`
	Published   bool      `json:"published" db:"published"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Lesson is one unit of academy content. VideoKey is the object key of the
// lesson's video in object storage; playback URLs are presigned on read.
type Lesson struct {
	ID              uuid.UUID `json:"id" db:"id"`
	CourseID        uuid.UUID `json:"course_id" db:"course_id"`
	Title           string    `json:"title" db:"title"`
	VideoKey        string    `json:"video_key" db:"video_key"`
	DurationSeconds int       `json:"duration_seconds" db:"duration_seconds"`
	Position        int       `json:"position" db:"position"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}
