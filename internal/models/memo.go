package models

import (
	"time"

	"github.com/noah-isme/practicum-admin-api/internal/listcodec"
)

// Consultation channels.
const (
	ChannelPhone  = "phone"
	ChannelVisit  = "visit"
	ChannelOnline = "online"
)

// ConsultationMemo records one counselling conversation with a student.
type ConsultationMemo struct {
	ID            string    `db:"id" json:"id"`
	ApplicationID *string   `db:"application_id" json:"application_id,omitempty"`
	StudentName   string    `db:"student_name" json:"student_name"`
	Phone         *string   `db:"phone" json:"phone,omitempty"`
	Counselor     string    `db:"counselor" json:"counselor"`
	Channel       string    `db:"channel" json:"channel"`
	Content       string    `db:"content" json:"content"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// ConsultationMemoRequest is the create/update payload. Content is plain multi-line text.
type ConsultationMemoRequest struct {
	ApplicationID *string `json:"application_id" validate:"omitempty,uuid"`
	StudentName   string  `json:"student_name" validate:"required,max=100"`
	Phone         *string `json:"phone" validate:"omitempty,max=30"`
	Counselor     string  `json:"counselor" validate:"required,max=100"`
	Channel       string  `json:"channel" validate:"required,oneof=phone visit online"`
	Content       string  `json:"content" validate:"required"`
}

// MemoView is a memo with its content split into display lines.
type MemoView struct {
	ConsultationMemo
	Lines []listcodec.DisplayLine `json:"lines"`
}

// EditableContent carries the plain-text form of a stored list field.
type EditableContent struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}
