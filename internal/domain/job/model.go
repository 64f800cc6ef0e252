package job

import (
	"time"

	"gorm.io/datatypes"
)

// JobStatus represents the current state of a job.
type JobStatus string

const (
	StatusPending   JobStatus = "PENDING"   // submitted, waiting for admin review
	StatusApproved  JobStatus = "APPROVED"  // reviewed, ready to start
	StatusRejected  JobStatus = "REJECTED"  // declined by admin, terminal
	StatusRunning   JobStatus = "RUNNING"   // currently executing
	StatusCompleted JobStatus = "COMPLETED" // finished successfully, terminal
	StatusFailed    JobStatus = "FAILED"    // finished with an error, terminal
)

// ParseStatus validates a status string from a query parameter.
func ParseStatus(s string) (JobStatus, bool) {
	switch JobStatus(s) {
	case StatusPending, StatusApproved, StatusRejected, StatusRunning, StatusCompleted, StatusFailed:
		return JobStatus(s), true
	}
	return "", false
}

// IsTerminal reports whether no further transition leaves the status.
func (s JobStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusCompleted || s == StatusFailed
}

// Job is a requested unit of GPU work.
// StartedAt is set exactly when the job reaches RUNNING; FinishedAt is set
// exactly when it reaches COMPLETED or FAILED; ErrorMessage is set only on
// failure.
type Job struct {
	ID             uint           `gorm:"primaryKey;column:id" json:"id"`
	UserID         uint           `gorm:"not null;index;column:user_id" json:"user_id"`
	Name           string         `gorm:"size:255;not null" json:"name"`
	GPUType        string         `gorm:"size:50;not null;column:gpu_type" json:"gpu_type"`
	NumGPUs        int            `gorm:"default:1;not null;column:num_gpus" json:"num_gpus"`
	EstimatedHours float64        `gorm:"default:1;not null;column:estimated_hours" json:"estimated_hours"`
	Command        string         `gorm:"type:text" json:"command"`
	DataLocation   *string        `gorm:"type:text;column:data_location" json:"data_location,omitempty"`
	IsSensitive    bool           `gorm:"default:false;column:is_sensitive" json:"is_sensitive"`
	Labels         datatypes.JSON `gorm:"type:jsonb" json:"labels,omitempty"`
	Status         JobStatus      `gorm:"size:20;default:'PENDING';index;column:status" json:"status"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	StartedAt      *time.Time     `gorm:"column:started_at" json:"started_at,omitempty"`
	FinishedAt     *time.Time     `gorm:"column:finished_at" json:"finished_at,omitempty"`
	ErrorMessage   *string        `gorm:"type:text;column:error_message" json:"error_message,omitempty"`
}

func (Job) TableName() string {
	return "jobs"
}

// RequestedHours is the quota cost of this job.
func (j *Job) RequestedHours() float64 {
	return j.EstimatedHours * float64(j.NumGPUs)
}

// CreateJobInput is the job submission payload.
type CreateJobInput struct {
	Name           string            `json:"name" binding:"required"`
	GPUType        string            `json:"gpu_type" binding:"required"`
	NumGPUs        int               `json:"num_gpus" binding:"required,min=1"`
	EstimatedHours float64           `json:"estimated_hours" binding:"required,gt=0"`
	Command        string            `json:"command" binding:"required"`
	DataLocation   *string           `json:"data_location"`
	IsSensitive    bool              `json:"is_sensitive"`
	Labels         map[string]string `json:"labels"`
}
