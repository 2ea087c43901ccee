package connector

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// JobName identifies a deferred connector operation
type JobName string

const (
	JobImportRecord           JobName = "import_record"
	JobImportBatch            JobName = "import_batch"
	JobImportProductImage     JobName = "import_product_image"
	JobSetProductImageVariant JobName = "set_product_image_variant"
	JobExportRecord           JobName = "export_record"
)

// Job priorities; lower runs first
const (
	PriorityDefault      = 10
	PriorityImage        = 10
	PriorityVariantImage = 15
)

// JobArgs are the arguments of a job. Only the fields used by the job name
// are set.
type JobArgs struct {
	Entity       EntityType `json:"entity,omitempty"`
	ExternalID   int64      `json:"external_id,omitempty"`
	InternalID   uuid.UUID  `json:"internal_id,omitempty"`
	TemplateID   int64      `json:"template_id,omitempty"`
	ImageID      int64      `json:"image_id,omitempty"`
	Combinations []int64    `json:"combinations,omitempty"`
	Filters      Filters    `json:"filters,omitempty"`
	Force        bool       `json:"force,omitempty"`
}

// Job is a unit of deferred work for one backend. KeepIdentity keeps the
// identity key taken for the identity TTL after the job succeeded.
type Job struct {
	ID           uuid.UUID `json:"id"`
	Name         JobName   `json:"name"`
	BackendID    uuid.UUID `json:"backend_id"`
	Priority     int       `json:"priority"`
	IdentityKey  string    `json:"identity_key,omitempty"`
	KeepIdentity bool      `json:"keep_identity,omitempty"`
	Args         JobArgs   `json:"args"`
	EnqueuedAt   time.Time `json:"enqueued_at"`
}

// NewJob creates a job with the default priority
func NewJob(name JobName, backendID uuid.UUID, args JobArgs) *Job {
	return &Job{
		ID:         uuid.New(),
		Name:       name,
		BackendID:  backendID,
		Priority:   PriorityDefault,
		Args:       args,
		EnqueuedAt: time.Now(),
	}
}

// WithPriority sets the priority
func (j *Job) WithPriority(priority int) *Job {
	j.Priority = priority
	return j
}

// WithIdentity sets an identity key derived from the job name, its backend
// and the given parts. The key is freed once the job ends, so it only
// collapses duplicates that are still pending or running.
func (j *Job) WithIdentity(parts ...any) *Job {
	j.IdentityKey = IdentityKey(j.Name, j.BackendID, parts...)
	j.KeepIdentity = false
	return j
}

// WithExactIdentity is WithIdentity for jobs whose result does not change
// with later remote edits. The key stays taken for the identity TTL after
// the job succeeded.
func (j *Job) WithExactIdentity(parts ...any) *Job {
	j.WithIdentity(parts...)
	j.KeepIdentity = true
	return j
}

// IdentityKey hashes a job name, a backend and arguments into a stable key
func IdentityKey(name JobName, backendID uuid.UUID, parts ...any) string {
	var b strings.Builder
	b.WriteString(string(name))
	b.WriteString("|")
	b.WriteString(backendID.String())
	for _, p := range parts {
		b.WriteString("|")
		fmt.Fprint(&b, p)
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// JobQueue accepts deferred jobs. Enqueue returns false, without error,
// when a job with the same identity key is pending, or recently done for
// jobs built with WithExactIdentity.
type JobQueue interface {
	Enqueue(ctx context.Context, job *Job) (bool, error)
}
