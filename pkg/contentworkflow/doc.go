// Package contentworkflow implements the lifecycle engine behind a
// content-operations backend: assets and content working copies move through
// creation, QC review, approval/rejection/rework, and promotion into canonical
// service master records.
//
// The package exposes a Workflow interface constructed with functional options.
// Persistence, event emission, audit logging and blob storage are collaborator
// interfaces injected at construction time, with in-memory and PostgreSQL
// repository implementations provided under repo/.
package contentworkflow
