package contentworkflow

import (
	"context"
	"log/slog"
)

// NoopEventSink is a no-operation implementation of EventSink
// Useful for production when you don't need event handling or for testing
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

// AssetSubmitted does nothing and returns nil
func (n *NoopEventSink) AssetSubmitted(ctx context.Context, asset *Asset) error {
	return nil
}

// AssetReviewed does nothing and returns nil
func (n *NoopEventSink) AssetReviewed(ctx context.Context, asset *Asset, review *QCReview) error {
	return nil
}

// ContentPulled does nothing and returns nil
func (n *NoopEventSink) ContentPulled(ctx context.Context, content *Content) error {
	return nil
}

// ContentPublished does nothing and returns nil
func (n *NoopEventSink) ContentPublished(ctx context.Context, content *Content) error {
	return nil
}

// ServiceUpdated does nothing and returns nil
func (n *NoopEventSink) ServiceUpdated(ctx context.Context, service *Service) error {
	return nil
}

// SubServiceChanged does nothing and returns nil
func (n *NoopEventSink) SubServiceChanged(ctx context.Context, sub *SubService, parent *Service) error {
	return nil
}

// NoopAuditSink is a no-operation implementation of AuditSink
type NoopAuditSink struct{}

// NewNoopAuditSink creates a new no-operation audit sink
func NewNoopAuditSink() AuditSink {
	return &NoopAuditSink{}
}

// Append does nothing and returns nil
func (n *NoopAuditSink) Append(ctx context.Context, entry AuditEntry) error {
	return nil
}

// LoggingEventSink is an event sink that logs events but takes no other
// action. Useful for development and debugging.
type LoggingEventSink struct {
	logger *slog.Logger
}

// NewLoggingEventSink creates a new logging event sink
func NewLoggingEventSink(logger *slog.Logger) EventSink {
	return &LoggingEventSink{logger: logger}
}

// AssetSubmitted logs the submission event
func (l *LoggingEventSink) AssetSubmitted(ctx context.Context, asset *Asset) error {
	l.logger.Info(EventAssetSubmitted, "asset_id", asset.ID, "status", asset.Status)
	return nil
}

// AssetReviewed logs the review event
func (l *LoggingEventSink) AssetReviewed(ctx context.Context, asset *Asset, review *QCReview) error {
	l.logger.Info(EventAssetReviewed, "asset_id", asset.ID, "decision", review.Decision,
		"score", review.Score, "linking_active", asset.LinkingActive)
	return nil
}

// ContentPulled logs the pull event
func (l *LoggingEventSink) ContentPulled(ctx context.Context, content *Content) error {
	l.logger.Info(EventContentPulled, "content_id", content.ID, "linked_services", len(content.LinkedServiceIDs))
	return nil
}

// ContentPublished logs the publish event
func (l *LoggingEventSink) ContentPublished(ctx context.Context, content *Content) error {
	l.logger.Info(EventContentPublished, "content_id", content.ID)
	return nil
}

// ServiceUpdated logs the master update event
func (l *LoggingEventSink) ServiceUpdated(ctx context.Context, service *Service) error {
	l.logger.Info(EventServiceUpdated, "service_id", service.ID, "version_number", service.VersionNumber)
	return nil
}

// SubServiceChanged logs the sub-service mutation event
func (l *LoggingEventSink) SubServiceChanged(ctx context.Context, sub *SubService, parent *Service) error {
	l.logger.Info(EventSubServiceChanged, "sub_service_id", sub.ID,
		"parent_service_id", parent.ID, "subservice_count", parent.SubserviceCount)
	return nil
}

// LoggingAuditSink is an audit sink that logs entries but takes no other
// action.
type LoggingAuditSink struct {
	logger *slog.Logger
}

// NewLoggingAuditSink creates a new logging audit sink
func NewLoggingAuditSink(logger *slog.Logger) AuditSink {
	return &LoggingAuditSink{logger: logger}
}

// Append logs the audit entry
func (l *LoggingAuditSink) Append(ctx context.Context, entry AuditEntry) error {
	l.logger.Info("audit", "action_type", entry.ActionType, "actor_id", entry.ActorID,
		"target_type", entry.TargetType, "target_id", entry.TargetID)
	return nil
}
