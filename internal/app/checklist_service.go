package app

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/example/debits/internal/ctxutil"
	"github.com/example/debits/internal/ports/primary"
	"github.com/example/debits/internal/ports/secondary"
)

// ChecklistServiceImpl implements primary.ChecklistService.
type ChecklistServiceImpl struct {
	checklists secondary.ChecklistRepository
	logger     *zap.Logger
}

// NewChecklistService creates a new ChecklistService with injected dependencies.
func NewChecklistService(checklists secondary.ChecklistRepository, logger *zap.Logger) *ChecklistServiceImpl {
	return &ChecklistServiceImpl{checklists: checklists, logger: logger}
}

// CreateTemplate stores a reusable named checklist.
func (s *ChecklistServiceImpl) CreateTemplate(ctx context.Context, req primary.CreateTemplateRequest) error {
	_, err := s.checklists.CreateTemplate(ctx, req.Name, req.WorkspaceID, req.CreatorID, req.Items)
	if errors.Is(err, secondary.ErrTemplateExists) {
		return err
	}
	if err != nil {
		s.logger.Error("create template failed",
			zap.String("workspace", req.WorkspaceID),
			zap.String("name", req.Name),
			zap.Error(err))
		return primary.ErrUnavailable
	}

	s.logger.Info("checklist template created",
		zap.String("workspace", req.WorkspaceID),
		zap.String("name", req.Name),
		zap.Int("items", len(req.Items)),
		zap.String("actor", ctxutil.ActorFromContext(ctx)))
	return nil
}

// Templates lists the template names available in a workspace.
func (s *ChecklistServiceImpl) Templates(ctx context.Context, workspaceID string) ([]string, error) {
	names, err := s.checklists.ListTemplates(ctx, workspaceID)
	if err != nil {
		s.logger.Error("list templates failed",
			zap.String("workspace", workspaceID),
			zap.Error(err))
		return nil, primary.ErrUnavailable
	}
	return names, nil
}

// DeleteTemplate removes a template and all of its instances.
func (s *ChecklistServiceImpl) DeleteTemplate(ctx context.Context, name, workspaceID string) error {
	err := s.checklists.DeleteTemplate(ctx, name, workspaceID)
	if errors.Is(err, secondary.ErrNotFound) {
		return err
	}
	if err != nil {
		s.logger.Error("delete template failed",
			zap.String("workspace", workspaceID),
			zap.String("name", name),
			zap.Error(err))
		return primary.ErrUnavailable
	}

	s.logger.Info("checklist template deleted",
		zap.String("workspace", workspaceID),
		zap.String("name", name),
		zap.String("actor", ctxutil.ActorFromContext(ctx)))
	return nil
}

// Invoke posts a template into a channel: creates a fresh instance with every
// item unchecked and returns its view for rendering.
func (s *ChecklistServiceImpl) Invoke(ctx context.Context, req primary.InvokeRequest) (*primary.ChecklistView, error) {
	template, err := s.checklists.TemplateByName(ctx, req.Name, req.WorkspaceID)
	if errors.Is(err, secondary.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		s.logger.Error("template lookup failed",
			zap.String("workspace", req.WorkspaceID),
			zap.String("name", req.Name),
			zap.Error(err))
		return nil, primary.ErrUnavailable
	}

	instanceID, err := s.checklists.CreateInstance(ctx, template.ID, req.ChannelID, "")
	if errors.Is(err, secondary.ErrNoItems) {
		return nil, err
	}
	if err != nil {
		s.logger.Error("create instance failed",
			zap.String("workspace", req.WorkspaceID),
			zap.String("name", req.Name),
			zap.Error(err))
		return nil, primary.ErrUnavailable
	}

	view, err := s.checklists.Instance(ctx, instanceID)
	if err != nil {
		s.logger.Error("instance read-back failed",
			zap.Int64("instance", instanceID),
			zap.Error(err))
		return nil, primary.ErrUnavailable
	}

	s.logger.Info("checklist invoked",
		zap.String("workspace", req.WorkspaceID),
		zap.String("name", req.Name),
		zap.Int64("instance", instanceID),
		zap.String("channel", req.ChannelID))
	return toChecklistView(view), nil
}

// ConfirmPosted records the message reference of the posted instance.
func (s *ChecklistServiceImpl) ConfirmPosted(ctx context.Context, instanceID int64, messageRef string) error {
	err := s.checklists.SetInstanceMessageRef(ctx, instanceID, messageRef)
	if errors.Is(err, secondary.ErrNotFound) {
		return err
	}
	if err != nil {
		s.logger.Error("confirm posted failed",
			zap.Int64("instance", instanceID),
			zap.Error(err))
		return primary.ErrUnavailable
	}
	return nil
}

// ToggleItem flips one item and reports whether that flip completed the checklist.
func (s *ChecklistServiceImpl) ToggleItem(ctx context.Context, req primary.ToggleRequest) (*primary.ToggleOutcome, error) {
	result, err := s.checklists.UpdateItem(ctx, req.InstanceID, req.ItemID, req.Checked, req.UserID)
	if errors.Is(err, secondary.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		s.logger.Error("toggle item failed",
			zap.Int64("instance", req.InstanceID),
			zap.Int64("item", req.ItemID),
			zap.Error(err))
		return nil, primary.ErrUnavailable
	}

	view, err := s.checklists.Instance(ctx, req.InstanceID)
	if err != nil {
		s.logger.Error("instance read-back failed",
			zap.Int64("instance", req.InstanceID),
			zap.Error(err))
		return nil, primary.ErrUnavailable
	}

	if result.AllComplete {
		s.logger.Info("checklist completed",
			zap.Int64("instance", req.InstanceID),
			zap.String("name", view.Name),
			zap.String("actor", ctxutil.ActorFromContext(ctx)))
	}
	return &primary.ToggleOutcome{AllComplete: result.AllComplete, View: toChecklistView(view)}, nil
}

// Instance retrieves the full instance view.
func (s *ChecklistServiceImpl) Instance(ctx context.Context, instanceID int64) (*primary.ChecklistView, error) {
	view, err := s.checklists.Instance(ctx, instanceID)
	if errors.Is(err, secondary.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		s.logger.Error("instance read failed",
			zap.Int64("instance", instanceID),
			zap.Error(err))
		return nil, primary.ErrUnavailable
	}
	return toChecklistView(view), nil
}

func toChecklistView(view *secondary.InstanceView) *primary.ChecklistView {
	out := &primary.ChecklistView{
		ID:          view.ID,
		Name:        view.Name,
		ChannelID:   view.ChannelID,
		MessageRef:  view.MessageRef,
		IsComplete:  view.IsComplete,
		CreatedAt:   view.CreatedAt,
		CompletedAt: view.CompletedAt,
	}
	for _, item := range view.Items {
		out.Items = append(out.Items, primary.ChecklistViewItem{
			ItemID:    item.ItemID,
			Text:      item.Text,
			Checked:   item.Checked,
			CheckedBy: item.CheckedBy,
			CheckedAt: item.CheckedAt,
		})
	}
	return out
}
