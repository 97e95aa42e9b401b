package project

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/internal/domain/activity"
	"github.com/karnworkspace/taskflow/internal/domain/authz"
	"github.com/karnworkspace/taskflow/internal/domain/notification"
	"github.com/karnworkspace/taskflow/pkg/logger"
	"go.uber.org/zap"
)

var validate = validator.New()

// Service interface
type Service interface {
	CreateProject(ctx context.Context, input CreateProjectInput) (*Project, error)
	GetProject(ctx context.Context, id uuid.UUID) (*Project, error)
	ListProjects(ctx context.Context, filter Filter) ([]Project, int64, error)
	UpdateProject(ctx context.Context, id uuid.UUID, input UpdateProjectInput, requesterID uuid.UUID) (*Project, error)
	// DeleteProject reports false when the project does not exist; a second
	// delete of the same id is a no-op, not an error.
	DeleteProject(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) (bool, error)

	AddMember(ctx context.Context, projectID, userID uuid.UUID, role string, requesterID uuid.UUID) error
	RemoveMember(ctx context.Context, projectID, userID uuid.UUID, requesterID uuid.UUID) error
	ChangeMemberRole(ctx context.Context, projectID, userID uuid.UUID, role string, requesterID uuid.UUID) error
	ListMembers(ctx context.Context, projectID uuid.UUID) ([]Member, error)

	// SweepTimeline applies name-keyed timeline metadata to projects and
	// returns how many rows actually changed. Re-running the sweep over
	// already-tagged projects changes nothing.
	SweepTimeline(ctx context.Context, mapping map[string]TimelineMeta, requesterID uuid.UUID) (int, error)
}

type service struct {
	repo     Repository
	notifier notification.Service
	recorder activity.Service
	logger   *logger.Logger
}

func NewService(repo Repository, notifier notification.Service, recorder activity.Service, log *logger.Logger) Service {
	return &service{
		repo:     repo,
		notifier: notifier,
		recorder: recorder,
		logger:   log,
	}
}

func (s *service) CreateProject(ctx context.Context, input CreateProjectInput) (*Project, error) {
	if err := validate.Struct(input); err != nil {
		return nil, ErrInvalidInput
	}
	if input.Status != "" && !input.Status.IsValid() {
		return nil, ErrInvalidInput
	}

	project := &Project{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		Status:      input.Status,
		Color:       input.Color,
		Icon:        input.Icon,
		OwnerID:     input.OwnerID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	// Project row and its OWNER membership commit together.
	if err := s.repo.CreateWithOwner(ctx, project); err != nil {
		return nil, err
	}

	s.record(ctx, activity.RecordInput{
		UserID:     input.OwnerID,
		Action:     activity.ActionCreated,
		EntityType: "project",
		EntityID:   project.ID,
		ProjectID:  &project.ID,
		Metadata:   map[string]interface{}{"name": project.Name},
	})

	return project, nil
}

func (s *service) GetProject(ctx context.Context, id uuid.UUID) (*Project, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListProjects(ctx context.Context, filter Filter) ([]Project, int64, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *service) UpdateProject(ctx context.Context, id uuid.UUID, input UpdateProjectInput, requesterID uuid.UUID) (*Project, error) {
	if err := validate.Struct(input); err != nil {
		return nil, ErrInvalidInput
	}

	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !authz.CanMutateProject(requesterID, project.OwnerID) {
		return nil, ErrForbidden
	}

	changed := []string{}
	if input.Name != nil && *input.Name != project.Name {
		project.Name = *input.Name
		changed = append(changed, "name")
	}
	if input.Description != nil && *input.Description != project.Description {
		project.Description = *input.Description
		changed = append(changed, "description")
	}
	if input.Status != nil && *input.Status != project.Status {
		if !input.Status.IsValid() {
			return nil, ErrInvalidInput
		}
		project.Status = *input.Status
		changed = append(changed, "status")
	}
	if input.Color != nil && *input.Color != project.Color {
		project.Color = *input.Color
		changed = append(changed, "color")
	}
	if input.Icon != nil && *input.Icon != project.Icon {
		project.Icon = *input.Icon
		changed = append(changed, "icon")
	}

	project.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, project); err != nil {
		return nil, err
	}

	if len(changed) > 0 {
		s.record(ctx, activity.RecordInput{
			UserID:     requesterID,
			Action:     activity.ActionUpdated,
			EntityType: "project",
			EntityID:   project.ID,
			ProjectID:  &project.ID,
			Metadata:   map[string]interface{}{"changed_fields": changed},
		})
	}

	return project, nil
}

func (s *service) DeleteProject(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) (bool, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == ErrProjectNotFound {
			return false, nil
		}
		return false, err
	}

	if !authz.CanMutateProject(requesterID, project.OwnerID) {
		return false, ErrForbidden
	}

	return s.repo.Delete(ctx, id)
}

func (s *service) AddMember(ctx context.Context, projectID, userID uuid.UUID, role string, requesterID uuid.UUID) error {
	project, err := s.repo.FindByID(ctx, projectID)
	if err != nil {
		return err
	}

	requester, err := s.repo.FindMember(ctx, projectID, requesterID)
	if err != nil {
		return err
	}
	if requester == nil || !authz.CanManageMembers(requester.Role) {
		return ErrForbidden
	}

	if role == "" {
		role = authz.RoleMember
	}
	if role == authz.RoleOwner {
		// exactly one OWNER membership, created with the project
		return ErrInvalidInput
	}

	existing, err := s.repo.FindMember(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrMemberExists
	}

	member := &Member{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
		JoinedAt:  time.Now(),
	}
	if err := s.repo.AddMember(ctx, member); err != nil {
		return err
	}

	if _, err := s.notifier.Notify(ctx, notification.NotifyInput{
		UserID:    userID,
		Type:      notification.ProjectInvite,
		Title:     "Added to project",
		Content:   project.Name,
		ProjectID: &projectID,
	}); err != nil {
		s.logger.Error("failed to emit project invite notification", zap.Error(err))
	}

	s.record(ctx, activity.RecordInput{
		UserID:     requesterID,
		Action:     activity.ActionUpdated,
		EntityType: "project_member",
		EntityID:   userID,
		ProjectID:  &projectID,
		Metadata:   map[string]interface{}{"member_added": userID.String(), "role": role},
	})

	return nil
}

func (s *service) RemoveMember(ctx context.Context, projectID, userID uuid.UUID, requesterID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, projectID); err != nil {
		return err
	}

	requester, err := s.repo.FindMember(ctx, projectID, requesterID)
	if err != nil {
		return err
	}
	target, err := s.repo.FindMember(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrMemberNotFound
	}

	if target.Role == authz.RoleOwner {
		return ErrOwnerImmutable
	}
	if requester == nil || !authz.CanRemoveMember(requester.Role, target.Role) {
		return ErrForbidden
	}

	return s.repo.RemoveMember(ctx, projectID, userID)
}

func (s *service) ChangeMemberRole(ctx context.Context, projectID, userID uuid.UUID, role string, requesterID uuid.UUID) error {
	if role != authz.RoleAdmin && role != authz.RoleMember {
		return ErrInvalidInput
	}

	requester, err := s.repo.FindMember(ctx, projectID, requesterID)
	if err != nil {
		return err
	}
	if requester == nil || !authz.CanChangeMemberRole(requester.Role) {
		return ErrForbidden
	}

	target, err := s.repo.FindMember(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrMemberNotFound
	}
	if target.Role == authz.RoleOwner {
		return ErrOwnerImmutable
	}

	return s.repo.UpdateMemberRole(ctx, projectID, userID, role)
}

func (s *service) ListMembers(ctx context.Context, projectID uuid.UUID) ([]Member, error) {
	return s.repo.ListMembers(ctx, projectID)
}

func (s *service) SweepTimeline(ctx context.Context, mapping map[string]TimelineMeta, requesterID uuid.UUID) (int, error) {
	changed := 0
	page := 1
	for {
		projects, _, err := s.repo.FindAll(ctx, Filter{Page: page, PageSize: 200})
		if err != nil {
			return changed, err
		}
		if len(projects) == 0 {
			return changed, nil
		}

		for i := range projects {
			p := &projects[i]
			meta, ok := mapping[p.Name]
			if !ok {
				continue
			}
			if p.TimelineCategory == meta.Category && p.TimelineCode == meta.Code && p.SortOrder == meta.SortOrder {
				continue // already tagged, nothing to write
			}

			p.TimelineCategory = meta.Category
			p.TimelineCode = meta.Code
			p.SortOrder = meta.SortOrder
			p.UpdatedAt = time.Now()
			if err := s.repo.Update(ctx, p); err != nil {
				return changed, err
			}
			changed++

			s.record(ctx, activity.RecordInput{
				UserID:     requesterID,
				Action:     activity.ActionUpdated,
				EntityType: "project",
				EntityID:   p.ID,
				ProjectID:  &p.ID,
				Metadata: map[string]interface{}{
					"timeline_category": meta.Category,
					"timeline_code":     meta.Code,
				},
			})
		}

		if len(projects) < 200 {
			return changed, nil
		}
		page++
	}
}

// record appends an activity entry; emitter failures never roll back the
// primary write, they are logged and dropped.
func (s *service) record(ctx context.Context, input activity.RecordInput) {
	if _, err := s.recorder.Record(ctx, input); err != nil {
		s.logger.Error("failed to record activity", zap.Error(err))
	}
}
