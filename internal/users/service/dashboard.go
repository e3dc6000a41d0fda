package service

import (
	"context"
	"errors"
	"fmt"

	"venuebook/internal/users/repository"
	apperrors "venuebook/pkg/errors"
	"venuebook/pkg/logger"
	"venuebook/pkg/model"
)

const (
	RouteTrainingDashboard = "/admin"
	RouteDomeDashboard     = "/admin/admin-dome-tent"
	RouteSelectDashboard   = "/admin/select-dashboard"
	RouteUser              = "/user"
)

// Dashboard is where a signed-in user lands and which venues their admin
// views cover. Venues is empty for plain users.
type Dashboard struct {
	UID    string            `json:"uid,omitempty"`
	Role   model.Role        `json:"role"`
	Route  string            `json:"route"`
	Venues []model.VenueType `json:"venues"`
}

// DashboardFor maps a role to its landing route and venue scope. Unknown
// roles are treated as plain users.
func DashboardFor(role model.Role) Dashboard {
	switch role {
	case model.RoleAdminTraining:
		return Dashboard{Role: role, Route: RouteTrainingDashboard, Venues: []model.VenueType{model.VenueTrainingHall}}
	case model.RoleAdminDome:
		return Dashboard{Role: role, Route: RouteDomeDashboard, Venues: []model.VenueType{model.VenueDomeTent}}
	case model.RoleAdmin:
		return Dashboard{Role: role, Route: RouteSelectDashboard, Venues: model.Venues}
	}
	return Dashboard{Role: model.RoleUser, Route: RouteUser, Venues: []model.VenueType{}}
}

// CanManage reports whether d's scope covers venue.
func (d Dashboard) CanManage(venue model.VenueType) bool {
	for _, v := range d.Venues {
		if v == venue {
			return true
		}
	}
	return false
}

// ScopeVenue resolves the venue an admin view should show. An empty request
// means the whole scope: the single venue of a venue admin, or every venue
// (returned as "") for a full admin. Venues outside the scope are forbidden.
func (d Dashboard) ScopeVenue(requested model.VenueType) (model.VenueType, error) {
	if len(d.Venues) == 0 {
		return "", apperrors.Forbidden("Only administrators can view bookings by status")
	}
	if requested == "" {
		if len(d.Venues) == 1 {
			return d.Venues[0], nil
		}
		return "", nil
	}
	if !d.CanManage(requested) {
		return "", apperrors.Forbidden(fmt.Sprintf("Role %s cannot manage %s bookings", d.Role, requested.Label()))
	}
	return requested, nil
}

type UserService interface {
	Dashboard(ctx context.Context, uid string) (*Dashboard, error)
}

type userService struct {
	repo repository.UserRepository
	log  *logger.Logger
}

func NewUserService(repo repository.UserRepository, log *logger.Logger) UserService {
	return &userService{repo: repo, log: log}
}

func (s *userService) Dashboard(ctx context.Context, uid string) (*Dashboard, error) {
	if uid == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	user, err := s.repo.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("User", uid)
		}
		s.log.Error("Failed to load user", "uid", uid, "error", err)
		return nil, apperrors.Internal("Failed to load user", err)
	}

	d := DashboardFor(user.EffectiveRole())
	d.UID = uid
	return &d, nil
}
