package service

import (
	"errors"
	"fmt"
	"strings"

	"go-erp-admin/internal/authz"
	"go-erp-admin/internal/model"
	"go-erp-admin/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type UserService interface {
	CreateUser(req *CreateUserRequest, actor *model.User) (*model.User, error)
	EditPermissions(userID uuid.UUID, req *EditPermissionsRequest, actor *model.User) (*model.User, error)
	GetUser(id uuid.UUID) (*model.User, error)
	ListUsers(page repository.Page) (*repository.PageResult[model.UserResponse], error)
	ListRoles() ([]model.Role, error)
	ListPrivileges() ([]model.Privilege, error)
	EnsureAdmin(username, password string) (*model.User, error)
}

type CreateUserRequest struct {
	Username string `json:"username" form:"username" validate:"required,max=100"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
	FullName string `json:"full_name" form:"full_name" validate:"max=255"`
	// RoleID selects the privilege template. Zero creates a user without capabilities.
	RoleID  uint `json:"role_id" form:"role_id"`
	IsAdmin bool `json:"is_admin" form:"is_admin"`
}

// EditPermissionsRequest edits a user's access. A nil Capabilities keeps the
// current set; a non-nil one replaces it.
type EditPermissionsRequest struct {
	Capabilities *[]string `json:"capabilities" form:"capabilities"`
	IsAdmin      *bool    `json:"is_admin" form:"is_admin"`
	IsActive     *bool    `json:"is_active" form:"is_active"`
}

type userService struct {
	userRepo      repository.UserRepository
	privilegeRepo repository.PrivilegeRepository
	roleRepo      repository.RoleRepository
	log           *logrus.Logger
}

func NewUserService(userRepo repository.UserRepository, privilegeRepo repository.PrivilegeRepository, roleRepo repository.RoleRepository, log *logrus.Logger) UserService {
	return &userService{
		userRepo:      userRepo,
		privilegeRepo: privilegeRepo,
		roleRepo:      roleRepo,
		log:           log,
	}
}

func (s *userService) CreateUser(req *CreateUserRequest, actor *model.User) (*model.User, error) {
	if err := authz.RequireCapability(actor, model.CapManageUsers); err != nil {
		return nil, err
	}
	if req.IsAdmin && !actor.IsAdmin {
		return nil, authz.ErrPermissionDenied
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	username := strings.TrimSpace(req.Username)
	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, invalid("username", "already exists")
	} else if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("find user: %w", err)
	}

	user := &model.User{
		Username: username,
		FullName: strings.TrimSpace(req.FullName),
		IsAdmin:  req.IsAdmin,
		IsActive: true,
	}
	if req.RoleID != 0 {
		role, err := s.roleRepo.FindByID(req.RoleID)
		if err != nil {
			return nil, reference(err, "role_id")
		}
		for _, p := range role.Privileges {
			if !s.canGrant(actor, p.Code) {
				return nil, authz.ErrPermissionDenied
			}
		}
		user.RoleID = &role.ID
		user.Privileges = role.Privileges
	}
	user.CreatedBy, user.UpdatedBy = actor.ID.String(), actor.ID.String()

	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := persist(s.userRepo.Create(user), "username", "create user"); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"username": user.Username, "by": actor.Username}).Info("user created")
	return s.userRepo.FindByID(user.ID)
}

func (s *userService) canGrant(actor *model.User, code string) bool {
	c, ok := authz.ParseCapability(code)
	return ok && authz.HasCapability(actor, c)
}

// EditPermissions updates the target's capabilities and flags. Editors need manage_users.
// A non-admin editor may only change capabilities it holds, and may neither
// edit an admin nor grant is_admin.
func (s *userService) EditPermissions(userID uuid.UUID, req *EditPermissionsRequest, actor *model.User) (*model.User, error) {
	if err := authz.RequireCapability(actor, model.CapManageUsers); err != nil {
		return nil, err
	}
	target, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, lookup(err, "find user")
	}

	current := authz.Capabilities(target)
	wanted := current
	if req.Capabilities != nil {
		wanted = make(map[model.Capability]bool, len(*req.Capabilities))
		for _, name := range *req.Capabilities {
			c, ok := authz.ParseCapability(strings.TrimSpace(name))
			if !ok {
				return nil, invalid("capabilities", fmt.Sprintf("unknown capability %q", name))
			}
			wanted[c] = true
		}
	}

	if !actor.IsAdmin {
		if target.IsAdmin || req.IsAdmin != nil && *req.IsAdmin {
			return nil, authz.ErrPermissionDenied
		}
		for _, c := range model.AllCapabilities {
			if current[c] != wanted[c] && !authz.HasCapability(actor, c) {
				return nil, authz.ErrPermissionDenied
			}
		}
	}

	codes := make([]string, 0, len(wanted))
	for _, c := range model.AllCapabilities {
		if wanted[c] {
			codes = append(codes, string(c))
		}
	}
	privileges, err := s.privilegeRepo.FindByCodes(codes)
	if err != nil {
		return nil, fmt.Errorf("find privileges: %w", err)
	}
	if len(privileges) != len(codes) {
		return nil, errors.New("privilege table is missing seeded capabilities")
	}
	if req.IsAdmin != nil {
		target.IsAdmin = *req.IsAdmin
	}
	if req.IsActive != nil {
		target.IsActive = *req.IsActive
	}
	target.UpdatedBy = actor.ID.String()
	if err := s.userRepo.UpdateAccess(target, privileges); err != nil {
		return nil, fmt.Errorf("update user access: %w", err)
	}

	demoted := (actor.IsAdmin && !target.IsAdmin) || (current[model.CapManageUsers] && !wanted[model.CapManageUsers])
	if target.ID == actor.ID && demoted {
		s.log.WithField("username", actor.Username).Warn("user reduced their own permissions")
	}
	s.log.WithFields(logrus.Fields{
		"username":     target.Username,
		"capabilities": codes,
		"by":           actor.Username,
	}).Info("permissions updated")

	return s.userRepo.FindByID(target.ID)
}

func (s *userService) GetUser(id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, lookup(err, "find user")
	}
	return user, nil
}

func (s *userService) ListUsers(page repository.Page) (*repository.PageResult[model.UserResponse], error) {
	users, err := s.userRepo.FindAll(page)
	if err != nil {
		return nil, err
	}
	responses := make([]model.UserResponse, len(users.Items))
	for i := range users.Items {
		responses[i] = users.Items[i].ToResponse()
	}
	return &repository.PageResult[model.UserResponse]{
		Items:      responses,
		Page:       users.Page,
		PerPage:    users.PerPage,
		Total:      users.Total,
		TotalPages: users.TotalPages,
	}, nil
}

func (s *userService) ListRoles() ([]model.Role, error) {
	return s.roleRepo.FindAll()
}

func (s *userService) ListPrivileges() ([]model.Privilege, error) {
	return s.privilegeRepo.FindAll()
}

// EnsureAdmin creates the bootstrap administrator if the username is free.
func (s *userService) EnsureAdmin(username, password string) (*model.User, error) {
	existing, err := s.userRepo.FindByUsername(username)
	if err == nil {
		return existing, nil
	}
	if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("find admin: %w", err)
	}

	admin := &model.User{
		Username: username,
		FullName: "Administrator",
		IsAdmin:  true,
		IsActive: true,
	}
	admin.CreatedBy, admin.UpdatedBy = "system", "system"
	if err := admin.SetPassword(password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.userRepo.Create(admin); err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	s.log.WithField("username", username).Warn("bootstrap admin created, change its password")
	return admin, nil
}
