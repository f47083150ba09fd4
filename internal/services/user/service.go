package userservice

import (
	"context"
	"crypto/subtle"
	"docmanager/internal/access"
	"docmanager/internal/models"
	"docmanager/internal/validator"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	uuid "github.com/satori/go.uuid"
	"golang.org/x/crypto/bcrypt"
)

const pkg = "userService/"

type UserService struct {
	log          *slog.Logger
	userAdder    UserAdder
	userProvider UserProvider
	adminToken   string
}

func New(
	log *slog.Logger,
	userAdder UserAdder,
	userProvider UserProvider,
	adminToken string) *UserService {
	return &UserService{
		log:          log,
		userAdder:    userAdder,
		userProvider: userProvider,
		adminToken:   adminToken,
	}
}

// Register creates a user. The caller is either an Admin or presents the
// bootstrap admin token; requester may be nil in the latter case.
func (u *UserService) Register(ctx context.Context, requester *models.User, adminToken string, req models.RegisterRequest) (*models.User, error) {
	op := pkg + "Register"

	log := u.log.With(slog.String("op", op))

	log.Debug("attempting to register user")

	if !u.canRegister(requester, adminToken) {
		log.Warn("not allowed to register users")
		return nil, models.ErrForbidden
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.Name)

	if !validator.IsValidEmail(email) || !validator.IsValidPassword(req.Password) || !validator.IsValidName(name) {
		log.Warn("invalid email, password or name format")
		return nil, models.ErrInvalidParams
	}

	role := models.RoleViewer
	if req.Role != "" {
		parsed, err := models.ParseRole(req.Role)
		if err != nil {
			log.Warn("invalid role", slog.String("role", req.Role))
			return nil, models.ErrInvalidParams
		}
		role = parsed
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	user := models.User{
		ID:       uuid.NewV4().String(),
		Email:    email,
		Name:     name,
		Role:     role,
		PassHash: passHash,
	}

	if err := u.AddUser(ctx, user); err != nil {
		return nil, err
	}

	log.Debug("user registered successfully", slog.String("user_id", user.ID), slog.String("role", role.String()))

	return &user, nil
}

func (u *UserService) canRegister(requester *models.User, adminToken string) bool {
	if requester != nil && access.CanManageUsers(requester.Role) {
		return true
	}
	return u.adminToken != "" && subtle.ConstantTimeCompare([]byte(adminToken), []byte(u.adminToken)) == 1
}

func (u *UserService) AddUser(ctx context.Context, user models.User) error {
	op := pkg + "AddUser"

	log := u.log.With(slog.String("op", op))

	log.Debug("attempting to add user")

	err := u.userAdder.AddUser(ctx, user)
	if err != nil {
		var uce *models.UniqueConstraintError
		if errors.As(err, &uce) {
			log.Warn("user already exists", slog.String("constraint", uce.Constraint))
			return models.ErrUserExists
		}
		log.Error("failed to add user", slog.String("error", err.Error()))
		return models.ErrFailedToAddUser
	}

	log.Debug("user added successfully")

	return nil
}

func (u *UserService) UserByID(ctx context.Context, id string) (*models.User, error) {
	op := pkg + "UserByID"

	log := u.log.With(slog.String("op", op))

	log.Debug("attempting to get user by id")

	user, err := u.userProvider.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			log.Warn("failed to get user by id", slog.String("error", models.ErrUserNotFound.Error()))
			return nil, models.ErrUserNotFound
		}
		log.Error("failed to get user by id", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	log.Debug("user found successfully")

	return user, nil
}

func (u *UserService) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	op := pkg + "UserByEmail"

	log := u.log.With(slog.String("op", op))

	log.Debug("attempting to get user by email")

	user, err := u.userProvider.UserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			log.Warn("failed to get user by email", slog.String("error", models.ErrUserNotFound.Error()))
			return nil, models.ErrUserNotFound
		}
		log.Error("failed to get user by email", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	log.Debug("user found successfully")

	return user, nil
}
