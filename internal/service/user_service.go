package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/RoyceAzure/lab/shopcenter/internal/constants"
	"github.com/RoyceAzure/lab/shopcenter/internal/domain/model"
	"github.com/RoyceAzure/lab/shopcenter/internal/errs"
	"github.com/RoyceAzure/lab/shopcenter/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/shopcenter/internal/token"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type IUserService interface {
	Register(ctx context.Context, email, password, name string) (*model.User, error)
	Login(ctx context.Context, email, password string) (string, *model.User, error)
}

type UserService struct {
	dbDao      db.IStore
	tokenMaker token.Maker
}

func NewUserService(dbDao db.IStore, tokenMaker token.Maker) IUserService {
	return &UserService{
		dbDao:      dbDao,
		tokenMaker: tokenMaker,
	}
}

func (u *UserService) Register(ctx context.Context, email, password, name string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errs.New(errs.KindInvalidInput, "a valid email is required")
	}
	if len(password) < 8 {
		return nil, errs.New(errs.KindInvalidInput, "password must be at least 8 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to hash password", err)
	}

	user := &model.User{
		Email:          email,
		HashedPassword: string(hashed),
		Name:           name,
		Role:           model.RoleUser,
		IsActive:       true,
	}
	if err := u.dbDao.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.New(errs.KindConflict, "email already registered")
		}
		return nil, errs.Wrap(errs.KindInternal, "failed to create user", err)
	}
	return user, nil
}

func (u *UserService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := u.dbDao.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// same response as a wrong password
			return "", nil, errs.New(errs.KindUnauthenticated, "invalid email or password")
		}
		return "", nil, errs.Wrap(errs.KindInternal, "failed to load user", err)
	}
	if !user.IsActive {
		return "", nil, errs.New(errs.KindUnauthenticated, "invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return "", nil, errs.New(errs.KindUnauthenticated, "invalid email or password")
	}

	accessToken, err := u.tokenMaker.CreateToken(user.ID, user.Email, user.Role,
		time.Duration(constants.AccessTokenDuration)*time.Hour)
	if err != nil {
		return "", nil, errs.Wrap(errs.KindInternal, "failed to issue token", err)
	}
	return accessToken, user, nil
}
