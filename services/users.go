package services

import (
	"context"

	"github.com/devsstudio/skillsview/request"
	"github.com/devsstudio/skillsview/response"
	"github.com/devsstudio/skillsview/types"

	"gorm.io/gorm"
)

const (
	UsersTable    = "user"
	LicensesTable = "license"
	LicensesLimit = 100
)

// SensitiveColumns never leave the service, whether or not the table has them.
var SensitiveColumns = []string{"password"}

type UserService struct {
	db      *gorm.DB
	orderBy string
}

// NewUserService lists the user table. An empty orderBy leaves row order to
// the database.
func NewUserService(db *gorm.DB, orderBy string) *UserService {
	return &UserService{db: db, orderBy: orderBy}
}

func (s *UserService) List(ctx context.Context, req request.UsersRequest) (*response.PaginationResponse, error) {
	pagination := PaginationService(s.db, types.ListParams{
		Table:   UsersTable,
		OrderBy: s.orderBy,
		Exclude: SensitiveColumns,
		Filters: UserFilters(req),
	})
	return pagination.FindPaginated(ctx, req.Page, req.PageSize)
}

type LicenseService struct {
	db      *gorm.DB
	orderBy string
}

func NewLicenseService(db *gorm.DB, orderBy string) *LicenseService {
	return &LicenseService{db: db, orderBy: orderBy}
}

// List returns the first LicensesLimit licenses, unfiltered.
func (s *LicenseService) List(ctx context.Context) (*response.ListResponse, error) {
	pagination := PaginationService(s.db, types.ListParams{
		Table:   LicensesTable,
		OrderBy: s.orderBy,
		Exclude: SensitiveColumns,
	})
	return pagination.FindAll(ctx, LicensesLimit)
}
