package service

import (
	"strings"

	"go-erp-admin/internal/model"
	"go-erp-admin/internal/repository"

	"github.com/google/uuid"
)

// maxCategoryDepth bounds the ancestor walk so a corrupted tree cannot loop forever.
const maxCategoryDepth = 256

type CategoryRequest struct {
	Name     string `json:"name" form:"name" validate:"required,max=255"`
	Code     string `json:"code" form:"code" validate:"required,max=50"`
	ParentID string `json:"parent_id" form:"parent_id"`
}

type CategoryService[T model.Category] interface {
	Create(req *CategoryRequest, actor string) (*T, error)
	Update(id uuid.UUID, req *CategoryRequest, actor string) (*T, error)
	Delete(id uuid.UUID, actor string) error
	Get(id uuid.UUID) (*T, error)
	List(query string, page repository.Page) (*repository.PageResult[T], error)
}

type categoryNode[T model.Category] interface {
	*T
	Tree() *model.CategoryFields
	Base() *model.BaseModel
}

type categoryService[T model.Category, P categoryNode[T]] struct {
	repo repository.CategoryRepository[T]
}

func NewMaterialCategoryService(repo repository.CategoryRepository[model.MaterialCategory]) CategoryService[model.MaterialCategory] {
	return &categoryService[model.MaterialCategory, *model.MaterialCategory]{repo: repo}
}

func NewProductCategoryService(repo repository.CategoryRepository[model.ProductCategory]) CategoryService[model.ProductCategory] {
	return &categoryService[model.ProductCategory, *model.ProductCategory]{repo: repo}
}

func (s *categoryService[T, P]) Create(req *CategoryRequest, actor string) (*T, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	parentID, err := s.checkParent(uuid.Nil, req.ParentID)
	if err != nil {
		return nil, err
	}
	_, err = s.repo.FindByCode(strings.TrimSpace(req.Code))
	if err := codeTaken(err); err != nil {
		return nil, err
	}

	category := new(T)
	P(category).Tree().Name = strings.TrimSpace(req.Name)
	P(category).Tree().Code = strings.TrimSpace(req.Code)
	P(category).Tree().ParentID = parentID
	P(category).Base().CreatedBy = actor
	P(category).Base().UpdatedBy = actor

	if err := persist(s.repo.Create(category), "code", "create category"); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService[T, P]) Update(id uuid.UUID, req *CategoryRequest, actor string) (*T, error) {
	category, err := s.repo.FindByID(id)
	if err != nil {
		return nil, lookup(err, "find category")
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	parentID, err := s.checkParent(id, req.ParentID)
	if err != nil {
		return nil, err
	}

	fields := P(category).Tree()
	code := strings.TrimSpace(req.Code)
	if code != fields.Code {
		_, err := s.repo.FindByCode(code)
		if err := codeTaken(err); err != nil {
			return nil, err
		}
	}
	fields.Name = strings.TrimSpace(req.Name)
	fields.Code = code
	fields.ParentID = parentID
	P(category).Base().UpdatedBy = actor

	if err := persist(s.repo.Update(category), "code", "update category"); err != nil {
		return nil, err
	}
	return s.repo.FindByID(id)
}

// checkParent resolves the requested parent and rejects cycles. id is uuid.Nil for a new category.
func (s *categoryService[T, P]) checkParent(id uuid.UUID, raw string) (*uuid.UUID, error) {
	parentID, err := parseOptionalID("parent_id", raw)
	if err != nil || parentID == nil {
		return nil, err
	}
	if *parentID == id {
		return nil, invalid("parent_id", "a category cannot be its own parent")
	}
	if _, err := s.repo.FindByID(*parentID); err != nil {
		return nil, reference(err, "parent_id")
	}
	if id == uuid.Nil {
		return parentID, nil
	}

	cursor := parentID
	for depth := 0; cursor != nil; depth++ {
		if depth > maxCategoryDepth {
			return nil, invalid("parent_id", "category tree is too deep")
		}
		if *cursor == id {
			return nil, invalid("parent_id", "a category cannot be moved under its own descendant")
		}
		next, err := s.repo.ParentOf(*cursor)
		if err != nil {
			return nil, reference(err, "parent_id")
		}
		cursor = next
	}
	return parentID, nil
}

func (s *categoryService[T, P]) Delete(id uuid.UUID, actor string) error {
	if _, err := s.repo.FindByID(id); err != nil {
		return lookup(err, "find category")
	}
	referenced, err := s.repo.IsReferenced(id)
	if err != nil {
		return lookup(err, "check category references")
	}
	if referenced {
		return invalid("", "category still has subcategories or items")
	}
	return lookup(s.repo.Delete(id, actor), "delete category")
}

func (s *categoryService[T, P]) Get(id uuid.UUID) (*T, error) {
	category, err := s.repo.FindByID(id)
	if err != nil {
		return nil, lookup(err, "find category")
	}
	return category, nil
}

func (s *categoryService[T, P]) List(query string, page repository.Page) (*repository.PageResult[T], error) {
	return s.repo.List(query, page)
}
