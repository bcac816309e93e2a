package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"animehub/internal/domain/model"
	repo "animehub/internal/repository"
	"animehub/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newProductUsecase() (*usecase.ProductUsecase, *ProductRepoMock) {
	products := new(ProductRepoMock)
	clock := &fixedClock{}
	return usecase.NewProductUsecase(products, &seqIDGen{}, clock), products
}

func TestProductDetail_NotFound(t *testing.T) {
	uc, products := newProductUsecase()

	products.On("FindByID", mock.Anything, "p-missing").Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.Detail(context.Background(), "p-missing")
	assertHTTPError(t, err, http.StatusNotFound, "product not found")
}

func TestAdminCreate_TrimsNameAndGeneratesID(t *testing.T) {
	uc, products := newProductUsecase()

	products.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.Name == "Akira Poster" && p.ID != "" && p.Price == 1000
	})).Return(nil)

	p, err := uc.AdminCreate(context.Background(), usecase.ProductInput{
		Name:     "  Akira Poster  ",
		Price:    1000,
		Category: "posters",
		Stock:    10,
	})
	assert.NoError(t, err)
	assert.Equal(t, "Akira Poster", p.Name)

	products.AssertExpectations(t)
}

func TestAdminCreate_RejectsInvalidInput(t *testing.T) {
	uc, products := newProductUsecase()

	cases := []struct {
		name    string
		in      usecase.ProductInput
		message string
	}{
		{"blank name", usecase.ProductInput{Name: "  ", Price: 100}, "name is required"},
		{"negative price", usecase.ProductInput{Name: "x", Price: -1}, "invalid price"},
		{"negative stock", usecase.ProductInput{Name: "x", Price: 100, Stock: -1}, "invalid stock"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.AdminCreate(context.Background(), tc.in)
			assertHTTPError(t, err, http.StatusBadRequest, tc.message)
		})
	}

	products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAdminDelete_NotFound(t *testing.T) {
	uc, products := newProductUsecase()

	products.On("Delete", mock.Anything, "p-missing").Return(repo.ErrNotFound)

	err := uc.AdminDelete(context.Background(), "p-missing")
	assertHTTPError(t, err, http.StatusNotFound, "product not found")
}
