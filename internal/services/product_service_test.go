package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/mocks"
)

func TestProductService_CreateProduct(t *testing.T) {
	tests := []struct {
		name          string
		product       domain.Product
		setupMocks    func(*mocks.MockProductRepository)
		expectedError string
	}{
		{
			name:    "inactive product is stored as inactive",
			product: *CreateMockProduct(0, "Mocha", "18", false),
			setupMocks: func(repo *mocks.MockProductRepository) {
				repo.On("Save", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
					return !p.IsActive && p.Name == "Mocha"
				})).Return(nil).Run(func(args mock.Arguments) {
					args.Get(1).(*domain.Product).IDProduct = 4
				})
			},
		},
		{
			name:          "name required",
			product:       *CreateMockProduct(0, " ", "18", true),
			setupMocks:    func(*mocks.MockProductRepository) {},
			expectedError: "name is required",
		},
		{
			name:          "negative price",
			product:       *CreateMockProduct(0, "Latte", "-2", true),
			setupMocks:    func(*mocks.MockProductRepository) {},
			expectedError: "price must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockProductRepository)
			tt.setupMocks(repo)

			got, err := NewProductService(repo).CreateProduct(context.Background(), tt.product)
			if tt.expectedError != "" {
				assert.ErrorIs(t, err, ErrInvalid)
				assert.Contains(t, err.Error(), tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 4, got.IDProduct)
			repo.AssertExpectations(t)
		})
	}
}

func TestProductService_UpdateAndDelete(t *testing.T) {
	repo := new(mocks.MockProductRepository)
	repo.On("FindByID", mock.Anything, 1).Return(CreateMockProduct(1, "Espresso", "10", true), nil)
	repo.On("FindByID", mock.Anything, 9).Return(nil, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)
	repo.On("Deactivate", mock.Anything, 1).Return(nil)

	s := NewProductService(repo)
	ctx := context.Background()

	got, err := s.UpdateProduct(ctx, *CreateMockProduct(1, "Espresso doble", "14", true))
	require.NoError(t, err)
	assert.Equal(t, "Espresso doble", got.Name)

	_, err = s.UpdateProduct(ctx, *CreateMockProduct(9, "Ghost", "1", true))
	assert.ErrorIs(t, err, ErrProductNotFound)

	assert.NoError(t, s.DeleteProduct(ctx, 1))
	assert.ErrorIs(t, s.DeleteProduct(ctx, 9), ErrProductNotFound)
	repo.AssertNumberOfCalls(t, "Deactivate", 1)
}

func TestProductService_ListProducts(t *testing.T) {
	repo := new(mocks.MockProductRepository)
	repo.On("FindAll", mock.Anything).Return(nil, nil)

	got, err := NewProductService(repo).ListProducts(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
