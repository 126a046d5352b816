package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/Veraticus/grocer/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestValidateContext(t *testing.T) {
	tests := []struct {
		ctx     context.Context
		name    string
		wantErr bool
	}{
		{
			name:    "valid context",
			ctx:     context.Background(),
			wantErr: false,
		},
		{
			name:    "nil context",
			ctx:     nil,
			wantErr: true,
		},
		{
			name: "canceled context still valid",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			}(),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContext(tt.ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateContext() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateString(t *testing.T) {
	tests := []struct {
		name      string
		str       string
		paramName string
		wantErr   bool
	}{
		{name: "valid string", str: "porridge", paramName: "recipe"},
		{name: "empty string", str: "", paramName: "recipe", wantErr: true},
		{name: "whitespace only", str: "   ", paramName: "recipe", wantErr: true},
		{name: "string with spaces", str: "  porridge  ", paramName: "recipe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateString(tt.str, tt.paramName)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateString() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), tt.paramName) {
				t.Errorf("validateString() error should contain param name %s, got %v", tt.paramName, err)
			}
		})
	}
}

func TestValidateRecipe(t *testing.T) {
	tests := []struct {
		recipe  *model.Recipe
		wantErr error
		name    string
	}{
		{
			name:   "valid recipe",
			recipe: &model.Recipe{Name: "porridge", Origin: model.OriginText},
		},
		{
			name:   "origin may be empty",
			recipe: &model.Recipe{Name: "porridge"},
		},
		{
			name:    "nil recipe",
			recipe:  nil,
			wantErr: ErrNilParameter,
		},
		{
			name:    "blank name",
			recipe:  &model.Recipe{Name: "  "},
			wantErr: ErrInvalidRecipe,
		},
		{
			name:    "unknown origin",
			recipe:  &model.Recipe{Name: "porridge", Origin: "fax"},
			wantErr: ErrInvalidRecipe,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRecipe(tt.recipe)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateIngredients(t *testing.T) {
	oats := model.Ingredient{Name: "oats", Quantity: model.Quantity{Unit: model.Cup, Amount: 1}}

	tests := []struct {
		name        string
		errContains string
		ingredients []model.Ingredient
		wantErr     bool
	}{
		{
			name:        "empty slice",
			ingredients: nil,
		},
		{
			name:        "valid ingredients",
			ingredients: []model.Ingredient{oats, {Name: "eggs", Quantity: model.Quantity{Unit: model.Item, Amount: 2}}},
		},
		{
			name:        "negative amounts are allowed",
			ingredients: []model.Ingredient{{Name: "salt", Quantity: model.Quantity{Unit: model.Gram, Amount: -1}}},
		},
		{
			name:        "missing name",
			ingredients: []model.Ingredient{oats, {Quantity: model.Quantity{Unit: model.Cup, Amount: 1}}},
			wantErr:     true,
			errContains: "index 1",
		},
		{
			name:        "zero unit",
			ingredients: []model.Ingredient{{Name: "milk", Quantity: model.Quantity{Amount: 1}}},
			wantErr:     true,
			errContains: "milk",
		},
		{
			name:        "duplicate name",
			ingredients: []model.Ingredient{oats, oats},
			wantErr:     true,
			errContains: "duplicate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateIngredients(tt.ingredients)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidIngredient)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}
