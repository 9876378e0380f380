package guard_test

import (
	"errors"
	"testing"

	"marketplace/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("properly_constructed_guard_returns_nil", func(t *testing.T) {
		// Given
		g := guard.NewConstructorGuard()

		// When
		err := g.Validate(errors.New("not constructed"))

		// Then
		require.NoError(t, err)
	})

	t.Run("zero_value_guard_returns_custom_error", func(t *testing.T) {
		// Given
		var g guard.ConstructorGuard
		expectedError := errors.New("draft not constructed")

		// When
		err := g.Validate(expectedError)

		// Then
		require.Error(t, err)
		assert.Equal(t, expectedError, err)
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		// Given
		var g guard.ConstructorGuard

		// When
		err := g.Validate(nil)

		// Then
		require.Error(t, err)
		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
		assert.Equal(t, "object must be created via its constructor", err.Error())
	})
}

func TestConstructorGuardUsageExample(t *testing.T) {
	type line struct {
		sku      string
		quantity int
		guard    guard.ConstructorGuard
	}

	errLineNotConstructed := errors.New("line must be created via newLine")

	newLine := func(sku string, quantity int) (line, error) {
		if sku == "" {
			return line{}, errors.New("sku is required")
		}
		if quantity <= 0 {
			return line{}, errors.New("quantity must be positive")
		}
		return line{sku: sku, quantity: quantity, guard: guard.NewConstructorGuard()}, nil
	}

	t.Run("valid_construction_through_constructor", func(t *testing.T) {
		l, err := newLine("SKU-1", 2)

		require.NoError(t, err)
		require.NoError(t, l.guard.Validate(errLineNotConstructed))
	})

	t.Run("zero_value_construction_validation", func(t *testing.T) {
		var l line

		assert.Equal(t, errLineNotConstructed, l.guard.Validate(errLineNotConstructed))
	})

	t.Run("constructor_validates_business_rules", func(t *testing.T) {
		_, err := newLine("SKU-1", 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "quantity must be positive")
	})
}

func TestConstructorGuardConcurrency(t *testing.T) {
	g := guard.NewConstructorGuard()
	validationError := errors.New("not constructed")

	done := make(chan bool)
	for range 50 {
		go func() {
			for range 200 {
				assert.NoError(t, g.Validate(validationError))
			}
			done <- true
		}()
	}
	for range 50 {
		<-done
	}
}
