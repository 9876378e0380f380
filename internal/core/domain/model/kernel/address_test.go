package kernel_test

import (
	"testing"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAddress() kernel.Address {
	return kernel.Address{
		FullName: "  Nguyen Van A ",
		Phone:    "0901234567",
		Line1:    "12 Ly Tu Trong",
		District: "Quận 1",
		City:     "Hồ Chí Minh",
		Province: "Hồ Chí Minh",
	}
}

func TestNewAddress(t *testing.T) {
	t.Run("trims fields and defaults country", func(t *testing.T) {
		a, err := kernel.NewAddress(validAddress())

		require.NoError(t, err)
		assert.Equal(t, "Nguyen Van A", a.FullName)
		assert.Equal(t, kernel.DefaultCountry, a.Country)
	})

	t.Run("reports every missing field", func(t *testing.T) {
		_, err := kernel.NewAddress(kernel.Address{FullName: "A", Line1: "x"})

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Contains(t, err.Error(), "address.phone")
		assert.Contains(t, err.Error(), "address.city")
		assert.Contains(t, err.Error(), "address.province")
	})

	t.Run("zero address", func(t *testing.T) {
		assert.True(t, kernel.Address{}.IsZero())
		assert.False(t, validAddress().IsZero())
	})
}

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hồ Chí Minh", "ho chi minh"},
		{"HO  CHI MINH", "ho chi minh"},
		{"Đà Nẵng", "da nang"},
		{"  Quận 1 ", "quan 1"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, kernel.Fold(tt.in))
		})
	}
}

func TestAddress_Destination(t *testing.T) {
	d := validAddress().Destination()

	assert.Equal(t, kernel.Destination{Province: "ho chi minh", City: "ho chi minh", District: "quan 1"}, d)
}

func TestNewCode(t *testing.T) {
	now := time.Date(2026, 1, 17, 10, 0, 0, 0, time.UTC)

	code := kernel.NewCode(kernel.OrderCodePrefix, now)

	assert.Len(t, code, 16)
	assert.Regexp(t, `^OD260117[A-Z2-7]{8}$`, code)
	assert.NotEqual(t, code, kernel.NewCode(kernel.OrderCodePrefix, now))
}
