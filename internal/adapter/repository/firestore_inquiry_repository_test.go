package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"closetshop/internal/domain/entity"
	"closetshop/pkg/errors"
)

// Submit must reject invalid input before touching the client; a nil client
// would panic if any of these reached the write path.
func TestSubmitValidatesBeforeWriting(t *testing.T) {
	repo := &firestoreInquiryRepository{client: nil}

	cases := []struct {
		name    string
		inquiry *entity.Inquiry
		message string
	}{
		{"missing name", &entity.Inquiry{Email: "a@b.co", Phone: "5551234567"}, "Missing required inquiry fields"},
		{"missing phone", &entity.Inquiry{Name: "A", Email: "a@b.co"}, "Missing required inquiry fields"},
		{"invalid email", &entity.Inquiry{Name: "A", Email: "not-an-email", Phone: "5551234567"}, "Invalid email address"},
		{"nine digit phone", &entity.Inquiry{Name: "A", Email: "a@b.co", Phone: "555123456"}, "Invalid phone number"},
		{"letters in phone", &entity.Inquiry{Name: "A", Email: "a@b.co", Phone: "call me"}, "Invalid phone number"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := repo.Submit(context.Background(), tc.inquiry)
			require.Error(t, err)
			assert.True(t, errors.Is(err, "BAD_REQUEST"))
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}
