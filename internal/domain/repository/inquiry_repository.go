package repository

import (
	"context"

	"closetshop/internal/domain/entity"
)

type InquiryRepository interface {
	Load(ctx context.Context) ([]*entity.Inquiry, error)
	Subscribe(ctx context.Context, onChange func([]*entity.Inquiry)) func()
	Submit(ctx context.Context, inquiry *entity.Inquiry) error
	Delete(ctx context.Context, id string) ([]*entity.Inquiry, error)
}
