package repo

import (
	"context"

	"github.com/vatrade/orchestrator/internal/entity"
	"gorm.io/gorm"
)

type CredentialRepo interface {
	FindByIdAndUser(ctx context.Context, id, userId int64) (entity.Credential, error)
}

type credentialRepo struct {
	db *gorm.DB
}

func NewCredentialRepo(db *gorm.DB) CredentialRepo {
	return &credentialRepo{
		db: db,
	}
}

func (repo *credentialRepo) FindByIdAndUser(ctx context.Context, id, userId int64) (entity.Credential, error) {
	var credential entity.Credential
	err := repo.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userId).First(&credential).Error
	if err != nil {
		return entity.Credential{}, err
	}
	return credential, nil
}
