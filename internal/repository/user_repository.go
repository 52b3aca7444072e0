package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "baldguard/internal/errors"
	"baldguard/internal/model"
)

// UserRepository defines persistence operations for the user directory.
type UserRepository interface {
	FindOrCreate(ctx context.Context, claims model.IdentityClaims) (user *model.User, isNew bool, err error)
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*model.User, error)
	FindByWalletAddress(ctx context.Context, address string) (*model.User, error)
	UpdateWalletAddress(ctx context.Context, id uint, address string) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// FindOrCreate looks the user up by provider subject first, then by email,
// inserting a new row when neither matches. Existing users get their mutable
// fields refreshed; the wallet address is never touched. A duplicate-key race
// on insert means the record exists now, so it is re-fetched and reported as
// not new.
func (r *userRepository) FindOrCreate(ctx context.Context, claims model.IdentityClaims) (*model.User, bool, error) {
	existing, err := r.lookup(ctx, claims)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	if existing != nil {
		if err := r.refresh(ctx, existing, claims); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	user := &model.User{
		Email:    claims.Email,
		Name:     claims.Name,
		Picture:  claims.Picture,
		GoogleID: claims.GoogleID,
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a creation race: the row exists now.
			existing, err = r.lookup(ctx, claims)
			if err != nil {
				return nil, false, err
			}
			return existing, false, nil
		}
		return nil, false, err
	}
	return user, true, nil
}

func (r *userRepository) lookup(ctx context.Context, claims model.IdentityClaims) (*model.User, error) {
	if claims.GoogleID != nil && *claims.GoogleID != "" {
		user, err := r.FindByGoogleID(ctx, *claims.GoogleID)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return r.FindByEmail(ctx, claims.Email)
}

// refresh updates the mutable fields of an existing user: name, picture, and
// a google_id backfill when the email path created the row first.
func (r *userRepository) refresh(ctx context.Context, user *model.User, claims model.IdentityClaims) error {
	updates := map[string]interface{}{"name": claims.Name}
	user.Name = claims.Name
	if claims.Picture != nil {
		updates["picture"] = claims.Picture
		user.Picture = claims.Picture
	}
	if claims.GoogleID != nil && user.GoogleID == nil {
		updates["google_id"] = claims.GoogleID
		user.GoogleID = claims.GoogleID
	}
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", user.ID).Updates(updates).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByGoogleID(ctx context.Context, googleID string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("google_id = ?", googleID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByWalletAddress(ctx context.Context, address string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("wallet_address = ?", address).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateWalletAddress assigns the wallet address exactly once. The guarded
// predicate makes the write a no-op when an address is already present, which
// is reported as ErrWalletAlreadyAssigned. A zero-row update is re-checked so
// a missing user reads as gorm.ErrRecordNotFound rather than a false conflict.
func (r *userRepository) UpdateWalletAddress(ctx context.Context, id uint, address string) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND wallet_address IS NULL", id).
		Update("wallet_address", address)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return apperrors.ErrWalletAlreadyAssigned
	}
	return nil
}
