package services

import (
	"context"
	"mime/multipart"

	"github.com/rs/zerolog"

	"github.com/yigit/unitrack/internal/app/models"
	"github.com/yigit/unitrack/internal/app/tracker"
	"github.com/yigit/unitrack/internal/pkg/apperrors"
	"github.com/yigit/unitrack/internal/pkg/upload"
)

// ImageSlot names one of the two profile images
type ImageSlot string

const (
	ImagePicture ImageSlot = "picture"
	ImageLogo    ImageSlot = "logo"
)

// ProfileService handles the student profile and the view preference
type ProfileService struct {
	store  *tracker.Store
	images *upload.Reader
	logger zerolog.Logger
}

// NewProfileService creates a new profile service instance
func NewProfileService(store *tracker.Store, images *upload.Reader, lgr zerolog.Logger) *ProfileService {
	return &ProfileService{
		store:  store,
		images: images,
		logger: lgr,
	}
}

// Get returns the profile
func (s *ProfileService) Get() models.UserProfile {
	return s.store.Profile()
}

// Update replaces the profile. Images are kept when the request leaves them out.
func (s *ProfileService) Update(ctx context.Context, profile models.UserProfile) (models.UserProfile, error) {
	current := s.store.Profile()
	if profile.ProfilePicture == nil {
		profile.ProfilePicture = current.ProfilePicture
	}
	if profile.UniversityLogo == nil {
		profile.UniversityLogo = current.UniversityLogo
	}
	return s.store.UpdateProfile(ctx, profile)
}

// SetImage stores an uploaded image as the profile picture or university logo
func (s *ProfileService) SetImage(ctx context.Context, slot ImageSlot, fileHeader *multipart.FileHeader) (models.UserProfile, error) {
	file, err := s.images.ReadHeader(fileHeader)
	if err != nil {
		return models.UserProfile{}, err
	}
	return s.storeImage(ctx, slot, file.Data)
}

// ClearImage removes the profile picture or university logo
func (s *ProfileService) ClearImage(ctx context.Context, slot ImageSlot) (models.UserProfile, error) {
	return s.storeImage(ctx, slot, nil)
}

func (s *ProfileService) storeImage(ctx context.Context, slot ImageSlot, data []byte) (models.UserProfile, error) {
	profile := s.store.Profile()
	switch slot {
	case ImagePicture:
		profile.ProfilePicture = data
	case ImageLogo:
		profile.UniversityLogo = data
	default:
		return models.UserProfile{}, apperrors.NewBadRequestError("unknown image slot")
	}
	updated, err := s.store.UpdateProfile(ctx, profile)
	if err != nil {
		return models.UserProfile{}, err
	}
	s.logger.Info().Str("slot", string(slot)).Int("bytes", len(data)).Msg("Profile image updated")
	return updated, nil
}

// ViewMode returns the persisted view preference
func (s *ProfileService) ViewMode() models.ViewMode {
	return s.store.ViewMode()
}

// SetViewMode persists the view preference
func (s *ProfileService) SetViewMode(ctx context.Context, raw string) (models.ViewMode, error) {
	mode := models.ViewMode(raw)
	if !mode.Valid() {
		return "", apperrors.ErrInvalidViewMode
	}
	if err := s.store.SetViewMode(ctx, mode); err != nil {
		return "", err
	}
	return mode, nil
}

// Status reports persistence progress
func (s *ProfileService) Status() tracker.SaveStatus {
	return s.store.SaveStatus()
}
