// Package services composes tracker snapshots with the progress engines and
// the external collaborators. Controllers only talk to services.
package services

import (
	"github.com/rs/zerolog"

	"github.com/yigit/unitrack/internal/app/progress"
	"github.com/yigit/unitrack/internal/app/tracker"
	"github.com/yigit/unitrack/internal/pkg/auth"
	"github.com/yigit/unitrack/internal/pkg/gemini"
	"github.com/yigit/unitrack/internal/pkg/upload"
)

// Services holds every service of the application
type Services struct {
	Course   *CourseService
	Area     *AreaService
	Profile  *ProfileService
	Progress *ProgressService
	Backup   *BackupService
	Advisor  *AdvisorService
	Auth     *AuthService
}

// Options carries what the services are built from
type Options struct {
	Store          *tracker.Store
	Slots          SlotClearer
	Policy         progress.Policy
	Advisor        *gemini.Client
	JWT            *auth.JWTService
	PassphraseHash string
	Logger         zerolog.Logger
}

// NewServices creates all services
func NewServices(opts Options) *Services {
	lgr := opts.Logger
	return &Services{
		Course:   NewCourseService(opts.Store, lgr.With().Str("service", "course").Logger()),
		Area:     NewAreaService(opts.Store, opts.Policy, lgr.With().Str("service", "area").Logger()),
		Profile:  NewProfileService(opts.Store, upload.NewReader(upload.MaxSize, upload.ImageTypes, lgr), lgr.With().Str("service", "profile").Logger()),
		Progress: NewProgressService(opts.Store, opts.Policy),
		Backup:   NewBackupService(opts.Store, opts.Slots, lgr.With().Str("service", "backup").Logger()),
		Advisor: NewAdvisorService(opts.Store, opts.Advisor,
			upload.Transcripts(lgr), upload.Documents(lgr),
			lgr.With().Str("service", "advisor").Logger()),
		Auth: NewAuthService(opts.JWT, opts.PassphraseHash, lgr.With().Str("service", "auth").Logger()),
	}
}
