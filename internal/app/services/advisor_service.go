package services

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yigit/unitrack/internal/app/models"
	"github.com/yigit/unitrack/internal/app/tracker"
	"github.com/yigit/unitrack/internal/pkg/gemini"
	"github.com/yigit/unitrack/internal/pkg/upload"
)

// Advisor is the generative service used by AdvisorService
type Advisor interface {
	Configured() bool
	Advice(ctx context.Context, courses []models.Course, areas []models.Area) (string, error)
	ReportSummary(ctx context.Context, courses []models.Course, areas []models.Area) (string, error)
	ParseTranscript(ctx context.Context, image []byte, mimeType string) ([]models.PartialCourse, error)
	InferCurriculum(ctx context.Context, doc []byte, mimeType string) ([]models.Area, error)
}

var _ Advisor = (*gemini.Client)(nil)

// AdvisorService wraps the generative advisor with the current record and
// the upload checks
type AdvisorService struct {
	store       *tracker.Store
	advisor     Advisor
	transcripts *upload.Reader
	documents   *upload.Reader
	logger      zerolog.Logger
}

// NewAdvisorService creates a new advisor service instance
func NewAdvisorService(store *tracker.Store, advisor Advisor, transcripts, documents *upload.Reader, lgr zerolog.Logger) *AdvisorService {
	return &AdvisorService{
		store:       store,
		advisor:     advisor,
		transcripts: transcripts,
		documents:   documents,
		logger:      lgr,
	}
}

// Configured reports whether the generative service has credentials
func (s *AdvisorService) Configured() bool {
	return s.advisor.Configured()
}

// Advice returns a next-steps recommendation for the current record
func (s *AdvisorService) Advice(ctx context.Context) (string, error) {
	snap := s.store.Snapshot()
	return s.advisor.Advice(ctx, snap.Courses, snap.Areas)
}

// ReportSummary returns the narrative paragraph of the exported report
func (s *AdvisorService) ReportSummary(ctx context.Context) (string, error) {
	snap := s.store.Snapshot()
	return s.advisor.ReportSummary(ctx, snap.Courses, snap.Areas)
}

// PreviewTranscript extracts course rows from an uploaded transcript image.
// Nothing is stored; the caller confirms through the import endpoint.
func (s *AdvisorService) PreviewTranscript(ctx context.Context, fileHeader *multipart.FileHeader) (upload.File, []models.PartialCourse, error) {
	file, err := s.transcripts.ReadHeader(fileHeader)
	if err != nil {
		return upload.File{}, nil, err
	}
	rows, err := s.advisor.ParseTranscript(ctx, file.Data, file.MIME)
	if err != nil {
		s.logger.Warn().Err(err).Str("file", file.Name).Msg("Transcript extraction failed")
		return file, nil, err
	}

	areas := s.store.Areas()
	for i := range rows {
		if rows[i].Area == nil {
			continue
		}
		if id, ok := ResolveArea(*rows[i].Area, areas); ok {
			rows[i].Area = &id
		} else {
			rows[i].Area = nil
		}
	}
	s.logger.Info().Str("file", file.Name).Int("rows", len(rows)).Msg("Transcript extracted")
	return file, rows, nil
}

// SuggestCurriculum infers a module-area structure from an uploaded document.
// The caller applies it through the area replace endpoint.
func (s *AdvisorService) SuggestCurriculum(ctx context.Context, fileHeader *multipart.FileHeader) (upload.File, []models.Area, error) {
	file, err := s.documents.ReadHeader(fileHeader)
	if err != nil {
		return upload.File{}, nil, err
	}
	areas, err := s.advisor.InferCurriculum(ctx, file.Data, file.MIME)
	if err != nil {
		s.logger.Warn().Err(err).Str("file", file.Name).Msg("Curriculum inference failed")
		return file, nil, err
	}
	s.logger.Info().Str("file", file.Name).Int("areas", len(areas)).Msg("Curriculum inferred")
	return file, areas, nil
}

// ResolveArea maps an area hint from a transcript onto a configured area id.
// It tries the exact id, then the id prefix or name (case-insensitive), then
// "thesis" against the thesis-behavior area.
func ResolveArea(hint string, areas []models.Area) (string, bool) {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return "", false
	}
	if i := models.FindArea(areas, hint); i >= 0 {
		return areas[i].ID, true
	}
	hintPrefix := models.AreaPrefix(hint)
	for _, a := range areas {
		if strings.EqualFold(a.Prefix(), hintPrefix) || strings.EqualFold(a.Name, hint) {
			return a.ID, true
		}
	}
	if strings.Contains(strings.ToLower(hint), "thesis") {
		for _, a := range areas {
			if a.Behavior == models.BehaviorThesis {
				return a.ID, true
			}
		}
	}
	return "", false
}
